package ws

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/avvvet/cavacamisa-services/internal/comm"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var ErrUnknownSocket = errors.New("unknown socket")

// Publisher forwards client commands to the game service.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// client serialises writes, gorilla connections allow one writer at a time.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

type Ws struct {
	connMap sync.Map // to keep track of socket connection with socketId
	roomMap sync.Map // socketId -> gameId the socket joined or watches
	Broker  Publisher
}

func NewWs() *Ws {
	return &Ws{}
}

// handle socket message from web clients
func (s *Ws) SocketMessage(socketId string, message *comm.WSMessage) {
	switch message.Type {
	case comm.TypeCreatePlayer, comm.TypeListGames:
		s.forward(socketId, message)

	case comm.TypeJoinGame, comm.TypeWatchGame:
		cmd, ok := s.gameCommand(socketId, message)
		if !ok {
			return
		}
		s.StoreRoom(socketId, cmd.GameId)
		s.forward(socketId, message)

	case comm.TypePlayCard, comm.TypeGetGame:
		if _, ok := s.gameCommand(socketId, message); !ok {
			return
		}
		s.forward(socketId, message)

	default:
		log.Warnf("unknown event received: %s", message.Type)
		s.SendError(socketId, "unknown message type: "+message.Type)
	}
}

func (s *Ws) gameCommand(socketId string, msg *comm.WSMessage) (comm.GameCommand, bool) {
	var cmd comm.GameCommand
	if err := json.Unmarshal(msg.Data, &cmd); err != nil {
		log.Errorf("Error: malformed %s payload from socket %s: %s", msg.Type, socketId, err)
		s.SendError(socketId, "malformed "+msg.Type+" payload")
		return cmd, false
	}
	if cmd.GameId == "" {
		s.SendError(socketId, msg.Type+" requires game_id")
		return cmd, false
	}
	return cmd, true
}

// forward stamps the socket id on the message and publishes it to the game service.
func (s *Ws) forward(socketId string, msg *comm.WSMessage) {
	msg.SocketId = socketId

	bytes, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Failed to marshal WSMessage for NATS: %v", err)
		return
	}

	topic := comm.TopicSocketService
	if err := s.Broker.Publish(topic, bytes); err != nil {
		log.Errorf("Failed to publish to NATS topic %s: %v", topic, err)
		s.SendError(socketId, "game service unavailable")
		return
	}

	log.Debugf("Published %s message from socket %s to topic %s", msg.Type, socketId, topic)
}

func (s *Ws) StoreConnection(socketId string, conn *websocket.Conn) {
	s.connMap.Store(socketId, &client{conn: conn})
}

func (s *Ws) GetConnection(socketId string) (*websocket.Conn, bool) {
	c, ok := s.connMap.Load(socketId)
	if !ok {
		return nil, false
	}
	return c.(*client).conn, true
}

// Send writes v as JSON to the socket.
func (s *Ws) Send(socketId string, v interface{}) error {
	c, ok := s.connMap.Load(socketId)
	if !ok {
		return ErrUnknownSocket
	}
	cl := c.(*client)
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.conn.WriteJSON(v)
}

func (s *Ws) SendError(socketId, errorMsg string) {
	data, _ := json.Marshal(comm.ErrorData{Error: errorMsg})
	msg := &comm.WSMessage{Type: comm.TypeError, Data: data, SocketId: socketId}
	if err := s.Send(socketId, msg); err != nil && !errors.Is(err, ErrUnknownSocket) {
		log.Errorf("Failed to send error message to socket %s: %v", socketId, err)
	}
}

// a socket follows one game at a time; joining another moves it
func (s *Ws) StoreRoom(socketId string, roomId string) {
	s.roomMap.Store(socketId, roomId)
}

func (s *Ws) GetRoom(socketId string) (string, bool) {
	room, ok := s.roomMap.Load(socketId)
	if !ok {
		return "", false
	}
	return room.(string), true
}

func (s *Ws) GetRoomSockets(roomId string) ([]string, bool) {
	var sockets []string
	found := false

	s.roomMap.Range(func(key, value interface{}) bool {
		if value.(string) == roomId {
			sockets = append(sockets, key.(string))
			found = true
		}
		return true // continue iterating
	})

	return sockets, found
}

func (s *Ws) HandleDisconnect(socketId string) {
	s.connMap.Delete(socketId)
	if room, ok := s.GetRoom(socketId); ok {
		log.Infof("socket %s left game %s", socketId, room)
	}
	s.roomMap.Delete(socketId)
}
