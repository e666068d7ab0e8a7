package broker

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/avvvet/cavacamisa-services/internal/comm"
	"github.com/avvvet/cavacamisa-services/internal/socketsvc/ws"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

type Broker struct {
	Conn           *nats.Conn
	Send           func(string, interface{}) error
	GetRoomSockets func(string) ([]string, bool)
}

func NewBroker(conn *nats.Conn, fncSend func(string, interface{}) error, fncGetRoomSockets func(string) ([]string, bool)) *Broker {
	return &Broker{
		Conn:           conn,
		Send:           fncSend,
		GetRoomSockets: fncGetRoomSockets,
	}
}

// consume message from game service
func (b *Broker) Subscribe(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessages)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// publish message to game service
func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.Conn.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}

// handleMessages receive message from game service
func (b *Broker) handleMessages(msgNats *nats.Msg) {
	b.route(msgNats.Data)
}

func (b *Broker) route(data []byte) {
	message := &comm.WSMessage{}
	if err := json.Unmarshal(data, &message); err != nil {
		log.Errorf("Error %s", err)
		return
	}

	switch {
	case message.Type == comm.TypeGameUpdated:
		b.broadcast(message)
	case message.Type == comm.TypeError, strings.HasSuffix(message.Type, "-response"):
		b.sendMessage(message.SocketId, message)
	default:
		log.Errorf("Unknown message %s", message.Type)
	}
}

// broadcast sends a game update to every socket in the game's room.
func (b *Broker) broadcast(m *comm.WSMessage) {
	sockets, ok := b.GetRoomSockets(m.GameId)
	if !ok {
		return
	}
	for _, socketId := range sockets {
		b.sendMessage(socketId, m)
	}
}

// send socket message to the web client
func (b *Broker) sendMessage(socketId string, m *comm.WSMessage) {
	if socketId == "" {
		log.Warnf("%s message without socket id dropped", m.Type)
		return
	}
	if err := b.Send(socketId, m); err != nil {
		// replies for robots and other gateways share the subject
		if errors.Is(err, ws.ErrUnknownSocket) {
			log.Debugf("%s for socket %s not held here", m.Type, socketId)
			return
		}
		log.Warnf("unable to deliver %s to socket %s: %s", m.Type, socketId, err)
	}
}
