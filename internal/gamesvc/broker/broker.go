package broker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/avvvet/cavacamisa-services/internal/comm"
	"github.com/avvvet/cavacamisa-services/internal/gamesvc/service"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

const requestTimeout = 10 * time.Second

// Publisher is the part of *nats.Conn the broker publishes through.
type Publisher interface {
	Publish(subject string, data []byte) error
}

type Broker struct {
	Conn          *nats.Conn
	pub           Publisher
	GameService   *service.GameService
	PlayerService *service.PlayerService
}

func NewBroker(nc *nats.Conn, gameService *service.GameService, playerService *service.PlayerService) *Broker {
	b := newBroker(nc, gameService, playerService)
	b.Conn = nc
	return b
}

func newBroker(pub Publisher, gameService *service.GameService, playerService *service.PlayerService) *Broker {
	return &Broker{
		pub:           pub,
		GameService:   gameService,
		PlayerService: playerService,
	}
}

// handles message coming from socket
func (b *Broker) handleMessage(msgNat *nats.Msg) {
	msg := &comm.WSMessage{}
	if err := json.Unmarshal(msgNat.Data, &msg); err != nil {
		log.Errorf("Error nats message %s", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	switch msg.Type {
	case comm.TypeCreatePlayer:
		var request comm.CreatePlayerRequest
		if !b.decode(msg, &request) {
			return
		}
		player, err := b.PlayerService.CreatePlayer(ctx, request.Name)
		if err != nil {
			b.PublishError(msg, err)
			return
		}
		b.PublishResponse(msg, player)

	case comm.TypeJoinGame:
		var request comm.GameCommand
		if !b.decode(msg, &request) {
			return
		}
		game, err := b.GameService.JoinGame(ctx, request.GameId, request.PlayerId)
		if err != nil {
			b.PublishError(msg, err)
			return
		}
		b.PublishResponse(msg, game)

	case comm.TypeWatchGame, comm.TypeGetGame:
		var request comm.GameCommand
		if !b.decode(msg, &request) {
			return
		}
		game, err := b.GameService.GetGame(ctx, request.GameId)
		if err != nil {
			b.PublishError(msg, err)
			return
		}
		b.PublishResponse(msg, game)

	case comm.TypeListGames:
		b.PublishResponse(msg, b.GameService.ListGames(ctx))

	case comm.TypePlayCard:
		var request comm.GameCommand
		if !b.decode(msg, &request) {
			return
		}
		game, err := b.GameService.PlayCard(ctx, request.GameId, request.PlayerId)
		if err != nil {
			b.PublishError(msg, err)
			return
		}
		b.PublishResponse(msg, game)

	default:
		log.Warnf("unknown message type received: %s", msg.Type)
		b.PublishError(msg, errUnknownType(msg.Type))
	}
}

type errUnknownType string

func (e errUnknownType) Error() string { return "unknown message type: " + string(e) }

func (b *Broker) decode(msg *comm.WSMessage, v interface{}) bool {
	if err := json.Unmarshal(msg.Data, v); err != nil {
		log.Errorf("Error unmarshalling %s: %s", msg.Type, err)
		b.PublishError(msg, err)
		return false
	}
	return true
}

// GameUpdated broadcasts the game to every socket watching it.
func (b *Broker) GameUpdated(g comm.GameData) {
	b.publish(comm.TypeGameUpdated, g, "", g.ID)
}

// PublishResponse answers a client command on its socket.
func (b *Broker) PublishResponse(request *comm.WSMessage, data interface{}) {
	b.publish(comm.ResponseType(request.Type), data, request.SocketId, "")
}

func (b *Broker) PublishError(request *comm.WSMessage, err error) {
	b.publish(comm.TypeError, comm.ErrorData{Error: err.Error()}, request.SocketId, "")
}

func (b *Broker) publish(msgType string, v interface{}, socketId, gameId string) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Errorf("error [%s] unable to marshal data for socket %s: %s", msgType, socketId, err)
		return
	}

	msg := &comm.WSMessage{
		Type:     msgType,
		Data:     data,
		SocketId: socketId,
		GameId:   gameId,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Error %s", err)
		return
	}

	b.Publish(comm.TopicGameService, payload)
}

// consume message from socket service
func (b *Broker) SubscribSocketService(topic string) (*nats.Subscription, error) {
	return b.Conn.Subscribe(topic, b.handleMessage)
}

func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.pub.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}
