package broker

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/avvvet/cavacamisa-services/internal/comm"
	"github.com/avvvet/cavacamisa-services/internal/gamesvc/models"
	"github.com/avvvet/cavacamisa-services/internal/gamesvc/service"
	"github.com/avvvet/cavacamisa-services/internal/gamesvc/store"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu       sync.Mutex
	messages []comm.WSMessage
	subjects []string
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	var msg comm.WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subjects = append(f.subjects, subject)
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakePublisher) take() []comm.WSMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.messages
	f.messages = nil
	return out
}

func newTestBroker() (*Broker, *fakePublisher) {
	playerStore := store.NewPlayerStore()
	games := service.NewGameService(store.NewGameStore(), playerStore, store.NewMemoryResultStore(), models.Rules{})
	pub := &fakePublisher{}
	b := newBroker(pub, games, service.NewPlayerService(playerStore))
	games.SetNotifier(b)
	return b, pub
}

func send(t *testing.T, b *Broker, msgType, socketId string, data interface{}) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	payload, err := json.Marshal(comm.WSMessage{Type: msgType, Data: raw, SocketId: socketId})
	require.NoError(t, err)
	b.handleMessage(&nats.Msg{Subject: comm.TopicSocketService, Data: payload})
}

func payload[T any](t *testing.T, msg comm.WSMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(msg.Data, &v))
	return v
}

func TestCreatePlayerReplyGoesToSocket(t *testing.T) {
	b, pub := newTestBroker()

	send(t, b, comm.TypeCreatePlayer, "s1", comm.CreatePlayerRequest{Name: "Anna"})

	msgs := pub.take()
	require.Len(t, msgs, 1)
	assert.Equal(t, "create-player-response", msgs[0].Type)
	assert.Equal(t, "s1", msgs[0].SocketId)
	assert.Equal(t, "Anna", payload[comm.PlayerData](t, msgs[0]).Name)
	assert.Equal(t, []string{comm.TopicGameService}, pub.subjects)
}

func TestJoinAndPlayBroadcastUpdates(t *testing.T) {
	b, pub := newTestBroker()
	game, err := b.GameService.CreateGame(context.Background())
	require.NoError(t, err)

	send(t, b, comm.TypeCreatePlayer, "s1", comm.CreatePlayerRequest{Name: "Anna"})
	send(t, b, comm.TypeCreatePlayer, "s2", comm.CreatePlayerRequest{Name: "Bruno"})
	msgs := pub.take()
	anna := payload[comm.PlayerData](t, msgs[0])
	bruno := payload[comm.PlayerData](t, msgs[1])

	send(t, b, comm.TypeJoinGame, "s1", comm.GameCommand{GameId: game.ID, PlayerId: anna.ID})
	send(t, b, comm.TypeJoinGame, "s2", comm.GameCommand{GameId: game.ID, PlayerId: bruno.ID})
	msgs = pub.take()
	require.Len(t, msgs, 4)
	assert.Equal(t, comm.TypeGameUpdated, msgs[0].Type)
	assert.Equal(t, game.ID, msgs[0].GameId)
	assert.Empty(t, msgs[0].SocketId)
	assert.Equal(t, "join-game-response", msgs[1].Type)
	assert.Equal(t, "s1", msgs[1].SocketId)
	assert.Equal(t, "Game in progress", payload[comm.GameData](t, msgs[3]).State)

	send(t, b, comm.TypePlayCard, "s1", comm.GameCommand{GameId: game.ID, PlayerId: anna.ID})
	msgs = pub.take()
	require.Len(t, msgs, 2)
	assert.Equal(t, comm.TypeGameUpdated, msgs[0].Type)
	assert.Equal(t, "play-card-response", msgs[1].Type)
	assert.Len(t, payload[comm.GameData](t, msgs[1]).TableCards, 1)
}

func TestErrorsReplyWithErrorType(t *testing.T) {
	b, pub := newTestBroker()

	send(t, b, comm.TypePlayCard, "s1", comm.GameCommand{GameId: "missing", PlayerId: "p"})
	send(t, b, "dance", "s1", nil)
	send(t, b, comm.TypeGetGame, "s1", "not an object")

	msgs := pub.take()
	require.Len(t, msgs, 3)
	for _, msg := range msgs {
		assert.Equal(t, comm.TypeError, msg.Type)
		assert.Equal(t, "s1", msg.SocketId)
		assert.NotEmpty(t, payload[comm.ErrorData](t, msg).Error)
	}
	assert.Contains(t, payload[comm.ErrorData](t, msgs[0]).Error, "game not found")
}

func TestGetGameReply(t *testing.T) {
	b, pub := newTestBroker()
	game, err := b.GameService.CreateGame(context.Background())
	require.NoError(t, err)

	send(t, b, comm.TypeWatchGame, "s9", comm.GameCommand{GameId: game.ID})

	msgs := pub.take()
	require.Len(t, msgs, 1)
	assert.Equal(t, "watch-game-response", msgs[0].Type)
	assert.Equal(t, game.ID, payload[comm.GameData](t, msgs[0]).ID)
}

func TestListGamesReply(t *testing.T) {
	b, pub := newTestBroker()
	for i := 0; i < 2; i++ {
		_, err := b.GameService.CreateGame(context.Background())
		require.NoError(t, err)
	}

	send(t, b, comm.TypeListGames, "robot", struct{}{})

	msgs := pub.take()
	require.Len(t, msgs, 1)
	assert.Equal(t, "list-games-response", msgs[0].Type)
	assert.Equal(t, "robot", msgs[0].SocketId)
	assert.Len(t, payload[[]comm.GameData](t, msgs[0]), 2)
}
