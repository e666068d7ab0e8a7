package broker

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/avvvet/cavacamisa-services/internal/comm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type delivery struct {
	socketId string
	msg      *comm.WSMessage
}

func newTestBroker(rooms map[string][]string) (*Broker, *[]delivery) {
	var sent []delivery
	send := func(socketId string, v interface{}) error {
		if socketId == "gone" {
			return errors.New("closed")
		}
		sent = append(sent, delivery{socketId, v.(*comm.WSMessage)})
		return nil
	}
	getRoom := func(gameId string) ([]string, bool) {
		s, ok := rooms[gameId]
		return s, ok
	}
	return NewBroker(nil, send, getRoom), &sent
}

func encode(t *testing.T, m comm.WSMessage) []byte {
	t.Helper()
	raw, err := json.Marshal(m)
	require.NoError(t, err)
	return raw
}

func TestResponsesGoToTheRequestingSocket(t *testing.T) {
	b, sent := newTestBroker(nil)

	b.route(encode(t, comm.WSMessage{Type: comm.ResponseType(comm.TypePlayCard), Data: json.RawMessage(`{}`), SocketId: "s1"}))
	b.route(encode(t, comm.WSMessage{Type: comm.TypeError, Data: json.RawMessage(`{"error":"x"}`), SocketId: "s2"}))

	require.Len(t, *sent, 2)
	assert.Equal(t, "s1", (*sent)[0].socketId)
	assert.Equal(t, "play-card-response", (*sent)[0].msg.Type)
	assert.Equal(t, "s2", (*sent)[1].socketId)
}

func TestGameUpdatedFansOutToRoom(t *testing.T) {
	b, sent := newTestBroker(map[string][]string{"g1": {"a", "gone", "b"}})

	b.route(encode(t, comm.WSMessage{Type: comm.TypeGameUpdated, Data: json.RawMessage(`{}`), GameId: "g1"}))
	b.route(encode(t, comm.WSMessage{Type: comm.TypeGameUpdated, Data: json.RawMessage(`{}`), GameId: "nobody"}))

	require.Len(t, *sent, 2)
	assert.Equal(t, "a", (*sent)[0].socketId)
	assert.Equal(t, "b", (*sent)[1].socketId)
}

func TestUnroutableMessagesAreDropped(t *testing.T) {
	b, sent := newTestBroker(nil)

	b.route([]byte("not json"))
	b.route(encode(t, comm.WSMessage{Type: "mystery", SocketId: "s1"}))
	b.route(encode(t, comm.WSMessage{Type: comm.TypeError}))

	assert.Empty(t, *sent)
}
