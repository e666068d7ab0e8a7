package broker

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/avvvet/cavacamisa-services/internal/comm"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClaimer struct {
	reply      *nats.Msg
	err        error
	subscribed []string
	handler    nats.MsgHandler
}

func (f *fakeClaimer) Request(subj string, data []byte, timeout time.Duration) (*nats.Msg, error) {
	return f.reply, f.err
}

func (f *fakeClaimer) Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error) {
	f.subscribed = append(f.subscribed, subj)
	f.handler = cb
	return &nats.Subscription{Subject: subj}, nil
}

func TestClaimInstanceRefusesSecondInstance(t *testing.T) {
	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	data, err := json.Marshal(comm.ServiceInstance{ID: "game-a", Started: started})
	require.NoError(t, err)
	conn := &fakeClaimer{reply: &nats.Msg{Data: data}}

	sub, err := ClaimInstance(conn, "game-b", time.Second)
	assert.ErrorIs(t, err, ErrInstanceRunning)
	assert.Contains(t, err.Error(), "game-a")
	assert.Nil(t, sub)
	assert.Empty(t, conn.subscribed)
}

func TestClaimInstanceAnswersWhenAlone(t *testing.T) {
	for _, lonely := range []error{nats.ErrNoResponders, nats.ErrTimeout} {
		conn := &fakeClaimer{err: lonely}

		sub, err := ClaimInstance(conn, "game-a", time.Second)
		require.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, []string{comm.TopicGameInstance}, conn.subscribed)
		require.NotNil(t, conn.handler)
	}
}

func TestClaimInstancePassesBusErrors(t *testing.T) {
	down := errors.New("connection closed")
	conn := &fakeClaimer{err: down}

	_, err := ClaimInstance(conn, "game-a", time.Second)
	assert.ErrorIs(t, err, down)
	assert.NotErrorIs(t, err, ErrInstanceRunning)
	assert.Empty(t, conn.subscribed)
}
