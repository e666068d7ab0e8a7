package broker

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avvvet/cavacamisa-services/internal/comm"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

var ErrInstanceRunning = errors.New("another game service instance is running")

// Claimer is the part of *nats.Conn used to claim the game service role.
type Claimer interface {
	Request(subj string, data []byte, timeout time.Duration) (*nats.Msg, error)
	Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// ClaimInstance fails with ErrInstanceRunning when another game service
// already answers on the bus, otherwise it answers for this one until the
// returned subscription is dropped. Games live in process memory, so only
// one instance may consume socket.service.
func ClaimInstance(conn Claimer, id string, wait time.Duration) (*nats.Subscription, error) {
	msg, err := conn.Request(comm.TopicGameInstance, []byte(id), wait)
	switch {
	case err == nil:
		var other comm.ServiceInstance
		if err := json.Unmarshal(msg.Data, &other); err != nil {
			return nil, fmt.Errorf("%w: unreadable reply %q", ErrInstanceRunning, msg.Data)
		}
		return nil, fmt.Errorf("%w: %s since %s", ErrInstanceRunning, other.ID, other.Started.Format(time.RFC3339))
	case errors.Is(err, nats.ErrNoResponders), errors.Is(err, nats.ErrTimeout):
	default:
		return nil, err
	}

	self, err := json.Marshal(comm.ServiceInstance{ID: id, Started: time.Now().UTC()})
	if err != nil {
		return nil, err
	}
	return conn.Subscribe(comm.TopicGameInstance, func(m *nats.Msg) {
		log.Warnf("game service instance %s tried to start", m.Data)
		if err := m.Respond(self); err != nil {
			log.Errorf("Error answering instance claim: %s", err)
		}
	})
}
