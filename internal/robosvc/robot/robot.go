package robot

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/avvvet/cavacamisa-services/internal/comm"
	"github.com/avvvet/cavacamisa-services/internal/gamesvc/models"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// Publisher is the part of *nats.Conn the robot publishes through.
type Publisher interface {
	Publish(subject string, data []byte) error
}

type Options struct {
	// Patience is how long a game must wait for an opponent before a robot takes the seat.
	Patience time.Duration
	// PlayDelay is the pause before a robot plays its card.
	PlayDelay time.Duration
	// MaxGames caps the games robots sit in at once.
	MaxGames int
	// ReplyTimeout is how long a created robot may take to come back before
	// its game is offered to a new one.
	ReplyTimeout time.Duration
}

// pendingSeat is a game waiting for the robot player created for it.
type pendingSeat struct {
	gameId string
	sent   time.Time
}

// Robot seats computer opponents in games left waiting for a second player
// and plays their cards when it is their turn.
type Robot struct {
	socketId string
	pub      Publisher
	opts     Options
	now      func() time.Time
	after    func(time.Duration, func())

	mu        sync.Mutex
	firstSeen map[string]time.Time // waiting game -> when it was first listed
	pending   map[string]pendingSeat // robot name -> game it was created for
	seats     map[string]string    // game -> robot player id
	robots    map[string]bool      // robot player ids
	playing   map[string]bool      // games with a play scheduled
	count     int
}

func New(pub Publisher, socketId string, opts Options) *Robot {
	if opts.MaxGames <= 0 {
		opts.MaxGames = 10
	}
	if opts.ReplyTimeout <= 0 {
		opts.ReplyTimeout = 30 * time.Second
	}
	return &Robot{
		socketId:  socketId,
		pub:       pub,
		opts:      opts,
		now:       time.Now,
		after:     func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		firstSeen: map[string]time.Time{},
		pending:   map[string]pendingSeat{},
		seats:     map[string]string{},
		robots:    map[string]bool{},
		playing:   map[string]bool{},
	}
}

// Monitor asks for the game list every interval until stop is closed.
func (r *Robot) Monitor(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("Game monitoring started - checking every %s", interval)
	for {
		select {
		case <-ticker.C:
			r.send(comm.TypeListGames, struct{}{})
		case <-stop:
			return
		}
	}
}

// HandleMessage consumes a message published by the game service.
func (r *Robot) HandleMessage(msgNats *nats.Msg) {
	r.Handle(msgNats.Data)
}

func (r *Robot) Handle(data []byte) {
	var msg comm.WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Errorf("Failed to unmarshal WSMessage: %v", err)
		return
	}

	if msg.Type == comm.TypeGameUpdated {
		r.onGame(msg.Data)
		return
	}
	if msg.SocketId != r.socketId {
		return
	}

	switch msg.Type {
	case comm.ResponseType(comm.TypeListGames):
		var games []comm.GameData
		if err := json.Unmarshal(msg.Data, &games); err != nil {
			log.Errorf("Failed to unmarshal game list: %v", err)
			return
		}
		r.onGameList(games)

	case comm.ResponseType(comm.TypeCreatePlayer):
		var player comm.PlayerData
		if err := json.Unmarshal(msg.Data, &player); err != nil {
			log.Errorf("Failed to unmarshal robot player: %v", err)
			return
		}
		r.onPlayerCreated(player)

	case comm.ResponseType(comm.TypeJoinGame), comm.ResponseType(comm.TypePlayCard):
		r.onGame(msg.Data)

	case comm.TypeError:
		var e comm.ErrorData
		_ = json.Unmarshal(msg.Data, &e)
		log.Warnf("robot request failed: %s", e.Error)
	}
}

func (r *Robot) onGameList(games []comm.GameData) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	listed := map[string]bool{}
	known := map[string]comm.GameData{}
	for _, g := range games {
		known[g.ID] = g
		if g.State == models.WaitingForPlayers.String() && len(g.Players) == 1 {
			listed[g.ID] = true
		}
	}
	// a create reply that never came back must not hold the game or a slot
	for name, p := range r.pending {
		if !listed[p.gameId] || now.Sub(p.sent) >= r.opts.ReplyTimeout {
			log.Warnf("%s never came back, releasing game %s", name, p.gameId)
			delete(r.pending, name)
		}
	}

	for _, g := range games {
		if !listed[g.ID] {
			continue
		}
		if r.robots[g.Players[0].ID] || r.seated(g.ID) {
			continue
		}
		first, ok := r.firstSeen[g.ID]
		if !ok {
			r.firstSeen[g.ID] = now
			first = now
		}
		if now.Sub(first) < r.opts.Patience {
			continue
		}
		if len(r.seats)+len(r.pending) >= r.opts.MaxGames {
			log.Warnf("robots busy in %d games, game %s keeps waiting", len(r.seats), g.ID)
			continue
		}

		r.count++
		name := fmt.Sprintf("Robot %d", r.count)
		r.pending[name] = pendingSeat{gameId: g.ID, sent: now}
		delete(r.firstSeen, g.ID)
		log.Printf("Game %s waited %s - creating robot opponent", g.ID, now.Sub(first))
		r.send(comm.TypeCreatePlayer, comm.CreatePlayerRequest{Name: name})
	}

	for id := range r.firstSeen {
		if !listed[id] {
			delete(r.firstSeen, id)
		}
	}
	// deleted games and lost joins never send a final update
	for id, playerId := range r.seats {
		g, ok := known[id]
		if !ok || (g.State != models.WaitingForPlayers.String() && !hasPlayer(g, playerId)) {
			delete(r.seats, id)
			delete(r.robots, playerId)
		}
	}
}

func hasPlayer(g comm.GameData, playerId string) bool {
	for _, p := range g.Players {
		if p.ID == playerId {
			return true
		}
	}
	return false
}

func (r *Robot) seated(gameId string) bool {
	if _, ok := r.seats[gameId]; ok {
		return true
	}
	for _, p := range r.pending {
		if p.gameId == gameId {
			return true
		}
	}
	return false
}

func (r *Robot) onPlayerCreated(player comm.PlayerData) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.robots[player.ID] = true
	p, ok := r.pending[player.Name]
	if !ok {
		log.Warnf("robot player %s (%s) created with no game to join", player.ID, player.Name)
		return
	}
	delete(r.pending, player.Name)
	gameId := p.gameId
	r.seats[gameId] = player.ID

	log.Printf("%s joining game %s", player.Name, gameId)
	r.send(comm.TypeJoinGame, comm.GameCommand{GameId: gameId, PlayerId: player.ID})
}

// onGame schedules a play when a robot holds the turn and forgets finished games.
func (r *Robot) onGame(raw json.RawMessage) {
	var g comm.GameData
	if err := json.Unmarshal(raw, &g); err != nil {
		log.Errorf("Failed to unmarshal GameData: %v", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	playerId, ok := r.seats[g.ID]
	if !ok {
		return
	}

	if g.GameFinished {
		delete(r.seats, g.ID)
		delete(r.playing, g.ID)
		delete(r.robots, playerId)
		result := "no winner"
		if g.Winner != nil {
			result = "winner " + g.Winner.Name
		}
		log.Printf("Game %s finished after %d moves, %s", g.ID, g.Moves, result)
		return
	}

	if g.State != models.Playing.String() || r.playing[g.ID] {
		return
	}
	if g.CurrentPlayerIndex < 0 || g.CurrentPlayerIndex >= len(g.Players) {
		return
	}
	if g.Players[g.CurrentPlayerIndex].ID != playerId {
		return
	}

	r.playing[g.ID] = true
	gameId := g.ID
	r.after(r.opts.PlayDelay, func() {
		r.mu.Lock()
		delete(r.playing, gameId)
		r.mu.Unlock()
		r.send(comm.TypePlayCard, comm.GameCommand{GameId: gameId, PlayerId: playerId})
	})
}

// Seats returns the games robots currently sit in, keyed by game id.
func (r *Robot) Seats() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(r.seats))
	for g, p := range r.seats {
		out[g] = p
	}
	return out
}

func (r *Robot) send(msgType string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Errorf("error [%s] unable to marshal robot request: %s", msgType, err)
		return
	}
	payload, err := json.Marshal(comm.WSMessage{Type: msgType, Data: data, SocketId: r.socketId})
	if err != nil {
		log.Errorf("Error %s", err)
		return
	}
	if err := r.pub.Publish(comm.TopicSocketService, payload); err != nil {
		log.Errorf("Error publishing to topic %s: %s", comm.TopicSocketService, err)
	}
}
