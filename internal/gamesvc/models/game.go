package models

import (
	"fmt"
	"math/rand"
	"sync"
)

const (
	DeckSize   = 40
	MaxPlayers = 2
)

// Rules holds the house rules a table can opt into.
type Rules struct {
	// ObligatedKeepsTurn keeps the turn on the obligated opponent until the
	// obligation is paid or overridden by a winning card.
	ObligatedKeepsTurn bool
}

type Option func(*Game)

// WithShuffle replaces the deck shuffle. The function reorders the deck in place.
func WithShuffle(shuffle func(deck []Card)) Option {
	return func(g *Game) { g.shuffle = shuffle }
}

// WithRand shuffles the deck with the given source.
func WithRand(r *rand.Rand) Option {
	return func(g *Game) {
		g.shuffle = func(deck []Card) {
			r.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
		}
	}
}

func WithRules(rules Rules) Option {
	return func(g *Game) { g.rules = rules }
}

// Game is the state machine of a single two-player match. All methods are
// safe for concurrent use; mutations on one game are serialized.
type Game struct {
	mu         sync.Mutex
	id         string
	players    []*Player
	tableCards []Card
	state      GameState
	current    int
	cardsOwed  int
	lastWinner *Player
	deck       []Card
	moves      int
	rules      Rules
	shuffle    func([]Card)
}

func NewGame(id string, opts ...Option) *Game {
	g := &Game{
		id:    id,
		state: WaitingForPlayers,
		deck:  NewDeck(),
		shuffle: func(deck []Card) {
			rand.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Game) ID() string { return g.id }

func (g *Game) Rules() Rules { return g.rules }

func (g *Game) State() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Players returns the players in turn order.
func (g *Game) Players() []*Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*Player(nil), g.players...)
}

// TableCards returns a copy of the face-up pile, oldest card first.
func (g *Game) TableCards() []Card {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Card(nil), g.tableCards...)
}

func (g *Game) CurrentPlayerIndex() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// CurrentPlayer returns nil until a player joined.
func (g *Game) CurrentPlayer() *Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.players) == 0 {
		return nil
	}
	return g.players[g.current]
}

func (g *Game) CardsOwed() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cardsOwed
}

func (g *Game) LastWinningPlayer() *Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastWinner
}

// Moves counts the cards played so far.
func (g *Game) Moves() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.moves
}

func (g *Game) IsFinished() bool {
	return g.State() == Finished
}

// AddPlayer seats a player. It returns false, changing nothing, when the game is
// full or the player already sits at a table. The second player triggers the deal.
func (g *Game) AddPlayer(p *Player) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if p == nil || len(g.players) >= MaxPlayers {
		return false
	}
	if !p.attach(g.id) {
		return false
	}
	g.players = append(g.players, p)
	if len(g.players) == MaxPlayers {
		g.state = Dealing
		g.deal()
		g.state = Playing
	}
	return true
}

func (g *Game) deal() {
	g.shuffle(g.deck)
	perPlayer := len(g.deck) / len(g.players)
	for i, p := range g.players {
		p.AddCards(g.deck[i*perPlayer : (i+1)*perPlayer]...)
	}
	g.deck = nil
	g.current = 0
	g.cardsOwed = 0
	g.lastWinner = nil
}

// PlayCard plays the top card of the given player's hand. It returns false,
// changing nothing, when the game is not in play or it is not the player's turn.
// A player who has no card on their turn ends the game.
func (g *Game) PlayCard(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != Playing {
		return false
	}
	current := g.players[g.current]
	if current.ID() != playerID {
		return false
	}

	card, ok := current.DrawCard()
	if !ok {
		g.state = Finished
		return true
	}
	g.tableCards = append(g.tableCards, card)
	g.moves++

	switch {
	case card.IsWinningCard():
		g.lastWinner = current
		g.cardsOwed = card.CaptureCount()
		g.nextPlayer()
	case g.cardsOwed > 0 && current != g.lastWinner:
		g.cardsOwed--
		if g.cardsOwed == 0 {
			if g.lastWinner != nil {
				g.lastWinner.Capture(g.tableCards)
			}
			g.tableCards = nil
			g.lastWinner = nil
			g.nextPlayer()
		} else if !g.rules.ObligatedKeepsTurn {
			g.nextPlayer()
		}
	default:
		g.nextPlayer()
	}

	for _, p := range g.players {
		if p.IsWinner() {
			g.state = Finished
			break
		}
	}
	return true
}

func (g *Game) nextPlayer() {
	g.current = (g.current + 1) % len(g.players)
}

// Winner returns the winner of a finished game, or nil when the game is not
// finished or the outcome cannot be determined.
func (g *Game) Winner() *Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	winner, _ := g.outcome()
	return winner
}

func (g *Game) Loser() *Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, loser := g.outcome()
	return loser
}

// outcome prefers the player holding the whole deck and falls back to the
// player left without cards. Anything else is indeterminate.
func (g *Game) outcome() (winner, loser *Player) {
	if g.state != Finished || len(g.players) != MaxPlayers {
		return nil, nil
	}
	var full, empty []*Player
	for _, p := range g.players {
		switch {
		case p.IsWinner():
			full = append(full, p)
		case p.HasLost():
			empty = append(empty, p)
		}
	}
	switch {
	case len(full) == 1:
		return full[0], g.opponent(full[0])
	case len(empty) == 1:
		return g.opponent(empty[0]), empty[0]
	}
	return nil, nil
}

func (g *Game) opponent(p *Player) *Player {
	for _, other := range g.players {
		if other != p {
			return other
		}
	}
	return nil
}

// Snapshot returns a consistent point-in-time copy of the whole game.
func (g *Game) Snapshot() GameSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := GameSnapshot{
		ID:                 g.id,
		State:              g.state,
		TableCards:         append([]Card(nil), g.tableCards...),
		CurrentPlayerIndex: g.current,
		CardsOwed:          g.cardsOwed,
		Moves:              g.moves,
		Finished:           g.state == Finished,
	}
	for _, p := range g.players {
		s.Players = append(s.Players, p.Snapshot())
	}
	s.LastWinningPlayer = g.snapshotOf(g.lastWinner)
	winner, loser := g.outcome()
	s.Winner = g.snapshotOf(winner)
	s.Loser = g.snapshotOf(loser)
	return s
}

func (g *Game) snapshotOf(p *Player) *PlayerSnapshot {
	if p == nil {
		return nil
	}
	s := p.Snapshot()
	return &s
}

func (g *Game) String() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	current := "none"
	if len(g.players) > 0 {
		current = g.players[g.current].Name()
	}
	return fmt.Sprintf("Game{id=%s, state=%s, players=%d, tableCards=%d, currentPlayer=%s}",
		g.id, g.state, len(g.players), len(g.tableCards), current)
}

// GameSnapshot is a point-in-time copy of a game. It shares no memory with the game.
type GameSnapshot struct {
	ID                 string
	State              GameState
	Players            []PlayerSnapshot
	TableCards         []Card
	CurrentPlayerIndex int
	CardsOwed          int
	Moves              int
	LastWinningPlayer  *PlayerSnapshot
	Winner             *PlayerSnapshot
	Loser              *PlayerSnapshot
	Finished           bool
}
