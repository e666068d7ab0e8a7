package models

import (
	"fmt"
	"sync"
)

// Player owns an ordered hand. The front of the hand is the next card to play,
// the back holds the most recently received cards.
type Player struct {
	mu     sync.RWMutex
	id     string
	name   string
	hand   []Card
	gameID string // game the player is attached to, empty when none
}

// NewPlayer builds a player, optionally with a preset hand (front first).
func NewPlayer(id, name string, hand ...Card) *Player {
	p := &Player{id: id, name: name}
	p.hand = append(p.hand, hand...)
	return p
}

func (p *Player) ID() string   { return p.id }
func (p *Player) Name() string { return p.name }

// Hand returns a copy of the hand.
func (p *Player) Hand() []Card {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]Card(nil), p.hand...)
}

func (p *Player) HandSize() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.hand)
}

func (p *Player) HasCards() bool {
	return p.HandSize() > 0
}

// DrawCard removes and returns the front card. ok is false when the hand is empty.
func (p *Player) DrawCard() (card Card, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.hand) == 0 {
		return Card{}, false
	}
	card = p.hand[0]
	p.hand = p.hand[1:]
	return card, true
}

// AddCards appends cards at the back of the hand, keeping their order.
func (p *Player) AddCards(cards ...Card) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hand = append(p.hand, cards...)
}

func (p *Player) AppendCard(card Card) {
	p.AddCards(card)
}

// Capture puts a captured table pile behind the cards already held.
func (p *Player) Capture(pile []Card) {
	p.AddCards(pile...)
}

// IsWinner reports whether the player holds the whole deck.
func (p *Player) IsWinner() bool {
	return p.HandSize() == DeckSize
}

func (p *Player) HasLost() bool {
	return p.HandSize() == 0
}

// GameID returns the id of the game the player joined, or "".
func (p *Player) GameID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gameID
}

func (p *Player) attach(gameID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gameID != "" {
		return false
	}
	p.gameID = gameID
	return true
}

func (p *Player) Snapshot() PlayerSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return PlayerSnapshot{
		ID:     p.id,
		Name:   p.name,
		GameID: p.gameID,
		Hand:   append([]Card(nil), p.hand...),
	}
}

func (p *Player) String() string {
	return fmt.Sprintf("Player{id=%s, name=%s, handSize=%d}", p.id, p.name, p.HandSize())
}

// PlayerSnapshot is a point-in-time copy of a player.
type PlayerSnapshot struct {
	ID     string
	Name   string
	GameID string
	Hand   []Card
}

func (s PlayerSnapshot) HandSize() int  { return len(s.Hand) }
func (s PlayerSnapshot) HasCards() bool { return len(s.Hand) > 0 }
