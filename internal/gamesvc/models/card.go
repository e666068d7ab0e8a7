package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRank = errors.New("rank must be between 1 and 10")
	ErrInvalidSuit = errors.New("unknown suit")
)

const (
	MinRank = 1
	MaxRank = 10
)

// Suit is one of the four suits of the Italian deck.
type Suit int

const (
	Bastoni Suit = iota
	Spade
	Ori
	Coppe
)

var suitNames = [...]string{"Bastoni", "Spade", "Ori", "Coppe"}

var rankNames = [...]string{
	"Asso", "Due", "Tre", "Quattro", "Cinque",
	"Sei", "Sette", "Fante", "Cavallo", "Re",
}

// Suits returns the suits in deck order.
func Suits() []Suit {
	return []Suit{Bastoni, Spade, Ori, Coppe}
}

func (s Suit) valid() bool {
	return s >= Bastoni && s <= Coppe
}

func (s Suit) String() string {
	if !s.valid() {
		return fmt.Sprintf("Suit(%d)", int(s))
	}
	return suitNames[s]
}

// Card is an immutable playing card. Two cards are equal when rank and suit match.
type Card struct {
	rank int
	suit Suit
}

func NewCard(rank int, suit Suit) (Card, error) {
	if rank < MinRank || rank > MaxRank {
		return Card{}, fmt.Errorf("%w: got %d", ErrInvalidRank, rank)
	}
	if !suit.valid() {
		return Card{}, fmt.Errorf("%w: %d", ErrInvalidSuit, int(suit))
	}
	return Card{rank: rank, suit: suit}, nil
}

func (c Card) Rank() int  { return c.rank }
func (c Card) Suit() Suit { return c.suit }

// IsWinningCard reports whether the card is an Asso, Due or Tre.
func (c Card) IsWinningCard() bool {
	return c.rank >= 1 && c.rank <= 3
}

// CaptureCount is the number of cards the opponent owes after this card is played.
func (c Card) CaptureCount() int {
	if !c.IsWinningCard() {
		return 0
	}
	return c.rank
}

func (c Card) DisplayName() string {
	rankName := fmt.Sprint(c.rank)
	if c.rank >= MinRank && c.rank <= MaxRank {
		rankName = rankNames[c.rank-1]
	}
	return rankName + " di " + c.suit.String()
}

func (c Card) String() string {
	return c.DisplayName()
}

// NewDeck returns the 40 cards of the deck, suit by suit, ranks ascending.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, suit := range Suits() {
		for rank := MinRank; rank <= MaxRank; rank++ {
			deck = append(deck, Card{rank: rank, suit: suit})
		}
	}
	return deck
}
