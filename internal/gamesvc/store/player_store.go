package store

import (
	"fmt"
	"sync"

	"github.com/avvvet/cavacamisa-services/internal/gamesvc/models"
)

// PlayerStore is the lobby registry of players, keyed by player id.
type PlayerStore struct {
	players sync.Map
}

func NewPlayerStore() *PlayerStore {
	return &PlayerStore{}
}

func (s *PlayerStore) CreatePlayer(p *models.Player) error {
	if _, loaded := s.players.LoadOrStore(p.ID(), p); loaded {
		return fmt.Errorf("player %s: %w", p.ID(), ErrAlreadyExists)
	}
	return nil
}

func (s *PlayerStore) GetPlayerByID(id string) (*models.Player, error) {
	p, ok := s.players.Load(id)
	if !ok {
		return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	return p.(*models.Player), nil
}

func (s *PlayerStore) DeletePlayer(id string) error {
	if _, loaded := s.players.LoadAndDelete(id); !loaded {
		return fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *PlayerStore) ListPlayers() []*models.Player {
	var players []*models.Player
	s.players.Range(func(key, value any) bool {
		players = append(players, value.(*models.Player))
		return true
	})
	return players
}

func (s *PlayerStore) Exists(id string) bool {
	_, ok := s.players.Load(id)
	return ok
}
