package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/avvvet/cavacamisa-services/internal/gamesvc/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// GameStore keeps live games in memory, keyed by game id.
type GameStore struct {
	games sync.Map
}

func NewGameStore() *GameStore {
	return &GameStore{}
}

func (s *GameStore) CreateGame(g *models.Game) error {
	if _, loaded := s.games.LoadOrStore(g.ID(), g); loaded {
		return fmt.Errorf("game %s: %w", g.ID(), ErrAlreadyExists)
	}
	return nil
}

func (s *GameStore) GetGameByID(id string) (*models.Game, error) {
	g, ok := s.games.Load(id)
	if !ok {
		return nil, fmt.Errorf("game %s: %w", id, ErrNotFound)
	}
	return g.(*models.Game), nil
}

func (s *GameStore) DeleteGame(id string) error {
	if _, loaded := s.games.LoadAndDelete(id); !loaded {
		return fmt.Errorf("game %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListGames returns every registered game once, in no particular order.
func (s *GameStore) ListGames() []*models.Game {
	var games []*models.Game
	s.games.Range(func(key, value any) bool {
		games = append(games, value.(*models.Game))
		return true
	})
	return games
}

func (s *GameStore) Exists(id string) bool {
	_, ok := s.games.Load(id)
	return ok
}
