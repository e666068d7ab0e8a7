package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/avvvet/cavacamisa-services/internal/comm"
	"github.com/avvvet/cavacamisa-services/internal/gamesvc/models"
	"github.com/avvvet/cavacamisa-services/internal/gamesvc/store"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// PlayerService manages the lobby registry of players
type PlayerService struct {
	playerStore *store.PlayerStore
}

func NewPlayerService(playerStore *store.PlayerStore) *PlayerService {
	return &PlayerService{playerStore: playerStore}
}

func (s *PlayerService) CreatePlayer(ctx context.Context, name string) (comm.PlayerData, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return comm.PlayerData{}, ErrInvalidName
	}
	player := models.NewPlayer(uuid.New().String(), name)
	if err := s.playerStore.CreatePlayer(player); err != nil {
		return comm.PlayerData{}, err
	}
	log.WithFields(log.Fields{"player_id": player.ID(), "name": name}).Info("player created")
	return comm.NewPlayerData(player.Snapshot()), nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, playerID string) (comm.PlayerData, error) {
	player, err := s.playerStore.GetPlayerByID(playerID)
	if err != nil {
		return comm.PlayerData{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	return comm.NewPlayerData(player.Snapshot()), nil
}

// ListPlayers returns every registered player ordered by name.
func (s *PlayerService) ListPlayers(ctx context.Context) []comm.PlayerData {
	players := s.playerStore.ListPlayers()
	out := make([]comm.PlayerData, 0, len(players))
	for _, p := range players {
		out = append(out, comm.NewPlayerData(p.Snapshot()))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *PlayerService) DeletePlayer(ctx context.Context, playerID string) error {
	if err := s.playerStore.DeletePlayer(playerID); err != nil {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	return nil
}

func (s *PlayerService) PlayerExists(playerID string) bool {
	return s.playerStore.Exists(playerID)
}
