package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avvvet/cavacamisa-services/internal/comm"
	"github.com/avvvet/cavacamisa-services/internal/gamesvc/models"
	"github.com/avvvet/cavacamisa-services/internal/gamesvc/store"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrGameFull       = errors.New("game is full or already started")
	ErrPlayerInGame   = errors.New("player already joined a game")
	ErrInvalidMove    = errors.New("invalid move: not your turn or no cards to play")
	ErrInvalidName    = errors.New("player name is required")
)

// Notifier is told about every accepted change to a game.
type Notifier interface {
	GameUpdated(g comm.GameData)
}

type GameService struct {
	gameStore   *store.GameStore
	playerStore *store.PlayerStore
	resultStore store.ResultStore
	notifier    Notifier
	rules       models.Rules
	gameOpts    []models.Option
	now         func() time.Time
}

func NewGameService(gameStore *store.GameStore, playerStore *store.PlayerStore,
	resultStore store.ResultStore, rules models.Rules) *GameService {
	return &GameService{
		gameStore:   gameStore,
		playerStore: playerStore,
		resultStore: resultStore,
		rules:       rules,
		now:         time.Now,
	}
}

// SetNotifier must be called before the service starts handling requests.
func (s *GameService) SetNotifier(n Notifier) {
	s.notifier = n
}

// WithGameOptions appends engine options applied to every new game.
func (s *GameService) WithGameOptions(opts ...models.Option) *GameService {
	s.gameOpts = append(s.gameOpts, opts...)
	return s
}

func (s *GameService) CreateGame(ctx context.Context) (comm.GameData, error) {
	opts := append([]models.Option{models.WithRules(s.rules)}, s.gameOpts...)
	game := models.NewGame(uuid.New().String(), opts...)
	if err := s.gameStore.CreateGame(game); err != nil {
		return comm.GameData{}, err
	}
	log.WithField("game_id", game.ID()).Info("game created")
	return comm.NewGameData(game.Snapshot()), nil
}

func (s *GameService) GetGame(ctx context.Context, gameID string) (comm.GameData, error) {
	game, err := s.findGame(gameID)
	if err != nil {
		return comm.GameData{}, err
	}
	return comm.NewGameData(game.Snapshot()), nil
}

func (s *GameService) ListGames(ctx context.Context) []comm.GameData {
	games := s.gameStore.ListGames()
	out := make([]comm.GameData, 0, len(games))
	for _, g := range games {
		out = append(out, comm.NewGameData(g.Snapshot()))
	}
	return out
}

func (s *GameService) DeleteGame(ctx context.Context, gameID string) error {
	if err := s.gameStore.DeleteGame(gameID); err != nil {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	log.WithField("game_id", gameID).Info("game deleted")
	return nil
}

func (s *GameService) GameExists(gameID string) bool {
	return s.gameStore.Exists(gameID)
}

// JoinGame seats a registered player. The second player starts the game.
func (s *GameService) JoinGame(ctx context.Context, gameID, playerID string) (comm.GameData, error) {
	game, err := s.findGame(gameID)
	if err != nil {
		return comm.GameData{}, err
	}
	player, err := s.playerStore.GetPlayerByID(playerID)
	if err != nil {
		return comm.GameData{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}

	if other := player.GameID(); other != "" {
		return comm.GameData{}, fmt.Errorf("%w: %s is in game %s", ErrPlayerInGame, playerID, other)
	}
	if !game.AddPlayer(player) {
		return comm.GameData{}, fmt.Errorf("%w: %s", ErrGameFull, gameID)
	}

	data := comm.NewGameData(game.Snapshot())
	log.WithFields(log.Fields{
		"game_id":   gameID,
		"player_id": playerID,
		"state":     data.State,
	}).Info("player joined game")
	s.notify(data)
	return data, nil
}

// PlayCard plays the top card of the player's hand and archives the result
// when the play ends the game.
func (s *GameService) PlayCard(ctx context.Context, gameID, playerID string) (comm.GameData, error) {
	game, err := s.findGame(gameID)
	if err != nil {
		return comm.GameData{}, err
	}
	if !game.PlayCard(playerID) {
		return comm.GameData{}, fmt.Errorf("%w: player %s in game %s", ErrInvalidMove, playerID, gameID)
	}

	snapshot := game.Snapshot()
	log.WithFields(log.Fields{
		"game_id":    gameID,
		"player_id":  playerID,
		"table":      len(snapshot.TableCards),
		"cards_owed": snapshot.CardsOwed,
	}).Debug("card played")

	if snapshot.Finished {
		s.recordResult(ctx, snapshot)
	}

	data := comm.NewGameData(snapshot)
	s.notify(data)
	return data, nil
}

func (s *GameService) ListResults(ctx context.Context, limit int) ([]models.Result, error) {
	return s.resultStore.ListResults(ctx, limit)
}

func (s *GameService) recordResult(ctx context.Context, snapshot models.GameSnapshot) {
	result, ok := models.NewResult(snapshot, s.now())
	if !ok {
		return
	}
	err := s.resultStore.SaveResult(ctx, result)
	switch {
	case errors.Is(err, store.ErrAlreadyExists):
		return
	case err != nil:
		log.Errorf("Error [ResultStore.SaveResult] game %s: %s", snapshot.ID, err)
		return
	}
	log.WithFields(log.Fields{
		"game_id": result.GameID,
		"winner":  result.WinnerName,
		"loser":   result.LoserName,
		"moves":   result.Moves,
	}).Info("game finished")
}

func (s *GameService) notify(data comm.GameData) {
	if s.notifier != nil {
		s.notifier.GameUpdated(data)
	}
}

func (s *GameService) findGame(gameID string) (*models.Game, error) {
	game, err := s.gameStore.GetGameByID(gameID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return game, nil
}
