package main

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/avvvet/cavacamisa-services/internal/gamesvc/models"
)

// match is the outcome of one simulated game.
type match struct {
	Seed     int64
	Final    models.GameSnapshot
	Capped   bool // stopped by the move cap before finishing
	Captures int
}

// play runs one game between two local players, always playing for whoever holds the turn.
// onMove, when set, sees the game after every accepted play.
func play(seed int64, names [2]string, rules models.Rules, maxMoves int, onMove func(models.GameSnapshot)) (match, error) {
	g := models.NewGame(uuid.New().String(),
		models.WithRand(rand.New(rand.NewSource(seed))),
		models.WithRules(rules),
	)
	for _, name := range names {
		if !g.AddPlayer(models.NewPlayer(uuid.New().String(), name)) {
			return match{}, fmt.Errorf("unable to seat %s", name)
		}
	}

	m := match{Seed: seed}
	for !g.IsFinished() {
		if maxMoves > 0 && g.Moves() >= maxMoves {
			m.Capped = true
			break
		}
		before := len(g.TableCards())
		current := g.CurrentPlayer()
		if current == nil || !g.PlayCard(current.ID()) {
			return match{}, fmt.Errorf("game %s rejected a play at move %d", g.ID(), g.Moves())
		}
		if after := len(g.TableCards()); after == 0 && before > 0 {
			m.Captures++
		}
		if onMove != nil {
			onMove(g.Snapshot())
		}
	}
	m.Final = g.Snapshot()
	return m, nil
}

// tally aggregates a batch of matches by winner name.
type tally struct {
	Wins          map[string]int
	Undecided     int
	Capped        int
	TotalMoves    int
	LongestGame   int
	LongestSeed   int64
	ShortestGame  int
	ShortestSeed  int64
	gamesRecorded int
}

func newTally() *tally {
	return &tally{Wins: map[string]int{}}
}

func (t *tally) add(m match) {
	switch {
	case m.Capped:
		t.Capped++
	case m.Final.Winner != nil:
		t.Wins[m.Final.Winner.Name]++
	default:
		t.Undecided++
	}

	moves := m.Final.Moves
	t.TotalMoves += moves
	if t.gamesRecorded == 0 || moves > t.LongestGame {
		t.LongestGame, t.LongestSeed = moves, m.Seed
	}
	if t.gamesRecorded == 0 || moves < t.ShortestGame {
		t.ShortestGame, t.ShortestSeed = moves, m.Seed
	}
	t.gamesRecorded++
}

func (t *tally) averageMoves() float64 {
	if t.gamesRecorded == 0 {
		return 0
	}
	return float64(t.TotalMoves) / float64(t.gamesRecorded)
}
