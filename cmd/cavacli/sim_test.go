package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avvvet/cavacamisa-services/internal/gamesvc/models"
)

var names = [2]string{"Anna", "Bruno"}

func TestPlayIsDeterministicPerSeed(t *testing.T) {
	a, err := play(7, names, models.Rules{}, 20000, nil)
	require.NoError(t, err)
	b, err := play(7, names, models.Rules{}, 20000, nil)
	require.NoError(t, err)

	assert.Equal(t, a.Final.Moves, b.Final.Moves)
	assert.Equal(t, a.Captures, b.Captures)
	assert.Equal(t, a.Final.Finished, b.Final.Finished)
}

func TestPlayFinishesOrHitsCap(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		m, err := play(seed, names, models.Rules{}, 5000, nil)
		require.NoError(t, err)
		if m.Capped {
			assert.Equal(t, 5000, m.Final.Moves)
			continue
		}
		assert.True(t, m.Final.Finished, "seed %d", seed)
		if m.Final.Winner != nil {
			require.NotNil(t, m.Final.Loser)
			assert.NotEqual(t, m.Final.Winner.ID, m.Final.Loser.ID)
		}
	}
}

func TestPlayMoveCap(t *testing.T) {
	var seen int
	m, err := play(3, names, models.Rules{}, 5, func(models.GameSnapshot) { seen++ })
	require.NoError(t, err)

	if m.Capped {
		assert.Equal(t, 5, m.Final.Moves)
	}
	// a player found empty handed ends the game without a move
	assert.InDelta(t, m.Final.Moves, seen, 1)
	assert.LessOrEqual(t, m.Final.Moves, 5)
}

func TestTally(t *testing.T) {
	tl := newTally()
	winner := &models.PlayerSnapshot{ID: "a", Name: "Anna"}
	tl.add(match{Seed: 1, Final: models.GameSnapshot{Moves: 10, Winner: winner, Finished: true}})
	tl.add(match{Seed: 2, Final: models.GameSnapshot{Moves: 30, Finished: true}})
	tl.add(match{Seed: 3, Final: models.GameSnapshot{Moves: 20}, Capped: true})

	assert.Equal(t, 1, tl.Wins["Anna"])
	assert.Equal(t, 1, tl.Undecided)
	assert.Equal(t, 1, tl.Capped)
	assert.Equal(t, 30, tl.LongestGame)
	assert.Equal(t, int64(2), tl.LongestSeed)
	assert.Equal(t, 10, tl.ShortestGame)
	assert.Equal(t, int64(1), tl.ShortestSeed)
	assert.InDelta(t, 20.0, tl.averageMoves(), 0.001)
}
