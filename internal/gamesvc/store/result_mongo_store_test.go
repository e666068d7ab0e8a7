package store

import (
	"context"
	"os"
	"testing"
	"time"

	mongodb "github.com/avvvet/cavacamisa-services/internal/db"
	"github.com/avvvet/cavacamisa-services/internal/gamesvc/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMongoResultStoreArchivesOnce(t *testing.T) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set")
	}
	database, err := mongodb.ConnectToDB(uri)
	require.NoError(t, err)
	t.Cleanup(func() { mongodb.Disconnect(database) })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s := NewMongoResultStore(database)
	require.NoError(t, s.EnsureIndexes(ctx))

	result := models.Result{
		GameID:     "test-" + uuid.NewString(),
		WinnerID:   "p1",
		WinnerName: "Anna",
		Moves:      17,
		FinishedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	t.Cleanup(func() {
		s.coll.DeleteOne(context.Background(), bson.M{"game_id": result.GameID})
	})

	require.NoError(t, s.SaveResult(ctx, result))
	err = s.SaveResult(ctx, result)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	results, err := s.ListResults(ctx, 0)
	require.NoError(t, err)
	assert.Contains(t, gameIDs(results), result.GameID)
}
