package store

import (
	"context"
	"fmt"

	"github.com/avvvet/cavacamisa-services/internal/gamesvc/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const resultsCollection = "game_results"

type MongoResultStore struct {
	coll *mongo.Collection
}

func NewMongoResultStore(db *mongo.Database) *MongoResultStore {
	return &MongoResultStore{coll: db.Collection(resultsCollection)}
}

// EnsureIndexes makes game_id unique so a game is archived once.
func (s *MongoResultStore) EnsureIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"game_id": 1},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.coll.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("create game_id index: %w", err)
	}
	return nil
}

func (s *MongoResultStore) SaveResult(ctx context.Context, r models.Result) error {
	if _, err := s.coll.InsertOne(ctx, r); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("result for game %s: %w", r.GameID, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

func (s *MongoResultStore) ListResults(ctx context.Context, limit int) ([]models.Result, error) {
	if limit <= 0 {
		limit = DefaultResultsLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "finished_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Result
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
