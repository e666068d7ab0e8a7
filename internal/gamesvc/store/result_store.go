package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/avvvet/cavacamisa-services/internal/gamesvc/models"
)

const DefaultResultsLimit = 50

// ResultStore archives the outcome of finished games.
type ResultStore interface {
	SaveResult(ctx context.Context, r models.Result) error
	// ListResults returns the most recent results first.
	ListResults(ctx context.Context, limit int) ([]models.Result, error)
}

type MemoryResultStore struct {
	mu      sync.Mutex
	results map[string]models.Result
}

func NewMemoryResultStore() *MemoryResultStore {
	return &MemoryResultStore{results: make(map[string]models.Result)}
}

func (s *MemoryResultStore) SaveResult(ctx context.Context, r models.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.results[r.GameID]; ok {
		return fmt.Errorf("result for game %s: %w", r.GameID, ErrAlreadyExists)
	}
	s.results[r.GameID] = r
	return nil
}

func (s *MemoryResultStore) ListResults(ctx context.Context, limit int) ([]models.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]models.Result, 0, len(s.results))
	for _, r := range s.results {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].FinishedAt.After(results[j].FinishedAt)
	})
	if limit <= 0 {
		limit = DefaultResultsLimit
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

var (
	_ ResultStore = (*MemoryResultStore)(nil)
	_ ResultStore = (*PgResultStore)(nil)
	_ ResultStore = (*MongoResultStore)(nil)
)
