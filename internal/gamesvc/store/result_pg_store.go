package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/avvvet/cavacamisa-services/internal/gamesvc/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgResultStore struct {
	db *pgxpool.Pool
}

func NewPgResultStore(db *pgxpool.Pool) *PgResultStore {
	return &PgResultStore{db: db}
}

// EnsureSchema creates the game_results table when missing.
func (s *PgResultStore) EnsureSchema(ctx context.Context) error {
	const query = `
CREATE TABLE IF NOT EXISTS game_results (
  game_id     TEXT PRIMARY KEY,
  winner_id   TEXT NOT NULL DEFAULT '',
  winner_name TEXT NOT NULL DEFAULT '',
  loser_id    TEXT NOT NULL DEFAULT '',
  loser_name  TEXT NOT NULL DEFAULT '',
  moves       INTEGER NOT NULL,
  finished_at TIMESTAMPTZ NOT NULL
);`
	if _, err := s.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("create game_results: %w", err)
	}
	return nil
}

func (s *PgResultStore) SaveResult(ctx context.Context, r models.Result) error {
	const query = `
		INSERT INTO game_results (game_id, winner_id, winner_name, loser_id, loser_name, moves, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.Exec(ctx, query,
		r.GameID, r.WinnerID, r.WinnerName, r.LoserID, r.LoserName, r.Moves, r.FinishedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("result for game %s: %w", r.GameID, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

func (s *PgResultStore) ListResults(ctx context.Context, limit int) ([]models.Result, error) {
	if limit <= 0 {
		limit = DefaultResultsLimit
	}
	query := `
		SELECT game_id, winner_id, winner_name, loser_id, loser_name, moves, finished_at
		FROM game_results
		ORDER BY finished_at DESC
		LIMIT $1
	`

	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var results []models.Result
	for rows.Next() {
		var r models.Result
		err := rows.Scan(
			&r.GameID,
			&r.WinnerID,
			&r.WinnerName,
			&r.LoserID,
			&r.LoserName,
			&r.Moves,
			&r.FinishedAt,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
