package daily

import (
	"context"
	"database/sql"
	"fmt"
)

// Config is the daily challenge document keyed by date.
type Config struct {
	Date       string `json:"date"` // YYYY-MM-DD
	RhymeSetID string `json:"rhymeSetId"`
}

const dailySchema = `
CREATE TABLE IF NOT EXISTS daily_configs (
    date         TEXT PRIMARY KEY,
    rhyme_set_id TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS daily_completions (
    user_id TEXT NOT NULL,
    date    TEXT NOT NULL,
    PRIMARY KEY (user_id, date)
);
CREATE TABLE IF NOT EXISTS solitaire_results (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id    TEXT NOT NULL,
    guesses    INTEGER NOT NULL,
    won        INTEGER NOT NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);`

type Store struct{ db *sql.DB }

// NewStore prepares the daily/solitaire schema and returns the store.
func NewStore(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(dailySchema); err != nil {
		return nil, fmt.Errorf("daily schema: %w", err)
	}
	return &Store{db: db}, nil
}

// GetOrCreate returns the config for date, creating it with pick() on first
// access. INSERT OR IGNORE keeps concurrent first reads convergent: exactly
// one row wins and everyone reads it back.
func (s *Store) GetOrCreate(ctx context.Context, date string, pick func() string) (Config, error) {
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_configs(date, rhyme_set_id) VALUES (?,?)`,
		date, pick(),
	); err != nil {
		return Config{}, err
	}
	var c Config
	err := s.db.QueryRowContext(ctx,
		`SELECT date, rhyme_set_id FROM daily_configs WHERE date=?`, date,
	).Scan(&c.Date, &c.RhymeSetID)
	return c, err
}

// MarkCompleted records that the user finished the daily challenge for date.
func (s *Store) MarkCompleted(ctx context.Context, userID, date string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_completions(user_id, date) VALUES (?,?)`,
		userID, date,
	)
	return err
}

// Completed reports whether the user already finished the daily for date.
func (s *Store) Completed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_completions WHERE user_id=? AND date=?`,
		userID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// SaveSolitaireResult appends one finished solo game.
func (s *Store) SaveSolitaireResult(ctx context.Context, userID string, guesses int, won bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO solitaire_results(user_id, guesses, won) VALUES (?,?,?)`,
		userID, guesses, won,
	)
	return err
}
