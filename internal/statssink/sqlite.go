package statssink

import (
	"context"
	"database/sql"
	"log"

	_ "modernc.org/sqlite"
)

const createUserStatsTable = `
CREATE TABLE IF NOT EXISTS user_stats (
	user_id TEXT PRIMARY KEY,
	games_played INTEGER NOT NULL DEFAULT 0,
	games_won INTEGER NOT NULL DEFAULT 0,
	total_score INTEGER NOT NULL DEFAULT 0,
	best_score INTEGER NOT NULL DEFAULT 0,
	best_streak INTEGER NOT NULL DEFAULT 0
)`

// SQLiteSink persists aggregated per-user stats to a modernc.org/sqlite
// database, opened once and reused across games.
type SQLiteSink struct {
	db *sql.DB
}

// OpenSQLiteSink opens (creating if absent) the sqlite database at path
// and runs the idempotent migration.
func OpenSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(createUserStatsTable); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("statssink: sqlite stats database ready at %s", path)
	return &SQLiteSink{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

// RecordGame upserts each player's aggregate stats. A failure for one
// player is logged and does not stop the others from being recorded.
func (s *SQLiteSink) RecordGame(ctx context.Context, results []PlayerResult) error {
	for _, r := range results {
		if r.UserID == "" {
			continue
		}
		if err := s.upsert(ctx, r); err != nil {
			log.Printf("statssink: recording game for user %s: %v", r.UserID, err)
		}
	}
	return nil
}

func (s *SQLiteSink) upsert(ctx context.Context, r PlayerResult) error {
	won := 0
	if r.Won {
		won = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_stats (user_id, games_played, games_won, total_score, best_score, best_streak)
		VALUES (?, 1, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			games_played = games_played + 1,
			games_won = games_won + excluded.games_won,
			total_score = total_score + excluded.total_score,
			best_score = MAX(best_score, excluded.best_score),
			best_streak = MAX(best_streak, excluded.best_streak)
	`, r.UserID, won, r.Score, r.Score, r.Streak)
	return err
}
