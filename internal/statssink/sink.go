// Package statssink implements the fire-and-forget end-of-game stats
// persistence port, grounded on the teacher's internal/database package
// (SQLite connection handling + idempotent migrations), generalized
// from the teacher's per-game/per-score tables to a single aggregated
// per-user_stats row, since this repo's Non-goals exclude durable room
// state but not authenticated-player lifetime stats.
package statssink

import "context"

// PlayerResult is one authenticated player's outcome from a finished
// game, the unit the Room Manager hands to a Sink on game_over.
type PlayerResult struct {
	UserID string
	Won    bool
	Score  int
	Streak int
}

// Sink records game outcomes for authenticated players. Implementations
// must never block the caller on failure; RecordGame logs and swallows
// storage errors per spec.md 7 ("Stats-sink failures are logged per
// user").
type Sink interface {
	RecordGame(ctx context.Context, results []PlayerResult) error
}
