// Package tasks implements the bot's scheduled background tasks and their
// registration mechanism.
package tasks

import "log/slog"

// StatsSource reports aggregate counters for a piece of in-memory state.
type StatsSource interface {
	Stats() (int, int)
}

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger      *slog.Logger
	CacheStats  StatsSource
	StrikeStats StatsSource
}
