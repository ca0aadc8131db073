// Package config defines service configuration structures and loading hooks.
package config

import (
	"runtime"

	"github.com/arenalab/skillboard/internal/domain/history"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath locates the SQLite database file.
	DBPath string `koanf:"db_path"`

	// BaselineMean and BaselineUncertainty form the prior applied to
	// entities before their first rating snapshot.
	BaselineMean        float64 `koanf:"baseline_mean"`
	BaselineUncertainty float64 `koanf:"baseline_uncertainty"`

	// PageSize sets how many entities one leaderboard page holds.
	PageSize int `koanf:"page_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// MaxHistoryEntities caps how many entities one history query may track.
	MaxHistoryEntities int `koanf:"max_history_entities"`

	// SnapshotQueueSize bounds the in-memory ingest queue.
	SnapshotQueueSize int `koanf:"snapshot_queue_size"`

	// WorkerCount sets the number of ingest workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the snapshot idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9090",
		DBPath:              "./skillboard.db",
		BaselineMean:        history.DefaultBaselineMean,
		BaselineUncertainty: history.DefaultBaselineUncertainty,
		PageSize:            10,
		MaxLeaderboardLimit: 100,
		MaxHistoryEntities:  20,
		SnapshotQueueSize:   10_000,
		WorkerCount:         runtime.NumCPU(),
		DedupeSize:          50_000,
	}
}
