// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load() layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath locates the SQLite database file.
	DBPath string `koanf:"db_path"`

	// RecomputeQueueSize bounds the in-memory statistics recompute queue.
	RecomputeQueueSize int `koanf:"recompute_queue_size"`

	// RecomputeWorkerCount sets the number of statistics recompute workers.
	RecomputeWorkerCount int `koanf:"recompute_worker_count"`

	// CoalescerSize caps the pending-recompute set.
	CoalescerSize int `koanf:"coalescer_size"`

	// TrendingRefreshSeconds sets the trending feed rebuild cadence.
	TrendingRefreshSeconds int `koanf:"trending_refresh_seconds"`

	// TrendingWindowDays bounds the recent-vote window for trending.
	TrendingWindowDays int `koanf:"trending_window_days"`

	// TrendingFeedSize caps the number of entries in the trending feed.
	TrendingFeedSize int `koanf:"trending_feed_size"`

	// MaxPageLimit caps ?limit on member and trending reads.
	MaxPageLimit int `koanf:"max_page_limit"`
}

// New creates a Config populated with defaults.
func New() *Config {
	c := &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		DBPath:                 "nenet.db",
		RecomputeQueueSize:     10_000,
		RecomputeWorkerCount:   runtime.NumCPU() * 2,
		CoalescerSize:          100_000,
		TrendingRefreshSeconds: 300,
		TrendingWindowDays:     7,
		TrendingFeedSize:       50,
		MaxPageLimit:           100,
	}
	return c
}
