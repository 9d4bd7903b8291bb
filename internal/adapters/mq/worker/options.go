package worker

import (
	"github.com/xkazm04/nenet/pkg/logger"
)

// Option applies a configuration option to the StatsWorker.
type Option func(*StatsWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *StatsWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *StatsWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}
