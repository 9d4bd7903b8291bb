// Package coalesce tracks in-flight statistics recomputes so repeated
// mutations of one item collapse into a single pending job.
package coalesce

// Option applies a configuration option to the inMemoryCoalescer.
type Option func(*inMemoryCoalescer)

// WithMaxSize sets the maximum number of ids to keep in memory.
// If maxSize > 0: bounded mode with oldest-first eviction.
// If maxSize <= 0: unbounded mode (no eviction, no size limit).
func WithMaxSize(maxSize int) Option {
	return func(c *inMemoryCoalescer) {
		c.maxSize = maxSize
	}
}
