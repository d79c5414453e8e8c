package robowflex

import "time"

// Config holds configuration for a Pool.
type Config struct {
	// PoolSize is the number of worker goroutines (and solver
	// instances).
	PoolSize int

	// QueueCapacity bounds the number of queued jobs. Zero means
	// unbounded; Submit then never blocks and never rejects for space.
	QueueCapacity int

	// RateLimit is the maximum sustained solves per second across the
	// pool. Zero disables rate limiting.
	RateLimit float64

	// RateBurst is the burst size for the rate limiter. Defaults to
	// PoolSize when RateLimit is set and RateBurst is zero.
	RateBurst int

	// ShutdownTimeout bounds Shutdown when its context carries no
	// deadline.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		PoolSize:        4,
		ShutdownTimeout: 30 * time.Second,
	}
}
