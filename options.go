package robowflex

import (
	"fmt"
	"log/slog"
	"time"
)

// Option configures a Pool.
type Option func(*Pool) error

// WithPoolSize sets the number of workers. Each worker gets its own
// solver instance from the factory.
func WithPoolSize(n int) Option {
	return func(p *Pool) error {
		if n <= 0 {
			return fmt.Errorf("robowflex: pool size %d is not positive", n)
		}
		p.cfg.PoolSize = n
		return nil
	}
}

// WithQueueCapacity bounds the queue; Submit returns ErrQueueFull when
// the bound is reached. Zero (the default) means unbounded.
func WithQueueCapacity(n int) Option {
	return func(p *Pool) error {
		if n < 0 {
			return fmt.Errorf("robowflex: queue capacity %d is negative", n)
		}
		p.cfg.QueueCapacity = n
		return nil
	}
}

// WithRateLimit throttles how many solves per second may start across
// the pool, with the given burst (zero burst defaults to the pool size).
func WithRateLimit(perSecond float64, burst int) Option {
	return func(p *Pool) error {
		if perSecond < 0 {
			return fmt.Errorf("robowflex: rate limit %v is negative", perSecond)
		}
		p.cfg.RateLimit = perSecond
		p.cfg.RateBurst = burst
		return nil
	}
}

// WithShutdownTimeout bounds Shutdown when its context has no deadline.
func WithShutdownTimeout(d time.Duration) Option {
	return func(p *Pool) error {
		p.cfg.ShutdownTimeout = d
		return nil
	}
}

// WithLogger sets the structured logger for the pool and its workers.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pool) error {
		p.logger = l
		return nil
	}
}

// WithConfig replaces the whole configuration. Options after this one
// still apply on top.
func WithConfig(cfg Config) Option {
	return func(p *Pool) error {
		p.cfg = cfg
		return nil
	}
}
