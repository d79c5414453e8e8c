package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/SaroM0/robowflex/queue"
)

// Pool is a fixed set of worker goroutines. Each worker owns its own
// solver instance (built once from the factory) and loops: blocking
// dequeue, optional rate-limit admission, execute. Workers exit when the
// queue is closed and drained.
type Pool struct {
	queue     *queue.Queue
	executors []*Executor
	limiter   *rate.Limiter
	logger    *slog.Logger
	id        string

	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup
	active  atomic.Int64
}

// Option configures a Pool.
type Option func(*Pool)

// WithLimiter throttles how fast workers may begin solves, pool-wide.
func WithLimiter(l *rate.Limiter) Option {
	return func(p *Pool) { p.limiter = l }
}

// NewPool creates a pool of len(executors) workers, one executor each.
func NewPool(q *queue.Queue, executors []*Executor, logger *slog.Logger, opts ...Option) (*Pool, error) {
	if len(executors) == 0 {
		return nil, fmt.Errorf("robowflex: worker pool needs at least one executor")
	}
	p := &Pool{
		queue:     q,
		executors: executors,
		logger:    logger,
		id:        uuid.NewString(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// ID returns the pool's identifier, used only for logging.
func (p *Pool) ID() string { return p.id }

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.executors) }

// Active returns how many workers are executing a job right now.
func (p *Pool) Active() int { return int(p.active.Load()) }

// Start launches the worker goroutines. It returns immediately and is a
// no-op when already running.
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true

	p.logger.Info("worker pool starting",
		slog.String("pool_id", p.id),
		slog.Int("workers", len(p.executors)),
	)

	for i, e := range p.executors {
		p.wg.Add(1)
		go p.run(i, e)
	}
}

// Stop waits for all workers to drain out of the closed queue and exit.
// The caller must close the queue first; with the queue still open Stop
// blocks until ctx expires. A ctx error abandons the wait but the
// workers keep finishing their in-flight jobs.
func (p *Pool) Stop(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("worker pool stopped", slog.String("pool_id", p.id))
		return nil
	case <-ctx.Done():
		p.logger.Warn("worker pool stop timed out; in-flight jobs still finishing",
			slog.String("pool_id", p.id),
		)
		return ctx.Err()
	}
}

// run is one worker's loop for the pool lifetime.
func (p *Pool) run(n int, e *Executor) {
	defer p.wg.Done()

	for {
		j, ok := p.queue.Dequeue()
		if !ok {
			p.logger.Debug("worker exiting", slog.String("pool_id", p.id), slog.Int("worker", n))
			return
		}

		if p.limiter != nil {
			if err := p.limiter.Wait(context.Background()); err != nil {
				// Unreachable with a background context; solve anyway.
				p.logger.Error("rate limiter wait failed", slog.String("error", err.Error()))
			}
		}

		p.active.Add(1)
		e.Execute(context.Background(), j)
		p.active.Add(-1)
	}
}
