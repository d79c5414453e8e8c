package robowflex

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/SaroM0/robowflex/job"
	"github.com/SaroM0/robowflex/queue"
	"github.com/SaroM0/robowflex/scene"
	"github.com/SaroM0/robowflex/solver"
	"github.com/SaroM0/robowflex/worker"
)

// Pool owns the job queue and the worker pool. Construct one with New;
// workers start immediately and run until Shutdown. A Pool is safe for
// concurrent use by any number of submitting goroutines.
type Pool struct {
	cfg    Config
	logger *slog.Logger

	queue   *queue.Queue
	workers *worker.Pool

	seq     atomic.Uint64
	stopped atomic.Bool

	// Terminal-state counters, bumped by each job's terminal hook.
	submitted atomic.Uint64
	completed atomic.Uint64
	failed    atomic.Uint64
	canceled  atomic.Uint64
}

// New builds a pool whose workers each hold an independent solver
// instance produced by factory, then starts them. Workers never share an
// instance, so solvers need no internal locking.
func New(factory solver.Factory, opts ...Option) (*Pool, error) {
	if factory == nil {
		return nil, ErrNoFactory
	}

	p := &Pool{
		cfg:    DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	p.queue = queue.New(p.cfg.QueueCapacity)

	executors := make([]*worker.Executor, p.cfg.PoolSize)
	for i := range executors {
		s, err := factory.New()
		if err != nil {
			return nil, err
		}
		executors[i] = worker.NewExecutor(s, p.logger)
	}

	var workerOpts []worker.Option
	if p.cfg.RateLimit > 0 {
		burst := p.cfg.RateBurst
		if burst <= 0 {
			burst = p.cfg.PoolSize
		}
		workerOpts = append(workerOpts, worker.WithLimiter(rate.NewLimiter(rate.Limit(p.cfg.RateLimit), burst)))
	}

	workers, err := worker.NewPool(p.queue, executors, p.logger, workerOpts...)
	if err != nil {
		return nil, err
	}
	p.workers = workers
	p.workers.Start()
	return p, nil
}

// Submit snapshots the scene, creates a queued job, enqueues it, and
// returns the handle without blocking. The snapshot is taken before
// Submit returns, so later edits to sc never reach the job. After
// Shutdown begins, Submit fails with ErrPoolStopped.
func (p *Pool) Submit(sc *scene.Scene, req *solver.Request) (*job.Job, error) {
	if sc == nil {
		return nil, ErrNilScene
	}
	if p.stopped.Load() {
		return nil, ErrPoolStopped
	}

	j := job.New(p.seq.Add(1), sc.Clone(), req, job.WithTerminalFunc(p.recordTerminal))

	if err := p.queue.Enqueue(j); err != nil {
		// A submission racing Shutdown lands here; it either enqueued
		// fully above or fails fully now.
		if errors.Is(err, queue.ErrClosed) {
			return nil, ErrPoolStopped
		}
		return nil, err
	}

	p.submitted.Add(1)
	p.logger.Debug("job submitted", slog.Uint64("job_seq", j.Seq()))
	return j, nil
}

// Plan submits and blocks until the result is available — equivalent to
// Submit followed by Get on the handle.
func (p *Pool) Plan(ctx context.Context, sc *scene.Scene, req *solver.Request) (*solver.Result, error) {
	j, err := p.Submit(sc, req)
	if err != nil {
		return nil, err
	}
	return j.Get(ctx)
}

// PlanEach submits one job per request against the same scene and blocks
// until all finish. Results are returned in request order. The first
// fault is returned (and cancels the remaining waits via the group
// context); unsuccessful-but-valid results are not faults.
func (p *Pool) PlanEach(ctx context.Context, sc *scene.Scene, reqs ...*solver.Request) ([]*solver.Result, error) {
	jobs := make([]*job.Job, len(reqs))
	for i, req := range reqs {
		j, err := p.Submit(sc, req)
		if err != nil {
			return nil, err
		}
		jobs[i] = j
	}

	results := make([]*solver.Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			res, err := j.Get(ctx)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Shutdown stops accepting submissions, cancels every job still queued,
// lets in-flight jobs finish, and joins the workers. It is idempotent
// and safe to call while other goroutines are still submitting: their
// submissions either complete fully before the queue closes or fail with
// ErrPoolStopped. When ctx has no deadline, Config.ShutdownTimeout
// applies.
func (p *Pool) Shutdown(ctx context.Context) error {
	if !p.stopped.CompareAndSwap(false, true) {
		return nil
	}

	p.logger.Info("pool shutting down",
		slog.Int("queued", p.queue.Len()),
		slog.Int("running", p.workers.Active()),
	)

	p.queue.Close()

	if _, ok := ctx.Deadline(); !ok && p.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.ShutdownTimeout)
		defer cancel()
	}
	return p.workers.Stop(ctx)
}

// Stats is a point-in-time snapshot of pool accounting.
type Stats struct {
	// Submitted counts jobs accepted by Submit.
	Submitted uint64
	// Completed counts jobs whose solver returned a result.
	Completed uint64
	// Failed counts jobs whose solver faulted.
	Failed uint64
	// Canceled counts jobs canceled before starting.
	Canceled uint64
	// Queued is the current queue depth, including canceled entries not
	// yet skipped over.
	Queued int
	// Running is how many workers are executing right now.
	Running int
	// Workers is the pool size.
	Workers int
}

// Stats returns current pool accounting. Counters are updated as each
// job reaches its terminal state, so a snapshot taken mid-flight may be
// momentarily inconsistent between fields.
func (p *Pool) Stats() Stats {
	return Stats{
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
		Canceled:  p.canceled.Load(),
		Queued:    p.queue.Len(),
		Running:   p.workers.Active(),
		Workers:   p.workers.Size(),
	}
}

// recordTerminal is each job's terminal hook.
func (p *Pool) recordTerminal(j *job.Job) {
	switch j.State() {
	case job.StateCompleted:
		p.completed.Add(1)
	case job.StateFailed:
		p.failed.Add(1)
	case job.StateCanceled:
		p.canceled.Add(1)
	}
}
