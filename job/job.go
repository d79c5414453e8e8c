// Package job defines the unit of submitted planning work and the handle
// clients hold on it.
//
// A [Job] carries an immutable scene snapshot, the request, and a state
// machine:
//
//	queued → running → completed
//	queued → running → failed
//	queued → canceled
//
// Transitions are monotonic. Cancellation of a queued job is immediate;
// cancellation of a running job only records the request — the
// computation is never interrupted and the job still ends completed or
// failed on its own terms.
//
// The Job value itself is the handle: it is safe to share between any
// number of goroutines, any of which may Cancel, Wait, or Get
// concurrently. Completion is signaled by closing an internal channel, so
// all waiters are released together.
package job

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/SaroM0/robowflex/scene"
	"github.com/SaroM0/robowflex/solver"
)

// ErrCanceled is returned by Get when the job was canceled before a
// worker picked it up, and so has no result.
var ErrCanceled = errors.New("robowflex: job canceled")

// State is the lifecycle state of a job.
type State string

const (
	// StateQueued means the job is waiting in the pool's queue.
	StateQueued State = "queued"
	// StateRunning means a worker is executing the job.
	StateRunning State = "running"
	// StateCanceled means the job was canceled before it started.
	StateCanceled State = "canceled"
	// StateCompleted means the solver returned a result.
	StateCompleted State = "completed"
	// StateFailed means the solver faulted (returned an error or
	// panicked).
	StateFailed State = "failed"
)

// Terminal reports whether the state is final.
func (s State) Terminal() bool {
	return s == StateCanceled || s == StateCompleted || s == StateFailed
}

// Option configures a Job at creation.
type Option func(*Job)

// WithTerminalFunc installs fn to be called exactly once when the job
// reaches a terminal state, just before waiters are released. Used by the
// pool for accounting; fn must not block.
func WithTerminalFunc(fn func(*Job)) Option {
	return func(j *Job) { j.onTerminal = fn }
}

// Job is a submitted planning query and the client's handle on it.
type Job struct {
	seq      uint64
	snapshot *scene.Scene
	request  *solver.Request

	mu       sync.Mutex
	state    State
	canceled bool // cancellation requested; independent of state
	result   *solver.Result
	err      error
	done     chan struct{}

	submittedAt time.Time
	startedAt   time.Time
	finishedAt  time.Time

	onTerminal func(*Job)
}

// New creates a queued job. The snapshot must already be an exclusive
// copy; the job takes ownership of it.
func New(seq uint64, snapshot *scene.Scene, req *solver.Request, opts ...Option) *Job {
	j := &Job{
		seq:         seq,
		snapshot:    snapshot,
		request:     req,
		state:       StateQueued,
		done:        make(chan struct{}),
		submittedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Seq returns the job's submission sequence number. Sequence numbers are
// assigned monotonically at submission and are the queue's only ordering
// key.
func (j *Job) Seq() uint64 { return j.seq }

// Snapshot returns the scene snapshot the job owns. Workers read it
// during the solve; nothing mutates it after capture.
func (j *Job) Snapshot() *scene.Scene { return j.snapshot }

// Request returns the job's planning request.
func (j *Job) Request() *solver.Request { return j.request }

// State returns the job's current lifecycle state.
func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// CancelRequested reports whether Cancel has been called, regardless of
// whether it had any effect.
func (j *Job) CancelRequested() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.canceled
}

// Done returns a channel closed when the job reaches a terminal state.
func (j *Job) Done() <-chan struct{} { return j.done }

// Cancel requests cancellation. A queued job transitions to canceled
// immediately and will never invoke the solver; its waiters are released.
// A running job is not interrupted: the flag is recorded and the job
// still finishes with its real outcome. Canceling a terminal job is a
// no-op. Cancel never fails.
func (j *Job) Cancel() {
	j.mu.Lock()
	j.canceled = true
	if j.state != StateQueued {
		j.mu.Unlock()
		return
	}
	j.state = StateCanceled
	j.finishedAt = time.Now()
	j.mu.Unlock()

	// Hook first, then release: a waiter woken by Get must observe the
	// terminal accounting already done.
	if j.onTerminal != nil {
		j.onTerminal(j)
	}
	close(j.done)
}

// Wait blocks until the job reaches a terminal state or ctx is done.
// A ctx error aborts only this wait; the job itself is unaffected.
// Any number of goroutines may wait concurrently.
func (j *Job) Wait(ctx context.Context) error {
	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get blocks like Wait and then returns the job's outcome: the solver's
// result for a completed job (inspect its error code for unsuccessful
// solves), the recorded fault for a failed job, or ErrCanceled for a job
// canceled before it started. Get is idempotent — every call on a
// terminal job returns the same outcome.
func (j *Job) Get(ctx context.Context) (*solver.Result, error) {
	if err := j.Wait(ctx); err != nil {
		return nil, err
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	switch j.state {
	case StateCanceled:
		return nil, ErrCanceled
	case StateFailed:
		return nil, j.err
	default:
		return j.result, nil
	}
}

// Start attempts the queued → running transition. It returns false if the
// job is no longer queued (canceled while waiting), in which case the
// caller must skip it. The queue calls this atomically with removal, so a
// dequeued job is already running before any cancel can observe it.
func (j *Job) Start() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != StateQueued {
		return false
	}
	j.state = StateRunning
	j.startedAt = time.Now()
	return true
}

// Complete records the solver's result and releases all waiters. It is
// called exactly once, by the worker that ran the job.
func (j *Job) Complete(res *solver.Result) {
	j.finish(StateCompleted, res, nil)
}

// Fail records a solver fault and releases all waiters. It is called
// exactly once, by the worker that ran the job.
func (j *Job) Fail(err error) {
	j.finish(StateFailed, nil, err)
}

func (j *Job) finish(state State, res *solver.Result, err error) {
	j.mu.Lock()
	if j.state != StateRunning {
		// Double completion is a pool bug, not something a client can
		// trigger. Keep the first outcome.
		j.mu.Unlock()
		return
	}
	j.state = state
	j.result = res
	j.err = err
	j.finishedAt = time.Now()
	j.mu.Unlock()

	if j.onTerminal != nil {
		j.onTerminal(j)
	}
	close(j.done)
}

// Runtime returns how long the job has been (or was) executing. Zero
// until the job starts.
func (j *Job) Runtime() time.Duration {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.startedAt.IsZero() {
		return 0
	}
	if j.finishedAt.IsZero() {
		return time.Since(j.startedAt)
	}
	return j.finishedAt.Sub(j.startedAt)
}
