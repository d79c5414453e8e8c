// Package queue provides the pool's pending-job buffer: a thread-safe
// FIFO ordered strictly by submission sequence.
//
// Dequeue is a genuine blocking wait (condition variable, not polling)
// and performs the queued → running transition atomically with removal,
// so there is no window in which a dequeued job can still be canceled.
// Entries canceled while waiting stay in place and become no-ops at
// dequeue time; ordering of the rest is undisturbed.
package queue

import (
	"errors"
	"sync"

	"github.com/SaroM0/robowflex/job"
)

var (
	// ErrClosed is returned by Enqueue after Close.
	ErrClosed = errors.New("robowflex: queue closed")
	// ErrFull is returned by Enqueue when a bounded queue is at
	// capacity.
	ErrFull = errors.New("robowflex: queue full")
)

const compactThreshold = 64

// Queue is a blocking FIFO of queued jobs.
type Queue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	jobs     []*job.Job
	popped   int // consumed slots at the head of the backing array
	capacity int // 0 = unbounded
	closed   bool
}

// New returns an empty queue. capacity bounds the number of waiting
// entries; zero means unbounded.
func New(capacity int) *Queue {
	q := &Queue{capacity: capacity}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends a job and wakes one blocked Dequeue. Jobs must be
// enqueued in sequence order; the queue preserves whatever order it is
// given.
func (q *Queue) Enqueue(j *job.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	if q.capacity > 0 && len(q.jobs) >= q.capacity {
		return ErrFull
	}
	q.jobs = append(q.jobs, j)
	q.cond.Signal()
	return nil
}

// Dequeue blocks until a runnable job is available, transitions it to
// running, and returns it. Entries canceled while queued are skipped.
// After Close, Dequeue drains nothing (the backlog was canceled) and
// returns false.
func (q *Queue) Dequeue() (*job.Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		for len(q.jobs) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.jobs) == 0 {
			return nil, false
		}

		j := q.jobs[0]
		q.jobs[0] = nil
		q.jobs = q.jobs[1:]
		q.popped++
		if q.popped >= compactThreshold {
			q.jobs = append([]*job.Job(nil), q.jobs...)
			q.popped = 0
		}

		// Removal and the running transition are one atomic step: a
		// cancel that lost this race sees a running job and is advisory.
		if j.Start() {
			return j, true
		}
	}
}

// Len returns the number of waiting entries, including entries canceled
// while queued but not yet skipped over.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Close rejects further enqueues, cancels every waiting job, and wakes
// all blocked Dequeue calls so workers can drain out. Close is
// idempotent.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	backlog := q.jobs
	q.jobs = nil
	q.mu.Unlock()

	// Cancel outside the lock: each cancel releases that job's waiters
	// and runs its terminal hook.
	for _, j := range backlog {
		j.Cancel()
	}

	q.mu.Lock()
	q.cond.Broadcast()
	q.mu.Unlock()
}
