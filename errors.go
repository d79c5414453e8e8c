package robowflex

import (
	"errors"

	"github.com/SaroM0/robowflex/job"
	"github.com/SaroM0/robowflex/queue"
)

var (
	// ErrPoolStopped is returned by Submit and Plan once Shutdown has
	// begun.
	ErrPoolStopped = errors.New("robowflex: pool stopped")

	// ErrNoFactory is returned by New when no solver factory is given.
	ErrNoFactory = errors.New("robowflex: no solver factory")

	// ErrNilScene is returned by Submit and Plan for a nil scene.
	ErrNilScene = errors.New("robowflex: nil scene")

	// ErrJobCanceled is returned by Get on a job canceled before it
	// started. Alias of job.ErrCanceled for callers that only import
	// the root package.
	ErrJobCanceled = job.ErrCanceled

	// ErrQueueFull is returned by Submit when a bounded queue is at
	// capacity. Alias of queue.ErrFull.
	ErrQueueFull = queue.ErrFull
)
