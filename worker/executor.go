// Package worker runs planning jobs: an Executor invokes one solver call
// and records the outcome, and a Pool keeps a fixed set of long-lived
// worker goroutines fed from the queue.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/SaroM0/robowflex/job"
	"github.com/SaroM0/robowflex/solver"
)

// Executor runs a single job against one solver instance and writes the
// job's result slot exactly once. Faults — error returns and panics alike
// — are contained to the job; the executor always returns control to the
// worker loop.
type Executor struct {
	solver solver.Solver
	logger *slog.Logger
}

// NewExecutor creates an Executor bound to a solver instance.
func NewExecutor(s solver.Solver, logger *slog.Logger) *Executor {
	return &Executor{solver: s, logger: logger}
}

// Execute runs a job that has already transitioned to running.
// On a solver result: marks the job completed (the result itself may
// carry a non-success code). On a solver error or panic: marks the job
// failed with the fault recorded.
func (e *Executor) Execute(ctx context.Context, j *job.Job) {
	start := time.Now()
	res, err := e.solve(ctx, j)
	elapsed := time.Since(start)

	if err == nil && res == nil {
		err = fmt.Errorf("robowflex: solver returned no result for job %d", j.Seq())
	}
	if err != nil {
		j.Fail(err)
		e.logger.Debug("job failed",
			slog.Uint64("job_seq", j.Seq()),
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()),
		)
		return
	}

	j.Complete(res)
	e.logger.Debug("job completed",
		slog.Uint64("job_seq", j.Seq()),
		slog.Duration("elapsed", elapsed),
		slog.String("code", res.Code.String()),
	)
}

// solve invokes the solver with the worker boundary's panic guard.
func (e *Executor) solve(ctx context.Context, j *job.Job) (res *solver.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("solver panicked",
				slog.Uint64("job_seq", j.Seq()),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			res = nil
			err = fmt.Errorf("robowflex: panic in solve for job %d: %v", j.Seq(), r)
		}
	}()
	return e.solver.Solve(ctx, j.Snapshot(), j.Request())
}
