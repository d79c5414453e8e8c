// Package solver defines the contract between the planning pool and the
// computation it runs. A Solver turns an immutable scene snapshot and a
// motion-plan request into a result; a Factory produces one Solver per
// worker so a non-thread-safe implementation never needs internal locking.
package solver

import (
	"context"

	"github.com/SaroM0/robowflex/scene"
)

// Solver computes a motion plan for a request against a scene snapshot.
//
// The snapshot is exclusively owned by the job being solved and is never
// mutated after capture, so implementations may read it freely without
// synchronization. Implementations are not required to be safe for
// concurrent use: the pool gives each worker its own instance.
//
// Returning a non-nil error means the solver itself faulted and the job is
// recorded as failed. "No plan found" is not an error: return a Result
// whose code is a non-success code (see [ErrorCode]) so the caller can
// inspect the outcome.
type Solver interface {
	Solve(ctx context.Context, snapshot *scene.Scene, req *Request) (*Result, error)
}

// SolveFunc adapts a plain function to the Solver interface.
type SolveFunc func(ctx context.Context, snapshot *scene.Scene, req *Request) (*Result, error)

// Solve calls f.
func (f SolveFunc) Solve(ctx context.Context, snapshot *scene.Scene, req *Request) (*Result, error) {
	return f(ctx, snapshot, req)
}

// Factory produces solver instances. New is called once per worker at
// pool construction; each returned instance is used by exactly one
// worker for the pool's lifetime.
type Factory interface {
	New() (Solver, error)
}

// FactoryFunc adapts a plain function to the Factory interface.
type FactoryFunc func() (Solver, error)

// New calls f.
func (f FactoryFunc) New() (Solver, error) { return f() }

// SharedFactory returns a Factory that hands the same Solver to every
// worker. Only use this with solvers that are safe for concurrent use.
func SharedFactory(s Solver) Factory {
	return FactoryFunc(func() (Solver, error) { return s, nil })
}
