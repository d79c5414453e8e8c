// Package robowflex provides an asynchronous motion-planning job pool: a
// bounded set of workers that execute expensive planning queries against
// immutable scene snapshots, with non-blocking submission, best-effort
// cancellation, and blocking retrieval per job.
//
// # Quick Start
//
//	pool, err := robowflex.New(factory, robowflex.WithPoolSize(4))
//	if err != nil {
//	    // ...
//	}
//	defer pool.Shutdown(context.Background())
//
//	j, err := pool.Submit(sc, req)   // snapshots sc; returns immediately
//	res, err := j.Get(ctx)           // blocks until the job finishes
//
// A synchronous convenience is available when no overlap is needed:
//
//	res, err := pool.Plan(ctx, sc, req)
//
// # Model
//
// Submit deep-copies the scene, so concurrent jobs never observe each
// other's (or the caller's) in-flight edits. Jobs start strictly in
// submission order; completion order depends on which worker finishes
// first. Cancellation is non-preemptive: it prevents a queued job from
// ever starting, and is purely advisory once the job runs. A fault inside
// one solve — including a panic — fails that job only; the worker and the
// pool keep serving.
//
// The solve computation itself is pluggable: implement [solver.Solver]
// and hand the pool a [solver.Factory] producing one instance per worker.
// Scene documents live in the scene package, including YAML files and
// binary bag streams.
package robowflex
