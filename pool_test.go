package robowflex_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SaroM0/robowflex"
	"github.com/SaroM0/robowflex/job"
	"github.com/SaroM0/robowflex/scene"
	"github.com/SaroM0/robowflex/solver"
)

// gatedSolver blocks every solve until the gate is closed, then returns
// success. It records the order in which jobs reach the solver.
type gatedSolver struct {
	gate <-chan struct{}

	mu    sync.Mutex
	order []uint64
}

func (s *gatedSolver) Solve(_ context.Context, _ *scene.Scene, req *solver.Request) (*solver.Result, error) {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	s.order = append(s.order, seqOf(req))
	s.mu.Unlock()
	return solver.Success(&solver.Trajectory{}, time.Millisecond), nil
}

// seqOf extracts the submission marker tests stash in Attempts.
func seqOf(req *solver.Request) uint64 { return uint64(req.Attempts) }

func (s *gatedSolver) solved() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uint64, len(s.order))
	copy(out, s.order)
	return out
}

func testScene(t *testing.T) *scene.Scene {
	t.Helper()
	sc := scene.New()
	if err := sc.UpsertObject("ball", scene.NewSphere(0.1), scene.Identity()); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	return sc
}

func testRequest(marker int) *solver.Request {
	return &solver.Request{
		Group:              "manipulator",
		StartConfiguration: []float64{0.0677, -0.8235, 0.9860, -0.1624, 0.0678, 0},
		Goal:               solver.GoalRegion{Link: "ee_link", Frame: "world"},
		Attempts:           marker,
	}
}

func newGatedPool(t *testing.T, size int, gate <-chan struct{}) (*robowflex.Pool, *gatedSolver) {
	t.Helper()
	s := &gatedSolver{gate: gate}
	pool, err := robowflex.New(solver.SharedFactory(s), robowflex.WithPoolSize(size))
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		pool.Shutdown(ctx)
	})
	return pool, s
}

// The reference scenario: two workers, eight submissions, job 5 canceled
// before it can start. Job 5 must never reach the solver; all others
// succeed.
func TestPool_CancelBeforeStart(t *testing.T) {
	gate := make(chan struct{})
	pool, s := newGatedPool(t, 2, gate)
	sc := testScene(t)

	jobs := make([]*job.Job, 0, 8)
	for i := 1; i <= 8; i++ {
		j, err := pool.Submit(sc, testRequest(i))
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		jobs = append(jobs, j)
	}

	// Workers are blocked inside jobs 1 and 2; job 5 is still queued.
	jobs[4].Cancel()
	close(gate)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := jobs[4].Get(ctx); !errors.Is(err, robowflex.ErrJobCanceled) {
		t.Fatalf("canceled job Get = %v, want ErrJobCanceled", err)
	}

	for i, j := range jobs {
		if i == 4 {
			continue
		}
		res, err := j.Get(ctx)
		if err != nil {
			t.Fatalf("job %d: %v", i+1, err)
		}
		if !res.OK() {
			t.Fatalf("job %d code = %v, want success", i+1, res.Code)
		}
	}

	for _, marker := range s.solved() {
		if marker == 5 {
			t.Fatal("canceled job reached the solver")
		}
	}

	stats := pool.Stats()
	if stats.Submitted != 8 || stats.Completed != 7 || stats.Canceled != 1 || stats.Failed != 0 {
		t.Fatalf("stats = %+v, want 8 submitted, 7 completed, 1 canceled", stats)
	}
}

func TestPool_StartsInSubmissionOrder(t *testing.T) {
	gate := make(chan struct{})
	pool, s := newGatedPool(t, 1, gate)
	sc := testScene(t)

	var jobs []*job.Job
	for i := 1; i <= 5; i++ {
		j, err := pool.Submit(sc, testRequest(i))
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		jobs = append(jobs, j)
	}
	close(gate)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, j := range jobs {
		if _, err := j.Get(ctx); err != nil {
			t.Fatalf("job %d: %v", j.Seq(), err)
		}
	}

	order := s.solved()
	for i, marker := range order {
		if marker != uint64(i+1) {
			t.Fatalf("solve order = %v, want submission order", order)
		}
	}
}

func TestPool_PlanMatchesSubmitGet(t *testing.T) {
	pool, _ := newGatedPool(t, 2, nil)
	sc := testScene(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	planned, err := pool.Plan(ctx, sc, testRequest(1))
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	j, err := pool.Submit(sc, testRequest(2))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	got, err := j.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if planned.Code != got.Code {
		t.Fatalf("plan code %v != submit+get code %v", planned.Code, got.Code)
	}
}

func TestPool_PlanEach(t *testing.T) {
	pool, _ := newGatedPool(t, 2, nil)
	sc := testScene(t)

	reqs := []*solver.Request{testRequest(1), testRequest(2), testRequest(3)}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	results, err := pool.PlanEach(ctx, sc, reqs...)
	if err != nil {
		t.Fatalf("plan each: %v", err)
	}
	if len(results) != len(reqs) {
		t.Fatalf("got %d results, want %d", len(results), len(reqs))
	}
	for i, res := range results {
		if !res.OK() {
			t.Fatalf("result %d code = %v, want success", i, res.Code)
		}
	}
}

func TestPool_SnapshotIsolation(t *testing.T) {
	gate := make(chan struct{})
	pool, _ := newGatedPool(t, 1, gate)

	sc := testScene(t)
	j, err := pool.Submit(sc, testRequest(1))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Mutating the live document after submission must not reach the
	// job's snapshot.
	sc.RemoveObject("ball")
	if err := sc.UpsertObject("wall", scene.NewBox(1, 1, 1), scene.Identity()); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if _, ok := j.Snapshot().Object("ball"); !ok {
		t.Fatal("snapshot lost an object to a post-submit edit")
	}
	if _, ok := j.Snapshot().Object("wall"); ok {
		t.Fatal("snapshot gained an object from a post-submit edit")
	}
	close(gate)
}

func TestPool_ShutdownCancelsBacklogAndStopsIntake(t *testing.T) {
	gate := make(chan struct{})
	pool, _ := newGatedPool(t, 1, gate)
	sc := testScene(t)

	running, err := pool.Submit(sc, testRequest(1))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	// Wait for the worker to pick it up so the next job stays queued.
	deadline := time.Now().Add(2 * time.Second)
	for running.State() != job.StateRunning {
		if time.Now().After(deadline) {
			t.Fatal("first job never started")
		}
		time.Sleep(time.Millisecond)
	}

	queued, err := pool.Submit(sc, testRequest(2))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	shutdownDone := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownDone <- pool.Shutdown(ctx)
	}()

	// The backlog is dropped straight away, even while a job runs.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := queued.Get(ctx); !errors.Is(err, robowflex.ErrJobCanceled) {
		t.Fatalf("queued job Get = %v, want ErrJobCanceled", err)
	}

	// Submissions during shutdown fail with a pool-stopped condition.
	if _, err := pool.Submit(sc, testRequest(3)); !errors.Is(err, robowflex.ErrPoolStopped) {
		t.Fatalf("submit during shutdown = %v, want ErrPoolStopped", err)
	}

	// The in-flight job finishes on its own terms.
	close(gate)
	if err := <-shutdownDone; err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	res, err := running.Get(ctx)
	if err != nil {
		t.Fatalf("in-flight job after shutdown: %v", err)
	}
	if !res.OK() {
		t.Fatalf("in-flight job code = %v, want success", res.Code)
	}
}

func TestPool_ShutdownIdempotent(t *testing.T) {
	pool, _ := newGatedPool(t, 1, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Shutdown(ctx); err != nil {
		t.Fatalf("first shutdown: %v", err)
	}
	if err := pool.Shutdown(ctx); err != nil {
		t.Fatalf("second shutdown: %v", err)
	}
}

func TestPool_QueueCapacity(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	s := &gatedSolver{gate: gate}
	pool, err := robowflex.New(solver.SharedFactory(s),
		robowflex.WithPoolSize(1),
		robowflex.WithQueueCapacity(1),
	)
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		pool.Shutdown(ctx)
	})
	sc := testScene(t)

	first, err := pool.Submit(sc, testRequest(1))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for first.State() != job.StateRunning {
		if time.Now().After(deadline) {
			t.Fatal("first job never started")
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := pool.Submit(sc, testRequest(2)); err != nil {
		t.Fatalf("submit within capacity: %v", err)
	}
	if _, err := pool.Submit(sc, testRequest(3)); !errors.Is(err, robowflex.ErrQueueFull) {
		t.Fatalf("submit beyond capacity = %v, want ErrQueueFull", err)
	}
}
