package solver

import "time"

// ErrorCode classifies the outcome of a solve. Mirroring the planner
// convention the pool was built for, an unsuccessful solve is still a
// normal result: the job completes and the code tells the caller why no
// plan came back.
type ErrorCode int

const (
	// CodeSuccess means a valid plan was found.
	CodeSuccess ErrorCode = iota
	// CodeNoSolution means the planner exhausted its budget without
	// finding a valid plan.
	CodeNoSolution
	// CodeTimeout means the allowed planning time elapsed.
	CodeTimeout
	// CodeInvalidRequest means the request could not be planned for
	// (unknown group, empty start state, unreachable frame).
	CodeInvalidRequest
	// CodeInvalidScene means the snapshot was rejected by the planner
	// (e.g. start state in collision).
	CodeInvalidScene
)

// String returns the code's name.
func (c ErrorCode) String() string {
	switch c {
	case CodeSuccess:
		return "success"
	case CodeNoSolution:
		return "no_solution"
	case CodeTimeout:
		return "timeout"
	case CodeInvalidRequest:
		return "invalid_request"
	case CodeInvalidScene:
		return "invalid_scene"
	default:
		return "unknown"
	}
}

// Trajectory is a joint-space path: one waypoint per row, in the order of
// JointNames.
type Trajectory struct {
	JointNames []string
	Waypoints  [][]float64
}

// Result is the outcome of one solve. The pool stores it in the job's
// result slot exactly once and never mutates it afterward; callers must
// treat it as read-only.
type Result struct {
	Code ErrorCode
	// Trajectory is the planned path. Only set when Code is CodeSuccess.
	Trajectory *Trajectory
	// PlanningTime is how long the solver spent on this request.
	PlanningTime time.Duration
}

// OK reports whether the solve produced a valid plan.
func (r *Result) OK() bool { return r != nil && r.Code == CodeSuccess }

// Success wraps a trajectory in a successful result.
func Success(traj *Trajectory, planningTime time.Duration) *Result {
	return &Result{Code: CodeSuccess, Trajectory: traj, PlanningTime: planningTime}
}

// Failure returns an unsuccessful result with the given code.
func Failure(code ErrorCode, planningTime time.Duration) *Result {
	return &Result{Code: code, PlanningTime: planningTime}
}
