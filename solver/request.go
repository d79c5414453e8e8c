package solver

import (
	"fmt"
	"time"

	"github.com/SaroM0/robowflex/scene"
)

// GoalRegion is a pose goal for a robot link: reach Pose (expressed in
// Frame) within the given position and orientation tolerances.
type GoalRegion struct {
	// Link is the robot link that must reach the goal (e.g. "ee_link").
	Link string
	// Frame is the reference frame of the goal pose (e.g. "world").
	Frame string
	Pose  scene.Pose
	// PositionTolerance is the allowed deviation per translation axis.
	PositionTolerance [3]float64
	// OrientationTolerance is the allowed deviation per rotation axis.
	OrientationTolerance [3]float64
}

// Request describes one motion-planning query. Its fields are fixed at
// submission time; the pool treats the request as opaque and immutable.
type Request struct {
	// Group is the joint group to plan for (e.g. "manipulator").
	Group string
	// StartConfiguration is the joint configuration planning starts from,
	// in the group's joint order.
	StartConfiguration []float64
	// Goal is the pose region the plan must reach.
	Goal GoalRegion
	// PlannerID selects a specific planner; empty uses the default.
	PlannerID string
	// AllowedTime bounds the planning computation. Zero means the
	// solver's default budget.
	AllowedTime time.Duration
	// Attempts is how many times the solver may restart before giving
	// up. Zero means one attempt.
	Attempts int
}

// Validate checks the request is complete enough to plan with.
func (r *Request) Validate() error {
	if r == nil {
		return fmt.Errorf("solver: nil request")
	}
	if r.Group == "" {
		return fmt.Errorf("solver: request has no planning group")
	}
	if len(r.StartConfiguration) == 0 {
		return fmt.Errorf("solver: request has no start configuration")
	}
	if r.Goal.Link == "" {
		return fmt.Errorf("solver: goal has no link")
	}
	return nil
}

// RequestBuilder assembles a Request incrementally. The zero-ish builder
// from NewRequest is usable immediately; calls chain.
type RequestBuilder struct {
	req Request
}

// NewRequest starts a builder for the given planning group.
func NewRequest(group string) *RequestBuilder {
	return &RequestBuilder{req: Request{Group: group}}
}

// Start sets the start joint configuration.
func (b *RequestBuilder) Start(configuration ...float64) *RequestBuilder {
	b.req.StartConfiguration = append([]float64(nil), configuration...)
	return b
}

// GoalPose sets a pose goal for link, expressed in frame, with uniform
// position and orientation tolerances.
func (b *RequestBuilder) GoalPose(link, frame string, pose scene.Pose, posTol, ornTol float64) *RequestBuilder {
	b.req.Goal = GoalRegion{
		Link:                 link,
		Frame:                frame,
		Pose:                 pose,
		PositionTolerance:    [3]float64{posTol, posTol, posTol},
		OrientationTolerance: [3]float64{ornTol, ornTol, ornTol},
	}
	return b
}

// GoalRegion sets the full goal region.
func (b *RequestBuilder) GoalRegion(goal GoalRegion) *RequestBuilder {
	b.req.Goal = goal
	return b
}

// Planner selects a planner by ID.
func (b *RequestBuilder) Planner(id string) *RequestBuilder {
	b.req.PlannerID = id
	return b
}

// AllowedTime bounds the planning computation.
func (b *RequestBuilder) AllowedTime(d time.Duration) *RequestBuilder {
	b.req.AllowedTime = d
	return b
}

// Attempts sets the solver restart budget.
func (b *RequestBuilder) Attempts(n int) *RequestBuilder {
	b.req.Attempts = n
	return b
}

// Build validates and returns the request.
func (b *RequestBuilder) Build() (*Request, error) {
	req := b.req
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}
