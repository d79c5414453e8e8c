package solver_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaroM0/robowflex/scene"
	"github.com/SaroM0/robowflex/solver"
)

func TestRequestBuilder(t *testing.T) {
	pose := scene.NewPose(scene.Vec3{X: -0.268, Y: -0.826, Z: 1.313}, scene.Quat{Y: 1})

	req, err := solver.NewRequest("manipulator").
		Start(0.0677, -0.8235, 0.9860, -0.1624, 0.0678, 0).
		GoalPose("ee_link", "world", pose, 0.01, 0.01).
		Planner("RRTConnect").
		AllowedTime(5 * time.Second).
		Attempts(3).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "manipulator", req.Group)
	assert.Len(t, req.StartConfiguration, 6)
	assert.Equal(t, "ee_link", req.Goal.Link)
	assert.Equal(t, "world", req.Goal.Frame)
	assert.Equal(t, pose, req.Goal.Pose)
	assert.Equal(t, [3]float64{0.01, 0.01, 0.01}, req.Goal.PositionTolerance)
	assert.Equal(t, "RRTConnect", req.PlannerID)
	assert.Equal(t, 5*time.Second, req.AllowedTime)
	assert.Equal(t, 3, req.Attempts)
}

func TestRequestBuilderCopiesStart(t *testing.T) {
	start := []float64{1, 2, 3}
	req, err := solver.NewRequest("arm").
		Start(start...).
		GoalPose("ee", "world", scene.Identity(), 0.01, 0.01).
		Build()
	require.NoError(t, err)

	start[0] = 99
	assert.Equal(t, 1.0, req.StartConfiguration[0])
}

func TestRequestValidate(t *testing.T) {
	_, err := solver.NewRequest("").Start(0).GoalPose("ee", "world", scene.Identity(), 0, 0).Build()
	assert.ErrorContains(t, err, "group")

	_, err = solver.NewRequest("arm").GoalPose("ee", "world", scene.Identity(), 0, 0).Build()
	assert.ErrorContains(t, err, "start configuration")

	_, err = solver.NewRequest("arm").Start(0).Build()
	assert.ErrorContains(t, err, "link")
}

func TestResultOK(t *testing.T) {
	assert.True(t, solver.Success(&solver.Trajectory{}, time.Millisecond).OK())
	assert.False(t, solver.Failure(solver.CodeNoSolution, time.Millisecond).OK())
	assert.False(t, (*solver.Result)(nil).OK())

	assert.Equal(t, "no_solution", solver.CodeNoSolution.String())
	assert.Equal(t, "success", solver.CodeSuccess.String())
}
