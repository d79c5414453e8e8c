package scene_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaroM0/robowflex/scene"
)

func buildScene(t *testing.T) *scene.Scene {
	t.Helper()
	s := scene.New()
	require.NoError(t, s.UpsertObject("table", scene.NewBox(1.2, 0.8, 0.05),
		scene.NewPose(scene.Vec3{Z: 0.7}, scene.IdentityQuat())))
	require.NoError(t, s.UpsertObject("ball", scene.NewSphere(0.05),
		scene.NewPose(scene.Vec3{X: 0.2, Z: 0.8}, scene.IdentityQuat())))
	s.AllowCollision("table", "ball")
	s.SetJointPosition("shoulder_pan_joint", 0.0677)
	s.SetJointPosition("shoulder_lift_joint", -0.8235)
	return s
}

func TestSceneObjects(t *testing.T) {
	s := buildScene(t)

	assert.Equal(t, []string{"ball", "table"}, s.ObjectNames())

	pose, err := s.ObjectPose("ball")
	require.NoError(t, err)
	assert.Equal(t, 0.2, pose.Translation.X)

	require.NoError(t, s.SetObjectPose("ball", pose.Translated(scene.Vec3{Y: 0.1})))
	moved, err := s.ObjectPose("ball")
	require.NoError(t, err)
	assert.Equal(t, 0.1, moved.Translation.Y)

	_, err = s.ObjectPose("ghost")
	assert.Error(t, err)
}

func TestSceneRemoveObjectScrubsReferences(t *testing.T) {
	s := buildScene(t)
	require.NoError(t, s.AttachObject("ball", "ee_link", "finger_1", "finger_2"))

	s.RemoveObject("ball")

	_, ok := s.Object("ball")
	assert.False(t, ok)
	_, ok = s.Attachment("ball")
	assert.False(t, ok)
	assert.False(t, s.CollisionAllowed("table", "ball"))
}

func TestSceneACMIsSymmetric(t *testing.T) {
	s := buildScene(t)

	assert.True(t, s.CollisionAllowed("table", "ball"))
	assert.True(t, s.CollisionAllowed("ball", "table"))

	s.DisallowCollision("ball", "table")
	assert.False(t, s.CollisionAllowed("table", "ball"))
	assert.False(t, s.CollisionAllowed("ball", "table"))
}

func TestSceneAttachDetach(t *testing.T) {
	s := buildScene(t)

	require.NoError(t, s.AttachObject("ball", "ee_link", "finger_1"))
	a, ok := s.Attachment("ball")
	require.True(t, ok)
	assert.Equal(t, "ee_link", a.Link)
	assert.Equal(t, []string{"finger_1"}, a.TouchLinks)

	// Double attach and unknown objects are rejected.
	assert.Error(t, s.AttachObject("ball", "other_link"))
	assert.Error(t, s.AttachObject("ghost", "ee_link"))

	require.NoError(t, s.DetachObject("ball"))
	assert.Error(t, s.DetachObject("ball"))
}

func TestSceneCloneIsIndependent(t *testing.T) {
	s := buildScene(t)
	require.NoError(t, s.AttachObject("ball", "ee_link"))

	c := s.Clone()

	// Mutate the original in every dimension.
	s.RemoveObject("ball")
	require.NoError(t, s.SetObjectPose("table", scene.Identity()))
	s.DisallowCollision("table", "ball")
	s.SetJointPosition("shoulder_pan_joint", 3.14)

	// The clone keeps the state captured at copy time.
	_, ok := c.Object("ball")
	assert.True(t, ok)
	pose, err := c.ObjectPose("table")
	require.NoError(t, err)
	assert.Equal(t, 0.7, pose.Translation.Z)
	assert.True(t, c.CollisionAllowed("table", "ball"))
	p, ok := c.JointPosition("shoulder_pan_joint")
	require.True(t, ok)
	assert.Equal(t, 0.0677, p)
	_, ok = c.Attachment("ball")
	assert.True(t, ok)
}

func TestGeometryValidate(t *testing.T) {
	assert.NoError(t, scene.NewBox(1, 1, 1).Validate())
	assert.NoError(t, scene.NewSphere(0.5).Validate())
	assert.NoError(t, scene.NewCylinder(0.1, 1).Validate())
	assert.NoError(t, scene.NewCone(0.1, 0.3).Validate())
	assert.NoError(t, scene.NewMesh("meshes/gripper.dae").Validate())
	assert.NoError(t, scene.NewMesh("meshes/gripper.dae", 1, 1, 1).Validate())

	assert.Error(t, (&scene.Geometry{Type: scene.ShapeSphere}).Validate())
	assert.Error(t, (&scene.Geometry{Type: scene.ShapeBox, Dimensions: []float64{1}}).Validate())
	assert.Error(t, (&scene.Geometry{Type: "blob", Dimensions: []float64{1}}).Validate())
	assert.Error(t, scene.NewSphere(-1).Validate())
	assert.Error(t, scene.NewMesh("").Validate())

	s := scene.New()
	assert.Error(t, s.UpsertObject("bad", scene.NewSphere(-1), scene.Identity()))
	assert.Error(t, s.UpsertObject("", scene.NewSphere(1), scene.Identity()))
}
