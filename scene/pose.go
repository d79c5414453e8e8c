package scene

// Vec3 is a 3D translation in meters.
type Vec3 struct {
	X float64 `yaml:"x" msgpack:"x"`
	Y float64 `yaml:"y" msgpack:"y"`
	Z float64 `yaml:"z" msgpack:"z"`
}

// Quat is a rotation quaternion. The zero value is not a valid rotation;
// use IdentityQuat (or a Pose from NewPose/Identity) instead.
type Quat struct {
	W float64 `yaml:"w" msgpack:"w"`
	X float64 `yaml:"x" msgpack:"x"`
	Y float64 `yaml:"y" msgpack:"y"`
	Z float64 `yaml:"z" msgpack:"z"`
}

// IdentityQuat returns the no-rotation quaternion.
func IdentityQuat() Quat { return Quat{W: 1} }

// Pose is a rigid transform: a translation and a rotation.
type Pose struct {
	Translation Vec3 `yaml:"translation" msgpack:"translation"`
	Rotation    Quat `yaml:"rotation" msgpack:"rotation"`
}

// Identity returns the identity pose.
func Identity() Pose { return Pose{Rotation: IdentityQuat()} }

// NewPose returns a pose at the given translation with the given rotation.
func NewPose(t Vec3, r Quat) Pose { return Pose{Translation: t, Rotation: r} }

// Translated returns a copy of the pose shifted by the given offset.
func (p Pose) Translated(d Vec3) Pose {
	p.Translation.X += d.X
	p.Translation.Y += d.Y
	p.Translation.Z += d.Z
	return p
}
