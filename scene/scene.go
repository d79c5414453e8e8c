// Package scene models the planning environment: named collision objects
// with geometry and poses, an allowed-collision matrix, objects attached
// to robot links, and the robot's current joint state.
//
// A Scene is a plain document. It is not safe for concurrent mutation;
// callers that share a scene across goroutines hand out independent deep
// copies via [Scene.Clone]. The planning pool snapshots a scene exactly
// this way at submission time, so in-flight edits to the live document
// never leak into running jobs.
//
// Scenes round-trip through YAML files ([Scene.Save], [Load]) and can be
// appended to binary bag files ([Bag]) for scene streams.
package scene

import (
	"fmt"
	"sort"
)

// Object is a named collision object: shared immutable geometry plus a
// per-scene pose.
type Object struct {
	Geometry *Geometry
	Pose     Pose
}

// Attachment records that an object is attached to a robot link. Attached
// objects move with the link and are allowed to touch the listed links.
type Attachment struct {
	Link       string
	TouchLinks []string
}

// Scene is a mutable environment document.
type Scene struct {
	objects     map[string]*Object
	attachments map[string]*Attachment
	acm         map[string]map[string]bool
	robotState  map[string]float64
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{
		objects:     make(map[string]*Object),
		attachments: make(map[string]*Attachment),
		acm:         make(map[string]map[string]bool),
		robotState:  make(map[string]float64),
	}
}

// UpsertObject adds the named object, or updates its geometry and pose if
// it already exists.
func (s *Scene) UpsertObject(name string, geom *Geometry, pose Pose) error {
	if name == "" {
		return fmt.Errorf("scene: object name is empty")
	}
	if err := geom.Validate(); err != nil {
		return fmt.Errorf("scene: object %q: %w", name, err)
	}
	s.objects[name] = &Object{Geometry: geom, Pose: pose}
	return nil
}

// RemoveObject deletes the named object along with its attachment and
// collision-allowance entries. Removing an unknown object is a no-op.
func (s *Scene) RemoveObject(name string) {
	delete(s.objects, name)
	delete(s.attachments, name)
	delete(s.acm, name)
	for _, row := range s.acm {
		delete(row, name)
	}
}

// Object returns the named object, or false if it does not exist.
func (s *Scene) Object(name string) (*Object, bool) {
	o, ok := s.objects[name]
	return o, ok
}

// ObjectNames returns the scene's object names in sorted order.
func (s *Scene) ObjectNames() []string {
	names := make([]string, 0, len(s.objects))
	for name := range s.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ObjectPose returns the pose of the named object.
func (s *Scene) ObjectPose(name string) (Pose, error) {
	o, ok := s.objects[name]
	if !ok {
		return Pose{}, fmt.Errorf("scene: no object named %q", name)
	}
	return o.Pose, nil
}

// SetObjectPose moves the named object.
func (s *Scene) SetObjectPose(name string, pose Pose) error {
	o, ok := s.objects[name]
	if !ok {
		return fmt.Errorf("scene: no object named %q", name)
	}
	o.Pose = pose
	return nil
}

// AttachObject attaches the named object to a robot link. The object must
// exist and must not already be attached. Touch links are the links the
// attached object is allowed to contact without registering a collision.
func (s *Scene) AttachObject(name, link string, touchLinks ...string) error {
	if _, ok := s.objects[name]; !ok {
		return fmt.Errorf("scene: no object named %q", name)
	}
	if _, ok := s.attachments[name]; ok {
		return fmt.Errorf("scene: object %q is already attached", name)
	}
	if link == "" {
		return fmt.Errorf("scene: attach link is empty")
	}
	tl := make([]string, len(touchLinks))
	copy(tl, touchLinks)
	s.attachments[name] = &Attachment{Link: link, TouchLinks: tl}
	return nil
}

// DetachObject detaches the named object from the robot.
func (s *Scene) DetachObject(name string) error {
	if _, ok := s.attachments[name]; !ok {
		return fmt.Errorf("scene: object %q is not attached", name)
	}
	delete(s.attachments, name)
	return nil
}

// Attachment returns the attachment record for the named object, or false
// if the object is not attached.
func (s *Scene) Attachment(name string) (*Attachment, bool) {
	a, ok := s.attachments[name]
	return a, ok
}

// AllowCollision marks the pair (a, b) as allowed to collide. The matrix
// is symmetric: AllowCollision(a, b) implies CollisionAllowed(b, a).
func (s *Scene) AllowCollision(a, b string) {
	s.setACM(a, b, true)
	s.setACM(b, a, true)
}

// DisallowCollision clears the collision allowance for the pair (a, b).
func (s *Scene) DisallowCollision(a, b string) {
	s.setACM(a, b, false)
	s.setACM(b, a, false)
}

// CollisionAllowed reports whether the pair (a, b) may collide.
func (s *Scene) CollisionAllowed(a, b string) bool {
	return s.acm[a][b]
}

func (s *Scene) setACM(a, b string, allowed bool) {
	if !allowed {
		if row, ok := s.acm[a]; ok {
			delete(row, b)
			if len(row) == 0 {
				delete(s.acm, a)
			}
		}
		return
	}
	row, ok := s.acm[a]
	if !ok {
		row = make(map[string]bool)
		s.acm[a] = row
	}
	row[b] = true
}

// SetJointPosition records the current position of a robot joint.
func (s *Scene) SetJointPosition(joint string, position float64) {
	s.robotState[joint] = position
}

// JointPosition returns the recorded position of a robot joint, or false
// if the joint has no recorded state.
func (s *Scene) JointPosition(joint string) (float64, bool) {
	p, ok := s.robotState[joint]
	return p, ok
}

// JointNames returns the joints with recorded state in sorted order.
func (s *Scene) JointNames() []string {
	names := make([]string, 0, len(s.robotState))
	for name := range s.robotState {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the scene. The copy shares only immutable
// Geometry values with the original; poses, attachments, the allowed
// collision matrix, and the robot state are all independent. Two clones
// taken at different times are fully independent documents.
func (s *Scene) Clone() *Scene {
	c := New()
	for name, o := range s.objects {
		c.objects[name] = &Object{Geometry: o.Geometry, Pose: o.Pose}
	}
	for name, a := range s.attachments {
		tl := make([]string, len(a.TouchLinks))
		copy(tl, a.TouchLinks)
		c.attachments[name] = &Attachment{Link: a.Link, TouchLinks: tl}
	}
	for a, row := range s.acm {
		dst := make(map[string]bool, len(row))
		for b, v := range row {
			dst[b] = v
		}
		c.acm[a] = dst
	}
	for joint, p := range s.robotState {
		c.robotState[joint] = p
	}
	return c
}
