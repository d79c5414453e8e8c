package scene

import "fmt"

// ShapeType identifies the kind of collision geometry an object carries.
type ShapeType string

const (
	// ShapeBox is an axis-aligned box; dimensions are x, y, z extents.
	ShapeBox ShapeType = "box"
	// ShapeSphere is a sphere; dimensions are a single radius.
	ShapeSphere ShapeType = "sphere"
	// ShapeCylinder is a cylinder; dimensions are radius and height.
	ShapeCylinder ShapeType = "cylinder"
	// ShapeCone is a cone; dimensions are radius and height.
	ShapeCone ShapeType = "cone"
	// ShapeMesh is a triangle mesh loaded from a resource path;
	// dimensions are an optional x, y, z scale.
	ShapeMesh ShapeType = "mesh"
)

// dimensionCount maps each shape to the number of dimensions it requires.
// Mesh is absent: its dimensions are an optional scale.
var dimensionCount = map[ShapeType]int{
	ShapeBox:      3,
	ShapeSphere:   1,
	ShapeCylinder: 2,
	ShapeCone:     2,
}

// Geometry is an immutable description of a collision shape. Construct one
// with NewBox, NewSphere, NewCylinder, NewCone, or NewMesh; a Geometry is
// shared freely between scenes and their clones because it never changes
// after construction.
type Geometry struct {
	Type       ShapeType `yaml:"type" msgpack:"type"`
	Dimensions []float64 `yaml:"dimensions,flow" msgpack:"dimensions"`
	// Resource is the mesh file path. Only set for ShapeMesh.
	Resource string `yaml:"resource,omitempty" msgpack:"resource,omitempty"`
}

// NewBox returns box geometry with the given extents.
func NewBox(x, y, z float64) *Geometry {
	return &Geometry{Type: ShapeBox, Dimensions: []float64{x, y, z}}
}

// NewSphere returns sphere geometry with the given radius.
func NewSphere(radius float64) *Geometry {
	return &Geometry{Type: ShapeSphere, Dimensions: []float64{radius}}
}

// NewCylinder returns cylinder geometry with the given radius and height.
func NewCylinder(radius, height float64) *Geometry {
	return &Geometry{Type: ShapeCylinder, Dimensions: []float64{radius, height}}
}

// NewCone returns cone geometry with the given radius and height.
func NewCone(radius, height float64) *Geometry {
	return &Geometry{Type: ShapeCone, Dimensions: []float64{radius, height}}
}

// NewMesh returns mesh geometry backed by the given resource path with an
// optional per-axis scale (pass zero values for unit scale).
func NewMesh(resource string, scale ...float64) *Geometry {
	return &Geometry{Type: ShapeMesh, Resource: resource, Dimensions: scale}
}

// Validate checks that the dimension count matches the shape type.
func (g *Geometry) Validate() error {
	if g == nil {
		return fmt.Errorf("scene: nil geometry")
	}
	switch g.Type {
	case ShapeMesh:
		if g.Resource == "" {
			return fmt.Errorf("scene: mesh geometry requires a resource path")
		}
		if n := len(g.Dimensions); n != 0 && n != 3 {
			return fmt.Errorf("scene: mesh scale wants 0 or 3 dimensions, got %d", n)
		}
	case ShapeBox, ShapeSphere, ShapeCylinder, ShapeCone:
		if want, got := dimensionCount[g.Type], len(g.Dimensions); want != got {
			return fmt.Errorf("scene: %s geometry wants %d dimensions, got %d", g.Type, want, got)
		}
	default:
		return fmt.Errorf("scene: unknown shape type %q", g.Type)
	}
	for i, d := range g.Dimensions {
		if d < 0 {
			return fmt.Errorf("scene: %s dimension %d is negative", g.Type, i)
		}
	}
	return nil
}
