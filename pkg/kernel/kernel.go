// Package kernel defines the abstract geometry kernel interface used to
// turn synthesized room data into solids and triangle meshes. The sdfx
// implementation provides solid modeling behind this interface; the rest
// of the system never touches a specific CAD backend.
package kernel

import "github.com/VibeCAD/roomforge/pkg/geom"

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface. World space is
// Y-up; Box places its minimum corner at the origin, and Extrude sweeps
// a horizontal-plane profile upward from y=0 to y=height.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Extrude(profile []geom.Vec2, height float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
