// Package kernel defines the abstract geometry kernel interface.
// Implementations (facet, sdfx) build prism solids behind this interface
// and turn them into render meshes. The kernel abstraction allows swapping
// backends without changing the rest of the system.
package kernel

// CapNormals selects how a prism's caps relate to its fuselage.
type CapNormals int

const (
	SharedCaps      CapNormals = iota // rim vertices shared by caps and sides
	IndependentCaps                   // flat caps, smooth fuselage
)

func (c CapNormals) String() string {
	switch c {
	case SharedCaps:
		return "shared"
	case IndependentCaps:
		return "independent"
	default:
		return "unknown"
	}
}

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Prism returns a capped prism with the given number of sides, centered
	// on the origin with its axis along z.
	Prism(sides int, radius, length float64, caps CapNormals) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
