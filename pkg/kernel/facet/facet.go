// Package facet implements the kernel.Kernel interface with the exact
// procedural prism tessellator. Solids are a unit prism plus an affine
// transform; ToMesh tessellates and applies the transform.
package facet

import (
	"fmt"
	"math"

	"github.com/chazu/hw3d/pkg/geom"
	"github.com/chazu/hw3d/pkg/kernel"
	"github.com/chazu/hw3d/pkg/prism"
	"github.com/go-gl/mathgl/mgl32"
)

// Compile-time interface checks.
var _ kernel.Kernel = (*FacetKernel)(nil)
var _ kernel.Solid = (*facetSolid)(nil)

// facetSolid is a unit prism (radius 1, z in [-1, 1]) placed by model.
type facetSolid struct {
	sides int
	caps  kernel.CapNormals
	model mgl32.Mat4
}

// BoundingBox returns the axis-aligned bounding box of the transformed
// rim polygon, which is tight for every rotation.
func (s *facetSolid) BoundingBox() (min, max [3]float64) {
	for a := 0; a < 3; a++ {
		min[a] = math.Inf(1)
		max[a] = math.Inf(-1)
	}
	l := prism.MakeTesselated[geom.Vertex](s.sides)
	for _, v := range l.Vertices {
		p := s.model.Mul4x1(v.P.Vec4(1))
		for a := 0; a < 3; a++ {
			min[a] = math.Min(min[a], float64(p[a]))
			max[a] = math.Max(max[a], float64(p[a]))
		}
	}
	return min, max
}

// FacetKernel implements kernel.Kernel using the prism tessellator.
type FacetKernel struct{}

// New returns a new FacetKernel.
func New() *FacetKernel {
	return &FacetKernel{}
}

func unwrap(s kernel.Solid) *facetSolid {
	return s.(*facetSolid)
}

// Prism creates a prism of the given radius and length centered on the
// origin. It panics if sides is not a valid division count.
func (k *FacetKernel) Prism(sides int, radius, length float64, caps kernel.CapNormals) kernel.Solid {
	if err := prism.ValidLongDiv(sides); err != nil {
		panic(fmt.Sprintf("facet.Prism: %v", err))
	}
	return &facetSolid{
		sides: sides,
		caps:  caps,
		model: mgl32.Scale3D(float32(radius), float32(radius), float32(length/2)),
	}
}

// Translate moves a solid by (x, y, z).
func (k *FacetKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	fs := unwrap(s)
	m := mgl32.Translate3D(float32(x), float32(y), float32(z))
	return &facetSolid{sides: fs.sides, caps: fs.caps, model: m.Mul4(fs.model)}
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *FacetKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	fs := unwrap(s)
	m := EulerDegrees(x, y, z)
	return &facetSolid{sides: fs.sides, caps: fs.caps, model: m.Mul4(fs.model)}
}

// EulerDegrees returns the rotation applied by Rotate: X first, then Y,
// then Z.
func EulerDegrees(x, y, z float64) mgl32.Mat4 {
	rx := mgl32.HomogRotate3DX(mgl32.DegToRad(float32(x)))
	ry := mgl32.HomogRotate3DY(mgl32.DegToRad(float32(y)))
	rz := mgl32.HomogRotate3DZ(mgl32.DegToRad(float32(z)))
	return rz.Mul4(ry).Mul4(rx)
}

// ToMesh tessellates the solid. Positions are transformed by the model
// matrix and normals by its inverse transpose, then normalized.
func (k *FacetKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	fs := unwrap(s)

	var mesh *kernel.Mesh
	switch fs.caps {
	case kernel.SharedCaps:
		mesh = kernel.FromIndexed(prism.MakeTesselated[geom.Vertex](fs.sides))
	case kernel.IndependentCaps:
		mesh = kernel.FromIndexed(prism.MakeTesselatedIndependentCapNormals[geom.LitVertex](fs.sides))
	default:
		return nil, fmt.Errorf("facet: unsupported cap mode %v", fs.caps)
	}

	if fs.model.Det() == 0 {
		return nil, fmt.Errorf("facet: singular model transform")
	}
	normalMat := fs.model.Mat3().Inv().Transpose()

	for i := 0; i+2 < len(mesh.Vertices); i += 3 {
		p := fs.model.Mul4x1(mgl32.Vec4{mesh.Vertices[i], mesh.Vertices[i+1], mesh.Vertices[i+2], 1})
		mesh.Vertices[i], mesh.Vertices[i+1], mesh.Vertices[i+2] = p.X(), p.Y(), p.Z()

		n := normalMat.Mul3x1(mgl32.Vec3{mesh.Normals[i], mesh.Normals[i+1], mesh.Normals[i+2]})
		if n.Len() > 0 {
			n = n.Normalize()
		}
		mesh.Normals[i], mesh.Normals[i+1], mesh.Normals[i+2] = n.X(), n.Y(), n.Z()
	}

	return mesh, nil
}
