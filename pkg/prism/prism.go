// Package prism generates closed, indexed triangle meshes of a capped
// cylindrical prism: unit radius, axis along z, spanning z in [-1, +1].
//
// Triangles are wound clockwise when seen from outside the solid in a
// left-handed, y-up frame, which is the front-face convention of the
// renderer. Both variants share that orientation.
package prism

import (
	"fmt"
	"math"

	"github.com/chazu/hw3d/pkg/geom"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultLongDiv is the number of sides used by Make.
	DefaultLongDiv = 24

	// MinLongDiv is the smallest division count that encloses a volume.
	MinLongDiv = 3

	// MaxLongDiv is the largest division count whose vertices are all
	// addressable by 16-bit indices in either variant (2+4*n <= 65536).
	MaxLongDiv = (math.MaxUint16 + 1 - 2) / 4
)

var (
	// base is the near-rim vertex at longitude zero.
	base = mgl32.Vec3{1, 0, -1}
	// offset moves a near-rim vertex to the far rim.
	offset = mgl32.Vec3{0, 0, 2}
)

// ValidLongDiv reports whether longDiv can be tessellated, as an error.
// Callers that take division counts from user input should check with it
// before calling the generators, which panic instead.
func ValidLongDiv(longDiv int) error {
	if longDiv < MinLongDiv {
		return fmt.Errorf("prism: longDiv %d is below the minimum of %d", longDiv, MinLongDiv)
	}
	if longDiv > MaxLongDiv {
		return fmt.Errorf("prism: longDiv %d exceeds %d, the limit for 16-bit indices", longDiv, MaxLongDiv)
	}
	return nil
}

func mustValidLongDiv(longDiv int) {
	if err := ValidLongDiv(longDiv); err != nil {
		panic(err.Error())
	}
}

// rim returns the near- and far-rim positions at longitude step i.
func rim(i, longDiv int) (near, far mgl32.Vec3) {
	longitudeAngle := float32(2 * math.Pi / float64(longDiv))
	near = mgl32.Rotate3DZ(longitudeAngle * float32(i)).Mul3x1(base)
	far = near.Add(offset)
	return near, far
}

// Make returns a prism with DefaultLongDiv sides and shared cap vertices.
func Make[V any, PV interface {
	*V
	geom.Positioned
}]() geom.IndexedTriangleList[V] {
	return MakeTesselated[V, PV](DefaultLongDiv)
}

// MakeTesselated builds a prism with longDiv sides in which every rim vertex
// is shared by the side faces and its cap. Only positions are written; the
// vertices have no meaningful normal, so faceted or averaged normals must be
// derived downstream.
//
// The result has 2+2*longDiv vertices and 12*longDiv indices. Vertex 0 is
// the near cap center, vertex 1 the far cap center, followed by the rim
// vertices interleaved near, far. It panics if longDiv is out of range.
func MakeTesselated[V any, PV interface {
	*V
	geom.Positioned
}](longDiv int) geom.IndexedTriangleList[V] {
	mustValidLongDiv(longDiv)

	vertices := make([]V, 0, 2+2*longDiv)
	push := func(p mgl32.Vec3) int {
		vertices = append(vertices, *new(V))
		PV(&vertices[len(vertices)-1]).SetPos(p)
		return len(vertices) - 1
	}

	iCenterNear := push(mgl32.Vec3{0, 0, -1})
	iCenterFar := push(mgl32.Vec3{0, 0, 1})

	for iLong := 0; iLong < longDiv; iLong++ {
		near, far := rim(iLong, longDiv)
		push(near)
		push(far)
	}

	indices := make([]uint16, 0, 12*longDiv)
	add := func(idx ...int) {
		for _, i := range idx {
			indices = append(indices, uint16(i))
		}
	}

	const iRim = 2
	mod := longDiv * 2

	// Sides.
	for iLong := 0; iLong < longDiv; iLong++ {
		i := iLong * 2
		add(i+iRim, (i+2)%mod+iRim, i+1+iRim)
		add((i+2)%mod+iRim, (i+3)%mod+iRim, i+1+iRim)
	}

	// Caps.
	for iLong := 0; iLong < longDiv; iLong++ {
		i := iLong * 2
		add(i+iRim, iCenterNear, (i+2)%mod+iRim)
		add(iCenterFar, i+1+iRim, (i+3)%mod+iRim)
	}

	return geom.IndexedTriangleList[V]{Vertices: vertices, Indices: indices}
}

// MakeTesselatedIndependentCapNormals builds a prism with longDiv sides whose
// caps and fuselage use separate vertices, so that caps shade flat while the
// fuselage shades smooth.
//
// Cap vertices get the axial normal (0,0,-1) or (0,0,+1). Fuselage vertices
// get the radial direction (x, y, 0) taken from their position. That radial
// normal is not normalized here: consumers that need unit normals (the
// renderer does) must normalize after transforming.
//
// The result has 2+4*longDiv vertices and 12*longDiv indices. It panics if
// longDiv is out of range.
func MakeTesselatedIndependentCapNormals[V any, PV interface {
	*V
	geom.Oriented
}](longDiv int) geom.IndexedTriangleList[V] {
	mustValidLongDiv(longDiv)

	vertices := make([]V, 0, 2+4*longDiv)
	push := func(p, n mgl32.Vec3) {
		vertices = append(vertices, *new(V))
		pv := PV(&vertices[len(vertices)-1])
		pv.SetPos(p)
		pv.SetNormal(n)
	}

	nearN := mgl32.Vec3{0, 0, -1}
	farN := mgl32.Vec3{0, 0, 1}

	iCenterNear := len(vertices)
	push(mgl32.Vec3{0, 0, -1}, nearN)
	iBaseNear := len(vertices)
	for iLong := 0; iLong < longDiv; iLong++ {
		near, _ := rim(iLong, longDiv)
		push(near, nearN)
	}

	iCenterFar := len(vertices)
	push(mgl32.Vec3{0, 0, 1}, farN)
	iBaseFar := len(vertices)
	for iLong := 0; iLong < longDiv; iLong++ {
		_, far := rim(iLong, longDiv)
		push(far, farN)
	}

	iFuselage := len(vertices)
	for iLong := 0; iLong < longDiv; iLong++ {
		near, far := rim(iLong, longDiv)
		push(near, mgl32.Vec3{near.X(), near.Y(), 0})
		push(far, mgl32.Vec3{far.X(), far.Y(), 0})
	}

	indices := make([]uint16, 0, 12*longDiv)
	add := func(idx ...int) {
		for _, i := range idx {
			indices = append(indices, uint16(i))
		}
	}

	for i := 0; i < longDiv; i++ {
		add(i+iBaseNear, iCenterNear, (i+1)%longDiv+iBaseNear)
	}
	for i := 0; i < longDiv; i++ {
		add(iCenterFar, i+iBaseFar, (i+1)%longDiv+iBaseFar)
	}

	mod := longDiv * 2
	for iLong := 0; iLong < longDiv; iLong++ {
		i := iLong * 2
		add(i+iFuselage, (i+2)%mod+iFuselage, i+1+iFuselage)
		add((i+2)%mod+iFuselage, (i+3)%mod+iFuselage, i+1+iFuselage)
	}

	return geom.IndexedTriangleList[V]{Vertices: vertices, Indices: indices}
}
