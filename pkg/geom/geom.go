// Package geom defines the vertex capabilities and the indexed triangle
// list shared by the procedural mesh generators and the renderer.
package geom

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Positioned is implemented by vertex types that carry a position.
type Positioned interface {
	Pos() mgl32.Vec3
	SetPos(p mgl32.Vec3)
}

// Oriented is implemented by vertex types that carry a position and a normal.
type Oriented interface {
	Positioned
	Normal() mgl32.Vec3
	SetNormal(n mgl32.Vec3)
}

// Vertex is a position-only vertex.
type Vertex struct {
	P mgl32.Vec3 `json:"pos"`
}

func (v *Vertex) Pos() mgl32.Vec3 { return v.P }
func (v *Vertex) SetPos(p mgl32.Vec3) { v.P = p }

// LitVertex is a vertex with a position and a normal, suitable for lighting.
type LitVertex struct {
	P mgl32.Vec3 `json:"pos"`
	N mgl32.Vec3 `json:"n"`
}

func (v *LitVertex) Pos() mgl32.Vec3 { return v.P }
func (v *LitVertex) SetPos(p mgl32.Vec3) { v.P = p }
func (v *LitVertex) Normal() mgl32.Vec3 { return v.N }
func (v *LitVertex) SetNormal(n mgl32.Vec3) { v.N = n }

// Compile-time interface checks.
var (
	_ Positioned = (*Vertex)(nil)
	_ Oriented   = (*LitVertex)(nil)
)

// IndexedTriangleList is a vertex buffer plus 16-bit indices into it.
// Every three consecutive indices form one triangle.
type IndexedTriangleList[V any] struct {
	Vertices []V      `json:"vertices"`
	Indices  []uint16 `json:"indices"`
}

// TriangleCount returns the number of triangles.
func (l *IndexedTriangleList[V]) TriangleCount() int {
	return len(l.Indices) / 3
}

// Validate checks that the index count is a multiple of three and that every
// index refers to an existing vertex.
func (l *IndexedTriangleList[V]) Validate() error {
	if len(l.Indices)%3 != 0 {
		return fmt.Errorf("geom: index count %d is not a multiple of 3", len(l.Indices))
	}
	for i, idx := range l.Indices {
		if int(idx) >= len(l.Vertices) {
			return fmt.Errorf("geom: index %d at position %d out of range (%d vertices)", idx, i, len(l.Vertices))
		}
	}
	return nil
}

// Transform applies m to every vertex position.
func Transform[V any, PV interface {
	*V
	Positioned
}](l *IndexedTriangleList[V], m mgl32.Mat4) {
	for i := range l.Vertices {
		pv := PV(&l.Vertices[i])
		pv.SetPos(m.Mul4x1(pv.Pos().Vec4(1)).Vec3())
	}
}

// SetNormalsIndependentFlat writes each triangle's face normal into its three
// vertices. It panics if a vertex is shared between triangles, because the
// result would depend on triangle order.
func SetNormalsIndependentFlat[V any, PV interface {
	*V
	Oriented
}](l *IndexedTriangleList[V]) {
	if len(l.Indices)%3 != 0 {
		panic("geom: SetNormalsIndependentFlat: index count is not a multiple of 3")
	}
	seen := make([]bool, len(l.Vertices))
	for t := 0; t < len(l.Indices); t += 3 {
		tri := l.Indices[t : t+3]
		for _, idx := range tri {
			if seen[idx] {
				panic(fmt.Sprintf("geom: SetNormalsIndependentFlat: vertex %d is shared", idx))
			}
			seen[idx] = true
		}
		v0 := PV(&l.Vertices[tri[0]])
		v1 := PV(&l.Vertices[tri[1]])
		v2 := PV(&l.Vertices[tri[2]])
		n := FaceNormal(v0.Pos(), v1.Pos(), v2.Pos())
		v0.SetNormal(n)
		v1.SetNormal(n)
		v2.SetNormal(n)
	}
}

// FaceNormal returns the unit normal of triangle abc. Triangles are front
// facing when their vertices appear clockwise to the viewer in a left-handed
// frame, and for those the returned normal points toward the viewer.
// Degenerate triangles yield the zero vector.
func FaceNormal(a, b, c mgl32.Vec3) mgl32.Vec3 {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() == 0 {
		return mgl32.Vec3{}
	}
	return n.Normalize()
}
