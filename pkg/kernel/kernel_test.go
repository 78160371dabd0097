package kernel

import (
	"math"
	"testing"

	"github.com/chazu/hw3d/pkg/geom"
	"github.com/go-gl/mathgl/mgl32"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, 2, 3}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

func TestMeshBounds(t *testing.T) {
	m := &Mesh{Vertices: []float32{-1, 2, 0, 3, -4, 5, 0, 0, -6}}
	min, max := m.Bounds()
	if min != [3]float64{-1, -4, -6} {
		t.Errorf("Bounds() min = %v, want [-1 -4 -6]", min)
	}
	if max != [3]float64{3, 2, 5} {
		t.Errorf("Bounds() max = %v, want [3 2 5]", max)
	}

	empty := &Mesh{}
	min, max = empty.Bounds()
	if min != [3]float64{} || max != [3]float64{} {
		t.Errorf("empty Bounds() = %v, %v, want zero", min, max)
	}
}

// --- FromIndexed ---

// quad is two clockwise (seen from -z) triangles in the z=0 plane.
func quad[V any, PV interface {
	*V
	geom.Positioned
}]() geom.IndexedTriangleList[V] {
	l := geom.IndexedTriangleList[V]{
		Vertices: make([]V, 4),
		Indices:  []uint16{0, 1, 2, 0, 2, 3},
	}
	pos := []mgl32.Vec3{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}}
	for i, p := range pos {
		PV(&l.Vertices[i]).SetPos(p)
	}
	return l
}

func TestFromIndexedComputesNormals(t *testing.T) {
	m := FromIndexed(quad[geom.Vertex]())
	if m.VertexCount() != 4 {
		t.Fatalf("VertexCount() = %d, want 4", m.VertexCount())
	}
	if len(m.Normals) != len(m.Vertices) {
		t.Fatalf("len(Normals) = %d, want %d", len(m.Normals), len(m.Vertices))
	}
	for i := 0; i < m.VertexCount(); i++ {
		nz := m.Normals[i*3+2]
		if math.Abs(float64(nz)+1) > 1e-6 {
			t.Errorf("vertex %d normal z = %v, want -1", i, nz)
		}
	}
	want := []uint32{0, 1, 2, 0, 2, 3}
	for i, idx := range m.Indices {
		if idx != want[i] {
			t.Errorf("Indices[%d] = %d, want %d", i, idx, want[i])
		}
	}
}

func TestFromIndexedCopiesNormals(t *testing.T) {
	l := quad[geom.LitVertex]()
	for i := range l.Vertices {
		l.Vertices[i].N = mgl32.Vec3{0, 2, 0}
	}
	m := FromIndexed(l)
	for i := 0; i < m.VertexCount(); i++ {
		got := [3]float32{m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2]}
		if got != [3]float32{0, 2, 0} {
			t.Errorf("vertex %d normal = %v, want [0 2 0] copied verbatim", i, got)
		}
	}
}

func TestCapNormalsString(t *testing.T) {
	tests := []struct {
		c    CapNormals
		want string
	}{
		{SharedCaps, "shared"},
		{IndependentCaps, "independent"},
		{CapNormals(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("CapNormals(%d).String() = %q, want %q", int(tt.c), got, tt.want)
		}
	}
}

// --- Compile-time interface check with a stub kernel ---

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

// stubKernel is a minimal Kernel implementation that proves the interface
// is satisfiable. All methods return trivial results.
type stubKernel struct{}

func (k *stubKernel) Prism(_ int, radius, length float64, _ CapNormals) Solid {
	return &stubSolid{
		minBB: [3]float64{-radius, -radius, -length / 2},
		maxBB: [3]float64{radius, radius, length / 2},
	}
}

func (k *stubKernel) Translate(s Solid, _, _, _ float64) Solid { return s }
func (k *stubKernel) Rotate(s Solid, _, _, _ float64) Solid    { return s }

func (k *stubKernel) ToMesh(_ Solid) (*Mesh, error) {
	return &Mesh{}, nil
}

// Compile-time checks that the stubs implement the interfaces.
var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelPrismBoundingBox(t *testing.T) {
	var k Kernel = &stubKernel{}
	s := k.Prism(6, 2, 10, SharedCaps)
	min, max := s.BoundingBox()
	if min != [3]float64{-2, -2, -5} {
		t.Errorf("Prism min = %v, want [-2 -2 -5]", min)
	}
	if max != [3]float64{2, 2, 5} {
		t.Errorf("Prism max = %v, want [2 2 5]", max)
	}
}

func TestStubKernelToMesh(t *testing.T) {
	var k Kernel = &stubKernel{}
	s := k.Prism(3, 1, 1, IndependentCaps)
	m, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if m == nil {
		t.Fatal("ToMesh() returned nil mesh")
	}
	if !m.IsEmpty() {
		t.Error("stub ToMesh() should return empty mesh")
	}
}
