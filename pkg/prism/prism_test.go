package prism_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/chazu/hw3d/pkg/geom"
	"github.com/chazu/hw3d/pkg/prism"
	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-5

// divisions covers the minimum, a few small odd/even counts, the default and
// a large count.
var divisions = []int{3, 4, 5, 7, 12, prism.DefaultLongDiv, 100, 1000}

func checkIndices[V any](t *testing.T, m geom.IndexedTriangleList[V]) {
	t.Helper()
	if len(m.Indices)%3 != 0 {
		t.Fatalf("index count %d is not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			t.Fatalf("index %d at position %d out of range (%d vertices)", idx, i, len(m.Vertices))
		}
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func radius(p mgl32.Vec3) float64 {
	return math.Hypot(float64(p.X()), float64(p.Y()))
}

func TestMakeTesselatedCounts(t *testing.T) {
	for _, n := range divisions {
		t.Run(fmt.Sprintf("longDiv=%d", n), func(t *testing.T) {
			m := prism.MakeTesselated[geom.Vertex](n)
			if got, want := len(m.Vertices), 2+2*n; got != want {
				t.Errorf("len(Vertices) = %d, want %d", got, want)
			}
			if got, want := len(m.Indices), 12*n; got != want {
				t.Errorf("len(Indices) = %d, want %d", got, want)
			}
			checkIndices(t, m)
		})
	}
}

func TestMakeTesselatedIndependentCapNormalsCounts(t *testing.T) {
	for _, n := range divisions {
		t.Run(fmt.Sprintf("longDiv=%d", n), func(t *testing.T) {
			m := prism.MakeTesselatedIndependentCapNormals[geom.LitVertex](n)
			if got, want := len(m.Vertices), 2+4*n; got != want {
				t.Errorf("len(Vertices) = %d, want %d", got, want)
			}
			if got, want := len(m.Indices), 12*n; got != want {
				t.Errorf("len(Indices) = %d, want %d", got, want)
			}
			checkIndices(t, m)
		})
	}
}

func TestMinimalPrism(t *testing.T) {
	shared := prism.MakeTesselated[geom.Vertex](3)
	if len(shared.Vertices) != 8 || len(shared.Indices) != 36 {
		t.Errorf("shared: got %d vertices / %d indices, want 8 / 36", len(shared.Vertices), len(shared.Indices))
	}

	independent := prism.MakeTesselatedIndependentCapNormals[geom.LitVertex](3)
	if len(independent.Vertices) != 14 || len(independent.Indices) != 36 {
		t.Errorf("independent: got %d vertices / %d indices, want 14 / 36", len(independent.Vertices), len(independent.Indices))
	}
}

func TestMakeTesselatedLayout(t *testing.T) {
	const n = 6
	m := prism.MakeTesselated[geom.Vertex](n)

	if got := m.Vertices[0].P; got != (mgl32.Vec3{0, 0, -1}) {
		t.Errorf("near center = %v, want (0,0,-1)", got)
	}
	if got := m.Vertices[1].P; got != (mgl32.Vec3{0, 0, 1}) {
		t.Errorf("far center = %v, want (0,0,1)", got)
	}

	for i := 0; i < n; i++ {
		near := m.Vertices[2+2*i].P
		far := m.Vertices[3+2*i].P
		if near.Z() != -1 {
			t.Errorf("near rim %d z = %v, want -1", i, near.Z())
		}
		if far.Z() != 1 {
			t.Errorf("far rim %d z = %v, want 1", i, far.Z())
		}
		if r := radius(near); math.Abs(r-1) > eps {
			t.Errorf("near rim %d radius = %v, want 1", i, r)
		}
		if r := radius(far); math.Abs(r-1) > eps {
			t.Errorf("far rim %d radius = %v, want 1", i, r)
		}
		if near.Vec2() != far.Vec2() {
			t.Errorf("rim pair %d not aligned: near %v, far %v", i, near, far)
		}
		angle := math.Atan2(float64(near.Y()), float64(near.X()))
		if angle < 0 {
			angle += 2 * math.Pi
		}
		want := 2 * math.Pi * float64(i) / n
		if math.Abs(angle-want) > 1e-4 {
			t.Errorf("rim %d angle = %v, want %v", i, angle, want)
		}
	}
}

func TestIndependentCapNormals(t *testing.T) {
	const n = 8
	m := prism.MakeTesselatedIndependentCapNormals[geom.LitVertex](n)

	nearCap := m.Vertices[:1+n]
	farCap := m.Vertices[1+n : 2+2*n]
	fuselage := m.Vertices[2+2*n:]

	for i, v := range nearCap {
		if v.N.Z() != -1 || v.N.X() != 0 || v.N.Y() != 0 {
			t.Errorf("near cap vertex %d normal = %v, want (0,0,-1)", i, v.N)
		}
		if v.P.Z() != -1 {
			t.Errorf("near cap vertex %d z = %v, want -1", i, v.P.Z())
		}
	}
	for i, v := range farCap {
		if v.N.Z() != 1 || v.N.X() != 0 || v.N.Y() != 0 {
			t.Errorf("far cap vertex %d normal = %v, want (0,0,1)", i, v.N)
		}
		if v.P.Z() != 1 {
			t.Errorf("far cap vertex %d z = %v, want 1", i, v.P.Z())
		}
	}
	if len(fuselage) != 2*n {
		t.Fatalf("fuselage has %d vertices, want %d", len(fuselage), 2*n)
	}
	for i, v := range fuselage {
		if v.N.Z() != 0 {
			t.Errorf("fuselage vertex %d normal z = %v, want 0", i, v.N.Z())
		}
		if v.N.X() != v.P.X() || v.N.Y() != v.P.Y() {
			t.Errorf("fuselage vertex %d normal %v is not the radial direction of %v", i, v.N, v.P)
		}
		if r := radius(v.P); math.Abs(r-1) > eps {
			t.Errorf("fuselage vertex %d radius = %v, want 1", i, r)
		}
		wantZ := float32(-1)
		if i%2 == 1 {
			wantZ = 1
		}
		if v.P.Z() != wantZ {
			t.Errorf("fuselage vertex %d z = %v, want %v", i, v.P.Z(), wantZ)
		}
	}
}

// signedVolume sums the signed volumes of the tetrahedra formed by the origin
// and each triangle. For a closed mesh whose face normals point outward the
// result is the enclosed volume.
func signedVolume(pos func(i uint16) mgl32.Vec3, indices []uint16) float64 {
	var vol float64
	for t := 0; t < len(indices); t += 3 {
		a, b, c := pos(indices[t]), pos(indices[t+1]), pos(indices[t+2])
		vol += float64(a.Dot(b.Cross(c))) / 6
	}
	return vol
}

func TestWindingMatchesAcrossVariants(t *testing.T) {
	for _, n := range []int{3, 16, prism.DefaultLongDiv} {
		t.Run(fmt.Sprintf("longDiv=%d", n), func(t *testing.T) {
			shared := prism.MakeTesselated[geom.Vertex](n)
			independent := prism.MakeTesselatedIndependentCapNormals[geom.LitVertex](n)

			vs := signedVolume(func(i uint16) mgl32.Vec3 { return shared.Vertices[i].P }, shared.Indices)
			vi := signedVolume(func(i uint16) mgl32.Vec3 { return independent.Vertices[i].P }, independent.Indices)

			// Regular n-gon area times height 2.
			want := float64(n) * math.Sin(2*math.Pi/float64(n))
			if math.Abs(vs-want) > 1e-3 {
				t.Errorf("shared signed volume = %v, want %v", vs, want)
			}
			if math.Abs(vi-want) > 1e-3 {
				t.Errorf("independent signed volume = %v, want %v", vi, want)
			}
		})
	}
}

func TestFaceNormalsPointOutward(t *testing.T) {
	m := prism.MakeTesselatedIndependentCapNormals[geom.LitVertex](12)
	for tri := 0; tri < len(m.Indices); tri += 3 {
		a := m.Vertices[m.Indices[tri]]
		b := m.Vertices[m.Indices[tri+1]]
		c := m.Vertices[m.Indices[tri+2]]
		face := geom.FaceNormal(a.P, b.P, c.P)
		// Every vertex normal of the triangle must agree with its face.
		for _, v := range []geom.LitVertex{a, b, c} {
			if face.Dot(v.N) <= 0 {
				t.Fatalf("triangle %d: face normal %v opposes vertex normal %v", tri/3, face, v.N)
			}
		}
	}
}

func TestMakeUsesDefault(t *testing.T) {
	got := prism.Make[geom.Vertex]()
	want := prism.MakeTesselated[geom.Vertex](24)
	if prism.DefaultLongDiv != 24 {
		t.Errorf("DefaultLongDiv = %d, want 24", prism.DefaultLongDiv)
	}
	if len(got.Vertices) != len(want.Vertices) || len(got.Indices) != len(want.Indices) {
		t.Fatalf("Make() sizes %d/%d, want %d/%d",
			len(got.Vertices), len(got.Indices), len(want.Vertices), len(want.Indices))
	}
	for i := range want.Vertices {
		if got.Vertices[i] != want.Vertices[i] {
			t.Fatalf("vertex %d = %v, want %v", i, got.Vertices[i], want.Vertices[i])
		}
	}
	for i := range want.Indices {
		if got.Indices[i] != want.Indices[i] {
			t.Fatalf("index %d = %d, want %d", i, got.Indices[i], want.Indices[i])
		}
	}
}

func TestDeterministic(t *testing.T) {
	a := prism.MakeTesselatedIndependentCapNormals[geom.LitVertex](17)
	b := prism.MakeTesselatedIndependentCapNormals[geom.LitVertex](17)
	for i := range a.Vertices {
		if a.Vertices[i] != b.Vertices[i] {
			t.Fatalf("vertex %d differs between calls", i)
		}
	}
}

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	fn()
}

func TestPreconditionViolation(t *testing.T) {
	for _, n := range []int{-1, 0, 1, 2, prism.MaxLongDiv + 1} {
		t.Run(fmt.Sprintf("longDiv=%d", n), func(t *testing.T) {
			expectPanic(t, "MakeTesselated", func() { prism.MakeTesselated[geom.Vertex](n) })
			expectPanic(t, "MakeTesselatedIndependentCapNormals", func() {
				prism.MakeTesselatedIndependentCapNormals[geom.LitVertex](n)
			})
			if err := prism.ValidLongDiv(n); err == nil {
				t.Errorf("ValidLongDiv(%d) = nil, want error", n)
			}
		})
	}
}

func TestMaxLongDivFitsIndices(t *testing.T) {
	if err := prism.ValidLongDiv(prism.MaxLongDiv); err != nil {
		t.Fatalf("ValidLongDiv(MaxLongDiv) = %v", err)
	}
	if 2+4*prism.MaxLongDiv > math.MaxUint16+1 {
		t.Fatalf("MaxLongDiv %d overflows 16-bit indices", prism.MaxLongDiv)
	}
	m := prism.MakeTesselatedIndependentCapNormals[geom.LitVertex](prism.MaxLongDiv)
	checkIndices(t, m)
}
