package render

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// PointLight is an attenuated point light.
type PointLight struct {
	Pos       mgl32.Vec3
	Ambient   mgl32.Vec3
	Diffuse   mgl32.Vec3
	Intensity float32
	AttConst  float32
	AttLin    float32
	AttQuad   float32
}

// NewPointLight returns the demo's default light.
func NewPointLight() PointLight {
	return PointLight{
		Pos:       mgl32.Vec3{10, 9, 2.5},
		Ambient:   mgl32.Vec3{0.05, 0.05, 0.05},
		Diffuse:   mgl32.Vec3{1, 1, 1},
		Intensity: 1,
		AttConst:  1,
		AttLin:    0.045,
		AttQuad:   0.0075,
	}
}

// Attenuation returns the light falloff at distance d.
func (l PointLight) Attenuation(d float32) float32 {
	return 1 / (l.AttConst + l.AttLin*d + l.AttQuad*d*d)
}

// Shade returns the lit color of a surface point p with unit normal n and
// material color mat. Channels saturate at 1.
func (l PointLight) Shade(p, n, mat mgl32.Vec3) mgl32.Vec3 {
	toL := l.Pos.Sub(p)
	dist := toL.Len()
	var diffuse mgl32.Vec3
	if dist > 0 {
		lambert := max(0, toL.Mul(1/dist).Dot(n))
		diffuse = l.Diffuse.Mul(l.Intensity * l.Attenuation(dist) * lambert)
	}
	c := diffuse.Add(l.Ambient)
	return mgl32.Vec3{
		clamp(c[0]*mat[0], 0, 1),
		clamp(c[1]*mat[1], 0, 1),
		clamp(c[2]*mat[2], 0, 1),
	}
}

func (l PointLight) String() string {
	return fmt.Sprintf("pos (%.2f, %.2f, %.2f) intensity %.2f", l.Pos.X(), l.Pos.Y(), l.Pos.Z(), l.Intensity)
}
