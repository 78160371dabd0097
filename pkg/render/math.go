// Package render is a small software renderer for the demo. It transforms
// and shades indexed meshes on the CPU and hands back screen-space
// triangles for the window backend to fill.
//
// Coordinates are left-handed with y up and z into the screen. Triangles
// whose vertices run clockwise on screen face the viewer.
package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// PerspectiveLH returns a left-handed perspective projection for a view
// volume width by height wide at the near plane. Depth maps to [0, 1].
func PerspectiveLH(width, height, near, far float32) mgl32.Mat4 {
	q := far / (far - near)
	return mgl32.Mat4{
		2 * near / width, 0, 0, 0,
		0, 2 * near / height, 0, 0,
		0, 0, q, 1,
		0, 0, -near * q, 0,
	}
}

// LookAtLH returns a left-handed view matrix for an eye at eye looking at
// target.
func LookAtLH(eye, target, up mgl32.Vec3) mgl32.Mat4 {
	z := target.Sub(eye).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x)
	return mgl32.Mat4{
		x[0], y[0], z[0], 0,
		x[1], y[1], z[1], 0,
		x[2], y[2], z[2], 0,
		-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1,
	}
}

// RollPitchYaw returns the rotation that rolls about z, then pitches about
// x, then yaws about y.
func RollPitchYaw(pitch, yaw, roll float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DY(yaw).
		Mul4(mgl32.HomogRotate3DX(pitch)).
		Mul4(mgl32.HomogRotate3DZ(roll))
}

// WrapAngle folds theta into [-pi, pi).
func WrapAngle(theta float32) float32 {
	const twoPi = 2 * math.Pi
	m := math.Mod(float64(theta)+math.Pi, twoPi)
	if m < 0 {
		m += twoPi
	}
	return float32(m - math.Pi)
}

func clamp(v, lo, hi float32) float32 {
	return mgl32.Clamp(v, lo, hi)
}
