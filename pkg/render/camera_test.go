package render

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCameraDefaults(t *testing.T) {
	c := NewCamera()
	if c.Pos != DefaultCameraPos {
		t.Errorf("Pos = %v, want %v", c.Pos, DefaultCameraPos)
	}
	if c.TravelSpeed != 12 || c.RotationSpeed != 0.004 {
		t.Errorf("speeds = %v/%v, want 12/0.004", c.TravelSpeed, c.RotationSpeed)
	}
	f := c.Forward()
	if !near(f.Z(), 1) {
		t.Errorf("Forward() = %v, want +z", f)
	}
}

func TestCameraPitchClamped(t *testing.T) {
	c := NewCamera()
	c.Rotate(0, 1e6)
	if want := float32(0.995 * math.Pi / 2); !near(c.Pitch, want) {
		t.Errorf("Pitch = %v, want %v", c.Pitch, want)
	}
	c.Rotate(0, -1e6)
	if want := float32(-0.995 * math.Pi / 2); !near(c.Pitch, want) {
		t.Errorf("Pitch = %v, want %v", c.Pitch, want)
	}
}

func TestCameraYawWraps(t *testing.T) {
	c := NewCamera()
	// 1000 px at 0.004 rad/px is 4 rad, past pi.
	c.Rotate(1000, 0)
	if want := float32(4 - 2*math.Pi); !near(c.Yaw, want) {
		t.Errorf("Yaw = %v, want %v", c.Yaw, want)
	}
}

func TestCameraTranslateFollowsYaw(t *testing.T) {
	c := NewCamera()
	c.Yaw = math.Pi / 2
	c.Translate(mgl32.Vec3{0, 0, 1})
	want := DefaultCameraPos.Add(mgl32.Vec3{12, 0, 0})
	if !vecNear(c.Pos, want) {
		t.Errorf("Pos = %v, want %v", c.Pos, want)
	}

	c.Reset()
	if c.Pos != DefaultCameraPos || c.Yaw != 0 || c.Pitch != 0 {
		t.Errorf("after Reset: %v", c)
	}
}

func TestCameraMatrix(t *testing.T) {
	c := NewCamera()
	c.Rotate(123, -45)
	m := c.Matrix()
	if got := m.Mul4x1(c.Pos.Vec4(1)).Vec3(); got.Len() > eps {
		t.Errorf("camera position in view space = %v, want origin", got)
	}
	ahead := c.Pos.Add(c.Forward().Mul(5))
	got := m.Mul4x1(ahead.Vec4(1)).Vec3()
	if !vecNear(got, mgl32.Vec3{0, 0, 5}) {
		t.Errorf("point ahead in view space = %v, want (0, 0, 5)", got)
	}
}

func TestCameraSetHome(t *testing.T) {
	c := NewCamera()
	home := mgl32.Vec3{1, 2, 3}
	c.SetHome(home)
	c.Translate(mgl32.Vec3{1, 0, 0})
	c.Reset()
	if c.Pos != home {
		t.Errorf("Pos after Reset = %v, want %v", c.Pos, home)
	}
}
