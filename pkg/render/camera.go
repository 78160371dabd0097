package render

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultTravelSpeed   = 12
	DefaultRotationSpeed = 0.004
)

// DefaultCameraPos is where a Camera starts and returns to on Reset.
var DefaultCameraPos = mgl32.Vec3{0, 7.5, -18}

// pitchLimit keeps the view direction off the up axis.
const pitchLimit = 0.995 * math.Pi / 2

// Camera is a free-flying first-person camera.
type Camera struct {
	Pos   mgl32.Vec3
	Pitch float32
	Yaw   float32

	TravelSpeed   float32
	RotationSpeed float32

	home mgl32.Vec3
}

// NewCamera returns a camera at DefaultCameraPos with the default speeds.
func NewCamera() *Camera {
	c := &Camera{
		TravelSpeed:   DefaultTravelSpeed,
		RotationSpeed: DefaultRotationSpeed,
		home:          DefaultCameraPos,
	}
	c.Reset()
	return c
}

// SetHome changes the position Reset returns to and moves the camera there.
func (c *Camera) SetHome(p mgl32.Vec3) {
	c.home = p
	c.Reset()
}

// Reset puts the camera back at its home position, looking down +z.
func (c *Camera) Reset() {
	c.Pos = c.home
	c.Pitch = 0
	c.Yaw = 0
}

// Rotate turns the camera by a mouse delta in pixels.
func (c *Camera) Rotate(dx, dy float32) {
	c.Yaw = WrapAngle(c.Yaw + dx*c.RotationSpeed)
	c.Pitch = clamp(c.Pitch+dy*c.RotationSpeed, -pitchLimit, pitchLimit)
}

// Translate moves the camera by d expressed in camera space, scaled by the
// travel speed.
func (c *Camera) Translate(d mgl32.Vec3) {
	r := RollPitchYaw(c.Pitch, c.Yaw, 0)
	w := r.Mul4x1(d.Vec4(0)).Vec3().Mul(c.TravelSpeed)
	c.Pos = c.Pos.Add(w)
}

// Forward returns the unit view direction.
func (c *Camera) Forward() mgl32.Vec3 {
	return RollPitchYaw(c.Pitch, c.Yaw, 0).Mul4x1(mgl32.Vec4{0, 0, 1, 0}).Vec3()
}

// Matrix returns the view matrix.
func (c *Camera) Matrix() mgl32.Mat4 {
	return LookAtLH(c.Pos, c.Pos.Add(c.Forward()), mgl32.Vec3{0, 1, 0})
}

func (c *Camera) String() string {
	return fmt.Sprintf("pos (%.2f, %.2f, %.2f) pitch %.1f° yaw %.1f°",
		c.Pos.X(), c.Pos.Y(), c.Pos.Z(), mgl32.RadToDeg(c.Pitch), mgl32.RadToDeg(c.Yaw))
}
