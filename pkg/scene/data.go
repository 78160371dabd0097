package scene

import "github.com/chazu/hw3d/pkg/kernel"

// ---------------------------------------------------------------------------
// Prism
// ---------------------------------------------------------------------------

// Default prism and material values used when a scene omits them.
var (
	DefaultColor  = Color{0.8, 0.8, 0.8}
	DefaultRadius = 1.0
	DefaultLength = 2.0
)

// PrismData is a capped prism centered on the origin with its axis on z.
type PrismData struct {
	Sides  int               `json:"sides"`
	Radius float64           `json:"radius"`
	Length float64           `json:"length"`
	Caps   kernel.CapNormals `json:"caps"`
	Color  Color             `json:"color"`
}

func (PrismData) nodeData() {}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData represents a spatial transformation applied to a child node.
// Created by the (place ...) form.
type TransformData struct {
	Translation *Vec3 `json:"translation,omitempty"`
	Rotation    *Vec3 `json:"rotation,omitempty"` // Euler angles in degrees
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData represents a logical grouping of nodes.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}

// ---------------------------------------------------------------------------
// Light
// ---------------------------------------------------------------------------

// Attenuation holds the point light falloff terms: the light is divided by
// Constant + Linear*d + Quadratic*d*d.
type Attenuation struct {
	Constant  float64 `json:"constant"`
	Linear    float64 `json:"linear"`
	Quadratic float64 `json:"quadratic"`
}

// DefaultAttenuation is the falloff used when a light omits one.
var DefaultAttenuation = Attenuation{Constant: 1, Linear: 0.045, Quadratic: 0.0075}

// LightData is a point light.
type LightData struct {
	Position    Vec3        `json:"position"`
	Diffuse     Color       `json:"diffuse"`
	Ambient     Color       `json:"ambient"`
	Intensity   float64     `json:"intensity"`
	Attenuation Attenuation `json:"attenuation"`
}

func (LightData) nodeData() {}
