// Package scene defines the scene graph produced by evaluating a scene
// description. The graph is an immutable DAG of prisms, transforms, groups
// and lights; each evaluation produces a new one.
package scene

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// NodeID is a content-addressed identifier for scene nodes.
type NodeID string

// NewNodeID derives a NodeID from a stable description of the node.
func NewNodeID(key string) NodeID {
	sum := sha256.Sum256([]byte(key))
	return NodeID(hex.EncodeToString(sum[:]))
}

// IsZero reports whether the ID is unset.
func (id NodeID) IsZero() bool {
	return id == ""
}

// Short returns the first 6 bytes of the ID in hex, for messages.
func (id NodeID) Short() string {
	if len(id) > 12 {
		return string(id[:12])
	}
	return string(id)
}

// NodeKind enumerates the types of nodes in the scene graph.
type NodeKind int

const (
	NodePrism     NodeKind = iota // tessellated prism
	NodeTransform                 // spatial transformation (place)
	NodeGroup                     // logical grouping
	NodeLight                     // point light
)

func (k NodeKind) String() string {
	switch k {
	case NodePrism:
		return "prism"
	case NodeTransform:
		return "transform"
	case NodeGroup:
		return "group"
	case NodeLight:
		return "light"
	default:
		return "unknown"
	}
}

// Node is the fundamental element of the scene graph.
type Node struct {
	ID       NodeID   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Children []NodeID `json:"children,omitempty"`
	Data     NodeData `json:"data"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}

// Vec3 is a 3D vector in scene units.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Color is a linear RGB color with components in [0, 1].
type Color struct {
	R, G, B float64
}

func (c Color) String() string {
	return fmt.Sprintf("rgb(%g, %g, %g)", c.R, c.G, c.B)
}

// Valid reports whether every component lies in [0, 1].
func (c Color) Valid() bool {
	for _, v := range [3]float64{c.R, c.G, c.B} {
		if v < 0 || v > 1 {
			return false
		}
	}
	return true
}
