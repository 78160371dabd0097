// Package tessellate walks a scene and produces triangle meshes using a
// geometry kernel. One mesh is produced per reachable prism node.
package tessellate

import (
	"fmt"
	"log/slog"

	"github.com/chazu/hw3d/pkg/kernel"
	"github.com/chazu/hw3d/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// transformStack holds the transforms between the current node and the
// root, outermost first.
type transformStack struct {
	frames []scene.TransformData
}

func newTransformStack() *transformStack {
	return &transformStack{}
}

func (ts *transformStack) push(td scene.TransformData) {
	ts.frames = append(ts.frames, td)
}

func (ts *transformStack) pop() {
	if len(ts.frames) > 0 {
		ts.frames = ts.frames[:len(ts.frames)-1]
	}
}

// apply places a solid by every transform on the stack. Each frame rotates
// then translates, and inner frames apply before outer ones.
func (ts *transformStack) apply(k kernel.Kernel, s kernel.Solid) kernel.Solid {
	for i := len(ts.frames) - 1; i >= 0; i-- {
		f := ts.frames[i]
		if r := f.Rotation; r != nil && (r.X != 0 || r.Y != 0 || r.Z != 0) {
			s = k.Rotate(s, r.X, r.Y, r.Z)
		}
		if t := f.Translation; t != nil && (t.X != 0 || t.Y != 0 || t.Z != 0) {
			s = k.Translate(s, t.X, t.Y, t.Z)
		}
	}
	return s
}

// matrix returns the combined transform of the stack, in the same
// convention as apply.
func (ts *transformStack) matrix() mgl64.Mat4 {
	m := mgl64.Ident4()
	for _, f := range ts.frames {
		if t := f.Translation; t != nil {
			m = m.Mul4(mgl64.Translate3D(t.X, t.Y, t.Z))
		}
		if r := f.Rotation; r != nil {
			rx := mgl64.HomogRotate3DX(mgl64.DegToRad(r.X))
			ry := mgl64.HomogRotate3DY(mgl64.DegToRad(r.Y))
			rz := mgl64.HomogRotate3DZ(mgl64.DegToRad(r.Z))
			m = m.Mul4(rz.Mul4(ry).Mul4(rx))
		}
	}
	return m
}

// Light is a scene light with its position moved into world space.
type Light struct {
	Name string
	scene.LightData
}

// Result is everything produced by a scene walk.
type Result struct {
	Meshes []*kernel.Mesh
	Lights []Light
}

// Tessellate walks the scene and produces one triangle mesh per prism using
// the provided geometry kernel. It is read-only and never mutates the scene.
func Tessellate(s *scene.Scene, k kernel.Kernel) ([]*kernel.Mesh, error) {
	r, err := Walk(s, k)
	if err != nil || r == nil {
		return nil, err
	}
	return r.Meshes, nil
}

// Walk is Tessellate that also collects the placed lights.
func Walk(s *scene.Scene, k kernel.Kernel) (*Result, error) {
	if s == nil {
		return nil, nil
	}

	w := &walker{s: s, k: k, ts: newTransformStack(), r: &Result{}}
	for _, rootID := range s.Roots {
		root := s.Get(rootID)
		if root == nil {
			continue
		}
		if err := w.walk(root); err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %s: %w", rootID.Short(), err)
		}
	}

	slog.Debug("tessellated scene", "meshes", len(w.r.Meshes), "lights", len(w.r.Lights))
	return w.r, nil
}

type walker struct {
	s  *scene.Scene
	k  kernel.Kernel
	ts *transformStack
	r  *Result
}

// walk recursively traverses a node and its children.
func (w *walker) walk(n *scene.Node) error {
	switch n.Kind {
	case scene.NodePrism:
		return w.prism(n)
	case scene.NodeLight:
		return w.light(n)
	case scene.NodeTransform:
		return w.transform(n)
	case scene.NodeGroup:
		return w.children(n)
	default:
		return fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

// prism creates geometry for a prism node.
func (w *walker) prism(n *scene.Node) error {
	data, ok := n.Data.(scene.PrismData)
	if !ok {
		return fmt.Errorf("prism node %s has unsupported data type %T", n.ID.Short(), n.Data)
	}

	solid := w.k.Prism(data.Sides, data.Radius, data.Length, data.Caps)
	solid = w.ts.apply(w.k, solid)

	mesh, err := w.k.ToMesh(solid)
	if err != nil {
		return fmt.Errorf("tessellate: ToMesh failed for node %s: %w", n.ID.Short(), err)
	}

	// Prefer the node's Name, fall back to short ID.
	if n.Name != "" {
		mesh.PartName = n.Name
	} else {
		mesh.PartName = n.ID.Short()
	}
	mesh.Color = [3]float32{float32(data.Color.R), float32(data.Color.G), float32(data.Color.B)}

	slog.Debug("tessellated prism", "part", mesh.PartName, "sides", data.Sides, "triangles", mesh.TriangleCount())
	w.r.Meshes = append(w.r.Meshes, mesh)
	return nil
}

// light records a light with its position placed by the transform stack.
func (w *walker) light(n *scene.Node) error {
	data, ok := n.Data.(scene.LightData)
	if !ok {
		return fmt.Errorf("light node %s has unsupported data type %T", n.ID.Short(), n.Data)
	}
	p := w.ts.matrix().Mul4x1(mgl64.Vec4{data.Position.X, data.Position.Y, data.Position.Z, 1})
	data.Position = scene.Vec3{X: p.X(), Y: p.Y(), Z: p.Z()}

	name := n.Name
	if name == "" {
		name = n.ID.Short()
	}
	w.r.Lights = append(w.r.Lights, Light{Name: name, LightData: data})
	return nil
}

// transform pushes the transform, recurses into children, then pops.
func (w *walker) transform(n *scene.Node) error {
	td, ok := n.Data.(scene.TransformData)
	if !ok {
		return fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	w.ts.push(td)
	defer w.ts.pop()
	return w.children(n)
}

// children recurses into the children of n in order.
func (w *walker) children(n *scene.Node) error {
	for _, child := range w.s.Children(n) {
		if err := w.walk(child); err != nil {
			return err
		}
	}
	return nil
}
