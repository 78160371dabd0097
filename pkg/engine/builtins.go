package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/hw3d/pkg/kernel"
	"github.com/chazu/hw3d/pkg/prism"
	"github.com/chazu/hw3d/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNodeRef wraps a scene.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   scene.NodeID
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(noderef %q)", n.name)
	}
	return fmt.Sprintf("(noderef %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a scene.Vec3.
type sexpVec3 struct {
	vec scene.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpColor wraps a scene.Color.
type sexpColor struct {
	c scene.Color
}

func (c *sexpColor) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(color %g %g %g)", c.c.R, c.c.G, c.c.B)
}
func (c *sexpColor) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toInt extracts an integer from a SexpInt.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toCaps converts :shared or :independent to a kernel.CapNormals.
func toCaps(s zygo.Sexp) (kernel.CapNormals, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected cap keyword (:shared, :independent): %w", err)
	}
	switch name {
	case "shared":
		return kernel.SharedCaps, nil
	case "independent":
		return kernel.IndependentCaps, nil
	}
	return 0, fmt.Errorf("invalid cap mode %q, expected shared or independent", name)
}

// toNodeRef extracts a NodeID from a sexpNodeRef.
func toNodeRef(s zygo.Sexp) (scene.NodeID, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref.id, nil
	}
	return "", fmt.Errorf("expected node reference, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (scene.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return scene.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toColor extracts a Color from a sexpColor.
func toColor(s zygo.Sexp) (scene.Color, error) {
	if c, ok := s.(*sexpColor); ok {
		return c.c, nil
	}
	return scene.Color{}, fmt.Errorf("expected color, got %T (%s)", s, s.SexpString(nil))
}

// optionalName returns the leading string positional argument, if any.
func optionalName(pa kwArgs) (string, []zygo.Sexp) {
	if len(pa.positional) > 0 {
		if str, ok := pa.positional[0].(*zygo.SexpStr); ok {
			return str.S, pa.positional[1:]
		}
	}
	return "", pa.positional
}

// ---------------------------------------------------------------------------
// Scene builder
// ---------------------------------------------------------------------------

// builder accumulates nodes during one evaluation. Node IDs derive from the
// node name, or from a per-evaluation counter for anonymous nodes, so the
// same source always produces the same IDs.
type builder struct {
	s     *scene.Scene
	order []scene.NodeID
	anon  int
}

func newBuilder() *builder {
	return &builder{s: scene.New()}
}

// id returns the node ID for a node of the given kind and name.
func (b *builder) id(kind scene.NodeKind, name string) scene.NodeID {
	if name != "" {
		return scene.NewNodeID(kind.String() + "/" + name)
	}
	b.anon++
	return scene.NewNodeID(fmt.Sprintf("%s/_anon_%d", kind, b.anon))
}

// add registers n, rejecting a name that is already taken.
func (b *builder) add(n *scene.Node) error {
	if n.Name != "" && b.s.Lookup(n.Name) != nil {
		return fmt.Errorf("name %q already defined", n.Name)
	}
	b.s.AddNode(n)
	b.order = append(b.order, n.ID)
	return nil
}

// finish makes every node that no other node references a root, in the
// order the nodes were created.
func (b *builder) finish() *scene.Scene {
	referenced := make(map[scene.NodeID]bool)
	for _, n := range b.s.Nodes {
		for _, c := range n.Children {
			referenced[c] = true
		}
	}
	for _, id := range b.order {
		if !referenced[id] {
			b.s.AddRoot(id)
		}
	}
	return b.s
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the scene builtins into a zygomys environment.
// The builtins populate b during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *builder) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var xyz [3]float64
		for i, axis := range []string{"x", "y", "z"} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
			}
			xyz[i] = f
		}
		return &sexpVec3{vec: scene.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (color 1 0.5 0)
	// -----------------------------------------------------------------------
	env.AddFunction("color", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("color requires exactly 3 arguments, got %d", len(args))
		}
		var rgb [3]float64
		for i, ch := range []string{"r", "g", "b"} {
			f, err := toFloat64(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("color: %s: %w", ch, err)
			}
			rgb[i] = f
		}
		return &sexpColor{c: scene.Color{R: rgb[0], G: rgb[1], B: rgb[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (prism "hull" :sides 24 :radius 1 :length 2 :caps :independent
	//        :color (color 1 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("prism", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		nodeName, rest := optionalName(pa)
		if len(rest) > 0 {
			return zygo.SexpNull, fmt.Errorf("prism: unexpected argument %s", rest[0].SexpString(nil))
		}

		pd := scene.PrismData{
			Sides:  prism.DefaultLongDiv,
			Radius: scene.DefaultRadius,
			Length: scene.DefaultLength,
			Caps:   kernel.IndependentCaps,
			Color:  scene.DefaultColor,
		}
		if v, ok := pa.kw["sides"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("prism: sides: %w", err)
			}
			if err := prism.ValidLongDiv(n); err != nil {
				return zygo.SexpNull, fmt.Errorf("prism: sides: %w", err)
			}
			pd.Sides = n
		}
		if v, ok := pa.kw["radius"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("prism: radius: %w", err)
			}
			pd.Radius = f
		}
		if v, ok := pa.kw["length"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("prism: length: %w", err)
			}
			pd.Length = f
		}
		if v, ok := pa.kw["caps"]; ok {
			c, err := toCaps(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("prism: caps: %w", err)
			}
			pd.Caps = c
		}
		if v, ok := pa.kw["color"]; ok {
			c, err := toColor(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("prism: color: %w", err)
			}
			pd.Color = c
		}

		node := &scene.Node{
			ID:   b.id(scene.NodePrism, nodeName),
			Kind: scene.NodePrism,
			Name: nodeName,
			Data: pd,
		}
		if err := b.add(node); err != nil {
			return zygo.SexpNull, fmt.Errorf("prism: %w", err)
		}
		return &sexpNodeRef{id: node.ID, name: nodeName}, nil
	})

	// -----------------------------------------------------------------------
	// (ref "hull")
	// -----------------------------------------------------------------------
	env.AddFunction("ref", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("ref requires a name argument")
		}
		refName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("ref: name: %w", err)
		}
		n := b.s.Lookup(refName)
		if n == nil {
			return zygo.SexpNull, fmt.Errorf("ref: no node named %q", refName)
		}
		return &sexpNodeRef{id: n.ID, name: refName}, nil
	})

	// -----------------------------------------------------------------------
	// (place (ref "hull") :at (vec3 0 0 5) :rotate (vec3 90 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("place", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("place requires exactly one node reference, got %d arguments", len(pa.positional))
		}
		childID, err := toNodeRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}

		td := scene.TransformData{}
		if v, ok := pa.kw["at"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place: at: %w", err)
			}
			td.Translation = &vec
		}
		if v, ok := pa.kw["rotate"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place: rotate: %w", err)
			}
			td.Rotation = &vec
		}

		node := &scene.Node{
			ID:       b.id(scene.NodeTransform, ""),
			Kind:     scene.NodeTransform,
			Children: []scene.NodeID{childID},
			Data:     td,
		}
		if err := b.add(node); err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}
		return &sexpNodeRef{id: node.ID}, nil
	})

	// -----------------------------------------------------------------------
	// (light "lamp" :at (vec3 10 9 2.5) :color (color 1 1 1) :intensity 1
	//        :ambient (color 0.05 0.05 0.05)
	//        :constant 1 :linear 0.045 :quadratic 0.0075)
	// -----------------------------------------------------------------------
	env.AddFunction("light", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		nodeName, rest := optionalName(pa)
		if len(rest) > 0 {
			return zygo.SexpNull, fmt.Errorf("light: unexpected argument %s", rest[0].SexpString(nil))
		}

		ld := scene.LightData{
			Position:    scene.Vec3{X: 10, Y: 9, Z: 2.5},
			Diffuse:     scene.Color{R: 1, G: 1, B: 1},
			Ambient:     scene.Color{R: 0.05, G: 0.05, B: 0.05},
			Intensity:   1,
			Attenuation: scene.DefaultAttenuation,
		}
		if v, ok := pa.kw["at"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("light: at: %w", err)
			}
			ld.Position = vec
		}
		colors := map[string]*scene.Color{"color": &ld.Diffuse, "ambient": &ld.Ambient}
		for kw, dst := range colors {
			if v, ok := pa.kw[kw]; ok {
				c, err := toColor(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("light: %s: %w", kw, err)
				}
				*dst = c
			}
		}
		scalars := map[string]*float64{
			"intensity": &ld.Intensity,
			"constant":  &ld.Attenuation.Constant,
			"linear":    &ld.Attenuation.Linear,
			"quadratic": &ld.Attenuation.Quadratic,
		}
		for kw, dst := range scalars {
			if v, ok := pa.kw[kw]; ok {
				f, err := toFloat64(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("light: %s: %w", kw, err)
				}
				*dst = f
			}
		}

		node := &scene.Node{
			ID:   b.id(scene.NodeLight, nodeName),
			Kind: scene.NodeLight,
			Name: nodeName,
			Data: ld,
		}
		if err := b.add(node); err != nil {
			return zygo.SexpNull, fmt.Errorf("light: %w", err)
		}
		return &sexpNodeRef{id: node.ID, name: nodeName}, nil
	})

	// -----------------------------------------------------------------------
	// (group "name" (place ...) (prism ...) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("group", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("group requires a name argument")
		}
		groupName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("group: name: %w", err)
		}

		var children []scene.NodeID
		for i := 1; i < len(args); i++ {
			ref, ok := args[i].(*sexpNodeRef)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("group: child %d: expected node reference, got %T (%s)",
					i, args[i], args[i].SexpString(nil))
			}
			children = append(children, ref.id)
		}

		node := &scene.Node{
			ID:       b.id(scene.NodeGroup, groupName),
			Kind:     scene.NodeGroup,
			Name:     groupName,
			Children: children,
			Data:     scene.GroupData{},
		}
		if err := b.add(node); err != nil {
			return zygo.SexpNull, fmt.Errorf("group: %w", err)
		}
		return &sexpNodeRef{id: node.ID, name: groupName}, nil
	})
}
