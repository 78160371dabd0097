package scene

import (
	"fmt"

	"github.com/chazu/hw3d/pkg/kernel"
	"github.com/chazu/hw3d/pkg/prism"
)

// ValidationSeverity indicates whether a validation finding blocks
// tessellation or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks tessellation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if scene-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// HasErrors reports whether errs contains an error-severity finding.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate runs all structural and parameter checks on the scene and
// returns the findings. An empty slice means the scene is valid. It never
// mutates the scene.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDAG(s)...)
	errs = append(errs, validateReferences(s)...)
	errs = append(errs, validateNames(s)...)
	errs = append(errs, validateRoots(s)...)
	errs = append(errs, validateShape(s)...)
	errs = append(errs, validatePrisms(s)...)
	errs = append(errs, validateLights(s)...)
	return errs
}

// validateDAG checks for cycles using DFS with 3-color marking.
// White (0) = unvisited, gray (1) = in current DFS path, black (2) = fully explored.
func validateDAG(s *Scene) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int)
	var errs []ValidationError

	var visit func(id NodeID) bool // returns true if cycle found
	visit = func(id NodeID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("cycle detected: node %s is part of a cycle", id.Short()),
				Severity: SeverityError,
			})
			return true
		}

		color[id] = gray
		node, ok := s.Nodes[id]
		if !ok {
			// Dangling reference; handled by validateReferences.
			color[id] = black
			return false
		}
		for _, childID := range node.Children {
			if visit(childID) {
				return true
			}
		}
		color[id] = black
		return false
	}

	for id := range s.Nodes {
		if color[id] == white {
			if visit(id) {
				break
			}
		}
	}

	return errs
}

// validateReferences checks that every child ID points to an existing node.
func validateReferences(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, node := range s.Nodes {
		for _, childID := range node.Children {
			if _, ok := s.Nodes[childID]; !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("child reference %s does not exist", childID.Short()),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateNames checks that the NameIndex points at existing nodes and that
// no two nodes share a name.
func validateNames(s *Scene) []ValidationError {
	var errs []ValidationError

	for name, id := range s.NameIndex {
		if _, ok := s.Nodes[id]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("name index entry %q references non-existent node %s", name, id.Short()),
				Severity: SeverityError,
			})
		}
	}

	nameToNodes := make(map[string][]NodeID)
	for id, node := range s.Nodes {
		if node.Name != "" {
			nameToNodes[node.Name] = append(nameToNodes[node.Name], id)
		}
	}
	for name, ids := range nameToNodes {
		if len(ids) > 1 {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("duplicate name %q assigned to %d nodes", name, len(ids)),
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateRoots checks that every root exists and warns about nodes that no
// root reaches.
func validateRoots(s *Scene) []ValidationError {
	var errs []ValidationError

	for _, rid := range s.Roots {
		if _, ok := s.Nodes[rid]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("root reference %s does not exist", rid.Short()),
				Severity: SeverityError,
			})
		}
	}

	if len(s.Nodes) == 0 {
		return errs
	}

	reachable := make(map[NodeID]bool)
	queue := make([]NodeID, 0, len(s.Roots))
	for _, rid := range s.Roots {
		if _, ok := s.Nodes[rid]; ok && !reachable[rid] {
			reachable[rid] = true
			queue = append(queue, rid)
		}
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		node := s.Nodes[current]
		if node == nil {
			continue
		}
		for _, childID := range node.Children {
			if !reachable[childID] {
				reachable[childID] = true
				queue = append(queue, childID)
			}
		}
	}

	for id, node := range s.Nodes {
		if !reachable[id] {
			name := node.Name
			if name == "" {
				name = id.Short()
			}
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("node %q is not reachable from any root (orphan)", name),
				Severity: SeverityWarning,
			})
		}
	}

	return errs
}

// validateShape checks that each node's payload matches its kind and that
// the number of children fits the kind: prisms and lights are leaves and a
// transform wraps exactly one child.
func validateShape(s *Scene) []ValidationError {
	var errs []ValidationError
	bad := func(n *Node, format string, args ...any) {
		errs = append(errs, ValidationError{
			NodeID:   n.ID,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	for _, n := range s.Nodes {
		var dataOK bool
		switch n.Kind {
		case NodePrism:
			_, dataOK = n.Data.(PrismData)
			if len(n.Children) > 0 {
				bad(n, "prism has %d children, want none", len(n.Children))
			}
		case NodeLight:
			_, dataOK = n.Data.(LightData)
			if len(n.Children) > 0 {
				bad(n, "light has %d children, want none", len(n.Children))
			}
		case NodeTransform:
			_, dataOK = n.Data.(TransformData)
			if len(n.Children) != 1 {
				bad(n, "transform has %d children, want 1", len(n.Children))
			}
		case NodeGroup:
			_, dataOK = n.Data.(GroupData)
		default:
			bad(n, "unknown node kind %d", int(n.Kind))
			continue
		}
		if !dataOK {
			bad(n, "%s node carries %T data", n.Kind, n.Data)
		}
	}

	return errs
}

// validatePrisms checks prism parameters against what the tessellator
// accepts.
func validatePrisms(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, n := range s.Nodes {
		d, ok := n.Data.(PrismData)
		if !ok {
			continue
		}
		add := func(msg string) {
			errs = append(errs, ValidationError{NodeID: n.ID, Message: msg, Severity: SeverityError})
		}
		if err := prism.ValidLongDiv(d.Sides); err != nil {
			add(err.Error())
		}
		if d.Radius <= 0 {
			add(fmt.Sprintf("radius must be positive, got %g", d.Radius))
		}
		if d.Length <= 0 {
			add(fmt.Sprintf("length must be positive, got %g", d.Length))
		}
		if d.Caps != kernel.SharedCaps && d.Caps != kernel.IndependentCaps {
			add(fmt.Sprintf("unknown cap mode %d", int(d.Caps)))
		}
		if !d.Color.Valid() {
			add(fmt.Sprintf("color %s out of range [0, 1]", d.Color))
		}
	}
	return errs
}

// validateLights checks light parameters. A light whose falloff can divide
// by zero is an error; an unlit light is a warning.
func validateLights(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, n := range s.Nodes {
		d, ok := n.Data.(LightData)
		if !ok {
			continue
		}
		a := d.Attenuation
		if a.Constant < 0 || a.Linear < 0 || a.Quadratic < 0 {
			errs = append(errs, ValidationError{
				NodeID:   n.ID,
				Message:  "attenuation terms must not be negative",
				Severity: SeverityError,
			})
		} else if a.Constant == 0 {
			errs = append(errs, ValidationError{
				NodeID:   n.ID,
				Message:  "attenuation constant term must be positive",
				Severity: SeverityError,
			})
		}
		if !d.Diffuse.Valid() || !d.Ambient.Valid() {
			errs = append(errs, ValidationError{
				NodeID:   n.ID,
				Message:  "light color out of range [0, 1]",
				Severity: SeverityError,
			})
		}
		if d.Intensity <= 0 {
			errs = append(errs, ValidationError{
				NodeID:   n.ID,
				Message:  fmt.Sprintf("light intensity %g contributes nothing", d.Intensity),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}
