package demo

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/chazu/hw3d/pkg/engine"
	"github.com/chazu/hw3d/pkg/kernel"
	"github.com/chazu/hw3d/pkg/scene"
	"github.com/chazu/hw3d/pkg/tessellate"
)

// Content is what the demo draws: placed meshes and the scene's lights.
type Content struct {
	Meshes []*kernel.Mesh
	Lights []tessellate.Light
}

// DefaultContent is a single prism of longDiv sides with flat caps.
func DefaultContent(k kernel.Kernel, longDiv int) (*Content, error) {
	m, err := k.ToMesh(k.Prism(longDiv, 1, 2, kernel.IndependentCaps))
	if err != nil {
		return nil, fmt.Errorf("demo: default prism: %w", err)
	}
	m.PartName = "prism"
	c := scene.DefaultColor
	m.Color = [3]float32{float32(c.R), float32(c.G), float32(c.B)}
	return &Content{Meshes: []*kernel.Mesh{m}}, nil
}

// BuildContent evaluates scene source, validates it and tessellates it with
// k. Evaluation and validation problems are joined into the error.
func BuildContent(eng *engine.Engine, k kernel.Kernel, source string) (*Content, error) {
	s, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		return nil, fmt.Errorf("demo: evaluate scene: %w", err)
	}
	if len(evalErrs) > 0 {
		errs := make([]error, len(evalErrs))
		for i, e := range evalErrs {
			errs[i] = e
		}
		return nil, fmt.Errorf("demo: scene: %w", errors.Join(errs...))
	}

	var problems []string
	for _, v := range scene.Validate(s) {
		if v.Severity == scene.SeverityWarning {
			slog.Warn("scene", "problem", v.Error())
			continue
		}
		problems = append(problems, v.Error())
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("demo: invalid scene:\n%s", strings.Join(problems, "\n"))
	}

	res, err := tessellate.Walk(s, k)
	if err != nil {
		return nil, fmt.Errorf("demo: %w", err)
	}
	slog.Info("scene built", "nodes", s.NodeCount(), "meshes", len(res.Meshes), "lights", len(res.Lights))
	return &Content{Meshes: res.Meshes, Lights: res.Lights}, nil
}

// LoadContent reads and builds the scene file at path.
func LoadContent(eng *engine.Engine, k kernel.Kernel, path string) (*Content, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("demo: %w", err)
	}
	c, err := BuildContent(eng, k, string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
