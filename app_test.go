package main

import (
	"os"
	"testing"
)

// TestE2ERocketExample exercises the full pipeline: scene source → engine →
// scene → tessellate → meshes. This is the same path that the Wails
// Evaluate binding takes, but without the Wails runtime.
func TestE2ERocketExample(t *testing.T) {
	app := NewApp()

	source, err := os.ReadFile("examples/rocket.zy")
	if err != nil {
		t.Fatalf("failed to read rocket.zy: %v", err)
	}

	result := app.Evaluate(string(source))

	// No errors expected.
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}

	// Expect 5 meshes: body, nose and three fins.
	if len(result.Meshes) != 5 {
		t.Fatalf("expected 5 meshes, got %d", len(result.Meshes))
	}

	counts := map[string]int{}
	for _, m := range result.Meshes {
		counts[m.PartName]++

		// Each mesh must have non-empty geometry.
		if len(m.Vertices) == 0 {
			t.Errorf("part %q: no vertices", m.PartName)
		}
		if len(m.Normals) != len(m.Vertices) {
			t.Errorf("part %q: %d normals for %d vertices", m.PartName, len(m.Normals), len(m.Vertices))
		}
		if len(m.Indices) == 0 {
			t.Errorf("part %q: no indices", m.PartName)
		}

		// Must have a color assigned.
		if m.Color == "" {
			t.Errorf("part %q: no color assigned", m.PartName)
		}
	}
	if counts["body"] != 1 || counts["nose"] != 1 || counts["fin"] != 3 {
		t.Errorf("part counts = %v, want body 1, nose 1, fin 3", counts)
	}

	if len(result.Lights) != 1 || result.Lights[0].Name != "lamp" {
		t.Fatalf("lights = %+v, want one lamp", result.Lights)
	}
	if result.Lights[0].Intensity != 1.2 {
		t.Errorf("lamp intensity = %v, want 1.2", result.Lights[0].Intensity)
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("(prism \"test\"")

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}

// TestE2ESinglePrism ensures a minimal single-prism source renders one mesh.
func TestE2ESinglePrism(t *testing.T) {
	app := NewApp()
	source := `(prism "shelf" :sides 4 :radius 2 :length 1 :caps :shared)`
	result := app.Evaluate(source)

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error: %s", e.Message)
		}
		t.FailNow()
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	m := result.Meshes[0]
	if m.PartName != "shelf" {
		t.Errorf("expected part name 'shelf', got %q", m.PartName)
	}
	// Shared caps: two centers plus two rims of four.
	if got := len(m.Vertices) / 3; got != 10 {
		t.Errorf("expected 10 vertices, got %d", got)
	}
}
