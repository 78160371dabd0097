package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestDefaultValues(t *testing.T) {
	c := Default()
	if c.Window.Width != 1280 || c.Window.Height != 720 {
		t.Errorf("window = %dx%d, want 1280x720", c.Window.Width, c.Window.Height)
	}
	if c.Projection.Height != 9.0/16.0 || c.Projection.Near != 0.5 || c.Projection.Far != 400 {
		t.Errorf("projection = %+v", c.Projection)
	}
	if c.ClearColor != (Vec3{0.07, 0, 0.12}) {
		t.Errorf("clear color = %v", c.ClearColor)
	}
	if c.Mesh.LongDiv != 24 {
		t.Errorf("long_div = %d, want 24", c.Mesh.LongDiv)
	}
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c != Default() {
		t.Errorf("Load() of missing file = %+v, want defaults", c)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	c, err := Load("")
	if err != nil || c != Default() {
		t.Errorf("Load(\"\") = %+v, %v, want defaults", c, err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hw3d.yml")
	src := `
window:
  title: prisms
speed_factor: 2.5
camera:
  position: [1, 2, 3]
mesh:
  long_div: 8
scene: scenes/rig.zy
debug:
  enable: true
  library: /usr/lib/libdxgi.so
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Window.Title != "prisms" || c.Window.Width != 1280 {
		t.Errorf("window = %+v, want title override with default size", c.Window)
	}
	if c.SpeedFactor != 2.5 {
		t.Errorf("speed_factor = %v, want 2.5", c.SpeedFactor)
	}
	if c.Camera.Position != (Vec3{1, 2, 3}) || c.Camera.TravelSpeed != 12 {
		t.Errorf("camera = %+v", c.Camera)
	}
	if c.Mesh.LongDiv != 8 || c.Scene != "scenes/rig.zy" {
		t.Errorf("mesh/scene = %+v / %q", c.Mesh, c.Scene)
	}
	if !c.Debug.Enable || c.Debug.Library != "/usr/lib/libdxgi.so" {
		t.Errorf("debug = %+v", c.Debug)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"malformed", "window: [", []string{"parse"}},
		{"unknown key", "colour: red", []string{"parse", "colour"}},
		{"bad long_div", "mesh: {long_div: 2}", []string{"long_div"}},
		{"several problems", `
window: {width: 0}
projection: {near: 10, far: 5}
clear_color: [2, 0, 0]
light: {att_const: 0}
`, []string{"window size", "far plane", "clear_color[0]", "att_const"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if err == nil {
				t.Fatal("Parse() succeeded, want error")
			}
			for _, w := range tt.want {
				if !strings.Contains(err.Error(), w) {
					t.Errorf("error %q does not mention %q", err, w)
				}
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	c, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) error = %v", err)
	}
	if c != Default() {
		t.Errorf("Parse(nil) = %+v, want defaults", c)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("speed_factor: fast"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Errorf("Load() error = %v, want one naming %s", err, path)
	}
}
