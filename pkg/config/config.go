// Package config loads the demo's YAML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/chazu/hw3d/pkg/prism"
	"gopkg.in/yaml.v3"
)

// maxConfigSize bounds the config file size.
const maxConfigSize = 1024 * 1024

type Vec3 [3]float32

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// ProjectionConfig is a left-handed perspective volume, Width by Height at
// the near plane.
type ProjectionConfig struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
	Near   float32 `yaml:"near"`
	Far    float32 `yaml:"far"`
}

type CameraConfig struct {
	Position      Vec3    `yaml:"position"`
	TravelSpeed   float32 `yaml:"travel_speed"`
	RotationSpeed float32 `yaml:"rotation_speed"`
}

type LightConfig struct {
	Position  Vec3    `yaml:"position"`
	Ambient   Vec3    `yaml:"ambient"`
	Diffuse   Vec3    `yaml:"diffuse"`
	Intensity float32 `yaml:"intensity"`
	AttConst  float32 `yaml:"att_const"`
	AttLin    float32 `yaml:"att_lin"`
	AttQuad   float32 `yaml:"att_quad"`
}

type MeshConfig struct {
	LongDiv int `yaml:"long_div"`
}

// DebugConfig controls the graphics debug layer. Library overrides the
// native debug library path; empty means the platform default.
type DebugConfig struct {
	Enable  bool   `yaml:"enable"`
	Library string `yaml:"library"`
}

// Config is the full demo configuration.
type Config struct {
	Window      WindowConfig     `yaml:"window"`
	Projection  ProjectionConfig `yaml:"projection"`
	ClearColor  Vec3             `yaml:"clear_color"`
	SpeedFactor float32          `yaml:"speed_factor"`
	Camera      CameraConfig     `yaml:"camera"`
	Light       LightConfig      `yaml:"light"`
	Scene       string           `yaml:"scene"`
	Mesh        MeshConfig       `yaml:"mesh"`
	Debug       DebugConfig      `yaml:"debug"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: WindowConfig{Width: 1280, Height: 720, Title: "hw3d"},
		Projection: ProjectionConfig{
			Width:  1,
			Height: 9.0 / 16.0,
			Near:   0.5,
			Far:    400,
		},
		ClearColor:  Vec3{0.07, 0, 0.12},
		SpeedFactor: 1,
		Camera: CameraConfig{
			Position:      Vec3{0, 7.5, -18},
			TravelSpeed:   12,
			RotationSpeed: 0.004,
		},
		Light: LightConfig{
			Position:  Vec3{10, 9, 2.5},
			Ambient:   Vec3{0.05, 0.05, 0.05},
			Diffuse:   Vec3{1, 1, 1},
			Intensity: 1,
			AttConst:  1,
			AttLin:    0.045,
			AttQuad:   0.0075,
		},
		Mesh: MeshConfig{LongDiv: prism.DefaultLongDiv},
	}
}

// Load reads path over the defaults. A missing file yields the defaults;
// an unreadable, malformed or invalid file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no config file, using defaults", "path", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: stat %s: %w", path, err)
	}
	if info.Size() > maxConfigSize {
		return cfg, fmt.Errorf("config: %s is too large (%d bytes)", path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err = Parse(data)
	if err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	slog.Info("loaded config", "path", path, "size", info.Size())
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate returns every problem found, joined, or nil.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		bad("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	p := c.Projection
	if p.Width <= 0 || p.Height <= 0 {
		bad("projection size %gx%g must be positive", p.Width, p.Height)
	}
	if p.Near <= 0 {
		bad("projection near plane %g must be positive", p.Near)
	}
	if p.Far <= p.Near {
		bad("projection far plane %g must be beyond near plane %g", p.Far, p.Near)
	}
	for i, v := range c.ClearColor {
		if v < 0 || v > 1 {
			bad("clear_color[%d] = %g out of range [0, 1]", i, v)
		}
	}
	if c.SpeedFactor < 0 {
		bad("speed_factor %g must not be negative", c.SpeedFactor)
	}
	if c.Camera.TravelSpeed <= 0 {
		bad("camera travel_speed %g must be positive", c.Camera.TravelSpeed)
	}
	if c.Camera.RotationSpeed <= 0 {
		bad("camera rotation_speed %g must be positive", c.Camera.RotationSpeed)
	}
	l := c.Light
	if l.AttConst <= 0 {
		bad("light att_const %g must be positive", l.AttConst)
	}
	if l.AttLin < 0 || l.AttQuad < 0 {
		bad("light attenuation terms must not be negative")
	}
	if l.Intensity < 0 {
		bad("light intensity %g must not be negative", l.Intensity)
	}
	if err := prism.ValidLongDiv(c.Mesh.LongDiv); err != nil {
		bad("mesh long_div: %v", err)
	}
	return errors.Join(errs...)
}
