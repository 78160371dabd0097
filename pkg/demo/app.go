// Package demo is the interactive prism viewer: a free camera flying
// around a lit scene of tessellated prisms.
package demo

import (
	"fmt"
	"log/slog"

	"github.com/chazu/hw3d/pkg/config"
	"github.com/chazu/hw3d/pkg/kernel"
	"github.com/chazu/hw3d/pkg/kernel/facet"
	"github.com/chazu/hw3d/pkg/render"
	"github.com/chazu/hw3d/pkg/tessellate"
	"github.com/chazu/hw3d/pkg/window"
	"github.com/go-gl/mathgl/mgl32"
)

// markerSides is the division count of the light marker.
const markerSides = 8

// App owns the per-frame state of the demo.
type App struct {
	wnd   *window.Window
	gfx   *render.Graphics
	cam   *render.Camera
	light render.PointLight
	home  render.PointLight

	content     *Content
	marker      *kernel.Mesh
	clear       mgl32.Vec3
	speedFactor float32
	showHelp    bool
	lastStats   render.Stats
}

// New builds an App drawing content into gfx, reading input from wnd. The
// first scene light, if any, replaces the configured one.
func New(cfg config.Config, wnd *window.Window, gfx *render.Graphics, content *Content) (*App, error) {
	k := facet.New()
	marker, err := k.ToMesh(k.Prism(markerSides, 0.25, 0.5, kernel.SharedCaps))
	if err != nil {
		return nil, fmt.Errorf("demo: light marker: %w", err)
	}

	p := cfg.Projection
	gfx.SetProjection(render.PerspectiveLH(p.Width, p.Height, p.Near, p.Far))

	cam := render.NewCamera()
	cam.TravelSpeed = cfg.Camera.TravelSpeed
	cam.RotationSpeed = cfg.Camera.RotationSpeed
	cam.SetHome(mgl32.Vec3(cfg.Camera.Position))

	light := lightFromConfig(cfg.Light)
	if len(content.Lights) > 0 {
		light = lightFromScene(content.Lights[0])
		if len(content.Lights) > 1 {
			slog.Warn("only the first scene light is used", "lights", len(content.Lights))
		}
	}

	return &App{
		wnd:         wnd,
		gfx:         gfx,
		cam:         cam,
		light:       light,
		home:        light,
		content:     content,
		marker:      marker,
		clear:       mgl32.Vec3(cfg.ClearColor),
		speedFactor: cfg.SpeedFactor,
	}, nil
}

func lightFromConfig(c config.LightConfig) render.PointLight {
	return render.PointLight{
		Pos:       mgl32.Vec3(c.Position),
		Ambient:   mgl32.Vec3(c.Ambient),
		Diffuse:   mgl32.Vec3(c.Diffuse),
		Intensity: c.Intensity,
		AttConst:  c.AttConst,
		AttLin:    c.AttLin,
		AttQuad:   c.AttQuad,
	}
}

func lightFromScene(l tessellate.Light) render.PointLight {
	return render.PointLight{
		Pos:       mgl32.Vec3{float32(l.Position.X), float32(l.Position.Y), float32(l.Position.Z)},
		Ambient:   mgl32.Vec3{float32(l.Ambient.R), float32(l.Ambient.G), float32(l.Ambient.B)},
		Diffuse:   mgl32.Vec3{float32(l.Diffuse.R), float32(l.Diffuse.G), float32(l.Diffuse.B)},
		Intensity: float32(l.Intensity),
		AttConst:  float32(l.Attenuation.Constant),
		AttLin:    float32(l.Attenuation.Linear),
		AttQuad:   float32(l.Attenuation.Quadratic),
	}
}

func (a *App) Camera() *render.Camera    { return a.cam }
func (a *App) Light() *render.PointLight { return &a.light }
func (a *App) HelpVisible() bool         { return a.showHelp }
func (a *App) SpeedFactor() float32      { return a.speedFactor }
func (a *App) SetSpeedFactor(f float32)  { a.speedFactor = max(0, f) }

// DoFrame advances the demo by dt seconds of wall time and renders a frame.
func (a *App) DoFrame(dt float32) (render.Frame, error) {
	dt *= a.speedFactor

	a.gfx.BeginFrame(a.clear[0], a.clear[1], a.clear[2])
	a.gfx.SetCamera(a.cam.Matrix())
	a.gfx.BindLight(a.light)

	var drawErr error
	if err := a.gfx.DrawSolid(a.marker, mgl32.Translate3D(a.light.Pos[0], a.light.Pos[1], a.light.Pos[2]), a.light.Diffuse); err != nil {
		drawErr = err
	}
	for _, m := range a.content.Meshes {
		if err := a.gfx.DrawIndexed(m, mgl32.Ident4(), mgl32.Vec3(m.Color)); err != nil && drawErr == nil {
			drawErr = fmt.Errorf("draw %s: %w", m.PartName, err)
		}
	}

	a.handleKeys()
	if !a.wnd.CursorEnabled() {
		a.move(dt)
	}
	a.look()

	f, err := a.gfx.EndFrame()
	if err != nil {
		return f, err
	}
	a.lastStats = f.Stats
	return f, drawErr
}

func (a *App) handleKeys() {
	kbd := a.wnd.Kbd
	for {
		e, ok := kbd.ReadKey()
		if !ok {
			return
		}
		if !e.IsPress() {
			continue
		}
		switch e.Code {
		case window.KeyEscape:
			if a.wnd.CursorEnabled() {
				a.wnd.DisableCursor()
				a.wnd.Mouse.EnableRaw()
			} else {
				a.wnd.EnableCursor()
				a.wnd.Mouse.DisableRaw()
			}
		case window.KeyF1:
			a.showHelp = !a.showHelp
		case window.KeyF2:
			a.cam.Reset()
			a.light = a.home
		}
	}
}

// moveKeys maps held keys to camera-space directions.
var moveKeys = []struct {
	key window.KeyCode
	dir mgl32.Vec3
}{
	{'W', mgl32.Vec3{0, 0, 1}},
	{'A', mgl32.Vec3{-1, 0, 0}},
	{'S', mgl32.Vec3{0, 0, -1}},
	{'D', mgl32.Vec3{1, 0, 0}},
	{'R', mgl32.Vec3{0, 1, 0}},
	{'F', mgl32.Vec3{0, -1, 0}},
}

func (a *App) move(dt float32) {
	for _, mk := range moveKeys {
		if a.wnd.Kbd.KeyIsPressed(mk.key) {
			a.cam.Translate(mk.dir.Mul(dt))
		}
	}
}

// look drains raw mouse motion, turning the camera while the cursor is
// captured.
func (a *App) look() {
	for {
		d, ok := a.wnd.Mouse.ReadRawDelta()
		if !ok {
			return
		}
		if !a.wnd.CursorEnabled() {
			a.cam.Rotate(float32(d.X), float32(d.Y))
		}
	}
}

// Overlay returns the text drawn over the frame.
func (a *App) Overlay() []string {
	lines := []string{
		"camera: " + a.cam.String(),
		"light:  " + a.light.String(),
		fmt.Sprintf("speed x%.2f  drawn %d  culled %d  clipped %d",
			a.speedFactor, a.lastStats.Drawn, a.lastStats.Culled, a.lastStats.Clipped),
	}
	if a.showHelp {
		lines = append(lines,
			"",
			"Esc  toggle mouse look",
			"WASD move, R/F up/down (mouse look only)",
			"F1   toggle this help",
			"F2   reset camera and light",
		)
	} else {
		lines = append(lines, "F1 for help")
	}
	return lines
}
