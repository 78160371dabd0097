package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/chazu/hw3d/pkg/engine"
	"github.com/chazu/hw3d/pkg/geom"
	"github.com/chazu/hw3d/pkg/gfxdebug"
	"github.com/chazu/hw3d/pkg/kernel"
	"github.com/chazu/hw3d/pkg/kernel/facet"
	"github.com/chazu/hw3d/pkg/kernel/sdfx"
	"github.com/chazu/hw3d/pkg/prism"
	"github.com/chazu/hw3d/pkg/scene"
	"github.com/chazu/hw3d/pkg/tessellate"
)

// colorPalette tells apart parts left at the default color.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// Message IDs the viewer posts to its debug queue.
const (
	msgEvalFailed int32 = iota + 100
	msgInvalidScene
	msgSceneWarning
	msgTessellateFailed
	msgBadPrism
)

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx    context.Context
	engine *engine.Engine

	// mu guards kernel and the info manager's mark.
	mu     sync.Mutex
	kernel kernel.Kernel

	queue *gfxdebug.MemQueue
	info  *gfxdebug.InfoManager
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// LightData is a scene light in world space.
type LightData struct {
	Name      string     `json:"name"`
	Position  [3]float64 `json:"position"`
	Color     string     `json:"color"`
	Intensity float64    `json:"intensity"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Lights   []LightData     `json:"lights"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// PrismResult is a single generated prism, or the reason it could not be.
type PrismResult struct {
	Mesh      *MeshData `json:"mesh"`
	Vertices  int       `json:"vertexCount"`
	Triangles int       `json:"triangleCount"`
	Error     string    `json:"error,omitempty"`
}

// NewApp creates a new App with an engine and the facet kernel.
func NewApp() *App {
	q := gfxdebug.NewMemQueue(0)
	return &App{
		engine: engine.NewEngine(),
		kernel: facet.New(),
		queue:  q,
		info:   gfxdebug.NewInfoManager(q),
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// SetKernel selects the geometry kernel: "facet" (exact) or "sdfx"
// (signed distance field, marching cubes).
func (a *App) SetKernel(name string) error {
	var k kernel.Kernel
	switch name {
	case "facet":
		k = facet.New()
	case "sdfx":
		k = sdfx.New()
	default:
		return fmt.Errorf("unknown kernel %q", name)
	}
	a.mu.Lock()
	a.kernel = k
	a.mu.Unlock()
	slog.Info("kernel selected", "kernel", name)
	return nil
}

func (a *App) currentKernel() kernel.Kernel {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.kernel
}

func hexColor(c [3]float32) string {
	ch := func(v float32) int { return int(min(max(v, 0), 1)*255 + 0.5) }
	return fmt.Sprintf("#%02X%02X%02X", ch(c[0]), ch(c[1]), ch(c[2]))
}

func toMeshData(m *kernel.Mesh, i int) MeshData {
	color := hexColor(m.Color)
	d := scene.DefaultColor
	if m.Color == [3]float32{float32(d.R), float32(d.G), float32(d.B)} {
		color = colorPalette[i%len(colorPalette)]
	}
	return MeshData{
		Vertices: m.Vertices,
		Normals:  m.Normals,
		Indices:  m.Indices,
		PartName: m.PartName,
		Color:    color,
	}
}

// Evaluate takes scene source and returns mesh data + errors.
// This is the primary binding called by the frontend editor.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Lights:   []LightData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the source into a scene.
	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		slog.Error("evaluate failed", "error", err)
		a.queue.Post(gfxdebug.SeverityError, msgEvalFailed, "evaluate: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors to the frontend format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	// Step 3: Validate the scene; warnings pass through.
	for _, v := range scene.Validate(s) {
		if v.Severity == scene.SeverityWarning {
			a.queue.Post(gfxdebug.SeverityWarning, msgSceneWarning, "%s", v.Error())
			result.Warnings = append(result.Warnings, EvalErrorData{Message: v.Message})
			continue
		}
		a.queue.Post(gfxdebug.SeverityError, msgInvalidScene, "%s", v.Error())
		result.Errors = append(result.Errors, EvalErrorData{Message: v.Message})
	}
	if len(result.Errors) > 0 {
		return result
	}

	// Step 4: Tessellate the scene into triangle meshes.
	res, err := tessellate.Walk(s, a.currentKernel())
	if err != nil {
		slog.Error("tessellate failed", "error", err)
		a.queue.Post(gfxdebug.SeverityError, msgTessellateFailed, "tessellate: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}

	// Step 5: Convert to the frontend format.
	for i, m := range res.Meshes {
		result.Meshes = append(result.Meshes, toMeshData(m, i))
	}
	for _, l := range res.Lights {
		result.Lights = append(result.Lights, LightData{
			Name:      l.Name,
			Position:  [3]float64{l.Position.X, l.Position.Y, l.Position.Z},
			Color:     hexColor([3]float32{float32(l.Diffuse.R), float32(l.Diffuse.G), float32(l.Diffuse.B)}),
			Intensity: l.Intensity,
		})
	}

	return result
}

// Prism generates the unit prism with longDiv sides directly from the
// tessellator, without going through a scene or kernel transform.
func (a *App) Prism(longDiv int, independentCaps bool) PrismResult {
	if err := prism.ValidLongDiv(longDiv); err != nil {
		a.queue.Post(gfxdebug.SeverityError, msgBadPrism, "prism: %v", err)
		return PrismResult{Error: err.Error()}
	}

	var m *kernel.Mesh
	if independentCaps {
		m = kernel.FromIndexed(prism.MakeTesselatedIndependentCapNormals[geom.LitVertex](longDiv))
	} else {
		m = kernel.FromIndexed(prism.MakeTesselated[geom.Vertex](longDiv))
	}
	d := scene.DefaultColor
	m.Color = [3]float32{float32(d.R), float32(d.G), float32(d.B)}
	m.PartName = fmt.Sprintf("prism-%d", longDiv)
	md := toMeshData(m, 0)
	return PrismResult{Mesh: &md, Vertices: m.VertexCount(), Triangles: m.TriangleCount()}
}

// DebugMessages returns the diagnostics posted since the previous call.
func (a *App) DebugMessages() []string {
	a.mu.Lock()
	msgs, err := a.info.GetMessages()
	a.info.Set()
	a.mu.Unlock()
	if err != nil {
		msgs = append(msgs, err.Error())
	}
	if msgs == nil {
		msgs = []string{}
	}
	return msgs
}
