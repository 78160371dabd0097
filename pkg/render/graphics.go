package render

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/chazu/hw3d/pkg/gfxdebug"
	"github.com/chazu/hw3d/pkg/kernel"
	"github.com/go-gl/mathgl/mgl32"
)

// Message IDs posted to the debug queue.
const (
	MsgDrawOutsideFrame int32 = iota + 1
	MsgIndexOutOfRange
	MsgIndexCount
	MsgNormalCount
	MsgSingularModel
	MsgFrameNotBegun
	MsgFrameNotEnded
)

var (
	ErrNotInFrame = errors.New("render: not inside BeginFrame/EndFrame")
	ErrBadMesh    = errors.New("render: invalid mesh")
)

// nearW rejects triangles with a vertex this close to or behind the eye.
const nearW = 1e-4

// ScreenVertex is a shaded vertex in pixel coordinates. Z is the
// projected depth in [0, 1].
type ScreenVertex struct {
	X, Y, Z float32
	Color   mgl32.Vec3
}

// Triangle is a front-facing screen triangle. Depth is its mean view-space
// distance, used for sorting.
type Triangle struct {
	V     [3]ScreenVertex
	Depth float32
}

// Stats counts what happened to the triangles submitted during a frame.
type Stats struct {
	Submitted int
	Culled    int
	Clipped   int
	Drawn     int
}

// Frame is the output of one BeginFrame/EndFrame pair. Triangles are
// sorted far to near.
type Frame struct {
	Width, Height int
	Clear         mgl32.Vec3
	Triangles     []Triangle
	Stats         Stats
}

// Graphics accumulates draw calls for one frame at a time.
type Graphics struct {
	width, height int
	projection    mgl32.Mat4
	camera        mgl32.Mat4
	light         PointLight

	queue *gfxdebug.MemQueue
	info  *gfxdebug.InfoManager

	inFrame bool
	frame   Frame
}

// NewGraphics returns a renderer for a width by height target that posts
// problems to q. A nil q gets a private queue.
func NewGraphics(width, height int, q *gfxdebug.MemQueue) *Graphics {
	if q == nil {
		q = gfxdebug.NewMemQueue(0)
	}
	return &Graphics{
		width:      width,
		height:     height,
		projection: mgl32.Ident4(),
		camera:     mgl32.Ident4(),
		light:      NewPointLight(),
		queue:      q,
		info:       gfxdebug.NewInfoManager(q),
	}
}

func (g *Graphics) Width() int                 { return g.width }
func (g *Graphics) Height() int                { return g.height }
func (g *Graphics) Queue() *gfxdebug.MemQueue  { return g.queue }
func (g *Graphics) SetProjection(m mgl32.Mat4) { g.projection = m }
func (g *Graphics) Projection() mgl32.Mat4     { return g.projection }
func (g *Graphics) SetCamera(m mgl32.Mat4)     { g.camera = m }
func (g *Graphics) Camera() mgl32.Mat4         { return g.camera }
func (g *Graphics) BindLight(l PointLight)     { g.light = l }
func (g *Graphics) Light() PointLight          { return g.light }

// Resize changes the target size for subsequent frames.
func (g *Graphics) Resize(width, height int) {
	g.width, g.height = width, height
}

// BeginFrame starts a frame cleared to (r, g, b).
func (g *Graphics) BeginFrame(r, gr, b float32) {
	if g.inFrame {
		g.queue.Post(gfxdebug.SeverityWarning, MsgFrameNotEnded,
			"BeginFrame: previous frame was never ended; %d triangles discarded", len(g.frame.Triangles))
	}
	g.inFrame = true
	g.frame = Frame{
		Width:  g.width,
		Height: g.height,
		Clear:  mgl32.Vec3{r, gr, b},
	}
}

// EndFrame finishes the frame and returns its sorted triangles.
func (g *Graphics) EndFrame() (Frame, error) {
	g.info.Set()
	if !g.inFrame {
		g.queue.Post(gfxdebug.SeverityError, MsgFrameNotBegun, "EndFrame: no frame in progress")
		return Frame{}, g.info.Wrap(fmt.Errorf("render: EndFrame: %w", ErrNotInFrame))
	}
	g.inFrame = false
	f := g.frame
	g.frame = Frame{}
	sort.SliceStable(f.Triangles, func(i, j int) bool {
		return f.Triangles[i].Depth > f.Triangles[j].Depth
	})
	f.Stats.Drawn = len(f.Triangles)
	slog.Debug("frame", "submitted", f.Stats.Submitted, "culled", f.Stats.Culled,
		"clipped", f.Stats.Clipped, "drawn", f.Stats.Drawn)
	return f, nil
}

// fail posts a message and returns err carrying the messages stored since
// the draw call started.
func (g *Graphics) fail(id int32, err error, format string, args ...any) error {
	g.queue.Post(gfxdebug.SeverityError, id, format, args...)
	return g.info.Wrap(fmt.Errorf("render: DrawIndexed: %w", err))
}

func (g *Graphics) checkMesh(m *kernel.Mesh) error {
	if m == nil {
		return g.fail(MsgIndexCount, ErrBadMesh, "DrawIndexed: nil mesh")
	}
	if len(m.Vertices)%3 != 0 {
		return g.fail(MsgIndexCount, ErrBadMesh, "DrawIndexed: vertex buffer length %d is not a multiple of 3", len(m.Vertices))
	}
	if len(m.Indices)%3 != 0 {
		return g.fail(MsgIndexCount, ErrBadMesh, "DrawIndexed: index count %d is not a multiple of 3", len(m.Indices))
	}
	if len(m.Normals) != len(m.Vertices) {
		return g.fail(MsgNormalCount, ErrBadMesh, "DrawIndexed: %d normal floats for %d vertex floats", len(m.Normals), len(m.Vertices))
	}
	n := uint32(m.VertexCount())
	for i, idx := range m.Indices {
		if idx >= n {
			return g.fail(MsgIndexOutOfRange, ErrBadMesh, "DrawIndexed: index %d at position %d exceeds vertex count %d", idx, i, n)
		}
	}
	return nil
}

// DrawIndexed transforms mesh by model, shades it with the bound light and
// material color, and queues its visible triangles.
func (g *Graphics) DrawIndexed(m *kernel.Mesh, model mgl32.Mat4, color mgl32.Vec3) error {
	return g.draw(m, model, color, true)
}

// DrawSolid is DrawIndexed without lighting; every vertex gets color.
func (g *Graphics) DrawSolid(m *kernel.Mesh, model mgl32.Mat4, color mgl32.Vec3) error {
	return g.draw(m, model, color, false)
}

func (g *Graphics) draw(m *kernel.Mesh, model mgl32.Mat4, color mgl32.Vec3, lit bool) error {
	g.info.Set()
	if !g.inFrame {
		return g.fail(MsgDrawOutsideFrame, ErrNotInFrame, "DrawIndexed: called outside BeginFrame/EndFrame")
	}
	if err := g.checkMesh(m); err != nil {
		return err
	}
	if model.Det() == 0 {
		return g.fail(MsgSingularModel, ErrBadMesh, "DrawIndexed: model transform is singular")
	}
	normalMat := model.Mat3().Inv().Transpose()
	viewProj := g.projection.Mul4(g.camera)

	type clipVertex struct {
		clip  mgl32.Vec4
		color mgl32.Vec3
	}
	verts := make([]clipVertex, m.VertexCount())
	for i := range verts {
		p := model.Mul4x1(mgl32.Vec4{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2], 1})
		n := normalMat.Mul3x1(mgl32.Vec3{m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2]})
		if n.Len() > 0 {
			n = n.Normalize()
		}
		verts[i] = clipVertex{clip: viewProj.Mul4x1(p), color: color}
		if lit {
			verts[i].color = g.light.Shade(p.Vec3(), n, color)
		}
	}

	hw, hh := float32(g.width)/2, float32(g.height)/2
	for t := 0; t+2 < len(m.Indices); t += 3 {
		g.frame.Stats.Submitted++
		var tri Triangle
		clipped := false
		for k := 0; k < 3; k++ {
			v := verts[m.Indices[t+k]]
			w := v.clip.W()
			if w < nearW || v.clip.Z() < 0 {
				clipped = true
				break
			}
			tri.V[k] = ScreenVertex{
				X:     (v.clip.X()/w + 1) * hw,
				Y:     (1 - v.clip.Y()/w) * hh,
				Z:     v.clip.Z() / w,
				Color: v.color,
			}
			tri.Depth += w / 3
		}
		if clipped {
			g.frame.Stats.Clipped++
			continue
		}
		if screenArea(tri.V) <= 0 {
			g.frame.Stats.Culled++
			continue
		}
		g.frame.Triangles = append(g.frame.Triangles, tri)
	}
	return nil
}

// screenArea is twice the signed area of a screen triangle; positive when
// the vertices run clockwise on screen.
func screenArea(v [3]ScreenVertex) float32 {
	return (v[1].X-v[0].X)*(v[2].Y-v[0].Y) - (v[2].X-v[0].X)*(v[1].Y-v[0].Y)
}
