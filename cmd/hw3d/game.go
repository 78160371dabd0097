package main

import (
	"errors"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"time"

	"github.com/chazu/hw3d/pkg/demo"
	"github.com/chazu/hw3d/pkg/gfxdebug"
	"github.com/chazu/hw3d/pkg/render"
	"github.com/chazu/hw3d/pkg/window"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// keyMap binds the ebiten keys the demo cares about to window key codes.
var keyMap = []struct {
	ebiten ebiten.Key
	code   window.KeyCode
}{
	{ebiten.KeyA, 'A'}, {ebiten.KeyB, 'B'}, {ebiten.KeyC, 'C'}, {ebiten.KeyD, 'D'},
	{ebiten.KeyE, 'E'}, {ebiten.KeyF, 'F'}, {ebiten.KeyG, 'G'}, {ebiten.KeyH, 'H'},
	{ebiten.KeyI, 'I'}, {ebiten.KeyJ, 'J'}, {ebiten.KeyK, 'K'}, {ebiten.KeyL, 'L'},
	{ebiten.KeyM, 'M'}, {ebiten.KeyN, 'N'}, {ebiten.KeyO, 'O'}, {ebiten.KeyP, 'P'},
	{ebiten.KeyQ, 'Q'}, {ebiten.KeyR, 'R'}, {ebiten.KeyS, 'S'}, {ebiten.KeyT, 'T'},
	{ebiten.KeyU, 'U'}, {ebiten.KeyV, 'V'}, {ebiten.KeyW, 'W'}, {ebiten.KeyX, 'X'},
	{ebiten.KeyY, 'Y'}, {ebiten.KeyZ, 'Z'},
	{ebiten.KeyEscape, window.KeyEscape},
	{ebiten.KeySpace, window.KeySpace},
	{ebiten.KeyEnter, window.KeyEnter},
	{ebiten.KeyTab, window.KeyTab},
	{ebiten.KeyBackspace, window.KeyBackspace},
	{ebiten.KeyShiftLeft, window.KeyShift},
	{ebiten.KeyControlLeft, window.KeyControl},
	{ebiten.KeyArrowLeft, window.KeyLeft},
	{ebiten.KeyArrowUp, window.KeyUp},
	{ebiten.KeyArrowRight, window.KeyRight},
	{ebiten.KeyArrowDown, window.KeyDown},
	{ebiten.KeyF1, window.KeyF1},
	{ebiten.KeyF2, window.KeyF2},
	{ebiten.KeyF3, window.KeyF3},
}

// maxBatchVertices keeps each DrawTriangles call within 16-bit indices.
const maxBatchVertices = 65535 / 3 * 3

var whiteSubImage = func() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}()

// game drives demo.App from the ebiten loop and implements window.Host.
type game struct {
	wnd    *window.Window
	gfx    *render.Graphics
	app    *demo.App
	native *gfxdebug.InfoManager

	last       time.Time
	mx, my     int
	haveCursor bool
	focused    bool
	frame      render.Frame
	verts      []ebiten.Vertex
	indices    []uint16
}

func (g *game) SetCursorCaptured(captured bool) {
	if captured {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	}
	g.haveCursor = false
}

func (g *game) SetTitle(title string) {
	ebiten.SetWindowTitle(title)
}

func (g *game) pollKeys() {
	kbd := g.wnd.Kbd
	for _, k := range keyMap {
		if inpututil.IsKeyJustPressed(k.ebiten) {
			kbd.OnKeyPressed(k.code)
		}
		if inpututil.IsKeyJustReleased(k.ebiten) {
			kbd.OnKeyReleased(k.code)
		}
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		kbd.OnChar(r)
	}
}

func (g *game) pollMouse() {
	m := g.wnd.Mouse
	x, y := ebiten.CursorPosition()
	if g.haveCursor && (x != g.mx || y != g.my) {
		m.OnRawDelta(x-g.mx, y-g.my)
		m.OnMouseMove(x, y)
	}
	g.mx, g.my, g.haveCursor = x, y, true

	w, h := g.wnd.Size()
	in := x >= 0 && y >= 0 && x < w && y < h
	if in && !m.IsInWindow() {
		m.OnMouseEnter()
	} else if !in && m.IsInWindow() {
		m.OnMouseLeave()
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		m.OnLeftPressed()
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		m.OnLeftReleased()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		m.OnRightPressed()
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight) {
		m.OnRightReleased()
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		m.OnWheelDelta(int(dy * 120))
	}
}

func (g *game) drainNative() {
	if g.native == nil {
		return
	}
	msgs, err := g.native.GetMessages()
	if err != nil {
		slog.Warn("debug layer", "error", err)
	}
	for _, msg := range msgs {
		slog.Debug("debug layer", "message", msg)
	}
	g.native.Set()
}

func (g *game) Update() error {
	focused := ebiten.IsFocused()
	if g.focused && !focused {
		g.wnd.OnFocusLost()
	}
	g.focused = focused

	g.pollKeys()
	g.pollMouse()

	now := time.Now()
	var dt float32
	if !g.last.IsZero() {
		dt = float32(now.Sub(g.last).Seconds())
	}
	g.last = now

	f, err := g.app.DoFrame(dt)
	g.drainNative()
	var ie *gfxdebug.InfoError
	if errors.As(err, &ie) {
		slog.Error("draw failed", "error", ie.Err, "info", strings.Join(ie.Info, "; "))
	} else if err != nil {
		return err
	}
	g.frame = f
	return nil
}

func channel(v float32) float32 {
	return min(max(v, 0), 1)
}

func (g *game) Draw(screen *ebiten.Image) {
	f := g.frame
	screen.Fill(color.RGBA{
		R: uint8(channel(f.Clear[0]) * 255),
		G: uint8(channel(f.Clear[1]) * 255),
		B: uint8(channel(f.Clear[2]) * 255),
		A: 255,
	})

	g.verts, g.indices = g.verts[:0], g.indices[:0]
	flush := func() {
		if len(g.verts) == 0 {
			return
		}
		screen.DrawTriangles(g.verts, g.indices, whiteSubImage, nil)
		g.verts, g.indices = g.verts[:0], g.indices[:0]
	}
	for _, tri := range f.Triangles {
		if len(g.verts)+3 > maxBatchVertices {
			flush()
		}
		for _, v := range tri.V {
			g.indices = append(g.indices, uint16(len(g.verts)))
			g.verts = append(g.verts, ebiten.Vertex{
				DstX: v.X, DstY: v.Y,
				SrcX: 1, SrcY: 1,
				ColorR: v.Color[0], ColorG: v.Color[1], ColorB: v.Color[2], ColorA: 1,
			})
		}
	}
	flush()

	ebitenutil.DebugPrint(screen, strings.Join(g.app.Overlay(), "\n"))
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if w, h := g.wnd.Size(); w != outsideWidth || h != outsideHeight {
		g.wnd.SetSize(outsideWidth, outsideHeight)
		g.gfx.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
