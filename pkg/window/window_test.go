package window

import "testing"

type fakeHost struct {
	captured bool
	title    string
	calls    int
}

func (h *fakeHost) SetCursorCaptured(c bool) { h.captured = c; h.calls++ }
func (h *fakeHost) SetTitle(t string)        { h.title = t }

func TestWindowCursor(t *testing.T) {
	h := &fakeHost{}
	w := New(1280, 720, "hw3d", h)
	if !w.CursorEnabled() {
		t.Fatal("new window has cursor disabled")
	}
	if h.title != "hw3d" {
		t.Errorf("host title = %q, want %q", h.title, "hw3d")
	}

	w.DisableCursor()
	if w.CursorEnabled() || !h.captured {
		t.Error("DisableCursor did not capture the cursor")
	}
	w.EnableCursor()
	if !w.CursorEnabled() || h.captured {
		t.Error("EnableCursor did not release the cursor")
	}
	if h.calls != 2 {
		t.Errorf("host saw %d cursor calls, want 2", h.calls)
	}
}

func TestWindowWithoutHost(t *testing.T) {
	w := New(640, 480, "headless", nil)
	w.DisableCursor()
	w.SetTitle("renamed")
	w.SetSize(800, 600)
	if w.Title() != "renamed" {
		t.Errorf("Title() = %q, want %q", w.Title(), "renamed")
	}
	if width, height := w.Size(); width != 800 || height != 600 {
		t.Errorf("Size() = %dx%d, want 800x600", width, height)
	}
}

func TestWindowFocusLost(t *testing.T) {
	w := New(1, 1, "", nil)
	w.Kbd.OnKeyPressed('R')
	w.OnFocusLost()
	if w.Kbd.KeyIsPressed('R') {
		t.Error("key still held after focus loss")
	}
}
