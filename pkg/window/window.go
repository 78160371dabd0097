package window

// Host is implemented by the windowing backend.
type Host interface {
	// SetCursorCaptured hides and confines the cursor when true, and
	// restores it when false.
	SetCursorCaptured(captured bool)
	SetTitle(title string)
}

// Window owns the keyboard and mouse state and the cursor mode.
type Window struct {
	Kbd   *Keyboard
	Mouse *Mouse

	width, height int
	title         string
	cursorEnabled bool
	host          Host
}

// New returns a window with the cursor enabled. host may be nil.
func New(width, height int, title string, host Host) *Window {
	w := &Window{
		Kbd:           NewKeyboard(),
		Mouse:         NewMouse(),
		width:         width,
		height:        height,
		title:         title,
		cursorEnabled: true,
		host:          host,
	}
	if host != nil {
		host.SetTitle(title)
	}
	return w
}

func (w *Window) Size() (width, height int) { return w.width, w.height }
func (w *Window) Title() string             { return w.title }

// SetSize records a new client size.
func (w *Window) SetSize(width, height int) {
	w.width, w.height = width, height
}

// SetTitle changes the window title.
func (w *Window) SetTitle(title string) {
	w.title = title
	if w.host != nil {
		w.host.SetTitle(title)
	}
}

// EnableCursor shows and frees the cursor.
func (w *Window) EnableCursor() {
	w.cursorEnabled = true
	if w.host != nil {
		w.host.SetCursorCaptured(false)
	}
}

// DisableCursor hides the cursor and confines it to the window.
func (w *Window) DisableCursor() {
	w.cursorEnabled = false
	if w.host != nil {
		w.host.SetCursorCaptured(true)
	}
}

func (w *Window) CursorEnabled() bool { return w.cursorEnabled }

// OnFocusLost releases all keys so none stay stuck down.
func (w *Window) OnFocusLost() {
	w.Kbd.ClearState()
}
