package window

// wheelDelta is one notch of wheel travel.
const wheelDelta = 120

// MouseEventType enumerates mouse events.
type MouseEventType int

const (
	MouseLPress MouseEventType = iota
	MouseLRelease
	MouseRPress
	MouseRRelease
	MouseWheelUp
	MouseWheelDown
	MouseMove
	MouseEnter
	MouseLeave
)

// MouseEvent is a mouse transition with the button state after it.
type MouseEvent struct {
	Type         MouseEventType
	X, Y         int
	LeftPressed  bool
	RightPressed bool
}

// RawDelta is unaccelerated mouse motion, reported while raw input is on.
type RawDelta struct {
	X, Y int
}

// Mouse tracks pointer position, button state, an event queue and a queue
// of raw motion deltas.
type Mouse struct {
	x, y        int
	left, right bool
	inWindow    bool
	wheelCarry  int
	rawEnabled  bool
	events      []MouseEvent
	rawDeltas   []RawDelta
}

// NewMouse returns a mouse with raw input disabled.
func NewMouse() *Mouse {
	return &Mouse{}
}

func (m *Mouse) Pos() (x, y int)      { return m.x, m.y }
func (m *Mouse) LeftIsPressed() bool  { return m.left }
func (m *Mouse) RightIsPressed() bool { return m.right }
func (m *Mouse) IsInWindow() bool     { return m.inWindow }
func (m *Mouse) IsEmpty() bool        { return len(m.events) == 0 }

// Read pops the oldest mouse event.
func (m *Mouse) Read() (MouseEvent, bool) {
	if len(m.events) == 0 {
		return MouseEvent{}, false
	}
	e := m.events[0]
	m.events = m.events[1:]
	return e, true
}

// ReadRawDelta pops the oldest raw motion delta.
func (m *Mouse) ReadRawDelta() (RawDelta, bool) {
	if len(m.rawDeltas) == 0 {
		return RawDelta{}, false
	}
	d := m.rawDeltas[0]
	m.rawDeltas = m.rawDeltas[1:]
	return d, true
}

// Flush discards queued events and raw deltas.
func (m *Mouse) Flush() {
	m.events = nil
	m.rawDeltas = nil
}

func (m *Mouse) EnableRaw()       { m.rawEnabled = true }
func (m *Mouse) DisableRaw()      { m.rawEnabled = false }
func (m *Mouse) RawEnabled() bool { return m.rawEnabled }

func (m *Mouse) push(t MouseEventType) {
	m.events = trim(append(m.events, MouseEvent{
		Type: t, X: m.x, Y: m.y, LeftPressed: m.left, RightPressed: m.right,
	}))
}

// OnMouseMove records the pointer moving to (x, y).
func (m *Mouse) OnMouseMove(x, y int) {
	m.x, m.y = x, y
	m.push(MouseMove)
}

// OnMouseEnter and OnMouseLeave record the pointer crossing the window edge.
func (m *Mouse) OnMouseEnter() {
	m.inWindow = true
	m.push(MouseEnter)
}

func (m *Mouse) OnMouseLeave() {
	m.inWindow = false
	m.push(MouseLeave)
}

func (m *Mouse) OnLeftPressed()   { m.left = true; m.push(MouseLPress) }
func (m *Mouse) OnLeftReleased()  { m.left = false; m.push(MouseLRelease) }
func (m *Mouse) OnRightPressed()  { m.right = true; m.push(MouseRPress) }
func (m *Mouse) OnRightReleased() { m.right = false; m.push(MouseRRelease) }

// OnWheelDelta accumulates wheel travel and emits one event per full notch.
func (m *Mouse) OnWheelDelta(delta int) {
	m.wheelCarry += delta
	for m.wheelCarry >= wheelDelta {
		m.wheelCarry -= wheelDelta
		m.push(MouseWheelUp)
	}
	for m.wheelCarry <= -wheelDelta {
		m.wheelCarry += wheelDelta
		m.push(MouseWheelDown)
	}
}

// OnRawDelta queues raw motion. It is ignored while raw input is disabled.
func (m *Mouse) OnRawDelta(dx, dy int) {
	if !m.rawEnabled {
		return
	}
	m.rawDeltas = trim(append(m.rawDeltas, RawDelta{X: dx, Y: dy}))
}
