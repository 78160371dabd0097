package window

import "testing"

func TestMouseButtonsAndMove(t *testing.T) {
	m := NewMouse()
	m.OnMouseMove(10, 20)
	m.OnLeftPressed()
	if x, y := m.Pos(); x != 10 || y != 20 {
		t.Errorf("Pos() = (%d, %d), want (10, 20)", x, y)
	}
	if !m.LeftIsPressed() || m.RightIsPressed() {
		t.Error("button state wrong after left press")
	}

	e, _ := m.Read()
	if e.Type != MouseMove || e.X != 10 || e.Y != 20 {
		t.Errorf("first event = %+v, want move to (10, 20)", e)
	}
	e, _ = m.Read()
	if e.Type != MouseLPress || !e.LeftPressed {
		t.Errorf("second event = %+v, want left press", e)
	}
	if !m.IsEmpty() {
		t.Error("IsEmpty() = false after draining")
	}
}

func TestMouseWheelAccumulates(t *testing.T) {
	m := NewMouse()
	m.OnWheelDelta(60)
	if !m.IsEmpty() {
		t.Fatal("half a notch produced an event")
	}
	m.OnWheelDelta(60)
	m.OnWheelDelta(-240)

	var got []MouseEventType
	for {
		e, ok := m.Read()
		if !ok {
			break
		}
		got = append(got, e.Type)
	}
	want := []MouseEventType{MouseWheelUp, MouseWheelDown, MouseWheelDown}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMouseRawDeltas(t *testing.T) {
	m := NewMouse()
	m.OnRawDelta(5, 5)
	if _, ok := m.ReadRawDelta(); ok {
		t.Fatal("raw delta queued while raw input disabled")
	}

	m.EnableRaw()
	m.OnRawDelta(3, -4)
	m.OnRawDelta(1, 2)
	d, ok := m.ReadRawDelta()
	if !ok || d != (RawDelta{3, -4}) {
		t.Errorf("ReadRawDelta() = %+v, %v, want {3 -4}", d, ok)
	}
	m.Flush()
	if _, ok := m.ReadRawDelta(); ok {
		t.Error("Flush() left raw deltas")
	}
	m.DisableRaw()
	if m.RawEnabled() {
		t.Error("RawEnabled() = true after DisableRaw")
	}
}

func TestMouseEnterLeave(t *testing.T) {
	m := NewMouse()
	m.OnMouseEnter()
	if !m.IsInWindow() {
		t.Error("IsInWindow() = false after enter")
	}
	m.OnMouseLeave()
	if m.IsInWindow() {
		t.Error("IsInWindow() = true after leave")
	}
}
