// Package window holds the platform-independent input and cursor state of
// the demo window. A host (the ebiten game loop) feeds it raw input through
// the On* methods; the application reads it through the query methods.
package window

// KeyCode identifies a key. Letters and digits use their uppercase ASCII
// code; the named constants below cover the rest.
type KeyCode uint8

const (
	KeyBackspace KeyCode = 0x08
	KeyTab       KeyCode = 0x09
	KeyEnter     KeyCode = 0x0D
	KeyShift     KeyCode = 0x10
	KeyControl   KeyCode = 0x11
	KeyEscape    KeyCode = 0x1B
	KeySpace     KeyCode = 0x20
	KeyLeft      KeyCode = 0x25
	KeyUp        KeyCode = 0x26
	KeyRight     KeyCode = 0x27
	KeyDown      KeyCode = 0x28
	KeyF1        KeyCode = 0x70
	KeyF2        KeyCode = 0x71
	KeyF3        KeyCode = 0x72
)

// bufferSize bounds the key, char and mouse event queues. The oldest
// events are dropped first.
const bufferSize = 16

// KeyEventType is whether a key went down or up.
type KeyEventType int

const (
	KeyPress KeyEventType = iota
	KeyRelease
)

// KeyEvent is a single key transition.
type KeyEvent struct {
	Type KeyEventType
	Code KeyCode
}

func (e KeyEvent) IsPress() bool   { return e.Type == KeyPress }
func (e KeyEvent) IsRelease() bool { return e.Type == KeyRelease }

// Keyboard tracks which keys are down plus queues of key and character
// events.
type Keyboard struct {
	states     [256]bool
	keys       []KeyEvent
	chars      []rune
	autorepeat bool
}

// NewKeyboard returns a keyboard with autorepeat disabled.
func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

// KeyIsPressed reports whether code is currently held down.
func (k *Keyboard) KeyIsPressed(code KeyCode) bool {
	return k.states[code]
}

// ReadKey pops the oldest key event.
func (k *Keyboard) ReadKey() (KeyEvent, bool) {
	if len(k.keys) == 0 {
		return KeyEvent{}, false
	}
	e := k.keys[0]
	k.keys = k.keys[1:]
	return e, true
}

// KeyIsEmpty reports whether no key events are queued.
func (k *Keyboard) KeyIsEmpty() bool {
	return len(k.keys) == 0
}

// FlushKey discards queued key events.
func (k *Keyboard) FlushKey() {
	k.keys = nil
}

// ReadChar pops the oldest typed character.
func (k *Keyboard) ReadChar() (rune, bool) {
	if len(k.chars) == 0 {
		return 0, false
	}
	r := k.chars[0]
	k.chars = k.chars[1:]
	return r, true
}

// CharIsEmpty reports whether no characters are queued.
func (k *Keyboard) CharIsEmpty() bool {
	return len(k.chars) == 0
}

// FlushChar discards queued characters.
func (k *Keyboard) FlushChar() {
	k.chars = nil
}

// Flush discards queued key events and characters.
func (k *Keyboard) Flush() {
	k.FlushKey()
	k.FlushChar()
}

func (k *Keyboard) EnableAutorepeat()         { k.autorepeat = true }
func (k *Keyboard) DisableAutorepeat()        { k.autorepeat = false }
func (k *Keyboard) AutorepeatIsEnabled() bool { return k.autorepeat }

// OnKeyPressed records a key going down. A repeat press of a held key is
// only queued when autorepeat is enabled.
func (k *Keyboard) OnKeyPressed(code KeyCode) {
	if k.states[code] && !k.autorepeat {
		return
	}
	k.states[code] = true
	k.keys = trim(append(k.keys, KeyEvent{Type: KeyPress, Code: code}))
}

// OnKeyReleased records a key going up.
func (k *Keyboard) OnKeyReleased(code KeyCode) {
	k.states[code] = false
	k.keys = trim(append(k.keys, KeyEvent{Type: KeyRelease, Code: code}))
}

// OnChar records a typed character.
func (k *Keyboard) OnChar(r rune) {
	k.chars = trim(append(k.chars, r))
}

// ClearState releases every key without queuing events, as when the window
// loses focus.
func (k *Keyboard) ClearState() {
	k.states = [256]bool{}
}

// trim drops the oldest entries beyond bufferSize.
func trim[T any](q []T) []T {
	if over := len(q) - bufferSize; over > 0 {
		return q[over:]
	}
	return q
}
