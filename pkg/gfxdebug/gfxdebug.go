// Package gfxdebug collects diagnostic messages emitted by a graphics
// debug layer so they can be attached to the errors that caused them.
//
// An InfoManager watches a Queue. Call Set before a graphics operation and
// GetMessages after it fails; the messages stored in between describe the
// failure.
package gfxdebug

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Severity mirrors the debug layer's message severities, most severe first.
type Severity int

const (
	SeverityCorruption Severity = iota
	SeverityError
	SeverityWarning
	SeverityInfo
	SeverityMessage
)

func (s Severity) String() string {
	switch s {
	case SeverityCorruption:
		return "corruption"
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityMessage:
		return "message"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Message is one stored debug-layer message.
type Message struct {
	Severity    Severity
	ID          int32
	Description string
}

// Queue is a store of debug messages addressed by index. Indices run from 0
// to NumStoredMessages()-1.
type Queue interface {
	NumStoredMessages() uint64
	Message(i uint64) (Message, error)
}

// ErrEvicted is returned by MemQueue.Message for a message that was dropped
// to stay under the queue's limit.
var ErrEvicted = errors.New("gfxdebug: message evicted")

// InfoManager reports the messages a Queue stored since the last Set.
type InfoManager struct {
	q    Queue
	next uint64
}

// NewInfoManager returns a manager over q, marked at q's current end.
func NewInfoManager(q Queue) *InfoManager {
	m := &InfoManager{q: q}
	m.Set()
	return m
}

// Set marks the current end of the queue so that the next GetMessages only
// returns messages stored after this call.
func (m *InfoManager) Set() {
	m.next = m.q.NumStoredMessages()
}

// GetMessages returns the descriptions of the messages stored since the
// last Set, oldest first. Evicted messages are skipped.
func (m *InfoManager) GetMessages() ([]string, error) {
	end := m.q.NumStoredMessages()
	var out []string
	for i := m.next; i < end; i++ {
		msg, err := m.q.Message(i)
		if errors.Is(err, ErrEvicted) {
			continue
		}
		if err != nil {
			return out, fmt.Errorf("gfxdebug: get message %d: %w", i, err)
		}
		out = append(out, msg.Description)
	}
	return out, nil
}

// Wrap attaches the messages stored since the last Set to err. It returns
// nil for a nil err and err unchanged when there are no messages.
func (m *InfoManager) Wrap(err error) error {
	if err == nil {
		return nil
	}
	info, qerr := m.GetMessages()
	if qerr != nil {
		info = append(info, qerr.Error())
	}
	if len(info) == 0 {
		return err
	}
	return &InfoError{Err: err, Info: info}
}

// InfoError is an error together with the debug-layer messages that were
// stored while the failing operation ran.
type InfoError struct {
	Err  error
	Info []string
}

func (e *InfoError) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	if len(e.Info) > 0 {
		b.WriteString("\n[Error Info]")
		for _, s := range e.Info {
			b.WriteString("\n")
			b.WriteString(s)
		}
	}
	return b.String()
}

func (e *InfoError) Unwrap() error {
	return e.Err
}

// DefaultMessageLimit bounds a MemQueue created with a zero limit.
const DefaultMessageLimit = 1024

// MemQueue is an in-process Queue that the software renderer posts to. It
// keeps at most limit messages; older ones are evicted but keep their index.
type MemQueue struct {
	mu      sync.Mutex
	limit   int
	dropped uint64
	msgs    []Message
}

// NewMemQueue returns an empty queue holding at most limit messages.
func NewMemQueue(limit int) *MemQueue {
	if limit <= 0 {
		limit = DefaultMessageLimit
	}
	return &MemQueue{limit: limit}
}

// Post stores a message.
func (q *MemQueue) Post(sev Severity, id int32, format string, args ...any) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.msgs = append(q.msgs, Message{Severity: sev, ID: id, Description: fmt.Sprintf(format, args...)})
	if over := len(q.msgs) - q.limit; over > 0 {
		q.msgs = append(q.msgs[:0], q.msgs[over:]...)
		q.dropped += uint64(over)
	}
}

// NumStoredMessages returns the number of messages ever posted.
func (q *MemQueue) NumStoredMessages() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped + uint64(len(q.msgs))
}

// Message returns message i.
func (q *MemQueue) Message(i uint64) (Message, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if i < q.dropped {
		return Message{}, ErrEvicted
	}
	j := i - q.dropped
	if j >= uint64(len(q.msgs)) {
		return Message{}, fmt.Errorf("gfxdebug: message index %d out of range", i)
	}
	return q.msgs[j], nil
}

// Clear discards all stored messages. Indices keep counting up.
func (q *MemQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.dropped += uint64(len(q.msgs))
	q.msgs = q.msgs[:0]
}
