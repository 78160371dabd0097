//go:build (windows || linux || darwin) && (amd64 || arm64)

package gfxdebug

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// guid has the memory layout of a Windows GUID.
type guid struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

var (
	// DXGI_DEBUG_ALL selects messages from every producer.
	dxgiDebugAll = guid{0xe48ae283, 0xda80, 0x490b, [8]byte{0x87, 0xe6, 0x43, 0xe9, 0xa9, 0xcf, 0xda, 0x08}}
	// IID_IDXGIInfoQueue.
	iidInfoQueue = guid{0xd67441c7, 0x672a, 0x476f, [8]byte{0x9e, 0x82, 0xcd, 0x55, 0xb4, 0x49, 0x49, 0xce}}
)

// IDXGIInfoQueue vtable slots.
const (
	slotRelease              = 2
	slotGetMessage           = 5
	slotGetNumStoredMessages = 7
	numSlots                 = 8
)

// DXGI_INFO_QUEUE_MESSAGE field offsets on 64-bit targets.
const (
	offCategory    = 16
	offSeverity    = 20
	offID          = 24
	offDescription = 32
	offDescLength  = 40
	messageHeader  = 48
)

// comQueue is a Queue backed by an IDXGIInfoQueue COM object.
type comQueue struct {
	this uintptr
	vtbl *[numSlots]uintptr

	// unload frees the library the object came from.
	unload func() error
}

func newComQueue(this uintptr) *comQueue {
	return &comQueue{
		this: this,
		vtbl: *(**[numSlots]uintptr)(unsafe.Pointer(this)),
	}
}

func failed(hr uintptr) bool {
	return int32(uint32(hr)) < 0
}

// NumStoredMessages implements Queue.
func (q *comQueue) NumStoredMessages() uint64 {
	args := append([]uintptr{q.this}, guidArgs(&dxgiDebugAll)...)
	n, _, _ := purego.SyscallN(q.vtbl[slotGetNumStoredMessages], args...)
	return uint64(n)
}

// Message implements Queue. The first GetMessage call reports the size of
// message i, the second copies it.
func (q *comQueue) Message(i uint64) (Message, error) {
	var size uintptr
	call := func(buf unsafe.Pointer) uintptr {
		args := append([]uintptr{q.this}, guidArgs(&dxgiDebugAll)...)
		args = append(args, uintptr(i), uintptr(buf), uintptr(unsafe.Pointer(&size)))
		hr, _, _ := purego.SyscallN(q.vtbl[slotGetMessage], args...)
		return hr
	}

	if hr := call(nil); failed(hr) {
		return Message{}, fmt.Errorf("GetMessage size: HRESULT 0x%08x", uint32(hr))
	}
	if size < messageHeader {
		return Message{}, fmt.Errorf("GetMessage size: %d bytes is shorter than the message header", size)
	}
	buf := make([]byte, size)
	if hr := call(unsafe.Pointer(&buf[0])); failed(hr) {
		return Message{}, fmt.Errorf("GetMessage: HRESULT 0x%08x", uint32(hr))
	}
	msg := parseMessage(buf)
	runtime.KeepAlive(buf)
	return msg, nil
}

// parseMessage decodes a DXGI_INFO_QUEUE_MESSAGE. The description pointer
// refers into buf itself, after the header.
func parseMessage(buf []byte) Message {
	base := unsafe.Pointer(&buf[0])
	msg := Message{
		Severity: Severity(*(*int32)(unsafe.Add(base, offSeverity))),
		ID:       *(*int32)(unsafe.Add(base, offID)),
	}
	desc := *(**byte)(unsafe.Add(base, offDescription))
	n := *(*uintptr)(unsafe.Add(base, offDescLength))
	if desc != nil && n > 0 {
		s := unsafe.Slice(desc, n)
		// The length counts the terminating NUL.
		for len(s) > 0 && s[len(s)-1] == 0 {
			s = s[:len(s)-1]
		}
		msg.Description = string(s)
	}
	return msg
}

// Close releases the COM object, then unloads its library.
func (q *comQueue) Close() error {
	if q.this != 0 {
		purego.SyscallN(q.vtbl[slotRelease], q.this)
		q.this = 0
	}
	if q.unload != nil {
		unload := q.unload
		q.unload = nil
		if err := unload(); err != nil {
			return fmt.Errorf("gfxdebug: unload: %w", err)
		}
	}
	return nil
}

// getDebugInterface calls DXGIGetDebugInterface(IID_IDXGIInfoQueue, &out).
func getDebugInterface(proc uintptr) (*comQueue, error) {
	var out uintptr
	hr, _, _ := purego.SyscallN(proc, uintptr(unsafe.Pointer(&iidInfoQueue)), uintptr(unsafe.Pointer(&out)))
	if failed(hr) {
		return nil, fmt.Errorf("gfxdebug: DXGIGetDebugInterface: HRESULT 0x%08x", uint32(hr))
	}
	if out == 0 {
		return nil, fmt.Errorf("gfxdebug: DXGIGetDebugInterface returned no interface")
	}
	return newComQueue(out), nil
}
