//go:build (linux || darwin) && (amd64 || arm64)

package gfxdebug

import (
	"errors"
	"fmt"
	"io"
	"unsafe"

	"github.com/ebitengine/purego"
)

// DefaultLibrary is empty: there is no system debug layer, so a library
// exporting DXGIGetDebugInterface must be configured.
const DefaultLibrary = ""

// guidArgs passes a GUID by value. The System V and AAPCS64 ABIs pass a
// 16-byte integer struct in two registers.
func guidArgs(g *guid) []uintptr {
	w := (*[2]uintptr)(unsafe.Pointer(g))
	return []uintptr{w[0], w[1]}
}

// Open loads a library exporting DXGIGetDebugInterface, such as a native
// DXVK build, and returns its info queue.
func Open(path string) (Queue, io.Closer, error) {
	if path == "" {
		return nil, nil, errors.New("gfxdebug: no debug library configured")
	}
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, nil, fmt.Errorf("gfxdebug: load %s: %w", path, err)
	}
	proc, err := purego.Dlsym(lib, "DXGIGetDebugInterface")
	if err != nil {
		purego.Dlclose(lib)
		return nil, nil, fmt.Errorf("gfxdebug: %s: %w", path, err)
	}
	q, err := getDebugInterface(proc)
	if err != nil {
		purego.Dlclose(lib)
		return nil, nil, err
	}
	q.unload = func() error { return purego.Dlclose(lib) }
	return q, q, nil
}
