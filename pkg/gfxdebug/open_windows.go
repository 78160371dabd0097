//go:build windows && (amd64 || arm64)

package gfxdebug

import (
	"fmt"
	"io"
	"unsafe"

	"golang.org/x/sys/windows"
)

// DefaultLibrary is the debug library loaded when Open gets an empty path.
const DefaultLibrary = "dxgidebug.dll"

// guidArgs passes a GUID by value. The Windows x64 ABI passes structs
// larger than 8 bytes by reference.
func guidArgs(g *guid) []uintptr {
	return []uintptr{uintptr(unsafe.Pointer(g))}
}

// Open loads the DXGI debug library and returns its info queue. An empty
// path loads DefaultLibrary from System32 only.
func Open(path string) (Queue, io.Closer, error) {
	flags := uintptr(0)
	if path == "" {
		path = DefaultLibrary
		flags = windows.LOAD_LIBRARY_SEARCH_SYSTEM32
	}
	mod, err := windows.LoadLibraryEx(path, 0, flags)
	if err != nil {
		return nil, nil, fmt.Errorf("gfxdebug: load %s: %w", path, err)
	}
	proc, err := windows.GetProcAddress(mod, "DXGIGetDebugInterface")
	if err != nil {
		windows.FreeLibrary(mod)
		return nil, nil, fmt.Errorf("gfxdebug: %s: %w", path, err)
	}
	q, err := getDebugInterface(proc)
	if err != nil {
		windows.FreeLibrary(mod)
		return nil, nil, err
	}
	q.unload = func() error { return windows.FreeLibrary(mod) }
	return q, q, nil
}
