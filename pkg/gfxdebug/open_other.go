//go:build !((windows || linux || darwin) && (amd64 || arm64))

package gfxdebug

import (
	"errors"
	"io"
)

// DefaultLibrary is empty: no native debug layer is supported here.
const DefaultLibrary = ""

// Open always fails on this platform.
func Open(path string) (Queue, io.Closer, error) {
	return nil, nil, errors.New("gfxdebug: native debug layer not supported on this platform")
}
