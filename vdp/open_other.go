//go:build !(darwin || freebsd || linux || netbsd || windows)

package vdp

import (
	"fmt"
	"runtime"
)

func openLibrary(path string) (symbolResolver, error) {
	return nil, fmt.Errorf("dynamic modules are not supported on %s", runtime.GOOS)
}
