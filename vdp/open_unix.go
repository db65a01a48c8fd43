//go:build darwin || freebsd || linux || netbsd

package vdp

import "github.com/ebitengine/purego"

type dlLibrary struct {
	handle uintptr
}

func openLibrary(path string) (symbolResolver, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, err
	}
	return &dlLibrary{handle: handle}, nil
}

func (l *dlLibrary) Lookup(name string) (uintptr, error) {
	return purego.Dlsym(l.handle, name)
}
