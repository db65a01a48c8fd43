//go:build windows

package vdp

import "syscall"

type dllLibrary struct {
	handle syscall.Handle
}

func openLibrary(path string) (symbolResolver, error) {
	handle, err := syscall.LoadLibrary(path)
	if err != nil {
		return nil, err
	}
	return &dllLibrary{handle: handle}, nil
}

func (l *dllLibrary) Lookup(name string) (uintptr, error) {
	return syscall.GetProcAddress(l.handle, name)
}
