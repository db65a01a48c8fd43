// Package vdp binds a video/peripheral controller module loaded from a shared
// library at runtime.
package vdp

import "fmt"

// Symbol names every module must export.
const (
	symSetup             = "vdp_setup"
	symLoop              = "vdp_loop"
	symSignalVblank      = "signal_vblank"
	symCopyFramebuffer   = "copyVgaFramebuffer"
	symStartupScreenMode = "set_startup_screen_mode"
	symByteIn            = "z80_send_to_vdp"
	symByteOut           = "z80_recv_from_vdp"
	symKeyboardEvent     = "sendHostKbEventToFabgl"
	symMouseEvent        = "sendHostMouseEventToFabgl"
	symDebugLogging      = "setVdpDebugLogging"
	symAudioSamples      = "getAudioSamples"
	symDumpMemStats      = "dump_vdp_mem_stats"
	symShutdown          = "vdp_shutdown"
)

// RequiredSymbols lists the module entry points in binding order.
var RequiredSymbols = []string{
	symSetup,
	symLoop,
	symSignalVblank,
	symCopyFramebuffer,
	symStartupScreenMode,
	symByteIn,
	symByteOut,
	symKeyboardEvent,
	symMouseEvent,
	symDebugLogging,
	symAudioSamples,
	symDumpMemStats,
	symShutdown,
}

// MissingSymbolError reports an entry point the module does not export.
type MissingSymbolError struct {
	Path   string
	Symbol string
	Err    error
}

func (e *MissingSymbolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vdp module %s: missing symbol %s: %v", e.Path, e.Symbol, e.Err)
	}
	return fmt.Sprintf("vdp module %s: missing symbol %s", e.Path, e.Symbol)
}

func (e *MissingSymbolError) Unwrap() error {
	return e.Err
}

// symbolResolver looks up exported symbols in an opened library.
type symbolResolver interface {
	Lookup(name string) (uintptr, error)
}

// resolveSymbols looks up every required symbol and fails on the first one
// that is absent.
func resolveSymbols(path string, r symbolResolver) (map[string]uintptr, error) {
	addrs := make(map[string]uintptr, len(RequiredSymbols))
	for _, name := range RequiredSymbols {
		addr, err := r.Lookup(name)
		if err != nil {
			return nil, &MissingSymbolError{Path: path, Symbol: name, Err: err}
		}
		if addr == 0 {
			return nil, &MissingSymbolError{Path: path, Symbol: name}
		}
		addrs[name] = addr
	}
	return addrs, nil
}
