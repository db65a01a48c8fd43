package vdp

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
	"github.com/tliron/commonlog"
	emucore "github.com/user-none/agonhost/api"
)

var log = commonlog.GetLogger("agonhost.vdp")

// DefaultModuleName is the module loaded when no path is configured.
const DefaultModuleName = "vdp_console8"

// Module is a bound module function table. It implements emucore.Peripheral.
// All fields are set once by Load and never modified.
type Module struct {
	path string

	setup             func()
	loop              func()
	signalVblank      func()
	copyFramebuffer   func(outWidth *uint32, outHeight *uint32, buffer *byte)
	startupScreenMode func(mode uint32)
	byteIn            func(b uint8)
	byteOut           func(out *uint8) bool
	keyboardEvent     func(ps2scancode uint16, isDown uint8)
	mouseEvent        func(packet *uint8)
	debugLogging      func(state bool)
	audioSamples      func(out *uint8, length uint32)
	dumpMemStats      func()
	shutdown          func()

	shutdownOnce sync.Once
}

var _ emucore.Peripheral = (*Module)(nil)

// LibraryExt returns the shared library extension for the host OS.
func LibraryExt() string {
	switch runtime.GOOS {
	case "darwin":
		return ".dylib"
	case "windows":
		return ".dll"
	default:
		return ".so"
	}
}

// DefaultPath returns vdp/<DefaultModuleName><ext> next to the executable,
// falling back to the working directory.
func DefaultPath() string {
	name := DefaultModuleName + LibraryExt()
	exe, err := os.Executable()
	if err != nil {
		return filepath.Join("vdp", name)
	}
	return filepath.Join(filepath.Dir(exe), "vdp", name)
}

// ResolvePath picks the module path: an explicit override relative to the
// working directory, or DefaultPath.
func ResolvePath(override string) string {
	if override == "" {
		return DefaultPath()
	}
	if filepath.IsAbs(override) {
		return override
	}
	return filepath.Join(".", override)
}

// Load opens the shared library at path and binds every required entry point.
// A missing symbol is reported as *MissingSymbolError. The library is never
// closed.
func Load(path string) (*Module, error) {
	log.Infof("VDP module: %s", path)

	lib, err := openLibrary(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vdp module %s: %w", path, err)
	}

	addrs, err := resolveSymbols(path, lib)
	if err != nil {
		return nil, err
	}

	m := &Module{path: path}
	m.bind(addrs)
	return m, nil
}

func (m *Module) bind(addrs map[string]uintptr) {
	purego.RegisterFunc(&m.setup, addrs[symSetup])
	purego.RegisterFunc(&m.loop, addrs[symLoop])
	purego.RegisterFunc(&m.signalVblank, addrs[symSignalVblank])
	purego.RegisterFunc(&m.copyFramebuffer, addrs[symCopyFramebuffer])
	purego.RegisterFunc(&m.startupScreenMode, addrs[symStartupScreenMode])
	purego.RegisterFunc(&m.byteIn, addrs[symByteIn])
	purego.RegisterFunc(&m.byteOut, addrs[symByteOut])
	purego.RegisterFunc(&m.keyboardEvent, addrs[symKeyboardEvent])
	purego.RegisterFunc(&m.mouseEvent, addrs[symMouseEvent])
	purego.RegisterFunc(&m.debugLogging, addrs[symDebugLogging])
	purego.RegisterFunc(&m.audioSamples, addrs[symAudioSamples])
	purego.RegisterFunc(&m.dumpMemStats, addrs[symDumpMemStats])
	purego.RegisterFunc(&m.shutdown, addrs[symShutdown])
}

// Path returns the file the module was loaded from.
func (m *Module) Path() string { return m.path }

func (m *Module) Setup()        { m.setup() }
func (m *Module) RunLoop()      { m.loop() }
func (m *Module) SignalVblank() { m.signalVblank() }

func (m *Module) ByteIn(b byte) { m.byteIn(b) }

func (m *Module) ByteOut() (byte, bool) {
	var b uint8
	if !m.byteOut(&b) {
		return 0, false
	}
	return b, true
}

// CopyFramebuffer hands buf to the module, which writes up to a full
// MaxFramebufferSize frame into it. buf must be at least that large.
func (m *Module) CopyFramebuffer(buf []byte) (width, height int) {
	if len(buf) < emucore.MaxFramebufferSize {
		return 0, 0
	}
	var w, h uint32
	m.copyFramebuffer(&w, &h, &buf[0])
	return int(w), int(h)
}

func (m *Module) CopyAudioSamples(buf []byte) {
	if len(buf) == 0 {
		return
	}
	m.audioSamples(&buf[0], uint32(len(buf)))
}

func (m *Module) InjectKeyboard(code uint16, down bool) {
	var d uint8
	if down {
		d = 1
	}
	m.keyboardEvent(code, d)
}

func (m *Module) InjectMouse(packet [emucore.MousePacketSize]byte) {
	m.mouseEvent(&packet[0])
}

func (m *Module) SetStartupScreenMode(mode uint32) { m.startupScreenMode(mode) }
func (m *Module) SetDebugLogging(on bool)          { m.debugLogging(on) }
func (m *Module) DumpMemoryStats()                 { m.dumpMemStats() }

func (m *Module) Shutdown() {
	m.shutdownOnce.Do(m.shutdown)
}
