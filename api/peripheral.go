package emucore

import "github.com/user-none/agonhost/link"

// MousePacketSize is the length of a PS/2 IntelliMouse packet.
const MousePacketSize = 4

// Peripheral is the function table of a video/peripheral controller module.
// Entry points are bound once at startup and never change. Each method notes
// the thread it may be called from; calling the presentation-only methods
// from anywhere else is undefined behavior for the module.
type Peripheral interface {
	link.BytePort

	// Setup initialises the module. Called once, on the peripheral thread.
	Setup()

	// RunLoop runs the module's own loop on the peripheral thread.
	// It does not return during normal operation.
	RunLoop()

	// SignalVblank notifies the module of a frame boundary.
	// Presentation thread.
	SignalVblank()

	// CopyFramebuffer writes the current mode and RGB24 pixels into buf.
	// Presentation thread only.
	CopyFramebuffer(buf []byte) (width, height int)

	// CopyAudioSamples fills buf with unsigned 8-bit mono samples.
	// Audio thread.
	CopyAudioSamples(buf []byte)

	// InjectKeyboard forwards a PS/2 set-2 scancode press or release.
	// Presentation thread only.
	InjectKeyboard(code uint16, down bool)

	// InjectMouse forwards one PS/2 mouse packet. Presentation thread only.
	InjectMouse(packet [MousePacketSize]byte)

	// SetStartupScreenMode selects the video mode shown at boot.
	// Must be called before Setup.
	SetStartupScreenMode(mode uint32)

	// SetDebugLogging toggles the module's own diagnostics.
	SetDebugLogging(on bool)

	// DumpMemoryStats prints the module's allocator statistics.
	DumpMemoryStats()

	// Shutdown stops the module. Only the first call has any effect.
	Shutdown()
}
