package emucore

import "time"

// Fixed properties of the emulated system and its presentation.
const (
	// DefaultClockHz is the eZ80 clock of the Agon Light.
	DefaultClockHz = 18_432_000

	// MaxScreenWidth and MaxScreenHeight bound any mode the module may report.
	MaxScreenWidth  = 1024
	MaxScreenHeight = 1024

	// BytesPerPixel of the module's framebuffer (packed RGB24).
	BytesPerPixel = 3

	// MaxFramebufferSize is the staging buffer size.
	MaxFramebufferSize = MaxScreenWidth * MaxScreenHeight * BytesPerPixel

	// InitialScreenWidth and InitialScreenHeight are assumed until the
	// module reports otherwise.
	InitialScreenWidth  = 640
	InitialScreenHeight = 480

	// AudioSampleRate of the samples returned by CopyAudioSamples.
	AudioSampleRate = 16384

	// DisplayAspectRatio is the monitor shape every mode is stretched to.
	DisplayAspectRatio = 4.0 / 3.0
)

// Frame timing. Assumes a 60 Hz video mode.
const (
	FrameInterval  = 16666 * time.Microsecond
	DriftThreshold = 100 * time.Millisecond
)

// FramebufferLen returns the byte length of an RGB24 frame of the given size.
func FramebufferLen(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	return width * height * BytesPerPixel
}
