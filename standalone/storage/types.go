package storage

import emucore "github.com/user-none/agonhost/api"

// Config represents the application configuration stored in config.json
type Config struct {
	Version    int              `json:"version"`
	VDP        VDPConfig        `json:"vdp"`
	Machine    MachineConfig    `json:"machine"`
	Audio      AudioConfig      `json:"audio"`
	Window     WindowConfig     `json:"window"`
	Input      InputConfig      `json:"input"`
	Screenshot ScreenshotConfig `json:"screenshot"`
	Shaders    []string         `json:"shaders"` // display effect IDs, see shader.AvailableShaders
}

// VDPConfig selects and configures the peripheral module
type VDPConfig struct {
	ModulePath   string `json:"modulePath,omitempty"`  // "" = vdp/vdp_console8 next to the executable
	StartupMode  *int   `json:"startupMode,omitempty"` // nil = module default
	DebugLogging bool   `json:"debugLogging"`
}

// MachineConfig is passed through to the execution collaborator
type MachineConfig struct {
	RamInit   string `json:"ramInit"` // "zero" or "random"
	ClockHz   uint32 `json:"clockHz"`
	SDCardDir string `json:"sdcardDir"`
	Firmware  string `json:"firmware,omitempty"` // path to MOS image or archive
}

// AudioConfig contains audio-related settings
type AudioConfig struct {
	Volume float64 `json:"volume"`
	Muted  bool    `json:"muted"`
}

// WindowConfig contains window position and size
type WindowConfig struct {
	Width      int  `json:"width"`
	Height     int  `json:"height"`
	X          *int `json:"x,omitempty"` // nil = OS decides position
	Y          *int `json:"y,omitempty"`
	Fullscreen bool `json:"fullscreen"`
}

// InputConfig contains host input settings
type InputConfig struct {
	MouseCapture bool `json:"mouseCapture"` // forward host mouse to the module
}

// ScreenshotConfig controls RAlt+S captures
type ScreenshotConfig struct {
	Scale int `json:"scale"` // integer upscale factor, 1-8
}

// Limits used by validation.
const (
	MinWindowWidth  = 320
	MinWindowHeight = 240
	MinClockHz      = 1_000_000
	MaxClockHz      = 100_000_000
	MaxScreenshot   = 8
	MaxStartupMode  = 255
)

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Machine: MachineConfig{
			RamInit:   emucore.RamRandom.String(),
			ClockHz:   emucore.DefaultClockHz,
			SDCardDir: "sdcard",
		},
		Audio: AudioConfig{
			Volume: 1.0,
			Muted:  false,
		},
		Window: WindowConfig{
			Width:  emucore.InitialScreenWidth * 2,
			Height: emucore.InitialScreenHeight * 2,
			X:      nil,
			Y:      nil,
		},
		Screenshot: ScreenshotConfig{
			Scale: 1,
		},
		Shaders: []string{},
	}
}
