package storage

import (
	"encoding/json"
	"fmt"

	emucore "github.com/user-none/agonhost/api"
	"github.com/user-none/agonhost/standalone/shader"
)

// checkedKeys lists, per section, the keys whose absence should be filled
// from DefaultConfig. Only fields where a zero value is meaningful and
// differs from the default need to be here.
var checkedKeys = map[string][]string{
	"":           {"version", "shaders"},
	"machine":    {"ramInit", "clockHz", "sdcardDir"},
	"audio":      {"volume"},
	"window":     {"width", "height"},
	"screenshot": {"scale"},
}

// detectPresentKeys unmarshals JSON bytes to determine which config keys
// are explicitly present in the file. Returns a flat set of dotted-path keys
// (e.g., "audio.volume", "window.width").
func detectPresentKeys(jsonBytes []byte) map[string]bool {
	present := make(map[string]bool)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(jsonBytes, &raw); err != nil {
		return present
	}

	for section, keys := range checkedKeys {
		fields := raw
		if section != "" {
			sectionRaw, ok := raw[section]
			if !ok {
				continue
			}
			fields = nil
			if json.Unmarshal(sectionRaw, &fields) != nil {
				continue
			}
		}
		for _, k := range keys {
			if _, ok := fields[k]; !ok {
				continue
			}
			if section == "" {
				present[k] = true
			} else {
				present[section+"."+k] = true
			}
		}
	}

	return present
}

// ApplyMissingDefaults sets default values for config fields that are absent
// from the JSON file. Present fields keep their value even when zero
// (e.g., volume=0).
func ApplyMissingDefaults(config *Config, presentKeys map[string]bool) {
	defaults := DefaultConfig()

	if !presentKeys["version"] {
		config.Version = defaults.Version
	}
	if !presentKeys["machine.ramInit"] {
		config.Machine.RamInit = defaults.Machine.RamInit
	}
	if !presentKeys["machine.clockHz"] {
		config.Machine.ClockHz = defaults.Machine.ClockHz
	}
	if !presentKeys["machine.sdcardDir"] {
		config.Machine.SDCardDir = defaults.Machine.SDCardDir
	}
	if !presentKeys["audio.volume"] {
		config.Audio.Volume = defaults.Audio.Volume
	}
	if !presentKeys["window.width"] {
		config.Window.Width = defaults.Window.Width
	}
	if !presentKeys["window.height"] {
		config.Window.Height = defaults.Window.Height
	}
	if !presentKeys["screenshot.scale"] {
		config.Screenshot.Scale = defaults.Screenshot.Scale
	}
	if !presentKeys["shaders"] {
		config.Shaders = defaults.Shaders
	}
}

// ValidateConfig checks all config fields against valid ranges and returns
// human-readable error descriptions. An empty slice means the config is valid.
func ValidateConfig(config *Config) []string {
	var errors []string

	// version
	if config.Version != 1 {
		errors = append(errors, fmt.Sprintf("version: %d (valid: 1)", config.Version))
	}

	// vdp.startupMode
	if m := config.VDP.StartupMode; m != nil && (*m < 0 || *m > MaxStartupMode) {
		errors = append(errors, fmt.Sprintf("vdp.startupMode: %d (valid: 0-%d)", *m, MaxStartupMode))
	}

	// machine.ramInit
	if _, err := emucore.ParseRamInit(config.Machine.RamInit); err != nil {
		errors = append(errors, fmt.Sprintf("machine.ramInit: %q (valid: \"zero\", \"random\")", config.Machine.RamInit))
	}

	// machine.clockHz
	if config.Machine.ClockHz < MinClockHz || config.Machine.ClockHz > MaxClockHz {
		errors = append(errors, fmt.Sprintf("machine.clockHz: %d (valid: %d-%d)", config.Machine.ClockHz, MinClockHz, MaxClockHz))
	}

	// machine.sdcardDir
	if config.Machine.SDCardDir == "" {
		errors = append(errors, "machine.sdcardDir: empty")
	}

	// audio.volume
	if config.Audio.Volume < 0 || config.Audio.Volume > 2.0 {
		errors = append(errors, fmt.Sprintf("audio.volume: %.2f (valid: 0.0-2.0)", config.Audio.Volume))
	}

	// window.width
	if config.Window.Width < MinWindowWidth {
		errors = append(errors, fmt.Sprintf("window.width: %d (valid: >= %d)", config.Window.Width, MinWindowWidth))
	}

	// window.height
	if config.Window.Height < MinWindowHeight {
		errors = append(errors, fmt.Sprintf("window.height: %d (valid: >= %d)", config.Window.Height, MinWindowHeight))
	}

	// screenshot.scale
	if config.Screenshot.Scale < 1 || config.Screenshot.Scale > MaxScreenshot {
		errors = append(errors, fmt.Sprintf("screenshot.scale: %d (valid: 1-%d)", config.Screenshot.Scale, MaxScreenshot))
	}

	// shaders
	for _, id := range config.Shaders {
		if !shader.Known(id) {
			errors = append(errors, fmt.Sprintf("shaders: unknown effect %q", id))
		}
	}

	return errors
}

// CorrectConfig resets any invalid fields to their defaults from DefaultConfig().
// Valid fields are preserved.
func CorrectConfig(config *Config) *Config {
	defaults := DefaultConfig()

	if config.Version != 1 {
		config.Version = defaults.Version
	}

	if m := config.VDP.StartupMode; m != nil && (*m < 0 || *m > MaxStartupMode) {
		config.VDP.StartupMode = nil
	}

	if _, err := emucore.ParseRamInit(config.Machine.RamInit); err != nil {
		config.Machine.RamInit = defaults.Machine.RamInit
	}

	if config.Machine.ClockHz < MinClockHz || config.Machine.ClockHz > MaxClockHz {
		config.Machine.ClockHz = defaults.Machine.ClockHz
	}

	if config.Machine.SDCardDir == "" {
		config.Machine.SDCardDir = defaults.Machine.SDCardDir
	}

	if config.Audio.Volume < 0 || config.Audio.Volume > 2.0 {
		config.Audio.Volume = defaults.Audio.Volume
	}

	if config.Window.Width < MinWindowWidth {
		config.Window.Width = defaults.Window.Width
	}

	if config.Window.Height < MinWindowHeight {
		config.Window.Height = defaults.Window.Height
	}

	if config.Screenshot.Scale < 1 || config.Screenshot.Scale > MaxScreenshot {
		config.Screenshot.Scale = defaults.Screenshot.Scale
	}

	// Unknown effects are dropped, the rest keep their order
	known := make([]string, 0, len(config.Shaders))
	for _, id := range config.Shaders {
		if shader.Known(id) {
			known = append(known, id)
		}
	}
	config.Shaders = known

	return config
}
