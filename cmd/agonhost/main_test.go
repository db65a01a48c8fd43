package main

import (
	"fmt"
	"testing"

	"github.com/user-none/agonhost/standalone/storage"
)

func TestApplyFlagsOverrides(t *testing.T) {
	config := storage.DefaultConfig()
	args := &cli{
		VDP:          "build/vdp.so",
		SDCard:       "/tmp/sd",
		RamInit:      "zero",
		ClockHz:      20000000,
		Mode:         3,
		Fullscreen:   true,
		Mute:         true,
		VDPDebug:     true,
		CaptureMouse: true,
	}
	if err := applyFlags(config, args); err != nil {
		t.Fatalf("applyFlags: %v", err)
	}

	if config.VDP.ModulePath != "build/vdp.so" {
		t.Errorf("ModulePath = %q", config.VDP.ModulePath)
	}
	if config.VDP.StartupMode == nil || *config.VDP.StartupMode != 3 {
		t.Errorf("StartupMode = %v, want 3", config.VDP.StartupMode)
	}
	if config.Machine.SDCardDir != "/tmp/sd" || config.Machine.RamInit != "zero" || config.Machine.ClockHz != 20000000 {
		t.Errorf("machine = %+v", config.Machine)
	}
	if !config.Window.Fullscreen || !config.Audio.Muted || !config.VDP.DebugLogging || !config.Input.MouseCapture {
		t.Errorf("boolean flags not applied: %+v", config)
	}
}

func TestApplyFlagsKeepsConfigWhenUnset(t *testing.T) {
	config := storage.DefaultConfig()
	config.Machine.RamInit = "zero"
	if err := applyFlags(config, &cli{Mode: -1}); err != nil {
		t.Fatalf("applyFlags: %v", err)
	}
	if config.Machine.RamInit != "zero" {
		t.Errorf("RamInit = %q, want zero", config.Machine.RamInit)
	}
	if config.VDP.StartupMode != nil {
		t.Errorf("StartupMode = %d, want unset", *config.VDP.StartupMode)
	}
}

func TestApplyFlagsRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		args cli
	}{
		{"ram init", cli{Mode: -1, RamInit: "ones"}},
		{"clock", cli{Mode: -1, ClockHz: 1}},
		{"mode", cli{Mode: 1000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := applyFlags(storage.DefaultConfig(), &tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestApplyFlagsShaders(t *testing.T) {
	tests := []struct {
		name   string
		config []string
		flag   []string
		want   []string
	}{
		{"unset keeps config", []string{"crt"}, nil, []string{"crt"}},
		{"flag replaces config", []string{"crt"}, []string{"xbr", "scanlines"}, []string{"xbr", "scanlines"}},
		{"none clears", []string{"crt"}, []string{"none"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := storage.DefaultConfig()
			config.Shaders = tt.config
			if err := applyFlags(config, &cli{Mode: -1, Shader: tt.flag}); err != nil {
				t.Fatalf("applyFlags: %v", err)
			}
			if fmt.Sprint(config.Shaders) != fmt.Sprint(tt.want) {
				t.Errorf("shaders = %v, want %v", config.Shaders, tt.want)
			}
		})
	}
}

func TestApplyFlagsRejectsUnknownShader(t *testing.T) {
	if err := applyFlags(storage.DefaultConfig(), &cli{Mode: -1, Shader: []string{"ntsc"}}); err == nil {
		t.Error("expected error for unknown shader")
	}
}
