// Command agonhost runs the Agon Light host: it loads the VDP module, starts
// the execution, relay and peripheral threads, and presents the display.
package main

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"github.com/user-none/agonhost/machine/console"
	"github.com/user-none/agonhost/standalone"
	"github.com/user-none/agonhost/standalone/storage"
)

const dataDirName = "agonhost"

var log = commonlog.GetLogger("agonhost.main")

type cli struct {
	VDP          string   `name:"vdp" type:"path" help:"VDP module shared library."`
	Firmware     string   `type:"existingfile" help:"MOS firmware image (.bin, .zip, .7z or .rar)."`
	SDCard       string   `name:"sdcard" type:"path" help:"Root directory of the emulated SD card."`
	RamInit      string   `name:"ram-init" help:"RAM contents at power on: zero or random."`
	ClockHz      uint32   `name:"clock-hz" help:"CPU clock in Hz."`
	Mode         int      `default:"-1" help:"Screen mode to start in."`
	Fullscreen   bool     `help:"Start fullscreen."`
	Mute         bool     `help:"Disable audio."`
	VDPDebug     bool     `name:"vdp-debug" help:"Enable VDP debug logging."`
	CaptureMouse bool     `name:"capture-mouse" help:"Capture the mouse pointer."`
	Shader       []string `name:"shader" sep:"," help:"Display effects, e.g. crt,scanlines or xbr (repeatable); none disables them."`
	ResetConfig  bool     `name:"reset-config" help:"Delete config.json before loading."`
	Verbose      int      `short:"v" type:"counter" help:"Increase log verbosity (repeatable)."`
}

func main() {
	var args cli
	kong.Parse(&args,
		kong.Name("agonhost"),
		kong.Description("Agon Light emulator host."),
		kong.UsageOnError(),
	)

	commonlog.Configure(args.Verbose, nil)

	opts, err := loadOptions(&args)
	if err != nil {
		standalone.Fatal(err)
	}

	if err := standalone.Run(console.New(), opts); err != nil {
		standalone.Fatal(err)
	}
}

func loadOptions(args *cli) (standalone.Options, error) {
	opts := standalone.Options{Verbosity: args.Verbose, PersistWindow: true}

	storage.Init(dataDirName)
	if err := storage.EnsureDirectories(); err != nil {
		log.Warningf("data directory unavailable: %s", err)
		opts.PersistWindow = false
	}

	if args.ResetConfig {
		if err := storage.DeleteConfig(); err != nil {
			return opts, fmt.Errorf("failed to reset config: %w", err)
		}
		log.Notice("config reset to defaults")
	}

	if opts.PersistWindow {
		if err := storage.CreateConfigIfMissing(); err != nil {
			log.Warningf("failed to write default config: %s", err)
		}
	}

	config, err := storage.LoadValidConfig()
	if err != nil {
		log.Warningf("failed to load config, using defaults: %s", err)
		config = storage.DefaultConfig()
		opts.PersistWindow = false
	}

	if err := applyFlags(config, args); err != nil {
		return opts, err
	}
	opts.Config = config
	return opts, nil
}

// applyFlags overrides config with every flag that was set and rejects
// out-of-range values.
func applyFlags(config *storage.Config, args *cli) error {
	if args.VDP != "" {
		config.VDP.ModulePath = args.VDP
	}
	if args.Mode >= 0 {
		mode := args.Mode
		config.VDP.StartupMode = &mode
	}
	if args.VDPDebug {
		config.VDP.DebugLogging = true
	}
	if args.Firmware != "" {
		config.Machine.Firmware = args.Firmware
	}
	if args.SDCard != "" {
		config.Machine.SDCardDir = args.SDCard
	}
	if args.RamInit != "" {
		config.Machine.RamInit = args.RamInit
	}
	if args.ClockHz != 0 {
		config.Machine.ClockHz = args.ClockHz
	}
	if args.Fullscreen {
		config.Window.Fullscreen = true
	}
	if args.Mute {
		config.Audio.Muted = true
	}
	if args.CaptureMouse {
		config.Input.MouseCapture = true
	}
	if len(args.Shader) > 0 {
		config.Shaders = []string{}
		for _, id := range args.Shader {
			if id != "none" {
				config.Shaders = append(config.Shaders, id)
			}
		}
	}

	if msgs := storage.ValidateConfig(config); len(msgs) > 0 {
		return fmt.Errorf("invalid option: %s", strings.Join(msgs, "; "))
	}
	return nil
}
