package standalone

import (
	"errors"
	"fmt"
	"io"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tliron/commonlog"
	emucore "github.com/user-none/agonhost/api"
	"github.com/user-none/agonhost/firmware"
	"github.com/user-none/agonhost/standalone/storage"
	"github.com/user-none/agonhost/vdp"
)

var log = commonlog.GetLogger("agonhost.host")

// Options configure Run.
type Options struct {
	// Config is the effective configuration, CLI overrides already applied.
	Config *storage.Config
	// Verbosity is the -v count. At 2 or more the module's memory stats are
	// dumped at shutdown.
	Verbosity int
	// PersistWindow saves window geometry to config.json on exit.
	PersistWindow bool
}

// Run binds the VDP module, starts the execution, relay and peripheral
// threads, and runs the presentation loop on the calling goroutine, which
// must be the main one. It returns after the user quits, or with the error
// of a failed worker once the host has shut down.
func Run(machine emucore.Machine, opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = storage.DefaultConfig()
	}

	ramInit, err := emucore.ParseRamInit(cfg.Machine.RamInit)
	if err != nil {
		return err
	}

	sdcard, err := storage.ResolveSDCardDir(cfg.Machine.SDCardDir)
	if err != nil {
		return err
	}
	firmwarePath, err := storage.ResolveFirmwarePath(cfg.Machine.Firmware)
	if err != nil {
		return err
	}

	var mos []byte
	if firmwarePath != "" {
		img, err := firmware.Load(firmwarePath)
		if err != nil {
			return fmt.Errorf("failed to load firmware: %w", err)
		}
		log.Infof("MOS firmware: %s (%d bytes)", img.Name, len(img.Data))
		mos = img.Data
	}

	module, err := vdp.Load(vdp.ResolvePath(cfg.VDP.ModulePath))
	if err != nil {
		return err
	}
	if cfg.VDP.StartupMode != nil {
		module.SetStartupScreenMode(uint32(*cfg.VDP.StartupMode))
	}
	module.SetDebugLogging(cfg.VDP.DebugLogging)

	fab := NewFabric()
	StartWorkers(fab, Workers{
		Machine:    machine,
		Peripheral: module,
		Config: emucore.MachineConfig{
			RamInit:     ramInit,
			ClockHz:     cfg.Machine.ClockHz,
			StorageRoot: sdcard,
			Firmware:    mos,
		},
	})

	var audioPlayer *AudioPlayer
	if !cfg.Audio.Muted {
		audioPlayer, err = NewAudioPlayer(module, cfg.Audio.Volume)
		if err != nil {
			log.Warningf("audio initialization failed: %s", err)
		}
	}

	renderer := NewFramebufferRenderer(cfg.Shaders)
	presenter := NewPresenter(PresenterConfig{
		Display:    module,
		Surface:    renderer,
		Events:     NewInputManager(cfg.Input.MouseCapture),
		Vsync:      fab.Vsync,
		Fullscreen: cfg.Window.Fullscreen,
		Warmup:     DefaultWarmup,
		Screenshot: screenshotFunc(cfg.Screenshot.Scale),
		Clipboard:  readClipboard,
	})
	app := newApp(presenter, renderer, fab.Err)

	configureWindow(cfg)
	if cfg.Input.MouseCapture {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	}

	err = ebiten.RunGame(app)
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}
	log.Infof("presentation finished after %d frames", presenter.Frames())

	if opts.Verbosity >= 2 {
		module.DumpMemoryStats()
	}
	module.Shutdown()

	if audioPlayer != nil {
		audioPlayer.Close()
	}
	if c, ok := machine.(io.Closer); ok {
		c.Close()
	}
	if opts.PersistWindow {
		app.saveWindowState()
	}
	return err
}

// screenshotFunc saves frames into the data directory's screenshots folder.
func screenshotFunc(scale int) func(Frame) error {
	return func(frame Frame) error {
		dir, err := storage.GetScreenshotDir()
		if err != nil {
			return err
		}
		path, err := NewScreenshotWriter(dir, scale).Save(frame)
		if err != nil {
			return err
		}
		log.Noticef("screenshot saved: %s", path)
		return nil
	}
}
