package standalone

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/user-none/agonhost/standalone/storage"
)

// App implements ebiten.Game around the Presenter. Update runs exactly one
// presenter step, so the presenter's frame clock, not ebiten's tick rate,
// paces presentation.
type App struct {
	presenter *Presenter
	renderer  *FramebufferRenderer
	failed    func() error // worker failure, polled every tick

	// Window tracking for persistence
	windowX, windowY   int
	lastWindowedWidth  int // Last non-fullscreen width (logical pixels)
	lastWindowedHeight int
	lastFullscreen     bool
}

func newApp(presenter *Presenter, renderer *FramebufferRenderer, failed func() error) *App {
	return &App{
		presenter: presenter,
		renderer:  renderer,
		failed:    failed,
	}
}

// configureWindow applies window settings before the game loop starts.
func configureWindow(config *storage.Config) {
	ebiten.SetWindowTitle(appTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(storage.MinWindowWidth, storage.MinWindowHeight, -1, -1)
	ebiten.SetWindowSize(config.Window.Width, config.Window.Height)
	if config.Window.X != nil && config.Window.Y != nil {
		ebiten.SetWindowPosition(*config.Window.X, *config.Window.Y)
	}
	ebiten.SetWindowClosingHandled(true)

	// The presenter sleeps until each frame is due; ebiten must not add
	// its own vsync or tick throttling on top.
	ebiten.SetVsyncEnabled(false)
	ebiten.SetTPS(ebiten.SyncWithFPS)
}

// Update implements ebiten.Game.
func (a *App) Update() error {
	if a.failed != nil {
		if err := a.failed(); err != nil {
			return err
		}
	}

	state, err := a.presenter.Step()
	if err != nil {
		return err
	}

	a.lastFullscreen = a.presenter.Fullscreen()
	if !ebiten.IsFullscreen() {
		a.windowX, a.windowY = ebiten.WindowPosition()
		a.lastWindowedWidth, a.lastWindowedHeight = ebiten.WindowSize()
	}

	if state == StateQuit {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	a.renderer.Draw(screen)
}

// Layout implements ebiten.Game.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	// Return physical pixel dimensions so frames are scaled only once
	s := 1.0
	if m := ebiten.Monitor(); m != nil {
		s = m.DeviceScaleFactor()
	}
	return int(float64(outsideWidth) * s), int(float64(outsideHeight) * s)
}

// saveWindowState stores the last windowed geometry and fullscreen flag.
func (a *App) saveWindowState() {
	// Don't save if we never got valid windowed dimensions.
	if a.lastWindowedWidth == 0 || a.lastWindowedHeight == 0 {
		return
	}

	// Reload so command line overrides are not persisted.
	config, err := storage.LoadValidConfig()
	if err != nil {
		log.Warningf("failed to save window state: %s", err)
		return
	}
	config.Window.Width = a.lastWindowedWidth
	config.Window.Height = a.lastWindowedHeight
	config.Window.X = &a.windowX
	config.Window.Y = &a.windowY
	config.Window.Fullscreen = a.lastFullscreen

	if err := storage.SaveConfig(config); err != nil {
		log.Warningf("failed to save window state: %s", err)
	}
}
