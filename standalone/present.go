package standalone

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	emucore "github.com/user-none/agonhost/api"
	"github.com/user-none/agonhost/link"
)

// DefaultWarmup is how long a freshly built surface waits before the first
// frame, giving the module time to bring up its video controller.
const DefaultWarmup = 500 * time.Millisecond

// pollInterval is the sleep between frame clock polls.
const pollInterval = time.Millisecond

// Display is the part of the peripheral driven by the presentation thread.
type Display interface {
	SignalVblank()
	CopyFramebuffer(buf []byte) (width, height int)
	InjectKeyboard(code uint16, down bool)
	InjectMouse(packet [emucore.MousePacketSize]byte)
}

// Surface is the window and render target frames are presented on.
type Surface interface {
	// Rebuild creates the window state for the given mode. Called on every
	// entry to StateSurfaceInit.
	Rebuild(fullscreen bool, width, height int) error
	// Resize reallocates the render target after a mode change.
	Resize(width, height int)
	// Blit uploads one RGB24 row-major frame of the current mode.
	Blit(pixels []byte, width, height int)
	Present()
}

// EventKind identifies a host input event.
type EventKind int

const (
	EventKeyDown EventKind = iota
	EventKeyUp
	EventMouse
	EventQuit
)

// Modifiers is a bitmask of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModLeftAlt
	ModRightAlt
)

// HostEvent is one input event from the window system.
type HostEvent struct {
	Kind  EventKind
	Key   ebiten.Key
	Mods  Modifiers
	Mouse [emucore.MousePacketSize]byte
}

// EventSource yields the host events that arrived since the last poll.
type EventSource interface {
	// PollEvents appends pending events to dst and returns it.
	PollEvents(dst []HostEvent) []HostEvent
}

// Frame is a snapshot of the staging buffer.
type Frame struct {
	Pixels []byte
	Width  int
	Height int
}

// ModeTracker holds the active display mode. Only the presentation thread
// touches it.
type ModeTracker struct {
	width, height int
	changes       int
}

// NewModeTracker returns a tracker starting at the given mode.
func NewModeTracker(width, height int) *ModeTracker {
	return &ModeTracker{width: width, height: height}
}

// Size returns the active mode.
func (m *ModeTracker) Size() (width, height int) {
	return m.width, m.height
}

// Update records a reported mode and reports whether it differs from the
// active one.
func (m *ModeTracker) Update(width, height int) bool {
	if width == m.width && height == m.height {
		return false
	}
	m.width, m.height = width, height
	m.changes++
	return true
}

// Changes returns how many mode changes have been observed.
func (m *ModeTracker) Changes() int {
	return m.changes
}

// PresenterConfig wires a Presenter to its collaborators.
type PresenterConfig struct {
	Display    Display
	Surface    Surface
	Events     EventSource
	Vsync      *link.VsyncCounter
	Fullscreen bool
	Warmup     time.Duration

	// Screenshot receives the last presented frame on RAlt+S.
	Screenshot func(Frame) error
	// Clipboard returns text to type on RAlt+V.
	Clipboard func() ([]byte, error)

	// Now and Sleep default to time.Now and time.Sleep.
	Now   func() time.Time
	Sleep func(time.Duration)
}

// Presenter runs the presentation thread's state machine: surface setup,
// paced frame presentation, and input forwarding.
type Presenter struct {
	display Display
	surface Surface
	events  EventSource
	vsync   *link.VsyncCounter
	clock   *FrameClock
	mode    *ModeTracker

	state      PresenterState
	fullscreen bool
	warmup     time.Duration

	screenshot func(Frame) error
	clipboard  func() ([]byte, error)

	now   func() time.Time
	sleep func(time.Duration)

	staging   []byte
	batch     []HostEvent
	pending   []HostEvent
	swallowed map[ebiten.Key]bool
	oversized bool
	frames    uint64
}

// NewPresenter creates a presenter in StateSurfaceInit with the initial
// 640x480 mode.
func NewPresenter(cfg PresenterConfig) *Presenter {
	p := &Presenter{
		display:    cfg.Display,
		surface:    cfg.Surface,
		events:     cfg.Events,
		vsync:      cfg.Vsync,
		clock:      NewFrameClock(),
		mode:       NewModeTracker(emucore.InitialScreenWidth, emucore.InitialScreenHeight),
		state:      StateSurfaceInit,
		fullscreen: cfg.Fullscreen,
		warmup:     cfg.Warmup,
		screenshot: cfg.Screenshot,
		clipboard:  cfg.Clipboard,
		now:        cfg.Now,
		sleep:      cfg.Sleep,
		staging:    make([]byte, emucore.MaxFramebufferSize),
		batch:      make([]HostEvent, 0, 32),
		swallowed:  make(map[ebiten.Key]bool),
	}
	if p.vsync == nil {
		p.vsync = &link.VsyncCounter{}
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.sleep == nil {
		p.sleep = time.Sleep
	}
	return p
}

// State returns the current state.
func (p *Presenter) State() PresenterState { return p.state }

// Fullscreen reports whether the surface is (to be) fullscreen.
func (p *Presenter) Fullscreen() bool { return p.fullscreen }

// Mode returns the display mode tracker.
func (p *Presenter) Mode() *ModeTracker { return p.mode }

// Clock returns the frame clock.
func (p *Presenter) Clock() *FrameClock { return p.clock }

// Frames returns the number of frames presented.
func (p *Presenter) Frames() uint64 { return p.frames }

// Step advances the state machine by one unit of work: a surface rebuild in
// StateSurfaceInit, one paced frame in StateSteadyState. It returns the state
// after the step. A surface that cannot be built is a fatal error.
func (p *Presenter) Step() (PresenterState, error) {
	switch p.state {
	case StateSurfaceInit:
		if err := p.initSurface(); err != nil {
			return p.state, err
		}
	case StateSteadyState:
		p.presentFrame()
	}
	return p.state, nil
}

func (p *Presenter) initSurface() error {
	w, h := p.mode.Size()
	if err := p.surface.Rebuild(p.fullscreen, w, h); err != nil {
		return fmt.Errorf("failed to build display surface: %w", err)
	}
	log.Debugf("surface ready: %dx%d fullscreen=%v", w, h, p.fullscreen)

	if p.warmup > 0 {
		p.sleep(p.warmup)
	}
	// Input that arrived while the surface was rebuilt is handled with the
	// first frame.
	p.pending = p.events.PollEvents(p.pending)
	p.clock.Reset(p.now())
	p.state = StateSteadyState
	return nil
}

func (p *Presenter) presentFrame() {
	for !p.clock.Tick(p.now()) {
		p.sleep(pollInterval)
	}

	p.vsync.Signal()
	p.display.SignalVblank()

	p.batch = append(p.batch[:0], p.pending...)
	p.pending = p.pending[:0]
	p.batch = p.events.PollEvents(p.batch)
	if !p.handleEvents(p.batch) {
		return
	}

	w, h := p.display.CopyFramebuffer(p.staging)
	if w <= 0 || h <= 0 {
		return
	}
	if w > len(p.staging) || h > len(p.staging) || emucore.FramebufferLen(w, h) > len(p.staging) {
		if !p.oversized {
			log.Warningf("module reported %dx%d, larger than the staging buffer; skipping frame", w, h)
			p.oversized = true
		}
		return
	}

	if p.mode.Update(w, h) {
		log.Infof("Mode change to %d x %d", w, h)
		p.surface.Resize(w, h)
	}

	p.surface.Blit(p.staging[:emucore.FramebufferLen(w, h)], w, h)
	p.surface.Present()
	p.frames++
}

// handleEvents forwards translated input to the module and acts on host
// shortcuts. It returns false when the frame must not be presented because
// the state left StateSteadyState.
func (p *Presenter) handleEvents(events []HostEvent) bool {
	for i, ev := range events {
		switch ev.Kind {
		case EventQuit:
			p.state = StateQuit
			return false

		case EventKeyDown:
			if ev.Mods&ModRightAlt != 0 {
				if action, ok := shortcutKeys[ev.Key]; ok {
					p.swallowed[ev.Key] = true
					if !p.runShortcut(action) {
						p.pending = append(p.pending, events[i+1:]...)
						return false
					}
					continue
				}
			}
			p.forwardKey(ev.Key, true)

		case EventKeyUp:
			if p.swallowed[ev.Key] {
				delete(p.swallowed, ev.Key)
				continue
			}
			p.forwardKey(ev.Key, false)

		case EventMouse:
			p.display.InjectMouse(ev.Mouse)
		}
	}
	return true
}

// runShortcut performs a host action. It returns false when the action ends
// the steady state.
func (p *Presenter) runShortcut(action shortcut) bool {
	switch action {
	case shortcutFullscreen:
		p.fullscreen = !p.fullscreen
		p.state = StateSurfaceInit
		return false
	case shortcutQuit:
		p.state = StateQuit
		return false
	case shortcutScreenshot:
		p.takeScreenshot()
	case shortcutPaste:
		p.paste()
	}
	return true
}

func (p *Presenter) forwardKey(k ebiten.Key, down bool) {
	code := TranslateKey(k)
	if code == Unmapped {
		return
	}
	p.display.InjectKeyboard(code, down)
}

func (p *Presenter) takeScreenshot() {
	if p.screenshot == nil || p.frames == 0 {
		return
	}
	w, h := p.mode.Size()
	frame := Frame{
		Pixels: p.staging[:emucore.FramebufferLen(w, h)],
		Width:  w,
		Height: h,
	}
	if err := p.screenshot(frame); err != nil {
		log.Errorf("screenshot failed: %s", err)
	}
}

func (p *Presenter) paste() {
	if p.clipboard == nil {
		return
	}
	text, err := p.clipboard()
	if err != nil {
		log.Errorf("paste failed: %s", err)
		return
	}
	n := typeText(p.display, text)
	log.Debugf("pasted %d characters", n)
}
