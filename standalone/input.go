package standalone

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputManager turns ebiten's polled input state into host events. It
// implements EventSource and must be polled from the game's Update.
type InputManager struct {
	keys         []ebiten.Key
	mouseCapture bool

	// Mouse tracking
	havePos     bool
	lastX       int
	lastY       int
	lastButtons byte
	wheelAcc    float64
}

// NewInputManager creates an input manager. With mouseCapture set, mouse
// motion, buttons and wheel are reported as PS/2 packets.
func NewInputManager(mouseCapture bool) *InputManager {
	return &InputManager{
		keys:         make([]ebiten.Key, 0, 16),
		mouseCapture: mouseCapture,
	}
}

// PollEvents appends the events since the previous Update to dst.
func (im *InputManager) PollEvents(dst []HostEvent) []HostEvent {
	if ebiten.IsWindowBeingClosed() {
		dst = append(dst, HostEvent{Kind: EventQuit})
	}

	mods := currentModifiers()

	im.keys = inpututil.AppendJustPressedKeys(im.keys[:0])
	for _, k := range im.keys {
		dst = append(dst, HostEvent{Kind: EventKeyDown, Key: k, Mods: mods})
	}
	im.keys = inpututil.AppendJustReleasedKeys(im.keys[:0])
	for _, k := range im.keys {
		dst = append(dst, HostEvent{Kind: EventKeyUp, Key: k, Mods: mods})
	}

	if im.mouseCapture {
		if s, ok := im.pollMouse(); ok {
			dst = append(dst, HostEvent{Kind: EventMouse, Mouse: EncodeMousePacket(s)})
		}
	}
	return dst
}

func currentModifiers() Modifiers {
	var m Modifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		m |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		m |= ModControl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAltLeft) {
		m |= ModLeftAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		m |= ModRightAlt
	}
	return m
}

// pollMouse samples the mouse and reports whether anything changed since the
// last sample.
func (im *InputManager) pollMouse() (MouseState, bool) {
	x, y := ebiten.CursorPosition()
	_, wy := ebiten.Wheel()

	s := MouseState{
		Left:   ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Right:  ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
		Middle: ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle),
	}
	s.DX, s.DY, s.Wheel = im.track(x, y, wy)

	buttons := s.Buttons()
	changed := s.Moved() || buttons != im.lastButtons
	im.lastButtons = buttons
	return s, changed
}

// track converts absolute cursor position and ebiten wheel offsets into PS/2
// relative motion. Screen Y grows downwards and ebiten's wheel is positive
// away from the user, both opposite to PS/2. Fractional wheel steps from
// touchpads accumulate until they make a whole step.
func (im *InputManager) track(x, y int, wheelY float64) (dx, dy, wheel int) {
	if im.havePos {
		dx = x - im.lastX
		dy = im.lastY - y
	}
	im.lastX, im.lastY = x, y
	im.havePos = true

	im.wheelAcc -= wheelY
	wheel = int(im.wheelAcc)
	im.wheelAcc -= float64(wheel)
	return dx, dy, wheel
}
