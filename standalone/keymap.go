package standalone

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Unmapped is returned for host keys with no PS/2 equivalent.
const Unmapped uint16 = 0

// extended marks PS/2 set 2 codes sent with the 0xE0 prefix.
const extended uint16 = 0xE000

// ps2Codes maps host keys to PS/2 set 2 make codes.
var ps2Codes = map[ebiten.Key]uint16{
	ebiten.KeyA: 0x1C,
	ebiten.KeyB: 0x32,
	ebiten.KeyC: 0x21,
	ebiten.KeyD: 0x23,
	ebiten.KeyE: 0x24,
	ebiten.KeyF: 0x2B,
	ebiten.KeyG: 0x34,
	ebiten.KeyH: 0x33,
	ebiten.KeyI: 0x43,
	ebiten.KeyJ: 0x3B,
	ebiten.KeyK: 0x42,
	ebiten.KeyL: 0x4B,
	ebiten.KeyM: 0x3A,
	ebiten.KeyN: 0x31,
	ebiten.KeyO: 0x44,
	ebiten.KeyP: 0x4D,
	ebiten.KeyQ: 0x15,
	ebiten.KeyR: 0x2D,
	ebiten.KeyS: 0x1B,
	ebiten.KeyT: 0x2C,
	ebiten.KeyU: 0x3C,
	ebiten.KeyV: 0x2A,
	ebiten.KeyW: 0x1D,
	ebiten.KeyX: 0x22,
	ebiten.KeyY: 0x35,
	ebiten.KeyZ: 0x1A,

	ebiten.KeyDigit0: 0x45,
	ebiten.KeyDigit1: 0x16,
	ebiten.KeyDigit2: 0x1E,
	ebiten.KeyDigit3: 0x26,
	ebiten.KeyDigit4: 0x25,
	ebiten.KeyDigit5: 0x2E,
	ebiten.KeyDigit6: 0x36,
	ebiten.KeyDigit7: 0x3D,
	ebiten.KeyDigit8: 0x3E,
	ebiten.KeyDigit9: 0x46,

	ebiten.KeyF1:  0x05,
	ebiten.KeyF2:  0x06,
	ebiten.KeyF3:  0x04,
	ebiten.KeyF4:  0x0C,
	ebiten.KeyF5:  0x03,
	ebiten.KeyF6:  0x0B,
	ebiten.KeyF7:  0x83,
	ebiten.KeyF8:  0x0A,
	ebiten.KeyF9:  0x01,
	ebiten.KeyF10: 0x09,
	ebiten.KeyF11: 0x78,
	ebiten.KeyF12: 0x07,

	ebiten.KeyEscape:       0x76,
	ebiten.KeyBackquote:    0x0E,
	ebiten.KeyMinus:        0x4E,
	ebiten.KeyEqual:        0x55,
	ebiten.KeyBackspace:    0x66,
	ebiten.KeyTab:          0x0D,
	ebiten.KeyBracketLeft:  0x54,
	ebiten.KeyBracketRight: 0x5B,
	ebiten.KeyBackslash:    0x5D,
	ebiten.KeyCapsLock:     0x58,
	ebiten.KeySemicolon:    0x4C,
	ebiten.KeyQuote:        0x52,
	ebiten.KeyEnter:        0x5A,
	ebiten.KeyComma:        0x41,
	ebiten.KeyPeriod:       0x49,
	ebiten.KeySlash:        0x4A,
	ebiten.KeySpace:        0x29,

	ebiten.KeyIntlBackslash: 0x61,

	ebiten.KeyShiftLeft:    0x12,
	ebiten.KeyShiftRight:   0x59,
	ebiten.KeyControlLeft:  0x14,
	ebiten.KeyControlRight: extended | 0x14,
	ebiten.KeyAltLeft:      0x11,
	ebiten.KeyAltRight:     extended | 0x11,
	ebiten.KeyMetaLeft:     extended | 0x1F,
	ebiten.KeyMetaRight:    extended | 0x27,
	ebiten.KeyContextMenu:  extended | 0x2F,

	ebiten.KeyPrintScreen: extended | 0x7C,
	ebiten.KeyScrollLock:  0x7E,
	ebiten.KeyInsert:      extended | 0x70,
	ebiten.KeyHome:        extended | 0x6C,
	ebiten.KeyPageUp:      extended | 0x7D,
	ebiten.KeyDelete:      extended | 0x71,
	ebiten.KeyEnd:         extended | 0x69,
	ebiten.KeyPageDown:    extended | 0x7A,
	ebiten.KeyArrowUp:     extended | 0x75,
	ebiten.KeyArrowLeft:   extended | 0x6B,
	ebiten.KeyArrowDown:   extended | 0x72,
	ebiten.KeyArrowRight:  extended | 0x74,

	ebiten.KeyNumLock:        0x77,
	ebiten.KeyNumpadDivide:   extended | 0x4A,
	ebiten.KeyNumpadMultiply: 0x7C,
	ebiten.KeyNumpadSubtract: 0x7B,
	ebiten.KeyNumpadAdd:      0x79,
	ebiten.KeyNumpadEnter:    extended | 0x5A,
	ebiten.KeyNumpadDecimal:  0x71,
	ebiten.KeyNumpad0:        0x70,
	ebiten.KeyNumpad1:        0x69,
	ebiten.KeyNumpad2:        0x72,
	ebiten.KeyNumpad3:        0x7A,
	ebiten.KeyNumpad4:        0x6B,
	ebiten.KeyNumpad5:        0x73,
	ebiten.KeyNumpad6:        0x74,
	ebiten.KeyNumpad7:        0x6C,
	ebiten.KeyNumpad8:        0x75,
	ebiten.KeyNumpad9:        0x7D,
}

// TranslateKey converts a host key to its PS/2 set 2 scancode, or Unmapped.
// Extended keys carry 0xE0 in the high byte.
func TranslateKey(k ebiten.Key) uint16 {
	return ps2Codes[k]
}

// shortcut is a host action bound to Right-Alt plus a key.
type shortcut int

const (
	shortcutFullscreen shortcut = iota + 1
	shortcutQuit
	shortcutScreenshot
	shortcutPaste
)

// shortcutKeys are intercepted when pressed with Right-Alt and never reach
// the module.
var shortcutKeys = map[ebiten.Key]shortcut{
	ebiten.KeyF: shortcutFullscreen,
	ebiten.KeyQ: shortcutQuit,
	ebiten.KeyS: shortcutScreenshot,
	ebiten.KeyV: shortcutPaste,
}

// keyStroke is one character typed as a key, optionally shifted.
type keyStroke struct {
	key   ebiten.Key
	shift bool
}

// asciiKeys maps printable ASCII (US layout) to the key that types it.
var asciiKeys map[byte]keyStroke

var (
	letterKeys = []ebiten.Key{
		ebiten.KeyA, ebiten.KeyB, ebiten.KeyC, ebiten.KeyD, ebiten.KeyE, ebiten.KeyF,
		ebiten.KeyG, ebiten.KeyH, ebiten.KeyI, ebiten.KeyJ, ebiten.KeyK, ebiten.KeyL,
		ebiten.KeyM, ebiten.KeyN, ebiten.KeyO, ebiten.KeyP, ebiten.KeyQ, ebiten.KeyR,
		ebiten.KeyS, ebiten.KeyT, ebiten.KeyU, ebiten.KeyV, ebiten.KeyW, ebiten.KeyX,
		ebiten.KeyY, ebiten.KeyZ,
	}
	digitKeys = []ebiten.Key{
		ebiten.KeyDigit0, ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
		ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
	}
)

func init() {
	asciiKeys = make(map[byte]keyStroke, 100)
	for i, k := range letterKeys {
		asciiKeys['a'+byte(i)] = keyStroke{key: k}
		asciiKeys['A'+byte(i)] = keyStroke{key: k, shift: true}
	}
	for i, k := range digitKeys {
		asciiKeys['0'+byte(i)] = keyStroke{key: k}
		asciiKeys[")!@#$%^&*("[i]] = keyStroke{key: k, shift: true}
	}
	pairs := []struct {
		plain, shifted byte
		key            ebiten.Key
	}{
		{'-', '_', ebiten.KeyMinus},
		{'=', '+', ebiten.KeyEqual},
		{'[', '{', ebiten.KeyBracketLeft},
		{']', '}', ebiten.KeyBracketRight},
		{'\\', '|', ebiten.KeyBackslash},
		{';', ':', ebiten.KeySemicolon},
		{'\'', '"', ebiten.KeyQuote},
		{'`', '~', ebiten.KeyBackquote},
		{',', '<', ebiten.KeyComma},
		{'.', '>', ebiten.KeyPeriod},
		{'/', '?', ebiten.KeySlash},
	}
	for _, p := range pairs {
		asciiKeys[p.plain] = keyStroke{key: p.key}
		asciiKeys[p.shifted] = keyStroke{key: p.key, shift: true}
	}
	asciiKeys[' '] = keyStroke{key: ebiten.KeySpace}
	asciiKeys['\r'] = keyStroke{key: ebiten.KeyEnter}
	asciiKeys['\n'] = keyStroke{key: ebiten.KeyEnter}
	asciiKeys['\t'] = keyStroke{key: ebiten.KeyTab}
}

// strokeFor returns the key stroke that types c on a US layout.
func strokeFor(c byte) (keyStroke, bool) {
	s, ok := asciiKeys[c]
	return s, ok
}
