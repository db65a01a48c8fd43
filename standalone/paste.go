package standalone

import (
	"errors"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.design/x/clipboard"
)

// maxPasteBytes caps how much clipboard text one paste types.
const maxPasteBytes = 4096

var errClipboardUnavailable = errors.New("clipboard not available")

var (
	clipboardOnce sync.Once
	clipboardErr  error
)

// readClipboard returns the clipboard's text content.
func readClipboard() ([]byte, error) {
	clipboardOnce.Do(func() {
		if err := clipboard.Init(); err != nil {
			clipboardErr = errors.Join(errClipboardUnavailable, err)
		}
	})
	if clipboardErr != nil {
		return nil, clipboardErr
	}
	return clipboard.Read(clipboard.FmtText), nil
}

// normalizePasteText turns CRLF and lone LF line endings into CR, the line
// terminator the machine expects from its keyboard.
func normalizePasteText(raw []byte) []byte {
	norm := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '\r':
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
			norm = append(norm, '\r')
		case '\n':
			norm = append(norm, '\r')
		default:
			norm = append(norm, raw[i])
		}
	}
	return norm
}

func capPasteText(raw []byte, max int) []byte {
	if len(raw) <= max {
		return raw
	}
	return raw[:max]
}

// typeText types text into d as PS/2 press/release pairs, holding left
// shift where the character needs it. Characters with no key are skipped.
// It returns the number of characters typed.
func typeText(d Display, text []byte) int {
	text = capPasteText(normalizePasteText(text), maxPasteBytes)
	shift := TranslateKey(ebiten.KeyShiftLeft)

	typed := 0
	for _, c := range text {
		stroke, ok := strokeFor(c)
		if !ok {
			continue
		}
		code := TranslateKey(stroke.key)
		if stroke.shift {
			d.InjectKeyboard(shift, true)
		}
		d.InjectKeyboard(code, true)
		d.InjectKeyboard(code, false)
		if stroke.shift {
			d.InjectKeyboard(shift, false)
		}
		typed++
	}
	return typed
}
