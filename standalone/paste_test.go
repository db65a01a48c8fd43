package standalone

import (
	"bytes"
	"testing"
)

func TestNormalizePasteText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "abc", "abc"},
		{"crlf", "a\r\nb", "a\rb"},
		{"lf", "a\nb\n", "a\rb\r"},
		{"cr", "a\rb", "a\rb"},
		{"mixed", "1\r\n2\n3\r", "1\r2\r3\r"},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := normalizePasteText([]byte(tc.in))
			if !bytes.Equal(got, []byte(tc.want)) {
				t.Errorf("normalizePasteText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCapPasteText(t *testing.T) {
	long := bytes.Repeat([]byte("x"), maxPasteBytes+10)
	if got := capPasteText(long, maxPasteBytes); len(got) != maxPasteBytes {
		t.Errorf("capped length = %d, want %d", len(got), maxPasteBytes)
	}
	if got := capPasteText([]byte("hi"), maxPasteBytes); string(got) != "hi" {
		t.Errorf("short text changed: %q", got)
	}
}

func TestTypeTextSkipsUntypeable(t *testing.T) {
	d := &fakeDisplay{}
	n := typeText(d, []byte("b\x01é"))

	if n != 1 {
		t.Errorf("typed %d characters, want 1", n)
	}
	if len(d.keys) != 2 || d.keys[0] != (kbEvent{0x32, true}) || d.keys[1] != (kbEvent{0x32, false}) {
		t.Errorf("keys = %v", d.keys)
	}
}

func TestTypeTextCapped(t *testing.T) {
	d := &fakeDisplay{}
	n := typeText(d, bytes.Repeat([]byte("a"), maxPasteBytes*2))
	if n != maxPasteBytes {
		t.Errorf("typed %d characters, want %d", n, maxPasteBytes)
	}
	if len(d.keys) != 2*maxPasteBytes {
		t.Errorf("sent %d key events, want %d", len(d.keys), 2*maxPasteBytes)
	}
}
