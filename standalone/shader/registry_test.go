package shader

import "testing"

func TestKnown(t *testing.T) {
	for _, s := range AvailableShaders {
		if !Known(s.ID) {
			t.Errorf("Known(%q) = false", s.ID)
		}
	}
	for _, id := range []string{"", "none", "CRT", "ntsc"} {
		if Known(id) {
			t.Errorf("Known(%q) = true", id)
		}
	}
}

func TestAvailableShadersHaveSources(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range AvailableShaders {
		if seen[s.ID] {
			t.Errorf("duplicate shader ID %q", s.ID)
		}
		seen[s.ID] = true

		if s.Preprocess && s.Weight != 0 {
			t.Errorf("preprocess effect %q has weight %d", s.ID, s.Weight)
		}
		if s.ID == "ghosting" {
			continue
		}
		if src, err := source(s.ID); err != nil || len(src) == 0 {
			t.Errorf("no Kage source for %q: %v", s.ID, err)
		}
	}
}

func TestHasXBR(t *testing.T) {
	if HasXBR(nil) || HasXBR([]string{"crt", "ghosting"}) {
		t.Error("HasXBR true without xbr")
	}
	if !HasXBR([]string{"crt", "xbr"}) {
		t.Error("HasXBR false with xbr")
	}
}

func TestFitRect(t *testing.T) {
	tests := []struct {
		name                       string
		w, h                       float64
		wantW, wantH, wantX, wantY float64
	}{
		{"exact", 1280, 960, 1280, 960, 0, 0},
		{"wide window", 1920, 1080, 1440, 1080, 240, 0},
		{"tall window", 800, 1000, 800, 600, 0, 200},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, h, x, y := FitRect(tc.w, tc.h)
			if w != tc.wantW || h != tc.wantH || x != tc.wantX || y != tc.wantY {
				t.Errorf("FitRect(%v, %v) = %v x %v at %v,%v, want %v x %v at %v,%v",
					tc.w, tc.h, w, h, x, y, tc.wantW, tc.wantH, tc.wantX, tc.wantY)
			}
		})
	}
}
