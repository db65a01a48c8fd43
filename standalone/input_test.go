package standalone

import "testing"

func TestInputManagerTrack(t *testing.T) {
	im := NewInputManager(true)

	// First sample only establishes the position.
	if dx, dy, w := im.track(100, 100, 0); dx != 0 || dy != 0 || w != 0 {
		t.Errorf("first sample = %d,%d,%d, want zero", dx, dy, w)
	}

	tests := []struct {
		name      string
		x, y      int
		wheelY    float64
		dx, dy, w int
	}{
		{"right", 105, 100, 0, 5, 0, 0},
		{"screen down is ps2 negative", 105, 110, 0, 0, -10, 0},
		{"wheel away from user", 105, 110, 1, 0, 0, -1},
		{"half wheel step held back", 105, 110, -0.5, 0, 0, 0},
		{"second half completes it", 105, 110, -0.5, 0, 0, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dx, dy, w := im.track(tc.x, tc.y, tc.wheelY)
			if dx != tc.dx || dy != tc.dy || w != tc.w {
				t.Errorf("track = %d,%d,%d, want %d,%d,%d", dx, dy, w, tc.dx, tc.dy, tc.w)
			}
		})
	}
}
