package standalone

import "testing"

func TestEncodeMousePacket(t *testing.T) {
	tests := []struct {
		name  string
		state MouseState
		want  [4]byte
	}{
		{"idle", MouseState{}, [4]byte{0x08, 0, 0, 0}},
		{"left button", MouseState{Left: true}, [4]byte{0x09, 0, 0, 0}},
		{"all buttons", MouseState{Left: true, Right: true, Middle: true}, [4]byte{0x0F, 0, 0, 0}},
		{"right and up", MouseState{DX: 5, DY: 3}, [4]byte{0x08, 5, 3, 0}},
		{"left and down", MouseState{DX: -1, DY: -2}, [4]byte{0x38, 0xFF, 0xFE, 0}},
		{"x overflow", MouseState{DX: 1000}, [4]byte{0x48, 0xFF, 0, 0}},
		{"y negative overflow", MouseState{DY: -1000}, [4]byte{0xA8, 0, 0x00, 0}},
		{"wheel down", MouseState{Wheel: 1}, [4]byte{0x08, 0, 0, 0x01}},
		{"wheel up", MouseState{Wheel: -1}, [4]byte{0x08, 0, 0, 0xFF}},
		{"wheel clamped", MouseState{Wheel: 40}, [4]byte{0x08, 0, 0, 0x07}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := EncodeMousePacket(tc.state)
			if got != tc.want {
				t.Errorf("EncodeMousePacket(%+v) = % X, want % X", tc.state, got, tc.want)
			}
		})
	}
}

func TestMouseStateMoved(t *testing.T) {
	if (MouseState{Left: true}).Moved() {
		t.Error("button only should not count as motion")
	}
	if !(MouseState{Wheel: -1}).Moved() {
		t.Error("wheel should count as motion")
	}
}
