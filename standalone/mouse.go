package standalone

import emucore "github.com/user-none/agonhost/api"

// MouseState is one sample of relative mouse movement and button state in
// PS/2 orientation: positive DY is up, positive Wheel is towards the user.
type MouseState struct {
	DX, DY              int
	Wheel               int
	Left, Right, Middle bool
}

// Moved reports whether the sample carries any motion.
func (s MouseState) Moved() bool {
	return s.DX != 0 || s.DY != 0 || s.Wheel != 0
}

// Buttons returns the button bits of the packet's first byte.
func (s MouseState) Buttons() byte {
	var b byte
	if s.Left {
		b |= 0x01
	}
	if s.Right {
		b |= 0x02
	}
	if s.Middle {
		b |= 0x04
	}
	return b
}

// EncodeMousePacket builds a 4-byte PS/2 IntelliMouse packet. Motion beyond
// the 9-bit range is clamped and flagged as overflow; the wheel is clamped to
// the 4-bit signed range.
func EncodeMousePacket(s MouseState) [emucore.MousePacketSize]byte {
	var p [emucore.MousePacketSize]byte

	dx, xOverflow := clampMotion(s.DX)
	dy, yOverflow := clampMotion(s.DY)

	p[0] = 0x08 | s.Buttons()
	if dx < 0 {
		p[0] |= 0x10
	}
	if dy < 0 {
		p[0] |= 0x20
	}
	if xOverflow {
		p[0] |= 0x40
	}
	if yOverflow {
		p[0] |= 0x80
	}
	p[1] = byte(dx)
	p[2] = byte(dy)

	wheel := s.Wheel
	if wheel < -8 {
		wheel = -8
	} else if wheel > 7 {
		wheel = 7
	}
	p[3] = byte(int8(wheel)) & 0x0F
	if wheel < 0 {
		p[3] |= 0xF0
	}
	return p
}

func clampMotion(v int) (int, bool) {
	if v > 255 {
		return 255, true
	}
	if v < -256 {
		return -256, true
	}
	return v, false
}
