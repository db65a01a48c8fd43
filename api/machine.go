// Package emucore defines the contracts between the host and the two
// emulator halves it coordinates.
package emucore

import (
	"fmt"
	"strings"

	"github.com/user-none/agonhost/link"
)

// RamInit selects how the execution side fills RAM at power on.
type RamInit int

const (
	RamZero RamInit = iota
	RamRandom
)

// String returns the config/CLI name of the policy.
func (r RamInit) String() string {
	switch r {
	case RamZero:
		return "zero"
	case RamRandom:
		return "random"
	default:
		return "unknown"
	}
}

// ParseRamInit converts a policy name to a RamInit.
func ParseRamInit(s string) (RamInit, error) {
	switch strings.ToLower(s) {
	case "zero", "zeroed":
		return RamZero, nil
	case "random", "randomized":
		return RamRandom, nil
	default:
		return 0, fmt.Errorf("unknown ram init %q: use zero or random", s)
	}
}

// MachineConfig is handed to the execution side when it starts.
// The host keeps the channels and counter alive for the machine's lifetime.
type MachineConfig struct {
	RamInit RamInit

	// Outbound carries bytes from the machine to the peripheral module.
	Outbound *link.ByteChannel
	// Inbound carries bytes from the peripheral module to the machine.
	Inbound *link.ByteChannel
	// Vsync advances once per presented frame.
	Vsync link.VsyncReader

	ClockHz     uint32
	StorageRoot string // Root directory of the emulated SD card

	// Firmware is the MOS image to boot. Nil lets the machine use its own.
	Firmware []byte
}

// Machine is the processor-emulation collaborator.
type Machine interface {
	// Start runs the machine until it halts. It is called on a dedicated
	// goroutine and is not expected to return during normal operation.
	Start(cfg MachineConfig)
}
