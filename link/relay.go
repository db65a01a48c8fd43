package link

import (
	"context"
	"fmt"
	"time"
)

// DefaultRelayInterval bounds the latency the relay adds to a byte burst.
const DefaultRelayInterval = 100 * time.Microsecond

// BytePort is the peripheral side of the relay.
type BytePort interface {
	// ByteIn delivers one byte from the execution side.
	ByteIn(b byte)
	// ByteOut returns the next byte produced by the peripheral, if any.
	// It must not block.
	ByteOut() (byte, bool)
}

// Relay pumps Outbound into Port and Port into Inbound.
type Relay struct {
	Outbound *ByteChannel // execution -> peripheral
	Inbound  *ByteChannel // peripheral -> execution
	Port     BytePort
	Interval time.Duration
}

// NewRelay creates a relay using DefaultRelayInterval.
func NewRelay(outbound, inbound *ByteChannel, port BytePort) *Relay {
	return &Relay{
		Outbound: outbound,
		Inbound:  inbound,
		Port:     port,
		Interval: DefaultRelayInterval,
	}
}

// Pump does one pass in each direction: every queued outbound byte is handed
// to the port, then every byte the port has ready is queued inbound.
// It returns the number of bytes moved each way. An error wrapping ErrClosed
// means the execution side is gone.
func (r *Relay) Pump() (toPort, fromPort int, err error) {
	for {
		b, err := r.Outbound.TryRecv()
		if err == ErrEmpty {
			break
		}
		if err != nil {
			return toPort, fromPort, fmt.Errorf("outbound: %w", err)
		}
		r.Port.ByteIn(b)
		toPort++
	}

	for {
		b, ok := r.Port.ByteOut()
		if !ok {
			break
		}
		if err := r.Inbound.Send(b); err != nil {
			return toPort, fromPort, fmt.Errorf("inbound: %w", err)
		}
		fromPort++
	}

	return toPort, fromPort, nil
}

// Run pumps until a channel closes or ctx is done, sleeping Interval between
// passes. It only returns on failure or cancellation.
func (r *Relay) Run(ctx context.Context) error {
	interval := r.Interval
	if interval <= 0 {
		interval = DefaultRelayInterval
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		if _, _, err := r.Pump(); err != nil {
			return err
		}

		timer.Reset(interval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
