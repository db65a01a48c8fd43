package link

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakePort records bytes delivered by the relay and hands out queued bytes.
type fakePort struct {
	mu       sync.Mutex
	received []byte
	pending  []byte
}

func (p *fakePort) ByteIn(b byte) {
	p.mu.Lock()
	p.received = append(p.received, b)
	p.mu.Unlock()
}

func (p *fakePort) ByteOut() (byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.pending) == 0 {
		return 0, false
	}
	b := p.pending[0]
	p.pending = p.pending[1:]
	return b, true
}

func (p *fakePort) queue(bs ...byte) {
	p.mu.Lock()
	p.pending = append(p.pending, bs...)
	p.mu.Unlock()
}

func (p *fakePort) got() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.received...)
}

func TestRelay_PumpForwardsInOrder(t *testing.T) {
	out := NewByteChannel()
	in := NewByteChannel()
	port := &fakePort{}
	r := NewRelay(out, in, port)

	out.Send(0x41)
	out.Send(0x42)
	port.queue(0x10, 0x11, 0x12)

	toPort, fromPort, err := r.Pump()
	if err != nil {
		t.Fatalf("Pump failed: %v", err)
	}
	if toPort != 2 || fromPort != 3 {
		t.Fatalf("expected 2/3 bytes moved, got %d/%d", toPort, fromPort)
	}

	got := port.got()
	if len(got) != 2 || got[0] != 0x41 || got[1] != 0x42 {
		t.Fatalf("expected [0x41 0x42] at port, got % x", got)
	}

	for _, want := range []byte{0x10, 0x11, 0x12} {
		b, err := in.TryRecv()
		if err != nil || b != want {
			t.Fatalf("expected %#x inbound, got %#x (%v)", want, b, err)
		}
	}
}

func TestRelay_PumpIdle(t *testing.T) {
	r := NewRelay(NewByteChannel(), NewByteChannel(), &fakePort{})
	toPort, fromPort, err := r.Pump()
	if err != nil || toPort != 0 || fromPort != 0 {
		t.Fatalf("expected idle pump, got %d/%d (%v)", toPort, fromPort, err)
	}
}

func TestRelay_OutboundClosedIsFatal(t *testing.T) {
	out := NewByteChannel()
	port := &fakePort{}
	r := NewRelay(out, NewByteChannel(), port)

	out.Send(0x01)
	out.Close()

	_, _, err := r.Pump()
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if got := port.got(); len(got) != 1 || got[0] != 0x01 {
		t.Fatalf("bytes queued before close should still be delivered, got % x", got)
	}
}

func TestRelay_InboundClosedIsFatal(t *testing.T) {
	in := NewByteChannel()
	in.Close()
	port := &fakePort{}
	port.queue(0x55)

	r := NewRelay(NewByteChannel(), in, port)
	if _, _, err := r.Pump(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestRelay_RunEndToEnd(t *testing.T) {
	out := NewByteChannel()
	in := NewByteChannel()
	port := &fakePort{}
	r := NewRelay(out, in, port)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	const total = 5000
	go func() {
		for i := 0; i < total; i++ {
			out.Send(byte(i))
		}
	}()
	port.queue(0xAA, 0xBB)

	deadline := time.Now().Add(5 * time.Second)
	for len(port.got()) < total {
		if time.Now().After(deadline) {
			t.Fatalf("relay delivered only %d of %d bytes", len(port.got()), total)
		}
		time.Sleep(time.Millisecond)
	}

	for i, b := range port.got() {
		if b != byte(i) {
			t.Fatalf("byte %d out of order: %#x", i, b)
		}
	}

	rctx, rcancel := context.WithTimeout(context.Background(), time.Second)
	defer rcancel()
	for _, want := range []byte{0xAA, 0xBB} {
		b, err := in.Recv(rctx)
		if err != nil || b != want {
			t.Fatalf("expected %#x inbound, got %#x (%v)", want, b, err)
		}
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRelay_RunStopsWhenExecutionSideExits(t *testing.T) {
	out := NewByteChannel()
	r := NewRelay(out, NewByteChannel(), &fakePort{})

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()

	out.Close()

	select {
	case err := <-done:
		if !errors.Is(err, ErrClosed) {
			t.Fatalf("expected ErrClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("relay kept running after outbound closed")
	}
}
