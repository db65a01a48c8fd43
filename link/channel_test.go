package link

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestByteChannel_SendTryRecvOrder(t *testing.T) {
	c := NewByteChannel()

	if _, err := c.TryRecv(); err != ErrEmpty {
		t.Fatalf("expected ErrEmpty on new channel, got %v", err)
	}

	for _, b := range []byte{0x41, 0x42, 0x43} {
		if err := c.Send(b); err != nil {
			t.Fatalf("Send(%#x) failed: %v", b, err)
		}
	}
	if c.Len() != 3 {
		t.Fatalf("expected 3 queued bytes, got %d", c.Len())
	}

	for _, want := range []byte{0x41, 0x42, 0x43} {
		got, err := c.TryRecv()
		if err != nil {
			t.Fatalf("TryRecv failed: %v", err)
		}
		if got != want {
			t.Fatalf("expected %#x, got %#x", want, got)
		}
	}

	if _, err := c.TryRecv(); err != ErrEmpty {
		t.Fatalf("expected ErrEmpty after drain, got %v", err)
	}
}

func TestByteChannel_CloseDrainsThenFails(t *testing.T) {
	c := NewByteChannel()
	c.Send(1)
	c.Send(2)
	c.Close()
	c.Close() // second close is a no-op

	if !c.Closed() {
		t.Fatal("expected channel closed")
	}
	if err := c.Send(3); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed from Send, got %v", err)
	}

	for _, want := range []byte{1, 2} {
		got, err := c.TryRecv()
		if err != nil || got != want {
			t.Fatalf("expected %d before close error, got %d (%v)", want, got, err)
		}
	}
	if _, err := c.TryRecv(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after drain, got %v", err)
	}
	if _, err := c.Recv(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed from Recv, got %v", err)
	}
}

func TestByteChannel_RecvBlocksUntilSend(t *testing.T) {
	c := NewByteChannel()
	got := make(chan byte, 1)

	go func() {
		b, err := c.Recv(context.Background())
		if err != nil {
			close(got)
			return
		}
		got <- b
	}()

	time.Sleep(10 * time.Millisecond)
	c.Send(0x7F)

	select {
	case b, ok := <-got:
		if !ok {
			t.Fatal("Recv returned an error")
		}
		if b != 0x7F {
			t.Fatalf("expected 0x7F, got %#x", b)
		}
	case <-time.After(time.Second):
		t.Fatal("Recv did not wake up")
	}
}

func TestByteChannel_RecvUnblocksOnClose(t *testing.T) {
	c := NewByteChannel()
	done := make(chan error, 1)

	go func() {
		_, err := c.Recv(context.Background())
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	c.Close()

	select {
	case err := <-done:
		if !errors.Is(err, ErrClosed) {
			t.Fatalf("expected ErrClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Recv did not observe close")
	}
}

func TestByteChannel_RecvContextCancel(t *testing.T) {
	c := NewByteChannel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := c.Recv(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestByteChannel_ConcurrentOrderExactlyOnce(t *testing.T) {
	const total = 200000
	c := NewByteChannel()

	go func() {
		for i := 0; i < total; i++ {
			if err := c.Send(byte(i)); err != nil {
				return
			}
		}
		c.Close()
	}()

	received := 0
	deadline := time.Now().Add(10 * time.Second)
	for {
		b, err := c.TryRecv()
		if err == ErrEmpty {
			if time.Now().After(deadline) {
				t.Fatalf("timed out after %d bytes", received)
			}
			continue
		}
		if errors.Is(err, ErrClosed) {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if b != byte(received) {
			t.Fatalf("byte %d out of order: expected %#x, got %#x", received, byte(received), b)
		}
		received++
	}

	if received != total {
		t.Fatalf("expected %d bytes, got %d", total, received)
	}
}

func TestByteChannel_CompactionKeepsOrder(t *testing.T) {
	c := NewByteChannel()

	// Keep the queue non-empty while consuming past the compaction threshold.
	next := 0
	for i := 0; i < compactThreshold*3; i++ {
		c.Send(byte(i))
		if i%2 == 1 {
			b, err := c.TryRecv()
			if err != nil {
				t.Fatalf("TryRecv failed: %v", err)
			}
			if b != byte(next) {
				t.Fatalf("expected %#x, got %#x", byte(next), b)
			}
			next++
		}
	}

	for {
		b, err := c.TryRecv()
		if err == ErrEmpty {
			break
		}
		if b != byte(next) {
			t.Fatalf("expected %#x, got %#x", byte(next), b)
		}
		next++
	}
	if next != compactThreshold*3 {
		t.Fatalf("expected %d bytes, got %d", compactThreshold*3, next)
	}
}
