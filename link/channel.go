// Package link carries bytes and frame signals between the execution side and
// the peripheral module. Every type here is built for exactly one producer and
// one consumer.
package link

import (
	"context"
	"errors"
	"sync"
)

// ErrEmpty is returned by TryRecv when no byte is queued.
var ErrEmpty = errors.New("byte channel empty")

// ErrClosed is returned once a channel has been closed and drained.
var ErrClosed = errors.New("byte channel closed")

// compactThreshold is the number of consumed bytes after which the backing
// slice is shifted down so it does not grow without bound.
const compactThreshold = 4096

// ByteChannel is an unbounded, ordered FIFO of bytes. Send never blocks.
// After Close, queued bytes can still be received, then ErrClosed is returned.
type ByteChannel struct {
	mu     sync.Mutex
	buf    []byte
	head   int
	closed bool
	ready  chan struct{} // wakes a blocked Recv; buffer size 1
}

// NewByteChannel creates an empty open channel.
func NewByteChannel() *ByteChannel {
	return &ByteChannel{
		buf:   make([]byte, 0, 256),
		ready: make(chan struct{}, 1),
	}
}

// Send appends b to the channel.
func (c *ByteChannel) Send(b byte) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.buf = append(c.buf, b)
	c.mu.Unlock()
	c.wake()
	return nil
}

// TryRecv returns the oldest queued byte without blocking.
func (c *ByteChannel) TryRecv() (byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.popLocked()
}

// Recv blocks until a byte is available, the channel is closed and drained,
// or ctx is done.
func (c *ByteChannel) Recv(ctx context.Context) (byte, error) {
	for {
		c.mu.Lock()
		b, err := c.popLocked()
		c.mu.Unlock()
		if err != ErrEmpty {
			return b, err
		}

		select {
		case <-c.ready:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// Len returns the number of queued bytes.
func (c *ByteChannel) Len() int {
	c.mu.Lock()
	n := len(c.buf) - c.head
	c.mu.Unlock()
	return n
}

// Close marks the channel closed. Only the first call has any effect.
func (c *ByteChannel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()
	c.wake()
}

// Closed reports whether Close has been called.
func (c *ByteChannel) Closed() bool {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	return closed
}

func (c *ByteChannel) popLocked() (byte, error) {
	if c.head == len(c.buf) {
		if c.closed {
			return 0, ErrClosed
		}
		return 0, ErrEmpty
	}

	b := c.buf[c.head]
	c.head++

	if c.head == len(c.buf) {
		c.buf = c.buf[:0]
		c.head = 0
	} else if c.head >= compactThreshold {
		n := copy(c.buf, c.buf[c.head:])
		c.buf = c.buf[:n]
		c.head = 0
	}
	return b, nil
}

func (c *ByteChannel) wake() {
	select {
	case c.ready <- struct{}{}:
	default:
	}
}
