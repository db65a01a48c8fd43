package standalone

import (
	"time"

	emucore "github.com/user-none/agonhost/api"
)

// FrameClock decides when the next frame is due. It advances by exactly one
// interval per presented frame so the long-run rate stays at 1/interval, and
// resynchronises to the current time after a stall instead of presenting a
// burst of catch-up frames.
type FrameClock struct {
	Interval  time.Duration
	Threshold time.Duration

	last   time.Time
	resets int
}

// NewFrameClock returns a clock using the 60 Hz frame interval and the
// 100 ms drift threshold.
func NewFrameClock() *FrameClock {
	return &FrameClock{
		Interval:  emucore.FrameInterval,
		Threshold: emucore.DriftThreshold,
	}
}

// Reset makes now the reference point for the next frame.
func (c *FrameClock) Reset(now time.Time) {
	c.last = now
}

// Tick reports whether a frame is due at now and, if so, advances the clock.
func (c *FrameClock) Tick(now time.Time) bool {
	elapsed := now.Sub(c.last)
	if elapsed < c.Interval {
		return false
	}
	if elapsed >= c.Threshold {
		c.last = now
		c.resets++
		return true
	}
	c.last = c.last.Add(c.Interval)
	return true
}

// Resets returns how many times the clock dropped accumulated lag.
func (c *FrameClock) Resets() int {
	return c.resets
}
