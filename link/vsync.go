package link

import "sync/atomic"

// VsyncReader is the read-only view of a VsyncCounter handed to the
// execution side.
type VsyncReader interface {
	Load() uint32
}

// VsyncCounter counts presented frames. The presentation thread is the only
// writer. Readers only learn that the value moved, never an exact count, so
// wraparound is harmless.
type VsyncCounter struct {
	n atomic.Uint32
}

// Signal records one presented frame and returns the new count.
func (v *VsyncCounter) Signal() uint32 {
	return v.n.Add(1)
}

// Load returns the current count.
func (v *VsyncCounter) Load() uint32 {
	return v.n.Load()
}

// VsyncWatcher remembers the last count it saw on a VsyncReader.
// It is owned by a single reader goroutine.
type VsyncWatcher struct {
	src  VsyncReader
	last uint32
}

// NewVsyncWatcher creates a watcher that treats the current count as seen.
func NewVsyncWatcher(src VsyncReader) *VsyncWatcher {
	return &VsyncWatcher{src: src, last: src.Load()}
}

// Occurred reports whether at least one vsync happened since the previous
// call. Several vsyncs between calls collapse into one.
func (w *VsyncWatcher) Occurred() bool {
	n := w.src.Load()
	if n == w.last {
		return false
	}
	w.last = n
	return true
}

// Pending returns how many vsyncs happened since the previous call to
// Occurred or Pending, and marks them seen.
func (w *VsyncWatcher) Pending() uint32 {
	n := w.src.Load()
	d := n - w.last
	w.last = n
	return d
}
