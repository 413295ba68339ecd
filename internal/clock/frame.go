package clock

import "time"

// DefaultMaxDelta caps a single frame step so a stalled host does not
// produce one giant catch-up step.
const DefaultMaxDelta = 250 * time.Millisecond

// Frame converts frame timestamps into delta-time steps.
type Frame struct {
	last     time.Time
	maxDelta time.Duration
}

// NewFrame creates a frame clock. maxDelta <= 0 selects DefaultMaxDelta.
func NewFrame(maxDelta time.Duration) *Frame {
	if maxDelta <= 0 {
		maxDelta = DefaultMaxDelta
	}
	return &Frame{maxDelta: maxDelta}
}

// Anchor sets the reference timestamp. The next Tick measures from now.
func (f *Frame) Anchor(now time.Time) {
	f.last = now
}

// Reset drops the reference timestamp; the next Tick only anchors.
func (f *Frame) Reset() {
	f.last = time.Time{}
}

// Tick returns the time elapsed since the previous Tick or Anchor, capped at
// the max delta. ok is false when there is nothing to apply: the clock was
// not anchored yet, or time did not move forward.
func (f *Frame) Tick(now time.Time) (dt time.Duration, ok bool) {
	if f.last.IsZero() {
		f.last = now
		return 0, false
	}
	dt = now.Sub(f.last)
	if dt <= 0 {
		return 0, false
	}
	f.last = now
	if dt > f.maxDelta {
		dt = f.maxDelta
	}
	return dt, true
}
