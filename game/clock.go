package game

import "time"

// FrameClock measures the time between frames. The zero value has no
// baseline: its first Advance returns a zero delta.
type FrameClock struct {
	last time.Time
}

// Advance returns the clock moved to now and the elapsed time since the
// previous frame, clamped to [0, maxDelta]. A non-positive maxDelta disables
// the upper clamp.
func (c FrameClock) Advance(now time.Time, maxDelta time.Duration) (FrameClock, time.Duration) {
	if c.last.IsZero() {
		return FrameClock{last: now}, 0
	}
	d := now.Sub(c.last)
	if d < 0 {
		d = 0
	}
	if maxDelta > 0 && d > maxDelta {
		d = maxDelta
	}
	return FrameClock{last: now}, d
}

// Started reports whether the clock has a baseline.
func (c FrameClock) Started() bool {
	return !c.last.IsZero()
}

// milliseconds converts a duration to fractional milliseconds.
func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
