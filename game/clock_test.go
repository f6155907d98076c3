package game

import (
	"testing"
	"time"
)

func TestFrameClockAdvance(t *testing.T) {
	base := time.Unix(1000, 0)
	tests := []struct {
		name     string
		clock    FrameClock
		now      time.Time
		maxDelta time.Duration
		want     time.Duration
	}{
		{"zero clock has no baseline", FrameClock{}, base, 100 * time.Millisecond, 0},
		{"normal frame", FrameClock{last: base}, base.Add(16 * time.Millisecond), 100 * time.Millisecond, 16 * time.Millisecond},
		{"clamped", FrameClock{last: base}, base.Add(2 * time.Second), 100 * time.Millisecond, 100 * time.Millisecond},
		{"backwards", FrameClock{last: base}, base.Add(-time.Second), 100 * time.Millisecond, 0},
		{"no clamp", FrameClock{last: base}, base.Add(2 * time.Second), 0, 2 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, d := tt.clock.Advance(tt.now, tt.maxDelta)
			if d != tt.want {
				t.Errorf("delta = %v, want %v", d, tt.want)
			}
			if !next.Started() || !next.last.Equal(tt.now) {
				t.Errorf("next clock = %v, want baseline %v", next.last, tt.now)
			}
		})
	}
}

func TestFrameClockIsPure(t *testing.T) {
	base := time.Unix(1000, 0)
	c := FrameClock{last: base}
	c.Advance(base.Add(time.Second), 0)
	if !c.last.Equal(base) {
		t.Error("Advance modified the receiver")
	}
}
