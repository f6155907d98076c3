package systems

import (
	"math"
	"testing"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		v, lo, hi float64
		want      float64
	}{
		{0, -10, 10, 0},
		{10, -10, 10, -10},
		{11, -10, 10, -9},
		{-11, -10, 10, 9},
		{45, -10, 10, 5},
		{-45, -10, 10, -5},
		{3, 5, 5, 5}, // Degenerate interval collapses to lo
	}
	for _, tt := range tests {
		if got := wrap(tt.v, tt.lo, tt.hi); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("wrap(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestWrap_NeverReachesUpperEdge(t *testing.T) {
	got := wrap(-1e-17, 0, 800)
	if got < 0 || got >= 800 {
		t.Errorf("wrap(-1e-17) = %v, want [0, 800)", got)
	}
}
