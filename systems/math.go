package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// mod returns the non-negative remainder of a/b (Go's math.Mod keeps the
// sign of a). b must be positive.
func mod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m < 0 {
		m += b
	}
	return m
}

// wrap folds v into [lo, hi) as if the interval's ends were joined.
func wrap(v, lo, hi float64) float64 {
	size := hi - lo
	if !(size > 0) {
		return lo
	}
	if v >= lo && v < hi {
		return v
	}
	r := lo + mod(v-lo, size)
	if r >= hi {
		// Rounding can land exactly on the upper edge
		return lo
	}
	return r
}

// wrapBox folds p into the box on every axis.
func wrapBox(p r3.Vec, box r3.Box) r3.Vec {
	return r3.Vec{
		X: wrap(p.X, box.Min.X, box.Max.X),
		Y: wrap(p.Y, box.Min.Y, box.Max.Y),
		Z: wrap(p.Z, box.Min.Z, box.Max.Z),
	}
}

// clampUnit clamps v to [-1, 1].
func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// finite reports whether v is neither NaN nor infinite.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
