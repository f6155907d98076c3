package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/driftfield/components"
)

// Wave rates per millisecond of field time.
const (
	waveRateXY = 0.001
	waveRateZ  = 0.0005
)

// waveOffset returns the particle's displacement from its anchor at field
// time t (milliseconds). g is the shared global phase.
func waveOffset(t, speed, g float64, osc components.Oscillator) r3.Vec {
	ts := t * speed
	a := osc.Amplitude
	return r3.Vec{
		X: math.Sin(ts*waveRateXY+osc.Phase+g) * a,
		Y: math.Cos(ts*waveRateXY+osc.Phase+1+g) * a,
		Z: math.Sin(ts*waveRateZ+osc.Phase+2+g) * a * 0.5,
	}
}

// twinkle returns the point size multiplier for a particle at time t.
func twinkle(t float64, osc components.Oscillator) float64 {
	return 1 + 0.25*math.Sin(t*osc.Frequency)
}
