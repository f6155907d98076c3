// Package components defines ECS components for field particles.
package components

import "gonum.org/v1/gonum/spatial/r3"

// Anchor is a particle's seed position and its slot in the point buffer.
// The wave function always displaces from Origin; nothing accumulates.
type Anchor struct {
	Origin r3.Vec
	Index  int // Slot in the flat point buffer, stable for the particle's lifetime
}

// Oscillator holds the per-particle wave parameters.
type Oscillator struct {
	Phase     float64 // Radians in [0, 2π)
	Amplitude float64 // World units
	Frequency float64 // Twinkle rate for point size, per millisecond
}

// Tint is the particle's palette colour.
type Tint struct {
	Palette int // Index into the configured palette
	R, G, B float32
}

// Position is the particle's current (displaced, wrapped) position.
type Position struct {
	r3.Vec
}
