package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Pointer is the pointer position in normalized device coordinates,
// x and y in [-1, 1] with +y up.
type Pointer struct {
	X, Y    float64
	Present bool
}

// NoPointer is a pointer outside the field.
var NoPointer = Pointer{}

// At returns a present pointer at (x, y).
func At(x, y float64) Pointer {
	return Pointer{X: x, Y: y, Present: true}
}

// world maps the pointer into field space on the z=0 plane. Out-of-range
// values are clamped; a NaN or infinite coordinate makes the pointer absent.
func (p Pointer) world(bounds r3.Box) (r3.Vec, bool) {
	if !p.Present || !finite(p.X) || !finite(p.Y) {
		return r3.Vec{}, false
	}
	return r3.Vec{
		X: clampUnit(p.X) * bounds.Max.X,
		Y: clampUnit(p.Y) * bounds.Max.Y,
	}, true
}

// push displaces p radially away from m in the xy plane when it lies within
// radius. The displacement falls off linearly from strength at the centre to
// zero at the edge. Coincident points are pushed along +x.
func push(p, m r3.Vec, radius, strength float64) r3.Vec {
	if !(radius > 0) || strength == 0 {
		return p
	}
	dx := p.X - m.X
	dy := p.Y - m.Y
	d := math.Hypot(dx, dy)
	if d >= radius {
		return p
	}
	force := (radius - d) / radius * strength
	angle := math.Atan2(dy, dx)
	p.X += math.Cos(angle) * force
	p.Y += math.Sin(angle) * force
	return p
}
