// Package camera provides the 3D camera rig that frames the particle field.
package camera

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"gonum.org/v1/gonum/spatial/r3"
)

// View is an immutable perspective camera description handed to backends.
type View struct {
	Position r3.Vec
	Target   r3.Vec
	Up       r3.Vec
	FovY     float64 // Vertical field of view in degrees
	Near     float64
	Far      float64
}

// WorldToScreen projects a world point into a width x height viewport.
// ok is false when the point lies outside the near/far range.
// depth is the distance along the view direction (for size attenuation).
func (v View) WorldToScreen(p r3.Vec, width, height float64) (sx, sy, depth float64, ok bool) {
	forward := r3.Unit(r3.Sub(v.Target, v.Position))
	right := r3.Unit(r3.Cross(forward, v.Up))
	up := r3.Cross(right, forward)

	rel := r3.Sub(p, v.Position)
	depth = r3.Dot(rel, forward)
	if depth <= v.Near || depth > v.Far {
		return 0, 0, depth, false
	}

	halfFov := v.FovY * math.Pi / 360
	focal := (height / 2) / math.Tan(halfFov)

	sx = width/2 + r3.Dot(rel, right)*focal/depth
	sy = height/2 - r3.Dot(rel, up)*focal/depth
	return sx, sy, depth, true
}

// Options configures a Rig.
type Options struct {
	Distance    float64 // Camera distance from the origin at scroll 0
	ScrollDepth float64 // Extra distance at scroll 1
	FovY        float64
	Near, Far   float64
	FPS         int     // Step rate the spring is tuned for
	Frequency   float64 // Spring angular frequency
	Damping     float64 // Spring damping ratio (1 = critically damped)
}

// Rig moves the camera back as the page scrolls, easing with a spring.
type Rig struct {
	opts     Options
	spring   harmonica.Spring
	progress float64
	z, vel   float64
}

// NewRig creates a rig resting at scroll position 0.
func NewRig(opts Options) *Rig {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Frequency <= 0 {
		opts.Frequency = 6
	}
	if opts.Damping <= 0 {
		opts.Damping = 1
	}
	return &Rig{
		opts:   opts,
		spring: harmonica.NewSpring(harmonica.FPS(opts.FPS), opts.Frequency, opts.Damping),
		z:      opts.Distance,
	}
}

// SetScroll sets the scroll progress target, clamped to [0, 1].
func (r *Rig) SetScroll(progress float64) {
	if math.IsNaN(progress) {
		return
	}
	r.progress = min(max(progress, 0), 1)
}

// Scroll returns the current scroll progress target.
func (r *Rig) Scroll() float64 {
	return r.progress
}

// targetZ is the resting camera distance for the current scroll progress.
func (r *Rig) targetZ() float64 {
	return r.opts.Distance + r.progress*r.opts.ScrollDepth
}

// Step advances the spring by one frame.
func (r *Rig) Step() {
	r.z, r.vel = r.spring.Update(r.z, r.vel, r.targetZ())
}

// Snap jumps straight to the resting position.
func (r *Rig) Snap() {
	r.z = r.targetZ()
	r.vel = 0
}

// Z returns the current camera distance.
func (r *Rig) Z() float64 {
	return r.z
}

// View returns the current camera view looking at the origin.
func (r *Rig) View() View {
	return View{
		Position: r3.Vec{Z: r.z},
		Target:   r3.Vec{},
		Up:       r3.Vec{Y: 1},
		FovY:     r.opts.FovY,
		Near:     r.opts.Near,
		Far:      r.opts.Far,
	}
}
