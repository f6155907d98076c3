// Package renderer defines the graphics backend contract for the particle
// field and provides raylib, terminal and recording implementations.
package renderer

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/driftfield/camera"
	"github.com/pthm-cable/driftfield/quality"
)

// ErrReleased is returned when a released buffer or backend is used again.
var ErrReleased = errors.New("renderer: resource already released")

var errAllocFailed = errors.New("renderer: allocation failed")

// Disposable is implemented by every owned graphics resource.
type Disposable interface {
	Dispose() error
}

// PointBuffer is a point cloud with per-point position, colour and size.
// Positions and Colors hold three floats per point.
type PointBuffer struct {
	Positions []float32
	Colors    []float32
	Sizes     []float32
	Count     int

	release  func() error
	released bool
}

// NewPointBuffer allocates a point buffer with n entries. release is called
// once on Dispose and may be nil.
func NewPointBuffer(n int, release func() error) *PointBuffer {
	return &PointBuffer{
		Positions: make([]float32, n*3),
		Colors:    make([]float32, n*3),
		Sizes:     make([]float32, n),
		Count:     n,
		release:   release,
	}
}

// Released reports whether Dispose has been called.
func (b *PointBuffer) Released() bool {
	return b.released
}

// Dispose releases the buffer. A second call returns ErrReleased.
func (b *PointBuffer) Dispose() error {
	if b.released {
		return ErrReleased
	}
	b.released = true
	b.Positions, b.Colors, b.Sizes = nil, nil, nil
	b.Count = 0
	if b.release != nil {
		return b.release()
	}
	return nil
}

// LineBuffer is a fixed-capacity set of line segments with per-vertex colour.
// Positions and Colors hold six floats per segment; only the first Count
// segments are live, the remainder are zeroed.
type LineBuffer struct {
	Positions []float32
	Colors    []float32
	Count     int

	capacity int
	release  func() error
	released bool
}

// NewLineBuffer allocates a line buffer with room for m segments.
func NewLineBuffer(m int, release func() error) *LineBuffer {
	return &LineBuffer{
		Positions: make([]float32, m*6),
		Colors:    make([]float32, m*6),
		capacity:  m,
		release:   release,
	}
}

// Cap returns the maximum number of segments.
func (b *LineBuffer) Cap() int {
	return b.capacity
}

// Released reports whether Dispose has been called.
func (b *LineBuffer) Released() bool {
	return b.released
}

// Dispose releases the buffer. A second call returns ErrReleased.
func (b *LineBuffer) Dispose() error {
	if b.released {
		return ErrReleased
	}
	b.released = true
	b.Positions, b.Colors = nil, nil
	b.Count, b.capacity = 0, 0
	if b.release != nil {
		return b.release()
	}
	return nil
}

// HUD holds the status values shown on top of the field.
type HUD struct {
	Title       string
	Section     string
	FPS         float64
	MeanFPS     float64
	Tier        quality.Tier
	Particles   int
	Connections int
	AutoQuality bool
	Visible     bool // Whether the HUD should be drawn at all
}

// Backend is a graphics backend able to draw an additive point cloud and
// transparent line segments.
type Backend interface {
	Disposable

	// AllocatePoints allocates a point-cloud buffer with n entries.
	AllocatePoints(n int) (*PointBuffer, error)
	// AllocateLines allocates a line-segment buffer with room for m segments.
	AllocateLines(m int) (*LineBuffer, error)
	// Submit queues the buffers for the current frame. lines may be nil.
	Submit(points *PointBuffer, lines *LineBuffer)
	// Present draws the queued buffers from the given view and ends the frame.
	Present(view camera.View, hud HUD)
	// SetTier lets the backend toggle tier-dependent extras.
	SetTier(tier quality.Tier)
}

// Registry releases Disposables in reverse acquisition order.
type Registry struct {
	names []string
	items []Disposable
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Track adds a resource to the registry and returns it.
func (r *Registry) Track(name string, d Disposable) Disposable {
	r.names = append(r.names, name)
	r.items = append(r.items, d)
	return d
}

// Len returns the number of tracked resources.
func (r *Registry) Len() int {
	return len(r.items)
}

// DisposeAll releases every tracked resource, newest first, and empties the
// registry. All resources are released even if some fail; the errors are joined.
func (r *Registry) DisposeAll() error {
	var errs []error
	for i := len(r.items) - 1; i >= 0; i-- {
		if err := r.items[i].Dispose(); err != nil {
			errs = append(errs, fmt.Errorf("disposing %s: %w", r.names[i], err))
		}
	}
	r.names, r.items = nil, nil
	return errors.Join(errs...)
}

// DisposeFunc adapts a function to Disposable.
type DisposeFunc func() error

// Dispose calls f.
func (f DisposeFunc) Dispose() error {
	return f()
}
