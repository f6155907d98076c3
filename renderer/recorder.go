package renderer

import (
	"github.com/pthm-cable/driftfield/camera"
	"github.com/pthm-cable/driftfield/quality"
)

// Recorder is a backend that draws nothing. It tracks live buffers and the
// last submitted frame, for headless runs and tests.
type Recorder struct {
	LivePoints int // Point buffers allocated and not yet released
	LiveLines  int // Line buffers allocated and not yet released
	Submits    int
	Presents   int
	LastPoints *PointBuffer
	LastLines  *LineBuffer
	LastView   camera.View
	LastHUD    HUD
	Tier       quality.Tier
	FailAllocs bool // Makes every allocation fail
	released   bool
}

// NewRecorder creates a recording backend.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// AllocatePoints implements Backend.
func (r *Recorder) AllocatePoints(n int) (*PointBuffer, error) {
	if r.released {
		return nil, ErrReleased
	}
	if r.FailAllocs {
		return nil, errAllocFailed
	}
	r.LivePoints++
	return NewPointBuffer(n, func() error {
		r.LivePoints--
		return nil
	}), nil
}

// AllocateLines implements Backend.
func (r *Recorder) AllocateLines(m int) (*LineBuffer, error) {
	if r.released {
		return nil, ErrReleased
	}
	if r.FailAllocs {
		return nil, errAllocFailed
	}
	r.LiveLines++
	return NewLineBuffer(m, func() error {
		r.LiveLines--
		return nil
	}), nil
}

// Submit implements Backend.
func (r *Recorder) Submit(points *PointBuffer, lines *LineBuffer) {
	r.Submits++
	r.LastPoints = points
	r.LastLines = lines
}

// Present implements Backend.
func (r *Recorder) Present(view camera.View, hud HUD) {
	r.Presents++
	r.LastView = view
	r.LastHUD = hud
}

// SetTier implements Backend.
func (r *Recorder) SetTier(tier quality.Tier) {
	r.Tier = tier
}

// Dispose implements Disposable.
func (r *Recorder) Dispose() error {
	if r.released {
		return ErrReleased
	}
	r.released = true
	return nil
}
