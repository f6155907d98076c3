package game

import (
	"context"
	"time"

	"github.com/pthm-cable/driftfield/systems"
)

// HeadlessHost runs the loop on a virtual clock, one fixed step per frame,
// as fast as the CPU allows.
type HeadlessHost struct {
	now     time.Time
	step    time.Duration
	frames  int64
	visible bool
	pointer systems.Pointer
	queue   []Command
}

// NewHeadlessHost creates a visible host whose clock starts at start.
func NewHeadlessHost(start time.Time, step time.Duration) *HeadlessHost {
	return &HeadlessHost{now: start, step: step, visible: true}
}

// Wait advances the virtual clock by one step after the first frame.
func (h *HeadlessHost) Wait(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	if h.frames > 0 {
		h.now = h.now.Add(h.step)
	}
	h.frames++
	return true
}

// Now implements Host.
func (h *HeadlessHost) Now() time.Time {
	return h.now
}

// Visible implements Host.
func (h *HeadlessHost) Visible() bool {
	return h.visible
}

// SetVisible simulates the output being hidden or shown.
func (h *HeadlessHost) SetVisible(v bool) {
	h.visible = v
}

// Pointer implements Host.
func (h *HeadlessHost) Pointer() systems.Pointer {
	return h.pointer
}

// SetPointer moves the simulated pointer.
func (h *HeadlessHost) SetPointer(p systems.Pointer) {
	h.pointer = p
}

// Push queues a command for the next frame.
func (h *HeadlessHost) Push(cmd Command) {
	h.queue = append(h.queue, cmd)
}

// Commands implements Host.
func (h *HeadlessHost) Commands() []Command {
	cmds := h.queue
	h.queue = nil
	return cmds
}

// Frames returns the number of frames Wait has granted.
func (h *HeadlessHost) Frames() int64 {
	return h.frames
}
