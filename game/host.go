package game

import (
	"context"
	"time"

	"github.com/pthm-cable/driftfield/systems"
)

// Host drives the loop: it paces frames and supplies time, visibility,
// pointer and queued commands. All methods are called on the loop goroutine.
type Host interface {
	// Wait blocks until the next frame is due. It returns false when the
	// host has closed or ctx is done.
	Wait(ctx context.Context) bool
	// Now returns the timestamp of the current frame.
	Now() time.Time
	// Visible reports whether the output is visible to the user.
	Visible() bool
	// Pointer returns the pointer in normalized device coordinates.
	Pointer() systems.Pointer
	// Commands drains the commands queued since the last call.
	Commands() []Command
}
