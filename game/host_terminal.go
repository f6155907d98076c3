package game

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/driftfield/systems"
)

// TerminalHost paces frames with a ticker and reads input from a tcell
// screen. Terminal focus events drive visibility.
type TerminalHost struct {
	screen tcell.Screen
	keys   Keymap
	frame  time.Duration

	ticker *time.Ticker
	events chan tcell.Event
	done   chan struct{}
	group  *errgroup.Group

	now     time.Time
	visible bool
	closed  bool
	pointer systems.Pointer
	pending []Command
}

// NewTerminalHost creates a host for an initialized screen. frame is the
// target frame period.
func NewTerminalHost(screen tcell.Screen, keys Keymap, frame time.Duration) *TerminalHost {
	if frame <= 0 {
		frame = time.Second / 30
	}
	return &TerminalHost{
		screen:  screen,
		keys:    keys,
		frame:   frame,
		events:  make(chan tcell.Event, 64),
		done:    make(chan struct{}),
		visible: true,
	}
}

// Start enables mouse and focus reporting and starts the event pump. The
// pump forwards events until the screen is finalized or Close is called.
func (h *TerminalHost) Start() {
	h.screen.EnableMouse(tcell.MouseMotionEvents)
	h.screen.EnableFocus()
	h.ticker = time.NewTicker(h.frame)

	h.group = new(errgroup.Group)
	h.group.Go(func() error {
		defer close(h.events)
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return nil
			}
			select {
			case h.events <- ev:
			case <-h.done:
				return nil
			}
		}
	})
}

// Close stops the ticker and waits for the event pump. The screen must be
// finalized first so that PollEvent returns.
func (h *TerminalHost) Close() error {
	if h.group == nil {
		return nil
	}
	h.ticker.Stop()
	close(h.done)
	err := h.group.Wait()
	h.group = nil
	return err
}

// Wait handles input events until the next tick. A focus change returns
// immediately. While hidden, Wait blocks until focus returns or a command
// is queued.
func (h *TerminalHost) Wait(ctx context.Context) bool {
	for !h.closed {
		// Hidden: ticks are ignored and only input wakes the loop
		ticks := h.ticker.C
		if !h.visible {
			ticks = nil
		}
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-h.events:
			if !ok {
				h.closed = true
				return false
			}
			visible := h.visible
			h.handle(ev)
			if h.visible != visible || (!h.visible && len(h.pending) > 0) {
				h.now = time.Now()
				return true
			}
		case t := <-ticks:
			h.now = t
			return true
		}
	}
	return false
}

// handle translates one tcell event into host state or queued commands.
func (h *TerminalHost) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			h.pending = append(h.pending, Command{Kind: CmdQuit})
		case tcell.KeyDown, tcell.KeyPgDn:
			h.pending = append(h.pending, Command{Kind: CmdScroll, Scroll: scrollStep})
		case tcell.KeyUp, tcell.KeyPgUp:
			h.pending = append(h.pending, Command{Kind: CmdScroll, Scroll: -scrollStep})
		case tcell.KeyRune:
			if cmd, ok := h.keys.Lookup(ev.Rune()); ok {
				h.pending = append(h.pending, cmd)
			}
		}
	case *tcell.EventMouse:
		btn := ev.Buttons()
		if btn&tcell.WheelUp != 0 {
			h.pending = append(h.pending, Command{Kind: CmdScroll, Scroll: -scrollStep})
		}
		if btn&tcell.WheelDown != 0 {
			h.pending = append(h.pending, Command{Kind: CmdScroll, Scroll: scrollStep})
		}
		h.pointer = h.normalize(ev.Position())
	case *tcell.EventFocus:
		h.visible = ev.Focused
	case *tcell.EventResize:
		h.screen.Sync()
	}
}

// normalize maps a cell position to normalized device coordinates.
func (h *TerminalHost) normalize(x, y int) systems.Pointer {
	cols, rows := h.screen.Size()
	if cols <= 0 || rows <= 0 || x < 0 || y < 0 || x >= cols || y >= rows {
		return systems.NoPointer
	}
	nx := (float64(x)+0.5)/float64(cols)*2 - 1
	ny := -((float64(y)+0.5)/float64(rows)*2 - 1)
	return systems.At(nx, ny)
}

// Now implements Host.
func (h *TerminalHost) Now() time.Time {
	if h.now.IsZero() {
		return time.Now()
	}
	return h.now
}

// Visible implements Host.
func (h *TerminalHost) Visible() bool {
	return h.visible
}

// Pointer implements Host.
func (h *TerminalHost) Pointer() systems.Pointer {
	return h.pointer
}

// Commands implements Host.
func (h *TerminalHost) Commands() []Command {
	cmds := h.pending
	h.pending = nil
	return cmds
}
