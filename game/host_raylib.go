package game

import (
	"context"
	"time"
	"unicode"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/driftfield/renderer"
	"github.com/pthm-cable/driftfield/systems"
	"github.com/pthm-cable/driftfield/ui"
)

// hiddenPoll is how long Wait sleeps between input polls while the window
// is hidden.
const hiddenPoll = 0.1

// RaylibHost reads window state and input from raylib and draws the HUD
// and quality panel through the backend's overlay hook.
type RaylibHost struct {
	keys    Keymap
	hud     *ui.HUD
	panel   *ui.QualityPanel
	legend  string
	pending []Command
	idle    bool // Hidden and already reported to the loop
}

// NewRaylibHost installs the UI overlay on backend. The window must already
// be open.
func NewRaylibHost(backend *renderer.RaylibBackend, keys Keymap) *RaylibHost {
	theme := ui.DefaultTheme()
	h := &RaylibHost{
		keys:   keys,
		hud:    ui.NewHUD(theme),
		panel:  ui.NewQualityPanel(theme, 240),
		legend: keys.Legend(),
	}
	backend.Overlay = h.drawOverlay
	return h
}

// drawOverlay runs inside the backend's frame; panel clicks become commands
// for the next frame.
func (h *RaylibHost) drawOverlay(data renderer.HUD) {
	h.hud.Draw(data)
	h.hud.DrawControls(int32(rl.GetScreenHeight()), h.legend)

	action := h.panel.Draw(data)
	if tier, ok := action.Tier(); ok {
		h.pending = append(h.pending, Command{Kind: CmdForceTier, Tier: tier})
	} else if action == ui.ActionToggleAuto {
		h.pending = append(h.pending, Command{Kind: CmdToggleAuto})
	}
}

// Wait implements Host. The first frame after the window is hidden is
// returned so the loop can suspend; after that Wait idles here, polling
// input, until the window is shown or closed.
func (h *RaylibHost) Wait(ctx context.Context) bool {
	for {
		if ctx.Err() != nil || rl.WindowShouldClose() {
			return false
		}
		if h.Visible() {
			h.idle = false
			return true
		}
		if !h.idle {
			h.idle = true
			return true
		}
		rl.WaitTime(hiddenPoll)
		rl.PollInputEvents()
	}
}

// Now implements Host.
func (h *RaylibHost) Now() time.Time {
	return time.Now()
}

// Visible implements Host.
func (h *RaylibHost) Visible() bool {
	return !rl.IsWindowMinimized() && !rl.IsWindowHidden()
}

// Pointer implements Host.
func (h *RaylibHost) Pointer() systems.Pointer {
	if !rl.IsCursorOnScreen() {
		return systems.NoPointer
	}
	w, ht := float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
	if w <= 0 || ht <= 0 {
		return systems.NoPointer
	}
	m := rl.GetMousePosition()
	return systems.At(float64(m.X)/w*2-1, -(float64(m.Y)/ht*2 - 1))
}

// Commands implements Host.
func (h *RaylibHost) Commands() []Command {
	cmds := h.pending
	h.pending = nil

	for _, r := range h.keys.Keys() {
		if rl.IsKeyPressed(int32(unicode.ToUpper(r))) {
			cmd, _ := h.keys.Lookup(r)
			cmds = append(cmds, cmd)
		}
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		cmds = append(cmds, Command{Kind: CmdQuit})
	}
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	scroll := -float64(rl.GetMouseWheelMove()) * scrollStep
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyPageDown) {
		scroll += scrollStep
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyPageUp) {
		scroll -= scrollStep
	}
	if scroll != 0 {
		cmds = append(cmds, Command{Kind: CmdScroll, Scroll: scroll})
	}
	return cmds
}
