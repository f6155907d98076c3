package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/driftfield/quality"
	"github.com/pthm-cable/driftfield/renderer"
)

// Action is a request made through the quality panel.
type Action uint8

const (
	ActionNone Action = iota
	ActionLow
	ActionMedium
	ActionHigh
	ActionToggleAuto
)

// Tier returns the tier a force action selects.
func (a Action) Tier() (quality.Tier, bool) {
	switch a {
	case ActionLow:
		return quality.Low, true
	case ActionMedium:
		return quality.Medium, true
	case ActionHigh:
		return quality.High, true
	}
	return quality.Low, false
}

// QualityPanel renders the top-right panel with tier buttons and the auto
// quality toggle.
type QualityPanel struct {
	renderer *Renderer
	width    int32
}

// NewQualityPanel creates a panel of the given width.
func NewQualityPanel(theme Theme, width int32) *QualityPanel {
	return &QualityPanel{renderer: &Renderer{Theme: theme}, width: width}
}

// panelLayout holds the screen rectangles of the panel and its buttons.
type panelLayout struct {
	panel  rl.Rectangle
	tiers  [3]rl.Rectangle // Indexed by quality.Tier
	toggle rl.Rectangle
}

// layout places the panel against the right edge of a screen screenW wide.
func (p *QualityPanel) layout(screenW int32) panelLayout {
	t := p.renderer.Theme
	x := float32(screenW - p.width - t.Padding)
	y := float32(t.Padding)
	inner := float32(p.width - 2*t.Padding)
	bh := float32(t.ButtonHeight)
	gap := float32(4)
	bw := (inner - 2*gap) / 3

	var l panelLayout
	top := y + float32(t.Padding+t.LineHeight)
	for i := range l.tiers {
		l.tiers[i] = rl.Rectangle{
			X:      x + float32(t.Padding) + float32(i)*(bw+gap),
			Y:      top,
			Width:  bw,
			Height: bh,
		}
	}
	l.toggle = rl.Rectangle{X: x + float32(t.Padding), Y: top + bh + gap, Width: inner, Height: bh}
	l.panel = rl.Rectangle{
		X:      x,
		Y:      y,
		Width:  float32(p.width),
		Height: l.toggle.Y + bh + float32(t.Padding) - y,
	}
	return l
}

// Draw renders the panel and returns the action clicked this frame, if any.
func (p *QualityPanel) Draw(hud renderer.HUD) Action {
	t := p.renderer.Theme
	l := p.layout(int32(rl.GetScreenWidth()))

	p.renderer.DrawPanel(int32(l.panel.X), int32(l.panel.Y), int32(l.panel.Width), int32(l.panel.Height))
	rl.DrawText("Quality", int32(l.panel.X)+t.Padding, int32(l.panel.Y)+t.Padding/2, t.FontSize, t.SectionHeader)

	action := ActionNone
	labels := [3]string{"Low", "Medium", "High"}
	actions := [3]Action{ActionLow, ActionMedium, ActionHigh}
	for i, tier := range quality.Tiers {
		label := labels[i]
		if tier == hud.Tier {
			label = "[" + label + "]"
		}
		if gui.Button(l.tiers[i], label) {
			action = actions[i]
		}
	}

	toggle := "Auto quality: off"
	if hud.AutoQuality {
		toggle = "Auto quality: on"
	}
	if gui.Button(l.toggle, toggle) {
		action = ActionToggleAuto
	}
	return action
}
