// Package ui draws the raylib overlay: a status HUD and the quality panel.
package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/driftfield/renderer"
)

// hudWidth is the fixed width of the status panel.
const hudWidth = 260

// HUD renders the status panel in the top-left corner.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD(theme Theme) *HUD {
	return &HUD{renderer: &Renderer{Theme: theme}}
}

// Draw renders the HUD.
func (h *HUD) Draw(data renderer.HUD) {
	r := h.renderer
	t := r.Theme
	lines := int32(6)
	height := t.Padding*2 + t.TitleFontSize + 4 + lines*t.LineHeight
	r.DrawPanel(t.Padding, t.Padding, hudWidth, height)

	x := t.Padding * 2
	y := t.Padding * 2
	rl.DrawText(data.Title, x, y, t.TitleFontSize, t.SectionHeader)
	y += t.TitleFontSize + 4

	mode := "auto"
	if !data.AutoQuality {
		mode = "manual"
	}
	y = r.DrawLabelValue(x, y, "Section", data.Section)
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%.0f (avg %.1f)", data.FPS, data.MeanFPS))
	y = r.DrawLabelValueColor(x, y, "Quality", data.Tier.String(), t.TierColor(data.Tier))
	y = r.DrawLabelValue(x, y, "Mode", mode)
	y = r.DrawLabelValue(x, y, "Particles", fmt.Sprintf("%d", data.Particles))
	r.DrawLabelValue(x, y, "Links", fmt.Sprintf("%d", data.Connections))
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
