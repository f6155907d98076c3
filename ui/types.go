package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/driftfield/quality"
)

// Theme defines the visual style for UI elements.
type Theme struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	TierLow       rl.Color
	TierMedium    rl.Color
	TierHigh      rl.Color
	Padding       int32
	LineHeight    int32
	LabelWidth    int32
	FontSize      int32
	TitleFontSize int32
	ButtonHeight  int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:       rl.Color{R: 10, G: 14, B: 20, A: 200},
		PanelBorder:   rl.Color{R: 0, G: 180, B: 180, A: 160},
		SectionHeader: rl.Color{R: 0, G: 255, B: 255, A: 255},
		LabelColor:    rl.LightGray,
		ValueColor:    rl.White,
		TierLow:       rl.Color{R: 200, G: 100, B: 100, A: 255},
		TierMedium:    rl.Color{R: 200, G: 180, B: 100, A: 255},
		TierHigh:      rl.Color{R: 100, G: 200, B: 100, A: 255},
		Padding:       10,
		LineHeight:    18,
		LabelWidth:    80,
		FontSize:      14,
		TitleFontSize: 20,
		ButtonHeight:  24,
	}
}

// TierColor returns the accent colour for a quality tier.
func (t Theme) TierColor(tier quality.Tier) rl.Color {
	switch tier {
	case quality.High:
		return t.TierHigh
	case quality.Medium:
		return t.TierMedium
	default:
		return t.TierLow
	}
}
