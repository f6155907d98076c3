// Package device scores the host's capabilities to pick an initial quality
// tier and particle budget.
package device

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pthm-cable/driftfield/quality"
)

// Type is the device class.
type Type string

const (
	Desktop Type = "desktop"
	Tablet  Type = "tablet"
	Mobile  Type = "mobile"
)

// ParseType converts a device class name. Empty means desktop.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case "", Desktop:
		return Desktop, nil
	case Tablet:
		return Tablet, nil
	case Mobile:
		return Mobile, nil
	}
	return Desktop, fmt.Errorf("unknown device type %q", s)
}

// Graphics is the level of hardware graphics support.
type Graphics uint8

const (
	GraphicsNone   Graphics = iota // No accelerated rendering
	GraphicsBasic                  // A display but no detected GPU
	GraphicsModern                 // A GPU device is present
)

// String returns the lowercase level name.
func (g Graphics) String() string {
	switch g {
	case GraphicsBasic:
		return "basic"
	case GraphicsModern:
		return "modern"
	}
	return "none"
}

// MarshalText implements encoding.TextMarshaler.
func (g Graphics) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// ParseGraphics converts a graphics level name.
func ParseGraphics(s string) (Graphics, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return GraphicsNone, nil
	case "basic":
		return GraphicsBasic, nil
	case "modern":
		return GraphicsModern, nil
	}
	return GraphicsNone, fmt.Errorf("unknown graphics level %q", s)
}

// Battery is the aggregate battery state.
type Battery struct {
	Level    float64 `yaml:"level"` // Charge in [0, 1]
	Charging bool    `yaml:"charging"`
}

// LowBatteryLevel is the charge below which a discharging battery is low.
const LowBatteryLevel = 0.2

// Low reports whether the battery is discharging below LowBatteryLevel. An
// unknown battery is never low.
func (b *Battery) Low() bool {
	return b != nil && b.Level < LowBatteryLevel && !b.Charging
}

// Capabilities describes the host. Zero values are replaced by defaults in
// Normalize.
type Capabilities struct {
	Type       Type     `yaml:"type"`
	Cores      int      `yaml:"cores"`
	MemoryGB   float64  `yaml:"memory_gb"`
	GPU        string   `yaml:"gpu"`
	Graphics   Graphics `yaml:"graphics"`
	Touch      bool     `yaml:"touch"`
	PixelRatio float64  `yaml:"pixel_ratio"`
	Battery    *Battery `yaml:"battery,omitempty"` // nil when unknown
}

// Default memory estimates when the host does not report memory.
var defaultMemoryGB = map[Type]float64{
	Mobile:  2,
	Tablet:  4,
	Desktop: 8,
}

// Normalize fills missing values with defaults: desktop, one core, memory by
// device type, "unknown" GPU and a pixel ratio of 1.
func (c Capabilities) Normalize() Capabilities {
	if c.Type == "" {
		c.Type = Desktop
	}
	if c.Cores < 1 {
		c.Cores = 1
	}
	if !(c.MemoryGB > 0) {
		c.MemoryGB = defaultMemoryGB[c.Type]
	}
	if strings.TrimSpace(c.GPU) == "" {
		c.GPU = "unknown"
	}
	if !(c.PixelRatio > 0) {
		c.PixelRatio = 1
	}
	return c
}

// highPerformanceGPUs are substrings of GPU names that earn the top GPU score.
var highPerformanceGPUs = []string{
	"nvidia", "geforce", "gtx", "rtx", "quadro",
	"amd", "radeon", "rx ", "vega", "fury",
	"intel iris", "intel uhd", "intel hd",
}

// HighPerformanceGPU reports whether the GPU name matches a known discrete or
// recent integrated GPU family.
func HighPerformanceGPU(gpu string) bool {
	g := strings.ToLower(gpu)
	for _, ind := range highPerformanceGPUs {
		if strings.Contains(g, ind) {
			return true
		}
	}
	return false
}

// Score rates the capabilities. Higher is better; 70 and above is high
// quality, 45 and above medium.
func Score(c Capabilities) float64 {
	c = c.Normalize()
	var score float64

	switch c.Type {
	case Desktop:
		score += 30
	case Tablet:
		score += 20
	default:
		score += 10
	}

	score += min(float64(c.Cores)*5, 20)
	score += min(c.MemoryGB*3, 15)

	switch {
	case HighPerformanceGPU(c.GPU):
		score += 20
	case c.Graphics == GraphicsModern:
		score += 15
	case c.Graphics == GraphicsBasic:
		score += 10
	}

	if c.Battery.Low() {
		score -= 15
	}
	if c.PixelRatio > 2 {
		score -= 5
	}
	return score
}

// TierForScore maps a score to a tier.
func TierForScore(score float64) quality.Tier {
	switch {
	case score >= 70:
		return quality.High
	case score >= 45:
		return quality.Medium
	}
	return quality.Low
}

// RecommendedParticles returns the particle budget for a tier on a device class.
func RecommendedParticles(t quality.Tier, typ Type) int {
	switch t {
	case quality.High:
		if typ == Desktop {
			return 10000
		}
		return 7500
	case quality.Medium:
		if typ == Desktop {
			return 5000
		}
		return 3000
	case quality.Low:
		if typ == Mobile {
			return 1500
		}
		return 2500
	}
	return 5000
}

// mobileParticleCap bounds the recommended budget on mobile devices.
const mobileParticleCap = 2500

// Settings are the rendering settings recommended for a profile.
type Settings struct {
	Particles      int     `yaml:"particles"`
	Antialiasing   bool    `yaml:"antialiasing"`
	PostProcessing bool    `yaml:"post_processing"` // Noise backdrop and similar extras
	PixelRatio     float64 `yaml:"pixel_ratio"`
	HoverEffects   bool    `yaml:"hover_effects"` // Pointer-driven effects
}

// Profile is the result of scoring a host.
type Profile struct {
	Capabilities       `yaml:",inline"`
	HighPerformanceGPU bool         `yaml:"high_performance_gpu"`
	Score              float64      `yaml:"score"`
	Tier               quality.Tier `yaml:"tier"`
	Settings           Settings     `yaml:"settings"`
}

// Analyze scores normalized capabilities and derives the recommended settings.
func Analyze(c Capabilities) Profile {
	c = c.Normalize()
	score := Score(c)
	tier := TierForScore(score)

	s := Settings{
		Particles:      RecommendedParticles(tier, c.Type),
		Antialiasing:   tier != quality.Low,
		PostProcessing: tier == quality.High,
		PixelRatio:     1,
		HoverEffects:   true,
	}
	if tier == quality.High {
		s.PixelRatio = min(c.PixelRatio, 2)
	}
	if c.Type == Mobile {
		s.PostProcessing = false
		s.Particles = min(s.Particles, mobileParticleCap)
	}
	if c.Touch && c.Type != Desktop {
		s.HoverEffects = false
	}

	return Profile{
		Capabilities:       c,
		HighPerformanceGPU: HighPerformanceGPU(c.GPU),
		Score:              score,
		Tier:               tier,
		Settings:           s,
	}
}

// Source supplies host capabilities.
type Source interface {
	Capabilities() Capabilities
}

// Detect reads capabilities from src and analyzes them.
func Detect(src Source) Profile {
	p := Analyze(src.Capabilities())
	slog.Info("device profile",
		"type", p.Type,
		"cores", p.Cores,
		"memory_gb", p.MemoryGB,
		"gpu", p.GPU,
		"score", p.Score,
		"tier", p.Tier,
		"particles", p.Settings.Particles,
	)
	return p
}
