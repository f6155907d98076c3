package game

import (
	"github.com/pthm-cable/driftfield/config"
	"github.com/pthm-cable/driftfield/device"
	"github.com/pthm-cable/driftfield/quality"
	"github.com/pthm-cable/driftfield/telemetry"
)

// Options holds runtime options for the render loop.
type Options struct {
	Seed         int64
	LogStats     bool
	OutputDir    string
	MaxFrames    int64        // Stop after N rendered frames (0 = unlimited)
	Tier         quality.Tier // Initial tier
	AutoQuality  bool         // Let the monitor move the tier
	HoverEffects bool         // Whether the pointer pushes particles

	// Device, when set, is polled once per monitor interval; a low battery
	// caps the tier at medium.
	Device device.Source

	// Restore, when set, replaces the seeded field; its tier overrides Tier.
	Restore *telemetry.FieldSnapshot
}

// OptionsForProfile returns options seeded from a device profile: the
// profile's tier, auto quality when the monitor is enabled, and its hover
// setting.
func OptionsForProfile(cfg *config.Config, p device.Profile) Options {
	return Options{
		Tier:         p.Tier,
		AutoQuality:  cfg.Monitor.Enabled,
		HoverEffects: p.Settings.HoverEffects,
	}
}

// ParticleBudget returns the high-tier particle budget. A zero
// field.max_particles defers to the profile's recommendation; mobile
// devices are capped at field.mobile_max_particles.
func ParticleBudget(cfg *config.Config, p device.Profile) int {
	n := cfg.Field.MaxParticles
	if n <= 0 {
		n = p.Settings.Particles
	}
	if p.Type == device.Mobile && cfg.Field.MobileMaxParticles > 0 {
		n = min(n, cfg.Field.MobileMaxParticles)
	}
	return n
}
