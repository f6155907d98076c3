package systems

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/driftfield/config"
	"github.com/pthm-cable/driftfield/quality"
)

// TierOptions holds the per-tier settings the field needs.
type TierOptions struct {
	Fraction    float64 // Share of MaxParticles
	Connections bool
	PointScale  float64
}

// Options configures a ParticleField.
type Options struct {
	MaxParticles       int
	Palette            [][3]float32
	MouseRadius        float64
	PushStrength       float64
	ConnectionDistance float64
	MaxConnections     int
	Speed              float64
	GlobalPhaseRate    float64
	AmplitudeMin       float64
	AmplitudeMax       float64
	FrequencyMin       float64
	FrequencyMax       float64
	PointSize          float64
	Bounds             r3.Box
	Tiers              [3]TierOptions // Indexed by quality.Tier
}

// OptionsFromConfig builds field options from the loaded configuration.
// maxParticles is the high-tier budget after device adjustments.
func OptionsFromConfig(cfg *config.Config, maxParticles int) Options {
	f := cfg.Field
	half := r3.Vec{X: f.Bounds[0], Y: f.Bounds[1], Z: f.Bounds[2]}
	opts := Options{
		MaxParticles:       maxParticles,
		Palette:            cfg.Derived.Palette,
		MouseRadius:        f.MouseRadius,
		PushStrength:       f.PushStrength,
		ConnectionDistance: f.ConnectionDistance,
		MaxConnections:     f.MaxConnections,
		Speed:              f.Speed,
		GlobalPhaseRate:    f.GlobalPhaseRate,
		AmplitudeMin:       f.AmplitudeMin,
		AmplitudeMax:       f.AmplitudeMax,
		FrequencyMin:       f.FrequencyMin,
		FrequencyMax:       f.FrequencyMax,
		PointSize:          f.PointSize,
		Bounds:             r3.Box{Min: r3.Scale(-1, half), Max: half},
	}
	for _, t := range quality.Tiers {
		tc := cfg.Tiers.For(t)
		opts.Tiers[t] = TierOptions{
			Fraction:    tc.Fraction,
			Connections: tc.Connections,
			PointScale:  tc.PointScale,
		}
	}
	return opts
}

// ParticleCountForTier returns floor(MaxParticles * fraction) for the tier.
// The fraction is clamped to [0, 1], so no tier exceeds MaxParticles.
func (o Options) ParticleCountForTier(t quality.Tier) int {
	if !t.Valid() || o.MaxParticles <= 0 {
		return 0
	}
	f := o.Tiers[t].Fraction
	if !(f > 0) {
		return 0
	}
	return int(float64(o.MaxParticles) * min(f, 1))
}

// lineCapacity returns the segment capacity for the tier.
func (o Options) lineCapacity(t quality.Tier) int {
	if !t.Valid() || !o.Tiers[t].Connections || o.MaxConnections < 0 {
		return 0
	}
	return o.MaxConnections
}
