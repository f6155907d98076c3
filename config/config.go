// Package config provides configuration loading and access for the particle field.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/driftfield/quality"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Field     FieldConfig     `yaml:"field"`
	Tiers     TiersConfig     `yaml:"tiers"`
	Monitor   MonitorConfig   `yaml:"monitor"`
	Loop      LoopConfig      `yaml:"loop"`
	Camera    CameraConfig    `yaml:"camera"`
	Render    RenderConfig    `yaml:"render"`
	Device    DeviceConfig    `yaml:"device"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Sections  []SectionConfig `yaml:"sections"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// FieldConfig holds particle field parameters.
type FieldConfig struct {
	MaxParticles       int        `yaml:"max_particles"`        // High-tier budget (0 = device recommendation)
	MobileMaxParticles int        `yaml:"mobile_max_particles"` // Budget cap on mobile-class devices
	Palette            []string   `yaml:"palette"`              // Hex colours, e.g. "#00ffff"
	MouseRadius        float64    `yaml:"mouse_radius"`
	PushStrength       float64    `yaml:"push_strength"` // Displacement at the pointer centre
	ConnectionDistance float64    `yaml:"connection_distance"`
	MaxConnections     int        `yaml:"max_connections"`
	Speed              float64    `yaml:"speed"`             // Time scale for the wave function
	GlobalPhaseRate    float64    `yaml:"global_phase_rate"` // Shared phase drift per millisecond
	AmplitudeMin       float64    `yaml:"amplitude_min"`
	AmplitudeMax       float64    `yaml:"amplitude_max"`
	FrequencyMin       float64    `yaml:"frequency_min"`
	FrequencyMax       float64    `yaml:"frequency_max"`
	PointSize          float64    `yaml:"point_size"`
	Bounds             [3]float64 `yaml:"bounds"` // Half-extents on x, y, z
}

// TierConfig holds per-tier rendering parameters.
type TierConfig struct {
	Fraction    float64 `yaml:"fraction"`    // Share of MaxParticles used at this tier
	Connections bool    `yaml:"connections"` // Whether connection lines are drawn
	PointScale  float64 `yaml:"point_scale"`
	Backdrop    bool    `yaml:"backdrop"` // Noise backdrop behind the field
}

// TiersConfig holds the tier table.
type TiersConfig struct {
	Low    TierConfig `yaml:"low"`
	Medium TierConfig `yaml:"medium"`
	High   TierConfig `yaml:"high"`
}

// For returns the settings for a tier.
func (t TiersConfig) For(tier quality.Tier) TierConfig {
	switch tier {
	case quality.High:
		return t.High
	case quality.Medium:
		return t.Medium
	default:
		return t.Low
	}
}

// MonitorConfig holds performance monitor parameters.
type MonitorConfig struct {
	Enabled      bool    `yaml:"enabled"`
	History      int     `yaml:"history"`      // Rolling FPS window capacity
	IntervalSec  float64 `yaml:"interval_sec"` // Sampling period
	DropToLow    float64 `yaml:"drop_to_low"`  // mean < this (tier != low) -> low
	MediumToHigh float64 `yaml:"medium_to_high"`
	LowToMedium  float64 `yaml:"low_to_medium"`
	HighToMedium float64 `yaml:"high_to_medium"`
}

// LoopConfig holds render loop parameters.
type LoopConfig struct {
	MaxDeltaMS float64 `yaml:"max_delta_ms"` // Clamp for a single frame's delta
	StepMS     float64 `yaml:"step_ms"`      // Virtual frame step for the headless host
}

// CameraConfig holds camera rig parameters.
type CameraConfig struct {
	Distance    float64 `yaml:"distance"`     // Base distance from the origin
	ScrollDepth float64 `yaml:"scroll_depth"` // Extra distance at full scroll
	FovY        float64 `yaml:"fov_y"`
	Near        float64 `yaml:"near"`
	Far         float64 `yaml:"far"`
	Frequency   float64 `yaml:"spring_frequency"`
	Damping     float64 `yaml:"spring_damping"`
}

// RenderConfig holds renderer parameters.
type RenderConfig struct {
	Sprite     string  `yaml:"sprite"`     // Optional particle sprite PNG
	Background string  `yaml:"background"` // Clear colour
	LineAlpha  float64 `yaml:"line_alpha"` // Connection line opacity
	NoiseSeed  int64   `yaml:"noise_seed"`

	// Backdrop noise shape; zero values use the built-in backdrop
	NoiseScale      float64 `yaml:"noise_scale"`
	NoiseOctaves    int     `yaml:"noise_octaves"`
	NoiseLacunarity float64 `yaml:"noise_lacunarity"`
	NoiseGain       float64 `yaml:"noise_gain"`
}

// DeviceConfig overrides values reported by the host capability source.
// Zero values mean "detect".
type DeviceConfig struct {
	Type       string  `yaml:"type"` // desktop, tablet, mobile
	Cores      int     `yaml:"cores"`
	MemoryGB   float64 `yaml:"memory_gb"`
	GPU        string  `yaml:"gpu"`
	Graphics   string  `yaml:"graphics"` // none, basic, modern
	Touch      bool    `yaml:"touch"`
	PixelRatio float64 `yaml:"pixel_ratio"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	LogIntervalSec      float64 `yaml:"log_interval_sec"`
}

// SectionConfig describes one page section the camera can scroll to.
type SectionConfig struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Key   string `yaml:"key"` // Keyboard shortcut
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Palette  [][3]float32  // Parsed palette as linear RGB in [0, 1]
	MaxDelta time.Duration // Loop.MaxDeltaMS as a duration
	Step     time.Duration // Loop.StepMS as a duration
	Interval time.Duration // Monitor.IntervalSec as a duration
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.Palette = c.Derived.Palette[:0]
	for _, hex := range c.Field.Palette {
		rgb, err := ParseHexColor(hex)
		if err != nil {
			return fmt.Errorf("field.palette: %w", err)
		}
		c.Derived.Palette = append(c.Derived.Palette, rgb)
	}

	for i, half := range c.Field.Bounds {
		if half <= 0 || math.IsNaN(half) || math.IsInf(half, 0) {
			return fmt.Errorf("field.bounds[%d] must be positive, got %v", i, half)
		}
	}

	for _, tier := range quality.Tiers {
		if f := c.Tiers.For(tier).Fraction; !(f >= 0 && f <= 1) {
			return fmt.Errorf("tiers.%s.fraction must be in [0, 1], got %v", tier, f)
		}
	}

	if c.Monitor.History < 1 {
		c.Monitor.History = 10
	}
	if c.Monitor.IntervalSec <= 0 {
		c.Monitor.IntervalSec = 1
	}
	if c.Loop.StepMS <= 0 {
		c.Loop.StepMS = 1000.0 / 60.0
	}

	c.Derived.MaxDelta = time.Duration(c.Loop.MaxDeltaMS * float64(time.Millisecond))
	c.Derived.Step = time.Duration(c.Loop.StepMS * float64(time.Millisecond))
	c.Derived.Interval = time.Duration(c.Monitor.IntervalSec * float64(time.Second))
	return nil
}

// ParseHexColor converts "#rrggbb", "rrggbb" or "0xrrggbb" into RGB in [0, 1].
func ParseHexColor(s string) ([3]float32, error) {
	h := strings.TrimSpace(s)
	h = strings.TrimPrefix(h, "#")
	h = strings.TrimPrefix(strings.ToLower(h), "0x")
	if len(h) != 6 {
		return [3]float32{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return [3]float32{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return [3]float32{
		float32((v>>16)&0xff) / 255,
		float32((v>>8)&0xff) / 255,
		float32(v&0xff) / 255,
	}, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
