package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/driftfield/config"
	"github.com/pthm-cable/driftfield/quality"
)

// MonitorOptions holds the sampling window and tier thresholds.
type MonitorOptions struct {
	History  int           // Number of FPS samples averaged
	Interval time.Duration // Sampling period

	DropToLow    float64 // mean below this on medium or high -> low
	MediumToHigh float64 // mean above this on medium -> high
	LowToMedium  float64 // mean above this on low -> medium
	HighToMedium float64 // mean below this on high -> medium
}

// MonitorOptionsFromConfig builds monitor options from the loaded configuration.
func MonitorOptionsFromConfig(cfg *config.Config) MonitorOptions {
	m := cfg.Monitor
	return MonitorOptions{
		History:      m.History,
		Interval:     cfg.Derived.Interval,
		DropToLow:    m.DropToLow,
		MediumToHigh: m.MediumToHigh,
		LowToMedium:  m.LowToMedium,
		HighToMedium: m.HighToMedium,
	}
}

// TierObserver is notified synchronously when the monitor changes tier.
type TierObserver func(from, to quality.Tier, stats MonitorStats)

// MonitorStats is a point-in-time view of the monitor.
type MonitorStats struct {
	FPS     float64 // Most recent sample
	MeanFPS float64
	Tier    quality.Tier
	Samples int
	Running bool
}

// LogValue implements slog.LogValuer for structured logging.
func (s MonitorStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("fps", s.FPS),
		slog.Float64("mean_fps", s.MeanFPS),
		slog.String("tier", s.Tier.String()),
		slog.Int("samples", s.Samples),
		slog.Bool("running", s.Running),
	)
}

// FPSMonitor samples frame rate over fixed intervals and recommends a
// quality tier from the rolling mean. It is not safe for concurrent use.
type FPSMonitor struct {
	opts     MonitorOptions
	tier     quality.Tier
	observer TierObserver
	onSample func(MonitorStats)

	// Rolling FPS history, oldest overwritten first
	samples []float64
	next    int
	count   int
	window  []float64 // Scratch for the mean, in insertion order

	running     bool
	windowStart time.Time
	frames      int
	last        float64
	mean        float64
}

// NewFPSMonitor creates a stopped monitor at the given tier.
func NewFPSMonitor(opts MonitorOptions, tier quality.Tier, observer TierObserver) *FPSMonitor {
	if opts.History < 1 {
		opts.History = 10
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	return &FPSMonitor{
		opts:     opts,
		tier:     tier,
		observer: observer,
		samples:  make([]float64, opts.History),
		window:   make([]float64, 0, opts.History),
	}
}

// OnSample installs a hook called after every sample, once the tier rules
// have been applied.
func (m *FPSMonitor) OnSample(fn func(MonitorStats)) {
	m.onSample = fn
}

// Start begins counting frames from now. Calling Start while running
// restarts the current interval.
func (m *FPSMonitor) Start(now time.Time) {
	m.running = true
	m.windowStart = now
	m.frames = 0
}

// Stop pauses sampling. The history is kept.
func (m *FPSMonitor) Stop() {
	m.running = false
	m.frames = 0
}

// Running reports whether the monitor is sampling.
func (m *FPSMonitor) Running() bool {
	return m.running
}

// Tick counts one frame. Once an interval has elapsed the frame count over
// the measured span is pushed as an FPS sample and the interval restarts at
// now, so a stall longer than the interval lowers the sample.
func (m *FPSMonitor) Tick(now time.Time) {
	if !m.running {
		return
	}
	m.frames++
	span := now.Sub(m.windowStart)
	if span < m.opts.Interval {
		return
	}
	fps := float64(m.frames) / span.Seconds()
	m.frames = 0
	m.windowStart = now
	m.Push(fps)
}

// Push records an FPS sample and applies the tier rules to the rolling mean.
// The first matching rule wins:
//
//	mean < DropToLow    and tier != low    -> low
//	mean > MediumToHigh and tier == medium -> high
//	mean > LowToMedium  and tier == low    -> medium
//	mean < HighToMedium and tier == high   -> medium
//
// The observer is called once when the tier changes.
func (m *FPSMonitor) Push(fps float64) {
	m.samples[m.next] = fps
	m.next = (m.next + 1) % len(m.samples)
	if m.count < len(m.samples) {
		m.count++
	}
	m.last = fps
	m.mean = stat.Mean(m.history(), nil)

	if m.onSample != nil {
		defer func() { m.onSample(m.Snapshot()) }()
	}

	next := m.tier
	switch {
	case m.mean < m.opts.DropToLow && m.tier != quality.Low:
		next = quality.Low
	case m.mean > m.opts.MediumToHigh && m.tier == quality.Medium:
		next = quality.High
	case m.mean > m.opts.LowToMedium && m.tier == quality.Low:
		next = quality.Medium
	case m.mean < m.opts.HighToMedium && m.tier == quality.High:
		next = quality.Medium
	}
	if next == m.tier {
		return
	}

	from := m.tier
	m.tier = next
	slog.Info("quality tier changed", "from", from, "to", next, "mean_fps", m.mean)
	if m.observer != nil {
		m.observer(from, next, m.Snapshot())
	}
}

// history returns the samples oldest first. The slice is reused.
func (m *FPSMonitor) history() []float64 {
	m.window = m.window[:0]
	start := (m.next - m.count + len(m.samples)) % len(m.samples)
	for i := 0; i < m.count; i++ {
		m.window = append(m.window, m.samples[(start+i)%len(m.samples)])
	}
	return m.window
}

// History returns a copy of the samples, oldest first.
func (m *FPSMonitor) History() []float64 {
	return append([]float64(nil), m.history()...)
}

// SetTier aligns the monitor with a tier chosen elsewhere, such as a manual
// override. The observer is not called.
func (m *FPSMonitor) SetTier(t quality.Tier) {
	m.tier = t
}

// Tier returns the monitor's current tier.
func (m *FPSMonitor) Tier() quality.Tier {
	return m.tier
}

// Snapshot returns the current statistics.
func (m *FPSMonitor) Snapshot() MonitorStats {
	return MonitorStats{
		FPS:     m.last,
		MeanFPS: m.mean,
		Tier:    m.tier,
		Samples: m.count,
		Running: m.running,
	}
}
