package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/driftfield/quality"
)

// FPSRecord is one row of fps.csv, written each time the monitor samples.
type FPSRecord struct {
	ElapsedSec  float64      `csv:"elapsed_sec"`
	FPS         float64      `csv:"fps"`
	MeanFPS     float64      `csv:"mean_fps"`
	P10FPS      float64      `csv:"p10_fps"`
	P50FPS      float64      `csv:"p50_fps"`
	P90FPS      float64      `csv:"p90_fps"`
	Tier        quality.Tier `csv:"tier"`
	Particles   int          `csv:"particles"`
	Connections int          `csv:"connections"`
}

// TransitionRecord is one row of transitions.csv.
type TransitionRecord struct {
	ElapsedSec float64      `csv:"elapsed_sec"`
	From       quality.Tier `csv:"from"`
	To         quality.Tier `csv:"to"`
	MeanFPS    float64      `csv:"mean_fps"`
	Cause      string       `csv:"cause"` // "monitor" or "manual"
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Summarize returns the mean and the 10th, 50th and 90th percentiles.
func Summarize(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	mean = stat.Mean(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return mean, Percentile(sorted, 0.10), Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// NewFPSRecord builds an fps.csv row from the monitor's history.
func NewFPSRecord(elapsedSec float64, history []float64, stats MonitorStats, particles, connections int) FPSRecord {
	_, p10, p50, p90 := Summarize(history)
	return FPSRecord{
		ElapsedSec:  elapsedSec,
		FPS:         stats.FPS,
		MeanFPS:     stats.MeanFPS,
		P10FPS:      p10,
		P50FPS:      p50,
		P90FPS:      p90,
		Tier:        stats.Tier,
		Particles:   particles,
		Connections: connections,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (r FPSRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("elapsed_sec", r.ElapsedSec),
		slog.Float64("fps", r.FPS),
		slog.Float64("mean_fps", r.MeanFPS),
		slog.Float64("p10_fps", r.P10FPS),
		slog.Float64("p90_fps", r.P90FPS),
		slog.String("tier", r.Tier.String()),
		slog.Int("particles", r.Particles),
		slog.Int("connections", r.Connections),
	)
}
