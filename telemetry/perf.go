package telemetry

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/driftfield/systems"
)

// Phase names for one rendered frame.
const (
	PhaseWave        = systems.PhaseWave
	PhaseConnections = systems.PhaseConnections
	PhaseRender      = "render"
	PhasePresent     = "present"
)

// phases lists every frame phase in execution order.
var phases = []string{PhaseWave, PhaseConnections, PhaseRender, PhasePresent}

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	FrameWork time.Duration // Time spent inside the frame, excluding vsync waits
	Phases    map[string]time.Duration
}

// PerfCollector tracks per-phase frame timings over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	frameStart    time.Time
	phaseStart    time.Time
	lastPhase     string

	// Wall-clock interval between frames
	lastFrameTime time.Time
	frameInterval time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartFrame begins timing a frame.
func (p *PerfCollector) StartFrame() {
	p.frameStart = time.Now()
	p.currentPhases = make(map[string]time.Duration, len(phases))
	p.lastPhase = ""
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndFrame closes the running phase and records the frame.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
		p.lastPhase = ""
	}

	p.samples[p.writeIndex] = PerfSample{
		FrameWork: now.Sub(p.frameStart),
		Phases:    p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}

	if !p.lastFrameTime.IsZero() {
		p.frameInterval = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// Reset forgets the frame interval baseline, used when the loop suspends.
func (p *PerfCollector) Reset() {
	p.lastFrameTime = time.Time{}
	p.frameInterval = 0
}

// PerfStats holds aggregated frame timing statistics.
type PerfStats struct {
	AvgWork time.Duration
	MinWork time.Duration
	MaxWork time.Duration

	// Average phase durations and their share of frame work
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	// Wall-clock interval between the last two frames
	FrameInterval time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	var fps float64
	if p.frameInterval > 0 {
		fps = float64(time.Second) / float64(p.frameInterval)
	}

	stats := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameInterval: p.frameInterval,
		FPS:           fps,
	}
	if p.sampleCount == 0 {
		return stats
	}

	var total time.Duration
	phaseSum := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.FrameWork
		if i == 0 || s.FrameWork < stats.MinWork {
			stats.MinWork = s.FrameWork
		}
		if s.FrameWork > stats.MaxWork {
			stats.MaxWork = s.FrameWork
		}
		for phase, d := range s.Phases {
			phaseSum[phase] += d
		}
	}

	stats.AvgWork = total / time.Duration(p.sampleCount)
	for phase, sum := range phaseSum {
		avg := sum / time.Duration(p.sampleCount)
		stats.PhaseAvg[phase] = avg
		if stats.AvgWork > 0 {
			stats.PhasePct[phase] = float64(avg) / float64(stats.AvgWork) * 100
		}
	}
	return stats
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_work_us", s.AvgWork.Microseconds()),
		slog.Int64("min_work_us", s.MinWork.Microseconds()),
		slog.Int64("max_work_us", s.MaxWork.Microseconds()),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Frame          int64   `csv:"frame"`
	AvgWorkUS      int64   `csv:"avg_work_us"`
	MinWorkUS      int64   `csv:"min_work_us"`
	MaxWorkUS      int64   `csv:"max_work_us"`
	FPS            float64 `csv:"fps"`
	WavePct        float64 `csv:"wave_pct"`
	ConnectionsPct float64 `csv:"connections_pct"`
	RenderPct      float64 `csv:"render_pct"`
	PresentPct     float64 `csv:"present_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(frame int64) PerfStatsCSV {
	return PerfStatsCSV{
		Frame:          frame,
		AvgWorkUS:      s.AvgWork.Microseconds(),
		MinWorkUS:      s.MinWork.Microseconds(),
		MaxWorkUS:      s.MaxWork.Microseconds(),
		FPS:            s.FPS,
		WavePct:        s.PhasePct[PhaseWave],
		ConnectionsPct: s.PhasePct[PhaseConnections],
		RenderPct:      s.PhasePct[PhaseRender],
		PresentPct:     s.PhasePct[PhasePresent],
	}
}
