package game

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/driftfield/telemetry"
)

// onSample records every monitor sample.
func (g *Game) onSample(stats telemetry.MonitorStats) {
	rec := telemetry.NewFPSRecord(g.elapsed.Seconds(), g.monitor.History(), stats, g.field.Len(), len(g.field.Connections()))
	if g.opts.LogStats {
		slog.Info("fps", "stats", rec)
	}
	if err := g.output.WriteFPS(rec); err != nil {
		slog.Error("failed to write fps", "error", err)
	}
}

// flushPerf logs and writes the per-phase frame timings once per log interval.
func (g *Game) flushPerf() {
	interval := time.Duration(g.cfg.Telemetry.LogIntervalSec * float64(time.Second))
	if interval <= 0 || g.elapsed-g.lastLog < interval {
		return
	}
	g.lastLog = g.elapsed

	stats := g.perf.Stats()
	if g.opts.LogStats {
		slog.Info("perf", "frame", g.frame, "stats", stats)
	}
	if err := g.output.WritePerf(stats, g.frame); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}
