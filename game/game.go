// Package game drives the particle field: the frame loop, visibility
// handling, adaptive quality and the hosts that supply input.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/driftfield/camera"
	"github.com/pthm-cable/driftfield/config"
	"github.com/pthm-cable/driftfield/device"
	"github.com/pthm-cable/driftfield/quality"
	"github.com/pthm-cable/driftfield/renderer"
	"github.com/pthm-cable/driftfield/systems"
	"github.com/pthm-cable/driftfield/telemetry"
)

// scrollInfluence is the extra pointer influence at full scroll.
const scrollInfluence = 0.5

// Game owns the field, the monitor and every acquired resource.
type Game struct {
	cfg  *config.Config
	opts Options

	backend  renderer.Backend
	registry *renderer.Registry
	output   *telemetry.OutputManager

	field    *systems.ParticleField
	monitor  *telemetry.FPSMonitor
	perf     *telemetry.PerfCollector
	rig      *camera.Rig
	sections *Sections

	clock     FrameClock
	suspended bool
	auto      bool
	showHUD   bool
	quit      bool

	frame   int64
	elapsed time.Duration // Visible time since the loop started
	lastLog time.Duration

	batteryAt  time.Time // Last battery check
	lowBattery bool
}

// New builds the field on backend with a high-tier budget of maxParticles.
// The backend is tracked by the game's registry and released by Close, also
// when New fails.
func New(cfg *config.Config, backend renderer.Backend, maxParticles int, opts Options) (*Game, error) {
	g := &Game{
		cfg:       cfg,
		opts:      opts,
		backend:   backend,
		registry:  renderer.NewRegistry(),
		suspended: true,
		auto:      opts.AutoQuality,
		showHUD:   true,
	}
	g.registry.Track("backend", backend)

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, g.fail(fmt.Errorf("creating output: %w", err))
	}
	g.output = output
	g.registry.Track("output", renderer.DisposeFunc(output.Close))
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	field, err := g.newField(systems.OptionsFromConfig(cfg, maxParticles))
	if err != nil {
		return nil, g.fail(err)
	}
	g.field = field
	tier := field.Tier()
	g.registry.Track("field", field)

	g.perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	field.SetPhaseTimer(g.perf)
	backend.SetTier(tier)

	g.monitor = telemetry.NewFPSMonitor(telemetry.MonitorOptionsFromConfig(cfg), tier, g.onTierChange)
	g.monitor.OnSample(g.onSample)

	c := cfg.Camera
	g.rig = camera.NewRig(camera.Options{
		Distance:    c.Distance,
		ScrollDepth: c.ScrollDepth,
		FovY:        c.FovY,
		Near:        c.Near,
		Far:         c.Far,
		FPS:         cfg.Screen.TargetFPS,
		Frequency:   c.Frequency,
		Damping:     c.Damping,
	})
	g.rig.Snap()
	g.sections = NewSections(cfg.Sections)

	slog.Info("particle field ready",
		"tier", tier,
		"particles", field.Len(),
		"max_particles", maxParticles,
		"auto_quality", g.auto,
	)
	return g, nil
}

// newField seeds a field at the initial tier, or restores the snapshot.
func (g *Game) newField(fieldOpts systems.Options) (*systems.ParticleField, error) {
	rng := rand.New(rand.NewSource(g.opts.Seed))
	if s := g.opts.Restore; s != nil {
		field, err := s.Restore(g.backend, fieldOpts)
		if err != nil {
			return nil, err
		}
		field.UseRand(rng)
		slog.Info("field restored from snapshot", "frame", s.Frame, "tier", s.Tier, "particles", field.Len())
		return field, nil
	}
	field, err := systems.NewParticleField(g.backend, fieldOpts, g.opts.Tier, rng)
	if err != nil {
		return nil, fmt.Errorf("creating particle field: %w", err)
	}
	return field, nil
}

// fail releases everything acquired so far and joins any release error.
func (g *Game) fail(err error) error {
	if derr := g.registry.DisposeAll(); derr != nil {
		return fmt.Errorf("%w (cleanup: %v)", err, derr)
	}
	return err
}

// Run steps the game once per host frame until the host closes, a quit
// command arrives, the frame limit is reached or ctx is done.
func (g *Game) Run(ctx context.Context, h Host) error {
	slog.Info("render loop starting", "seed", g.opts.Seed, "max_frames", g.opts.MaxFrames)
	for !g.quit && h.Wait(ctx) {
		g.Step(h)
		if g.opts.MaxFrames > 0 && g.frame >= g.opts.MaxFrames {
			slog.Info("max frames reached", "frame", g.frame)
			break
		}
	}
	g.monitor.Stop()
	slog.Info("render loop stopped", "frame", g.frame, "elapsed", g.elapsed)
	return ctx.Err()
}

// Step runs one frame. While the host is hidden the loop is suspended:
// nothing is updated or drawn and the monitor is paused.
func (g *Game) Step(h Host) {
	now := h.Now()
	if !h.Visible() {
		g.suspend()
		g.apply(h.Commands(), now)
		return
	}
	if g.suspended {
		g.resume(now)
	}

	var delta time.Duration
	g.clock, delta = g.clock.Advance(now, g.cfg.Derived.MaxDelta)

	g.perf.StartFrame()
	g.monitor.Tick(now)
	g.checkBattery(now)
	g.apply(h.Commands(), now)
	if g.quit {
		return
	}

	g.rig.Step()
	g.field.SetInfluence(1 + g.rig.Scroll()*scrollInfluence)

	pointer := h.Pointer()
	if !g.opts.HoverEffects {
		pointer = systems.NoPointer
	}
	g.field.Update(milliseconds(delta), pointer)

	g.perf.StartPhase(telemetry.PhaseRender)
	g.field.Render()
	g.perf.StartPhase(telemetry.PhasePresent)
	g.backend.Present(g.rig.View(), g.hud())
	g.perf.EndFrame()

	g.frame++
	g.elapsed += delta
	g.flushPerf()
}

// suspend pauses the loop until the host is visible again.
func (g *Game) suspend() {
	if g.suspended {
		return
	}
	g.suspended = true
	g.clock = FrameClock{}
	g.monitor.Stop()
	slog.Info("render loop suspended", "frame", g.frame)
}

// resume restarts timing from now, so the hidden period never shows up as
// a frame delta or an FPS drop.
func (g *Game) resume(now time.Time) {
	g.suspended = false
	g.clock = FrameClock{}
	g.perf.Reset()
	if g.auto {
		g.monitor.Start(now)
	}
	if g.frame > 0 {
		slog.Info("render loop resumed", "frame", g.frame)
	}
}

// apply executes queued commands in order.
func (g *Game) apply(cmds []Command, now time.Time) {
	for _, cmd := range cmds {
		switch cmd.Kind {
		case CmdSection:
			if s, ok := g.sections.Select(cmd.Section); ok {
				g.rig.SetScroll(s.Progress)
			}
		case CmdScroll:
			g.rig.SetScroll(g.rig.Scroll() + cmd.Scroll)
			g.sections.Follow(g.rig.Scroll())
		case CmdForceTier:
			g.forceTier(cmd.Tier)
		case CmdToggleAuto:
			g.setAuto(!g.auto, now)
		case CmdToggleHUD:
			g.showHUD = !g.showHUD
		case CmdSnapshot:
			g.saveSnapshot("manual")
		case CmdQuit:
			g.quit = true
		}
	}
}

// forceTier switches tier by hand and hands quality control to the user.
func (g *Game) forceTier(t quality.Tier) {
	if !t.Valid() {
		return
	}
	g.setAuto(false, time.Time{})
	if t == g.field.Tier() {
		return
	}
	stats := g.monitor.Snapshot()
	if g.changeTier(g.field.Tier(), t, stats.MeanFPS, "manual") {
		g.monitor.SetTier(t)
	}
}

// setAuto enables or disables monitor-driven quality.
func (g *Game) setAuto(on bool, now time.Time) {
	if on == g.auto {
		return
	}
	g.auto = on
	if on {
		g.monitor.SetTier(g.field.Tier())
		if !g.suspended {
			g.monitor.Start(now)
		}
	} else {
		g.monitor.Stop()
	}
	slog.Info("auto quality toggled", "enabled", on, "tier", g.field.Tier())
}

// onTierChange is the monitor's observer. It runs inside monitor.Tick,
// before the frame's update, so the rebuild lands between frames. When the
// change is refused or fails the monitor is realigned with the field.
func (g *Game) onTierChange(from, to quality.Tier, stats telemetry.MonitorStats) {
	if to == quality.High && g.lowBattery {
		slog.Info("tier increase held on low battery", "from", from, "mean_fps", stats.MeanFPS)
		g.monitor.SetTier(g.field.Tier())
		return
	}
	if !g.changeTier(from, to, stats.MeanFPS, "monitor") {
		g.monitor.SetTier(g.field.Tier())
	}
}

// checkBattery reads the battery once per monitor interval. A discharging
// battery under device.LowBatteryLevel drops the high tier to medium.
func (g *Game) checkBattery(now time.Time) {
	if g.opts.Device == nil {
		return
	}
	if !g.batteryAt.IsZero() && now.Sub(g.batteryAt) < g.cfg.Derived.Interval {
		return
	}
	g.batteryAt = now

	b := g.opts.Device.Capabilities().Battery
	low := b.Low()
	if low != g.lowBattery {
		slog.Info("battery state changed", "low", low, "level", batteryLevel(b))
		g.lowBattery = low
	}
	if !low || g.field.Tier() != quality.High {
		return
	}
	stats := g.monitor.Snapshot()
	if g.changeTier(quality.High, quality.Medium, stats.MeanFPS, "battery") {
		g.monitor.SetTier(quality.Medium)
	}
}

func batteryLevel(b *device.Battery) float64 {
	if b == nil {
		return -1
	}
	return b.Level
}

// changeTier rebuilds the field at a new tier and records the transition.
func (g *Game) changeTier(from, to quality.Tier, meanFPS float64, cause string) bool {
	if err := g.field.Rebuild(to); err != nil {
		slog.Error("failed to rebuild particle field", "from", from, "to", to, "error", err)
		return false
	}
	g.backend.SetTier(to)
	slog.Info("particle field rebuilt", "tier", to, "particles", g.field.Len(), "cause", cause)

	rec := telemetry.TransitionRecord{
		ElapsedSec: g.elapsed.Seconds(),
		From:       from,
		To:         to,
		MeanFPS:    meanFPS,
		Cause:      cause,
	}
	if err := g.output.WriteTransition(rec); err != nil {
		slog.Error("failed to write transition", "error", err)
	}
	return true
}

// saveSnapshot writes the field state to the snapshot directory.
func (g *Game) saveSnapshot(label string) {
	s := telemetry.CaptureField(g.field, g.frame, label)
	path, err := telemetry.SaveSnapshot(s, g.output.SnapshotDir())
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "particles", len(s.Seeds))
}

// hud collects the values shown on screen.
func (g *Game) hud() renderer.HUD {
	stats := g.monitor.Snapshot()
	return renderer.HUD{
		Title:       g.cfg.Screen.Title,
		Section:     g.sections.Current().Title,
		FPS:         stats.FPS,
		MeanFPS:     stats.MeanFPS,
		Tier:        g.field.Tier(),
		Particles:   g.field.Len(),
		Connections: len(g.field.Connections()),
		AutoQuality: g.auto,
		Visible:     g.showHUD,
	}
}

// Close releases every resource in reverse acquisition order.
func (g *Game) Close() error {
	return g.registry.DisposeAll()
}

// Field returns the particle field.
func (g *Game) Field() *systems.ParticleField {
	return g.field
}

// Monitor returns the performance monitor.
func (g *Game) Monitor() *telemetry.FPSMonitor {
	return g.monitor
}

// Rig returns the camera rig.
func (g *Game) Rig() *camera.Rig {
	return g.rig
}

// Sections returns the section table.
func (g *Game) Sections() *Sections {
	return g.sections
}

// Frame returns the number of frames rendered.
func (g *Game) Frame() int64 {
	return g.frame
}

// Elapsed returns the visible time the loop has run.
func (g *Game) Elapsed() time.Duration {
	return g.elapsed
}

// Suspended reports whether the loop is paused for a hidden host.
func (g *Game) Suspended() bool {
	return g.suspended
}

// AutoQuality reports whether the monitor controls the tier.
func (g *Game) AutoQuality() bool {
	return g.auto
}

// HUDVisible reports whether the HUD is drawn.
func (g *Game) HUDVisible() bool {
	return g.showHUD
}
