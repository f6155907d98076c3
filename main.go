package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/ncruces/zenity"

	"github.com/pthm-cable/driftfield/config"
	"github.com/pthm-cable/driftfield/device"
	"github.com/pthm-cable/driftfield/game"
	"github.com/pthm-cable/driftfield/quality"
	"github.com/pthm-cable/driftfield/renderer"
	"github.com/pthm-cable/driftfield/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	backendName := flag.String("backend", "raylib", "Rendering backend: raylib, terminal or headless")
	logStats := flag.Bool("log-stats", false, "Output FPS and perf stats via slog")
	logFile := flag.String("log-file", "", "Write logs to this file instead of stdout")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config and snapshots")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int64("max-frames", 0, "Stop after N frames (0 = unlimited)")
	tierName := flag.String("tier", "", "Force a quality tier (low, medium, high) and disable auto quality")
	restorePath := flag.String("restore", "", "Restore the field from a snapshot file")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging). The terminal
	// backend owns stdout, so it logs only to a file.
	var logOut io.Writer = os.Stdout
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	} else if *backendName == "terminal" {
		logOut = io.Discard
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		fatal("failed to load config", err, false)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	source := device.NewHostSource(cfg.Device)
	profile := device.Detect(source)

	opts := game.OptionsForProfile(cfg, profile)
	opts.Device = source
	opts.Seed = rngSeed
	opts.LogStats = *logStats
	opts.OutputDir = *outputDir
	opts.MaxFrames = *maxFrames
	if *tierName != "" {
		t, err := quality.Parse(*tierName)
		if err != nil {
			fatal("invalid -tier", err, false)
		}
		opts.Tier = t
		opts.AutoQuality = false
	}
	if *restorePath != "" {
		s, err := telemetry.LoadSnapshot(*restorePath)
		if err != nil {
			fatal("failed to load snapshot", err, false)
		}
		opts.Restore = s
	}

	backend, host, closeHost, err := open(*backendName, cfg)
	if err != nil {
		fatal("failed to initialize backend", err, *backendName == "raylib")
	}

	g, err := game.New(cfg, backend, game.ParticleBudget(cfg, profile), opts)
	if err != nil {
		closeHost()
		fatal("failed to initialize game", err, *backendName == "raylib")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting",
		"backend", *backendName,
		"seed", rngSeed,
		"tier", opts.Tier,
		"auto_quality", opts.AutoQuality,
		"max_frames", *maxFrames,
	)

	runErr := g.Run(ctx, host)
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}
	if err := errors.Join(runErr, g.Close(), closeHost()); err != nil {
		slog.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
}

// open creates the backend and the host that drives it. closeHost must run
// after the backend is disposed.
func open(name string, cfg *config.Config) (renderer.Backend, game.Host, func() error, error) {
	keys := game.NewKeymap(cfg.Sections)
	noop := func() error { return nil }

	switch name {
	case "raylib":
		b, err := renderer.NewRaylibBackend(renderer.RaylibOptions{
			Width:      int32(cfg.Screen.Width),
			Height:     int32(cfg.Screen.Height),
			Title:      cfg.Screen.Title,
			TargetFPS:  int32(cfg.Screen.TargetFPS),
			Sprite:     cfg.Render.Sprite,
			Background: cfg.Render.Background,
			LineAlpha:  cfg.Render.LineAlpha,
			Noise:      renderer.NoiseParamsFromConfig(cfg.Render),
		})
		if err != nil {
			return nil, nil, nil, err
		}
		return b, game.NewRaylibHost(b, keys), noop, nil

	case "terminal":
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("creating terminal screen: %w", err)
		}
		if err := screen.Init(); err != nil {
			return nil, nil, nil, fmt.Errorf("initializing terminal screen: %w", err)
		}
		frame := time.Second / 30
		if cfg.Screen.TargetFPS > 0 {
			frame = time.Second / time.Duration(cfg.Screen.TargetFPS)
		}
		h := game.NewTerminalHost(screen, keys, frame)
		h.Start()
		return renderer.NewTerminalBackend(screen), h, h.Close, nil

	case "headless":
		return renderer.NewRecorder(), game.NewHeadlessHost(time.Now(), cfg.Derived.Step), noop, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown backend %q", name)
}

// fatal logs err and exits. With dialog set the error is also shown in a
// native message box, for windowed runs without a visible console.
func fatal(msg string, err error, dialog bool) {
	slog.Error(msg, "error", err)
	if dialog {
		if derr := zenity.Error(fmt.Sprintf("%s: %v", msg, err), zenity.Title("driftfield"), zenity.ErrorIcon); derr != nil {
			slog.Warn("failed to show error dialog", "error", derr)
		}
	}
	os.Exit(1)
}
