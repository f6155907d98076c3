// Frame capture tool - renders the particle field offscreen for a number of
// frames and writes the last one to a PNG file.
//
// Usage: go run ./cmd/framecapture -frames 120 -tier high -out frame.png
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/driftfield/config"
	"github.com/pthm-cable/driftfield/device"
	"github.com/pthm-cable/driftfield/game"
	"github.com/pthm-cable/driftfield/quality"
	"github.com/pthm-cable/driftfield/renderer"
	"github.com/pthm-cable/driftfield/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outPath := flag.String("out", "frame.png", "Output PNG path")
	frames := flag.Int64("frames", 60, "Frames to simulate before capturing")
	tierName := flag.String("tier", "high", "Quality tier to render")
	seed := flag.Int64("seed", 1, "RNG seed")
	restorePath := flag.String("restore", "", "Render a field snapshot instead of a seeded field")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		exit("failed to load config", err)
	}
	tier, err := quality.Parse(*tierName)
	if err != nil {
		exit("invalid -tier", err)
	}
	if *frames < 1 {
		*frames = 1
	}

	profile := device.Detect(device.NewHostSource(cfg.Device))
	opts := game.Options{
		Seed:         *seed,
		MaxFrames:    *frames,
		Tier:         tier,
		HoverEffects: false,
	}
	if *restorePath != "" {
		s, err := telemetry.LoadSnapshot(*restorePath)
		if err != nil {
			exit("failed to load snapshot", err)
		}
		opts.Restore = s
	}

	backend, err := renderer.NewRaylibBackend(renderer.RaylibOptions{
		Width:      int32(cfg.Screen.Width),
		Height:     int32(cfg.Screen.Height),
		Title:      "Frame Capture",
		Sprite:     cfg.Render.Sprite,
		Background: cfg.Render.Background,
		LineAlpha:  cfg.Render.LineAlpha,
		Noise:      renderer.NoiseParamsFromConfig(cfg.Render),
		Hidden:     true,
	})
	if err != nil {
		exit("failed to initialize backend", err)
	}

	// Grab the back buffer of the last frame before it is swapped.
	var captured *rl.Image
	rendered := int64(0)
	backend.Overlay = func(renderer.HUD) {
		rendered++
		if rendered == *frames {
			captured = rl.LoadImageFromScreen()
		}
	}

	g, err := game.New(cfg, backend, game.ParticleBudget(cfg, profile), opts)
	if err != nil {
		exit("failed to initialize game", err)
	}
	host := game.NewHeadlessHost(time.Unix(0, 0), cfg.Derived.Step)
	runErr := g.Run(context.Background(), host)

	// Export before Close tears down the GL context.
	ok := false
	if captured != nil {
		ok = rl.ExportImage(*captured, *outPath)
		rl.UnloadImage(captured)
	}
	if err := g.Close(); err != nil {
		slog.Error("failed to release resources", "error", err)
	}
	if runErr != nil {
		exit("render failed", runErr)
	}
	if !ok {
		exit("failed to export image", fmt.Errorf("no image written to %s", *outPath))
	}
	fmt.Printf("Frame rendered to: %s (%dx%d, %d frames)\n", *outPath, cfg.Screen.Width, cfg.Screen.Height, *frames)
}

func exit(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
