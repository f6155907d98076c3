// Backdrop preview tool - interactive view of the high-tier noise backdrop
// with sliders for its parameters.
//
// Usage: go run ./cmd/backdroppreview [-config config.yaml]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/driftfield/config"
	"github.com/pthm-cable/driftfield/renderer"
)

const (
	windowWidth  = 1000
	windowHeight = 600
	previewW     = 640
	previewH     = 360
	panelWidth   = windowWidth - previewW - 30
)

// slider describes one parameter control.
type slider struct {
	label    string
	min, max float32
	format   string
	get      func(p renderer.NoiseParams) float32
	set      func(p *renderer.NoiseParams, v float32)
}

var sliders = []slider{
	{
		label: "Scale (base frequency)", min: 0.005, max: 0.1, format: "%.3f",
		get: func(p renderer.NoiseParams) float32 { return float32(p.Scale) },
		set: func(p *renderer.NoiseParams, v float32) { p.Scale = float64(v) },
	},
	{
		label: "Octaves", min: 1, max: 6, format: "%.0f",
		get: func(p renderer.NoiseParams) float32 { return float32(p.Octaves) },
		set: func(p *renderer.NoiseParams, v float32) { p.Octaves = int(v + 0.5) },
	},
	{
		label: "Lacunarity (frequency multiplier)", min: 1.5, max: 4, format: "%.2f",
		get: func(p renderer.NoiseParams) float32 { return float32(p.Lacunarity) },
		set: func(p *renderer.NoiseParams, v float32) { p.Lacunarity = float64(v) },
	},
	{
		label: "Gain (amplitude multiplier)", min: 0.2, max: 0.9, format: "%.2f",
		get: func(p renderer.NoiseParams) float32 { return float32(p.Gain) },
		set: func(p *renderer.NoiseParams, v float32) { p.Gain = float64(v) },
	},
	{
		label: "Seed", min: 0, max: 99999, format: "%.0f",
		get: func(p renderer.NoiseParams) float32 { return float32(p.Seed) },
		set: func(p *renderer.NoiseParams, v float32) { p.Seed = int64(v) },
	},
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	initial := renderer.NoiseParamsFromConfig(cfg.Render)
	params := initial

	rl.InitWindow(windowWidth, windowHeight, "Backdrop Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	backdrop := renderer.NewBackdrop(256, 144, params)
	defer backdrop.Unload()

	for !rl.WindowShouldClose() {
		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)

		backdrop.SetParams(params)
		backdrop.Draw(rl.Rectangle{X: 10, Y: 10, Width: previewW, Height: previewH})
		rl.DrawRectangleLines(10, 10, previewW, previewH, rl.DarkGray)

		// Control panel
		panelX := float32(previewW + 20)
		panelY := float32(10)
		rl.DrawText("Backdrop Noise", int32(panelX), int32(panelY), 20, rl.LightGray)
		panelY += 35

		for _, s := range sliders {
			rl.DrawText(s.label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			cur := s.get(params)
			v := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				"", "",
				cur, s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf(s.format, cur), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.LightGray)
			if v != cur {
				s.set(&params, v)
			}
			panelY += 35
		}

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = initial
		}
		panelY += 55

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.LightGray)
		panelY += 25
		snippet := yamlSnippet(params)
		for _, line := range strings.Split(snippet, "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.DarkGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(snippet)
		}

		rl.EndDrawing()
	}
}

// yamlSnippet formats the parameters as a render config block.
func yamlSnippet(p renderer.NoiseParams) string {
	return fmt.Sprintf(`render:
  noise_seed: %d
  noise_scale: %.3f
  noise_octaves: %d
  noise_lacunarity: %.2f
  noise_gain: %.2f`, p.Seed, p.Scale, p.Octaves, p.Lacunarity, p.Gain)
}
