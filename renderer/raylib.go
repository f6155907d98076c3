package renderer

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/driftfield/camera"
	"github.com/pthm-cable/driftfield/config"
	"github.com/pthm-cable/driftfield/quality"
)

// RaylibOptions configures the raylib backend.
type RaylibOptions struct {
	Width, Height int32
	Title         string
	TargetFPS     int32
	Sprite        string // Optional sprite PNG; empty uses a generated gradient
	Background    string // Hex clear colour
	LineAlpha     float64
	Noise         NoiseParams // High-tier backdrop
	Hidden        bool        // Open the window hidden, for offscreen capture
}

// RaylibBackend draws the field in a raylib window: points as additive
// billboards, connections as 3D lines.
type RaylibBackend struct {
	opts     RaylibOptions
	clear    rl.Color
	sprite   rl.Texture2D
	backdrop *Backdrop
	tier     quality.Tier

	points *PointBuffer
	lines  *LineBuffer

	// Overlay draws 2D UI after the 3D pass, before the frame ends.
	Overlay func(hud HUD)

	livePoints int
	liveLines  int
	released   bool
}

// NewRaylibBackend opens the window and loads GPU resources. Failure to
// create the window is returned as an error; a missing sprite is not.
func NewRaylibBackend(opts RaylibOptions) (*RaylibBackend, error) {
	flags := uint32(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	if opts.Hidden {
		flags |= rl.FlagWindowHidden
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(opts.Width, opts.Height, opts.Title)
	if !rl.IsWindowReady() {
		return nil, fmt.Errorf("raylib: window could not be created (%dx%d)", opts.Width, opts.Height)
	}
	rl.SetTargetFPS(opts.TargetFPS)
	rl.SetExitKey(0)

	b := &RaylibBackend{
		opts:  opts,
		clear: rl.Black,
	}
	if opts.Background != "" {
		c, err := parseRGBA(opts.Background)
		if err != nil {
			slog.Warn("invalid background colour, using black", "value", opts.Background, "error", err)
		} else {
			b.clear = c
		}
	}

	b.sprite = loadSprite(opts.Sprite)
	b.backdrop = NewBackdrop(256, 144, opts.Noise)
	return b, nil
}

// loadSprite loads the sprite PNG, falling back to a generated radial
// gradient when the file is missing or unreadable.
func loadSprite(path string) rl.Texture2D {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			slog.Warn("sprite not found, using generated sprite", "path", path, "error", err)
		} else {
			tex := rl.LoadTexture(path)
			if tex.ID != 0 {
				return tex
			}
			slog.Warn("sprite failed to load, using generated sprite", "path", path)
		}
	}

	img := rl.GenImageGradientRadial(32, 32, 0.2, rl.White, rl.Blank)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	return tex
}

// AllocatePoints implements Backend.
func (b *RaylibBackend) AllocatePoints(n int) (*PointBuffer, error) {
	if b.released {
		return nil, ErrReleased
	}
	b.livePoints++
	return NewPointBuffer(n, func() error {
		b.livePoints--
		return nil
	}), nil
}

// AllocateLines implements Backend.
func (b *RaylibBackend) AllocateLines(m int) (*LineBuffer, error) {
	if b.released {
		return nil, ErrReleased
	}
	b.liveLines++
	return NewLineBuffer(m, func() error {
		b.liveLines--
		return nil
	}), nil
}

// Submit implements Backend.
func (b *RaylibBackend) Submit(points *PointBuffer, lines *LineBuffer) {
	b.points = points
	b.lines = lines
}

// SetTier implements Backend.
func (b *RaylibBackend) SetTier(tier quality.Tier) {
	b.tier = tier
}

// Present draws the submitted buffers and ends the frame.
func (b *RaylibBackend) Present(view camera.View, hud HUD) {
	if b.released {
		return
	}

	rl.BeginDrawing()
	rl.ClearBackground(b.clear)

	if b.tier == quality.High && b.backdrop != nil {
		b.backdrop.Draw(rl.Rectangle{Width: float32(rl.GetScreenWidth()), Height: float32(rl.GetScreenHeight())})
	}

	cam := rl.Camera3D{
		Position:   vec3(view.Position),
		Target:     vec3(view.Target),
		Up:         vec3(view.Up),
		Fovy:       float32(view.FovY),
		Projection: rl.CameraPerspective,
	}

	rl.BeginMode3D(cam)
	rl.BeginBlendMode(rl.BlendAdditive)

	if l := b.lines; l != nil && !l.Released() {
		alpha := uint8(clamp01(b.opts.LineAlpha) * 255)
		for i := 0; i < l.Count; i++ {
			p := l.Positions[i*6 : i*6+6]
			c := l.Colors[i*6 : i*6+6]
			col := rl.Color{
				R: unit8((c[0] + c[3]) / 2),
				G: unit8((c[1] + c[4]) / 2),
				B: unit8((c[2] + c[5]) / 2),
				A: alpha,
			}
			rl.DrawLine3D(
				rl.Vector3{X: p[0], Y: p[1], Z: p[2]},
				rl.Vector3{X: p[3], Y: p[4], Z: p[5]},
				col,
			)
		}
	}

	if pts := b.points; pts != nil && !pts.Released() {
		for i := 0; i < pts.Count; i++ {
			p := pts.Positions[i*3 : i*3+3]
			c := pts.Colors[i*3 : i*3+3]
			col := rl.Color{R: unit8(c[0]), G: unit8(c[1]), B: unit8(c[2]), A: 204}
			rl.DrawBillboard(cam, b.sprite, rl.Vector3{X: p[0], Y: p[1], Z: p[2]}, pts.Sizes[i], col)
		}
	}

	rl.EndBlendMode()
	rl.EndMode3D()

	if b.Overlay != nil && hud.Visible {
		b.Overlay(hud)
	}

	rl.EndDrawing()
}

// Dispose unloads GPU resources and closes the window.
func (b *RaylibBackend) Dispose() error {
	if b.released {
		return ErrReleased
	}
	b.released = true
	if b.livePoints != 0 || b.liveLines != 0 {
		slog.Warn("backend disposed with live buffers", "points", b.livePoints, "lines", b.liveLines)
	}
	if b.backdrop != nil {
		b.backdrop.Unload()
	}
	rl.UnloadTexture(b.sprite)
	rl.CloseWindow()
	return nil
}

func vec3(v r3.Vec) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

func unit8(v float32) uint8 {
	return uint8(clamp01(float64(v)) * 255)
}

func clamp01(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func parseRGBA(hex string) (color.RGBA, error) {
	rgb, err := config.ParseHexColor(hex)
	if err != nil {
		return color.RGBA{}, err
	}
	return color.RGBA{R: unit8(rgb[0]), G: unit8(rgb[1]), B: unit8(rgb[2]), A: 255}, nil
}
