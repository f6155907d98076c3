package renderer

import (
	"image"
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/driftfield/config"
)

// NoiseParams shapes the backdrop's fractal noise.
type NoiseParams struct {
	Seed       int64
	Scale      float64 // Base frequency per pixel
	Octaves    int
	Lacunarity float64 // Frequency multiplier per octave
	Gain       float64 // Amplitude multiplier per octave
}

// DefaultNoiseParams returns the backdrop used when none is configured.
func DefaultNoiseParams(seed int64) NoiseParams {
	return NoiseParams{Seed: seed, Scale: 0.035, Octaves: 2, Lacunarity: 2, Gain: 0.5}
}

// NoiseParamsFromConfig reads the backdrop noise from the render config,
// keeping the default for any unset value.
func NoiseParamsFromConfig(r config.RenderConfig) NoiseParams {
	p := DefaultNoiseParams(r.NoiseSeed)
	if r.NoiseScale > 0 {
		p.Scale = r.NoiseScale
	}
	if r.NoiseOctaves > 0 {
		p.Octaves = r.NoiseOctaves
	}
	if r.NoiseLacunarity > 0 {
		p.Lacunarity = r.NoiseLacunarity
	}
	if r.NoiseGain > 0 {
		p.Gain = r.NoiseGain
	}
	return p
}

// fbm returns normalized fractal noise in [0, 1] at pixel (x, y).
// Each octave is offset so octaves do not share lattice points.
func (p NoiseParams) fbm(noise opensimplex.Noise, x, y float64) float64 {
	var sum, norm float64
	amp, freq := 1.0, p.Scale
	for o := 0; o < max(p.Octaves, 1); o++ {
		off := float64(o) * 100
		sum += amp * noise.Eval2(x*freq+off, y*freq+off)
		norm += amp
		amp *= p.Gain
		freq *= p.Lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// NoiseImage renders a soft, dark simplex-noise image used as the high-tier
// backdrop. Output is deterministic for given parameters.
func NoiseImage(width, height int, p NoiseParams) *image.RGBA {
	noise := opensimplex.NewNormalized(p.Seed)
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		// Vertical falloff keeps the top of the frame darker
		fall := 0.4 + 0.6*float64(y)/math.Max(1, float64(height-1))
		for x := 0; x < width; x++ {
			v := p.fbm(noise, float64(x), float64(y)) * fall
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(v * 10),
				G: uint8(v * 28),
				B: uint8(v * 40),
				A: 255,
			})
		}
	}
	return img
}

// Backdrop is a noise texture stretched across the screen behind the field.
type Backdrop struct {
	width, height int
	params        NoiseParams
	texture       rl.Texture2D
	loaded        bool
}

// NewBackdrop creates a backdrop. The texture is generated lazily on first draw.
func NewBackdrop(width, height int, params NoiseParams) *Backdrop {
	return &Backdrop{width: width, height: height, params: params}
}

// SetParams changes the noise; the texture is regenerated on the next draw.
func (b *Backdrop) SetParams(p NoiseParams) {
	if p == b.params {
		return
	}
	b.params = p
	b.Unload()
}

// Draw renders the backdrop into dst.
func (b *Backdrop) Draw(dst rl.Rectangle) {
	if !b.loaded {
		img := rl.NewImageFromImage(NoiseImage(b.width, b.height, b.params))
		b.texture = rl.LoadTextureFromImage(img)
		rl.UnloadImage(img)
		rl.SetTextureFilter(b.texture, rl.FilterBilinear)
		b.loaded = true
	}

	src := rl.Rectangle{Width: float32(b.width), Height: float32(b.height)}
	rl.DrawTexturePro(b.texture, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload frees the texture.
func (b *Backdrop) Unload() {
	if b.loaded {
		rl.UnloadTexture(b.texture)
		b.loaded = false
	}
}
