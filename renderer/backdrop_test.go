package renderer

import (
	"bytes"
	"testing"

	"github.com/pthm-cable/driftfield/config"
)

func TestNoiseImage_Deterministic(t *testing.T) {
	a := NoiseImage(32, 16, DefaultNoiseParams(7))
	b := NoiseImage(32, 16, DefaultNoiseParams(7))
	c := NoiseImage(32, 16, DefaultNoiseParams(8))

	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("same seed produced different images")
	}
	if bytes.Equal(a.Pix, c.Pix) {
		t.Error("different seeds produced identical images")
	}
	if a.Bounds().Dx() != 32 || a.Bounds().Dy() != 16 {
		t.Errorf("bounds = %v", a.Bounds())
	}
}

func TestNoiseParams_FBMRange(t *testing.T) {
	tests := []struct {
		name string
		p    NoiseParams
	}{
		{"default", DefaultNoiseParams(1)},
		{"one octave", NoiseParams{Seed: 1, Scale: 0.1, Octaves: 1, Lacunarity: 2, Gain: 0.5}},
		{"many octaves", NoiseParams{Seed: 1, Scale: 0.02, Octaves: 6, Lacunarity: 3, Gain: 0.8}},
		{"zero octaves", NoiseParams{Seed: 1, Scale: 0.05}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := NoiseImage(24, 24, tt.p)
			for i := 0; i < len(img.Pix); i += 4 {
				// Blue is the brightest channel; v <= 1 caps it at 40.
				if img.Pix[i+2] > 40 || img.Pix[i+3] != 255 {
					t.Fatalf("pixel %d = %v, out of range", i/4, img.Pix[i:i+4])
				}
			}
		})
	}
}

func TestNoiseParamsFromConfig(t *testing.T) {
	got := NoiseParamsFromConfig(config.RenderConfig{NoiseSeed: 3, NoiseOctaves: 4})
	want := DefaultNoiseParams(3)
	want.Octaves = 4
	if got != want {
		t.Errorf("NoiseParamsFromConfig() = %+v, want %+v", got, want)
	}
}
