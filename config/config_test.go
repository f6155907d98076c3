package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pthm-cable/driftfield/quality"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Field.MaxParticles != 10000 {
		t.Errorf("max_particles = %d, want 10000", cfg.Field.MaxParticles)
	}
	if cfg.Field.ConnectionDistance != 80 {
		t.Errorf("connection_distance = %v, want 80", cfg.Field.ConnectionDistance)
	}
	if cfg.Monitor.History != 10 {
		t.Errorf("monitor.history = %d, want 10", cfg.Monitor.History)
	}
	if len(cfg.Derived.Palette) != 3 {
		t.Fatalf("derived palette has %d colours, want 3", len(cfg.Derived.Palette))
	}
	if cfg.Derived.Palette[0] != [3]float32{0, 1, 1} {
		t.Errorf("palette[0] = %v, want cyan", cfg.Derived.Palette[0])
	}
	if cfg.Derived.MaxDelta != 100*time.Millisecond {
		t.Errorf("derived max delta = %v, want 100ms", cfg.Derived.MaxDelta)
	}
	if cfg.Derived.Interval != time.Second {
		t.Errorf("derived interval = %v, want 1s", cfg.Derived.Interval)
	}
	if len(cfg.Sections) != 5 {
		t.Errorf("sections = %d, want 5", len(cfg.Sections))
	}
}

func TestTierTable(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if got := cfg.Tiers.For(quality.Low); got.Connections {
		t.Error("low tier should not draw connections")
	}
	if got := cfg.Tiers.For(quality.Medium).Fraction; got != 0.6 {
		t.Errorf("medium fraction = %v, want 0.6", got)
	}
	if got := cfg.Tiers.For(quality.High).Fraction; got != 1.0 {
		t.Errorf("high fraction = %v, want 1.0", got)
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := []byte("field:\n  max_particles: 1234\n  mouse_radius: 42\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Field.MaxParticles != 1234 {
		t.Errorf("max_particles = %d, want 1234", cfg.Field.MaxParticles)
	}
	if cfg.Field.MouseRadius != 42 {
		t.Errorf("mouse_radius = %v, want 42", cfg.Field.MouseRadius)
	}
	// Untouched values keep their defaults
	if cfg.Field.MaxConnections != 500 {
		t.Errorf("max_connections = %d, want default 500", cfg.Field.MaxConnections)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad colour", "field:\n  palette: [\"#zzzzzz\"]\n"},
		{"zero bound", "field:\n  bounds: [400, 0, 200]\n"},
		{"fraction above one", "tiers:\n  high:\n    fraction: 1.5\n"},
		{"negative fraction", "tiers:\n  low:\n    fraction: -0.1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    [3]float32
		wantErr bool
	}{
		{"#ff0000", [3]float32{1, 0, 0}, false},
		{"00ff00", [3]float32{0, 1, 0}, false},
		{"0x0000FF", [3]float32{0, 0, 1}, false},
		{"#fff", [3]float32{}, true},
		{"#gg0000", [3]float32{}, true},
	}

	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHexColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if again.Field.MaxParticles != cfg.Field.MaxParticles {
		t.Errorf("max_particles changed across round trip: %d vs %d", again.Field.MaxParticles, cfg.Field.MaxParticles)
	}
}
