package device

import (
	"testing"

	"github.com/pthm-cable/driftfield/quality"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		caps Capabilities
		want float64
	}{
		{
			name: "gaming desktop",
			caps: Capabilities{Type: Desktop, Cores: 8, MemoryGB: 16, GPU: "NVIDIA GeForce RTX 3080"},
			want: 30 + 20 + 15 + 20,
		},
		{
			name: "defaults only",
			caps: Capabilities{},
			// desktop 30, one core 5, 8 GB default 15, no graphics
			want: 50,
		},
		{
			name: "mobile on low battery",
			caps: Capabilities{Type: Mobile, Cores: 4, Graphics: GraphicsModern, Battery: &Battery{Level: 0.1}},
			// 10 + 20 + 2 GB*3 + 15 - 15
			want: 36,
		},
		{
			name: "charging battery is not penalised",
			caps: Capabilities{Type: Mobile, Cores: 4, Graphics: GraphicsModern, Battery: &Battery{Level: 0.1, Charging: true}},
			want: 51,
		},
		{
			name: "tablet with high dpi",
			caps: Capabilities{Type: Tablet, Cores: 2, MemoryGB: 3, Graphics: GraphicsBasic, PixelRatio: 3},
			// 20 + 10 + 9 + 10 - 5
			want: 44,
		},
		{
			name: "pixel ratio of exactly two is fine",
			caps: Capabilities{Type: Tablet, Cores: 2, MemoryGB: 3, Graphics: GraphicsBasic, PixelRatio: 2},
			want: 49,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.caps); got != tt.want {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTierForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  quality.Tier
	}{
		{100, quality.High},
		{70, quality.High},
		{69.9, quality.Medium},
		{45, quality.Medium},
		{44, quality.Low},
		{-10, quality.Low},
	}
	for _, tt := range tests {
		if got := TierForScore(tt.score); got != tt.want {
			t.Errorf("TierForScore(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestBatteryLow(t *testing.T) {
	tests := []struct {
		name    string
		battery *Battery
		want    bool
	}{
		{"unknown", nil, false},
		{"full", &Battery{Level: 1}, false},
		{"at threshold", &Battery{Level: LowBatteryLevel}, false},
		{"low", &Battery{Level: 0.1}, true},
		{"low charging", &Battery{Level: 0.1, Charging: true}, false},
	}
	for _, tt := range tests {
		if got := tt.battery.Low(); got != tt.want {
			t.Errorf("%s: Low() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestHighPerformanceGPU(t *testing.T) {
	tests := []struct {
		gpu  string
		want bool
	}{
		{"NVIDIA GeForce GTX 1060", true},
		{"AMD Radeon RX 580", true},
		{"Intel(R) UHD Graphics 620", false},
		{"Intel UHD Graphics 620", true},
		{"Intel HD Graphics", true},
		{"Apple M1", false},
		{"unknown", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := HighPerformanceGPU(tt.gpu); got != tt.want {
			t.Errorf("HighPerformanceGPU(%q) = %v, want %v", tt.gpu, got, tt.want)
		}
	}
}

func TestRecommendedParticles(t *testing.T) {
	tests := []struct {
		tier quality.Tier
		typ  Type
		want int
	}{
		{quality.High, Desktop, 10000},
		{quality.High, Tablet, 7500},
		{quality.Medium, Desktop, 5000},
		{quality.Medium, Mobile, 3000},
		{quality.Low, Desktop, 2500},
		{quality.Low, Tablet, 2500},
		{quality.Low, Mobile, 1500},
	}
	for _, tt := range tests {
		if got := RecommendedParticles(tt.tier, tt.typ); got != tt.want {
			t.Errorf("RecommendedParticles(%s, %s) = %d, want %d", tt.tier, tt.typ, got, tt.want)
		}
	}
}

func TestAnalyze(t *testing.T) {
	p := Analyze(Capabilities{Type: Desktop, Cores: 8, MemoryGB: 16, GPU: "AMD Radeon", PixelRatio: 3})
	if p.Tier != quality.High || p.Settings.Particles != 10000 {
		t.Errorf("desktop: tier %s particles %d", p.Tier, p.Settings.Particles)
	}
	if !p.Settings.PostProcessing || p.Settings.PixelRatio != 2 {
		t.Errorf("desktop settings = %+v", p.Settings)
	}

	// A strong phone is still capped
	m := Analyze(Capabilities{Type: Mobile, Cores: 8, MemoryGB: 8, GPU: "Adreno (TM) 740 nvidia", Touch: true})
	if m.Tier != quality.Medium {
		t.Fatalf("mobile tier = %s (score %v), want medium", m.Tier, m.Score)
	}
	if m.Settings.Particles != 2500 || m.Settings.PostProcessing || m.Settings.HoverEffects {
		t.Errorf("mobile settings = %+v", m.Settings)
	}

	if d := Analyze(Capabilities{}); d.GPU != "unknown" || d.Cores != 1 || d.MemoryGB != 8 || d.PixelRatio != 1 {
		t.Errorf("defaults not applied: %+v", d.Capabilities)
	}
}

func TestParseType(t *testing.T) {
	if typ, err := ParseType(" Mobile "); err != nil || typ != Mobile {
		t.Errorf("ParseType(Mobile) = %v, %v", typ, err)
	}
	if typ, err := ParseType(""); err != nil || typ != Desktop {
		t.Errorf("ParseType(\"\") = %v, %v", typ, err)
	}
	if _, err := ParseType("watch"); err == nil {
		t.Error("expected error for unknown type")
	}
}
