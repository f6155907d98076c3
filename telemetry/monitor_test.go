package telemetry

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/pthm-cable/driftfield/quality"
)

func defaultMonitorOptions() MonitorOptions {
	return MonitorOptions{
		History:      10,
		Interval:     time.Second,
		DropToLow:    25,
		MediumToHigh: 55,
		LowToMedium:  45,
		HighToMedium: 35,
	}
}

type transition struct {
	from, to quality.Tier
}

func recordingMonitor(start quality.Tier) (*FPSMonitor, *[]transition) {
	var got []transition
	m := NewFPSMonitor(defaultMonitorOptions(), start, func(from, to quality.Tier, _ MonitorStats) {
		got = append(got, transition{from, to})
	})
	return m, &got
}

func TestFPSMonitor_Rules(t *testing.T) {
	tests := []struct {
		name    string
		start   quality.Tier
		samples []float64
		want    quality.Tier
	}{
		{"slow medium drops to low", quality.Medium, []float64{20, 20, 20}, quality.Low},
		{"slow high drops to low", quality.High, []float64{10}, quality.Low},
		{"fast medium rises to high", quality.Medium, []float64{60}, quality.High},
		{"fast low rises only to medium", quality.Low, []float64{60}, quality.Medium},
		{"sluggish high falls to medium", quality.High, []float64{30}, quality.Medium},
		{"steady medium stays", quality.Medium, []float64{40, 40, 40}, quality.Medium},
		{"low stays low under threshold", quality.Low, []float64{40, 44, 45}, quality.Low},
		{"thresholds are strict", quality.Medium, []float64{55}, quality.Medium},
		{"recovering low needs the mean to pass", quality.Medium, []float64{20, 20, 20, 60, 60, 60}, quality.Low},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := recordingMonitor(tt.start)
			for _, fps := range tt.samples {
				m.Push(fps)
			}
			if got := m.Tier(); got != tt.want {
				t.Errorf("tier = %s, want %s (mean %.2f)", got, tt.want, m.Snapshot().MeanFPS)
			}
		})
	}
}

func TestFPSMonitor_RecoveryPassesThroughMedium(t *testing.T) {
	m, got := recordingMonitor(quality.Medium)
	for i := 0; i < 3; i++ {
		m.Push(20)
	}
	for i := 0; i < 20; i++ {
		m.Push(60)
	}

	want := []transition{
		{quality.Medium, quality.Low},
		{quality.Low, quality.Medium},
		{quality.Medium, quality.High},
	}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("transitions = %v, want %v", *got, want)
	}
}

func TestFPSMonitor_ConstantSixtyTransitionsOnce(t *testing.T) {
	m, got := recordingMonitor(quality.Medium)
	for i := 0; i < 10; i++ {
		m.Push(60)
	}
	if len(*got) != 1 || (*got)[0] != (transition{quality.Medium, quality.High}) {
		t.Errorf("transitions = %v, want exactly medium->high", *got)
	}
	if m.Tier() != quality.High {
		t.Errorf("tier = %s, want high", m.Tier())
	}
}

func TestFPSMonitor_HistoryEvictsOldest(t *testing.T) {
	m, _ := recordingMonitor(quality.Medium)
	for i := 1; i <= 12; i++ {
		m.Push(float64(40 + i%3))
	}
	h := m.History()
	if len(h) != 10 {
		t.Fatalf("history length = %d, want 10", len(h))
	}
	// Samples 3..12 remain
	want := []float64{40, 41, 42, 40, 41, 42, 40, 41, 42, 40}
	if !reflect.DeepEqual(h, want) {
		t.Errorf("history = %v, want %v", h, want)
	}
	if mean := m.Snapshot().MeanFPS; math.Abs(mean-40.9) > 1e-9 {
		t.Errorf("mean = %v, want 40.9", mean)
	}
}

func TestFPSMonitor_TickSamplesOncePerInterval(t *testing.T) {
	m, _ := recordingMonitor(quality.Medium)
	start := time.Unix(1000, 0)

	// Not running: ticks are ignored
	m.Tick(start.Add(2 * time.Second))
	if m.Snapshot().Samples != 0 {
		t.Fatal("stopped monitor recorded a sample")
	}

	m.Start(start)
	now := start
	for i := 0; i < 20; i++ {
		now = now.Add(50 * time.Millisecond)
		m.Tick(now)
	}
	s := m.Snapshot()
	if s.Samples != 1 || s.FPS != 20 {
		t.Errorf("after one second: samples %d fps %v, want 1 and 20", s.Samples, s.FPS)
	}

	m.Stop()
	for i := 0; i < 100; i++ {
		now = now.Add(time.Second / 10)
		m.Tick(now)
	}
	if m.Snapshot().Samples != 1 {
		t.Error("stopped monitor kept sampling")
	}
}

func TestFPSMonitor_TickDividesByMeasuredSpan(t *testing.T) {
	m, _ := recordingMonitor(quality.Medium)
	start := time.Unix(1000, 0)
	m.Start(start)

	now := start
	for i := 0; i < 10; i++ {
		now = now.Add(50 * time.Millisecond)
		m.Tick(now)
	}
	// A 2.5s stall ends the interval three seconds after it started
	m.Tick(now.Add(2500 * time.Millisecond))

	s := m.Snapshot()
	if s.Samples != 1 {
		t.Fatalf("samples = %d, want 1", s.Samples)
	}
	if want := 11.0 / 3.0; math.Abs(s.FPS-want) > 1e-9 {
		t.Errorf("fps after stall = %v, want %v", s.FPS, want)
	}
}

func TestFPSMonitor_SetTierDoesNotNotify(t *testing.T) {
	m, got := recordingMonitor(quality.Medium)
	m.SetTier(quality.Low)
	if m.Tier() != quality.Low || len(*got) != 0 {
		t.Errorf("SetTier: tier %s, %d notifications", m.Tier(), len(*got))
	}
}

func TestFPSMonitor_OnSampleSeesNewTier(t *testing.T) {
	m, _ := recordingMonitor(quality.Medium)
	var seen []MonitorStats
	m.OnSample(func(s MonitorStats) { seen = append(seen, s) })

	m.Push(60)
	m.Push(58)
	if len(seen) != 2 {
		t.Fatalf("hook called %d times, want 2", len(seen))
	}
	if seen[0].Tier != quality.High || seen[0].FPS != 60 {
		t.Errorf("first sample = %+v, want fps 60 at high", seen[0])
	}
}
