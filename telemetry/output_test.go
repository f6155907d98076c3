package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/driftfield/config"
	"github.com/pthm-cable/driftfield/quality"
)

func TestOutputManager_WritesCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if err := om.WriteFPS(FPSRecord{ElapsedSec: float64(i), FPS: 60, Tier: quality.High}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteTransition(TransitionRecord{From: quality.Medium, To: quality.High, Cause: "monitor"}); err != nil {
		t.Fatal(err)
	}
	if err := om.WritePerf(PerfStats{PhasePct: map[string]float64{PhaseWave: 50}}, 120); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	fps := readLines(t, filepath.Join(dir, "fps.csv"))
	if len(fps) != 4 {
		t.Fatalf("fps.csv has %d lines, want header + 3", len(fps))
	}
	if !strings.HasPrefix(fps[0], "elapsed_sec,fps,") {
		t.Errorf("unexpected header %q", fps[0])
	}
	if !strings.HasSuffix(fps[1], ",high,0,0") {
		t.Errorf("tier not written by name: %q", fps[1])
	}

	tr := readLines(t, filepath.Join(dir, "transitions.csv"))
	if len(tr) != 2 || !strings.Contains(tr[1], "medium,high") {
		t.Errorf("unexpected transitions.csv: %q", tr)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}
}

func TestOutputManager_NilIsNoop(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("empty dir: om %v err %v", om, err)
	}
	if err := om.WriteFPS(FPSRecord{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}
