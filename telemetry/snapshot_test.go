package telemetry

import (
	"math/rand"
	"path/filepath"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/driftfield/quality"
	"github.com/pthm-cable/driftfield/renderer"
	"github.com/pthm-cable/driftfield/systems"
)

func snapshotOptions() systems.Options {
	return systems.Options{
		MaxParticles:       200,
		Palette:            [][3]float32{{0, 1, 1}, {1, 0, 1}},
		MouseRadius:        100,
		PushStrength:       20,
		ConnectionDistance: 80,
		MaxConnections:     50,
		Speed:              1,
		AmplitudeMin:       10,
		AmplitudeMax:       30,
		FrequencyMin:       0.01,
		FrequencyMax:       0.03,
		PointSize:          2,
		Bounds:             r3.Box{Min: r3.Vec{X: -400, Y: -300, Z: -200}, Max: r3.Vec{X: 400, Y: 300, Z: 200}},
		Tiers: [3]systems.TierOptions{
			quality.Low:    {Fraction: 0.3, PointScale: 0.8},
			quality.Medium: {Fraction: 0.6, Connections: true, PointScale: 1},
			quality.High:   {Fraction: 1, Connections: true, PointScale: 1.2},
		},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	opts := snapshotOptions()
	f, err := systems.NewParticleField(renderer.NewRecorder(), opts, quality.Medium, rand.New(rand.NewSource(21)))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 30; i++ {
		f.Update(16.7, systems.NoPointer)
	}

	snap := CaptureField(f, 30, "round trip")
	path, err := SaveSnapshot(snap, t.TempDir())
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if got := filepath.Base(path); got != "field_30_medium_round_trip.json" {
		t.Errorf("file name = %s", got)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, snap) {
		t.Fatal("loaded snapshot differs from saved")
	}

	restored, err := loaded.Restore(renderer.NewRecorder(), opts)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if restored.Tier() != quality.Medium || restored.Len() != f.Len() {
		t.Fatalf("restored tier %s len %d, want medium %d", restored.Tier(), restored.Len(), f.Len())
	}
	if !reflect.DeepEqual(restored.Particles(), f.Particles()) {
		t.Error("restored particles differ from original")
	}

	// Both fields keep evolving identically
	f.Update(100, systems.NoPointer)
	restored.Update(100, systems.NoPointer)
	if !reflect.DeepEqual(restored.Particles(), f.Particles()) {
		t.Error("fields diverged after restore")
	}
}

func TestSnapshotRestoreRejectsVersion(t *testing.T) {
	snap := &FieldSnapshot{Version: SnapshotVersion + 1, Seeds: []systems.Seed{{}}}
	if _, err := snap.Restore(renderer.NewRecorder(), snapshotOptions()); err == nil {
		t.Error("expected version error")
	}
}
