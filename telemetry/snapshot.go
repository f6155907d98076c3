package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/driftfield/quality"
	"github.com/pthm-cable/driftfield/renderer"
	"github.com/pthm-cable/driftfield/systems"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// FieldSnapshot holds enough of a particle field to rebuild it exactly:
// the seeds and the field clock. Positions are recorded for inspection.
type FieldSnapshot struct {
	Version   int            `json:"version"`
	Frame     int64          `json:"frame"`
	Label     string         `json:"label,omitempty"`
	Tier      quality.Tier   `json:"tier"`
	ElapsedMS float64        `json:"elapsed_ms"`
	Seeds     []systems.Seed `json:"seeds"`
	Positions []r3.Vec       `json:"positions"`
}

// CaptureField records the field's current state.
func CaptureField(f *systems.ParticleField, frame int64, label string) *FieldSnapshot {
	particles := f.Particles()
	s := &FieldSnapshot{
		Version:   SnapshotVersion,
		Frame:     frame,
		Label:     label,
		Tier:      f.Tier(),
		ElapsedMS: f.Elapsed(),
		Seeds:     make([]systems.Seed, len(particles)),
		Positions: make([]r3.Vec, len(particles)),
	}
	for i, p := range particles {
		s.Seeds[i] = p.Seed
		s.Positions[i] = p.Position
	}
	return s
}

// Restore builds a field from the snapshot on the given backend.
func (s *FieldSnapshot) Restore(backend renderer.Backend, opts systems.Options) (*systems.ParticleField, error) {
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", s.Version, SnapshotVersion)
	}
	f, err := systems.NewParticleFieldFromSeeds(backend, opts, s.Tier, s.Seeds)
	if err != nil {
		return nil, fmt.Errorf("restoring snapshot: %w", err)
	}
	f.SetElapsed(s.ElapsedMS)
	return f, nil
}

// SaveSnapshot writes a snapshot to dir and returns the file path.
func SaveSnapshot(snapshot *FieldSnapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("field_%d_%s", snapshot.Frame, snapshot.Tier)
	if snapshot.Label != "" {
		name += "_" + strings.ReplaceAll(snapshot.Label, " ", "_")
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*FieldSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot FieldSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}
