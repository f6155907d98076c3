package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/driftfield/config"
)

// OutputManager writes run telemetry as CSV files in one directory.
// A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	dir             string
	fpsFile         *os.File
	transitionsFile *os.File
	perfFile        *os.File

	// Track if headers have been written
	fpsHeaderWritten         bool
	transitionsHeaderWritten bool
	perfHeaderWritten        bool
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	files := []struct {
		name string
		dst  **os.File
	}{
		{"fps.csv", &om.fpsFile},
		{"transitions.csv", &om.transitionsFile},
		{"perf.csv", &om.perfFile},
	}
	for _, f := range files {
		file, err := os.Create(filepath.Join(dir, f.name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", f.name, err)
		}
		*f.dst = file
	}

	return om, nil
}

// WriteConfig saves the configuration in effect as config.yaml.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteFPS appends a row to fps.csv.
func (om *OutputManager) WriteFPS(r FPSRecord) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.fpsFile, &om.fpsHeaderWritten, []FPSRecord{r}); err != nil {
		return fmt.Errorf("writing fps: %w", err)
	}
	return nil
}

// WriteTransition appends a row to transitions.csv.
func (om *OutputManager) WriteTransition(r TransitionRecord) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.transitionsFile, &om.transitionsHeaderWritten, []TransitionRecord{r}); err != nil {
		return fmt.Errorf("writing transition: %w", err)
	}
	return nil
}

// WritePerf appends a row to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, frame int64) error {
	if om == nil {
		return nil
	}
	records := []PerfStatsCSV{stats.ToCSV(frame)}
	if err := writeRecords(om.perfFile, &om.perfHeaderWritten, records); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// writeRecords writes the header with the first batch only.
func writeRecords(f *os.File, headerWritten *bool, records any) error {
	if *headerWritten {
		return gocsv.MarshalWithoutHeaders(records, f)
	}
	if err := gocsv.Marshal(records, f); err != nil {
		return err
	}
	*headerWritten = true
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// SnapshotDir returns the directory field snapshots are saved to.
func (om *OutputManager) SnapshotDir() string {
	if om == nil {
		return "snapshots"
	}
	return filepath.Join(om.dir, "snapshots")
}

// Close closes every output file.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var errs []error
	for _, f := range []*os.File{om.fpsFile, om.transitionsFile, om.perfFile} {
		if f != nil {
			errs = append(errs, f.Close())
		}
	}
	return errors.Join(errs...)
}
