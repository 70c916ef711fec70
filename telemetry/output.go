// Package telemetry collects solve and frame statistics and writes them
// as CSV experiment output.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/pointmorph/config"
)

// OutputManager handles structured experiment output with CSV logging.
type OutputManager struct {
	dir       string
	solveFile *os.File
	perfFile  *os.File

	solveHeaderWritten bool
	perfHeaderWritten  bool
}

// NewOutputManager creates a new output manager and initializes the output
// directory. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "solve.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating solve.csv: %w", err)
	}
	om.solveFile = f

	f, err = os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		om.solveFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteSolve writes a solve window record to solve.csv.
func (om *OutputManager) WriteSolve(stats SolveWindowStats) error {
	if om == nil {
		return nil
	}

	records := []SolveWindowStats{stats}
	if !om.solveHeaderWritten {
		if err := gocsv.Marshal(records, om.solveFile); err != nil {
			return fmt.Errorf("writing solve stats: %w", err)
		}
		om.solveHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.solveFile); err != nil {
		return fmt.Errorf("writing solve stats: %w", err)
	}
	return nil
}

// WritePerf writes a performance window record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd float64) error {
	if om == nil {
		return nil
	}

	records := []PerfStatsCSV{stats.ToCSV(windowEnd)}
	if !om.perfHeaderWritten {
		if err := gocsv.Marshal(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf stats: %w", err)
		}
		om.perfHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.perfFile); err != nil {
		return fmt.Errorf("writing perf stats: %w", err)
	}
	return nil
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() {
	if om == nil {
		return
	}
	if om.solveFile != nil {
		om.solveFile.Close()
	}
	if om.perfFile != nil {
		om.perfFile.Close()
	}
}
