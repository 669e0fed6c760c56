package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/ecosim/config"
)

// csvLog is an append-only CSV file of one record type. The header goes out
// with the first batch of rows.
type csvLog struct {
	f      *os.File
	header bool
}

func createCSV(dir, name string) (*csvLog, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	return &csvLog{f: f}, nil
}

// append writes rows, which must be a slice of gocsv-tagged structs.
func (l *csvLog) append(rows any) error {
	if l.header {
		return gocsv.MarshalWithoutHeaders(rows, l.f)
	}
	if err := gocsv.Marshal(rows, l.f); err != nil {
		return err
	}
	l.header = true
	return nil
}

// OutputManager writes a run's telemetry.csv, perf.csv and config.yaml into
// one directory. A nil manager discards everything.
type OutputManager struct {
	dir   string
	stats *csvLog
	perf  *csvLog
}

// NewOutputManager creates dir and both CSV files. An empty dir disables
// output and returns a nil manager.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}

	stats, err := createCSV(dir, "telemetry.csv")
	if err != nil {
		return nil, err
	}
	perf, err := createCSV(dir, "perf.csv")
	if err != nil {
		stats.f.Close()
		return nil, err
	}
	return &OutputManager{dir: dir, stats: stats, perf: perf}, nil
}

// WriteConfig snapshots the effective configuration next to the CSVs.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteWindow appends one window's population stats and tick profile.
func (om *OutputManager) WriteWindow(stats WindowStats, perf PerfReport) error {
	if om == nil {
		return nil
	}
	if err := om.stats.append([]WindowStats{stats}); err != nil {
		return fmt.Errorf("write telemetry row: %w", err)
	}
	if err := om.perf.append([]PerfRow{perf.Row(stats.WindowEndTick)}); err != nil {
		return fmt.Errorf("write perf row: %w", err)
	}
	return nil
}

// Dir returns the output directory, or "" when output is disabled.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes both CSV files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return errors.Join(om.stats.f.Close(), om.perf.f.Close())
}
