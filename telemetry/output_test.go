package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
)

func TestOutputManagerAppendsWindows(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	for i, end := range []int64{600, 1200} {
		stats := WindowStats{RunID: "r1", WindowEndTick: end, Alive: 40 + i}
		perf := PerfReport{Ticks: 600, TickMeanUS: float64(100 * (i + 1))}
		if err := om.WriteWindow(stats, perf); err != nil {
			t.Fatalf("window %d: %v", end, err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var rows []PerfRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].WindowEnd != 600 || rows[1].TickMeanUS != 200 {
		t.Errorf("perf rows = %+v", rows)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 3 {
		t.Fatalf("telemetry.csv has %d lines, want header + 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "run_id,window_end,alive") {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Count(string(raw), "run_id") != 1 {
		t.Error("header written more than once")
	}
}

func TestNilOutputManager(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v", om, err)
	}
	if err := om.WriteWindow(WindowStats{}, PerfReport{}); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" || om.Close() != nil {
		t.Error("nil manager should be inert")
	}
}
