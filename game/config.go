package game

import "github.com/pthm-cable/ecosim/persist"

// Options holds configuration for game initialization that does not come
// from the YAML config.
type Options struct {
	Seed      int64
	RunID     string // stamped on telemetry rows
	LogStats  bool   // log each telemetry window via slog
	OutputDir string // CSV + config snapshot; empty disables
	Headless  bool   // no raylib calls
	Store     persist.Store
}
