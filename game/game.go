// Package game runs the simulation: tick orchestration, collisions,
// population safeguards, operator commands and drawing.
package game

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"runtime/debug"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/camera"
	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/persist"
	"github.com/pthm-cable/ecosim/systems"
	"github.com/pthm-cable/ecosim/telemetry"
	"github.com/pthm-cable/ecosim/ui"
)

// Game holds the complete simulation state.
type Game struct {
	cfg   *config.Config
	rng   *rand.Rand
	ecs   *ecs.World
	world *systems.World
	pop   *systems.Population

	width, height float32

	// State
	tick        int64
	lowPopTicks int
	paused      bool
	speed       float64
	selected    ecs.Entity

	// Offspring produced this tick, merged after the creature pass.
	births  []birth
	foodBuf []ecs.Entity

	store persist.Store

	// Telemetry
	collector *telemetry.Collector
	lifetime  *telemetry.LifetimeTracker
	perf      *telemetry.Profiler
	load      telemetry.Load
	output    *telemetry.OutputManager
	logStats  bool

	// FPS counted per wall-clock second
	fps        int
	fpsFrames  int
	fpsStarted time.Time

	headless bool
	cam      *camera.Camera
	hud      *ui.HUD
	controls *ui.ControlsPanel
	insp     *ui.InspectorPanel
}

type birth struct {
	spawn    systems.Spawn
	parentID uint64
}

// NewGame creates a game and seeds the initial population and food.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	store := opts.Store
	if store == nil {
		store = persist.NewMemoryStore()
	}

	g := &Game{
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(seed)),
		ecs:       ecs.NewWorld(),
		width:     cfg.Derived.WorldW32,
		height:    cfg.Derived.WorldH32,
		speed:     clampSpeed(cfg, cfg.Sim.Speed),
		store:     store,
		collector: telemetry.NewCollector(opts.RunID, cfg.Telemetry.WindowTicks),
		lifetime:  telemetry.NewLifetimeTracker(),
		perf:      telemetry.NewProfiler(),
		logStats:  opts.LogStats,
		headless:  opts.Headless,
	}
	g.world = systems.NewWorld(g.ecs, cfg, g.rng)
	g.pop = systems.NewPopulation(g.ecs, cfg, g.rng)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("telemetry output: %w", err)
		}
		if err := om.WriteConfig(cfg); err != nil {
			om.Close()
			return nil, fmt.Errorf("telemetry output: %w", err)
		}
		g.output = om
		slog.Info("writing telemetry", "dir", om.Dir())
	}

	if !g.headless {
		screenW, screenH := float32(cfg.Screen.Width), float32(cfg.Screen.Height)
		g.cam = camera.New(screenW, screenH, g.width, g.height)
		g.hud = ui.NewHUD()
		g.controls = ui.NewControlsPanel(10, 110, 200)
		g.insp = ui.NewInspectorPanel(int32(cfg.Screen.Width)-250, 10, 240)
	}

	g.seed()

	slog.Info("simulation created",
		"seed", seed,
		"run_id", opts.RunID,
		"width", g.width,
		"height", g.height,
		"creatures", g.pop.Len(),
		"food", g.world.FoodCount(),
	)
	return g, nil
}

// Update advances the simulation for one frame: nothing while paused,
// otherwise ceil(speed) ticks.
func (g *Game) Update() {
	n := int(math.Ceil(g.speed))
	if g.paused {
		n = 0
	}
	g.countFrame(n)
	for range n {
		g.Step()
	}
}

// SafeUpdate is Update guarded at the frame boundary: a panic inside the
// tick burst is logged with its stack and the frame loop carries on.
func (g *Game) SafeUpdate() error {
	return g.guard("update", func() error {
		g.Update()
		return nil
	})
}

// guard runs fn, turning a panic into a logged error.
func (g *Game) guard(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s at tick %d: %v", op, g.tick, r)
			slog.Error("frame step failed",
				"op", op,
				"error", err,
				"time", time.Now().Format(time.RFC3339Nano),
				"stack", string(debug.Stack()),
			)
		}
	}()
	return fn()
}

// countFrame tracks frames per wall-clock second and the tick burst each
// frame runs.
func (g *Game) countFrame(ticks int) {
	now := time.Now()
	if g.fpsStarted.IsZero() {
		g.fpsStarted = now
	}
	g.fpsFrames++
	if now.Sub(g.fpsStarted) >= time.Second {
		g.fps = g.fpsFrames
		g.fpsFrames = 0
		g.fpsStarted = now
	}
	g.perf.Frame(ticks)
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int64 {
	return g.tick
}

// Paused reports whether ticks are suspended.
func (g *Game) Paused() bool {
	return g.paused
}

// Speed returns the tick multiplier.
func (g *Game) Speed() float64 {
	return g.speed
}

// FPS returns frames counted over the last wall-clock second.
func (g *Game) FPS() int {
	return g.fps
}

// Unload flushes telemetry output. Safe to call once at shutdown.
func (g *Game) Unload() {
	if g.output != nil {
		if err := g.output.Close(); err != nil {
			slog.Error("failed to close telemetry output", "error", err)
		}
	}
	if err := g.store.Close(); err != nil {
		slog.Error("failed to close save store", "error", err)
	}
}

func clampSpeed(cfg *config.Config, s float64) float64 {
	return max(cfg.Sim.MinSpeed, min(s, cfg.Sim.MaxSpeed))
}
