package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/game"
	"github.com/pthm-cable/ecosim/persist"
	"github.com/pthm-cable/ecosim/server"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	debug := flag.Bool("debug", false, "Enable debug logging")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	serve := flag.String("serve", "", "Websocket observer address, e.g. :8080 (overrides config)")
	backend := flag.String("store", "", "Save backend: memory, sqlite or file (overrides config)")
	storePath := flag.String("store-path", "", "Save database file or directory (overrides config)")
	loadSave := flag.Bool("load", false, "Load the saved simulation on startup")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *serve != "" {
		cfg.Server.Addr = *serve
	}
	if *backend != "" {
		cfg.Persist.Backend = *backend
	}
	if *storePath != "" {
		cfg.Persist.Path = *storePath
	}

	store, err := persist.Open(cfg.Persist)
	if err != nil {
		slog.Error("failed to open save store", "backend", cfg.Persist.Backend, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := game.Options{
		Seed:      *seed,
		RunID:     uuid.NewString(),
		LogStats:  *logStats,
		OutputDir: *outputDir,
		Headless:  *headless,
		Store:     store,
	}

	if !*headless {
		rl.SetConfigFlags(rl.FlagWindowResizable)
		rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Ecosystem")
		defer rl.CloseWindow()
		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	}

	g, err := game.NewGame(cfg, opts)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	if *loadSave {
		// Load logs its own failure; a missing save keeps the fresh world
		_ = g.Load(ctx)
	}

	var bridge *server.Bridge
	if cfg.Server.Addr != "" {
		hub := server.NewHub(64)
		bridge = server.NewBridge(hub, g, cfg.Server.FrameInterval)
		go func() {
			if err := server.Serve(ctx, cfg.Server.Addr, hub); err != nil {
				slog.Error("observer server failed", "error", err)
				stop()
			}
		}()
	}

	slog.Info("starting simulation",
		"run_id", opts.RunID,
		"headless", *headless,
		"max_ticks", *maxTicks,
		"serve", cfg.Server.Addr,
		"store", cfg.Persist.Backend,
	)

	if *headless {
		runHeadless(ctx, g, bridge, cfg, *maxTicks)
	} else {
		runWindow(ctx, g, bridge, *maxTicks)
	}
	slog.Info("simulation stopped", "tick", g.Tick())
}

// runHeadless steps as fast as possible, or at the target frame rate when
// observers are attached so they see real-time motion.
func runHeadless(ctx context.Context, g *game.Game, bridge *server.Bridge, cfg *config.Config, maxTicks int64) {
	var pace <-chan time.Time
	if bridge != nil && cfg.Screen.TargetFPS > 0 {
		t := time.NewTicker(time.Second / time.Duration(cfg.Screen.TargetFPS))
		defer t.Stop()
		pace = t.C
	}

	for ctx.Err() == nil {
		if pace != nil {
			select {
			case <-ctx.Done():
				return
			case <-pace:
			}
		}
		_ = g.SafeUpdate()
		if bridge != nil {
			bridge.Sync(ctx, time.Now())
		}
		if maxTicks > 0 && g.Tick() >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			return
		}
	}
}

func runWindow(ctx context.Context, g *game.Game, bridge *server.Bridge, maxTicks int64) {
	for !rl.WindowShouldClose() && ctx.Err() == nil {
		g.HandleInput()
		_ = g.SafeUpdate()
		if bridge != nil {
			bridge.Sync(ctx, time.Now())
		}
		g.Draw()

		if maxTicks > 0 && g.Tick() >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			return
		}
	}
}
