package game

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/persist"
	"github.com/pthm-cable/ecosim/systems"
)

// newTestGame builds a headless game with an empty world. Plant regrowth is
// off and corpses never retire so tests see every death.
func newTestGame(t *testing.T, mutate func(*config.Config)) *Game {
	t.Helper()
	cfg := config.Defaults()
	cfg.Population.Initial = 0
	cfg.World.InitialFood = 0
	cfg.World.BaseSpawnRate = 0
	cfg.Corpse.RetireAfter = time.Hour
	if mutate != nil {
		mutate(cfg)
	}
	g, err := NewGame(cfg, Options{Seed: 42, Headless: true})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func addCreature(g *Game, x, y float32, genome components.Genome) ecs.Entity {
	e := g.pop.Add(systems.Spawn{X: x, Y: y, Genome: genome, Hue: 120})
	g.registerFounder(e)
	return e
}

func testGenome(diet components.Diet, size float32) components.Genome {
	return components.Genome{Speed: 1, Perception: 100, Size: size, Diet: diet, Efficiency: 1}
}

func TestNewGameSeedsWorld(t *testing.T) {
	g := newTestGame(t, func(cfg *config.Config) {
		cfg.Population.Initial = 12
		cfg.World.InitialFood = 40
	})
	if got := g.pop.Len(); got != 12 {
		t.Errorf("creatures = %d, want 12", got)
	}
	// Spawn attempts are filtered by biome food modifiers
	if got := g.world.FoodCount(); got == 0 || got > 40 {
		t.Errorf("food = %d, want in (0, 40]", got)
	}
	if g.Tick() != 0 {
		t.Errorf("tick = %d, want 0", g.Tick())
	}
}

func TestPredatorKillLeavesMeat(t *testing.T) {
	g := newTestGame(t, func(cfg *config.Config) {
		cfg.Combat.BaseKill = 10
	})
	ea := addCreature(g, 500, 400, testGenome(components.Carnivore, 10))
	eb := addCreature(g, 505, 400, testGenome(components.Herbivore, 5))
	a := g.pop.MustGet(ea)
	a.Energy.Value = 20 // hungry

	g.Step()

	a, b := g.pop.MustGet(ea), g.pop.MustGet(eb)
	if b.Alive() {
		t.Fatal("prey survived a certain kill")
	}
	if b.Org.DeathTick != 1 {
		t.Errorf("death tick = %d, want 1", b.Org.DeathTick)
	}
	if !a.Alive() || a.Behavior.State != components.StateHunt {
		t.Fatalf("hunter alive=%v state=%v, want alive and hunting", a.Alive(), a.Behavior.State)
	}
	// Kill leaves the corpse's energy as it was after its own step, which is
	// what the attack reward is taken from.
	moved := float32(20 - g.pop.MetabolicCost(a))
	reward := float32(b.Energy.Value * float32(g.cfg.Combat.Reward))
	if want := min(moved+reward, a.Energy.Max); math.Abs(float64(a.Energy.Value-want)) > 1e-4 {
		t.Errorf("hunter energy = %v, want %v (20 - %v move cost + %v reward)",
			a.Energy.Value, want, g.pop.MetabolicCost(a), reward)
	}

	plants, meat := g.world.FoodCounts()
	if plants != 0 || meat != 1 {
		t.Fatalf("food = %d plants, %d meat; want 0, 1", plants, meat)
	}
	pos, food, _ := g.world.Food(g.world.FoodEntities()[0])
	if pos.X != b.Pos.X || pos.Y != b.Pos.Y {
		t.Errorf("meat at (%v, %v), want victim position (%v, %v)", pos.X, pos.Y, b.Pos.X, b.Pos.Y)
	}
	if want := b.Energy.Max * 0.4; food.Energy != want {
		t.Errorf("meat energy = %v, want %v", food.Energy, want)
	}

	// The lone carnivore triggers the herbivore rescue in the same tick
	if got := g.pop.CountByDiet()[components.Herbivore]; got != g.cfg.Population.HerbivoreRescue {
		t.Errorf("herbivores after rescue = %d, want %d", got, g.cfg.Population.HerbivoreRescue)
	}
	if lt := g.lifetime.Get(a.Org.ID); lt == nil || lt.Kills != 1 {
		t.Errorf("hunter lifetime = %+v, want 1 kill", lt)
	}
}

func TestLowPopulationInjection(t *testing.T) {
	g := newTestGame(t, nil)
	lowTicks := g.cfg.Population.LowTicks

	for range lowTicks - 1 {
		g.Step()
	}
	if got := g.pop.Len(); got != 0 {
		t.Fatalf("creatures after %d ticks = %d, want 0", lowTicks-1, got)
	}

	g.Step()
	if got := g.pop.LivingCount(); got != g.cfg.Population.LowRespawn {
		t.Errorf("creatures after %d ticks = %d, want %d", lowTicks, got, g.cfg.Population.LowRespawn)
	}
	if g.lowPopTicks != 0 {
		t.Errorf("low population counter = %d, want reset to 0", g.lowPopTicks)
	}
}

func TestHerbivoreRescue(t *testing.T) {
	g := newTestGame(t, nil)
	e := addCreature(g, 300, 300, testGenome(components.Carnivore, 8))
	c := g.pop.MustGet(e)
	c.Energy.Value = c.Energy.Max

	g.Step()

	counts := g.pop.CountByDiet()
	if counts[components.Herbivore] != 5 {
		t.Errorf("herbivores = %d, want 5", counts[components.Herbivore])
	}
	want := systems.RescueGenome(g.cfg)
	for _, e := range g.pop.Entities() {
		c := g.pop.MustGet(e)
		if c.Genome.Diet == components.Herbivore && *c.Genome != want {
			t.Errorf("rescued genome = %+v, want %+v", *c.Genome, want)
		}
	}
}

func TestPopulationCap(t *testing.T) {
	tests := []struct {
		name    string
		max     int
		parents int
		want    int
	}{
		{"at cap", 3, 3, 3},
		{"one slot", 4, 3, 4},
		{"room for all", 10, 3, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, func(cfg *config.Config) {
				cfg.Population.Max = tt.max
			})
			for i := range tt.parents {
				e := addCreature(g, 200+float32(i)*200, 400, testGenome(components.Herbivore, 8))
				c := g.pop.MustGet(e)
				c.Energy.Value = c.Energy.Max
				c.Energy.Age = 1000
			}

			g.Step()

			if got := g.pop.LivingCount(); got != tt.want {
				t.Errorf("living = %d, want %d", got, tt.want)
			}
			// Every parent paid, even when its offspring was dropped
			for _, e := range g.pop.Entities()[:tt.parents] {
				c := g.pop.MustGet(e)
				if c.Behavior.ReproCooldown == 0 {
					t.Errorf("parent %d did not reproduce", c.Org.ID)
				}
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	g := newTestGame(t, func(cfg *config.Config) {
		cfg.Population.Initial = 15
		cfg.World.InitialFood = 30
	})
	for range 10 {
		g.Step()
	}
	g.SetSpeed(3)

	type snapshot struct {
		genome components.Genome
		x, y   float32
		energy float32
	}
	var before []snapshot
	for _, e := range g.pop.Entities() {
		c := g.pop.MustGet(e)
		if c.Alive() {
			before = append(before, snapshot{*c.Genome, c.Pos.X, c.Pos.Y, c.Energy.Value})
		}
	}
	tick := g.Tick()
	food := g.world.FoodCount()

	if err := g.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	g.Restart()
	g.SetSpeed(1)

	if err := g.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if g.Tick() != tick {
		t.Errorf("tick = %d, want %d", g.Tick(), tick)
	}
	if g.Speed() != 3 {
		t.Errorf("speed = %v, want 3", g.Speed())
	}
	if got := g.world.FoodCount(); got != food {
		t.Errorf("food = %d, want %d", got, food)
	}
	if got := g.pop.Len(); got != len(before) {
		t.Fatalf("creatures = %d, want %d", got, len(before))
	}
	for i, e := range g.pop.Entities() {
		c := g.pop.MustGet(e)
		want := before[i]
		if *c.Genome != want.genome {
			t.Errorf("creature %d genome = %+v, want %+v", i, *c.Genome, want.genome)
		}
		if c.Pos.X != want.x || c.Pos.Y != want.y || c.Energy.Value != want.energy {
			t.Errorf("creature %d state = (%v, %v, %v), want (%v, %v, %v)",
				i, c.Pos.X, c.Pos.Y, c.Energy.Value, want.x, want.y, want.energy)
		}
	}
}

func TestLoadRejectsBadSave(t *testing.T) {
	ctx := context.Background()
	g := newTestGame(t, func(cfg *config.Config) {
		cfg.Population.Initial = 8
	})
	for range 5 {
		g.Step()
	}
	tick, n := g.Tick(), g.pop.Len()

	bad := []byte(`{"version":99,"tick":1,"creatures":[],"world":{"food":[]},"settings":{"speed":1}}`)
	if err := g.store.Put(ctx, g.cfg.Persist.Key, bad); err != nil {
		t.Fatalf("Put: %v", err)
	}
	err := g.Load(ctx)
	if !errors.Is(err, persist.ErrUnsupportedVersion) {
		t.Errorf("Load error = %v, want ErrUnsupportedVersion", err)
	}
	if g.Tick() != tick || g.pop.Len() != n {
		t.Errorf("state changed after rejected load: tick %d->%d, creatures %d->%d", tick, g.Tick(), n, g.pop.Len())
	}
}

func TestLoadMissingSave(t *testing.T) {
	g := newTestGame(t, nil)
	if err := g.Load(context.Background()); !errors.Is(err, persist.ErrNotFound) {
		t.Errorf("Load error = %v, want ErrNotFound", err)
	}
}

func TestPauseGate(t *testing.T) {
	g := newTestGame(t, nil)

	g.Pause()
	g.Update()
	if g.Tick() != 0 {
		t.Errorf("tick advanced while paused: %d", g.Tick())
	}

	g.Resume()
	g.SetSpeed(2.5)
	g.Update()
	if g.Tick() != 3 {
		t.Errorf("tick after one frame at 2.5x = %d, want 3", g.Tick())
	}
}

func TestSetSpeedClamps(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1, 1},
		{0, 0.1},
		{-4, 0.1},
		{25, 10},
		{7.5, 7.5},
	}
	g := newTestGame(t, nil)
	for _, tt := range tests {
		g.SetSpeed(tt.in)
		if g.Speed() != tt.want {
			t.Errorf("SetSpeed(%v) = %v, want %v", tt.in, g.Speed(), tt.want)
		}
	}
}

func TestSelectAt(t *testing.T) {
	g := newTestGame(t, nil)
	near := addCreature(g, 100, 100, testGenome(components.Herbivore, 6))
	far := addCreature(g, 112, 100, testGenome(components.Herbivore, 6))

	if !g.SelectAt(103, 100) {
		t.Fatal("no creature selected")
	}
	if g.selected != near {
		t.Error("selected the farther creature")
	}
	data, ok := g.Inspect()
	if !ok || data.ID != g.pop.MustGet(near).Org.ID {
		t.Errorf("Inspect = %+v, %v", data, ok)
	}

	// Outside size+pad of everything
	if g.SelectAt(400, 400) {
		t.Error("selected empty space")
	}
	if _, ok := g.Selected(); ok {
		t.Error("selection not cleared")
	}

	// Dead creatures cannot be selected
	g.pop.Kill(g.pop.MustGet(far), 0)
	if g.SelectAt(112, 100) {
		t.Error("selected a corpse")
	}
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	g := newTestGame(t, nil)

	tests := []struct {
		cmd   Command
		check func() bool
	}{
		{Command{Type: CmdPause}, func() bool { return g.Paused() }},
		{Command{Type: CmdResume}, func() bool { return !g.Paused() }},
		{Command{Type: CmdTogglePause}, func() bool { return g.Paused() }},
		{Command{Type: CmdSpeed, Speed: 4}, func() bool { return g.Speed() == 4 }},
		{Command{Type: CmdSpawn, Count: 7}, func() bool { return g.pop.LivingCount() == 7 }},
		{Command{Type: CmdRestart}, func() bool { return g.Tick() == 0 }},
	}
	for _, tt := range tests {
		if err := g.Apply(ctx, tt.cmd); err != nil {
			t.Errorf("Apply(%s): %v", tt.cmd.Type, err)
			continue
		}
		if !tt.check() {
			t.Errorf("Apply(%s) had no effect", tt.cmd.Type)
		}
	}

	if err := g.Apply(ctx, Command{Type: "explode"}); err == nil {
		t.Error("unknown command accepted")
	}
}

func TestSpawnRandomRespectsCap(t *testing.T) {
	g := newTestGame(t, func(cfg *config.Config) {
		cfg.Population.Max = 6
	})
	if got := g.SpawnRandom(4); got != 4 {
		t.Errorf("first spawn = %d, want 4", got)
	}
	if got := g.SpawnRandom(4); got != 2 {
		t.Errorf("second spawn = %d, want 2", got)
	}
	if got := g.SpawnRandom(4); got != 0 {
		t.Errorf("third spawn = %d, want 0", got)
	}
}

func TestSafeUpdateRecovers(t *testing.T) {
	g := newTestGame(t, nil)
	g.pop = nil // forces a nil dereference inside the tick

	if err := g.SafeUpdate(); err == nil {
		t.Error("expected recovered error")
	}
}

func TestStepRecordsLoad(t *testing.T) {
	g := newTestGame(t, nil)
	addCreature(g, 100, 100, testGenome(components.Herbivore, 6))
	addCreature(g, 700, 500, testGenome(components.Herbivore, 6))
	g.world.AddFood(102, 100, components.FoodPlant, 30, 0)

	g.Step()

	if g.load.Creatures != 2 || g.load.Food != 1 {
		t.Errorf("load = %+v, want 2 creatures and 1 food", g.load)
	}
	// Only the first herbivore is close enough to query the plant
	if g.load.Contacts != 1 {
		t.Errorf("contacts = %d, want 1", g.load.Contacts)
	}
}

func TestSafeApplyRecovers(t *testing.T) {
	g := newTestGame(t, nil)
	pop := g.pop
	g.pop = nil

	err := g.SafeApply(context.Background(), Command{Type: CmdSpawn, Count: 1})
	if err == nil {
		t.Fatal("expected recovered error")
	}

	// The game stays usable once the fault is gone
	g.pop = pop
	if err := g.SafeApply(context.Background(), Command{Type: CmdSpawn, Count: 2}); err != nil {
		t.Fatalf("spawn after recovery: %v", err)
	}
	if got := g.pop.LivingCount(); got != 2 {
		t.Errorf("living = %d, want 2", got)
	}
}

func TestViewSnapshot(t *testing.T) {
	g := newTestGame(t, func(cfg *config.Config) {
		cfg.Population.Initial = 4
		cfg.World.InitialFood = 10
	})
	e := g.pop.Entities()[0]
	g.pop.Kill(g.pop.MustGet(e), 0)

	v := g.View()
	if len(v.Creatures) != 4 {
		t.Fatalf("creatures = %d, want 4", len(v.Creatures))
	}
	if v.Creatures[0].Alive {
		t.Error("corpse reported alive")
	}
	if v.Stats.Alive != 3 {
		t.Errorf("alive = %d, want 3", v.Stats.Alive)
	}
	if len(v.Food) != g.world.FoodCount() {
		t.Errorf("food = %d, want %d", len(v.Food), g.world.FoodCount())
	}
	for _, f := range v.Food {
		if f.Fade != 1 {
			t.Errorf("plant fade = %v, want 1", f.Fade)
		}
	}
}
