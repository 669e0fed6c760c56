package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/systems"
)

// seed creates the starting population and food.
func (g *Game) seed() {
	for range g.cfg.Population.Initial {
		g.spawnRandom()
	}
	g.world.SpawnFood(g.cfg.World.InitialFood)
	g.world.RebuildGrid()
}

// spawnRandom adds a creature with a random genome at a uniform position.
func (g *Game) spawnRandom() ecs.Entity {
	e := g.pop.AddRandom(g.width, g.height)
	g.registerFounder(e)
	return e
}

// spawnFounder adds a creature with the given genome at a uniform position.
func (g *Game) spawnFounder(genome components.Genome) ecs.Entity {
	e := g.pop.Add(systems.Spawn{
		X:      g.rng.Float32() * g.width,
		Y:      g.rng.Float32() * g.height,
		Genome: genome,
		Hue:    g.rng.Float32() * 360,
	})
	g.registerFounder(e)
	return e
}

func (g *Game) registerFounder(e ecs.Entity) {
	c := g.pop.MustGet(e)
	g.lifetime.Register(c.Org.ID, g.tick)
}

// Restart discards every creature and food item and reseeds the world.
// Speed and pause state are kept.
func (g *Game) Restart() {
	g.reset()
	g.seed()
	g.logWorldState("simulation restarted")
}

// reset empties the simulation and zeroes the tick and safeguard counters.
func (g *Game) reset() {
	g.pop.Clear()
	g.world.Clear()
	g.lifetime.Clear()
	g.births = g.births[:0]
	g.selected = ecs.Entity{}
	g.tick = 0
	g.lowPopTicks = 0
	g.collector.Reset(0)
}

// SpawnRandom adds up to n random creatures without exceeding the
// population cap. It returns how many were added.
func (g *Game) SpawnRandom(n int) int {
	room := g.cfg.Population.Max - g.pop.LivingCount()
	n = max(0, min(n, room))
	for range n {
		g.spawnRandom()
	}
	if n > 0 {
		slog.Info("spawned creatures", "count", n, "tick", g.tick)
	}
	return n
}
