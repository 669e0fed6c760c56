package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/systems"
	"github.com/pthm-cable/ecosim/telemetry"
)

// Step runs one full tick regardless of the pause gate.
func (g *Game) Step() {
	g.perf.BeginTick()
	g.load = telemetry.Load{}
	g.tick++

	// 1. Age and spawn food, rebuild the food index
	g.perf.Enter(telemetry.PhaseWorld)
	g.world.Update(1)
	g.load.Food = g.world.FoodCount()

	// 2. Behavior, movement, metabolism and reproduction
	g.perf.Enter(telemetry.PhaseCreatures)
	g.updateCreatures()

	// 3. Eating and attacks
	g.perf.Enter(telemetry.PhaseCollisions)
	g.checkCollisions()

	// 4. Low population and herbivore rescue
	g.perf.Enter(telemetry.PhaseSafeguards)
	g.populationSafeguards()

	// 5. Drop corpses past the grace period
	g.perf.Enter(telemetry.PhaseCorpses)
	g.retireCorpses()

	g.perf.Enter(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perf.EndTick(g.load)
}

// updateCreatures steps every living creature in list order. Offspring are
// queued and only join the population once the pass is over.
func (g *Game) updateCreatures() {
	g.births = g.births[:0]
	alive := g.pop.LivingCount()
	maxPop := g.cfg.Population.Max

	for _, e := range g.pop.Entities() {
		c := g.pop.MustGet(e)
		if !c.Alive() {
			continue
		}

		g.load.Creatures++
		child, ok := g.pop.Step(c, g.world, 1, g.tick)
		if !c.Alive() {
			alive--
			g.onDeath(c)
			continue
		}
		g.lifetime.UpdateEnergy(c.Org.ID, c.Energy.Value)

		// Over the cap the offspring is dropped; the parent has still paid.
		if ok && alive+len(g.births) < maxPop {
			g.births = append(g.births, birth{spawn: child, parentID: c.Org.ID})
		}
	}

	// Adding entities invalidates component pointers, so views are not
	// held across this loop.
	for _, b := range g.births {
		e := g.pop.Add(b.spawn)
		c := g.pop.MustGet(e)
		g.lifetime.RegisterChild(c.Org.ID, b.parentID, g.tick)
		g.collector.RecordBirth(c.Genome.Diet)
	}
}

// checkCollisions lets every living creature eat food it touches, then lets
// hunting predators attack creatures they overlap.
func (g *Game) checkCollisions() {
	for _, e := range g.pop.Entities() {
		c := g.pop.MustGet(e)
		if !c.Alive() {
			continue
		}
		g.eatNearby(c)
		if c.Genome.Diet.IsPredatory() && c.Behavior.State == components.StateHunt {
			g.attackOverlapping(c)
		}
	}
}

func (g *Game) eatNearby(c systems.Creature) {
	cc := &g.cfg.Creature
	size := c.Genome.Size
	reach := size + float32(cc.EatReachPad)

	g.foodBuf = g.world.FoodInRangeInto(g.foodBuf[:0], c.Pos.X, c.Pos.Y, size+float32(cc.EatQueryPad))
	g.load.Contacts += len(g.foodBuf)
	for _, fe := range g.foodBuf {
		// The index was built before this pass, so an item may already be eaten.
		pos, food, ok := g.world.Food(fe)
		if !ok {
			continue
		}
		if systems.Distance(c.Pos.X, c.Pos.Y, pos.X, pos.Y) >= reach {
			continue
		}
		meat := food.IsMeat()
		before := c.Energy.Value
		if g.pop.Eat(c, food) {
			g.world.RemoveFood(fe)
			g.collector.RecordEat(meat)
			g.lifetime.RecordEat(c.Org.ID, meat, c.Energy.Value-before)
		}
	}
}

func (g *Game) attackOverlapping(c systems.Creature) {
	for _, oe := range g.pop.Entities() {
		if oe == c.Entity {
			continue
		}
		other := g.pop.MustGet(oe)
		if !other.Alive() {
			continue
		}
		g.load.Contacts++
		if systems.Distance(c.Pos.X, c.Pos.Y, other.Pos.X, other.Pos.Y) >= c.Genome.Size+other.Genome.Size {
			continue
		}

		switch g.pop.TryAttack(c, other, g.tick) {
		case systems.AttackKilled:
			g.world.SpawnMeat(other.Pos.X, other.Pos.Y, other.Energy.Max*float32(g.cfg.Combat.MeatFraction))
			g.collector.RecordAttack(true)
			g.lifetime.RecordAttack(c.Org.ID, true)
			g.onDeath(other)
		case systems.AttackRepelled:
			g.collector.RecordAttack(false)
			g.lifetime.RecordAttack(c.Org.ID, false)
		}
	}
}

// populationSafeguards injects random creatures after a sustained low
// population and baseline herbivores when none are left. Both checks use
// the counts taken before either injection.
func (g *Game) populationSafeguards() {
	pc := &g.cfg.Population
	counts := g.pop.CountByDiet()
	alive := 0
	for _, n := range counts {
		alive += n
	}

	if alive < pc.LowThreshold {
		g.lowPopTicks++
		if g.lowPopTicks >= pc.LowTicks {
			for range pc.LowRespawn {
				g.spawnRandom()
			}
			g.lowPopTicks = 0
			g.collector.RecordLowPopInjection(pc.LowRespawn)
			slog.Warn("low population, injecting creatures",
				"tick", g.tick,
				"alive", alive,
				"injected", pc.LowRespawn,
			)
		}
	} else {
		g.lowPopTicks = 0
	}

	if counts[components.Herbivore] == 0 && alive > 0 {
		genome := systems.RescueGenome(g.cfg)
		for range pc.HerbivoreRescue {
			g.spawnFounder(genome)
		}
		g.collector.RecordRescue(pc.HerbivoreRescue)
		slog.Warn("herbivores extinct, injecting baseline herbivores",
			"tick", g.tick,
			"alive", alive,
			"injected", pc.HerbivoreRescue,
		)
	}
}

func (g *Game) retireCorpses() {
	for _, e := range g.pop.RetireCorpses(g.cfg.Corpse.RetireAfter) {
		if e == g.selected {
			g.selected = ecs.Entity{}
		}
	}
}

// onDeath records a death. The creature stays in the list as a corpse.
func (g *Game) onDeath(c systems.Creature) {
	g.collector.RecordDeath(c.Genome.Diet)
	g.logDeath(c, g.lifetime.Remove(c.Org.ID))
	if c.Entity == g.selected {
		g.selected = ecs.Entity{}
	}
}
