package game

import (
	"context"
	"log/slog"

	"github.com/pthm-cable/ecosim/systems"
	"github.com/pthm-cable/ecosim/telemetry"
)

// logDeath writes a debug record summarizing a creature's life.
func (g *Game) logDeath(c systems.Creature, lt *telemetry.LifetimeStats) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	attrs := []any{
		"id", c.Org.ID,
		"diet", c.Genome.Diet.String(),
		"generation", c.Org.Generation,
		"age", c.Energy.Age,
		"tick", g.tick,
	}
	if lt != nil {
		attrs = append(attrs,
			"lived", g.tick-lt.BirthTick,
			"children", lt.Children,
			"kills", lt.Kills,
			"attacks", lt.Attacks,
			"plants_eaten", lt.PlantsEaten,
			"meat_eaten", lt.MeatEaten,
			"peak_energy", lt.PeakEnergy,
		)
	}
	slog.Debug("creature died", attrs...)
}

// logWorldState writes a one-line population summary.
func (g *Game) logWorldState(msg string) {
	s := g.Stats()
	slog.Info(msg,
		"tick", s.Tick,
		"alive", s.Alive,
		"herbivores", s.ByDiet[0],
		"omnivores", s.ByDiet[1],
		"carnivores", s.ByDiet[2],
		"max_generation", s.MaxGeneration,
		"plants", s.Plants,
		"meat", s.Meat,
	)
}
