package game

import (
	"log/slog"

	"github.com/pthm-cable/ecosim/telemetry"
)

// flushTelemetry closes the stats window when it is due.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.sample())
	perf := g.perf.Report()

	if g.logStats {
		stats.LogStats()
		slog.Info("perf", "window_end", stats.WindowEndTick, "profile", perf)
	}

	if err := g.output.WriteWindow(stats, perf); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
}

// sample measures the living population for the window summary.
func (g *Game) sample() telemetry.Sample {
	n := g.pop.Len()
	s := telemetry.Sample{
		Speeds:       make([]float64, 0, n),
		Sizes:        make([]float64, 0, n),
		Perceptions:  make([]float64, 0, n),
		Efficiencies: make([]float64, 0, n),
		EnergyFracs:  make([]float64, 0, n),
	}
	s.Plants, s.Meat = g.world.FoodCounts()

	for _, e := range g.pop.Entities() {
		c := g.pop.MustGet(e)
		if !c.Alive() {
			s.Corpses++
			continue
		}
		s.Counts[c.Genome.Diet]++
		s.MaxGen = max(s.MaxGen, c.Org.Generation)
		s.Speeds = append(s.Speeds, float64(c.Genome.Speed))
		s.Sizes = append(s.Sizes, float64(c.Genome.Size))
		s.Perceptions = append(s.Perceptions, float64(c.Genome.Perception))
		s.Efficiencies = append(s.Efficiencies, float64(c.Genome.Efficiency))
		s.EnergyFracs = append(s.EnergyFracs, float64(c.Energy.Ratio()))
	}
	return s
}
