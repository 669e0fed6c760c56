package telemetry

import (
	"log/slog"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a telemetry window.
type WindowStats struct {
	RunID           string `csv:"run_id"`
	WindowStartTick int64  `csv:"-"`
	WindowEndTick   int64  `csv:"window_end"`

	// Population at window end
	Alive       int `csv:"alive"`
	Herbivores  int `csv:"herbivores"`
	Omnivores   int `csv:"omnivores"`
	Carnivores  int `csv:"carnivores"`
	MaxGen      int `csv:"max_generation"`
	PlantCount  int `csv:"plants"`
	MeatCount   int `csv:"meat"`
	CorpseCount int `csv:"corpses"`

	// Events during window
	HerbivoreBirths int `csv:"herbivore_births"`
	OmnivoreBirths  int `csv:"omnivore_births"`
	CarnivoreBirths int `csv:"carnivore_births"`
	HerbivoreDeaths int `csv:"herbivore_deaths"`
	OmnivoreDeaths  int `csv:"omnivore_deaths"`
	CarnivoreDeaths int `csv:"carnivore_deaths"`

	// Predation
	Attacks  int     `csv:"attacks"`
	Kills    int     `csv:"kills"`
	Repelled int     `csv:"repelled"`
	KillRate float64 `csv:"kill_rate"`

	PlantsEaten int `csv:"plants_eaten"`
	MeatEaten   int `csv:"meat_eaten"`

	// Safeguards
	LowPopInjected int `csv:"lowpop_injected"`
	RescueInjected int `csv:"rescue_injected"`

	// Trait distributions over living creatures, flattened as speed.mean etc.
	Speed      TraitSummary `csv:"speed"`
	Size       TraitSummary `csv:"size"`
	Perception TraitSummary `csv:"perception"`
	Efficiency TraitSummary `csv:"efficiency"`
	EnergyFrac TraitSummary `csv:"energy"`
}

// TraitSummary describes the distribution of one value across the population.
type TraitSummary struct {
	Mean float64 `csv:"mean"`
	Std  float64 `csv:"std"`
	P10  float64 `csv:"p10"`
	P50  float64 `csv:"p50"`
	P90  float64 `csv:"p90"`
}

// Summarize computes mean, sample standard deviation and empirical
// percentiles. Empty input gives a zero summary.
func Summarize(values []float64) TraitSummary {
	n := len(values)
	if n == 0 {
		return TraitSummary{}
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	if n < 2 || math.IsNaN(std) {
		std = 0
	}

	return TraitSummary{
		Mean: mean,
		Std:  std,
		P10:  stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
}

func (t TraitSummary) group(name string) slog.Attr {
	return slog.Group(name,
		slog.Float64("mean", t.Mean),
		slog.Float64("std", t.Std),
		slog.Float64("p50", t.P50),
	)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Int("alive", s.Alive),
		slog.Int("herbivores", s.Herbivores),
		slog.Int("omnivores", s.Omnivores),
		slog.Int("carnivores", s.Carnivores),
		slog.Int("max_generation", s.MaxGen),
		slog.Int("plants", s.PlantCount),
		slog.Int("meat", s.MeatCount),
		slog.Int("births", s.HerbivoreBirths+s.OmnivoreBirths+s.CarnivoreBirths),
		slog.Int("deaths", s.HerbivoreDeaths+s.OmnivoreDeaths+s.CarnivoreDeaths),
		slog.Int("attacks", s.Attacks),
		slog.Int("kills", s.Kills),
		slog.Float64("kill_rate", s.KillRate),
		slog.Int("plants_eaten", s.PlantsEaten),
		slog.Int("meat_eaten", s.MeatEaten),
		slog.Int("lowpop_injected", s.LowPopInjected),
		slog.Int("rescue_injected", s.RescueInjected),
		s.Speed.group("speed"),
		s.Size.group("size"),
		s.Perception.group("perception"),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
