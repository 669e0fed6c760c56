package telemetry

import "github.com/pthm-cable/ecosim/components"

// Sample is the population state measured at the end of a window.
type Sample struct {
	Counts       [components.NumDiets]int
	MaxGen       int
	Plants       int
	Meat         int
	Corpses      int
	Speeds       []float64
	Sizes        []float64
	Perceptions  []float64
	Efficiencies []float64
	EnergyFracs  []float64
}

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	runID       string
	windowTicks int64

	windowStartTick int64

	births   [components.NumDiets]int
	deaths   [components.NumDiets]int
	attacks  int
	kills    int
	repelled int

	plantsEaten int
	meatEaten   int

	lowPopInjected int
	rescueInjected int
}

// NewCollector creates a collector that flushes every windowTicks ticks.
func NewCollector(runID string, windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		runID:       runID,
		windowTicks: int64(windowTicks),
	}
}

// RecordBirth records a birth.
func (c *Collector) RecordBirth(d components.Diet) {
	if d < components.NumDiets {
		c.births[d]++
	}
}

// RecordDeath records a death.
func (c *Collector) RecordDeath(d components.Diet) {
	if d < components.NumDiets {
		c.deaths[d]++
	}
}

// RecordAttack records an eligible attack and whether it killed.
func (c *Collector) RecordAttack(killed bool) {
	c.attacks++
	if killed {
		c.kills++
	} else {
		c.repelled++
	}
}

// RecordEat records one food item consumed.
func (c *Collector) RecordEat(meat bool) {
	if meat {
		c.meatEaten++
	} else {
		c.plantsEaten++
	}
}

// RecordLowPopInjection records creatures added by the low-population safeguard.
func (c *Collector) RecordLowPopInjection(n int) {
	c.lowPopInjected += n
}

// RecordRescue records herbivores added by the rescue safeguard.
func (c *Collector) RecordRescue(n int) {
	c.rescueInjected += n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(tick int64) bool {
	return tick-c.windowStartTick >= c.windowTicks
}

// Reset discards counters and starts a new window at tick.
func (c *Collector) Reset(tick int64) {
	runID, windowTicks := c.runID, c.windowTicks
	*c = Collector{runID: runID, windowTicks: windowTicks, windowStartTick: tick}
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(tick int64, s Sample) WindowStats {
	var killRate float64
	if c.attacks > 0 {
		killRate = float64(c.kills) / float64(c.attacks)
	}

	alive := 0
	for _, n := range s.Counts {
		alive += n
	}

	stats := WindowStats{
		RunID:           c.runID,
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   tick,

		Alive:       alive,
		Herbivores:  s.Counts[components.Herbivore],
		Omnivores:   s.Counts[components.Omnivore],
		Carnivores:  s.Counts[components.Carnivore],
		MaxGen:      s.MaxGen,
		PlantCount:  s.Plants,
		MeatCount:   s.Meat,
		CorpseCount: s.Corpses,

		HerbivoreBirths: c.births[components.Herbivore],
		OmnivoreBirths:  c.births[components.Omnivore],
		CarnivoreBirths: c.births[components.Carnivore],
		HerbivoreDeaths: c.deaths[components.Herbivore],
		OmnivoreDeaths:  c.deaths[components.Omnivore],
		CarnivoreDeaths: c.deaths[components.Carnivore],

		Attacks:  c.attacks,
		Kills:    c.kills,
		Repelled: c.repelled,
		KillRate: killRate,

		PlantsEaten: c.plantsEaten,
		MeatEaten:   c.meatEaten,

		LowPopInjected: c.lowPopInjected,
		RescueInjected: c.rescueInjected,

		Speed:      Summarize(s.Speeds),
		Size:       Summarize(s.Sizes),
		Perception: Summarize(s.Perceptions),
		Efficiency: Summarize(s.Efficiencies),
		EnergyFrac: Summarize(s.EnergyFracs),
	}

	c.Reset(tick)
	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int64 {
	return c.windowTicks
}
