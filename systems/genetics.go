package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/ecosim/components"
)

// Mutate returns a child genome. Each trait independently mutates with
// probability rate by a relative amount uniform in [-scale, scale), then is
// clamped to its range. Diet mutates as a continuous value and is rounded.
func Mutate(g components.Genome, rng *rand.Rand, rate, scale float32) components.Genome {
	mutate := func(v float32, r components.Range) float32 {
		if rng.Float32() < rate {
			v = r.Clamp(v + v*(rng.Float32()*2*scale-scale))
		}
		return v
	}
	return components.Genome{
		Speed:      mutate(g.Speed, components.SpeedRange),
		Perception: mutate(g.Perception, components.PerceptionRange),
		Size:       mutate(g.Size, components.SizeRange),
		Diet:       components.DietFromValue(mutate(float32(g.Diet), components.DietRange)),
		Efficiency: mutate(g.Efficiency, components.EfficiencyRange),
	}
}

// DriftHue shifts hue by up to +-drift degrees with probability chance, wrapping into [0, 360).
func DriftHue(hue float32, rng *rand.Rand, chance, drift float32) float32 {
	if rng.Float32() >= chance {
		return hue
	}
	h := hue + rng.Float32()*2*drift - drift + 360
	return float32(math.Mod(float64(h), 360))
}

// CanReproduce reports whether energy, age and cooldown allow reproduction.
func (p *Population) CanReproduce(c Creature) bool {
	rc := &p.cfg.Reproduction
	return c.Energy.Value > c.Energy.Max*float32(rc.Threshold) &&
		c.Energy.Age > int32(rc.MaturityAge) &&
		c.Behavior.ReproCooldown <= 0
}

// Reproduce charges the parent and returns the offspring spawn, placed at a
// random angle two body sizes away, one generation deeper.
func (p *Population) Reproduce(c Creature) Spawn {
	rc := &p.cfg.Reproduction
	c.Energy.Value -= c.Energy.Max * float32(rc.Cost)
	c.Behavior.ReproCooldown = int32(rc.Cooldown)

	genome := Mutate(*c.Genome, p.rng, float32(rc.MutationRate), float32(rc.MutationScale))
	hue := DriftHue(c.Org.Hue, p.rng, float32(rc.HueDriftChance), float32(rc.HueDrift))

	angle := p.rng.Float32() * 2 * math.Pi
	dist := c.Genome.Size * float32(rc.OffsetFactor)
	return Spawn{
		X:          c.Pos.X + cos32(angle)*dist,
		Y:          c.Pos.Y + sin32(angle)*dist,
		Genome:     genome,
		Generation: c.Org.Generation + 1,
		Hue:        hue,
	}
}
