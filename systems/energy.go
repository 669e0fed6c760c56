package systems

import "github.com/pthm-cable/ecosim/components"

// MetabolicCost returns the per-tick energy cost: idle while wandering,
// otherwise proportional to genome speed. Both scale with body size.
func (p *Population) MetabolicCost(c Creature) float32 {
	cc := &p.cfg.Creature
	sizeFactor := c.Genome.Size / float32(cc.SizeNorm)
	if c.Behavior.State == components.StateWander {
		return float32(cc.IdleCost) * sizeFactor
	}
	return float32(cc.MoveCost) * c.Genome.Speed * sizeFactor
}

// Eat consumes food. Herbivores gain nothing from meat and return false.
// Carnivores gain a reduced yield from plants. Energy is clamped to max.
// The return value tells the caller whether to remove the food.
func (p *Population) Eat(c Creature, f *components.Food) bool {
	if f.IsMeat() && c.Genome.Diet == components.Herbivore {
		return false
	}
	gained := f.Energy * c.Genome.Efficiency
	if !f.IsMeat() && c.Genome.Diet == components.Carnivore {
		gained *= float32(p.cfg.Creature.CarnivorePlantYield)
	}
	c.Energy.Value = min(c.Energy.Value+gained, c.Energy.Max)
	return true
}
