package components

import "math"

// Diet is a creature's trophic category.
type Diet uint8

const (
	Herbivore Diet = iota
	Omnivore
	Carnivore
)

// NumDiets is the number of diet categories.
const NumDiets = 3

// Range is a closed trait interval.
type Range struct {
	Min, Max float32
}

// Clamp restricts v to the range.
func (r Range) Clamp(v float32) float32 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float32) bool {
	return v >= r.Min && v <= r.Max
}

// Trait ranges. Diet is a category in [Herbivore, Carnivore].
var (
	SpeedRange      = Range{1, 5}
	PerceptionRange = Range{50, 200}
	SizeRange       = Range{4, 12}
	DietRange       = Range{0, 2}
	EfficiencyRange = Range{0.5, 1.5}
)

// Genome is the heritable trait set of a creature.
type Genome struct {
	Speed      float32 `json:"speed"`
	Perception float32 `json:"perception"`
	Size       float32 `json:"size"`
	Diet       Diet    `json:"diet"`
	Efficiency float32 `json:"efficiency"`
}

// Valid reports whether every trait lies within its declared range.
func (g Genome) Valid() bool {
	return SpeedRange.Contains(g.Speed) &&
		PerceptionRange.Contains(g.Perception) &&
		SizeRange.Contains(g.Size) &&
		g.Diet <= Carnivore &&
		EfficiencyRange.Contains(g.Efficiency)
}

// Clamped returns a copy with every trait forced into range.
func (g Genome) Clamped() Genome {
	return Genome{
		Speed:      SpeedRange.Clamp(g.Speed),
		Perception: PerceptionRange.Clamp(g.Perception),
		Size:       SizeRange.Clamp(g.Size),
		Diet:       DietFromValue(float32(g.Diet)),
		Efficiency: EfficiencyRange.Clamp(g.Efficiency),
	}
}

// DietFromValue rounds a continuous diet value to the nearest category.
func DietFromValue(v float32) Diet {
	v = DietRange.Clamp(v)
	return Diet(math.Round(float64(v)))
}

// IsPredatory reports whether the diet allows attacking other creatures.
func (d Diet) IsPredatory() bool {
	return d > Herbivore
}
