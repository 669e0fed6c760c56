package systems

import "github.com/pthm-cable/ecosim/config"

// Biome is a named quadrant zone.
type Biome struct {
	Name     string
	FoodMod  float32 // plant spawn acceptance probability
	SpeedMod float32 // locomotion multiplier
}

// Biomes maps positions to one of four quadrant biomes, blended toward
// neutral modifiers near the quadrant boundaries.
type Biomes struct {
	zones         [4]Biome // NW, NE, SW, SE
	width, height float32
	blend         float32
}

// NewBiomes builds the quadrant lookup from config. Config validation guarantees four entries.
func NewBiomes(zones []config.BiomeConfig, width, height, blend float32) Biomes {
	b := Biomes{width: width, height: height, blend: blend}
	for i := range b.zones {
		if i >= len(zones) {
			b.zones[i] = Biome{Name: "Neutral", FoodMod: 1, SpeedMod: 1}
			continue
		}
		b.zones[i] = Biome{
			Name:     zones[i].Name,
			FoodMod:  float32(zones[i].FoodMod),
			SpeedMod: float32(zones[i].SpeedMod),
		}
	}
	return b
}

// Zone returns the unblended quadrant biome containing (x, y).
func (b *Biomes) Zone(x, y float32) Biome {
	idx := 0
	if x >= b.width/2 {
		idx++
	}
	if y >= b.height/2 {
		idx += 2
	}
	return b.zones[idx]
}

// At returns the blended biome at (x, y). Within blend distance of either
// midline both modifiers are interpolated from 1 by min(dx, dy)/blend.
// The result depends on position only.
func (b *Biomes) At(x, y float32) Biome {
	zone := b.Zone(x, y)

	dx := abs32(x - b.width/2)
	dy := abs32(y - b.height/2)
	if b.blend > 0 && (dx < b.blend || dy < b.blend) {
		t := min(dx, dy) / b.blend
		zone.FoodMod = lerp(1, zone.FoodMod, t)
		zone.SpeedMod = lerp(1, zone.SpeedMod, t)
	}
	return zone
}
