package systems

import (
	"math"
	"math/rand"
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
)

// World owns the food population, the biome lookup and the food index.
// Food items are ECS entities with Position and Food components; the World
// keeps them in spawn order so iteration and random parent picks are deterministic.
type World struct {
	Width, Height float32

	cfg    *config.Config
	rng    *rand.Rand
	ecs    *ecs.World
	biomes Biomes
	grid   *FoodGrid

	foodMapper *ecs.Map2[components.Position, components.Food]
	foodMap    *ecs.Map[components.Food]
	food       []ecs.Entity
}

// NewWorld creates an empty world sized from the derived config.
func NewWorld(w *ecs.World, cfg *config.Config, rng *rand.Rand) *World {
	width, height := cfg.Derived.WorldW32, cfg.Derived.WorldH32
	return &World{
		Width:      width,
		Height:     height,
		cfg:        cfg,
		rng:        rng,
		ecs:        w,
		biomes:     NewBiomes(cfg.Biomes, width, height, float32(cfg.World.BiomeBlend)),
		grid:       NewFoodGrid(float32(cfg.World.GridCellSize)),
		foodMapper: ecs.NewMap2[components.Position, components.Food](w),
		foodMap:    ecs.NewMap[components.Food](w),
	}
}

// BiomeAt returns the blended biome at a position.
func (w *World) BiomeAt(x, y float32) Biome {
	return w.biomes.At(x, y)
}

// Biomes exposes the quadrant lookup for renderers.
func (w *World) Biomes() *Biomes {
	return &w.biomes
}

// SpawnFood attempts n plant spawns. Each attempt clusters near a random
// existing item with cluster_chance probability, otherwise picks a uniform
// position, then is accepted with the local biome's food modifier.
// It returns the number of plants actually created.
func (w *World) SpawnFood(n int) int {
	wc := &w.cfg.World
	edge := float32(wc.EdgeMargin)
	margin := float32(wc.UniformMargin)

	spawned := 0
	for i := 0; i < n; i++ {
		var x, y float32
		if len(w.food) > 0 && w.rng.Float64() < wc.ClusterChance {
			parent, _ := w.foodMapper.Get(w.food[w.rng.Intn(len(w.food))])
			angle := w.rng.Float32() * 2 * math.Pi
			d := float32(wc.ClusterMin + w.rng.Float64()*(wc.ClusterMax-wc.ClusterMin))
			x = parent.X + cos32(angle)*d
			y = parent.Y + sin32(angle)*d
		} else {
			x = margin + w.rng.Float32()*(w.Width-2*margin)
			y = margin + w.rng.Float32()*(w.Height-2*margin)
		}

		x = clampFloat(x, edge, w.Width-edge)
		y = clampFloat(y, edge, w.Height-edge)

		if w.rng.Float32() < w.biomes.At(x, y).FoodMod {
			w.AddFood(x, y, components.FoodPlant, float32(wc.PlantEnergy), 0)
			spawned++
		}
	}
	return spawned
}

// SpawnMeat places meat unconditionally.
func (w *World) SpawnMeat(x, y, energy float32) ecs.Entity {
	return w.AddFood(x, y, components.FoodMeat, energy, 0)
}

// AddFood creates a food entity of the given kind. Plants never decay;
// meat decays after the configured horizon.
func (w *World) AddFood(x, y float32, kind components.FoodKind, energy, age float32) ecs.Entity {
	f := components.Food{
		Kind:   kind,
		Energy: energy,
		Age:    age,
		Decay:  components.NoDecay,
	}
	if kind == components.FoodMeat {
		f.Decay = float32(w.cfg.World.MeatDecay)
	}
	f.Shape = w.newShape(kind)

	pos := components.Position{X: x, Y: y}
	e := w.foodMapper.NewEntity(&pos, &f)
	w.food = append(w.food, e)
	return e
}

func (w *World) newShape(kind components.FoodKind) components.FoodShape {
	if kind == components.FoodMeat {
		var m components.MeatShape
		for i := range m.Offsets {
			m.Offsets[i] = 0.6 + w.rng.Float32()*0.8
		}
		return m
	}
	tendrils := make([]components.Tendril, 2+w.rng.Intn(2))
	for i := range tendrils {
		tendrils[i] = components.Tendril{
			Angle:  w.rng.Float32() * 2 * math.Pi,
			Length: 4 + w.rng.Float32()*5,
		}
	}
	return components.PlantShape{Tendrils: tendrils}
}

// Update ages all food, drops expired items, rolls for a plant spawn and
// rebuilds the food index.
func (w *World) Update(speed float32) {
	kept := w.food[:0]
	var expired []ecs.Entity
	for _, e := range w.food {
		f := w.foodMap.Get(e)
		f.Age++
		if f.Expired() {
			expired = append(expired, e)
			continue
		}
		kept = append(kept, e)
	}
	w.food = kept
	for _, e := range expired {
		w.ecs.RemoveEntity(e)
	}

	chance := w.cfg.World.BaseSpawnRate * float64(speed) / 60
	if w.rng.Float64() < chance {
		w.SpawnFood(1)
	}

	w.RebuildGrid()
}

// RebuildGrid re-buckets all current food.
func (w *World) RebuildGrid() {
	w.grid.Clear()
	for _, e := range w.food {
		pos, _ := w.foodMapper.Get(e)
		w.grid.Insert(e, pos.X, pos.Y)
	}
}

// RemoveFood removes a food item. Removing an unknown or already removed
// item is a no-op and returns false.
func (w *World) RemoveFood(e ecs.Entity) bool {
	idx := slices.Index(w.food, e)
	if idx < 0 {
		return false
	}
	w.food = slices.Delete(w.food, idx, idx+1)
	w.ecs.RemoveEntity(e)
	return true
}

// FoodInRange returns food within radius according to the last rebuilt index.
// Items removed since the rebuild may appear; resolve them with Food.
func (w *World) FoodInRange(x, y, radius float32) []ecs.Entity {
	return w.grid.Query(x, y, radius)
}

// FoodInRangeInto is FoodInRange appending into dst.
func (w *World) FoodInRangeInto(dst []ecs.Entity, x, y, radius float32) []ecs.Entity {
	return w.grid.QueryInto(dst, x, y, radius)
}

// Food resolves a food entity. ok is false if the item no longer exists.
// The returned pointers are valid until the next food spawn or removal.
func (w *World) Food(e ecs.Entity) (pos *components.Position, food *components.Food, ok bool) {
	if e == (ecs.Entity{}) || !w.ecs.Alive(e) || !w.foodMap.Has(e) {
		return nil, nil, false
	}
	pos, food = w.foodMapper.Get(e)
	return pos, food, true
}

// IsFood reports whether e refers to an existing food item.
func (w *World) IsFood(e ecs.Entity) bool {
	_, _, ok := w.Food(e)
	return ok
}

// FoodEntities returns food in spawn order. The slice must not be modified.
func (w *World) FoodEntities() []ecs.Entity {
	return w.food
}

// FoodCount returns the number of food items.
func (w *World) FoodCount() int {
	return len(w.food)
}

// FoodCounts returns plant and meat counts.
func (w *World) FoodCounts() (plants, meat int) {
	for _, e := range w.food {
		if w.foodMap.Get(e).IsMeat() {
			meat++
		} else {
			plants++
		}
	}
	return plants, meat
}

// Clear removes all food and empties the index.
func (w *World) Clear() {
	for _, e := range w.food {
		w.ecs.RemoveEntity(e)
	}
	w.food = w.food[:0]
	w.grid.Clear()
}
