package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/persist"
	"github.com/pthm-cable/ecosim/systems"
)

// Save writes living creatures, food, the tick and the speed setting to the
// store under the configured key.
func (g *Game) Save(ctx context.Context) error {
	doc := g.document()
	data, err := persist.Encode(doc)
	if err != nil {
		slog.Error("save failed", "error", err)
		return err
	}
	if err := g.store.Put(ctx, g.cfg.Persist.Key, data); err != nil {
		slog.Error("save failed", "key", g.cfg.Persist.Key, "error", err)
		return fmt.Errorf("save: %w", err)
	}
	slog.Info("saved",
		"key", g.cfg.Persist.Key,
		"tick", g.tick,
		"creatures", len(doc.Creatures),
		"food", len(doc.World.Food),
		"size", humanize.Bytes(uint64(len(data))),
	)
	return nil
}

// Load replaces the running simulation with the saved one. Nothing is
// touched unless the save was read and validated completely.
func (g *Game) Load(ctx context.Context) error {
	data, err := g.store.Get(ctx, g.cfg.Persist.Key)
	if errors.Is(err, persist.ErrNotFound) {
		slog.Warn("no save found", "key", g.cfg.Persist.Key)
		return err
	}
	if err != nil {
		slog.Error("failed to load save", "key", g.cfg.Persist.Key, "error", err)
		return fmt.Errorf("load: %w", err)
	}

	doc, err := persist.Decode(data)
	if err != nil {
		slog.Error("failed to load save", "key", g.cfg.Persist.Key, "error", err)
		return fmt.Errorf("load: %w", err)
	}

	g.restore(doc)
	slog.Info("loaded",
		"key", g.cfg.Persist.Key,
		"version", doc.Version,
		"tick", g.tick,
		"creatures", g.pop.Len(),
		"food", g.world.FoodCount(),
		"size", humanize.Bytes(uint64(len(data))),
	)
	return nil
}

func (g *Game) document() *persist.Document {
	doc := &persist.Document{
		Tick:     g.tick,
		Settings: persist.Settings{Speed: g.speed},
	}

	for _, e := range g.pop.Entities() {
		c := g.pop.MustGet(e)
		if !c.Alive() {
			continue
		}
		vx, vy, angle := float64(c.Vel.X), float64(c.Vel.Y), float64(c.Rot.Heading)
		doc.Creatures = append(doc.Creatures, persist.CreatureRecord{
			X: float64(c.Pos.X),
			Y: float64(c.Pos.Y),
			Genes: persist.Genes{
				Speed:      float64(c.Genome.Speed),
				Perception: float64(c.Genome.Perception),
				Size:       float64(c.Genome.Size),
				Diet:       float64(c.Genome.Diet),
				Efficiency: float64(c.Genome.Efficiency),
			},
			Generation:           c.Org.Generation,
			Hue:                  float64(c.Org.Hue),
			Energy:               float64(c.Energy.Value),
			Age:                  int(c.Energy.Age),
			ReproductionCooldown: int(c.Behavior.ReproCooldown),
			VX:                   &vx,
			VY:                   &vy,
			Angle:                &angle,
		})
	}

	for _, fe := range g.world.FoodEntities() {
		pos, food, ok := g.world.Food(fe)
		if !ok {
			continue
		}
		rec := persist.FoodRecord{
			X:      float64(pos.X),
			Y:      float64(pos.Y),
			IsMeat: food.IsMeat(),
			Energy: float64(food.Energy),
			Age:    float64(food.Age),
		}
		if !math.IsInf(float64(food.Decay), 1) {
			decay := float64(food.Decay)
			rec.Decay = &decay
		}
		doc.World.Food = append(doc.World.Food, rec)
	}
	return doc
}

// restore rebuilds state from a decoded document. Records from older
// versions without velocity keep the constructor defaults.
func (g *Game) restore(doc *persist.Document) {
	g.reset()
	g.tick = doc.Tick
	g.collector.Reset(doc.Tick)
	g.speed = clampSpeed(g.cfg, doc.Settings.Speed)

	for _, r := range doc.Creatures {
		genome := components.Genome{
			Speed:      float32(r.Genes.Speed),
			Perception: float32(r.Genes.Perception),
			Size:       float32(r.Genes.Size),
			Diet:       components.DietFromValue(float32(r.Genes.Diet)),
			Efficiency: float32(r.Genes.Efficiency),
		}.Clamped()

		e := g.pop.Add(systems.Spawn{
			X:          float32(r.X),
			Y:          float32(r.Y),
			Genome:     genome,
			Generation: r.Generation,
			Hue:        float32(r.Hue),
		})
		c := g.pop.MustGet(e)
		c.Energy.Value = min(float32(r.Energy), c.Energy.Max)
		c.Energy.Age = int32(r.Age)
		c.Behavior.ReproCooldown = int32(r.ReproductionCooldown)
		if r.VX != nil {
			c.Vel.X = float32(*r.VX)
		}
		if r.VY != nil {
			c.Vel.Y = float32(*r.VY)
		}
		if r.Angle != nil {
			c.Rot.Heading = float32(*r.Angle)
		}
		g.lifetime.Register(c.Org.ID, g.tick)
	}

	for _, r := range doc.World.Food {
		kind := components.FoodPlant
		if r.IsMeat {
			kind = components.FoodMeat
		}
		fe := g.world.AddFood(float32(r.X), float32(r.Y), kind, float32(r.Energy), float32(r.Age))
		if r.Decay != nil {
			if _, food, ok := g.world.Food(fe); ok {
				food.Decay = float32(*r.Decay)
			}
		}
	}
	g.world.RebuildGrid()
}
