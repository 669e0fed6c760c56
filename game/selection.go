package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/systems"
	"github.com/pthm-cable/ecosim/ui"
)

// selectPad is the click tolerance beyond a creature's body size.
const selectPad = 5

// SelectAt selects the nearest living creature whose center is within its
// size plus selectPad of (x, y). It clears the selection and returns false
// when nothing qualifies.
func (g *Game) SelectAt(x, y float32) bool {
	g.selected = ecs.Entity{}
	best := float32(-1)
	for _, e := range g.pop.Entities() {
		c := g.pop.MustGet(e)
		if !c.Alive() {
			continue
		}
		d := systems.Distance(x, y, c.Pos.X, c.Pos.Y)
		if d >= c.Genome.Size+selectPad {
			continue
		}
		if best < 0 || d < best {
			best = d
			g.selected = e
		}
	}
	return best >= 0
}

// Selected returns the selected creature if it is still alive.
func (g *Game) Selected() (systems.Creature, bool) {
	if !g.pop.IsLiving(g.selected) {
		return systems.Creature{}, false
	}
	return g.pop.Get(g.selected)
}

// ClearSelection drops the selection.
func (g *Game) ClearSelection() {
	g.selected = ecs.Entity{}
}

// Inspect returns detail data for the selected creature.
func (g *Game) Inspect() (ui.InspectorData, bool) {
	c, ok := g.Selected()
	if !ok {
		return ui.InspectorData{}, false
	}
	data := ui.InspectorData{
		ID:         c.Org.ID,
		Diet:       c.Genome.Diet.String(),
		State:      c.Behavior.State.String(),
		Generation: c.Org.Generation,
		Hue:        c.Org.Hue,
		Energy:     c.Energy.Value,
		MaxEnergy:  c.Energy.Max,
		Age:        c.Energy.Age,
		Speed:      c.Speed(),
		Genome:     *c.Genome,
		FleeTicks:  c.Behavior.FleeCooldown,
		ReproTicks: c.Behavior.ReproCooldown,
	}
	if lt := g.lifetime.Get(c.Org.ID); lt != nil {
		data.Kills = lt.Kills
		data.Children = lt.Children
		data.PlantsEaten = lt.PlantsEaten
		data.MeatEaten = lt.MeatEaten
	}
	return data, true
}
