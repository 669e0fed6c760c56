package game

import (
	"math"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/systems"
)

// Stats are the population figures shown by the HUD.
type Stats struct {
	Tick          int64                    `json:"tick"`
	FPS           int                      `json:"fps"`
	Speed         float64                  `json:"speed"`
	Paused        bool                     `json:"paused"`
	Alive         int                      `json:"alive"`
	ByDiet        [components.NumDiets]int `json:"byDiet"`
	MaxGeneration int                      `json:"maxGeneration"`
	Plants        int                      `json:"plants"`
	Meat          int                      `json:"meat"`
}

// Point is a world position.
type Point struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// CreatureView is a read-only copy of what renderers need from a creature.
type CreatureView struct {
	ID          uint64  `json:"id"`
	X           float32 `json:"x"`
	Y           float32 `json:"y"`
	Angle       float32 `json:"angle"`
	Size        float32 `json:"size"`
	Hue         float32 `json:"hue"`
	Diet        string  `json:"diet"`
	State       string  `json:"state"`
	EnergyRatio float32 `json:"energy"`
	Generation  int     `json:"generation"`
	Alive       bool    `json:"alive"`
	DeadForMS   int64   `json:"deadForMs,omitempty"`
	Target      *Point  `json:"target,omitempty"`
	Selected    bool    `json:"selected,omitempty"`
}

// FoodView is a read-only copy of a food item.
type FoodView struct {
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Meat   bool    `json:"meat"`
	Energy float32 `json:"energy"`
	// Fade is remaining lifetime in [0, 1]; always 1 for plants.
	Fade float32 `json:"fade"`
}

// View is a complete snapshot of the simulation for observers.
type View struct {
	Width     float32        `json:"width"`
	Height    float32        `json:"height"`
	Stats     Stats          `json:"stats"`
	Creatures []CreatureView `json:"creatures"`
	Food      []FoodView     `json:"food"`
}

// Stats returns the current population figures.
func (g *Game) Stats() Stats {
	counts := g.pop.CountByDiet()
	plants, meat := g.world.FoodCounts()
	s := Stats{
		Tick:   g.tick,
		FPS:    g.fps,
		Speed:  g.speed,
		Paused: g.paused,
		ByDiet: counts,
		Plants: plants,
		Meat:   meat,
	}
	for _, n := range counts {
		s.Alive += n
	}
	for _, e := range g.pop.Entities() {
		c := g.pop.MustGet(e)
		if c.Alive() {
			s.MaxGeneration = max(s.MaxGeneration, c.Org.Generation)
		}
	}
	return s
}

// View builds a snapshot. It never mutates simulation state.
func (g *Game) View() View {
	now := g.pop.Now()
	v := View{
		Width:     g.width,
		Height:    g.height,
		Stats:     g.Stats(),
		Creatures: make([]CreatureView, 0, g.pop.Len()),
		Food:      make([]FoodView, 0, g.world.FoodCount()),
	}

	for _, e := range g.pop.Entities() {
		c := g.pop.MustGet(e)
		cv := CreatureView{
			ID:          c.Org.ID,
			X:           c.Pos.X,
			Y:           c.Pos.Y,
			Angle:       c.Rot.Heading,
			Size:        c.Genome.Size,
			Hue:         c.Org.Hue,
			Diet:        c.Genome.Diet.String(),
			State:       c.Behavior.State.String(),
			EnergyRatio: c.Energy.Ratio(),
			Generation:  c.Org.Generation,
			Alive:       c.Alive(),
			Selected:    e == g.selected,
		}
		if !cv.Alive {
			cv.DeadForMS = now.Sub(c.Org.DeathTime).Milliseconds()
		} else if p, ok := g.targetPoint(c); ok {
			cv.Target = &p
		}
		v.Creatures = append(v.Creatures, cv)
	}

	for _, fe := range g.world.FoodEntities() {
		pos, food, ok := g.world.Food(fe)
		if !ok {
			continue
		}
		v.Food = append(v.Food, FoodView{
			X:      pos.X,
			Y:      pos.Y,
			Meat:   food.IsMeat(),
			Energy: food.Energy,
			Fade:   foodFade(food),
		})
	}
	return v
}

// targetPoint resolves a creature's target without clearing stale ones.
func (g *Game) targetPoint(c systems.Creature) (Point, bool) {
	t := c.Behavior.Target
	if g.pop.IsLiving(t) {
		o := g.pop.MustGet(t)
		return Point{o.Pos.X, o.Pos.Y}, true
	}
	if pos, _, ok := g.world.Food(t); ok {
		return Point{pos.X, pos.Y}, true
	}
	return Point{}, false
}

func foodFade(f *components.Food) float32 {
	if math.IsInf(float64(f.Decay), 1) || f.Decay <= 0 {
		return 1
	}
	return max(0, 1-f.Age/f.Decay)
}
