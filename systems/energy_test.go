package systems

import (
	"testing"

	"github.com/pthm-cable/ecosim/components"
)

func TestEat(t *testing.T) {
	tests := []struct {
		name      string
		diet      components.Diet
		kind      components.FoodKind
		start     float32
		wantOK    bool
		wantAfter float32
	}{
		{"herbivore eats plant", components.Herbivore, components.FoodPlant, 10, true, 28},
		{"herbivore refuses meat", components.Herbivore, components.FoodMeat, 10, false, 10},
		{"carnivore half yield from plant", components.Carnivore, components.FoodPlant, 10, true, 19},
		{"carnivore eats meat", components.Carnivore, components.FoodMeat, 10, true, 28},
		{"omnivore eats meat", components.Omnivore, components.FoodMeat, 10, true, 28},
		{"gain clamps to max", components.Omnivore, components.FoodPlant, 85, true, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, p := newTestSim(t, nil)
			g := genome(tt.diet, 6, 2)
			g.Efficiency = 1.2
			c := p.MustGet(p.Add(Spawn{X: 100, Y: 100, Genome: g}))
			c.Energy.Value = tt.start

			f := components.Food{Kind: tt.kind, Energy: 15}
			if ok := p.Eat(c, &f); ok != tt.wantOK {
				t.Errorf("Eat = %v, want %v", ok, tt.wantOK)
			}
			if !approxEqual(c.Energy.Value, tt.wantAfter, 1e-4) {
				t.Errorf("energy = %v, want %v", c.Energy.Value, tt.wantAfter)
			}
			if c.Energy.Value > c.Energy.Max {
				t.Errorf("energy %v exceeds max %v", c.Energy.Value, c.Energy.Max)
			}
		})
	}
}

func TestMetabolicCost(t *testing.T) {
	_, p := newTestSim(t, nil)
	c := p.MustGet(p.Add(Spawn{X: 100, Y: 100, Genome: genome(components.Herbivore, 8, 3)}))

	c.Behavior.State = components.StateWander
	if got := p.MetabolicCost(c); !approxEqual(got, 0.01, 1e-6) {
		t.Errorf("idle cost = %v, want 0.01", got)
	}
	for _, s := range []components.State{components.StateSeekFood, components.StateHunt, components.StateFlee} {
		c.Behavior.State = s
		if got := p.MetabolicCost(c); !approxEqual(got, 0.06, 1e-6) {
			t.Errorf("%v cost = %v, want 0.06", s, got)
		}
	}
}
