package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/ecosim/components"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   TraitSummary
	}{
		{"empty", nil, TraitSummary{}},
		{"single", []float64{4}, TraitSummary{Mean: 4, P10: 4, P50: 4, P90: 4}},
		{"one to ten", []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1},
			TraitSummary{Mean: 5.5, Std: 3.02765, P10: 1, P50: 5, P90: 9}},
		{"constant", []float64{2, 2, 2, 2}, TraitSummary{Mean: 2, P10: 2, P50: 2, P90: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.values)
			fields := []struct {
				name      string
				got, want float64
			}{
				{"mean", got.Mean, tt.want.Mean},
				{"std", got.Std, tt.want.Std},
				{"p10", got.P10, tt.want.P10},
				{"p50", got.P50, tt.want.P50},
				{"p90", got.P90, tt.want.P90},
			}
			for _, f := range fields {
				if math.Abs(f.got-f.want) > 0.001 {
					t.Errorf("%s = %v, want %v", f.name, f.got, f.want)
				}
			}
		})
	}
}

func TestSummarizeLeavesInputUnsorted(t *testing.T) {
	values := []float64{3, 1, 2}
	Summarize(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input reordered: %v", values)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector("run", 100)

	if c.ShouldFlush(99) {
		t.Error("should not flush before window ends")
	}
	if !c.ShouldFlush(100) {
		t.Error("should flush at window end")
	}

	c.RecordBirth(components.Herbivore)
	c.RecordBirth(components.Herbivore)
	c.RecordBirth(components.Carnivore)
	c.RecordDeath(components.Omnivore)
	c.RecordAttack(true)
	c.RecordAttack(false)
	c.RecordAttack(false)
	c.RecordAttack(true)
	c.RecordEat(true)
	c.RecordEat(false)
	c.RecordEat(false)
	c.RecordLowPopInjection(10)
	c.RecordRescue(5)

	s := c.Flush(100, Sample{
		Counts: [components.NumDiets]int{4, 2, 1},
		MaxGen: 7,
		Sizes:  []float64{4, 6, 8},
	})

	if s.RunID != "run" || s.WindowStartTick != 0 || s.WindowEndTick != 100 {
		t.Errorf("header = %q %d..%d", s.RunID, s.WindowStartTick, s.WindowEndTick)
	}
	if s.Alive != 7 || s.Herbivores != 4 || s.Omnivores != 2 || s.Carnivores != 1 {
		t.Errorf("counts = %d %d %d %d", s.Alive, s.Herbivores, s.Omnivores, s.Carnivores)
	}
	if s.HerbivoreBirths != 2 || s.CarnivoreBirths != 1 || s.OmnivoreDeaths != 1 {
		t.Errorf("births/deaths = %+v", s)
	}
	if s.Attacks != 4 || s.Kills != 2 || s.Repelled != 2 || s.KillRate != 0.5 {
		t.Errorf("attacks = %d kills = %d repelled = %d rate = %v", s.Attacks, s.Kills, s.Repelled, s.KillRate)
	}
	if s.MeatEaten != 1 || s.PlantsEaten != 2 {
		t.Errorf("eaten = %d meat, %d plants", s.MeatEaten, s.PlantsEaten)
	}
	if s.LowPopInjected != 10 || s.RescueInjected != 5 {
		t.Errorf("injections = %d, %d", s.LowPopInjected, s.RescueInjected)
	}
	if s.Size.Mean != 6 {
		t.Errorf("size mean = %v, want 6", s.Size.Mean)
	}

	// Counters reset, window moves.
	next := c.Flush(200, Sample{})
	if next.WindowStartTick != 100 || next.Attacks != 0 || next.HerbivoreBirths != 0 {
		t.Errorf("window not reset: %+v", next)
	}
	if c.ShouldFlush(250) {
		t.Error("new window should start at 200")
	}
}

func TestCollectorResetKeepsRunID(t *testing.T) {
	c := NewCollector("abc", 0)
	c.RecordAttack(true)
	c.Reset(50)

	if c.WindowTicks() != 1 {
		t.Errorf("window ticks = %d, want 1", c.WindowTicks())
	}
	s := c.Flush(51, Sample{})
	if s.RunID != "abc" || s.Attacks != 0 || s.WindowStartTick != 50 {
		t.Errorf("after reset = %+v", s)
	}
}

func TestLifetimeTracker(t *testing.T) {
	lt := NewLifetimeTracker()
	lt.Register(1, 0)
	lt.RegisterChild(2, 1, 300)
	lt.RegisterChild(3, 1, 450)
	lt.RecordAttack(1, true)
	lt.RecordAttack(1, false)
	lt.RecordEat(2, false, 15)
	lt.RecordEat(2, true, 10)
	lt.UpdateEnergy(2, 40)
	lt.UpdateEnergy(2, 30)
	lt.RecordAttack(99, true) // untracked ids are ignored

	parent := lt.Get(1)
	if parent.Children != 2 || parent.Attacks != 2 || parent.Kills != 1 {
		t.Errorf("parent = %+v", parent)
	}
	child := lt.Get(2)
	if !child.HasParent || child.ParentID != 1 || child.BirthTick != 300 {
		t.Errorf("child lineage = %+v", child)
	}
	if child.PlantsEaten != 1 || child.MeatEaten != 1 || child.Foraged != 25 || child.PeakEnergy != 40 {
		t.Errorf("child feeding = %+v", child)
	}

	if got := lt.Remove(1); got != parent || lt.Get(1) != nil || lt.Count() != 2 {
		t.Error("Remove should return and drop the record")
	}
	lt.Clear()
	if lt.Count() != 0 {
		t.Errorf("Count after Clear = %d", lt.Count())
	}
}
