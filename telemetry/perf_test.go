package telemetry

import (
	"math"
	"testing"
	"time"
)

// stepClock advances by the queued durations, one per reading.
type stepClock struct {
	t     time.Time
	steps []time.Duration
}

func (c *stepClock) now() time.Time {
	if len(c.steps) > 0 {
		c.t = c.t.Add(c.steps[0])
		c.steps = c.steps[1:]
	}
	return c.t
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestProfilerPhaseShares(t *testing.T) {
	clk := &stepClock{t: time.Unix(0, 0)}
	p := NewProfilerWithClock(clk.now)

	// Each tick: begin, world 100us, creatures 300us, collisions 100us.
	for range 2 {
		clk.steps = append(clk.steps, 0, 0, 100*time.Microsecond, 300*time.Microsecond, 100*time.Microsecond)
		p.BeginTick()
		p.Enter(PhaseWorld)
		p.Enter(PhaseCreatures)
		p.Enter(PhaseCollisions)
		p.EndTick(Load{Creatures: 50, Food: 200, Contacts: 400})
	}

	r := p.Report()
	if r.Ticks != 2 {
		t.Fatalf("ticks = %d, want 2", r.Ticks)
	}
	if !approx(r.TickMeanUS, 500) {
		t.Errorf("mean tick = %vus, want 500", r.TickMeanUS)
	}
	tests := []struct {
		phase Phase
		want  float64
	}{
		{PhaseWorld, 0.2},
		{PhaseCreatures, 0.6},
		{PhaseCollisions, 0.2},
		{PhaseSafeguards, 0},
	}
	for _, tt := range tests {
		if got := r.PhaseShare[tt.phase]; !approx(got, tt.want) {
			t.Errorf("%s share = %v, want %v", tt.phase, got, tt.want)
		}
	}
	if !approx(r.MeanCreatures, 50) || !approx(r.MeanContacts, 400) || !approx(r.MeanFood, 200) {
		t.Errorf("load = %v/%v/%v", r.MeanCreatures, r.MeanFood, r.MeanContacts)
	}
	// 500us over 50 creatures
	if !approx(r.NSPerCreature, 10000) {
		t.Errorf("ns per creature = %v, want 10000", r.NSPerCreature)
	}
}

func TestProfilerTickQuantiles(t *testing.T) {
	clk := &stepClock{t: time.Unix(0, 0)}
	p := NewProfilerWithClock(clk.now)

	// 99 ticks of 100us and one spike of 5ms
	for i := range 100 {
		d := 100 * time.Microsecond
		if i == 50 {
			d = 5 * time.Millisecond
		}
		clk.steps = append(clk.steps, 0, d)
		p.BeginTick()
		p.EndTick(Load{})
	}

	r := p.Report()
	if !approx(r.TickP50US, 100) {
		t.Errorf("p50 = %v, want 100", r.TickP50US)
	}
	if !approx(r.TickP99US, 100) {
		t.Errorf("p99 = %v, want 100", r.TickP99US)
	}
	if !approx(r.TickMeanUS, 149) {
		t.Errorf("mean = %v, want 149", r.TickMeanUS)
	}
}

func TestProfilerTicksPerFrame(t *testing.T) {
	tests := []struct {
		name   string
		bursts []int
		want   float64
	}{
		{"normal speed", []int{1, 1, 1, 1}, 1},
		{"fast forward", []int{3, 3}, 3},
		{"paused half the time", []int{2, 0, 2, 0}, 1},
		{"no frames", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clk := &stepClock{t: time.Unix(0, 0)}
			p := NewProfilerWithClock(clk.now)
			for _, n := range tt.bursts {
				p.Frame(n)
			}
			if got := p.Report().TicksPerFrame; !approx(got, tt.want) {
				t.Errorf("ticks per frame = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProfilerFPS(t *testing.T) {
	clk := &stepClock{t: time.Unix(0, 0)}
	p := NewProfilerWithClock(clk.now)

	// Window opens on the first frame, then 30 frames across 500ms
	clk.steps = []time.Duration{0, 500 * time.Millisecond}
	for range 30 {
		p.Frame(1)
	}
	if got := p.Report().FPS; !approx(got, 60) {
		t.Errorf("fps = %v, want 60", got)
	}
}

func TestProfilerReportResetsWindow(t *testing.T) {
	clk := &stepClock{t: time.Unix(0, 0)}
	p := NewProfilerWithClock(clk.now)

	clk.steps = []time.Duration{0, 0, time.Millisecond}
	p.BeginTick()
	p.Enter(PhaseWorld)
	p.EndTick(Load{Creatures: 10})
	p.Frame(1)
	p.Report()

	r := p.Report()
	if r.Ticks != 0 || r.Frames != 0 || r.TickMeanUS != 0 || r.MeanCreatures != 0 {
		t.Errorf("second report = %+v, want empty", r)
	}
	if r.PhaseShare[PhaseWorld] != 0 {
		t.Errorf("world share carried over: %v", r.PhaseShare[PhaseWorld])
	}
}

func TestEndTickWithoutBegin(t *testing.T) {
	p := NewProfiler()
	p.EndTick(Load{Creatures: 5})
	if r := p.Report(); r.Ticks != 0 {
		t.Errorf("ticks = %d, want 0", r.Ticks)
	}
}

func TestPerfRow(t *testing.T) {
	r := PerfReport{Ticks: 600, TickMeanUS: 1500, TicksPerFrame: 2}
	r.PhaseShare[PhaseCollisions] = 0.4
	r.PhaseShare[PhaseCreatures] = 0.55

	row := r.Row(600)
	if row.WindowEnd != 600 || row.TickMeanUS != 1500 || row.TicksPerFrame != 2 {
		t.Errorf("row = %+v", row)
	}
	if row.CollisionsShare != 0.4 || row.CreaturesShare != 0.55 || row.WorldShare != 0 {
		t.Errorf("phase columns = %+v", row)
	}
	if Phase(99).String() != "unknown" || PhaseCorpses.String() != "corpses" {
		t.Error("phase names")
	}
}
