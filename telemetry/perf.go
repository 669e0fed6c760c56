package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase is one stage of a simulation tick.
type Phase int

const (
	PhaseWorld Phase = iota
	PhaseCreatures
	PhaseCollisions
	PhaseSafeguards
	PhaseCorpses
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{"world", "creatures", "collisions", "safeguards", "corpses", "telemetry"}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// Load is the work a tick did: creatures stepped, food items alive after the
// world update, and creature/food or creature/creature pairs tested for contact.
type Load struct {
	Creatures int
	Food      int
	Contacts  int
}

// Profiler times tick phases and relates them to the tick's load. It covers
// one telemetry window at a time; Report closes the window.
type Profiler struct {
	now func() time.Time

	tickStart time.Time
	mark      time.Time
	phase     Phase
	inTick    bool

	tickUS []float64
	phases [numPhases]time.Duration
	load   Load

	frames      int
	burstTicks  int
	windowStart time.Time
}

// NewProfiler returns a profiler reading the wall clock.
func NewProfiler() *Profiler {
	return NewProfilerWithClock(time.Now)
}

// NewProfilerWithClock returns a profiler reading now, for tests.
func NewProfilerWithClock(now func() time.Time) *Profiler {
	return &Profiler{now: now}
}

// BeginTick starts timing a tick.
func (p *Profiler) BeginTick() {
	t := p.now()
	if p.windowStart.IsZero() {
		p.windowStart = t
	}
	p.tickStart = t
	p.mark = t
	p.phase = -1
	p.inTick = true
}

// Enter closes the running phase and starts the next one.
func (p *Profiler) Enter(phase Phase) {
	t := p.now()
	p.closePhase(t)
	p.phase = phase
	p.mark = t
}

// EndTick closes the last phase and records the tick with its load.
func (p *Profiler) EndTick(load Load) {
	if !p.inTick {
		return
	}
	t := p.now()
	p.closePhase(t)
	p.inTick = false

	p.tickUS = append(p.tickUS, float64(t.Sub(p.tickStart))/float64(time.Microsecond))
	p.load.Creatures += load.Creatures
	p.load.Food += load.Food
	p.load.Contacts += load.Contacts
}

func (p *Profiler) closePhase(t time.Time) {
	if p.phase >= 0 && p.phase < numPhases {
		p.phases[p.phase] += t.Sub(p.mark)
	}
}

// Frame records one rendered or headless frame and the size of its tick
// burst (zero while paused).
func (p *Profiler) Frame(ticks int) {
	if p.windowStart.IsZero() {
		p.windowStart = p.now()
	}
	p.frames++
	p.burstTicks += ticks
}

// PerfReport summarizes one telemetry window of tick timing.
type PerfReport struct {
	Ticks  int
	Frames int

	TickMeanUS float64
	TickP50US  float64
	TickP99US  float64

	// Share of measured tick time per phase, 0..1
	PhaseShare [numPhases]float64

	MeanCreatures float64
	MeanFood      float64
	MeanContacts  float64

	// Average tick cost divided by the creatures it stepped
	NSPerCreature float64

	// Ticks run per frame; tracks the speed multiplier and pauses
	TicksPerFrame float64
	FPS           float64
}

// Report summarizes the window so far and starts a new one.
func (p *Profiler) Report() PerfReport {
	r := PerfReport{Ticks: len(p.tickUS), Frames: p.frames}
	t := p.now()

	if p.frames > 0 {
		r.TicksPerFrame = float64(p.burstTicks) / float64(p.frames)
		if el := t.Sub(p.windowStart); el > 0 {
			r.FPS = float64(p.frames) / el.Seconds()
		}
	}

	if r.Ticks > 0 {
		sorted := slices.Clone(p.tickUS)
		slices.Sort(sorted)
		r.TickMeanUS = stat.Mean(sorted, nil)
		r.TickP50US = stat.Quantile(0.50, stat.Empirical, sorted, nil)
		r.TickP99US = stat.Quantile(0.99, stat.Empirical, sorted, nil)

		var total time.Duration
		for _, d := range p.phases {
			total += d
		}
		if total > 0 {
			for i, d := range p.phases {
				r.PhaseShare[i] = float64(d) / float64(total)
			}
		}

		n := float64(r.Ticks)
		r.MeanCreatures = float64(p.load.Creatures) / n
		r.MeanFood = float64(p.load.Food) / n
		r.MeanContacts = float64(p.load.Contacts) / n
		if r.MeanCreatures > 0 {
			r.NSPerCreature = r.TickMeanUS * 1000 / r.MeanCreatures
		}
	}

	p.tickUS = p.tickUS[:0]
	p.phases = [numPhases]time.Duration{}
	p.load = Load{}
	p.frames, p.burstTicks = 0, 0
	p.windowStart = t
	return r
}

// LogValue implements slog.LogValuer.
func (r PerfReport) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("ticks", r.Ticks),
		slog.Float64("tick_mean_us", r.TickMeanUS),
		slog.Float64("tick_p99_us", r.TickP99US),
		slog.Float64("ns_per_creature", r.NSPerCreature),
		slog.Float64("contacts_per_tick", r.MeanContacts),
		slog.Float64("ticks_per_frame", r.TicksPerFrame),
	}
	if r.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", r.FPS))
	}
	for i, share := range r.PhaseShare {
		if share >= 0.001 {
			attrs = append(attrs, slog.Float64(Phase(i).String()+"_share", share))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfRow is one perf.csv line.
type PerfRow struct {
	WindowEnd       int64   `csv:"window_end"`
	Ticks           int     `csv:"ticks"`
	Frames          int     `csv:"frames"`
	TickMeanUS      float64 `csv:"tick_mean_us"`
	TickP50US       float64 `csv:"tick_p50_us"`
	TickP99US       float64 `csv:"tick_p99_us"`
	NSPerCreature   float64 `csv:"ns_per_creature"`
	Creatures       float64 `csv:"creatures"`
	Food            float64 `csv:"food"`
	Contacts        float64 `csv:"contacts"`
	TicksPerFrame   float64 `csv:"ticks_per_frame"`
	FPS             float64 `csv:"fps"`
	WorldShare      float64 `csv:"world_share"`
	CreaturesShare  float64 `csv:"creatures_share"`
	CollisionsShare float64 `csv:"collisions_share"`
	SafeguardsShare float64 `csv:"safeguards_share"`
	CorpsesShare    float64 `csv:"corpses_share"`
	TelemetryShare  float64 `csv:"telemetry_share"`
}

// Row flattens the report for CSV output.
func (r PerfReport) Row(windowEnd int64) PerfRow {
	return PerfRow{
		WindowEnd:       windowEnd,
		Ticks:           r.Ticks,
		Frames:          r.Frames,
		TickMeanUS:      r.TickMeanUS,
		TickP50US:       r.TickP50US,
		TickP99US:       r.TickP99US,
		NSPerCreature:   r.NSPerCreature,
		Creatures:       r.MeanCreatures,
		Food:            r.MeanFood,
		Contacts:        r.MeanContacts,
		TicksPerFrame:   r.TicksPerFrame,
		FPS:             r.FPS,
		WorldShare:      r.PhaseShare[PhaseWorld],
		CreaturesShare:  r.PhaseShare[PhaseCreatures],
		CollisionsShare: r.PhaseShare[PhaseCollisions],
		SafeguardsShare: r.PhaseShare[PhaseSafeguards],
		CorpsesShare:    r.PhaseShare[PhaseCorpses],
		TelemetryShare:  r.PhaseShare[PhaseTelemetry],
	}
}
