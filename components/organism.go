package components

import (
	"time"

	"github.com/mlange-42/ark/ecs"
)

// State is a creature's behavior state, re-evaluated every tick.
type State uint8

const (
	StateWander State = iota
	StateSeekFood
	StateHunt
	StateFlee
)

// Energy tracks an entity's metabolic state.
type Energy struct {
	Value float32
	Max   float32 // Genome.Size * energy_per_size
	Age   int32   // ticks alive
	Alive bool
}

// Ratio returns Value/Max, or 0 when Max is zero.
func (e *Energy) Ratio() float32 {
	if e.Max <= 0 {
		return 0
	}
	return e.Value / e.Max
}

// Behavior holds the state machine and its weak target reference.
// Target may point at a creature or a food entity, and may be stale:
// it must be checked against World.Alive and the referent's liveness before use.
type Behavior struct {
	State         State
	Target        ecs.Entity
	FleeCooldown  int32
	ReproCooldown int32
}

// ClearTarget drops the target reference.
func (b *Behavior) ClearTarget() {
	b.Target = ecs.Entity{}
}

// Organism bundles identity, lineage and death bookkeeping.
type Organism struct {
	ID         uint64
	Generation int
	Hue        float32   // degrees, [0, 360)
	DeathTick  int64
	DeathTime  time.Time // wall-clock, drives corpse retirement
}
