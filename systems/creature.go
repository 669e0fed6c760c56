package systems

import (
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
)

// creatureIDs is the process-wide id source. It starts at zero on first use
// and is never reset, so ids stay unique across restarts and loads.
var creatureIDs atomic.Uint64

// NextCreatureID returns a fresh, strictly increasing creature id.
func NextCreatureID() uint64 {
	return creatureIDs.Add(1) - 1
}

// Creature is a view over one creature entity's components.
// Pointers are valid until the next creature is added or removed.
type Creature struct {
	Entity   ecs.Entity
	Pos      *components.Position
	Vel      *components.Velocity
	Rot      *components.Rotation
	Genome   *components.Genome
	Energy   *components.Energy
	Behavior *components.Behavior
	Org      *components.Organism
}

// Alive reports whether the creature has not died.
func (c Creature) Alive() bool {
	return c.Energy.Alive
}

// Speed returns the current velocity magnitude.
func (c Creature) Speed() float32 {
	return velocityMagnitude(c.Vel.X, c.Vel.Y)
}

// CanEat reports diet compatibility: meat needs a non-herbivore, plants a non-carnivore.
func (c Creature) CanEat(f *components.Food) bool {
	if f.IsMeat() {
		return c.Genome.Diet > components.Herbivore
	}
	return c.Genome.Diet < components.Carnivore
}

// Spawn describes a creature to be created. Offspring are queued as Spawns
// so they join the population only after the creature pass.
type Spawn struct {
	X, Y       float32
	Genome     components.Genome
	Generation int
	Hue        float32
}

// Population is the authoritative ordered creature list.
type Population struct {
	cfg *config.Config
	rng *rand.Rand
	ecs *ecs.World

	mapper *ecs.Map7[
		components.Position,
		components.Velocity,
		components.Rotation,
		components.Genome,
		components.Energy,
		components.Behavior,
		components.Organism,
	]
	genomeMap *ecs.Map[components.Genome]
	energyMap *ecs.Map[components.Energy]
	posMap    *ecs.Map[components.Position]

	entities []ecs.Entity
	foodBuf  []ecs.Entity

	// Now supplies death timestamps. Tests replace it.
	Now func() time.Time
}

// NewPopulation creates an empty population.
func NewPopulation(w *ecs.World, cfg *config.Config, rng *rand.Rand) *Population {
	return &Population{
		cfg: cfg,
		rng: rng,
		ecs: w,
		mapper: ecs.NewMap7[
			components.Position,
			components.Velocity,
			components.Rotation,
			components.Genome,
			components.Energy,
			components.Behavior,
			components.Organism,
		](w),
		genomeMap: ecs.NewMap[components.Genome](w),
		energyMap: ecs.NewMap[components.Energy](w),
		posMap:    ecs.NewMap[components.Position](w),
		Now:       time.Now,
	}
}

// RandomGenome draws uniform traits; diet is a uniform category.
func RandomGenome(rng *rand.Rand) components.Genome {
	uniform := func(r components.Range) float32 {
		return r.Min + rng.Float32()*(r.Max-r.Min)
	}
	return components.Genome{
		Speed:      uniform(components.SpeedRange),
		Perception: uniform(components.PerceptionRange),
		Size:       uniform(components.SizeRange),
		Diet:       components.Diet(rng.Intn(components.NumDiets)),
		Efficiency: uniform(components.EfficiencyRange),
	}
}

// RescueGenome returns the configured baseline herbivore genome.
func RescueGenome(cfg *config.Config) components.Genome {
	g := cfg.Population.RescueGenome
	return components.Genome{
		Speed:      float32(g.Speed),
		Perception: float32(g.Perception),
		Size:       float32(g.Size),
		Diet:       components.Diet(g.Diet),
		Efficiency: float32(g.Efficiency),
	}.Clamped()
}

// AddRandom creates a creature with a random genome and hue at a uniform position.
func (p *Population) AddRandom(width, height float32) ecs.Entity {
	x := p.rng.Float32() * width
	y := p.rng.Float32() * height
	g := RandomGenome(p.rng)
	return p.Add(Spawn{X: x, Y: y, Genome: g, Hue: p.rng.Float32() * 360})
}

// Add creates a creature with constructor defaults: energy at the configured
// fraction of max, random heading and a small initial velocity along it.
func (p *Population) Add(s Spawn) ecs.Entity {
	cc := &p.cfg.Creature
	maxEnergy := s.Genome.Size * float32(cc.EnergyPerSize)
	heading := p.rng.Float32() * 2 * math.Pi
	v0 := float32(cc.InitialSpeed)

	pos := components.Position{X: s.X, Y: s.Y}
	vel := components.Velocity{X: cos32(heading) * v0, Y: sin32(heading) * v0}
	rot := components.Rotation{Heading: heading}
	genome := s.Genome
	energy := components.Energy{
		Value: maxEnergy * float32(cc.InitialEnergy),
		Max:   maxEnergy,
		Alive: true,
	}
	beh := components.Behavior{State: components.StateWander}
	org := components.Organism{
		ID:         NextCreatureID(),
		Generation: s.Generation,
		Hue:        s.Hue,
	}

	e := p.mapper.NewEntity(&pos, &vel, &rot, &genome, &energy, &beh, &org)
	p.entities = append(p.entities, e)
	return e
}

// Get returns a view of a creature. ok is false if e is not a live creature entity.
// Dead creatures that have not been retired are still returned.
func (p *Population) Get(e ecs.Entity) (Creature, bool) {
	if !p.Has(e) {
		return Creature{}, false
	}
	pos, vel, rot, genome, energy, beh, org := p.mapper.Get(e)
	return Creature{
		Entity:   e,
		Pos:      pos,
		Vel:      vel,
		Rot:      rot,
		Genome:   genome,
		Energy:   energy,
		Behavior: beh,
		Org:      org,
	}, true
}

// MustGet is Get for entities known to be in the population.
func (p *Population) MustGet(e ecs.Entity) Creature {
	c, ok := p.Get(e)
	if !ok {
		panic("systems: entity is not a creature")
	}
	return c
}

// Has reports whether e is an existing creature entity, dead or alive.
func (p *Population) Has(e ecs.Entity) bool {
	return e != (ecs.Entity{}) && p.ecs.Alive(e) && p.genomeMap.Has(e)
}

// IsLiving reports whether e is an existing creature that has not died.
func (p *Population) IsLiving(e ecs.Entity) bool {
	return p.Has(e) && p.energyMap.Get(e).Alive
}

// Entities returns creatures in insertion order. The slice must not be modified.
func (p *Population) Entities() []ecs.Entity {
	return p.entities
}

// Len returns the number of creatures including unretired corpses.
func (p *Population) Len() int {
	return len(p.entities)
}

// LivingCount returns the number of living creatures.
func (p *Population) LivingCount() int {
	n := 0
	for _, e := range p.entities {
		if p.energyMap.Get(e).Alive {
			n++
		}
	}
	return n
}

// CountByDiet returns living creature counts indexed by diet.
func (p *Population) CountByDiet() [components.NumDiets]int {
	var counts [components.NumDiets]int
	for _, e := range p.entities {
		if !p.energyMap.Get(e).Alive {
			continue
		}
		d := p.genomeMap.Get(e).Diet
		if int(d) < len(counts) {
			counts[d]++
		}
	}
	return counts
}

// Kill marks a creature dead and records when it died.
// It is a no-op for creatures that are already dead.
func (p *Population) Kill(c Creature, tick int64) {
	if !c.Energy.Alive {
		return
	}
	c.Energy.Alive = false
	c.Org.DeathTick = tick
	c.Org.DeathTime = p.Now()
}

// RetireCorpses removes creatures dead for longer than the grace period.
// It returns the removed entities.
func (p *Population) RetireCorpses(grace time.Duration) []ecs.Entity {
	now := p.Now()
	var retired []ecs.Entity
	kept := p.entities[:0]
	for _, e := range p.entities {
		_, _, _, _, energy, _, org := p.mapper.Get(e)
		if !energy.Alive && now.Sub(org.DeathTime) > grace {
			retired = append(retired, e)
			continue
		}
		kept = append(kept, e)
	}
	p.entities = kept
	for _, e := range retired {
		p.ecs.RemoveEntity(e)
	}
	return retired
}

// Clear removes every creature.
func (p *Population) Clear() {
	for _, e := range p.entities {
		p.ecs.RemoveEntity(e)
	}
	p.entities = p.entities[:0]
}
