package telemetry

// LifetimeStats tracks one creature's record over its life.
type LifetimeStats struct {
	BirthTick int64
	ParentID  uint64
	HasParent bool

	Attacks  int
	Kills    int
	Children int

	PlantsEaten int
	MeatEaten   int
	Foraged     float32 // energy gained from food
	PeakEnergy  float32
}

// LifetimeTracker manages per-creature lifetime statistics keyed by creature id.
type LifetimeTracker struct {
	stats map[uint64]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint64]*LifetimeStats),
	}
}

// Register starts tracking a founder with no parent.
func (lt *LifetimeTracker) Register(id uint64, birthTick int64) {
	lt.stats[id] = &LifetimeStats{BirthTick: birthTick}
}

// RegisterChild starts tracking an offspring and credits its parent.
func (lt *LifetimeTracker) RegisterChild(id, parentID uint64, birthTick int64) {
	lt.stats[id] = &LifetimeStats{BirthTick: birthTick, ParentID: parentID, HasParent: true}
	if p := lt.stats[parentID]; p != nil {
		p.Children++
	}
}

// Get returns the stats for a creature, or nil if not tracked.
func (lt *LifetimeTracker) Get(id uint64) *LifetimeStats {
	return lt.stats[id]
}

// Remove stops tracking a creature and returns its final stats.
func (lt *LifetimeTracker) Remove(id uint64) *LifetimeStats {
	s := lt.stats[id]
	delete(lt.stats, id)
	return s
}

// RecordAttack counts an attack by id and whether it killed.
func (lt *LifetimeTracker) RecordAttack(id uint64, killed bool) {
	if s := lt.stats[id]; s != nil {
		s.Attacks++
		if killed {
			s.Kills++
		}
	}
}

// RecordEat adds a meal's energy gain.
func (lt *LifetimeTracker) RecordEat(id uint64, meat bool, gained float32) {
	s := lt.stats[id]
	if s == nil {
		return
	}
	if meat {
		s.MeatEaten++
	} else {
		s.PlantsEaten++
	}
	s.Foraged += gained
}

// UpdateEnergy tracks peak energy.
func (lt *LifetimeTracker) UpdateEnergy(id uint64, energy float32) {
	if s := lt.stats[id]; s != nil && energy > s.PeakEnergy {
		s.PeakEnergy = energy
	}
}

// Count returns the number of tracked creatures.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// Clear drops every record.
func (lt *LifetimeTracker) Clear() {
	clear(lt.stats)
}
