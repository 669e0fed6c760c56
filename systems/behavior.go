package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecosim/components"
)

// IsHungry reports whether energy is below the hunger fraction of max.
func (p *Population) IsHungry(c Creature) bool {
	return c.Energy.Value < c.Energy.Max*float32(p.cfg.Creature.Hunger)
}

// UpdateState re-evaluates the behavior state in priority order:
// flee cooldown, nearest predator, nearest prey when hungry,
// nearest edible food when hungry, otherwise wander.
// Ties on distance go to the first candidate in iteration order.
func (p *Population) UpdateState(c Creature, w *World) {
	b := c.Behavior
	if b.FleeCooldown > 0 {
		b.State = components.StateFlee
		return
	}

	x, y := c.Pos.X, c.Pos.Y
	perception := c.Genome.Perception

	var predator, prey ecs.Entity
	predatorDist := float32(math.Inf(1))
	preyDist := float32(math.Inf(1))

	for _, e := range p.entities {
		if e == c.Entity {
			continue
		}
		other := p.MustGet(e)
		if !other.Energy.Alive {
			continue
		}
		d := Distance(x, y, other.Pos.X, other.Pos.Y)
		if d >= perception {
			continue
		}
		if p.CanAttack(other, c) && d < predatorDist {
			predator, predatorDist = e, d
		}
		if p.CanAttack(c, other) && d < preyDist {
			prey, preyDist = e, d
		}
	}

	if predator != (ecs.Entity{}) {
		b.State = components.StateFlee
		b.Target = predator
		return
	}

	hungry := p.IsHungry(c)
	if hungry && c.Genome.Diet.IsPredatory() && prey != (ecs.Entity{}) {
		b.State = components.StateHunt
		b.Target = prey
		return
	}

	if hungry {
		var food ecs.Entity
		foodDist := float32(math.Inf(1))
		p.foodBuf = w.FoodInRangeInto(p.foodBuf[:0], x, y, perception)
		for _, e := range p.foodBuf {
			pos, f, ok := w.Food(e)
			if !ok || !c.CanEat(f) {
				continue
			}
			if d := Distance(x, y, pos.X, pos.Y); d < foodDist {
				food, foodDist = e, d
			}
		}
		if food != (ecs.Entity{}) {
			b.State = components.StateSeekFood
			b.Target = food
			return
		}
	}

	b.State = components.StateWander
	b.ClearTarget()
}

// TargetPosition resolves a weak target reference. A target that was removed,
// or a creature that has died, resolves to no target and is cleared.
func (p *Population) TargetPosition(c Creature, w *World) (x, y float32, ok bool) {
	t := c.Behavior.Target
	if t == (ecs.Entity{}) {
		return 0, 0, false
	}
	if other, found := p.Get(t); found {
		if other.Energy.Alive {
			return other.Pos.X, other.Pos.Y, true
		}
	} else if pos, _, found := w.Food(t); found {
		return pos.X, pos.Y, true
	}
	c.Behavior.ClearTarget()
	return 0, 0, false
}

// Move steers toward the state's desired heading, applies thrust and drag,
// clamps speed, integrates position and bounces off the world edges.
func (p *Population) Move(c Creature, w *World, speedMod float32) {
	cc := &p.cfg.Creature
	targetSpeed := c.Genome.Speed * speedMod * w.BiomeAt(c.Pos.X, c.Pos.Y).SpeedMod

	angle := c.Rot.Heading
	desired := angle
	switch c.Behavior.State {
	case components.StateWander:
		if p.rng.Float64() < cc.WanderTurnChance {
			desired = angle + (p.rng.Float32()-0.5)*float32(cc.WanderTurnRange)
		}
	case components.StateSeekFood, components.StateHunt:
		if tx, ty, ok := p.TargetPosition(c, w); ok {
			desired = angleToward(c.Pos.X, c.Pos.Y, tx, ty)
		}
	case components.StateFlee:
		if tx, ty, ok := p.TargetPosition(c, w); ok {
			desired = angleToward(tx, ty, c.Pos.X, c.Pos.Y)
		}
	}

	angle += normalizeAngle(desired-angle) * float32(cc.TurnRate)

	vel := c.Vel
	thrust := targetSpeed * float32(cc.Thrust)
	vel.X += cos32(angle) * thrust
	vel.Y += sin32(angle) * thrust

	drag := float32(cc.Drag)
	vel.X *= drag
	vel.Y *= drag

	speed := velocityMagnitude(vel.X, vel.Y)
	if speed > targetSpeed {
		scale := targetSpeed / speed
		vel.X *= scale
		vel.Y *= scale
	}

	pos := c.Pos
	pos.X += vel.X
	pos.Y += vel.Y

	// Edge margin is the body size.
	s := c.Genome.Size
	rest := float32(cc.EdgeRestitution)
	if pos.X < s {
		pos.X = s
		vel.X = abs32(vel.X) * rest
	}
	if pos.X > w.Width-s {
		pos.X = w.Width - s
		vel.X = -abs32(vel.X) * rest
	}
	if pos.Y < s {
		pos.Y = s
		vel.Y = abs32(vel.Y) * rest
	}
	if pos.Y > w.Height-s {
		pos.Y = w.Height - s
		vel.Y = -abs32(vel.Y) * rest
	}

	// Facing follows velocity, judged on the pre-clamp speed.
	if speed > float32(cc.FacingThreshold) {
		angle = float32(math.Atan2(float64(vel.Y), float64(vel.X)))
	}
	c.Rot.Heading = angle
}

// Step advances one creature by one tick. It returns an offspring spawn when
// the creature reproduced. A creature whose energy drops to zero dies and
// is not considered for reproduction.
func (p *Population) Step(c Creature, w *World, speedMod float32, tick int64) (Spawn, bool) {
	if !c.Energy.Alive {
		return Spawn{}, false
	}

	c.Energy.Age++
	b := c.Behavior
	b.ReproCooldown = max(0, b.ReproCooldown-1)
	b.FleeCooldown = max(0, b.FleeCooldown-1)

	p.UpdateState(c, w)
	p.Move(c, w, speedMod)
	c.Energy.Value -= p.MetabolicCost(c)

	if c.Energy.Value <= 0 {
		p.Kill(c, tick)
		return Spawn{}, false
	}

	if p.CanReproduce(c) {
		return p.Reproduce(c), true
	}
	return Spawn{}, false
}
