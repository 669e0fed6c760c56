package systems

import "github.com/pthm-cable/ecosim/components"

// CanAttack reports whether a can attack b: a must not be a herbivore and
// must be larger than attack_ratio times b's size. The same rule decides
// whether a counts as a predator of b.
func (p *Population) CanAttack(a, b Creature) bool {
	if a.Genome.Diet == components.Herbivore {
		return false
	}
	return a.Genome.Size > b.Genome.Size*float32(p.cfg.Combat.AttackRatio)
}

// KillChance is base + size difference and attacker speed terms.
// It is deliberately left unclamped: values >= 1 always kill, values <= 0 never do.
func (p *Population) KillChance(a, b Creature) float32 {
	cc := &p.cfg.Combat
	return float32(cc.BaseKill) +
		(a.Genome.Size-b.Genome.Size)*float32(cc.SizeFactor) +
		a.Genome.Speed*float32(cc.SpeedFactor)
}

// AttackResult reports the outcome of an attack.
type AttackResult uint8

const (
	AttackIneligible AttackResult = iota
	AttackKilled
	AttackRepelled
)

// TryAttack resolves an attack of a on b. On a kill a gains the reward share of
// b's remaining energy, clamped to max, and b dies. On a miss both creatures
// get the flee cooldown.
func (p *Population) TryAttack(a, b Creature, tick int64) AttackResult {
	if !p.CanAttack(a, b) {
		return AttackIneligible
	}
	if p.rng.Float32() < p.KillChance(a, b) {
		reward := b.Energy.Value * float32(p.cfg.Combat.Reward)
		a.Energy.Value = min(a.Energy.Value+reward, a.Energy.Max)
		p.Kill(b, tick)
		return AttackKilled
	}
	cooldown := int32(p.cfg.Combat.FleeCooldown)
	a.Behavior.FleeCooldown = cooldown
	b.Behavior.FleeCooldown = cooldown
	return AttackRepelled
}
