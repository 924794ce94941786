package server

import "math"

// attackCooldownTicks is the minimum tick gap between attacks for one actor:
// 700ms at 20 ticks per second.
const attackCooldownTicks = 14

// attemptAttack resolves one attack intent: find a target along the facing
// line within weapon range, roll accuracy against the defender, roll damage,
// and hand the damage to progression. A dead or cooling-down attacker attacks
// nothing and produces no events.
func (w *World) attemptAttack(attacker *actorState, tick uint64) []Event {
	if !attacker.Alive {
		return nil
	}
	if attacker.lastAttackTick != 0 && tick < attacker.lastAttackTick+attackCooldownTicks {
		return nil
	}

	weapon := attacker.weapon()
	target := w.findTarget(attacker, weapon)
	if target == nil {
		return nil
	}
	attacker.lastAttackTick = tick
	return w.resolveAttack(attacker, target, weapon, tick)
}

// findTarget scans tiles along the attacker's facing, nearest first, up to the
// weapon's range, and returns the first living occupant. Melee stops at the
// first blocked tile; ranged attacks additionally require unobstructed line of
// sight to the target, so a wall between attacker and occupant yields no
// target even when the occupant sits inside range.
func (w *World) findTarget(attacker *actorState, weapon Weapon) *actorState {
	dx, dy := facingDelta(attacker.Facing)
	for dist := 1; dist <= weapon.Range; dist++ {
		x := attacker.X + dx*dist
		y := attacker.Y + dy*dist
		if id, ok := w.occupancy.OccupantAt(x, y); ok && id != attacker.ID {
			target, found := w.actorByID(id)
			if !found || !target.Alive {
				continue
			}
			if weapon.Class == WeaponClassRanged &&
				!w.tilemap.HasLineOfSight(attacker.X, attacker.Y, x, y) {
				return nil
			}
			return target
		}
		if weapon.Class == WeaponClassMelee && !w.tilemap.IsTileWalkable(x, y) {
			return nil
		}
	}
	return nil
}

// maxHitFor computes the damage cap from the Strength level and the weapon's
// strength bonus.
func maxHitFor(strengthLevel, strengthBonus int) int {
	s := float64(strengthLevel)
	return int(math.Floor(1.3 + s/10 + s*float64(strengthBonus)/640))
}

// resolveAttack rolls accuracy and damage for one attack. The attack roll is
// uniform over [0, attackLevel*(attackBonus+64)] and the defence roll uniform
// over [0, defenceLevel*(defenceBonus+64)]; the attack lands iff its roll is
// strictly greater. A landed attack still deals uniform [0, maxHit] damage,
// so a zero-damage hit is distinct from a miss.
func (w *World) resolveAttack(attacker, target *actorState, weapon Weapon, tick uint64) []Event {
	attackMax := attacker.Skills.Attack.Level * (weapon.AttackBonus + 64)
	defenceMax := target.Skills.Defence.Level * (target.weapon().DefenceBonus + 64)
	attackRoll := w.combatRNG.Intn(attackMax + 1)
	defenceRoll := w.combatRNG.Intn(defenceMax + 1)

	hit := attackRoll > defenceRoll
	damage := 0
	if hit {
		maxHit := maxHitFor(attacker.Skills.Strength.Level, weapon.StrengthBonus)
		damage = w.combatRNG.Intn(maxHit + 1)
		if damage > target.HP {
			damage = target.HP
		}
		target.HP -= damage
	}

	events := []Event{{
		Type: EventDamageDealt,
		Tick: tick,
		Payload: DamageDealtPayload{
			AttackerID:    attacker.ID,
			TargetID:      target.ID,
			Hit:           hit,
			Damage:        damage,
			TargetHPAfter: target.HP,
		},
	}}
	w.logAttackResolved(tick, attacker, target, weapon.ID, hit, damage)

	if damage > 0 {
		events = append(events, w.awardCombatXP(attacker, damage, tick)...)
	}
	if target.HP <= 0 {
		events = append(events, w.applyDeath(target, attacker.ID, tick)...)
	}
	return events
}

// applyDeath marks the actor dead, releases its tile so the square is
// immediately claimable, and schedules the respawn. Pending intents from a
// dead actor are dropped by the tick loop.
func (w *World) applyDeath(actor *actorState, killerID string, tick uint64) []Event {
	actor.Alive = false
	actor.HP = 0
	actor.diedAtTick = tick
	w.occupancy.Release(actor.X, actor.Y, actor.ID)
	w.logActorKilled(tick, actor, killerID)
	return []Event{{
		Type: EventActorDied,
		Tick: tick,
		Payload: ActorDiedPayload{
			ActorID:  actor.ID,
			KillerID: killerID,
		},
	}}
}

// respawn returns a dead actor to its spawn point with full health once its
// respawn delay has elapsed. When the spawn tile is held, the actor waits
// there in limbo and retries next tick.
func (w *World) respawn(actor *actorState, tick uint64) []Event {
	if !w.occupancy.TryClaim(actor.SpawnX, actor.SpawnY, actor.ID) {
		return nil
	}
	actor.X = actor.SpawnX
	actor.Y = actor.SpawnY
	actor.Facing = defaultFacing
	actor.HP = actor.MaxHP
	actor.Alive = true
	actor.diedAtTick = 0
	w.logActorRespawned(tick, actor)
	return []Event{{
		Type: EventActorRespawned,
		Tick: tick,
		Payload: ActorRespawnedPayload{
			ActorID: actor.ID,
			X:       actor.X,
			Y:       actor.Y,
			HP:      actor.HP,
		},
	}}
}
