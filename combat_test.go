package server

import "testing"

const accuracyTrials = 10000

// rollHitRate runs repeated attack resolutions between two freshly statted
// actors, resetting skills, health and cooldowns between swings so earned
// experience never drifts the matchup.
func rollHitRate(t *testing.T, w *World, attacker, target *playerState, attackerSkills, targetSkills func() Skills) (hits, landed int) {
	t.Helper()
	for i := 0; i < accuracyTrials; i++ {
		attacker.Skills = attackerSkills()
		target.Skills = targetSkills()
		attacker.syncDerived()
		target.syncDerived()
		attacker.HP = attacker.MaxHP
		target.HP = target.MaxHP
		attacker.lastAttackTick = 0
		target.Alive = true

		events := w.resolveAttack(&attacker.actorState, &target.actorState, attacker.weapon(), uint64(i+1))
		if len(events) == 0 {
			t.Fatalf("trial %d produced no resolution", i)
		}
		payload, ok := events[0].Payload.(DamageDealtPayload)
		if !ok {
			t.Fatalf("trial %d first event is %T, want DamageDealtPayload", i, events[0].Payload)
		}
		landed++
		if payload.Hit {
			hits++
		}
	}
	return hits, landed
}

func TestHitRateOverwhelmingAdvantage(t *testing.T) {
	w := newTestWorld(t)
	replaceTilemap(w, openTilemap(16, 16))
	attacker := placePlayer(t, w, "veteran", 4, 4)
	attacker.Facing = FacingEast
	target := placePlayer(t, w, "novice", 5, 4)

	strong := func() Skills {
		return Skills{
			Attack:    NewSkill(99),
			Strength:  NewSkill(99),
			Defence:   NewSkill(99),
			Hitpoints: NewSkill(99),
		}
	}
	weak := func() Skills { return NewSkills() }

	hits, trials := rollHitRate(t, w, attacker, target, strong, weak)
	rate := float64(hits) / float64(trials)
	if rate <= 0.95 {
		t.Fatalf("level-99 vs level-1 hit rate = %.4f, want > 0.95", rate)
	}
}

func TestHitRateEvenMatchup(t *testing.T) {
	w := newTestWorld(t)
	replaceTilemap(w, openTilemap(16, 16))
	attacker := placePlayer(t, w, "left", 4, 4)
	attacker.Facing = FacingEast
	target := placePlayer(t, w, "right", 5, 4)

	even := func() Skills {
		return Skills{
			Attack:    NewSkill(50),
			Strength:  NewSkill(50),
			Defence:   NewSkill(50),
			Hitpoints: NewSkill(50),
		}
	}

	hits, trials := rollHitRate(t, w, attacker, target, even, even)
	rate := float64(hits) / float64(trials)
	if rate < 0.45 || rate > 0.55 {
		t.Fatalf("mirror matchup hit rate = %.4f, want within [0.45, 0.55]", rate)
	}
}

func TestZeroDamageHitIsDistinctFromMiss(t *testing.T) {
	w := newTestWorld(t)
	replaceTilemap(w, openTilemap(16, 16))
	attacker := placePlayer(t, w, "left", 4, 4)
	attacker.Facing = FacingEast
	target := placePlayer(t, w, "right", 5, 4)

	var sawZeroDamageHit, sawMiss bool
	for i := 0; i < accuracyTrials && !(sawZeroDamageHit && sawMiss); i++ {
		attacker.Skills = NewSkills()
		target.Skills = NewSkills()
		target.syncDerived()
		target.HP = target.MaxHP
		target.Alive = true

		events := w.resolveAttack(&attacker.actorState, &target.actorState, attacker.weapon(), uint64(i+1))
		payload := events[0].Payload.(DamageDealtPayload)
		switch {
		case payload.Hit && payload.Damage == 0:
			sawZeroDamageHit = true
		case !payload.Hit:
			sawMiss = true
		}
	}
	if !sawZeroDamageHit {
		t.Fatalf("never observed a landed zero-damage attack")
	}
	if !sawMiss {
		t.Fatalf("never observed a miss")
	}
}

func TestMeleeRequiresAdjacency(t *testing.T) {
	w := newTestWorld(t)
	replaceTilemap(w, openTilemap(16, 16))
	attacker := placePlayer(t, w, "puncher", 4, 4)
	attacker.Facing = FacingEast
	placePlayer(t, w, "distant", 7, 4)

	if events := w.attemptAttack(&attacker.actorState, 1); len(events) != 0 {
		t.Fatalf("melee swing at range 3 should find no target, got %+v", events)
	}
}

func TestRangedAttackBlockedByWall(t *testing.T) {
	w := newTestWorld(t)
	tm := openTilemap(16, 16)
	for y := 1; y < 15; y++ {
		tm.collision[y*16+6] = true
	}
	replaceTilemap(w, tm)

	archer := placePlayer(t, w, "archer", 3, 4)
	archer.WeaponID = "shortbow"
	archer.Facing = FacingEast
	placePlayer(t, w, "hidden", 7, 4)

	if events := w.attemptAttack(&archer.actorState, 1); len(events) != 0 {
		t.Fatalf("wall should abort the shot, got %+v", events)
	}

	// Same distance with the wall opened: the shot resolves.
	tm.collision[4*16+6] = false
	archer.lastAttackTick = 0
	events := w.attemptAttack(&archer.actorState, 30)
	if len(events) == 0 {
		t.Fatalf("clear firing line should resolve an attack")
	}
	if events[0].Type != EventDamageDealt {
		t.Fatalf("first event = %q, want %q", events[0].Type, EventDamageDealt)
	}
}

func TestAttackCooldown(t *testing.T) {
	w := newTestWorld(t)
	replaceTilemap(w, openTilemap(16, 16))
	attacker := placePlayer(t, w, "puncher", 4, 4)
	attacker.Facing = FacingEast
	target := placePlayer(t, w, "bag", 5, 4)

	if events := w.attemptAttack(&attacker.actorState, 10); len(events) == 0 {
		t.Fatalf("first swing should resolve")
	}
	target.HP = target.MaxHP
	target.Alive = true
	if events := w.attemptAttack(&attacker.actorState, 20); len(events) != 0 {
		t.Fatalf("swing inside cooldown should be dropped, got %+v", events)
	}
	if events := w.attemptAttack(&attacker.actorState, 24); len(events) == 0 {
		t.Fatalf("swing after cooldown should resolve")
	}
}

func TestKillReleasesTileWithinSameTick(t *testing.T) {
	w := newTestWorld(t)
	replaceTilemap(w, openTilemap(16, 16))
	attacker := placePlayer(t, w, "slayer", 4, 4)
	attacker.Facing = FacingEast
	attacker.Skills.Attack = NewSkill(99)
	attacker.Skills.Strength = NewSkill(99)
	victim := placePlayer(t, w, "victim", 5, 4)
	mover := placePlayer(t, w, "mover", 5, 5)

	var died bool
	tick := uint64(0)
	for i := 0; i < accuracyTrials && !died; i++ {
		tick += attackCooldownTicks
		victim.HP = 1
		victim.Alive = true
		if !w.occupancy.TryClaim(5, 4, "victim") {
			t.Fatalf("victim lost its tile before dying")
		}
		events := w.attemptAttack(&attacker.actorState, tick)
		if len(eventsOfType(events, EventActorDied)) > 0 {
			died = true
		}
	}
	if !died {
		t.Fatalf("victim never died across %d swings", accuracyTrials)
	}

	if !w.occupancy.IsFree(5, 4) {
		t.Fatalf("death must release the victim's tile immediately")
	}
	if events := w.attemptMove(&mover.actorState, 5, 4, tick); len(events) != 1 || events[0].Type != EventPositionChanged {
		t.Fatalf("vacated tile should be walkable in the same tick, got %+v", events)
	}
}
