package server

import "testing"

func TestCombatXPSplit(t *testing.T) {
	w := newTestWorld(t)
	replaceTilemap(w, openTilemap(16, 16))
	p := placePlayer(t, w, "fighter", 4, 4)

	events := w.awardCombatXP(&p.actorState, 3, 1)

	gains := eventsOfType(events, EventXpGained)
	if len(gains) != 4 {
		t.Fatalf("expected four grants, got %d", len(gains))
	}
	want := map[SkillType]int64{
		SkillAttack:    4, // 3*4/3
		SkillStrength:  4,
		SkillDefence:   4,
		SkillHitpoints: 3, // 3*133/100
	}
	for _, ev := range gains {
		payload := ev.Payload.(XpGainedPayload)
		if want[payload.Skill] != payload.Amount {
			t.Errorf("%s grant = %d, want %d", payload.Skill, payload.Amount, want[payload.Skill])
		}
	}
	if p.Skills.Attack.XP != 4 || p.Skills.Hitpoints.XP != 1154+3 {
		t.Fatalf("unexpected totals: attack=%d hitpoints=%d", p.Skills.Attack.XP, p.Skills.Hitpoints.XP)
	}
}

func TestZeroDamageGrantsNoXP(t *testing.T) {
	w := newTestWorld(t)
	replaceTilemap(w, openTilemap(16, 16))
	p := placePlayer(t, w, "fighter", 4, 4)

	if events := w.awardCombatXP(&p.actorState, 0, 1); len(events) != 0 {
		t.Fatalf("zero damage should grant nothing, got %+v", events)
	}
}

func TestLevelUpEmittedOnceThresholdCrossed(t *testing.T) {
	w := newTestWorld(t)
	replaceTilemap(w, openTilemap(16, 16))
	p := placePlayer(t, w, "fighter", 4, 4)

	events := w.grantXP(&p.actorState, SkillAttack, 83, 1)

	ups := eventsOfType(events, EventLevelUp)
	if len(ups) != 1 {
		t.Fatalf("expected one level-up, got %d", len(ups))
	}
	payload := ups[0].Payload.(LevelUpPayload)
	if payload.Skill != SkillAttack || payload.NewLevel != 2 {
		t.Fatalf("unexpected level-up: %+v", payload)
	}

	// A second small grant below the next threshold stays quiet.
	events = w.grantXP(&p.actorState, SkillAttack, 10, 2)
	if len(eventsOfType(events, EventLevelUp)) != 0 {
		t.Fatalf("expected no level-up on sub-threshold grant")
	}
}

func TestLevelAlwaysMatchesExperience(t *testing.T) {
	w := newTestWorld(t)
	replaceTilemap(w, openTilemap(16, 16))
	p := placePlayer(t, w, "fighter", 4, 4)

	for i := 0; i < 500; i++ {
		w.awardCombatXP(&p.actorState, 1+i%7, uint64(i+1))
	}
	for _, st := range skillTypes {
		skill := p.Skills.Get(st)
		if got := LevelForXP(skill.XP); got != skill.Level {
			t.Fatalf("%s level %d disagrees with xp %d (derives %d)", st, skill.Level, skill.XP, got)
		}
	}
}

func TestHitpointsLevelRaisesMaxHPWithoutHealing(t *testing.T) {
	w := newTestWorld(t)
	replaceTilemap(w, openTilemap(16, 16))
	p := placePlayer(t, w, "fighter", 4, 4)
	p.HP = 4

	needed := p.Skills.Hitpoints.XPToNextLevel()
	events := w.grantXP(&p.actorState, SkillHitpoints, needed, 1)

	if len(eventsOfType(events, EventLevelUp)) != 1 {
		t.Fatalf("expected hitpoints level-up")
	}
	if p.MaxHP != 11 {
		t.Fatalf("max hp = %d, want 11", p.MaxHP)
	}
	if p.HP != 4 {
		t.Fatalf("level-up must not heal, hp = %d", p.HP)
	}
	if p.CombatLevel != p.Skills.CombatLevel() {
		t.Fatalf("combat level not recomputed")
	}
}
