package server

// awardCombatXP grants experience for damage dealt. Every point of damage is
// worth 4 experience split evenly across Attack, Strength and Defence, plus
// 1.33 experience to Hitpoints, all rounded down in integer math. Only the
// attacker earns experience; the defender gets nothing for being hit.
func (w *World) awardCombatXP(attacker *actorState, damage int, tick uint64) []Event {
	shared := int64(damage) * 4 / 3
	hitpoints := int64(damage) * 133 / 100

	grants := []struct {
		skill  SkillType
		amount int64
	}{
		{SkillAttack, shared},
		{SkillStrength, shared},
		{SkillDefence, shared},
		{SkillHitpoints, hitpoints},
	}

	var events []Event
	for _, grant := range grants {
		if grant.amount <= 0 {
			continue
		}
		events = append(events, w.grantXP(attacker, grant.skill, grant.amount, tick)...)
	}
	return events
}

// grantXP adds experience to one skill and emits the gain plus any level-up.
// Derived stats (max HP, combat level) are recomputed on level-up so a
// Hitpoints level immediately raises the health cap.
func (w *World) grantXP(actor *actorState, skillType SkillType, amount int64, tick uint64) []Event {
	skill := actor.Skills.Get(skillType)
	leveled := skill.AddXP(amount)

	events := []Event{{
		Type: EventXpGained,
		Tick: tick,
		Payload: XpGainedPayload{
			ActorID:  actor.ID,
			Skill:    skillType,
			Amount:   amount,
			NewTotal: skill.XP,
			NewLevel: skill.Level,
		},
	}}
	w.logXPAwarded(tick, actor, skillType, amount, skill.XP)

	if leveled {
		actor.syncDerived()
		events = append(events, Event{
			Type: EventLevelUp,
			Tick: tick,
			Payload: LevelUpPayload{
				ActorID:  actor.ID,
				Skill:    skillType,
				NewLevel: skill.Level,
			},
		})
		w.logLevelUp(tick, actor, skillType, skill.Level)
	}
	return events
}
