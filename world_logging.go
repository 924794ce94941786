package server

import (
	"context"

	"duskhall/server/logging"
	combatlog "duskhall/server/logging/combat"
	lifecyclelog "duskhall/server/logging/lifecycle"
	progressionlog "duskhall/server/logging/progression"
)

func entityRef(actor *actorState) logging.EntityRef {
	kind := logging.EntityKindPlayer
	if actor.Kind == ActorKindNPC {
		kind = logging.EntityKindNPC
	}
	return logging.EntityRef{ID: actor.ID, Kind: kind}
}

func (w *World) logAttackResolved(tick uint64, attacker, target *actorState, weaponID string, hit bool, damage int) {
	combatlog.AttackResolved(context.Background(), w.publisher, tick,
		entityRef(attacker), entityRef(target), combatlog.AttackResolvedPayload{
			Weapon:   weaponID,
			Hit:      hit,
			Damage:   damage,
			TargetHP: target.HP,
		})
}

func (w *World) logActorKilled(tick uint64, victim *actorState, killerID string) {
	combatlog.ActorKilled(context.Background(), w.publisher, tick,
		entityRef(victim), combatlog.ActorKilledPayload{KillerID: killerID})
}

func (w *World) logPlayerAttached(tick uint64, p *playerState) {
	lifecyclelog.PlayerAttached(context.Background(), w.publisher, tick,
		entityRef(&p.actorState), lifecyclelog.PlayerAttachedPayload{
			Account: p.Account,
			X:       p.X,
			Y:       p.Y,
		})
}

func (w *World) logPlayerDetached(tick uint64, p *playerState, reason string) {
	lifecyclelog.PlayerDetached(context.Background(), w.publisher, tick,
		entityRef(&p.actorState), lifecyclelog.PlayerDetachedPayload{Reason: reason})
}

func (w *World) logActorRespawned(tick uint64, actor *actorState) {
	lifecyclelog.ActorRespawned(context.Background(), w.publisher, tick,
		entityRef(actor), lifecyclelog.ActorRespawnedPayload{
			X:  actor.X,
			Y:  actor.Y,
			HP: actor.HP,
		})
}

func (w *World) logXPAwarded(tick uint64, actor *actorState, skill SkillType, amount, newTotal int64) {
	progressionlog.XpAwarded(context.Background(), w.publisher, tick,
		entityRef(actor), progressionlog.XpAwardedPayload{
			Skill:    string(skill),
			Amount:   amount,
			NewTotal: newTotal,
		})
}

func (w *World) logLevelUp(tick uint64, actor *actorState, skill SkillType, newLevel int) {
	progressionlog.LevelUp(context.Background(), w.publisher, tick,
		entityRef(actor), progressionlog.LevelUpPayload{
			Skill:    string(skill),
			NewLevel: newLevel,
		})
}
