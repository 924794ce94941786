package combat

import (
	"context"

	"duskhall/server/logging"
)

const (
	AttackResolvedEventType logging.EventType = "combat.attack_resolved"
	ActorKilledEventType    logging.EventType = "combat.actor_killed"
)

type AttackResolvedPayload struct {
	Weapon   string `json:"weapon"`
	Hit      bool   `json:"hit"`
	Damage   int    `json:"damage"`
	TargetHP int    `json:"targetHp"`
}

func AttackResolved(ctx context.Context, pub logging.Publisher, tick uint64, attacker, target logging.EntityRef, payload AttackResolvedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     AttackResolvedEventType,
		Tick:     tick,
		Actor:    attacker,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

type ActorKilledPayload struct {
	KillerID string `json:"killerId"`
}

func ActorKilled(ctx context.Context, pub logging.Publisher, tick uint64, victim logging.EntityRef, payload ActorKilledPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     ActorKilledEventType,
		Tick:     tick,
		Actor:    victim,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}
