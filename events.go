package server

type EventType string

const (
	EventPositionChanged EventType = "position_changed"
	EventMoveRejected    EventType = "move_rejected"
	EventDamageDealt     EventType = "damage_dealt"
	EventActorDied       EventType = "actor_died"
	EventActorRespawned  EventType = "actor_respawned"
	EventXpGained        EventType = "xp_gained"
	EventLevelUp         EventType = "level_up"
)

// Event is one entry of the outbound batch a tick produces. Payload holds the
// typed struct matching Type; the batch is the only way state changes leave
// the simulation.
type Event struct {
	Type    EventType `json:"type" msgpack:"type"`
	Tick    uint64    `json:"t" msgpack:"t"`
	Payload any       `json:"payload" msgpack:"payload"`
}

type PositionChangedPayload struct {
	ActorID string          `json:"actorId" msgpack:"actorId"`
	X       int             `json:"x" msgpack:"x"`
	Y       int             `json:"y" msgpack:"y"`
	Facing  FacingDirection `json:"facing" msgpack:"facing"`
}

type MoveRejectedPayload struct {
	ActorID string           `json:"actorId" msgpack:"actorId"`
	Reason  MoveRejectReason `json:"reason" msgpack:"reason"`
}

type DamageDealtPayload struct {
	AttackerID    string `json:"attackerId" msgpack:"attackerId"`
	TargetID      string `json:"targetId" msgpack:"targetId"`
	Hit           bool   `json:"hit" msgpack:"hit"`
	Damage        int    `json:"damage" msgpack:"damage"`
	TargetHPAfter int    `json:"targetHpAfter" msgpack:"targetHpAfter"`
}

type ActorDiedPayload struct {
	ActorID  string `json:"actorId" msgpack:"actorId"`
	KillerID string `json:"killerId,omitempty" msgpack:"killerId,omitempty"`
}

type ActorRespawnedPayload struct {
	ActorID string `json:"actorId" msgpack:"actorId"`
	X       int    `json:"x" msgpack:"x"`
	Y       int    `json:"y" msgpack:"y"`
	HP      int    `json:"hp" msgpack:"hp"`
}

type XpGainedPayload struct {
	ActorID  string    `json:"actorId" msgpack:"actorId"`
	Skill    SkillType `json:"skill" msgpack:"skill"`
	Amount   int64     `json:"amount" msgpack:"amount"`
	NewTotal int64     `json:"newTotal" msgpack:"newTotal"`
	NewLevel int       `json:"newLevel" msgpack:"newLevel"`
}

type LevelUpPayload struct {
	ActorID  string    `json:"actorId" msgpack:"actorId"`
	Skill    SkillType `json:"skill" msgpack:"skill"`
	NewLevel int       `json:"newLevel" msgpack:"newLevel"`
}
