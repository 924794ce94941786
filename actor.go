package server

import "time"

type FacingDirection string

const (
	FacingNorth     FacingDirection = "north"
	FacingSouth     FacingDirection = "south"
	FacingEast      FacingDirection = "east"
	FacingWest      FacingDirection = "west"
	FacingNorthEast FacingDirection = "northeast"
	FacingNorthWest FacingDirection = "northwest"
	FacingSouthEast FacingDirection = "southeast"
	FacingSouthWest FacingDirection = "southwest"

	defaultFacing FacingDirection = FacingSouth
)

// parseFacing validates a facing string received from the client.
func parseFacing(value string) (FacingDirection, bool) {
	switch FacingDirection(value) {
	case FacingNorth, FacingSouth, FacingEast, FacingWest,
		FacingNorthEast, FacingNorthWest, FacingSouthEast, FacingSouthWest:
		return FacingDirection(value), true
	default:
		return "", false
	}
}

// facingFromDelta maps an 8-directional step onto the facing it implies.
// A zero delta keeps the fallback.
func facingFromDelta(dx, dy int, fallback FacingDirection) FacingDirection {
	if fallback == "" {
		fallback = defaultFacing
	}
	switch {
	case dx == 0 && dy < 0:
		return FacingNorth
	case dx == 0 && dy > 0:
		return FacingSouth
	case dx > 0 && dy == 0:
		return FacingEast
	case dx < 0 && dy == 0:
		return FacingWest
	case dx > 0 && dy < 0:
		return FacingNorthEast
	case dx < 0 && dy < 0:
		return FacingNorthWest
	case dx > 0 && dy > 0:
		return FacingSouthEast
	case dx < 0 && dy > 0:
		return FacingSouthWest
	default:
		return fallback
	}
}

// facingDelta returns the unit tile step for a facing.
func facingDelta(f FacingDirection) (int, int) {
	switch f {
	case FacingNorth:
		return 0, -1
	case FacingSouth:
		return 0, 1
	case FacingEast:
		return 1, 0
	case FacingWest:
		return -1, 0
	case FacingNorthEast:
		return 1, -1
	case FacingNorthWest:
		return -1, -1
	case FacingSouthEast:
		return 1, 1
	case FacingSouthWest:
		return -1, 1
	default:
		return 0, 1
	}
}

type ActorKind string

const (
	ActorKindPlayer ActorKind = "player"
	ActorKindNPC    ActorKind = "npc"
)

// Actor is the broadcast-facing view of anything that can move and fight.
type Actor struct {
	ID          string          `json:"id" msgpack:"id"`
	Kind        ActorKind       `json:"kind" msgpack:"kind"`
	X           int             `json:"x" msgpack:"x"`
	Y           int             `json:"y" msgpack:"y"`
	Facing      FacingDirection `json:"facing" msgpack:"facing"`
	HP          int             `json:"hp" msgpack:"hp"`
	MaxHP       int             `json:"maxHp" msgpack:"maxHp"`
	Alive       bool            `json:"alive" msgpack:"alive"`
	WeaponID    string          `json:"weapon" msgpack:"weapon"`
	CombatLevel int             `json:"combatLevel" msgpack:"combatLevel"`
}

// actorState is the authoritative server-side record behind an Actor.
type actorState struct {
	Actor
	Skills Skills

	SpawnX int
	SpawnY int

	lastMoveTick   uint64
	lastAttackTick uint64
	diedAtTick     uint64
}

func (s *actorState) weapon() Weapon {
	return weaponFor(s.WeaponID)
}

// syncDerived recomputes the fields derived from skills: max HP tracks the
// Hitpoints level 1:1, and the summary combat level follows the four axes.
// Current HP is clamped only when it exceeds the new cap.
func (s *actorState) syncDerived() {
	s.MaxHP = s.Skills.Hitpoints.Level
	if s.HP > s.MaxHP {
		s.HP = s.MaxHP
	}
	s.CombatLevel = s.Skills.CombatLevel()
}

type playerState struct {
	actorState

	Account       string
	lastInput     time.Time
	lastHeartbeat time.Time
	lastRTT       time.Duration
}

func (s *playerState) snapshot() Actor {
	return s.Actor
}

type npcState struct {
	actorState

	Archetype  NPCArchetype
	aiState    npcAIState
	targetID   string
	aggroRange int
	leashRange int

	respawnDelayTicks uint64
}

func (s *npcState) snapshot() Actor {
	return s.Actor
}
