package server

import (
	"testing"
	"time"

	"duskhall/server/logging"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	cfg := DefaultWorldConfig()
	cfg.Width = 16
	cfg.Height = 16
	cfg.Seed = "test"
	cfg.GoblinCount = 0
	return NewWorld(cfg.Normalized(), logging.NopPublisher{}, nil)
}

// replaceTilemap swaps in a custom collision grid, resetting occupancy.
func replaceTilemap(w *World, tm *Tilemap) {
	w.tilemap = tm
	w.occupancy = NewOccupancyMap(tm)
}

func placePlayer(t *testing.T, w *World, id string, x, y int) *playerState {
	t.Helper()
	if !w.tilemap.IsTileWalkable(x, y) {
		t.Fatalf("tile (%d,%d) is not walkable; pick another test position", x, y)
	}
	p := &playerState{
		actorState: actorState{
			Actor: Actor{
				ID:     id,
				Kind:   ActorKindPlayer,
				X:      x,
				Y:      y,
				Facing: defaultFacing,
				Alive:  true,
			},
			Skills: NewSkills(),
			SpawnX: x,
			SpawnY: y,
		},
		lastHeartbeat: time.Now(),
	}
	p.syncDerived()
	p.HP = p.MaxHP
	if !w.occupancy.TryClaim(x, y, id) {
		t.Fatalf("tile (%d,%d) already claimed", x, y)
	}
	w.players[id] = p
	return p
}

func eventsOfType(events []Event, typ EventType) []Event {
	var out []Event
	for _, ev := range events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func TestMovementSettlesBeforeCombat(t *testing.T) {
	w := newTestWorld(t)
	attacker := placePlayer(t, w, "attacker", 2, 2)
	attacker.Facing = FacingEast
	placePlayer(t, w, "runner", 4, 2)

	// The runner steps adjacent and the attacker swings in the same tick;
	// the swing must see the post-movement position.
	w.EnqueueCommand(Command{ActorID: "runner", Type: CommandMove, Move: &MoveCommand{ToX: 3, ToY: 2}})
	w.EnqueueCommand(Command{ActorID: "attacker", Type: CommandAttack})

	events, _ := w.Step(time.Now())

	hits := eventsOfType(events, EventDamageDealt)
	if len(hits) != 1 {
		t.Fatalf("expected one attack resolution, got %d", len(hits))
	}
	payload := hits[0].Payload.(DamageDealtPayload)
	if payload.AttackerID != "attacker" || payload.TargetID != "runner" {
		t.Fatalf("unexpected combatants: %+v", payload)
	}
}

func TestQueueOrderBreaksMovementTies(t *testing.T) {
	w := newTestWorld(t)
	placePlayer(t, w, "first", 2, 2)
	placePlayer(t, w, "second", 4, 2)

	w.EnqueueCommand(Command{ActorID: "first", Type: CommandMove, Move: &MoveCommand{ToX: 3, ToY: 2}})
	w.EnqueueCommand(Command{ActorID: "second", Type: CommandMove, Move: &MoveCommand{ToX: 3, ToY: 2}})

	events, _ := w.Step(time.Now())

	moved := eventsOfType(events, EventPositionChanged)
	if len(moved) != 1 {
		t.Fatalf("expected exactly one successful move, got %d", len(moved))
	}
	if payload := moved[0].Payload.(PositionChangedPayload); payload.ActorID != "first" {
		t.Fatalf("expected earlier intent to win the tile, got %q", payload.ActorID)
	}

	rejected := eventsOfType(events, EventMoveRejected)
	if len(rejected) != 1 {
		t.Fatalf("expected one rejection, got %d", len(rejected))
	}
	payload := rejected[0].Payload.(MoveRejectedPayload)
	if payload.ActorID != "second" || payload.Reason != MoveRejectOccupied {
		t.Fatalf("unexpected rejection: %+v", payload)
	}
}

func TestVacatedTileClaimableSameTick(t *testing.T) {
	w := newTestWorld(t)
	placePlayer(t, w, "leader", 3, 2)
	placePlayer(t, w, "follower", 2, 2)

	w.EnqueueCommand(Command{ActorID: "leader", Type: CommandMove, Move: &MoveCommand{ToX: 4, ToY: 2}})
	w.EnqueueCommand(Command{ActorID: "follower", Type: CommandMove, Move: &MoveCommand{ToX: 3, ToY: 2}})

	events, _ := w.Step(time.Now())

	if got := len(eventsOfType(events, EventPositionChanged)); got != 2 {
		t.Fatalf("expected both moves to land, got %d position changes", got)
	}
	if id, _ := w.occupancy.OccupantAt(3, 2); id != "follower" {
		t.Fatalf("expected follower on vacated tile, occupant is %q", id)
	}
}

func TestDeadActorIntentsDropped(t *testing.T) {
	w := newTestWorld(t)
	attacker := placePlayer(t, w, "attacker", 2, 2)
	attacker.Facing = FacingEast
	victim := placePlayer(t, w, "victim", 3, 2)

	w.applyDeath(&victim.actorState, "attacker", w.currentTick)

	w.EnqueueCommand(Command{ActorID: "victim", Type: CommandMove, Move: &MoveCommand{ToX: 4, ToY: 2}})
	w.EnqueueCommand(Command{ActorID: "victim", Type: CommandAttack})

	events, _ := w.Step(time.Now())

	for _, ev := range events {
		switch payload := ev.Payload.(type) {
		case PositionChangedPayload:
			if payload.ActorID == "victim" {
				t.Fatalf("dead actor moved")
			}
		case DamageDealtPayload:
			if payload.AttackerID == "victim" {
				t.Fatalf("dead actor attacked")
			}
		}
	}
}

func TestRespawnAfterDelay(t *testing.T) {
	w := newTestWorld(t)
	victim := placePlayer(t, w, "victim", 3, 3)
	victim.SpawnX, victim.SpawnY = 3, 3

	w.currentTick = 10
	w.applyDeath(&victim.actorState, "someone", 10)
	if w.occupancy.Len() != 0 {
		t.Fatalf("expected death to release the tile")
	}

	now := time.Now()
	var respawned []Event
	for i := 0; i < int(w.cfg.RespawnDelayTicks)+2; i++ {
		events, _ := w.Step(now)
		respawned = append(respawned, eventsOfType(events, EventActorRespawned)...)
	}

	if len(respawned) != 1 {
		t.Fatalf("expected one respawn, got %d", len(respawned))
	}
	payload := respawned[0].Payload.(ActorRespawnedPayload)
	if payload.X != 3 || payload.Y != 3 {
		t.Fatalf("expected respawn at spawn point, got (%d,%d)", payload.X, payload.Y)
	}
	if respawned[0].Tick < 10+w.cfg.RespawnDelayTicks {
		t.Fatalf("respawned too early, at tick %d", respawned[0].Tick)
	}
	if !victim.Alive || victim.HP != victim.MaxHP {
		t.Fatalf("expected full-health revival, got alive=%v hp=%d/%d", victim.Alive, victim.HP, victim.MaxHP)
	}
}

func TestHeartbeatEviction(t *testing.T) {
	w := newTestWorld(t)
	p := placePlayer(t, w, "idler", 3, 3)
	p.lastHeartbeat = time.Now().Add(-time.Minute)

	_, removed := w.Step(time.Now())

	if len(removed) != 1 || removed[0] != "idler" {
		t.Fatalf("expected idler to be evicted, got %v", removed)
	}
	if _, ok := w.players["idler"]; ok {
		t.Fatalf("evicted player still attached")
	}
	if !w.occupancy.IsFree(3, 3) {
		t.Fatalf("evicted player's tile still claimed")
	}
}

func TestRestorePlayerKeepsSkillsAndPosition(t *testing.T) {
	w := newTestWorld(t)
	replaceTilemap(w, openTilemap(16, 16))

	record := PlayerRecord{
		ID:      "player-alice",
		Account: "alice",
		X:       5,
		Y:       5,
		Skills: Skills{
			Attack:    skillFromXP(1154),
			Strength:  skillFromXP(83),
			Defence:   skillFromXP(0),
			Hitpoints: skillFromXP(1154),
		},
	}

	actor, err := w.RestorePlayer("player-alice", "alice", record, time.Now())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if actor.X != 5 || actor.Y != 5 {
		t.Fatalf("expected restore at persisted position, got (%d,%d)", actor.X, actor.Y)
	}
	if id, _ := w.occupancy.OccupantAt(5, 5); id != "player-alice" {
		t.Fatalf("persisted tile occupant = %q, want player-alice", id)
	}

	p := w.players["player-alice"]
	if p.Skills.Attack.Level != 10 || p.Skills.Strength.Level != 2 {
		t.Fatalf("skills not restored from experience: %+v", p.Skills)
	}
	if actor.MaxHP != 10 || actor.HP != 10 {
		t.Fatalf("expected full health at restored hitpoints level, got %d/%d", actor.HP, actor.MaxHP)
	}
}

func TestSnapshotReflectsCompletedTick(t *testing.T) {
	w := newTestWorld(t)
	placePlayer(t, w, "watcher", 3, 3)

	w.Step(time.Now())
	snap := w.Snapshot()

	if snap.Tick != 1 {
		t.Fatalf("expected snapshot for tick 1, got %d", snap.Tick)
	}
	if len(snap.Actors) != 1 || snap.Actors[0].ID != "watcher" {
		t.Fatalf("unexpected snapshot actors: %+v", snap.Actors)
	}
}
