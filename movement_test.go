package server

import "testing"

func TestMoveIntoWallRejectedButTurns(t *testing.T) {
	w := newTestWorld(t)
	replaceTilemap(w, openTilemap(16, 16))
	p := placePlayer(t, w, "walker", 1, 5)

	events := w.attemptMove(&p.actorState, 0, 5, 1)

	if len(events) != 1 || events[0].Type != EventMoveRejected {
		t.Fatalf("expected a single rejection, got %+v", events)
	}
	payload := events[0].Payload.(MoveRejectedPayload)
	if payload.Reason != MoveRejectBlocked {
		t.Fatalf("reason = %q, want %q", payload.Reason, MoveRejectBlocked)
	}
	if p.X != 1 || p.Y != 5 {
		t.Fatalf("position changed on rejection: (%d,%d)", p.X, p.Y)
	}
	if p.Facing != FacingWest {
		t.Fatalf("rejected move must still turn the actor, facing = %q", p.Facing)
	}
}

func TestMoveIntoOccupiedTileRejected(t *testing.T) {
	w := newTestWorld(t)
	replaceTilemap(w, openTilemap(16, 16))
	mover := placePlayer(t, w, "mover", 4, 4)
	placePlayer(t, w, "blocker", 5, 4)

	events := w.attemptMove(&mover.actorState, 5, 4, 1)

	if len(events) != 1 || events[0].Type != EventMoveRejected {
		t.Fatalf("expected a single rejection, got %+v", events)
	}
	if payload := events[0].Payload.(MoveRejectedPayload); payload.Reason != MoveRejectOccupied {
		t.Fatalf("reason = %q, want %q", payload.Reason, MoveRejectOccupied)
	}
	// The mover must still hold its origin after the failed swap.
	if id, _ := w.occupancy.OccupantAt(4, 4); id != "mover" {
		t.Fatalf("origin occupant = %q, want mover", id)
	}
}

func TestMoveCooldown(t *testing.T) {
	w := newTestWorld(t)
	replaceTilemap(w, openTilemap(16, 16))
	p := placePlayer(t, w, "walker", 4, 4)

	if events := w.attemptMove(&p.actorState, 5, 4, 10); len(events) != 1 || events[0].Type != EventPositionChanged {
		t.Fatalf("first move should land, got %+v", events)
	}
	if events := w.attemptMove(&p.actorState, 6, 4, 12); len(events) != 0 {
		t.Fatalf("move inside cooldown should be dropped, got %+v", events)
	}
	if events := w.attemptMove(&p.actorState, 6, 4, 15); len(events) != 1 || events[0].Type != EventPositionChanged {
		t.Fatalf("move after cooldown should land, got %+v", events)
	}
}

func TestMoveRejectsNonAdjacentTargets(t *testing.T) {
	w := newTestWorld(t)
	replaceTilemap(w, openTilemap(16, 16))
	p := placePlayer(t, w, "walker", 4, 4)

	if events := w.attemptMove(&p.actorState, 7, 4, 1); len(events) != 0 {
		t.Fatalf("teleport attempt should be dropped silently, got %+v", events)
	}
	if p.X != 4 || p.Y != 4 {
		t.Fatalf("position changed on dropped intent")
	}
}

func TestDiagonalMoveSetsDiagonalFacing(t *testing.T) {
	w := newTestWorld(t)
	replaceTilemap(w, openTilemap(16, 16))
	p := placePlayer(t, w, "walker", 4, 4)

	events := w.attemptMove(&p.actorState, 5, 3, 1)
	if len(events) != 1 || events[0].Type != EventPositionChanged {
		t.Fatalf("diagonal move should land, got %+v", events)
	}
	if p.Facing != FacingNorthEast {
		t.Fatalf("facing = %q, want %q", p.Facing, FacingNorthEast)
	}
}

func TestMoveThroughStepUpdatesOccupancy(t *testing.T) {
	w := newTestWorld(t)
	replaceTilemap(w, openTilemap(16, 16))
	p := placePlayer(t, w, "walker", 4, 4)

	w.attemptMove(&p.actorState, 5, 4, 1)

	if !w.occupancy.IsFree(4, 4) {
		t.Fatalf("origin tile should be released after a move")
	}
	if id, _ := w.occupancy.OccupantAt(5, 4); id != "walker" {
		t.Fatalf("destination occupant = %q, want walker", id)
	}
}
