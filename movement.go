package server

// MoveRejectReason explains why a movement intent did not result in a
// position change.
type MoveRejectReason string

const (
	MoveRejectBlocked  MoveRejectReason = "blocked"
	MoveRejectOccupied MoveRejectReason = "occupied"
)

// moveCooldownTicks is the minimum tick gap between accepted moves for one
// actor. At 20 ticks per second this caps walking speed at 4 tiles/second.
const moveCooldownTicks = 5

// attemptMove validates one movement intent against terrain and occupancy and
// applies it. The actor turns toward the requested tile regardless of the
// outcome, so a rejected step against a wall still changes facing.
//
// The step is validated as release-then-claim in a single pass: because all
// intents for a tick drain on the simulation goroutine, a tile vacated by an
// earlier intent in the same tick is claimable by a later one.
func (w *World) attemptMove(actor *actorState, toX, toY int, tick uint64) []Event {
	dx := toX - actor.X
	dy := toY - actor.Y
	if dx == 0 && dy == 0 {
		return nil
	}
	if abs(dx) > 1 || abs(dy) > 1 {
		// Not an adjacent tile; drop silently rather than teleport.
		return nil
	}

	actor.Facing = facingFromDelta(dx, dy, actor.Facing)

	if tick < actor.lastMoveTick+moveCooldownTicks && actor.lastMoveTick != 0 {
		return nil
	}

	if !w.tilemap.IsTileWalkable(toX, toY) {
		return []Event{{
			Type: EventMoveRejected,
			Tick: tick,
			Payload: MoveRejectedPayload{
				ActorID: actor.ID,
				Reason:  MoveRejectBlocked,
			},
		}}
	}

	fromX, fromY := actor.X, actor.Y
	w.occupancy.Release(fromX, fromY, actor.ID)
	if !w.occupancy.TryClaim(toX, toY, actor.ID) {
		// Destination is held; reclaim the origin and report the collision.
		w.occupancy.TryClaim(fromX, fromY, actor.ID)
		return []Event{{
			Type: EventMoveRejected,
			Tick: tick,
			Payload: MoveRejectedPayload{
				ActorID: actor.ID,
				Reason:  MoveRejectOccupied,
			},
		}}
	}

	actor.X = toX
	actor.Y = toY
	actor.lastMoveTick = tick
	return []Event{{
		Type: EventPositionChanged,
		Tick: tick,
		Payload: PositionChangedPayload{
			ActorID: actor.ID,
			X:       toX,
			Y:       toY,
			Facing:  actor.Facing,
		},
	}}
}
