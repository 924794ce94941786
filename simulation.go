package server

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"duskhall/server/logging"
)

type CommandType string

const (
	CommandMove      CommandType = "move"
	CommandFace      CommandType = "face"
	CommandAttack    CommandType = "attack"
	CommandHeartbeat CommandType = "heartbeat"
)

// Command is one buffered intent. Network goroutines enqueue commands as
// messages arrive; the simulation drains the whole queue at the start of the
// next tick and applies them in Seq order, so arrival order decides ties.
type Command struct {
	Seq     uint64
	ActorID string
	Type    CommandType

	Move      *MoveCommand
	Face      *FaceCommand
	Heartbeat *HeartbeatCommand
}

type MoveCommand struct {
	ToX int
	ToY int
}

type FaceCommand struct {
	Facing FacingDirection
}

type HeartbeatCommand struct {
	SentAt time.Time
}

// World owns all authoritative simulation state. Everything except
// EnqueueCommand and Snapshot must run on the single simulation goroutine.
type World struct {
	cfg       WorldConfig
	tilemap   *Tilemap
	occupancy *OccupancyMap

	players map[string]*playerState
	npcs    map[string]*npcState

	combatRNG *rand.Rand
	aiRNG     *rand.Rand

	publisher logging.Publisher
	telemetry *Telemetry

	currentTick uint64

	mu      sync.Mutex
	pending []Command
	nextSeq uint64

	snapMu   sync.RWMutex
	lastSnap WorldSnapshot
}

// WorldSnapshot is the broadcast view of one completed tick.
type WorldSnapshot struct {
	Tick   uint64  `json:"t" msgpack:"t"`
	Actors []Actor `json:"actors" msgpack:"actors"`
}

func NewWorld(cfg WorldConfig, publisher logging.Publisher, telemetry *Telemetry) *World {
	if publisher == nil {
		publisher = logging.NopPublisher{}
	}
	if telemetry == nil {
		telemetry = NewTelemetry()
	}
	tilemap := NewTestTilemap(cfg.Width, cfg.Height)
	w := &World{
		cfg:       cfg,
		tilemap:   tilemap,
		occupancy: NewOccupancyMap(tilemap),
		players:   make(map[string]*playerState),
		npcs:      make(map[string]*npcState),
		combatRNG: newDeterministicRNG(cfg.Seed, "combat"),
		aiRNG:     newDeterministicRNG(cfg.Seed, "ai"),
		publisher: publisher,
		telemetry: telemetry,
	}
	w.spawnInitialNPCs()
	return w
}

// EnqueueCommand buffers an intent for the next tick. Safe for concurrent use.
func (w *World) EnqueueCommand(cmd Command) {
	w.mu.Lock()
	w.nextSeq++
	cmd.Seq = w.nextSeq
	w.pending = append(w.pending, cmd)
	w.mu.Unlock()
}

func (w *World) drainCommands() []Command {
	w.mu.Lock()
	cmds := w.pending
	w.pending = nil
	w.mu.Unlock()
	return cmds
}

// Step advances the simulation by one tick: run NPC decisions, prepend their
// intents to the drained player intents, then apply movement, then combat,
// then respawns and heartbeat eviction. Movement for the whole tick, NPC
// steps included, settles before any attack resolves, so attacks always
// target post-movement positions. Returns the tick's event batch and the IDs
// of players evicted for missed heartbeats.
func (w *World) Step(now time.Time) ([]Event, []string) {
	w.currentTick++
	tick := w.currentTick
	cmds := w.drainCommands()
	if ai := w.npcCommands(tick); len(ai) > 0 {
		cmds = append(ai, cmds...)
	}

	var events []Event

	// Movement phase.
	for _, cmd := range cmds {
		actor, ok := w.actorByID(cmd.ActorID)
		if !ok || !actor.Alive {
			continue
		}
		switch cmd.Type {
		case CommandMove:
			if cmd.Move != nil {
				events = append(events, w.attemptMove(actor, cmd.Move.ToX, cmd.Move.ToY, tick)...)
			}
		case CommandFace:
			if cmd.Face != nil {
				actor.Facing = cmd.Face.Facing
			}
		case CommandHeartbeat:
			if p, ok := w.players[cmd.ActorID]; ok && cmd.Heartbeat != nil {
				p.lastHeartbeat = now
				p.lastRTT = now.Sub(cmd.Heartbeat.SentAt)
			}
		}
	}

	// Combat phase. Aliveness is re-checked per command: an attacker killed
	// by an earlier command this tick attacks nothing.
	for _, cmd := range cmds {
		if cmd.Type != CommandAttack {
			continue
		}
		actor, ok := w.actorByID(cmd.ActorID)
		if !ok || !actor.Alive {
			continue
		}
		events = append(events, w.attemptAttack(actor, tick)...)
	}

	events = append(events, w.stepRespawns(tick)...)
	removed := w.evictStalePlayers(now, tick)

	w.telemetry.RecordTick(len(cmds), len(events))
	w.publishSnapshot(tick)
	return events, removed
}

func (w *World) stepRespawns(tick uint64) []Event {
	var events []Event
	for _, id := range w.sortedPlayerIDs() {
		p := w.players[id]
		if !p.Alive && tick >= p.diedAtTick+w.cfg.RespawnDelayTicks {
			events = append(events, w.respawn(&p.actorState, tick)...)
		}
	}
	for _, id := range w.sortedNPCIDs() {
		n := w.npcs[id]
		if !n.Alive && tick >= n.diedAtTick+n.respawnDelayTicks {
			events = append(events, w.respawn(&n.actorState, tick)...)
		}
	}
	return events
}

func (w *World) evictStalePlayers(now time.Time, tick uint64) []string {
	if w.cfg.HeartbeatTimeout <= 0 {
		return nil
	}
	var removed []string
	for _, id := range w.sortedPlayerIDs() {
		p := w.players[id]
		if now.Sub(p.lastHeartbeat) > w.cfg.HeartbeatTimeout {
			w.removePlayerLocked(p, tick, "heartbeat timeout")
			removed = append(removed, id)
		}
	}
	return removed
}

// sortedPlayerIDs and sortedNPCIDs fix iteration order so ticks replay
// identically for identical seeds and intent streams.
func (w *World) sortedPlayerIDs() []string {
	ids := make([]string, 0, len(w.players))
	for id := range w.players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (w *World) sortedNPCIDs() []string {
	ids := make([]string, 0, len(w.npcs))
	for id := range w.npcs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (w *World) actorByID(id string) (*actorState, bool) {
	if p, ok := w.players[id]; ok {
		return &p.actorState, true
	}
	if n, ok := w.npcs[id]; ok {
		return &n.actorState, true
	}
	return nil, false
}

// AddPlayer spawns a new player near the map center and claims its tile. The
// returned snapshot reflects the freshly spawned state.
func (w *World) AddPlayer(id, account string, now time.Time) (Actor, error) {
	if _, exists := w.players[id]; exists {
		return Actor{}, fmt.Errorf("player %s already attached", id)
	}
	x, y := w.findSpawnTile()
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
		Account:       account,
		lastInput:     now,
		lastHeartbeat: now,
	}
	p.syncDerived()
	p.HP = p.MaxHP
	if !w.occupancy.TryClaim(x, y, id) {
		return Actor{}, fmt.Errorf("spawn tile (%d,%d) unavailable", x, y)
	}
	w.players[id] = p
	w.telemetry.RecordPlayerJoin()
	w.logPlayerAttached(w.currentTick, p)
	return p.snapshot(), nil
}

// RestorePlayer attaches a returning player with persisted skills and, when
// its last position is free, at its persisted position.
func (w *World) RestorePlayer(id, account string, record PlayerRecord, now time.Time) (Actor, error) {
	if _, err := w.AddPlayer(id, account, now); err != nil {
		return Actor{}, err
	}
	p := w.players[id]
	p.Skills = record.Skills
	p.syncDerived()
	p.HP = p.MaxHP
	if w.occupancy.IsFree(record.X, record.Y) {
		w.occupancy.Release(p.X, p.Y, id)
		if w.occupancy.TryClaim(record.X, record.Y, id) {
			p.X, p.Y = record.X, record.Y
		} else {
			w.occupancy.TryClaim(p.X, p.Y, id)
		}
	}
	return p.snapshot(), nil
}

// RemovePlayer detaches a player, releasing its tile.
func (w *World) RemovePlayer(id, reason string) (PlayerRecord, bool) {
	p, ok := w.players[id]
	if !ok {
		return PlayerRecord{}, false
	}
	record := w.recordFor(p)
	w.removePlayerLocked(p, w.currentTick, reason)
	return record, true
}

func (w *World) removePlayerLocked(p *playerState, tick uint64, reason string) {
	if p.Alive {
		w.occupancy.Release(p.X, p.Y, p.ID)
	}
	delete(w.players, p.ID)
	w.telemetry.RecordPlayerLeave()
	w.logPlayerDetached(tick, p, reason)
}

func (w *World) recordFor(p *playerState) PlayerRecord {
	return PlayerRecord{
		ID:      p.ID,
		Account: p.Account,
		X:       p.X,
		Y:       p.Y,
		Skills:  p.Skills,
	}
}

// PlayerRecordFor returns the persistable record for an attached player.
func (w *World) PlayerRecordFor(id string) (PlayerRecord, bool) {
	p, ok := w.players[id]
	if !ok {
		return PlayerRecord{}, false
	}
	return w.recordFor(p), true
}

// findSpawnTile walks outward from the map's safe spawn until it finds a free
// tile, so two players joining the same tick never share a square.
func (w *World) findSpawnTile() (int, int) {
	x, y := w.tilemap.SafeSpawn()
	if w.occupancy.IsFree(x, y) {
		return x, y
	}
	for radius := 1; radius < w.cfg.Width; radius++ {
		for dx := -radius; dx <= radius; dx++ {
			for dy := -radius; dy <= radius; dy++ {
				if abs(dx) != radius && abs(dy) != radius {
					continue
				}
				if w.occupancy.IsFree(x+dx, y+dy) {
					return x + dx, y + dy
				}
			}
		}
	}
	return x, y
}

func (w *World) publishSnapshot(tick uint64) {
	actors := make([]Actor, 0, len(w.players)+len(w.npcs))
	for _, id := range w.sortedPlayerIDs() {
		actors = append(actors, w.players[id].snapshot())
	}
	for _, id := range w.sortedNPCIDs() {
		actors = append(actors, w.npcs[id].snapshot())
	}
	w.snapMu.Lock()
	w.lastSnap = WorldSnapshot{Tick: tick, Actors: actors}
	w.snapMu.Unlock()
}

// Snapshot returns the broadcast view of the most recently completed tick.
// Safe for concurrent use.
func (w *World) Snapshot() WorldSnapshot {
	w.snapMu.RLock()
	defer w.snapMu.RUnlock()
	return w.lastSnap
}

// Tilemap exposes the static collision grid for read-only use.
func (w *World) Tilemap() *Tilemap {
	return w.tilemap
}
