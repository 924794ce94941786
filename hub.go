package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"duskhall/server/logging"
)

// autosaveEveryTicks spaces periodic persistence of attached players:
// every 10 seconds at the fixed cadence.
const autosaveEveryTicks = 200

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Hub owns the network edge: WebSocket subscribers, the tick loop driving the
// world, and persistence on detach. The world itself is only touched from the
// tick goroutine; joins and leaves are funneled through channels so handler
// goroutines never mutate simulation state directly.
type Hub struct {
	world     *World
	store     *Store
	publisher logging.Publisher
	telemetry *Telemetry
	cfg       WorldConfig

	nextID atomic.Uint64

	joins  chan joinRequest
	leaves chan leaveRequest

	mu          sync.Mutex
	subscribers map[string]*subscriber
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) writeBinary(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return s.conn.WriteMessage(websocket.BinaryMessage, payload)
}

func (s *subscriber) writeJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return s.conn.WriteJSON(v)
}

type joinResult struct {
	actor  Actor
	skills Skills
	err    error
}

type joinRequest struct {
	id      string
	account string
	record  *PlayerRecord
	reply   chan joinResult
}

type leaveRequest struct {
	id     string
	reason string
}

func NewHub(world *World, store *Store, publisher logging.Publisher, telemetry *Telemetry, cfg WorldConfig) *Hub {
	if publisher == nil {
		publisher = logging.NopPublisher{}
	}
	return &Hub{
		world:       world,
		store:       store,
		publisher:   publisher,
		telemetry:   telemetry,
		cfg:         cfg,
		joins:       make(chan joinRequest, 32),
		leaves:      make(chan leaveRequest, 32),
		subscribers: make(map[string]*subscriber),
	}
}

// Run drives the fixed-cadence tick loop until ctx is canceled. Each tick:
// apply pending joins and leaves, step the world, broadcast the state frame,
// persist and disconnect anyone the world evicted.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.cfg.TickInterval)
	defer ticker.Stop()

	var tickCount uint64
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case now := <-ticker.C:
			h.drainMembership(now)
			events, removed := h.world.Step(now)
			h.broadcast(h.world.Snapshot(), events)
			for _, id := range removed {
				h.dropSubscriber(id)
			}
			tickCount++
			if tickCount%autosaveEveryTicks == 0 {
				h.persistAll(ctx)
			}
		}
	}
}

func (h *Hub) drainMembership(now time.Time) {
	for {
		select {
		case req := <-h.joins:
			var actor Actor
			var err error
			if req.record != nil {
				actor, err = h.world.RestorePlayer(req.id, req.account, *req.record, now)
			} else {
				actor, err = h.world.AddPlayer(req.id, req.account, now)
			}
			var skills Skills
			if record, ok := h.world.PlayerRecordFor(req.id); ok {
				skills = record.Skills
			}
			req.reply <- joinResult{actor: actor, skills: skills, err: err}
		case req := <-h.leaves:
			if record, ok := h.world.RemovePlayer(req.id, req.reason); ok {
				h.persistRecord(record)
			}
		default:
			return
		}
	}
}

func (h *Hub) persistAll(ctx context.Context) {
	for _, id := range h.world.sortedPlayerIDs() {
		if record, ok := h.world.PlayerRecordFor(id); ok {
			if err := h.store.SavePlayer(ctx, record); err != nil {
				log.Printf("autosave %s: %v", id, err)
			}
		}
	}
}

func (h *Hub) persistRecord(record PlayerRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.store.SavePlayer(ctx, record); err != nil {
		log.Printf("persist %s on detach: %v", record.ID, err)
	}
}

func (h *Hub) broadcast(snap WorldSnapshot, events []Event) {
	frame := stateFrame{
		Type:   "state",
		Tick:   snap.Tick,
		Actors: snap.Actors,
		Events: events,
	}
	payload, err := msgpack.Marshal(frame)
	if err != nil {
		log.Printf("encode state frame: %v", err)
		return
	}

	h.mu.Lock()
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		if err := sub.writeBinary(payload); err != nil {
			log.Printf("broadcast to %s: %v", id, err)
			h.dropSubscriber(id)
			select {
			case h.leaves <- leaveRequest{id: id, reason: "write failure"}:
			default:
			}
			continue
		}
		if h.telemetry != nil {
			h.telemetry.RecordFrame(len(payload))
		}
	}
}

func (h *Hub) dropSubscriber(id string) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
	}
	h.mu.Unlock()
	if ok {
		sub.conn.Close()
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	subs := h.subscribers
	h.subscribers = make(map[string]*subscriber)
	h.mu.Unlock()
	for _, sub := range subs {
		sub.conn.Close()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	h.persistAll(ctx)
}

// HandleWS upgrades the connection, attaches a player (restoring persisted
// skills for a known account), sends the join response, and pumps client
// messages into the command queue until the socket closes.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade: %v", err)
		return
	}

	account := r.URL.Query().Get("account")
	if account == "" {
		account = fmt.Sprintf("guest-%d", h.nextID.Add(1))
	}
	playerID := "player-" + account

	var record *PlayerRecord
	if rec, ok, err := h.store.LoadPlayer(r.Context(), playerID); err != nil {
		log.Printf("load %s: %v", playerID, err)
	} else if ok {
		record = &rec
	}

	reply := make(chan joinResult, 1)
	h.joins <- joinRequest{id: playerID, account: account, record: record, reply: reply}
	result := <-reply
	if result.err != nil {
		log.Printf("join %s: %v", playerID, result.err)
		conn.Close()
		return
	}

	sub := &subscriber{conn: conn}
	h.mu.Lock()
	if existing, ok := h.subscribers[playerID]; ok {
		existing.conn.Close()
	}
	h.subscribers[playerID] = sub
	h.mu.Unlock()

	if err := sub.writeJSON(joinResponse{
		Type:         "joined",
		ID:           playerID,
		MapWidth:     h.cfg.Width,
		MapHeight:    h.cfg.Height,
		TickInterval: h.cfg.TickInterval.Milliseconds(),
		You:          result.actor,
		Skills:       result.skills,
	}); err != nil {
		log.Printf("join response to %s: %v", playerID, err)
		h.dropSubscriber(playerID)
		h.leaves <- leaveRequest{id: playerID, reason: "join write failure"}
		return
	}

	go h.readPump(playerID, conn)
}

func (h *Hub) readPump(playerID string, conn *websocket.Conn) {
	defer func() {
		h.dropSubscriber(playerID)
		h.leaves <- leaveRequest{id: playerID, reason: "disconnect"}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("malformed message from %s: %v", playerID, err)
			continue
		}
		if cmd, ok := commandFromMessage(playerID, msg); ok {
			h.world.EnqueueCommand(cmd)
		}
	}
}

// commandFromMessage validates one client message and converts it into a
// buffered intent. Invalid messages produce no command.
func commandFromMessage(playerID string, msg clientMessage) (Command, bool) {
	switch msg.Type {
	case msgMove:
		return Command{
			ActorID: playerID,
			Type:    CommandMove,
			Move:    &MoveCommand{ToX: msg.ToX, ToY: msg.ToY},
		}, true
	case msgFace:
		facing, ok := parseFacing(msg.Facing)
		if !ok {
			return Command{}, false
		}
		return Command{
			ActorID: playerID,
			Type:    CommandFace,
			Face:    &FaceCommand{Facing: facing},
		}, true
	case msgAttack:
		return Command{ActorID: playerID, Type: CommandAttack}, true
	case msgHeartbeat:
		return Command{
			ActorID:   playerID,
			Type:      CommandHeartbeat,
			Heartbeat: &HeartbeatCommand{SentAt: time.UnixMilli(msg.SentAt)},
		}, true
	default:
		return Command{}, false
	}
}
