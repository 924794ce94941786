package server

// Client messages arrive as JSON text frames; state frames leave as msgpack
// binary frames. The envelope Type selects which optional fields apply.

type clientMessageType string

const (
	msgMove      clientMessageType = "move"
	msgFace      clientMessageType = "face"
	msgAttack    clientMessageType = "attack"
	msgHeartbeat clientMessageType = "heartbeat"
)

type clientMessage struct {
	Type clientMessageType `json:"type"`

	// move
	ToX int `json:"toX"`
	ToY int `json:"toY"`

	// face
	Facing string `json:"facing"`

	// heartbeat, client wall-clock in unix milliseconds
	SentAt int64 `json:"sentAt"`
}

// joinResponse is the one JSON text frame sent right after the upgrade. The
// client regenerates the collision grid from the map dimensions, so only the
// dimensions travel.
type joinResponse struct {
	Type         string `json:"type"`
	ID           string `json:"id"`
	MapWidth     int    `json:"mapWidth"`
	MapHeight    int    `json:"mapHeight"`
	TickInterval int64  `json:"tickIntervalMs"`
	You          Actor  `json:"you"`
	Skills       Skills `json:"skills"`
}

// stateFrame is the per-tick binary broadcast: the full actor snapshot plus
// the events the tick produced.
type stateFrame struct {
	Type   string  `msgpack:"type"`
	Tick   uint64  `msgpack:"t"`
	Actors []Actor `msgpack:"actors"`
	Events []Event `msgpack:"events"`
}
