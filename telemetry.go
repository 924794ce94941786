package server

import "sync/atomic"

// Telemetry keeps cheap atomic counters the diagnostics endpoint reports.
// Counters are written from the simulation goroutine and read from HTTP
// handlers.
type Telemetry struct {
	ticksTotal    atomic.Uint64
	commandsTotal atomic.Uint64
	eventsTotal   atomic.Uint64
	playersJoined atomic.Uint64
	playersLeft   atomic.Uint64
	framesSent    atomic.Uint64
	frameBytes    atomic.Uint64
}

func NewTelemetry() *Telemetry {
	return &Telemetry{}
}

func (t *Telemetry) RecordTick(commands, events int) {
	t.ticksTotal.Add(1)
	t.commandsTotal.Add(uint64(commands))
	t.eventsTotal.Add(uint64(events))
}

func (t *Telemetry) RecordPlayerJoin() { t.playersJoined.Add(1) }
func (t *Telemetry) RecordPlayerLeave() { t.playersLeft.Add(1) }

func (t *Telemetry) RecordFrame(bytes int) {
	t.framesSent.Add(1)
	t.frameBytes.Add(uint64(bytes))
}

// TelemetrySnapshot is the JSON shape served by the diagnostics endpoint.
type TelemetrySnapshot struct {
	TicksTotal    uint64 `json:"ticksTotal"`
	CommandsTotal uint64 `json:"commandsTotal"`
	EventsTotal   uint64 `json:"eventsTotal"`
	PlayersJoined uint64 `json:"playersJoined"`
	PlayersLeft   uint64 `json:"playersLeft"`
	FramesSent    uint64 `json:"framesSent"`
	FrameBytes    uint64 `json:"frameBytes"`
}

func (t *Telemetry) Snapshot() TelemetrySnapshot {
	return TelemetrySnapshot{
		TicksTotal:    t.ticksTotal.Load(),
		CommandsTotal: t.commandsTotal.Load(),
		EventsTotal:   t.eventsTotal.Load(),
		PlayersJoined: t.playersJoined.Load(),
		PlayersLeft:   t.playersLeft.Load(),
		FramesSent:    t.framesSent.Load(),
		FrameBytes:    t.frameBytes.Load(),
	}
}
