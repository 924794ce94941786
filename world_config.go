package server

import "time"

const (
	defaultWorldWidth  = 64
	defaultWorldHeight = 64

	// tickInterval is the fixed simulation cadence: 20 ticks per second.
	tickInterval = 50 * time.Millisecond

	// respawnDelayTicks is 5 seconds at the fixed cadence.
	respawnDelayTicks = 100

	defaultHeartbeatTimeout = 15 * time.Second
)

// WorldConfig carries the tunable parameters for one world instance. The
// zero value is not usable; call Normalized to fill defaults.
type WorldConfig struct {
	Width  int
	Height int

	// Seed drives every random subsystem. Identical seeds replay
	// identically given identical intent streams.
	Seed string

	TickInterval      time.Duration
	RespawnDelayTicks uint64
	HeartbeatTimeout  time.Duration

	// GoblinCount is how many wandering goblins spawn at world start.
	GoblinCount int
}

func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Width:             defaultWorldWidth,
		Height:            defaultWorldHeight,
		Seed:              "duskhall-dev",
		TickInterval:      tickInterval,
		RespawnDelayTicks: respawnDelayTicks,
		HeartbeatTimeout:  defaultHeartbeatTimeout,
		GoblinCount:       6,
	}
}

// Normalized returns a copy with zero fields replaced by defaults.
func (c WorldConfig) Normalized() WorldConfig {
	d := DefaultWorldConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.Seed == "" {
		c.Seed = d.Seed
	}
	if c.TickInterval <= 0 {
		c.TickInterval = d.TickInterval
	}
	if c.RespawnDelayTicks == 0 {
		c.RespawnDelayTicks = d.RespawnDelayTicks
	}
	if c.HeartbeatTimeout == 0 {
		c.HeartbeatTimeout = d.HeartbeatTimeout
	}
	if c.GoblinCount < 0 {
		c.GoblinCount = 0
	}
	return c
}
