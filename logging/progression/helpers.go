package progression

import (
	"context"

	"duskhall/server/logging"
)

const (
	XpAwardedEventType logging.EventType = "progression.xp_awarded"
	LevelUpEventType   logging.EventType = "progression.level_up"
)

type XpAwardedPayload struct {
	Skill    string `json:"skill"`
	Amount   int64  `json:"amount"`
	NewTotal int64  `json:"newTotal"`
}

func XpAwarded(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload XpAwardedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     XpAwardedEventType,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryProgression,
		Payload:  payload,
	})
}

type LevelUpPayload struct {
	Skill    string `json:"skill"`
	NewLevel int    `json:"newLevel"`
}

func LevelUp(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload LevelUpPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     LevelUpEventType,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryProgression,
		Payload:  payload,
	})
}
