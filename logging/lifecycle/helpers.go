package lifecycle

import (
	"context"

	"duskhall/server/logging"
)

const (
	PlayerAttachedEventType logging.EventType = "lifecycle.player_attached"
	PlayerDetachedEventType logging.EventType = "lifecycle.player_detached"
	ActorRespawnedEventType logging.EventType = "lifecycle.actor_respawned"
)

type PlayerAttachedPayload struct {
	Account string `json:"account"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}

func PlayerAttached(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PlayerAttachedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     PlayerAttachedEventType,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}

type PlayerDetachedPayload struct {
	Reason string `json:"reason"`
}

func PlayerDetached(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PlayerDetachedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     PlayerDetachedEventType,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}

type ActorRespawnedPayload struct {
	X  int `json:"x"`
	Y  int `json:"y"`
	HP int `json:"hp"`
}

func ActorRespawned(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ActorRespawnedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     ActorRespawnedEventType,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}
