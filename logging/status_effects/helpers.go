package status_effects

import (
	"context"

	"tower-wars/server/logging"
)

const (
	EventApplied logging.EventType = "status_effects.applied"
	// EventExpired is emitted when the movement step sweeps lapsed effects
	// off a player.
	EventExpired logging.EventType = "status_effects.expired"

	category = "status_effects"
)

type AppliedPayload struct {
	StatusEffect string `json:"statusEffect"`
	DurationMs   int64  `json:"durationMs"`
	ExpiresAt    int64  `json:"expiresAt"`
	// Refreshed is set when a live effect of the same kind was restarted.
	Refreshed bool `json:"refreshed,omitempty"`
}

type ExpiredPayload struct {
	StatusEffects []string `json:"statusEffects"`
}

// Applied records source putting an effect on target. Self effects carry the
// same ref twice.
func Applied(ctx context.Context, pub logging.Publisher, tick uint64, source logging.EntityRef, target logging.EntityRef, payload AppliedPayload) {
	publish(ctx, pub, logging.Event{
		Type:    EventApplied,
		Tick:    tick,
		Actor:   source,
		Targets: []logging.EntityRef{target},
		Payload: payload,
	})
}

func Expired(ctx context.Context, pub logging.Publisher, tick uint64, player logging.EntityRef, payload ExpiredPayload) {
	publish(ctx, pub, logging.Event{
		Type:    EventExpired,
		Tick:    tick,
		Actor:   player,
		Payload: payload,
	})
}

func publish(ctx context.Context, pub logging.Publisher, event logging.Event) {
	if pub == nil {
		return
	}
	event.Severity = logging.SeverityDebug
	event.Category = category
	pub.Publish(ctx, event)
}
