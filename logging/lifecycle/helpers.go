package lifecycle

import (
	"context"

	"tower-wars/server/logging"
)

const (
	// EventPlayerJoined is emitted when a connection joins a team.
	EventPlayerJoined logging.EventType = "lifecycle.player_joined"
	// EventPlayerDisconnected is emitted when a joined player leaves.
	EventPlayerDisconnected logging.EventType = "lifecycle.player_disconnected"
	// EventTeamFull is emitted when a join is refused because the roster is full.
	EventTeamFull logging.EventType = "lifecycle.team_full"
)

// PlayerJoinedPayload captures spawn metadata for a new player.
type PlayerJoinedPayload struct {
	Team   string  `json:"team"`
	Name   string  `json:"name"`
	SpawnX float64 `json:"spawnX"`
	SpawnY float64 `json:"spawnY"`
}

// PlayerDisconnectedPayload captures the roster left behind.
type PlayerDisconnectedPayload struct {
	Team          string `json:"team"`
	RemainingTeam int    `json:"remainingTeam"`
}

// TeamFullPayload describes a refused join.
type TeamFullPayload struct {
	Team  string `json:"team"`
	Count int    `json:"count"`
	Limit int    `json:"limit"`
}

// PlayerJoined publishes a player join event.
func PlayerJoined(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PlayerJoinedPayload, extra map[string]any) {
	publish(ctx, pub, EventPlayerJoined, logging.SeverityInfo, tick, actor, payload, extra)
}

// PlayerDisconnected publishes a player disconnect event.
func PlayerDisconnected(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PlayerDisconnectedPayload, extra map[string]any) {
	publish(ctx, pub, EventPlayerDisconnected, logging.SeverityInfo, tick, actor, payload, extra)
}

// TeamFull publishes a refused join.
func TeamFull(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload TeamFullPayload, extra map[string]any) {
	publish(ctx, pub, EventTeamFull, logging.SeverityDebug, tick, actor, payload, extra)
}

func publish(ctx context.Context, pub logging.Publisher, eventType logging.EventType, severity logging.Severity, tick uint64, actor logging.EntityRef, payload any, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Tick:     tick,
		Actor:    actor,
		Severity: severity,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
		Extra:    extra,
	})
}
