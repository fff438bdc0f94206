package capture

import (
	"context"

	"tower-wars/server/logging"
)

// EventTowerCaptured is emitted when a tower changes owner.
const EventTowerCaptured logging.EventType = "capture.tower_captured"

// TowerCapturedPayload records the ownership change and who earned it.
type TowerCapturedPayload struct {
	PreviousOwner string   `json:"previousOwner"`
	NewOwner      string   `json:"newOwner"`
	Capturers     []string `json:"capturers"`
}

// TowerCaptured publishes an ownership change.
func TowerCaptured(ctx context.Context, pub logging.Publisher, tick uint64, tower logging.EntityRef, payload TowerCapturedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	targets := make([]logging.EntityRef, 0, len(payload.Capturers))
	for _, id := range payload.Capturers {
		targets = append(targets, logging.PlayerRef(id))
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventTowerCaptured,
		Tick:     tick,
		Actor:    tower,
		Targets:  targets,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCapture,
		Payload:  payload,
		Extra:    extra,
	})
}
