package network

import (
	"context"

	"tower-wars/server/logging"
)

const (
	// EventRateLimited is emitted when an inbound frame exceeds the session limiter.
	EventRateLimited logging.EventType = "network.message_rate_limited"
	// EventOutboundDropped is emitted when a subscriber's send queue is full.
	EventOutboundDropped logging.EventType = "network.outbound_dropped"
)

// RateLimitedPayload identifies the throttled message.
type RateLimitedPayload struct {
	MessageType string `json:"messageType"`
	Dropped     uint64 `json:"dropped"`
}

// OutboundDroppedPayload identifies the frame that could not be queued.
type OutboundDroppedPayload struct {
	MessageType string `json:"messageType"`
	QueueLength int    `json:"queueLength"`
}

// RateLimited publishes a debug event for a throttled inbound frame.
func RateLimited(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload RateLimitedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventRateLimited,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryNetwork,
		Payload:  payload,
		Extra:    extra,
	})
}

// OutboundDropped publishes a warning when fan-out skipped a subscriber.
func OutboundDropped(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload OutboundDroppedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventOutboundDropped,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: logging.CategoryNetwork,
		Payload:  payload,
		Extra:    extra,
	})
}
