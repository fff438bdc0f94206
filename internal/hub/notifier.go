package hub

import (
	"context"

	"tower-wars/server/internal/game"
	"tower-wars/server/internal/net/proto"
	"tower-wars/server/logging"
	loggingnetwork "tower-wars/server/logging/network"
)

// Broadcast delivers event to every subscriber.
func (h *Hub) Broadcast(event game.Event) {
	h.deliver(event, func(string) bool { return true })
}

// SendTo delivers event to a single subscriber. Unknown ids are ignored.
func (h *Hub) SendTo(playerID string, event game.Event) {
	h.deliver(event, func(id string) bool { return id == playerID })
}

// BroadcastExcept delivers event to everyone but playerID.
func (h *Hub) BroadcastExcept(playerID string, event game.Event) {
	h.deliver(event, func(id string) bool { return id != playerID })
}

func (h *Hub) deliver(event game.Event, include func(id string) bool) {
	h.mu.RLock()
	targets := make([]*Subscriber, 0, len(h.subscribers))
	for id, sub := range h.subscribers {
		if include(id) {
			targets = append(targets, sub)
		}
	}
	h.mu.RUnlock()
	if len(targets) == 0 {
		return
	}

	envelope := proto.NewEnvelope(event)
	frames := make(map[string][]byte, 2)
	for _, sub := range targets {
		codec := sub.Codec()
		frame, ok := frames[codec.Name()]
		if !ok {
			encoded, err := codec.Encode(envelope)
			if err != nil {
				h.metrics.Add(metricEncodeFailures, 1)
				h.logger.Printf("failed to encode %s as %s: %v", envelope.Type, codec.Name(), err)
				continue
			}
			frames[codec.Name()] = encoded
			frame = encoded
		}
		if sub.enqueue(frame) {
			h.metrics.Add(metricFramesSent, 1)
			continue
		}
		h.metrics.Add(metricFramesDropped, 1)
		if dropped := sub.Dropped(); dropped > 0 && dropped&(dropped-1) == 0 {
			loggingnetwork.OutboundDropped(context.Background(), h.publisher, h.game.Tick(), logging.PlayerRef(sub.ID()), loggingnetwork.OutboundDroppedPayload{
				MessageType: envelope.Type,
				QueueLength: len(sub.send),
			}, nil)
		}
	}
}

var _ game.Notifier = (*Hub)(nil)
