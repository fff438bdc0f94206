package logging

import (
	"context"
	"time"
)

// EventType names a structured event, namespaced by category
// ("rounds.round_ended").
type EventType string

type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

const (
	CategoryLifecycle  = "lifecycle"
	CategoryCombat     = "combat"
	CategoryCapture    = "capture"
	CategoryRounds     = "rounds"
	CategorySimulation = "simulation"
	CategoryNetwork    = "network"
)

// Event is one structured gameplay record. Time is stamped by the router when
// left zero.
type Event struct {
	Type     EventType      `json:"type"`
	Tick     uint64         `json:"tick"`
	Time     time.Time      `json:"time"`
	Actor    EntityRef      `json:"actor"`
	Targets  []EntityRef    `json:"targets,omitempty"`
	Severity Severity       `json:"severity"`
	Category string         `json:"category,omitempty"`
	Payload  any            `json:"payload,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

type EntityKind string

const (
	EntityKindPlayer EntityKind = "player"
	EntityKindTower  EntityKind = "tower"
	EntityKindWorld  EntityKind = "world"
)

type EntityRef struct {
	ID   string     `json:"id"`
	Kind EntityKind `json:"kind"`
}

func PlayerRef(id string) EntityRef { return EntityRef{ID: id, Kind: EntityKindPlayer} }

func TowerRef(id string) EntityRef { return EntityRef{ID: id, Kind: EntityKindTower} }

// WorldRef is the actor of events no single entity caused, such as round
// transitions.
func WorldRef() EntityRef { return EntityRef{Kind: EntityKindWorld} }

// Publisher accepts events. Implementations must not block the caller.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type PublisherFunc func(ctx context.Context, event Event)

func (f PublisherFunc) Publish(ctx context.Context, event Event) {
	if f == nil {
		return
	}
	f(ctx, event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}

func NopPublisher() Publisher {
	return nopPublisher{}
}
