package sim

import (
	"tower-wars/server/internal/telemetry"
	"tower-wars/server/logging"
)

// Deps carries shared infrastructure dependencies required by the loop.
type Deps struct {
	Logger    telemetry.Logger
	Metrics   telemetry.Metrics
	Publisher logging.Publisher
	Clock     logging.Clock
}

func (d Deps) normalized() Deps {
	if d.Clock == nil {
		d.Clock = logging.SystemClock{}
	}
	if d.Publisher == nil {
		d.Publisher = logging.NopPublisher()
	}
	return d
}
