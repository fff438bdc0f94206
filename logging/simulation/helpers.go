package simulation

import (
	"context"

	"tower-wars/server/logging"
)

const (
	// EventTickBudgetOverrun is emitted when a tick takes longer than its slot.
	EventTickBudgetOverrun logging.EventType = "simulation.tick_budget_overrun"
	// EventFaultRecovered is emitted when a panic inside a command, timer or
	// tick was contained by the loop.
	EventFaultRecovered logging.EventType = "simulation.fault_recovered"
)

// TickBudgetOverrunPayload captures timing details for a tick budget breach.
type TickBudgetOverrunPayload struct {
	DurationMillis int64   `json:"durationMillis"`
	BudgetMillis   int64   `json:"budgetMillis"`
	Ratio          float64 `json:"ratio"`
	Streak         uint64  `json:"streak"`
}

// FaultRecoveredPayload describes the contained failure.
type FaultRecoveredPayload struct {
	Stage   string `json:"stage"`
	Command string `json:"command,omitempty"`
	Panic   string `json:"panic"`
}

// TickBudgetOverrun publishes a warning when the simulation exceeds the configured tick budget.
func TickBudgetOverrun(ctx context.Context, pub logging.Publisher, tick uint64, payload TickBudgetOverrunPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventTickBudgetOverrun,
		Tick:     tick,
		Actor:    logging.WorldRef(),
		Severity: logging.SeverityWarn,
		Category: logging.CategorySimulation,
		Payload:  payload,
		Extra:    extra,
	})
}

// FaultRecovered publishes an error event for a contained panic.
func FaultRecovered(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload FaultRecoveredPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventFaultRecovered,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityError,
		Category: logging.CategorySimulation,
		Payload:  payload,
		Extra:    extra,
	})
}
