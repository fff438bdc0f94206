package hub

import (
	"time"

	"tower-wars/server/internal/game"
	"tower-wars/server/internal/sim"
)

// Diagnostics is a point-in-time view of the simulation, refreshed after
// every tick and safe to read from any goroutine.
type Diagnostics struct {
	Tick        uint64              `json:"tick"`
	ServerTime  int64               `json:"serverTime"`
	Started     bool                `json:"started"`
	Phase       game.Phase          `json:"phase"`
	Round       int                 `json:"round"`
	Timer       int                 `json:"timer"`
	TeamScores  game.TeamTally      `json:"teamScores"`
	TeamCounts  game.TeamTally      `json:"teamCounts"`
	Players     []DiagnosticsPlayer `json:"players"`
	Subscribers int                 `json:"subscribers"`
	Pending     int                 `json:"pendingCommands"`
	Faults      uint64              `json:"faults"`
	LastTick    DiagnosticsTick     `json:"lastTick"`
}

// DiagnosticsPlayer summarizes one joined player.
type DiagnosticsPlayer struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Team   game.Team `json:"team"`
	Health float64   `json:"health"`
	Score  int       `json:"score"`
}

// DiagnosticsTick describes the most recent tick.
type DiagnosticsTick struct {
	Commands   int   `json:"commands"`
	Timers     int   `json:"timers"`
	Faults     int   `json:"faults"`
	DurationUs int64 `json:"durationUs"`
}

// Diagnostics returns the latest snapshot.
func (h *Hub) Diagnostics() Diagnostics {
	if snapshot := h.diagnostics.Load(); snapshot != nil {
		return *snapshot
	}
	return Diagnostics{}
}

// recordDiagnostics runs on the loop goroutine.
func (h *Hub) recordDiagnostics(result sim.LoopStepResult) {
	state := h.game.State()
	players := make([]DiagnosticsPlayer, 0, len(state.Players))
	for _, p := range state.OrderedPlayers() {
		players = append(players, DiagnosticsPlayer{
			ID:     p.ID,
			Name:   p.Name,
			Team:   p.Team,
			Health: p.Health,
			Score:  p.Score,
		})
	}
	now := result.Now
	if now.IsZero() {
		now = time.Now()
	}
	h.diagnostics.Store(&Diagnostics{
		Tick:        h.game.Tick(),
		ServerTime:  now.UnixMilli(),
		Started:     state.Started,
		Phase:       state.Phase,
		Round:       state.Round,
		Timer:       state.Timer,
		TeamScores:  state.TeamScores.Clone(),
		TeamCounts:  state.TeamCounts.Clone(),
		Players:     players,
		Subscribers: h.SubscriberCount(),
		Pending:     h.loop.Pending(),
		Faults:      h.loop.Faults(),
		LastTick: DiagnosticsTick{
			Commands:   result.Commands,
			Timers:     result.Timers,
			Faults:     result.Faults,
			DurationUs: result.Duration.Microseconds(),
		},
	})
}
