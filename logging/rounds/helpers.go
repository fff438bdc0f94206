package rounds

import (
	"context"

	"tower-wars/server/logging"
)

const (
	EventGameStarted  logging.EventType = "rounds.game_started"
	EventRoundStarted logging.EventType = "rounds.round_started"
	EventRoundEnded   logging.EventType = "rounds.round_ended"
	EventGameEnded    logging.EventType = "rounds.game_ended"
	EventGameReset    logging.EventType = "rounds.game_reset"
)

// RoundPayload identifies a round and its countdown.
type RoundPayload struct {
	Round int `json:"round"`
	Timer int `json:"timer"`
}

// RoundEndedPayload carries per-round and cumulative team scores.
type RoundEndedPayload struct {
	Round       int            `json:"round"`
	RoundScores map[string]int `json:"roundScores"`
	TotalScores map[string]int `json:"totalScores"`
}

// GameEndedPayload carries the winner and final scores.
type GameEndedPayload struct {
	Winner      string         `json:"winner"`
	FinalScores map[string]int `json:"finalScores"`
}

func GameStarted(ctx context.Context, pub logging.Publisher, tick uint64, payload RoundPayload) {
	publish(ctx, pub, EventGameStarted, tick, payload)
}

func RoundStarted(ctx context.Context, pub logging.Publisher, tick uint64, payload RoundPayload) {
	publish(ctx, pub, EventRoundStarted, tick, payload)
}

func RoundEnded(ctx context.Context, pub logging.Publisher, tick uint64, payload RoundEndedPayload) {
	publish(ctx, pub, EventRoundEnded, tick, payload)
}

func GameEnded(ctx context.Context, pub logging.Publisher, tick uint64, payload GameEndedPayload) {
	publish(ctx, pub, EventGameEnded, tick, payload)
}

func GameReset(ctx context.Context, pub logging.Publisher, tick uint64) {
	publish(ctx, pub, EventGameReset, tick, nil)
}

func publish(ctx context.Context, pub logging.Publisher, eventType logging.EventType, tick uint64, payload any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Tick:     tick,
		Actor:    logging.WorldRef(),
		Severity: logging.SeverityInfo,
		Category: logging.CategoryRounds,
		Payload:  payload,
	})
}
