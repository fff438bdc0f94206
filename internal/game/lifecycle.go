package game

import (
	"context"
	"fmt"
	"time"

	loggingrounds "tower-wars/server/logging/rounds"
)

const (
	countdownInterval = time.Second
	towerRoundScore   = 50
	roundHeal         = 40.0
)

// Start begins the first round. It reports false when a game is already
// started.
func (g *Game) Start(now time.Time) bool {
	if g.state.Started {
		return false
	}
	g.state.Started = true
	g.state.Phase = PhaseRunning
	g.state.Round = 1
	g.state.Timer = g.config.RoundSeconds
	g.scheduleCountdown()

	g.notifier.Broadcast(GameStarted{Round: g.state.Round, Timer: g.state.Timer})
	loggingrounds.GameStarted(context.Background(), g.publisher, g.tick, loggingrounds.RoundPayload{
		Round: g.state.Round,
		Timer: g.state.Timer,
	})
	return true
}

// Close cancels any pending lifecycle timer.
func (g *Game) Close() {
	if g.cancelTimer != nil {
		g.cancelTimer()
		g.cancelTimer = nil
	}
}

// schedule replaces the pending lifecycle timer with fn.
func (g *Game) schedule(d time.Duration, fn func(now time.Time)) {
	g.Close()
	g.cancelTimer = g.scheduler.After(d, fn)
}

// current reports whether a callback armed in epoch/round/phase still applies.
func (g *Game) current(epoch uint64, round int, phase Phase) bool {
	return g.epoch == epoch && g.state.Round == round && g.state.Phase == phase
}

// scheduleCountdown arms the next one-second tick of the round timer.
func (g *Game) scheduleCountdown() {
	epoch, round := g.epoch, g.state.Round
	g.schedule(countdownInterval, func(now time.Time) {
		if !g.current(epoch, round, PhaseRunning) {
			return
		}
		g.state.Timer--
		if g.state.Timer <= 0 {
			g.endRound(now)
			return
		}
		g.scheduleCountdown()
	})
}

// endRound scores controlled towers, heals every player and either schedules
// the next round or ends the game.
func (g *Game) endRound(now time.Time) {
	g.state.Phase = PhaseRoundEnding

	roundScores := newTeamTally()
	for _, tower := range g.state.Towers {
		roundScores[tower.ControlledBy] += towerRoundScore
	}
	for team, score := range roundScores {
		g.state.TeamScores[team] += score
	}
	for _, p := range g.state.OrderedPlayers() {
		heal(p, roundHeal)
	}

	ended := g.state.Round
	g.notifier.Broadcast(RoundEnded{
		Round:       ended,
		RoundScores: roundScores,
		TotalScores: g.state.TeamScores.Clone(),
		Message:     fmt.Sprintf("Round %d complete!", ended),
	})
	loggingrounds.RoundEnded(context.Background(), g.publisher, g.tick, loggingrounds.RoundEndedPayload{
		Round:       ended,
		RoundScores: roundScores.Strings(),
		TotalScores: g.state.TeamScores.Strings(),
	})

	g.state.Round++
	if g.state.Round > g.config.MaxRounds {
		g.endGame()
		return
	}

	g.state.Timer = g.config.RoundSeconds
	epoch, round := g.epoch, g.state.Round
	g.schedule(g.config.IntermissionDelay, func(time.Time) {
		if !g.current(epoch, round, PhaseRoundEnding) {
			return
		}
		g.state.Phase = PhaseRunning
		g.scheduleCountdown()
		g.notifier.Broadcast(RoundStarted{Round: g.state.Round, Timer: g.state.Timer})
		loggingrounds.RoundStarted(context.Background(), g.publisher, g.tick, loggingrounds.RoundPayload{
			Round: g.state.Round,
			Timer: g.state.Timer,
		})
	})
}

// Winner returns the team with the strictly highest cumulative score. Ties go
// to the team listed first in Teams.
func (s *State) Winner() Team {
	winner := TeamNone
	best := -1
	for _, team := range Teams {
		if score := s.TeamScores[team]; score > best {
			best = score
			winner = team
		}
	}
	return winner
}

func (g *Game) endGame() {
	g.state.Phase = PhaseGameEnded
	winner := g.state.Winner()

	g.notifier.Broadcast(GameEnded{
		Winner:      winner,
		FinalScores: g.state.TeamScores.Clone(),
		Message:     fmt.Sprintf("Game over! Team %s wins!", winner),
	})
	loggingrounds.GameEnded(context.Background(), g.publisher, g.tick, loggingrounds.GameEndedPayload{
		Winner:      string(winner),
		FinalScores: g.state.TeamScores.Strings(),
	})

	epoch, round := g.epoch, g.state.Round
	g.schedule(g.config.ResetDelay, func(now time.Time) {
		if !g.current(epoch, round, PhaseGameEnded) {
			return
		}
		g.reset(now)
	})
}

// reset returns the world to the not-started phase with fresh towers and
// scores. Players stay joined but are respawned with zero score and no
// cooldowns.
func (g *Game) reset(now time.Time) {
	g.state.Phase = PhaseResetting
	g.epoch++
	g.Close()

	g.state.Started = false
	g.state.Round = 1
	g.state.Timer = g.config.RoundSeconds
	g.state.TeamScores = newTeamTally()
	g.state.Effects = nil
	g.state.Towers = newTowers()
	for _, p := range g.state.OrderedPlayers() {
		g.respawn(p)
		p.Score = 0
		p.Cooldowns.Clear()
	}
	g.state.Phase = PhaseNotStarted

	g.notifier.Broadcast(GameReset{})
	g.notifier.Broadcast(StateUpdate{ClientState: g.Snapshot(now)})
	loggingrounds.GameReset(context.Background(), g.publisher, g.tick)
}
