package game

import (
	"context"
	"fmt"
	"math"

	"tower-wars/server/logging"
	loggingcapture "tower-wars/server/logging/capture"
)

const (
	captureReach = 30.0
	captureScore = 100
)

// updateTowers advances every tower's capture state by one tick.
func (g *Game) updateTowers() {
	players := g.state.OrderedPlayers()
	for _, tower := range g.state.Towers {
		g.updateTower(tower, players)
	}
}

// updateTower applies one tick of the capture rule. When several enemy teams
// stand in range, the team of the earliest joined enemy is the one capturing.
func (g *Game) updateTower(tower *Tower, players []*Player) {
	reach := tower.Size + captureReach
	var enemies []*Player
	for _, p := range players {
		if math.Hypot(p.X-tower.X, p.Y-tower.Y) >= reach {
			continue
		}
		if p.Team != tower.ControlledBy {
			enemies = append(enemies, p)
		}
	}

	if len(enemies) == 0 {
		tower.Progress = max(0, tower.Progress-progressDecay)
		if tower.Progress == 0 {
			tower.CapturingTeam = TeamNone
		}
		return
	}

	captureTeam := enemies[0].Team
	if tower.CapturingTeam != captureTeam {
		tower.CapturingTeam = captureTeam
		tower.Progress = 0
	}
	tower.Progress += progressPerEnemy * Progress(len(enemies))
	if tower.Progress < ProgressFull {
		return
	}

	previous := tower.ControlledBy
	tower.ControlledBy = captureTeam
	tower.Progress = 0
	tower.CapturingTeam = TeamNone

	capturers := make([]string, 0, len(enemies))
	for _, p := range enemies {
		p.Score += captureScore
		capturers = append(capturers, p.ID)
	}
	g.notifier.Broadcast(TowerCaptured{
		TowerID:  tower.ID,
		NewOwner: captureTeam,
		Message:  fmt.Sprintf("Tower captured by team %s!", captureTeam),
	})
	loggingcapture.TowerCaptured(context.Background(), g.publisher, g.tick, logging.TowerRef(tower.ID), loggingcapture.TowerCapturedPayload{
		PreviousOwner: string(previous),
		NewOwner:      string(captureTeam),
		Capturers:     capturers,
	}, nil)
}
