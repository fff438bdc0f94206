package game

import "time"

// Step advances the world by one tick: movement for every player in join
// order, then capture. Expired visual effects are pruned on every call; the
// rest is skipped and Step returns false while no game is started.
func (g *Game) Step(now time.Time) bool {
	g.state.pruneEffects(now)
	if !g.state.Started {
		return false
	}
	g.tick++
	for _, p := range g.state.OrderedPlayers() {
		g.movePlayer(p, now)
	}
	g.updateTowers()
	return true
}
