package game

import (
	"context"

	"tower-wars/server/logging"
	loggingcombat "tower-wars/server/logging/combat"
)

// damage removes health, floors it at zero and, when the player reaches zero,
// respawns it before returning. Every health-reducing path goes through here
// so no player is ever observed at zero health. It reports whether the hit
// was fatal.
func (g *Game) damage(target *Player, amount float64, source string, attackerID string) bool {
	target.Health = max(0, target.Health-amount)

	actor := logging.WorldRef()
	if attackerID != "" {
		actor = logging.PlayerRef(attackerID)
	}
	loggingcombat.Damage(context.Background(), g.publisher, g.tick, actor, logging.PlayerRef(target.ID), loggingcombat.DamagePayload{
		Source:       source,
		Amount:       amount,
		TargetHealth: target.Health,
	}, nil)

	if target.Health > 0 {
		return false
	}
	loggingcombat.Defeat(context.Background(), g.publisher, g.tick, actor, logging.PlayerRef(target.ID), loggingcombat.DefeatPayload{Source: source}, nil)
	g.respawn(target)
	return true
}

// respawn puts the player back near its spawn point with full health, no
// velocity and no effects. Score and cooldowns survive.
func (g *Game) respawn(p *Player) {
	g.placeAtSpawn(p)
	p.Health = p.MaxHealth
	p.VX = 0
	p.VY = 0
	p.Effects.Clear()
}

func heal(p *Player, amount float64) {
	p.Health = min(p.MaxHealth, p.Health+amount)
}
