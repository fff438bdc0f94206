package game

import (
	"context"
	"time"

	"tower-wars/server/logging"
	loggingstatus "tower-wars/server/logging/status_effects"
)

const (
	boostedSpeed = 6.0
	frozenSpeed  = 0.5
	damping      = 0.9
	burnChance   = 0.1
	burnDamage   = 2.0
	burnSource   = "burn"
)

// effectiveSpeed picks the movement multiplier. Freeze overrides speed.
func effectiveSpeed(p *Player, now time.Time) float64 {
	speed := p.Speed
	if p.Effects.Has(EffectSpeed, now) {
		speed = boostedSpeed
	}
	if p.Effects.Has(EffectFreeze, now) {
		speed = frozenSpeed
	}
	return speed
}

// movePlayer runs one physics step for p.
func (g *Game) movePlayer(p *Player, now time.Time) {
	if expired := p.Effects.Sweep(now); len(expired) > 0 {
		kinds := make([]string, len(expired))
		for i, kind := range expired {
			kinds[i] = string(kind)
		}
		loggingstatus.Expired(context.Background(), g.publisher, g.tick, logging.PlayerRef(p.ID), loggingstatus.ExpiredPayload{StatusEffects: kinds})
	}

	speed := effectiveSpeed(p, now)
	p.X += p.VX * speed
	p.Y += p.VY * speed
	p.X = clamp(p.X, p.Radius, ArenaWidth-p.Radius)
	p.Y = clamp(p.Y, p.Radius, ArenaHeight-p.Radius)
	p.VX *= damping
	p.VY *= damping

	if p.Effects.Has(EffectBurn, now) && g.rng.Float64() < burnChance {
		g.damage(p, burnDamage, burnSource, "")
	}
}
