package game

import (
	"context"
	"math"
	"time"

	"tower-wars/server/logging"
	loggingcombat "tower-wars/server/logging/combat"
	loggingstatus "tower-wars/server/logging/status_effects"
)

const (
	knockbackRange = 100.0
	knockbackForce = 15.0

	shieldDuration = 5 * time.Second
	speedDuration  = 8 * time.Second

	freezeRange    = 80.0
	freezeDamage   = 20.0
	freezeDuration = 3 * time.Second

	laserHalfWidth    = 20.0
	laserDamage       = 40.0
	laserBurnDuration = 2 * time.Second
	laserVisualTTL    = 500 * time.Millisecond
	laserHitScore     = 10
	laserKillScore    = 50
	visualEffectLaser = "laser"
)

// WeaponResult reports the outcome of a weapon activation.
type WeaponResult struct {
	Accepted  bool
	Reason    string
	Remaining time.Duration
	Hits      []string
}

const (
	WeaponRejectUnknownPlayer = "unknown_player"
	WeaponRejectCooldown      = "cooldown"
	WeaponRejectInvalidTarget = "invalid_target"
)

// UseWeapon validates the cooldown for kind and applies its effect at the
// target point. Accepted activations are broadcast; cooldown rejections are
// reported to the caster only; unknown players are ignored.
func (g *Game) UseWeapon(playerID string, kind WeaponKind, targetX, targetY float64, now time.Time) WeaponResult {
	caster, ok := g.state.Player(playerID)
	if !ok {
		return WeaponResult{Reason: WeaponRejectUnknownPlayer}
	}
	if !finite(targetX, targetY) {
		return WeaponResult{Reason: WeaponRejectInvalidTarget}
	}
	kind, cfg := LookupWeapon(kind)
	if remaining := caster.Cooldowns.Remaining(kind, now); remaining > 0 {
		g.notifier.SendTo(playerID, WeaponCooldown{Weapon: kind, RemainingMs: remaining.Milliseconds()})
		loggingcombat.WeaponRejected(context.Background(), g.publisher, g.tick, logging.PlayerRef(playerID), loggingcombat.WeaponRejectedPayload{
			Weapon:      string(kind),
			RemainingMs: remaining.Milliseconds(),
		}, nil)
		return WeaponResult{Reason: WeaponRejectCooldown, Remaining: remaining}
	}

	caster.Cooldowns[kind] = now.Add(cfg.Cooldown)

	var hits []*Player
	switch cfg.Effect {
	case WeaponEffectKnockback:
		hits = g.applyKnockback(caster, targetX, targetY)
	case WeaponEffectProtect:
		g.applySelfEffect(caster, EffectShield, shieldDuration, now)
	case WeaponEffectSpeed:
		g.applySelfEffect(caster, EffectSpeed, speedDuration, now)
	case WeaponEffectTeleport:
		caster.X = clamp(targetX, TeleportMargin, ArenaWidth-TeleportMargin)
		caster.Y = clamp(targetY, TeleportMargin, ArenaHeight-TeleportMargin)
	case WeaponEffectFreeze:
		hits = g.applyFreeze(caster, targetX, targetY, now)
	case WeaponEffectBurn:
		hits = g.applyLaser(caster, targetX, targetY, now)
	}

	hitIDs := make([]string, 0, len(hits))
	targets := make([]logging.EntityRef, 0, len(hits))
	for _, p := range hits {
		hitIDs = append(hitIDs, p.ID)
		targets = append(targets, logging.PlayerRef(p.ID))
	}
	g.notifier.Broadcast(WeaponUsed{PlayerID: playerID, Weapon: kind, TargetX: targetX, TargetY: targetY})
	loggingcombat.WeaponUsed(context.Background(), g.publisher, g.tick, logging.PlayerRef(playerID), targets, loggingcombat.WeaponUsedPayload{
		Weapon:  string(kind),
		TargetX: targetX,
		TargetY: targetY,
		Hits:    hitIDs,
	}, nil)
	return WeaponResult{Accepted: true, Hits: hitIDs}
}

// enemiesOf lists players on other teams in join order.
func (g *Game) enemiesOf(caster *Player) []*Player {
	var enemies []*Player
	for _, p := range g.state.OrderedPlayers() {
		if p.Team != caster.Team {
			enemies = append(enemies, p)
		}
	}
	return enemies
}

// applyKnockback pushes enemies near the target outward. The impulse shrinks
// linearly with distance and bleeds off through velocity damping.
func (g *Game) applyKnockback(caster *Player, tx, ty float64) []*Player {
	var hits []*Player
	for _, p := range g.enemiesOf(caster) {
		dist := math.Hypot(p.X-tx, p.Y-ty)
		if dist >= knockbackRange {
			continue
		}
		angle := math.Atan2(p.Y-ty, p.X-tx)
		force := (knockbackRange - dist) / knockbackRange * knockbackForce
		p.VX += math.Cos(angle) * force
		p.VY += math.Sin(angle) * force
		hits = append(hits, p)
	}
	return hits
}

func (g *Game) applySelfEffect(caster *Player, kind EffectKind, duration time.Duration, now time.Time) {
	g.applyEffect(caster, caster, kind, duration, now)
}

func (g *Game) applyEffect(source, target *Player, kind EffectKind, duration time.Duration, now time.Time) {
	refreshed := target.Effects.Apply(kind, duration, now)
	loggingstatus.Applied(context.Background(), g.publisher, g.tick, logging.PlayerRef(source.ID), logging.PlayerRef(target.ID), loggingstatus.AppliedPayload{
		StatusEffect: string(kind),
		DurationMs:   duration.Milliseconds(),
		ExpiresAt:    now.Add(duration).UnixMilli(),
		Refreshed:    refreshed,
	})
}

// applyFreeze slows and damages enemies around the target. Freeze kills do
// not award score.
func (g *Game) applyFreeze(caster *Player, tx, ty float64, now time.Time) []*Player {
	var hits []*Player
	for _, p := range g.enemiesOf(caster) {
		if math.Hypot(p.X-tx, p.Y-ty) >= freezeRange {
			continue
		}
		g.applyEffect(caster, p, EffectFreeze, freezeDuration, now)
		g.damage(p, freezeDamage, string(WeaponFreeze), caster.ID)
		hits = append(hits, p)
	}
	return hits
}

// applyLaser fires a beam from the caster to the target. Enemies within the
// beam's half width and no farther from the caster than the target take
// damage and burn.
func (g *Game) applyLaser(caster *Player, tx, ty float64, now time.Time) []*Player {
	x1, y1 := caster.X, caster.Y
	g.state.Effects = append(g.state.Effects, VisualEffect{
		Kind:     visualEffectLaser,
		X1:       x1,
		Y1:       y1,
		X2:       tx,
		Y2:       ty,
		Start:    now,
		Duration: laserVisualTTL,
	})

	beamLength := math.Hypot(tx-x1, ty-y1)
	var hits []*Player
	for _, p := range g.enemiesOf(caster) {
		if distanceToSegment(x1, y1, tx, ty, p.X, p.Y) >= laserHalfWidth {
			continue
		}
		if math.Hypot(p.X-x1, p.Y-y1) > beamLength {
			continue
		}
		caster.Score += laserHitScore
		// Burn lands before the damage so a fatal hit's respawn clears it.
		g.applyEffect(caster, p, EffectBurn, laserBurnDuration, now)
		if g.damage(p, laserDamage, string(WeaponLaser), caster.ID) {
			caster.Score += laserKillScore
		}
		hits = append(hits, p)
	}
	return hits
}
