package game

import (
	"math"
	"testing"
	"time"

	loggingcombat "tower-wars/server/logging/combat"
)

func TestUseWeaponCooldownLaw(t *testing.T) {
	h := newTestHarness(t, DefaultConfig())
	h.joinAt(t, "caster", TeamRed, 300, 300)
	enemy := h.joinAt(t, "enemy", TeamBlue, 550, 300)

	first := h.game.UseWeapon("caster", WeaponGravityGun, 500, 300, testEpoch)
	if !first.Accepted || len(first.Hits) != 1 {
		t.Fatalf("expected first activation to hit enemy, got %+v", first)
	}
	vx := enemy.VX

	h.notifier.reset()
	second := h.game.UseWeapon("caster", WeaponGravityGun, 500, 300, testEpoch.Add(29*time.Second))
	if second.Accepted || second.Reason != WeaponRejectCooldown {
		t.Fatalf("expected cooldown rejection, got %+v", second)
	}
	if second.Remaining != time.Second {
		t.Fatalf("expected 1s remaining, got %v", second.Remaining)
	}
	if enemy.VX != vx {
		t.Fatalf("rejected activation must not apply its effect")
	}
	replies := h.notifier.named(EventWeaponCooldown)
	if len(replies) != 1 || replies[0].to != "caster" || len(h.notifier.deliveries) != 1 {
		t.Fatalf("expected only a weapon_cooldown reply to caster, got %+v", h.notifier.deliveries)
	}
	if got := replies[0].event.(WeaponCooldown).RemainingMs; got != 1000 {
		t.Fatalf("expected 1000ms remaining, got %d", got)
	}
	if len(h.events.OfType(loggingcombat.EventWeaponRejected)) != 1 {
		t.Fatalf("expected rejection to be logged")
	}

	third := h.game.UseWeapon("caster", WeaponGravityGun, 500, 300, testEpoch.Add(30*time.Second))
	if !third.Accepted {
		t.Fatalf("expected weapon to be usable once the cooldown elapsed")
	}
}

func TestUseWeaponIgnoresUnknownPlayer(t *testing.T) {
	h := newTestHarness(t, DefaultConfig())
	result := h.game.UseWeapon("ghost", WeaponLaser, 10, 10, testEpoch)
	if result.Accepted || result.Reason != WeaponRejectUnknownPlayer {
		t.Fatalf("expected unknown player rejection, got %+v", result)
	}
	if len(h.notifier.deliveries) != 0 {
		t.Fatalf("stale reference must not notify anyone")
	}
}

func TestUseWeaponRejectsNonFiniteTarget(t *testing.T) {
	h := newTestHarness(t, DefaultConfig())
	caster := h.joinAt(t, "caster", TeamRed, 300, 300)
	result := h.game.UseWeapon("caster", WeaponTeleport, math.Inf(1), 10, testEpoch)
	if result.Accepted || result.Reason != WeaponRejectInvalidTarget {
		t.Fatalf("expected invalid target rejection, got %+v", result)
	}
	if len(caster.Cooldowns) != 0 {
		t.Fatalf("invalid target must not start a cooldown")
	}
}

func TestUnknownWeaponSharesGravityGunCooldown(t *testing.T) {
	h := newTestHarness(t, DefaultConfig())
	caster := h.joinAt(t, "caster", TeamRed, 300, 300)
	enemy := h.joinAt(t, "enemy", TeamBlue, 560, 300)

	result := h.game.UseWeapon("caster", WeaponKind("banana"), 500, 300, testEpoch)
	if !result.Accepted {
		t.Fatalf("unknown weapon kinds must not be rejected")
	}
	if enemy.VX <= 0 {
		t.Fatalf("expected knockback to push enemy away, vx=%v", enemy.VX)
	}
	if got := caster.Cooldowns.Remaining(WeaponGravityGun, testEpoch); got != 30*time.Second {
		t.Fatalf("expected gravity gun cooldown, got %v", got)
	}
	if len(caster.Cooldowns) != 1 {
		t.Fatalf("expected a single cooldown entry, got %v", caster.Cooldowns)
	}

	pushed := enemy.VX
	later := testEpoch.Add(time.Second)
	for _, name := range []string{"banana2", "gravitygun0", string(WeaponGravityGun)} {
		result = h.game.UseWeapon("caster", WeaponKind(name), 500, 300, later)
		if result.Accepted || result.Reason != WeaponRejectCooldown {
			t.Fatalf("%s: expected cooldown rejection, got %+v", name, result)
		}
	}
	if enemy.VX != pushed {
		t.Fatalf("rejected activations must not move the enemy, vx %v -> %v", pushed, enemy.VX)
	}
	if len(caster.Cooldowns) != 1 {
		t.Fatalf("cooldown map grew to %v", caster.Cooldowns)
	}
}

func TestKnockbackPushesEnemiesAwayFromTarget(t *testing.T) {
	h := newTestHarness(t, DefaultConfig())
	h.joinAt(t, "caster", TeamRed, 100, 100)
	near := h.joinAt(t, "near", TeamBlue, 550, 300)
	above := h.joinAt(t, "above", TeamGreen, 500, 250)
	far := h.joinAt(t, "far", TeamBlue, 500, 400)
	ally := h.joinAt(t, "ally", TeamRed, 510, 300)

	h.game.UseWeapon("caster", WeaponGravityGun, 500, 300, testEpoch)

	if math.Abs(near.VX-7.5) > 1e-9 || math.Abs(near.VY) > 1e-9 {
		t.Fatalf("expected (7.5, 0) impulse, got (%v, %v)", near.VX, near.VY)
	}
	if math.Abs(above.VY+7.5) > 1e-9 || math.Abs(above.VX) > 1e-9 {
		t.Fatalf("expected (0, -7.5) impulse, got (%v, %v)", above.VX, above.VY)
	}
	if far.VX != 0 || far.VY != 0 {
		t.Fatalf("enemy at range 100 must be untouched")
	}
	if ally.VX != 0 || ally.VY != 0 {
		t.Fatalf("allies must be untouched")
	}
	if near.Health != near.MaxHealth {
		t.Fatalf("knockback deals no damage")
	}
}

func TestSelfEffects(t *testing.T) {
	h := newTestHarness(t, DefaultConfig())
	caster := h.joinAt(t, "caster", TeamRed, 100, 100)
	enemy := h.joinAt(t, "enemy", TeamBlue, 100, 100)

	h.game.UseWeapon("caster", WeaponShield, 900, 600, testEpoch)
	h.game.UseWeapon("caster", WeaponSpeedBoost, 900, 600, testEpoch)

	if !caster.Effects.Has(EffectShield, testEpoch.Add(5*time.Second)) {
		t.Fatalf("shield should last 5s")
	}
	if caster.Effects.Has(EffectShield, testEpoch.Add(5*time.Second+time.Millisecond)) {
		t.Fatalf("shield should expire after 5s")
	}
	if !caster.Effects.Has(EffectSpeed, testEpoch.Add(8*time.Second)) {
		t.Fatalf("speed should last 8s")
	}
	if len(enemy.Effects) != 0 {
		t.Fatalf("self effects must not touch others")
	}
}

func TestTeleportClampsToArenaInterior(t *testing.T) {
	h := newTestHarness(t, DefaultConfig())
	caster := h.joinAt(t, "caster", TeamRed, 100, 100)

	h.game.UseWeapon("caster", WeaponTeleport, -50, 5000, testEpoch)
	if caster.X != 20 || caster.Y != 680 {
		t.Fatalf("expected clamp to (20, 680), got (%v, %v)", caster.X, caster.Y)
	}
}

func TestFreezeDamagesAndSlowsWithoutKillScore(t *testing.T) {
	h := newTestHarness(t, DefaultConfig())
	caster := h.joinAt(t, "caster", TeamRed, 100, 100)
	inside := h.joinAt(t, "inside", TeamBlue, 560, 300)
	edge := h.joinAt(t, "edge", TeamBlue, 580, 300)
	fragile := h.joinAt(t, "fragile", TeamGreen, 500, 310)
	fragile.Health = 15

	result := h.game.UseWeapon("caster", WeaponFreeze, 500, 300, testEpoch)
	if len(result.Hits) != 2 {
		t.Fatalf("expected two hits, got %v", result.Hits)
	}
	if inside.Health != 80 || !inside.Effects.Has(EffectFreeze, testEpoch.Add(3*time.Second)) {
		t.Fatalf("expected 20 damage and a 3s freeze, got health %v effects %v", inside.Health, inside.Effects)
	}
	if edge.Health != edge.MaxHealth || len(edge.Effects) != 0 {
		t.Fatalf("enemy at range 80 must be untouched")
	}
	if fragile.Health != fragile.MaxHealth || len(fragile.Effects) != 0 {
		t.Fatalf("fatal freeze should respawn the victim, got health %v effects %v", fragile.Health, fragile.Effects)
	}
	if caster.Score != 0 {
		t.Fatalf("freeze must not award score, got %d", caster.Score)
	}
	assertHealthBounds(t, h.game)
}

func TestLaserHitsAlongBeam(t *testing.T) {
	h := newTestHarness(t, DefaultConfig())
	caster := h.joinAt(t, "caster", TeamRed, 100, 300)
	onLine := h.joinAt(t, "online", TeamBlue, 250, 315)
	offLine := h.joinAt(t, "offline", TeamBlue, 250, 325)
	pastEnd := h.joinAt(t, "pastend", TeamGreen, 410, 300)
	ally := h.joinAt(t, "ally", TeamRed, 200, 300)

	result := h.game.UseWeapon("caster", WeaponLaser, 400, 300, testEpoch)
	if len(result.Hits) != 1 || result.Hits[0] != "online" {
		t.Fatalf("expected only online to be hit, got %v", result.Hits)
	}
	if onLine.Health != 60 {
		t.Fatalf("expected 40 damage, got health %v", onLine.Health)
	}
	if !onLine.Effects.Has(EffectBurn, testEpoch.Add(2*time.Second)) {
		t.Fatalf("expected a 2s burn")
	}
	if offLine.Health != offLine.MaxHealth || pastEnd.Health != pastEnd.MaxHealth || ally.Health != ally.MaxHealth {
		t.Fatalf("players off the beam must be untouched")
	}
	if caster.Score != 10 {
		t.Fatalf("expected +10 hit score, got %d", caster.Score)
	}

	effects := h.game.State().Effects
	if len(effects) != 1 || effects[0].Kind != "laser" || effects[0].X2 != 400 || effects[0].Duration != 500*time.Millisecond {
		t.Fatalf("expected one laser visual, got %+v", effects)
	}
	if len(h.notifier.named(EventWeaponUsed)) != 1 {
		t.Fatalf("expected weapon_used broadcast")
	}
}

func TestLaserHitsEnemyAtBeamEnd(t *testing.T) {
	h := newTestHarness(t, DefaultConfig())
	h.joinAt(t, "caster", TeamRed, 100, 300)
	atEnd := h.joinAt(t, "atend", TeamBlue, 400, 300)

	result := h.game.UseWeapon("caster", WeaponLaser, 400, 300, testEpoch)
	if len(result.Hits) != 1 || result.Hits[0] != "atend" {
		t.Fatalf("expected the enemy on the target point to be hit, got %v", result.Hits)
	}
	if atEnd.Health != 60 {
		t.Fatalf("expected 40 damage, got health %v", atEnd.Health)
	}
}

func TestLaserKillAwardsBonusAndRespawns(t *testing.T) {
	h := newTestHarness(t, DefaultConfig())
	caster := h.joinAt(t, "caster", TeamRed, 100, 300)
	victim := h.joinAt(t, "victim", TeamBlue, 300, 300)
	victim.Health = 30
	victim.VX = 4
	victim.Score = 7

	h.game.UseWeapon("caster", WeaponLaser, 400, 300, testEpoch)

	if caster.Score != 60 {
		t.Fatalf("expected 10 + 50 score, got %d", caster.Score)
	}
	if victim.Health != victim.MaxHealth || victim.VX != 0 || len(victim.Effects) != 0 {
		t.Fatalf("expected clean respawn, got %+v", victim)
	}
	if victim.Score != 7 {
		t.Fatalf("respawn must keep score")
	}
	if len(h.events.OfType(loggingcombat.EventDefeat)) != 1 {
		t.Fatalf("expected a defeat event")
	}
}
