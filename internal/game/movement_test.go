package game

import (
	"math"
	"testing"
	"time"

	loggingstatus "tower-wars/server/logging/status_effects"
)

func TestEffectiveSpeed(t *testing.T) {
	cases := []struct {
		name    string
		effects []EffectKind
		want    float64
	}{
		{"base", nil, PlayerBaseSpeed},
		{"speed", []EffectKind{EffectSpeed}, 6},
		{"freeze", []EffectKind{EffectFreeze}, 0.5},
		{"freeze wins", []EffectKind{EffectSpeed, EffectFreeze}, 0.5},
	}
	for _, tc := range cases {
		p := newPlayer("p", "p", TeamRed)
		for _, kind := range tc.effects {
			p.Effects.Apply(kind, time.Second, testEpoch)
		}
		if got := effectiveSpeed(p, testEpoch); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestMovementIntegratesAndDamps(t *testing.T) {
	h := newTestHarness(t, DefaultConfig())
	p := h.joinAt(t, "p", TeamRed, 500, 300)
	h.game.SetVelocity("p", 1, -0.5)
	h.game.Start(testEpoch)

	h.game.Step(testEpoch)
	if p.X != 503 || p.Y != 298.5 {
		t.Fatalf("expected (503, 298.5), got (%v, %v)", p.X, p.Y)
	}
	if math.Abs(p.VX-0.9) > 1e-12 || math.Abs(p.VY+0.45) > 1e-12 {
		t.Fatalf("expected damped velocity, got (%v, %v)", p.VX, p.VY)
	}
}

func TestMovementClampsByRadius(t *testing.T) {
	h := newTestHarness(t, DefaultConfig())
	p := h.joinAt(t, "p", TeamRed, 1084, 10)
	h.game.SetVelocity("p", 1, -1)
	h.game.Start(testEpoch)

	h.game.Step(testEpoch)
	if p.X != ArenaWidth-PlayerRadius || p.Y != PlayerRadius {
		t.Fatalf("expected clamp to (%v, %v), got (%v, %v)", ArenaWidth-PlayerRadius, PlayerRadius, p.X, p.Y)
	}
}

func TestMovementSweepsExpiredEffects(t *testing.T) {
	h := newTestHarness(t, DefaultConfig())
	p := h.joinAt(t, "p", TeamRed, 500, 300)
	p.Effects.Apply(EffectFreeze, time.Second, testEpoch)
	h.game.Start(testEpoch)

	h.game.Step(testEpoch.Add(time.Second))
	if _, ok := p.Effects[EffectFreeze]; !ok {
		t.Fatalf("effect should live through its full duration")
	}
	h.game.Step(testEpoch.Add(time.Second + time.Millisecond))
	if len(p.Effects) != 0 {
		t.Fatalf("expired effect should be swept, got %v", p.Effects)
	}
	expired := h.events.OfType(loggingstatus.EventExpired)
	if len(expired) != 1 {
		t.Fatalf("expected one expiry event, got %d", len(expired))
	}
	if payload := expired[0].Payload.(loggingstatus.ExpiredPayload); len(payload.StatusEffects) != 1 || payload.StatusEffects[0] != string(EffectFreeze) {
		t.Fatalf("unexpected expiry payload %+v", payload)
	}
}

func TestBurnKeepsHealthInBounds(t *testing.T) {
	h := newTestHarness(t, DefaultConfig())
	p := h.joinAt(t, "p", TeamRed, 500, 300)
	p.Health = 3
	h.game.Start(testEpoch)

	burned := false
	for i := 0; i < 300; i++ {
		p.Effects.Apply(EffectBurn, time.Hour, testEpoch)
		before := p.Health
		h.game.Step(testEpoch)
		assertHealthBounds(t, h.game)
		if p.Health != before {
			burned = true
		}
	}
	if !burned {
		t.Fatalf("expected burn to tick at least once in 300 steps")
	}
}

func TestRespawnIsIdempotent(t *testing.T) {
	h := newTestHarness(t, DefaultConfig())
	p := h.joinAt(t, "p", TeamBlue, 10, 10)
	p.Score = 42
	p.Cooldowns[WeaponLaser] = testEpoch.Add(time.Minute)

	states := []func(){
		func() {
			p.Health = 1
			p.VX = 5
			p.VY = -3
			p.Effects.Apply(EffectBurn, time.Hour, testEpoch)
		},
		func() {},
		func() {
			p.Effects.Apply(EffectShield, time.Second, testEpoch)
			p.Effects.Apply(EffectFreeze, time.Second, testEpoch)
		},
	}
	for i, prepare := range states {
		prepare()
		h.game.respawn(p)
		if p.Health != p.MaxHealth || p.VX != 0 || p.VY != 0 || len(p.Effects) != 0 {
			t.Fatalf("case %d: expected clean respawn, got %+v", i, p)
		}
		spawn := SpawnPoint(TeamBlue)
		if math.Abs(p.X-spawn.X) > 50 || math.Abs(p.Y-spawn.Y) > 50 {
			t.Fatalf("case %d: respawn outside jitter box", i)
		}
		if p.Score != 42 || len(p.Cooldowns) != 1 {
			t.Fatalf("case %d: respawn must keep score and cooldowns", i)
		}
	}
}

func TestHealthInvariantUnderCombat(t *testing.T) {
	h := newTestHarness(t, DefaultConfig())
	teams := []Team{TeamRed, TeamBlue, TeamGreen, TeamYellow}
	var players []*Player
	for i := 0; i < 8; i++ {
		players = append(players, h.joinAt(t, string(rune('a'+i)), teams[i%4], 500+float64(i*3), 350))
	}
	h.game.Start(testEpoch)

	weapons := []WeaponKind{WeaponLaser, WeaponFreeze, WeaponGravityGun, WeaponTeleport}
	now := testEpoch
	for step := 0; step < 400; step++ {
		now = now.Add(time.Second / 30)
		caster := players[step%len(players)]
		target := players[(step+3)%len(players)]
		caster.Cooldowns.Clear()
		h.game.UseWeapon(caster.ID, weapons[step%len(weapons)], target.X, target.Y, now)
		assertHealthBounds(t, h.game)
		h.game.Step(now)
		assertHealthBounds(t, h.game)
	}
}
