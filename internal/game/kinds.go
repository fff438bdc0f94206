package game

import "time"

// EffectKind names a timed status modifier attached to a player.
type EffectKind string

const (
	EffectShield EffectKind = "shield"
	EffectSpeed  EffectKind = "speed"
	EffectFreeze EffectKind = "freeze"
	EffectBurn   EffectKind = "burn"
)

// WeaponKind names an ability a player can activate.
type WeaponKind string

const (
	WeaponGravityGun WeaponKind = "gravitygun"
	WeaponShield     WeaponKind = "shield"
	WeaponSpeedBoost WeaponKind = "speedboost"
	WeaponTeleport   WeaponKind = "teleport"
	WeaponFreeze     WeaponKind = "freeze"
	WeaponLaser      WeaponKind = "laser"
)

// WeaponEffect selects the resolver branch a weapon triggers.
type WeaponEffect string

const (
	WeaponEffectKnockback WeaponEffect = "knockback"
	WeaponEffectProtect   WeaponEffect = "protect"
	WeaponEffectSpeed     WeaponEffect = "speed"
	WeaponEffectTeleport  WeaponEffect = "teleport"
	WeaponEffectFreeze    WeaponEffect = "freeze"
	WeaponEffectBurn      WeaponEffect = "burn"
)

// WeaponConfig is one row of the weapon table.
type WeaponConfig struct {
	Cooldown time.Duration
	Damage   float64
	Effect   WeaponEffect
}

var weaponTable = map[WeaponKind]WeaponConfig{
	WeaponGravityGun: {Cooldown: 30 * time.Second, Effect: WeaponEffectKnockback},
	WeaponShield:     {Cooldown: 15 * time.Second, Effect: WeaponEffectProtect},
	WeaponSpeedBoost: {Cooldown: 20 * time.Second, Effect: WeaponEffectSpeed},
	WeaponTeleport:   {Cooldown: 45 * time.Second, Effect: WeaponEffectTeleport},
	WeaponFreeze:     {Cooldown: 35 * time.Second, Damage: freezeDamage, Effect: WeaponEffectFreeze},
	WeaponLaser:      {Cooldown: 25 * time.Second, Damage: laserDamage, Effect: WeaponEffectBurn},
}

// LookupWeapon returns the kind that owns the configuration row for kind,
// together with that row. Unknown kinds resolve to the gravity gun so they
// share its cooldown slot.
func LookupWeapon(kind WeaponKind) (WeaponKind, WeaponConfig) {
	if cfg, ok := weaponTable[kind]; ok {
		return kind, cfg
	}
	return WeaponGravityGun, weaponTable[WeaponGravityGun]
}
