package combat

import (
	"context"

	"tower-wars/server/logging"
)

const (
	// EventWeaponUsed is emitted when a weapon activation is accepted.
	EventWeaponUsed logging.EventType = "combat.weapon_used"
	// EventWeaponRejected is emitted when a weapon is still cooling down.
	EventWeaponRejected logging.EventType = "combat.weapon_rejected"
	// EventDamage is emitted when a weapon or status effect removes health.
	EventDamage logging.EventType = "combat.damage"
	// EventDefeat is emitted when a player reaches zero health and respawns.
	EventDefeat logging.EventType = "combat.defeat"
)

// WeaponUsedPayload captures the activation target.
type WeaponUsedPayload struct {
	Weapon  string   `json:"weapon"`
	TargetX float64  `json:"targetX"`
	TargetY float64  `json:"targetY"`
	Hits    []string `json:"hits,omitempty"`
}

// WeaponRejectedPayload captures the remaining cooldown.
type WeaponRejectedPayload struct {
	Weapon      string `json:"weapon"`
	RemainingMs int64  `json:"remainingMs"`
}

// DamagePayload captures the amount dealt to a single target.
type DamagePayload struct {
	Source       string  `json:"source"`
	Amount       float64 `json:"amount"`
	TargetHealth float64 `json:"targetHealth"`
}

// DefeatPayload describes what caused the fatal blow.
type DefeatPayload struct {
	Source string `json:"source"`
}

// WeaponUsed publishes an accepted activation.
func WeaponUsed(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, targets []logging.EntityRef, payload WeaponUsedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventWeaponUsed,
		Tick:     tick,
		Actor:    actor,
		Targets:  targets,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
		Extra:    extra,
	})
}

// WeaponRejected publishes a cooldown rejection.
func WeaponRejected(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload WeaponRejectedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventWeaponRejected,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCombat,
		Payload:  payload,
		Extra:    extra,
	})
}

// Damage publishes a combat damage event for a single target.
func Damage(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload DamagePayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDamage,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCombat,
		Payload:  payload,
		Extra:    extra,
	})
}

// Defeat publishes a combat defeat event for the eliminated player.
func Defeat(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, target logging.EntityRef, payload DefeatPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDefeat,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
		Extra:    extra,
	})
}
