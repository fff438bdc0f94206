package game

import (
	"sort"
	"time"
)

// StatusEffect is the expiry record of one active effect.
type StatusEffect struct {
	Start    time.Time
	Duration time.Duration
}

// Expired matches the sweep rule: an effect lives while now-start <= duration.
func (e StatusEffect) Expired(now time.Time) bool {
	return now.Sub(e.Start) > e.Duration
}

// StatusEffects is the per-player effect ledger. Expiry is lazy: entries stay
// until Sweep runs, but Has always re-checks liveness.
type StatusEffects map[EffectKind]StatusEffect

// Has reports whether kind is present and not yet expired at now.
func (s StatusEffects) Has(kind EffectKind, now time.Time) bool {
	effect, ok := s[kind]
	return ok && !effect.Expired(now)
}

// Apply starts kind at now, overwriting any previous entry. It reports
// whether a live entry was restarted.
func (s StatusEffects) Apply(kind EffectKind, duration time.Duration, now time.Time) bool {
	refreshed := s.Has(kind, now)
	s[kind] = StatusEffect{Start: now, Duration: duration}
	return refreshed
}

// Sweep drops expired entries and returns their kinds in stable order.
func (s StatusEffects) Sweep(now time.Time) []EffectKind {
	var removed []EffectKind
	for kind, effect := range s {
		if effect.Expired(now) {
			delete(s, kind)
			removed = append(removed, kind)
		}
	}
	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })
	return removed
}

func (s StatusEffects) Clear() {
	clear(s)
}

// Active lists the live kinds in stable order.
func (s StatusEffects) Active(now time.Time) []EffectKind {
	kinds := make([]EffectKind, 0, len(s))
	for kind, effect := range s {
		if !effect.Expired(now) {
			kinds = append(kinds, kind)
		}
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Cooldowns maps each weapon to the first instant it may fire again.
type Cooldowns map[WeaponKind]time.Time

// Ready reports whether kind may fire at now.
func (c Cooldowns) Ready(kind WeaponKind, now time.Time) bool {
	return c.Remaining(kind, now) == 0
}

// Remaining returns how long until kind is usable, zero when ready.
func (c Cooldowns) Remaining(kind WeaponKind, now time.Time) time.Duration {
	until, ok := c[kind]
	if !ok || !now.Before(until) {
		return 0
	}
	return until.Sub(now)
}

func (c Cooldowns) Clear() {
	clear(c)
}
