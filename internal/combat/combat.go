// Package combat resolves one attack between two ships.
package combat

import (
	"fmt"
	"math/rand"

	"github.com/Garsondee/void-tactics/internal/ship"
)

var (
	ErrNoActiveWeapon   = ship.ErrNoActiveWeapon
	ErrWeaponJammed     = ship.ErrWeaponJammed
	ErrWeaponOverheated = ship.ErrWeaponOverheated
)

// Result is the kind of an attack outcome.
type Result int

const (
	Jammed Result = iota
	Missed
	Hit
)

func (r Result) String() string {
	switch r {
	case Jammed:
		return "jammed"
	case Missed:
		return "missed"
	case Hit:
		return "hit"
	default:
		return "unknown"
	}
}

// Outcome describes a resolved attack.
type Outcome struct {
	Result    Result
	Weapon    string
	Energy    ship.EnergyType
	Rolled    int // damage rolled before shields
	Damage    int // damage applied to hull, never negative
	Destroyed bool
}

func (o Outcome) String() string {
	switch o.Result {
	case Hit:
		s := fmt.Sprintf("hit %d (%s, rolled %d)", o.Damage, o.Energy, o.Rolled)
		if o.Destroyed {
			s += " destroyed"
		}
		return s
	default:
		return o.Result.String()
	}
}

// Resolver rolls attacks with an injected random source. A Resolver built
// from a seeded source yields the same outcome sequence on every run.
type Resolver struct {
	rng *rand.Rand
}

func NewResolver(rng *rand.Rand) *Resolver {
	return &Resolver{rng: rng}
}

// Check reports why attacker cannot fire its active weapon, or nil.
func Check(attacker *ship.Ship) error {
	w := attacker.ActiveWeapon()
	switch {
	case w == nil:
		return ErrNoActiveWeapon
	case w.Jammed:
		return ErrWeaponJammed
	case w.Overheated():
		return ErrWeaponOverheated
	}
	return nil
}

// Resolve fires attacker's active weapon at defender. The weapon heats up,
// then may jam (which deselects it), then may miss; a hit rolls damage in
// [DamageMin, DamageMax], subtracts the defender's shield for the weapon's
// energy and applies the rest to hull. Removal of a destroyed defender from
// play is left to the caller. Nothing is mutated when Check fails.
func (r *Resolver) Resolve(attacker, defender *ship.Ship) (Outcome, error) {
	if err := Check(attacker); err != nil {
		return Outcome{}, err
	}
	w := attacker.ActiveWeapon()
	out := Outcome{Weapon: w.Name, Energy: w.Energy}

	w.Heat()

	if r.rng.Float64() > w.Reliability {
		w.Jammed = true
		attacker.DeselectWeapon()
		out.Result = Jammed
		return out, nil
	}

	if r.rng.Float64() > w.EffectivePrecision() {
		out.Result = Missed
		return out, nil
	}

	out.Result = Hit
	out.Rolled = r.rollDamage(w)
	out.Damage = defender.TakeDamage(out.Rolled - defender.Shield(w.Energy))
	out.Destroyed = defender.Destroyed()
	return out, nil
}

func (r *Resolver) rollDamage(w *ship.Weapon) int {
	lo, hi := w.DamageMin, w.DamageMax
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + r.rng.Intn(hi-lo+1)
}

// ExpectedDamage is the mean hull damage one shot of w deals to defender,
// accounting for reliability, precision and shields.
func ExpectedDamage(w *ship.Weapon, defender *ship.Ship) float64 {
	shield := defender.Shield(w.Energy)
	lo, hi := w.DamageMin, w.DamageMax
	if hi < lo {
		lo, hi = hi, lo
	}
	total := 0
	for d := lo; d <= hi; d++ {
		total += max(0, d-shield)
	}
	mean := float64(total) / float64(hi-lo+1)
	return w.Reliability * w.EffectivePrecision() * mean
}
