package ship

import (
	"fmt"
	"strings"
)

// ModKind tags the variant held by a Mod.
type ModKind int

const (
	SpeedMod ModKind = iota
	ShieldMod
	HullMod
	WeaponMod
	WeaponItem
)

// hullPerLevel is the hull granted per HullMod level.
const hullPerLevel = 10

var modKindNames = map[ModKind]string{
	SpeedMod:   "speed",
	ShieldMod:  "shield",
	HullMod:    "hull",
	WeaponMod:  "weapon_mod",
	WeaponItem: "weapon",
}

func (k ModKind) String() string {
	if n, ok := modKindNames[k]; ok {
		return n
	}
	return "unknown"
}

// ParseModKind is the inverse of String.
func ParseModKind(s string) (ModKind, error) {
	for k, n := range modKindNames {
		if strings.EqualFold(s, n) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("ship: unknown mod kind %q", s)
}

// Mod is a ship modification. Only the fields relevant to Kind are used:
// Level for speed/shield/hull/weapon mods, Energy for shield mods and
// Weapon for weapon items.
type Mod struct {
	Kind   ModKind
	Level  int
	Energy EnergyType
	Weapon *Weapon
}

func Speed(level int) Mod                     { return Mod{Kind: SpeedMod, Level: level} }
func Shield(level int, energy EnergyType) Mod { return Mod{Kind: ShieldMod, Level: level, Energy: energy} }
func Hull(level int) Mod                      { return Mod{Kind: HullMod, Level: level} }
func Tuning(level int) Mod                    { return Mod{Kind: WeaponMod, Level: level} }
func Item(w *Weapon) Mod                      { return Mod{Kind: WeaponItem, Weapon: w} }

func (m Mod) String() string {
	switch m.Kind {
	case ShieldMod:
		return fmt.Sprintf("%s+%d(%s)", m.Kind, m.Level, m.Energy)
	case WeaponItem:
		if m.Weapon == nil {
			return "weapon(nil)"
		}
		return "weapon(" + m.Weapon.Name + ")"
	default:
		return fmt.Sprintf("%s+%d", m.Kind, m.Level)
	}
}

// Apply adds the modification's effect to s.
func (m Mod) Apply(s *Ship) {
	switch m.Kind {
	case SpeedMod:
		s.Speed += float64(m.Level)
	case ShieldMod:
		if s.Shields == nil {
			s.Shields = make(map[EnergyType]int)
		}
		s.Shields[m.Energy] += m.Level
	case HullMod:
		s.MaxHull += hullPerLevel * m.Level
		s.Hull += hullPerLevel * m.Level
	case WeaponMod:
		s.tune(m.Level)
	case WeaponItem:
		if m.Weapon != nil {
			s.attach(m.Weapon)
		}
	}
}

// Revert undoes Apply. Reverting a hull mod lowers max hull and caps the
// current hull to it; it never destroys the ship.
func (m Mod) Revert(s *Ship) {
	switch m.Kind {
	case SpeedMod:
		s.Speed -= float64(m.Level)
	case ShieldMod:
		if s.Shields == nil {
			return
		}
		s.Shields[m.Energy] -= m.Level
		if s.Shields[m.Energy] <= 0 {
			delete(s.Shields, m.Energy)
		}
	case HullMod:
		s.MaxHull -= hullPerLevel * m.Level
		s.Hull = min(s.Hull, s.MaxHull)
	case WeaponMod:
		s.tune(-m.Level)
	case WeaponItem:
		s.removeWeapon(m.Weapon)
	}
}

// Boost is a mod with a limited number of one-turn uses.
type Boost struct {
	Mod  Mod
	Uses int
}
