package ship

import (
	"errors"
	"fmt"

	"github.com/Garsondee/void-tactics/internal/grid"
)

var (
	ErrNoSuchWeapon     = errors.New("ship: no such weapon")
	ErrBoostUnavailable = errors.New("ship: boost unavailable")
	ErrSlotsFull        = errors.New("ship: no free slot")
	ErrNoActiveWeapon   = errors.New("ship: no active weapon")
	ErrWeaponJammed     = errors.New("ship: weapon jammed")
	ErrWeaponOverheated = errors.New("ship: weapon overheating")
)

// Slots caps how many weapons, mods and boosts a ship carries.
type Slots struct {
	Weapon int `yaml:"weapon"`
	Mod    int `yaml:"mod"`
	Boost  int `yaml:"boost"`
}

// Ship is one combatant on the battlefield.
type Ship struct {
	ID       int
	Name     string
	Type     string
	Owner    *Player
	Position grid.Cell

	Speed   float64 // movement budget per turn
	Hull    int
	MaxHull int
	Shields map[EnergyType]int

	Weapons []*Weapon
	Active  int // index into Weapons, -1 when none is selected
	Slots   Slots
	Mods    []Mod
	Boosts  []*Boost

	MoveCompleted   bool
	AttackCompleted bool
	BoostUsed       bool

	activeBoost *Boost
	tuning      int // summed WeaponMod levels currently applied
}

// New creates an undamaged ship with no weapons or mods.
func New(id int, name, typ string, speed float64, hull int, slots Slots) *Ship {
	return &Ship{
		ID:      id,
		Name:    name,
		Type:    typ,
		Speed:   speed,
		Hull:    hull,
		MaxHull: hull,
		Shields: make(map[EnergyType]int),
		Active:  -1,
		Slots:   slots,
	}
}

func (s *Ship) String() string {
	return fmt.Sprintf("%s#%d", s.Name, s.ID)
}

// TurnCompleted reports whether the ship has both moved and attacked.
func (s *Ship) TurnCompleted() bool {
	return s.MoveCompleted && s.AttackCompleted
}

// Destroyed reports whether hull has dropped to zero or below.
func (s *Ship) Destroyed() bool {
	return s.Hull <= 0
}

// ActiveWeapon returns the selected weapon, or nil.
func (s *Ship) ActiveWeapon() *Weapon {
	if s.Active < 0 || s.Active >= len(s.Weapons) {
		return nil
	}
	return s.Weapons[s.Active]
}

// SelectWeapon makes weapon idx the active one. Jammed weapons cannot be
// selected; an overheated weapon can, it just cannot fire yet.
func (s *Ship) SelectWeapon(idx int) error {
	if idx < 0 || idx >= len(s.Weapons) {
		return ErrNoSuchWeapon
	}
	if s.Weapons[idx].Jammed {
		return ErrWeaponJammed
	}
	s.Active = idx
	return nil
}

// DeselectWeapon clears the active weapon.
func (s *Ship) DeselectWeapon() {
	s.Active = -1
}

// Shield returns the damage reduction against energy e.
func (s *Ship) Shield(e EnergyType) int {
	return s.Shields[e]
}

// AddWeapon mounts w in a free weapon slot.
func (s *Ship) AddWeapon(w *Weapon) error {
	if len(s.Weapons) >= s.Slots.Weapon {
		return ErrSlotsFull
	}
	s.attach(w)
	return nil
}

// attach mounts w and gives it the ship's current tuning bonus.
func (s *Ship) attach(w *Weapon) {
	w.PrecisionBonus += s.tuningBonus()
	s.Weapons = append(s.Weapons, w)
}

// tune shifts the tuning level by levels, on every mounted weapon.
func (s *Ship) tune(levels int) {
	s.tuning += levels
	for _, w := range s.Weapons {
		w.PrecisionBonus += precisionPerLevel * float64(levels)
	}
}

func (s *Ship) tuningBonus() float64 { return precisionPerLevel * float64(s.tuning) }

// Install applies m permanently. Weapon items take a weapon slot, every
// other kind takes a mod slot.
func (s *Ship) Install(m Mod) error {
	if m.Kind == WeaponItem {
		if m.Weapon == nil {
			return ErrNoSuchWeapon
		}
		if len(s.Weapons) >= s.Slots.Weapon {
			return ErrSlotsFull
		}
	} else if s.modCount() >= s.Slots.Mod {
		return ErrSlotsFull
	}
	s.Mods = append(s.Mods, m)
	m.Apply(s)
	return nil
}

func (s *Ship) modCount() int {
	n := 0
	for _, m := range s.Mods {
		if m.Kind != WeaponItem {
			n++
		}
	}
	return n
}

// AddBoost stores b in a free boost slot.
func (s *Ship) AddBoost(b *Boost) error {
	if len(s.Boosts) >= s.Slots.Boost {
		return ErrSlotsFull
	}
	s.Boosts = append(s.Boosts, b)
	return nil
}

// CanBoost reports whether boost i can be used this turn.
func (s *Ship) CanBoost(i int) bool {
	return !s.BoostUsed && i >= 0 && i < len(s.Boosts) && s.Boosts[i].Uses > 0
}

// UseBoost applies boost i until the ship's next ResetTurn. At most one
// boost per turn.
func (s *Ship) UseBoost(i int) error {
	if !s.CanBoost(i) {
		return ErrBoostUnavailable
	}
	b := s.Boosts[i]
	b.Uses--
	b.Mod.Apply(s)
	s.BoostUsed = true
	s.activeBoost = b
	return nil
}

// TakeDamage subtracts d from hull. Negative damage is treated as zero.
// It returns the damage actually applied.
func (s *Ship) TakeDamage(d int) int {
	if d < 0 {
		d = 0
	}
	s.Hull -= d
	return d
}

// ResetTurn prepares the ship for its owner's next turn: action flags are
// cleared, the active boost wears off, weapons cool down and jams are
// cleared. If no weapon is selected the first operational one is.
func (s *Ship) ResetTurn() {
	s.MoveCompleted = false
	s.AttackCompleted = false
	s.BoostUsed = false
	if s.activeBoost != nil {
		s.activeBoost.Mod.Revert(s)
		s.activeBoost = nil
	}
	for _, w := range s.Weapons {
		w.Cool()
		w.Jammed = false
	}
	if s.ActiveWeapon() == nil {
		s.Active = -1
		for i, w := range s.Weapons {
			if w.Operational() {
				s.Active = i
				break
			}
		}
	}
}

func (s *Ship) removeWeapon(w *Weapon) {
	for i, cur := range s.Weapons {
		if cur != w {
			continue
		}
		w.PrecisionBonus -= s.tuningBonus()
		s.Weapons = append(s.Weapons[:i], s.Weapons[i+1:]...)
		switch {
		case s.Active == i:
			s.Active = -1
		case s.Active > i:
			s.Active--
		}
		return
	}
}
