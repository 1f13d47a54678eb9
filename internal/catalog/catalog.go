// Package catalog loads ship and weapon templates and battle scenarios from
// YAML and turns them into ready-to-play ships.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/void-tactics/internal/ship"
)

var (
	ErrMalformedCatalog = errors.New("catalog: malformed")
	ErrUnknownType      = errors.New("catalog: unknown type")
)

//go:embed data/default.yaml
var defaultCatalog []byte

// WeaponSpec is a weapon template.
type WeaponSpec struct {
	Range       float64 `yaml:"range"`
	Precision   float64 `yaml:"precision"`
	RateOfFire  int     `yaml:"rate_of_fire"`
	Reliability float64 `yaml:"reliability"`
	Energy      string  `yaml:"energy"`
	DamageMin   int     `yaml:"damage_min"`
	DamageMax   int     `yaml:"damage_max"`
}

// ShipSpec is a ship template with its default loadout.
type ShipSpec struct {
	Image   string         `yaml:"image"`
	Slots   ship.Slots     `yaml:"slots"`
	Speed   float64        `yaml:"speed"`
	Hull    int            `yaml:"hull"`
	Shields map[string]int `yaml:"shields"`
	Weapons []string       `yaml:"weapons"`
}

// Catalog is the immutable lookup table of templates.
type Catalog struct {
	Weapons map[string]WeaponSpec `yaml:"weapons"`
	Ships   map[string]ShipSpec   `yaml:"ships"`
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCatalog, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate checks every template. Errors wrap ErrMalformedCatalog.
func (c *Catalog) Validate() error {
	if len(c.Ships) == 0 {
		return fmt.Errorf("%w: no ships", ErrMalformedCatalog)
	}
	for _, name := range sortedKeys(c.Weapons) {
		if err := c.Weapons[name].validate(); err != nil {
			return fmt.Errorf("%w: weapon %q: %v", ErrMalformedCatalog, name, err)
		}
	}
	for _, name := range sortedKeys(c.Ships) {
		if err := c.validateShip(c.Ships[name]); err != nil {
			return fmt.Errorf("%w: ship %q: %w", ErrMalformedCatalog, name, err)
		}
	}
	return nil
}

func (w WeaponSpec) validate() error {
	switch {
	case w.Range <= 0:
		return errors.New("range must be positive")
	case w.Precision < 0 || w.Precision > 1:
		return errors.New("precision must be in [0,1]")
	case w.Reliability < 0 || w.Reliability > 1:
		return errors.New("reliability must be in [0,1]")
	case w.RateOfFire < 0:
		return errors.New("rate_of_fire must not be negative")
	case w.DamageMin < 0 || w.DamageMax < w.DamageMin:
		return errors.New("damage range invalid")
	}
	_, err := ship.ParseEnergyType(w.Energy)
	return err
}

func (c *Catalog) validateShip(s ShipSpec) error {
	switch {
	case s.Speed < 0:
		return errors.New("speed must not be negative")
	case s.Hull <= 0:
		return errors.New("hull must be positive")
	case s.Slots.Weapon < 0 || s.Slots.Mod < 0 || s.Slots.Boost < 0:
		return errors.New("slot capacities must not be negative")
	case len(s.Weapons) > s.Slots.Weapon:
		return fmt.Errorf("%d weapons for %d slots", len(s.Weapons), s.Slots.Weapon)
	}
	for e, v := range s.Shields {
		if _, err := ship.ParseEnergyType(e); err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("negative %s shield", e)
		}
	}
	for _, w := range s.Weapons {
		if _, ok := c.Weapons[w]; !ok {
			return fmt.Errorf("%w weapon %q", ErrUnknownType, w)
		}
	}
	return nil
}

// ShipTypes returns the ship type names in sorted order.
func (c *Catalog) ShipTypes() []string { return sortedKeys(c.Ships) }

// NewWeapon builds a fresh weapon from its template.
func (c *Catalog) NewWeapon(name string) (*ship.Weapon, error) {
	spec, ok := c.Weapons[name]
	if !ok {
		return nil, fmt.Errorf("%w: weapon %q", ErrUnknownType, name)
	}
	energy, err := ship.ParseEnergyType(spec.Energy)
	if err != nil {
		return nil, fmt.Errorf("%w: weapon %q: %v", ErrMalformedCatalog, name, err)
	}
	return &ship.Weapon{
		Name:        name,
		Range:       spec.Range,
		Precision:   spec.Precision,
		Reliability: spec.Reliability,
		RateOfFire:  spec.RateOfFire,
		Energy:      energy,
		DamageMin:   spec.DamageMin,
		DamageMax:   spec.DamageMax,
	}, nil
}

// NewShip builds a ship of type typ with its default weapons and shields.
func (c *Catalog) NewShip(id int, typ, name string) (*ship.Ship, error) {
	spec, ok := c.Ships[typ]
	if !ok {
		return nil, fmt.Errorf("%w: ship %q", ErrUnknownType, typ)
	}
	if name == "" {
		name = fmt.Sprintf("%s-%d", typ, id)
	}
	s := ship.New(id, name, typ, spec.Speed, spec.Hull, spec.Slots)
	for e, v := range spec.Shields {
		energy, err := ship.ParseEnergyType(e)
		if err != nil {
			return nil, fmt.Errorf("%w: ship %q: %v", ErrMalformedCatalog, typ, err)
		}
		s.Shields[energy] = v
	}
	for _, wn := range spec.Weapons {
		w, err := c.NewWeapon(wn)
		if err != nil {
			return nil, err
		}
		if err := s.AddWeapon(w); err != nil {
			return nil, fmt.Errorf("ship %q: %w", typ, err)
		}
	}
	return s, nil
}

// ModSpec describes a mod or boost in a scenario.
type ModSpec struct {
	Kind   string `yaml:"kind"`
	Level  int    `yaml:"level"`
	Energy string `yaml:"energy"`
	Weapon string `yaml:"weapon"`
	Uses   int    `yaml:"uses"`
}

// BuildMod resolves a ModSpec against the catalog.
func (c *Catalog) BuildMod(ms ModSpec) (ship.Mod, error) {
	kind, err := ship.ParseModKind(ms.Kind)
	if err != nil {
		return ship.Mod{}, fmt.Errorf("%w: %v", ErrUnknownType, err)
	}
	switch kind {
	case ship.SpeedMod:
		return ship.Speed(ms.Level), nil
	case ship.HullMod:
		return ship.Hull(ms.Level), nil
	case ship.WeaponMod:
		return ship.Tuning(ms.Level), nil
	case ship.ShieldMod:
		e, err := ship.ParseEnergyType(ms.Energy)
		if err != nil {
			return ship.Mod{}, fmt.Errorf("%w: %v", ErrMalformedCatalog, err)
		}
		return ship.Shield(ms.Level, e), nil
	default:
		w, err := c.NewWeapon(ms.Weapon)
		if err != nil {
			return ship.Mod{}, err
		}
		return ship.Item(w), nil
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
