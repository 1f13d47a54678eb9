// Package ship holds the mutable state of ships, their weapons and the
// players that own them.
package ship

import (
	"fmt"
	"strings"
)

// EnergyType determines which shield value absorbs a weapon's damage.
type EnergyType int

const (
	Kinetic EnergyType = iota
	Plasma
	Sonic
	Exotic
)

// EnergyTypes lists every energy type in declaration order.
var EnergyTypes = []EnergyType{Kinetic, Plasma, Sonic, Exotic}

func (e EnergyType) String() string {
	switch e {
	case Kinetic:
		return "kinetic"
	case Plasma:
		return "plasma"
	case Sonic:
		return "sonic"
	case Exotic:
		return "exotic"
	default:
		return "unknown"
	}
}

// ParseEnergyType is the inverse of String. Matching ignores case.
func ParseEnergyType(s string) (EnergyType, error) {
	for _, e := range EnergyTypes {
		if strings.EqualFold(s, e.String()) {
			return e, nil
		}
	}
	return 0, fmt.Errorf("ship: unknown energy type %q", s)
}
