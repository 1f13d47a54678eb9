package ship

// Player owns an ordered fleet.
type Player struct {
	name  string
	fleet []*Ship
}

func NewPlayer(name string) *Player {
	return &Player{name: name}
}

func (p *Player) Name() string { return p.name }

// Fleet returns the player's ships in roster order. The slice must not be
// modified by callers.
func (p *Player) Fleet() []*Ship { return p.fleet }

// AddShip appends s to the fleet and makes p its owner.
func (p *Player) AddShip(s *Ship) {
	s.Owner = p
	p.fleet = append(p.fleet, s)
}

// RemoveShip drops s from the fleet, preserving roster order.
func (p *Player) RemoveShip(s *Ship) bool {
	for i, cur := range p.fleet {
		if cur == s {
			p.fleet = append(p.fleet[:i], p.fleet[i+1:]...)
			return true
		}
	}
	return false
}

// TurnCompleted reports whether every ship in the fleet has completed its
// turn. It is vacuously true for an empty fleet.
func (p *Player) TurnCompleted() bool {
	for _, s := range p.fleet {
		if !s.TurnCompleted() {
			return false
		}
	}
	return true
}

// CompleteTurn marks every ship as having moved and attacked.
func (p *Player) CompleteTurn() {
	for _, s := range p.fleet {
		s.MoveCompleted = true
		s.AttackCompleted = true
	}
}

// ResetShipsTurn calls ResetTurn on every ship.
func (p *Player) ResetShipsTurn() {
	for _, s := range p.fleet {
		s.ResetTurn()
	}
}

// Lost reports whether the fleet is empty.
func (p *Player) Lost() bool {
	return len(p.fleet) == 0
}
