package battle

import (
	"fmt"

	"github.com/Garsondee/void-tactics/internal/combat"
	"github.com/Garsondee/void-tactics/internal/grid"
	"github.com/Garsondee/void-tactics/internal/ship"
)

// Command is one queued battle action. Move and Attack run asynchronously
// unless the battle completes commands synchronously; Boost and EndOfRound
// complete as soon as they execute.
type Command interface {
	fmt.Stringer
	// phase is the phase entered while the command is in flight, or -1
	// when the command does not change phase.
	phase() Phase
	check(b *Battle) error
	execute(b *Battle)
	finish(b *Battle)
	async() bool
}

// MoveCommand moves Ship along its shortest path to Dest.
type MoveCommand struct {
	Ship *ship.Ship
	Dest grid.Cell
}

func (c MoveCommand) String() string { return fmt.Sprintf("move %s -> %s", c.Ship, c.Dest) }
func (MoveCommand) phase() Phase     { return Move }
func (MoveCommand) async() bool      { return true }

func (c MoveCommand) check(b *Battle) error {
	if err := b.checkActor(c.Ship); err != nil {
		return err
	}
	if c.Ship.MoveCompleted {
		return ErrAlreadyActed
	}
	b.checkPhase(Move)
	r, err := b.field.ReachableCells(c.Ship)
	if err != nil || !r.Contains(c.Dest) {
		return ErrOutOfRange
	}
	return nil
}

func (c MoveCommand) execute(b *Battle) {
	from := c.Ship.Position
	r, err := b.field.ReachableCells(c.Ship)
	var path []grid.Cell
	if err == nil {
		path, err = r.PathTo(c.Dest)
	}
	if err != nil {
		// check guarantees reachability; an error here is a grid bug.
		panic(fmt.Sprintf("battle: no path for %s: %v", c, err))
	}
	b.field.move(c.Ship, c.Dest)
	c.Ship.MoveCompleted = true
	b.emit(ShipMoved{
		Ship: refOf(c.Ship),
		From: from,
		To:   c.Dest,
		Path: path,
		Cost: r.DistanceTo(c.Dest),
	})
}

func (c MoveCommand) finish(b *Battle) { b.afterAction(c.Ship) }

// AttackCommand fires Ship's active weapon at Target.
type AttackCommand struct {
	Ship   *ship.Ship
	Target *ship.Ship
}

func (c AttackCommand) String() string { return fmt.Sprintf("attack %s -> %s", c.Ship, c.Target) }
func (AttackCommand) phase() Phase     { return Attack }
func (AttackCommand) async() bool      { return true }

func (c AttackCommand) check(b *Battle) error {
	if err := b.checkActor(c.Ship); err != nil {
		return err
	}
	if c.Ship.AttackCompleted {
		return ErrAlreadyActed
	}
	b.checkPhase(Attack)
	if err := combat.Check(c.Ship); err != nil {
		return err
	}
	for _, t := range b.TargetsInRange(c.Ship) {
		if t == c.Target {
			return nil
		}
	}
	return ErrOutOfRange
}

func (c AttackCommand) execute(b *Battle) {
	out, err := b.resolver.Resolve(c.Ship, c.Target)
	if err != nil {
		panic(fmt.Sprintf("battle: %s: %v", c, err))
	}
	c.Ship.AttackCompleted = true
	b.emit(AttackResolved{
		Attacker: refOf(c.Ship),
		Defender: refOf(c.Target),
		From:     c.Ship.Position,
		To:       c.Target.Position,
		Weapon:   out.Weapon,
		Result:   out.Result.String(),
		Damage:   out.Damage,
		Hull:     c.Target.Hull,
	})
	switch out.Result {
	case combat.Jammed:
		b.notify("%s: %s jammed", c.Ship.Name, out.Weapon)
	case combat.Missed:
		b.notify("%s missed %s", c.Ship.Name, c.Target.Name)
	case combat.Hit:
		b.notify("%s hit %s for %d", c.Ship.Name, c.Target.Name, out.Damage)
	}
	if out.Destroyed {
		b.destroy(c.Target)
	}
}

func (c AttackCommand) finish(b *Battle) { b.afterAction(c.Ship) }

// BoostCommand consumes one use of boost Index on Ship for this turn.
type BoostCommand struct {
	Ship  *ship.Ship
	Index int
}

func (c BoostCommand) String() string { return fmt.Sprintf("boost %s #%d", c.Ship, c.Index) }
func (BoostCommand) phase() Phase     { return -1 }
func (BoostCommand) async() bool      { return false }

func (c BoostCommand) check(b *Battle) error {
	if err := b.checkActor(c.Ship); err != nil {
		return err
	}
	if !c.Ship.CanBoost(c.Index) {
		return ship.ErrBoostUnavailable
	}
	return nil
}

func (c BoostCommand) execute(b *Battle) {
	mod := c.Ship.Boosts[c.Index].Mod
	if err := c.Ship.UseBoost(c.Index); err != nil {
		panic(fmt.Sprintf("battle: %s: %v", c, err))
	}
	b.emit(BoostUsed{Ship: refOf(c.Ship), Boost: mod.String()})
	b.notify("%s boosted: %s", c.Ship.Name, mod.String())
}

func (c BoostCommand) finish(b *Battle) {
	if b.phase == ShipSelected && b.selected == c.Ship {
		b.refreshSelection()
	}
}

// EndOfRound ends Player's turn.
type EndOfRound struct {
	Player *ship.Player
}

func (c EndOfRound) String() string { return "end of round " + c.Player.Name() }
func (EndOfRound) phase() Phase     { return -1 }
func (EndOfRound) async() bool      { return false }

func (c EndOfRound) check(b *Battle) error {
	if b.phase == GameOver {
		return ErrGameOver
	}
	if c.Player != b.Current() {
		return ErrNotYourTurn
	}
	return nil
}

func (c EndOfRound) execute(b *Battle) {}

func (c EndOfRound) finish(b *Battle) { b.endTurn() }
