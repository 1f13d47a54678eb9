// Package brain contains computer opponents. Brains only use the public
// battle API: reachable cells, targets in range and Submit.
package brain

import (
	"math/rand"

	"github.com/Garsondee/void-tactics/internal/battle"
	"github.com/Garsondee/void-tactics/internal/grid"
	"github.com/Garsondee/void-tactics/internal/ship"
)

// stage of a ship's scripted turn
const (
	stageFirstAttack = iota
	stageMove
	stageSecondAttack
	stageDone
)

// chooser picks a target and a destination for one ship.
type chooser interface {
	target(b *battle.Battle, s *ship.Ship, targets []*ship.Ship) *ship.Ship
	destination(b *battle.Battle, s *ship.Ship, cells []grid.Cell) grid.Cell
}

// script walks the fleet one ship at a time: attack if something is in
// range, move, attack again if the first attempt found nothing. Each Think
// call submits at most one command; once every ship has been visited the
// round is ended.
type script struct {
	pick   chooser
	serial int
	order  []*ship.Ship
	idx    int
	stage  int
}

func (sc *script) Think(b *battle.Battle) {
	p := b.Current()
	if b.TurnSerial() != sc.serial {
		sc.serial = b.TurnSerial()
		sc.order = append(sc.order[:0], p.Fleet()...)
		sc.idx = 0
		sc.stage = stageFirstAttack
	}
	for sc.idx < len(sc.order) {
		s := sc.order[sc.idx]
		if s.Destroyed() {
			sc.next()
			continue
		}
		switch sc.stage {
		case stageFirstAttack:
			sc.stage = stageMove
			if sc.attack(b, s) {
				return
			}
		case stageMove:
			sc.stage = stageSecondAttack
			if sc.move(b, s) {
				return
			}
		case stageSecondAttack:
			sc.stage = stageDone
			if sc.attack(b, s) {
				return
			}
		default:
			sc.next()
		}
	}
	_ = b.Submit(battle.EndOfRound{Player: p})
}

func (sc *script) next() {
	sc.idx++
	sc.stage = stageFirstAttack
}

func (sc *script) attack(b *battle.Battle, s *ship.Ship) bool {
	if s.AttackCompleted || !armWeapon(b, s) {
		return false
	}
	targets := b.TargetsInRange(s)
	if len(targets) == 0 {
		return false
	}
	t := sc.pick.target(b, s, targets)
	return b.Submit(battle.AttackCommand{Ship: s, Target: t}) == nil
}

func (sc *script) move(b *battle.Battle, s *ship.Ship) bool {
	if s.MoveCompleted {
		return false
	}
	r := b.ReachableCells(s)
	var cells []grid.Cell
	for _, c := range r.Sorted() {
		if c != s.Position {
			cells = append(cells, c)
		}
	}
	if len(cells) == 0 {
		return false
	}
	dest := sc.pick.destination(b, s, cells)
	return b.Submit(battle.MoveCommand{Ship: s, Dest: dest}) == nil
}

// armWeapon makes sure s has an operational weapon selected.
func armWeapon(b *battle.Battle, s *ship.Ship) bool {
	if w := s.ActiveWeapon(); w != nil && w.Operational() {
		return true
	}
	for i, w := range s.Weapons {
		if w.Operational() && b.SelectWeapon(s, i) == nil {
			return true
		}
	}
	return false
}

// Random attacks a random target and moves to a random reachable cell.
type Random struct {
	script
}

func NewRandom(rng *rand.Rand) *Random {
	r := &Random{}
	r.pick = randomChooser{rng: rng}
	return r
}

type randomChooser struct {
	rng *rand.Rand
}

func (rc randomChooser) target(_ *battle.Battle, _ *ship.Ship, targets []*ship.Ship) *ship.Ship {
	return targets[rc.rng.Intn(len(targets))]
}

func (rc randomChooser) destination(_ *battle.Battle, _ *ship.Ship, cells []grid.Cell) grid.Cell {
	return cells[rc.rng.Intn(len(cells))]
}
