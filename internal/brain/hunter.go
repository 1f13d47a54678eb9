package brain

import (
	"math"

	"github.com/Garsondee/void-tactics/internal/battle"
	"github.com/Garsondee/void-tactics/internal/combat"
	"github.com/Garsondee/void-tactics/internal/grid"
	"github.com/Garsondee/void-tactics/internal/ship"
)

// Hunter fires at the target it expects to damage most and closes in on
// the nearest enemy. It is deterministic.
type Hunter struct {
	script
}

func NewHunter() *Hunter {
	h := &Hunter{}
	h.pick = hunterChooser{}
	return h
}

type hunterChooser struct{}

// target prefers the highest expected damage, then the lowest hull.
func (hunterChooser) target(_ *battle.Battle, s *ship.Ship, targets []*ship.Ship) *ship.Ship {
	w := s.ActiveWeapon()
	best := targets[0]
	bestDmg := combat.ExpectedDamage(w, best)
	for _, t := range targets[1:] {
		d := combat.ExpectedDamage(w, t)
		if d > bestDmg || (d == bestDmg && t.Hull < best.Hull) {
			best, bestDmg = t, d
		}
	}
	return best
}

// destination picks the cell closest to the nearest enemy, staying at
// weapon range when possible.
func (hunterChooser) destination(b *battle.Battle, s *ship.Ship, cells []grid.Cell) grid.Cell {
	enemy := nearestEnemy(b, s)
	if enemy == nil {
		return cells[0]
	}
	want := 1.0
	if w := s.ActiveWeapon(); w != nil {
		want = math.Max(1, w.Range)
	}
	best := cells[0]
	bestScore := math.Inf(1)
	for _, c := range cells {
		d := grid.EuclideanDistance(c, enemy.Position)
		score := math.Abs(d - want)
		if d <= want && b.Field().ClearLineOfSight(c, enemy.Position) {
			score -= want
		}
		if score < bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

func nearestEnemy(b *battle.Battle, s *ship.Ship) *ship.Ship {
	var best *ship.Ship
	bestDist := math.Inf(1)
	for _, p := range b.Players() {
		if p == s.Owner {
			continue
		}
		for _, e := range p.Fleet() {
			if d := grid.EuclideanDistance(s.Position, e.Position); d < bestDist {
				best, bestDist = e, d
			}
		}
	}
	return best
}
