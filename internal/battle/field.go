package battle

import (
	"errors"
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"github.com/Garsondee/void-tactics/internal/grid"
	"github.com/Garsondee/void-tactics/internal/ship"
)

// ErrCellUnavailable is returned when placing a ship on an obstacle or an
// occupied cell.
var ErrCellUnavailable = errors.New("battle: cell unavailable")

// Field is the battlefield: the movement graph plus ship occupancy.
type Field struct {
	graph    *grid.Graph
	occupied mapset.Set[grid.Cell]
	ships    map[grid.Cell]*ship.Ship
}

func NewField(g *grid.Graph) *Field {
	return &Field{
		graph:    g,
		occupied: mapset.New[grid.Cell](),
		ships:    make(map[grid.Cell]*ship.Ship),
	}
}

func (f *Field) Graph() *grid.Graph { return f.graph }

// Place puts s on cell c.
func (f *Field) Place(s *ship.Ship, c grid.Cell) error {
	if !f.graph.InBounds(c) {
		return grid.ErrInvalidCoordinate
	}
	if f.graph.Blocked(c) || f.occupied.Has(c) {
		return ErrCellUnavailable
	}
	s.Position = c
	f.occupied.Put(c)
	f.ships[c] = s
	return nil
}

// ShipAt returns the ship on c, or nil.
func (f *Field) ShipAt(c grid.Cell) *ship.Ship {
	return f.ships[c]
}

// Occupied reports whether a ship sits on c.
func (f *Field) Occupied(c grid.Cell) bool {
	return f.occupied.Has(c)
}

func (f *Field) move(s *ship.Ship, to grid.Cell) {
	from := s.Position
	if f.ships[from] == s {
		f.occupied.Remove(from)
		delete(f.ships, from)
	}
	s.Position = to
	f.occupied.Put(to)
	f.ships[to] = s
}

// Remove takes s off the battlefield.
func (f *Field) Remove(s *ship.Ship) {
	if f.ships[s.Position] != s {
		return
	}
	f.occupied.Remove(s.Position)
	delete(f.ships, s.Position)
}

// ReachableCells returns the cells s can move to this turn with its
// current speed. Cells occupied by other ships remain waypoints but are
// not destinations.
func (f *Field) ReachableCells(s *ship.Ship) (*grid.Reach, error) {
	r, err := f.graph.ReachableCells(s.Position, s.Speed)
	if err != nil {
		return r, err
	}
	f.occupied.Each(func(c grid.Cell) {
		if c != s.Position {
			r.Cells.Remove(c)
		}
	})
	return r, nil
}

// ClearLineOfSight rasterizes a→b and reports whether no intermediate cell
// is an obstacle or holds a ship. The endpoints never block.
func (f *Field) ClearLineOfSight(a, b grid.Cell) bool {
	if !f.graph.InBounds(a) || !f.graph.InBounds(b) {
		return false
	}
	cells := grid.Line(a, b)
	if len(cells) <= 2 {
		return true
	}
	for _, c := range cells[1 : len(cells)-1] {
		if f.graph.Blocked(c) || f.occupied.Has(c) {
			return false
		}
	}
	return true
}

// RandomFreeCell picks a uniformly random cell that is neither an obstacle
// nor occupied.
func (f *Field) RandomFreeCell(rng *rand.Rand) (grid.Cell, bool) {
	var free []grid.Cell
	for idx := 0; idx < f.graph.Size(); idx++ {
		c := f.graph.CellAt(idx)
		if !f.graph.Blocked(c) && !f.occupied.Has(c) {
			free = append(free, c)
		}
	}
	if len(free) == 0 {
		return grid.Cell{}, false
	}
	return free[rng.Intn(len(free))], true
}
