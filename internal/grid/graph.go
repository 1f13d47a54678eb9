package grid

import "math"

// dirs lists the 8 neighbour offsets. Orthogonal directions come first.
var dirs = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

const dirCount = len(dirs)

func isDiagonal(d int) bool { return d >= 4 }

func baseWeight(d int) float64 {
	if isDiagonal(d) {
		return math.Sqrt2
	}
	return 1
}

// dirIndex returns the direction index for a unit offset, or -1.
func dirIndex(di, dj int) int {
	for d, o := range dirs {
		if o[0] == di && o[1] == dj {
			return d
		}
	}
	return -1
}

// Graph is the weighted movement graph over a rows×cols battlefield.
// Each cell has up to 8 outgoing edges stored in a flat array indexed by
// cell*8+direction; a zero weight means the edge does not exist.
type Graph struct {
	rows     int
	cols     int
	weights  []float64
	obstacle []bool
	cost     []float64 // terrain factor of each cell, 1 for normal ground
}

// NewGraph builds an obstacle-free 8-neighbour graph. Orthogonal edges weigh
// 1 and diagonal edges √2.
func NewGraph(rows, cols int) (*Graph, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	n := rows * cols
	g := &Graph{
		rows:     rows,
		cols:     cols,
		weights:  make([]float64, n*dirCount),
		obstacle: make([]bool, n),
		cost:     make([]float64, n),
	}
	for idx := 0; idx < n; idx++ {
		g.cost[idx] = 1
		c := g.CellAt(idx)
		for d, o := range dirs {
			if g.InBounds(c.Add(o[0], o[1])) {
				g.weights[idx*dirCount+d] = baseWeight(d)
			}
		}
	}
	return g, nil
}

// Rows returns the number of grid rows.
func (g *Graph) Rows() int { return g.rows }

// Cols returns the number of grid columns.
func (g *Graph) Cols() int { return g.cols }

// Size returns the number of cells.
func (g *Graph) Size() int { return g.rows * g.cols }

// InBounds reports whether c lies on the grid.
func (g *Graph) InBounds(c Cell) bool {
	return c.I >= 0 && c.J >= 0 && c.I < g.cols && c.J < g.rows
}

// Index converts a cell to its scalar index i + j*cols.
func (g *Graph) Index(c Cell) int { return c.I + c.J*g.cols }

// CellAt converts a scalar index back to a cell.
func (g *Graph) CellAt(idx int) Cell { return Cell{I: idx % g.cols, J: idx / g.cols} }

// Blocked returns true for obstacle cells and for cells off the grid.
func (g *Graph) Blocked(c Cell) bool {
	if !g.InBounds(c) {
		return true
	}
	return g.obstacle[g.Index(c)]
}

// CostFactor returns the terrain cost factor of c (1 for normal ground).
func (g *Graph) CostFactor(c Cell) float64 {
	if !g.InBounds(c) {
		return 0
	}
	return g.cost[g.Index(c)]
}

// Difficult reports whether c is passable difficult terrain.
func (g *Graph) Difficult(c Cell) bool {
	return g.InBounds(c) && !g.Blocked(c) && g.cost[g.Index(c)] != 1
}

// EdgeWeight returns the weight of the edge a→b, or 0 when they are not
// adjacent or the edge has been removed.
func (g *Graph) EdgeWeight(a, b Cell) float64 {
	if !g.InBounds(a) || !g.InBounds(b) {
		return 0
	}
	d := dirIndex(b.I-a.I, b.J-a.J)
	if d < 0 {
		return 0
	}
	return g.weights[g.Index(a)*dirCount+d]
}

// Neighbors returns the cells reachable from c in one step.
func (g *Graph) Neighbors(c Cell) []Cell {
	if !g.InBounds(c) {
		return nil
	}
	base := g.Index(c) * dirCount
	var out []Cell
	for d, o := range dirs {
		if g.weights[base+d] > 0 {
			out = append(out, c.Add(o[0], o[1]))
		}
	}
	return out
}

func (g *Graph) setEdge(from, to Cell, w float64) {
	if !g.InBounds(from) || !g.InBounds(to) {
		return
	}
	d := dirIndex(to.I-from.I, to.J-from.J)
	if d < 0 {
		return
	}
	g.weights[g.Index(from)*dirCount+d] = w
}

// AddObstacle makes c impassable: every edge into or out of it is removed.
// When c and an existing obstacle touch diagonally, the diagonal edges
// between the two cells flanking that corner are removed as well, so no path
// squeezes between two blocking corners.
func (g *Graph) AddObstacle(c Cell) error {
	if !g.InBounds(c) {
		return ErrInvalidCoordinate
	}
	idx := g.Index(c)
	if g.obstacle[idx] {
		return nil
	}
	g.obstacle[idx] = true
	for _, o := range dirs {
		n := c.Add(o[0], o[1])
		g.setEdge(c, n, 0)
		g.setEdge(n, c, 0)
	}
	for d, o := range dirs {
		if !isDiagonal(d) {
			continue
		}
		corner := c.Add(o[0], o[1])
		if !g.InBounds(corner) || !g.obstacle[g.Index(corner)] {
			continue
		}
		a := c.Add(o[0], 0)
		b := c.Add(0, o[1])
		g.setEdge(a, b, 0)
		g.setEdge(b, a, 0)
	}
	return nil
}

// AddDifficultTerrain scales every edge terminating at c by factor:
// orthogonal edges weigh factor and diagonal edges factor·√2. Removed edges
// stay removed and obstacles are left untouched.
func (g *Graph) AddDifficultTerrain(c Cell, factor float64) error {
	if !g.InBounds(c) {
		return ErrInvalidCoordinate
	}
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return ErrInvalidCost
	}
	idx := g.Index(c)
	if g.obstacle[idx] {
		return nil
	}
	g.cost[idx] = factor
	for d, o := range dirs {
		from := c.Add(-o[0], -o[1])
		if !g.InBounds(from) {
			continue
		}
		e := g.Index(from)*dirCount + d
		if g.weights[e] > 0 {
			g.weights[e] = baseWeight(d) * factor
		}
	}
	return nil
}
