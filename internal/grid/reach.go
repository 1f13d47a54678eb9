package grid

import (
	"container/heap"
	"math"

	"github.com/zyedidia/generic/mapset"
)

// budgetSlack widens the reach limit to budget+0.5 so a budget of one covers
// the full ring of eight neighbours, diagonals (√2) included. A strict
// dist <= budget test would drop the diagonals.
const budgetSlack = 0.5

// Reach is the result of a reachability query: every cell whose shortest
// distance from Origin fits Budget, plus the full distance and predecessor
// arrays of the shortest-path tree.
type Reach struct {
	Origin Cell
	Budget float64
	Dist   []float64 // indexed by Graph.Index; +Inf when unreachable
	Pred   []int     // predecessor cell index; -1 at the origin and unreachable cells
	Cells  mapset.Set[Cell]

	graph *Graph
}

// Contains reports whether c is in the reachable set.
func (r *Reach) Contains(c Cell) bool {
	if r == nil || !r.graph.InBounds(c) {
		return false
	}
	return r.Cells.Has(c)
}

// DistanceTo returns the shortest distance from the origin to c.
func (r *Reach) DistanceTo(c Cell) float64 {
	if r == nil || !r.graph.InBounds(c) {
		return math.Inf(1)
	}
	return r.Dist[r.graph.Index(c)]
}

// Sorted returns the reachable cells in row-major order.
func (r *Reach) Sorted() []Cell {
	if r == nil {
		return nil
	}
	out := make([]Cell, 0, r.Cells.Size())
	r.Cells.Each(func(c Cell) {
		out = append(out, c)
	})
	sortCells(out)
	return out
}

// PathTo reconstructs the path to a member of the reachable set.
func (r *Reach) PathTo(dest Cell) ([]Cell, error) {
	if !r.Contains(dest) {
		return nil, ErrOutOfRange
	}
	return r.graph.ReconstructPath(r.Origin, dest, r.Pred)
}

type queueItem struct {
	idx  int
	dist float64
}

type distQueue []queueItem

func (q distQueue) Len() int            { return len(q) }
func (q distQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q distQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *distQueue) Push(x interface{}) { *q = append(*q, x.(queueItem)) }
func (q *distQueue) Pop() interface{} {
	old := *q
	it := old[len(old)-1]
	*q = old[:len(old)-1]
	return it
}

// ShortestPaths runs Dijkstra from origin over the whole graph and returns
// the distance and predecessor arrays.
func (g *Graph) ShortestPaths(origin Cell) ([]float64, []int, error) {
	n := g.Size()
	dist := make([]float64, n)
	pred := make([]int, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		pred[i] = -1
	}
	if !g.InBounds(origin) {
		return dist, pred, ErrInvalidCoordinate
	}

	src := g.Index(origin)
	dist[src] = 0
	done := make([]bool, n)
	q := &distQueue{{idx: src}}
	for q.Len() > 0 {
		cur := heap.Pop(q).(queueItem)
		if done[cur.idx] {
			continue
		}
		done[cur.idx] = true
		c := g.CellAt(cur.idx)
		base := cur.idx * dirCount
		for d, o := range dirs {
			w := g.weights[base+d]
			if w <= 0 {
				continue
			}
			nidx := g.Index(c.Add(o[0], o[1]))
			if done[nidx] {
				continue
			}
			nd := cur.dist + w
			if nd < dist[nidx] {
				dist[nidx] = nd
				pred[nidx] = cur.idx
				heap.Push(q, queueItem{idx: nidx, dist: nd})
			}
		}
	}
	return dist, pred, nil
}

// ReachableCells returns every cell within budget of origin together with the
// predecessor array for path reconstruction. Obstacle cells are never
// reachable, including an obstacle origin.
func (g *Graph) ReachableCells(origin Cell, budget float64) (*Reach, error) {
	dist, pred, err := g.ShortestPaths(origin)
	r := &Reach{
		Origin: origin,
		Budget: budget,
		Dist:   dist,
		Pred:   pred,
		Cells:  mapset.New[Cell](),
		graph:  g,
	}
	if err != nil {
		return r, err
	}
	limit := budget + budgetSlack
	for idx, d := range dist {
		if d < limit && !g.obstacle[idx] {
			r.Cells.Put(g.CellAt(idx))
		}
	}
	return r, nil
}

// Distance returns the shortest-path distance from a to b, +Inf when b
// cannot be reached.
func (g *Graph) Distance(a, b Cell) float64 {
	if !g.InBounds(b) {
		return math.Inf(1)
	}
	dist, _, err := g.ShortestPaths(a)
	if err != nil {
		return math.Inf(1)
	}
	return dist[g.Index(b)]
}

// ReconstructPath walks predecessor links back from dest to origin and
// returns the cells from origin (exclusive) to dest (inclusive). It returns
// an empty path when origin == dest and ErrOutOfRange when dest is not
// connected to origin through pred.
func (g *Graph) ReconstructPath(origin, dest Cell, pred []int) ([]Cell, error) {
	if !g.InBounds(origin) || !g.InBounds(dest) {
		return nil, ErrInvalidCoordinate
	}
	if len(pred) != g.Size() {
		return nil, ErrOutOfRange
	}
	if origin == dest {
		return []Cell{}, nil
	}
	src := g.Index(origin)
	cur := g.Index(dest)
	var rev []Cell
	for steps := 0; cur != src; steps++ {
		if cur < 0 || steps >= len(pred) {
			return nil, ErrOutOfRange
		}
		rev = append(rev, g.CellAt(cur))
		cur = pred[cur]
	}
	path := make([]Cell, len(rev))
	for i, c := range rev {
		path[len(rev)-1-i] = c
	}
	return path, nil
}

// PathCost sums the edge weights along a path that starts at origin.
// It returns +Inf if any step is not a graph edge.
func (g *Graph) PathCost(origin Cell, path []Cell) float64 {
	total := 0.0
	prev := origin
	for _, c := range path {
		w := g.EdgeWeight(prev, c)
		if w <= 0 {
			return math.Inf(1)
		}
		total += w
		prev = c
	}
	return total
}
