package grid

import "sort"

// Line rasterizes the segment from a to b with Bresenham's algorithm and
// returns every cell on it, both endpoints included.
func Line(a, b Cell) []Cell {
	di := abs(b.I - a.I)
	dj := -abs(b.J - a.J)
	si := 1
	if a.I > b.I {
		si = -1
	}
	sj := 1
	if a.J > b.J {
		sj = -1
	}
	err := di + dj

	cells := make([]Cell, 0, max(di, -dj)+1)
	cur := a
	for {
		cells = append(cells, cur)
		if cur == b {
			return cells
		}
		e2 := 2 * err
		if e2 >= dj {
			err += dj
			cur.I += si
		}
		if e2 <= di {
			err += di
			cur.J += sj
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sortCells(cells []Cell) {
	sort.Slice(cells, func(i, j int) bool { return Less(cells[i], cells[j]) })
}
