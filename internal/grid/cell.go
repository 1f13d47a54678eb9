package grid

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidCoordinate is returned for cells outside [0,cols)×[0,rows).
	ErrInvalidCoordinate = errors.New("grid: coordinate outside the grid")
	// ErrOutOfRange is returned when a destination is not reachable from the origin.
	ErrOutOfRange = errors.New("grid: destination out of range")
	// ErrInvalidCost is returned for non-positive terrain cost factors.
	ErrInvalidCost = errors.New("grid: terrain cost factor must be positive")
	// ErrInvalidDimensions is returned when a grid has no rows or no columns.
	ErrInvalidDimensions = errors.New("grid: rows and cols must be positive")
)

// Cell addresses one grid square by column I and row J.
type Cell struct {
	I int `msgpack:"i" yaml:"i"`
	J int `msgpack:"j" yaml:"j"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.I, c.J)
}

// Add returns the cell offset by (di, dj).
func (c Cell) Add(di, dj int) Cell {
	return Cell{I: c.I + di, J: c.J + dj}
}

// EuclideanDistance is the straight-line distance between two cell centres,
// measured in cells. Weapon ranges are compared against it.
func EuclideanDistance(a, b Cell) float64 {
	di := float64(a.I - b.I)
	dj := float64(a.J - b.J)
	return math.Sqrt(di*di + dj*dj)
}

// Less orders cells row-major. Callers that need a deterministic order over a
// set of cells sort with it.
func Less(a, b Cell) bool {
	if a.J != b.J {
		return a.J < b.J
	}
	return a.I < b.I
}
