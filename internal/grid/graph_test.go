package grid

import (
	"errors"
	"math"
	"testing"
)

func mustGraph(t *testing.T, rows, cols int) *Graph {
	t.Helper()
	g, err := NewGraph(rows, cols)
	if err != nil {
		t.Fatalf("NewGraph(%d,%d): %v", rows, cols, err)
	}
	return g
}

func TestNewGraph_InvalidDimensions(t *testing.T) {
	if _, err := NewGraph(0, 5); !errors.Is(err, ErrInvalidDimensions) {
		t.Fatalf("expected ErrInvalidDimensions, got %v", err)
	}
}

func TestGraph_EmptyGridWeights(t *testing.T) {
	g := mustGraph(t, 5, 5)
	if w := g.EdgeWeight(Cell{2, 2}, Cell{3, 2}); w != 1 {
		t.Fatalf("orthogonal weight = %f, want 1", w)
	}
	if w := g.EdgeWeight(Cell{2, 2}, Cell{3, 3}); math.Abs(w-math.Sqrt2) > 1e-12 {
		t.Fatalf("diagonal weight = %f, want sqrt2", w)
	}
	if w := g.EdgeWeight(Cell{0, 0}, Cell{-1, 0}); w != 0 {
		t.Fatalf("edge leaving the grid should not exist, got %f", w)
	}
	if w := g.EdgeWeight(Cell{0, 0}, Cell{2, 0}); w != 0 {
		t.Fatalf("non-adjacent cells should have no edge, got %f", w)
	}
	if n := len(g.Neighbors(Cell{0, 0})); n != 3 {
		t.Fatalf("corner cell should have 3 neighbours, got %d", n)
	}
	if n := len(g.Neighbors(Cell{2, 2})); n != 8 {
		t.Fatalf("inner cell should have 8 neighbours, got %d", n)
	}
}

func TestGraph_IndexRoundTrip(t *testing.T) {
	g := mustGraph(t, 4, 7)
	c := Cell{I: 5, J: 2}
	if idx := g.Index(c); idx != 5+2*7 {
		t.Fatalf("index = %d, want %d", idx, 5+2*7)
	}
	if back := g.CellAt(g.Index(c)); back != c {
		t.Fatalf("CellAt(Index(c)) = %v, want %v", back, c)
	}
}

func TestAddObstacle_RemovesAllEdges(t *testing.T) {
	g := mustGraph(t, 5, 5)
	if err := g.AddObstacle(Cell{2, 2}); err != nil {
		t.Fatal(err)
	}
	if len(g.Neighbors(Cell{2, 2})) != 0 {
		t.Fatal("obstacle should have no outgoing edges")
	}
	for _, n := range []Cell{{1, 1}, {2, 1}, {3, 3}, {1, 2}} {
		if w := g.EdgeWeight(n, Cell{2, 2}); w != 0 {
			t.Fatalf("edge %v -> obstacle should be removed, got %f", n, w)
		}
	}
	if !g.Blocked(Cell{2, 2}) {
		t.Fatal("obstacle should be blocked")
	}
	if !g.Blocked(Cell{-1, 0}) {
		t.Fatal("off-grid cell should be blocked")
	}
}

func TestAddObstacle_InvalidCoordinate(t *testing.T) {
	g := mustGraph(t, 5, 5)
	if err := g.AddObstacle(Cell{5, 0}); !errors.Is(err, ErrInvalidCoordinate) {
		t.Fatalf("expected ErrInvalidCoordinate, got %v", err)
	}
}

func TestAddObstacle_CornerCutBlocked(t *testing.T) {
	for _, order := range [][2]Cell{
		{{2, 3}, {3, 2}},
		{{3, 2}, {2, 3}},
	} {
		g := mustGraph(t, 5, 5)
		for _, c := range order {
			if err := g.AddObstacle(c); err != nil {
				t.Fatal(err)
			}
		}
		if w := g.EdgeWeight(Cell{2, 2}, Cell{3, 3}); w != 0 {
			t.Fatalf("diagonal squeezing between two obstacles should be removed, got %f", w)
		}
		if w := g.EdgeWeight(Cell{3, 3}, Cell{2, 2}); w != 0 {
			t.Fatalf("reverse diagonal should be removed too, got %f", w)
		}
		d := g.Distance(Cell{2, 2}, Cell{3, 3})
		if d <= math.Sqrt2 {
			t.Fatalf("corner cut still allowed: distance %f", d)
		}
		if math.Abs(d-3*math.Sqrt2) > 1e-9 {
			t.Fatalf("expected detour of 3*sqrt2, got %f", d)
		}
	}
}

func TestAddObstacle_SingleCornerStillPassable(t *testing.T) {
	g := mustGraph(t, 5, 5)
	if err := g.AddObstacle(Cell{2, 3}); err != nil {
		t.Fatal(err)
	}
	if w := g.EdgeWeight(Cell{2, 2}, Cell{3, 3}); math.Abs(w-math.Sqrt2) > 1e-12 {
		t.Fatalf("one flanking obstacle should not block the diagonal, got %f", w)
	}
}

func TestAddDifficultTerrain_ScalesIncomingEdges(t *testing.T) {
	g := mustGraph(t, 5, 5)
	if err := g.AddDifficultTerrain(Cell{1, 0}, 3); err != nil {
		t.Fatal(err)
	}
	if w := g.EdgeWeight(Cell{0, 0}, Cell{1, 0}); w != 3 {
		t.Fatalf("orthogonal edge into difficult terrain = %f, want 3", w)
	}
	if w := g.EdgeWeight(Cell{0, 1}, Cell{1, 0}); math.Abs(w-3*math.Sqrt2) > 1e-12 {
		t.Fatalf("diagonal edge into difficult terrain = %f, want 3*sqrt2", w)
	}
	if w := g.EdgeWeight(Cell{1, 0}, Cell{0, 0}); w != 1 {
		t.Fatalf("edge leaving difficult terrain should keep base weight, got %f", w)
	}
	if !g.Difficult(Cell{1, 0}) {
		t.Fatal("cell should report difficult terrain")
	}
}

func TestAddDifficultTerrain_Rejections(t *testing.T) {
	g := mustGraph(t, 5, 5)
	if err := g.AddDifficultTerrain(Cell{1, 1}, 0); !errors.Is(err, ErrInvalidCost) {
		t.Fatalf("expected ErrInvalidCost, got %v", err)
	}
	if err := g.AddDifficultTerrain(Cell{9, 9}, 2); !errors.Is(err, ErrInvalidCoordinate) {
		t.Fatalf("expected ErrInvalidCoordinate, got %v", err)
	}
	if err := g.AddObstacle(Cell{3, 3}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddDifficultTerrain(Cell{3, 3}, 2); err != nil {
		t.Fatal(err)
	}
	if w := g.EdgeWeight(Cell{2, 3}, Cell{3, 3}); w != 0 {
		t.Fatalf("difficult terrain must not reopen an obstacle, got %f", w)
	}
}
