package grid

import "testing"

func TestLine_Horizontal(t *testing.T) {
	cells := Line(Cell{0, 2}, Cell{4, 2})
	if len(cells) != 5 {
		t.Fatalf("expected 5 cells, got %v", cells)
	}
	for i, c := range cells {
		if c != (Cell{i, 2}) {
			t.Fatalf("cell %d = %v", i, c)
		}
	}
}

func TestLine_Diagonal(t *testing.T) {
	cells := Line(Cell{3, 3}, Cell{0, 0})
	want := []Cell{{3, 3}, {2, 2}, {1, 1}, {0, 0}}
	if len(cells) != len(want) {
		t.Fatalf("expected %v, got %v", want, cells)
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, cells)
		}
	}
}

func TestLine_SinglePoint(t *testing.T) {
	cells := Line(Cell{1, 1}, Cell{1, 1})
	if len(cells) != 1 || cells[0] != (Cell{1, 1}) {
		t.Fatalf("expected single cell, got %v", cells)
	}
}

func TestLine_StepsAreAdjacent(t *testing.T) {
	cells := Line(Cell{0, 0}, Cell{7, 3})
	if cells[0] != (Cell{0, 0}) || cells[len(cells)-1] != (Cell{7, 3}) {
		t.Fatalf("endpoints missing: %v", cells)
	}
	for k := 1; k < len(cells); k++ {
		di := abs(cells[k].I - cells[k-1].I)
		dj := abs(cells[k].J - cells[k-1].J)
		if di > 1 || dj > 1 || di+dj == 0 {
			t.Fatalf("non-adjacent step %v -> %v", cells[k-1], cells[k])
		}
	}
}
