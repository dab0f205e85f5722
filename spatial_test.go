package main

import "testing"

func hasRef(refs []EntityRef, idx int) bool {
	for _, r := range refs {
		if r.Idx == idx {
			return true
		}
	}
	return false
}

func TestSpatialGridInsertAndQuery(t *testing.T) {
	grid := NewSpatialGrid(40, 80)

	grid.Insert(-10, -20, EntityRef{Idx: 0})

	if !hasRef(grid.QueryBuf(-10, -20, 1, nil), 0) {
		t.Error("expected to find entity at (-10,-20)")
	}
	if hasRef(grid.QueryBuf(30, 60, 1, nil), 0) {
		t.Error("should not find entity at (30,60)")
	}
}

func TestSpatialGridClear(t *testing.T) {
	grid := NewSpatialGrid(40, 80)
	grid.Insert(5, 5, EntityRef{Idx: 0})
	grid.Clear()

	if got := grid.QueryBuf(5, 5, 10, nil); len(got) != 0 {
		t.Errorf("expected 0 results after clear, got %d", len(got))
	}
}

func TestSpatialGridInsertCircle(t *testing.T) {
	grid := NewSpatialGrid(40, 80)

	// boss-sized body straddling cell borders
	grid.InsertCircle(0, -20, 3, EntityRef{Idx: 2})

	if !hasRef(grid.QueryBuf(-2.9, -22.9, 0.1, nil), 2) {
		t.Error("expected to find circle near its bounding box corner")
	}
	if !hasRef(grid.QueryBuf(2.9, -17.1, 0.1, nil), 2) {
		t.Error("expected to find circle near the opposite corner")
	}
}

func TestSpatialGridClampsOutside(t *testing.T) {
	grid := NewSpatialGrid(10, 10)
	grid.Insert(500, -500, EntityRef{Idx: 7})

	if !hasRef(grid.QueryBuf(10, -10, 1, nil), 7) {
		t.Error("out-of-range insert should land in the border cell")
	}
}

func TestSpatialGridEdgeSharesBorderCell(t *testing.T) {
	grid := NewSpatialGrid(10, 10)
	grid.Insert(10, 10, EntityRef{Idx: 1})
	grid.Insert(-10, -10, EntityRef{Idx: 2})

	// far outside the covered area clamps to the same border cells
	if !hasRef(grid.QueryBuf(300, 300, 0, nil), 1) {
		t.Error("point on the upper edge should share the clamped corner cell")
	}
	if !hasRef(grid.QueryBuf(-300, -300, 0, nil), 2) {
		t.Error("point on the lower edge should share the clamped corner cell")
	}
	if len(grid.cells) != 16 {
		t.Errorf("expected a 4x4 grid, got %d cells", len(grid.cells))
	}
}

func TestSpatialGridQueryBufReuse(t *testing.T) {
	grid := NewSpatialGrid(40, 80)
	grid.Insert(0, 0, EntityRef{Idx: 1})

	buf := make([]EntityRef, 0, 8)
	buf = grid.QueryBuf(0, 0, 1, buf[:0])
	buf = grid.QueryBuf(0, 0, 1, buf[:0])
	if len(buf) != 1 {
		t.Errorf("expected 1 ref after reuse, got %d", len(buf))
	}
}
