package selection

import "testing"

type fixedGeometry struct {
	cols, rows int
}

func (g fixedGeometry) Width() int     { return g.cols }
func (g fixedGeometry) TotalRows() int { return g.rows }

func newTestModel() *Model {
	return New(fixedGeometry{cols: 80, rows: 2})
}

func expectCell(t *testing.T, name string, got Cell, ok bool, want Cell) {
	t.Helper()
	if !ok {
		t.Fatalf("expected %s %v, got none", name, want)
	}
	if got != want {
		t.Fatalf("expected %s %v, got %v", name, want, got)
	}
}

func expectNone(t *testing.T, name string, got Cell, ok bool) {
	t.Helper()
	if ok {
		t.Fatalf("expected no %s, got %v", name, got)
	}
}

func TestBeforeOrdering(t *testing.T) {
	cells := []Cell{
		{0, 0}, {1, 0}, {79, 0}, {80, 0},
		{0, 1}, {5, 1}, {0, 2}, {80, 2},
	}
	for _, a := range cells {
		if Before(a, a) {
			t.Fatalf("expected %v not before itself", a)
		}
		for _, b := range cells {
			if Before(a, b) && Before(b, a) {
				t.Fatalf("expected at most one of Before(%v,%v) and Before(%v,%v)", a, b, b, a)
			}
			if a != b && !Before(a, b) && !Before(b, a) {
				t.Fatalf("expected %v and %v to be ordered", a, b)
			}
			for _, c := range cells {
				if Before(a, b) && Before(b, c) && !Before(a, c) {
					t.Fatalf("expected Before to be transitive for %v < %v < %v", a, b, c)
				}
			}
		}
	}
}

func TestAddCellsWrapsRows(t *testing.T) {
	tests := []struct {
		start  Cell
		length int
		width  int
		want   Cell
	}{
		{Cell{2, 2}, 2, 80, Cell{4, 2}},
		{Cell{78, 2}, 4, 80, Cell{2, 3}},
		{Cell{0, 0}, 80, 80, Cell{0, 1}},
		{Cell{0, 5}, 0, 80, Cell{0, 5}},
		{Cell{3, 0}, 10, 4, Cell{1, 3}},
	}
	for _, tt := range tests {
		if got := AddCells(tt.start, tt.length, tt.width); got != tt.want {
			t.Fatalf("AddCells(%v, %d, %d): expected %v, got %v", tt.start, tt.length, tt.width, tt.want, got)
		}
	}
}

func TestClearSelection(t *testing.T) {
	m := newTestModel()
	m.SetStart(Cell{0, 0})
	m.SetEnd(Cell{10, 2})

	start, ok := m.FinalStart()
	expectCell(t, "start", start, ok, Cell{0, 0})
	end, ok := m.FinalEnd()
	expectCell(t, "end", end, ok, Cell{10, 2})

	m.Clear()
	start, ok = m.FinalStart()
	expectNone(t, "start", start, ok)
	end, ok = m.FinalEnd()
	expectNone(t, "end", end, ok)
}

func TestClearResetsSelectAllAndIsIdempotent(t *testing.T) {
	m := newTestModel()
	m.SetStart(Cell{4, 1})
	m.SetStartLength(3)
	m.SetSelectAll(true)

	for i := 0; i < 2; i++ {
		m.Clear()
		if m.SelectAllActive() {
			t.Fatalf("expected select-all off after clear #%d", i+1)
		}
		if m.StartLength() != 0 {
			t.Fatalf("expected start length 0 after clear #%d, got %d", i+1, m.StartLength())
		}
		if c, ok := m.Start(); ok {
			t.Fatalf("expected no raw start after clear #%d, got %v", i+1, c)
		}
		if c, ok := m.End(); ok {
			t.Fatalf("expected no raw end after clear #%d, got %v", i+1, c)
		}
		start, ok := m.FinalStart()
		expectNone(t, "start", start, ok)
		end, ok := m.FinalEnd()
		expectNone(t, "end", end, ok)
	}
}

func TestAreSelectionValuesReversed(t *testing.T) {
	m := newTestModel()

	m.SetStart(Cell{1, 0})
	m.SetEnd(Cell{0, 0})
	if !m.AreSelectionValuesReversed() {
		t.Fatalf("expected reversed for end before start on the same row")
	}
	m.SetStart(Cell{10, 2})
	m.SetEnd(Cell{0, 0})
	if !m.AreSelectionValuesReversed() {
		t.Fatalf("expected reversed for end on an earlier row")
	}

	m.SetStart(Cell{0, 0})
	m.SetEnd(Cell{1, 0})
	if m.AreSelectionValuesReversed() {
		t.Fatalf("expected not reversed for end after start on the same row")
	}
	m.SetStart(Cell{0, 0})
	m.SetEnd(Cell{10, 2})
	if m.AreSelectionValuesReversed() {
		t.Fatalf("expected not reversed for end on a later row")
	}

	m.ClearEnd()
	if m.AreSelectionValuesReversed() {
		t.Fatalf("expected not reversed without an end anchor")
	}
}

func TestFinalSelectionStart(t *testing.T) {
	t.Run("select all returns the buffer origin", func(t *testing.T) {
		m := newTestModel()
		m.SetStart(Cell{5, 1})
		m.SetSelectAll(true)
		start, ok := m.FinalStart()
		expectCell(t, "start", start, ok, Cell{0, 0})
	})

	t.Run("no start returns none", func(t *testing.T) {
		m := newTestModel()
		m.SetEnd(Cell{1, 1})
		start, ok := m.FinalStart()
		expectNone(t, "start", start, ok)
	})

	t.Run("no end returns the start anchor", func(t *testing.T) {
		m := newTestModel()
		m.SetStart(Cell{2, 2})
		start, ok := m.FinalStart()
		expectCell(t, "start", start, ok, Cell{2, 2})
	})

	t.Run("reversed values return the end anchor", func(t *testing.T) {
		m := newTestModel()
		m.SetStart(Cell{2, 2})
		m.SetEnd(Cell{3, 2})
		start, ok := m.FinalStart()
		expectCell(t, "start", start, ok, Cell{2, 2})

		m.SetEnd(Cell{1, 2})
		start, ok = m.FinalStart()
		expectCell(t, "start", start, ok, Cell{1, 2})
	})
}

func TestFinalSelectionEnd(t *testing.T) {
	t.Run("select all returns the end of the buffer", func(t *testing.T) {
		m := newTestModel()
		m.SetSelectAll(true)
		end, ok := m.FinalEnd()
		expectCell(t, "end", end, ok, Cell{80, 1})
	})

	t.Run("no start returns none even with an end", func(t *testing.T) {
		m := newTestModel()
		end, ok := m.FinalEnd()
		expectNone(t, "end", end, ok)
		m.SetEnd(Cell{1, 2})
		end, ok = m.FinalEnd()
		expectNone(t, "end", end, ok)
	})

	t.Run("no end returns start plus length", func(t *testing.T) {
		m := newTestModel()
		m.SetStart(Cell{2, 2})
		m.SetStartLength(2)
		end, ok := m.FinalEnd()
		expectCell(t, "end", end, ok, Cell{4, 2})
	})

	t.Run("reversed values return start plus length", func(t *testing.T) {
		m := newTestModel()
		m.SetStart(Cell{2, 2})
		m.SetStartLength(2)
		m.SetEnd(Cell{2, 1})
		end, ok := m.FinalEnd()
		expectCell(t, "end", end, ok, Cell{4, 2})
	})

	t.Run("end inside the preset returns start plus length", func(t *testing.T) {
		m := newTestModel()
		m.SetStart(Cell{2, 2})
		m.SetStartLength(2)
		m.SetEnd(Cell{3, 2})
		end, ok := m.FinalEnd()
		expectCell(t, "end", end, ok, Cell{4, 2})
	})

	t.Run("end equal to the preset end returns the preset end", func(t *testing.T) {
		m := newTestModel()
		m.SetStart(Cell{2, 2})
		m.SetStartLength(2)
		m.SetEnd(Cell{4, 2})
		end, ok := m.FinalEnd()
		expectCell(t, "end", end, ok, Cell{4, 2})
	})

	t.Run("preset overflowing the row wraps", func(t *testing.T) {
		m := newTestModel()
		m.SetStart(Cell{78, 2})
		m.SetStartLength(4)
		end, ok := m.FinalEnd()
		expectCell(t, "end", end, ok, Cell{2, 3})
	})

	t.Run("end past the preset wins", func(t *testing.T) {
		m := newTestModel()
		m.SetStart(Cell{2, 2})
		m.SetStartLength(2)
		m.SetEnd(Cell{5, 2})
		end, ok := m.FinalEnd()
		expectCell(t, "end", end, ok, Cell{5, 2})
	})
}

func TestFinalStartNeverAfterFinalEnd(t *testing.T) {
	geo := fixedGeometry{cols: 6, rows: 4}
	for sr := 0; sr < geo.rows; sr++ {
		for sc := 0; sc <= geo.cols; sc++ {
			for er := 0; er < geo.rows; er++ {
				for ec := 0; ec <= geo.cols; ec++ {
					for _, length := range []int{0, 1, 7} {
						m := New(geo)
						m.SetStart(Cell{sc, sr})
						m.SetEnd(Cell{ec, er})
						m.SetStartLength(length)
						start, end, ok := m.Range()
						if !ok {
							t.Fatalf("expected a range for start=%v end=%v", Cell{sc, sr}, Cell{ec, er})
						}
						if Before(end, start) {
							t.Fatalf("expected start %v not after end %v (anchors %v, %v, length %d)",
								start, end, Cell{sc, sr}, Cell{ec, er}, length)
						}
					}
				}
			}
		}
	}
}

func TestGeometryIsReadLive(t *testing.T) {
	geo := &liveGeometry{cols: 80, rows: 2}
	m := New(geo)
	m.SetSelectAll(true)

	end, ok := m.FinalEnd()
	expectCell(t, "end", end, ok, Cell{80, 1})

	geo.cols, geo.rows = 40, 10
	end, ok = m.FinalEnd()
	expectCell(t, "end", end, ok, Cell{40, 9})
}

type liveGeometry struct {
	cols, rows int
}

func (g *liveGeometry) Width() int     { return g.cols }
func (g *liveGeometry) TotalRows() int { return g.rows }

func TestOnTrim(t *testing.T) {
	t.Run("trims a portion of the selection", func(t *testing.T) {
		m := newTestModel()
		m.SetStart(Cell{0, 0})
		m.SetEnd(Cell{10, 2})

		if m.OnTrim(1) {
			t.Fatalf("expected selection to survive the first trim")
		}
		start, ok := m.FinalStart()
		expectCell(t, "start", start, ok, Cell{0, 0})
		end, ok := m.FinalEnd()
		expectCell(t, "end", end, ok, Cell{10, 1})

		if m.OnTrim(1) {
			t.Fatalf("expected selection to survive the second trim")
		}
		start, ok = m.FinalStart()
		expectCell(t, "start", start, ok, Cell{0, 0})
		end, ok = m.FinalEnd()
		expectCell(t, "end", end, ok, Cell{10, 0})

		if !m.OnTrim(1) {
			t.Fatalf("expected the third trim to clear the selection")
		}
		start, ok = m.FinalStart()
		expectNone(t, "start", start, ok)
		end, ok = m.FinalEnd()
		expectNone(t, "end", end, ok)
	})

	t.Run("clears a selection trimmed in its entirety", func(t *testing.T) {
		m := newTestModel()
		m.SetStart(Cell{0, 0})
		m.SetEnd(Cell{10, 0})
		if !m.OnTrim(1) {
			t.Fatalf("expected trim to report the selection cleared")
		}
		start, ok := m.FinalStart()
		expectNone(t, "start", start, ok)
		end, ok := m.FinalEnd()
		expectNone(t, "end", end, ok)
	})

	t.Run("shifts both anchors and keeps columns", func(t *testing.T) {
		m := New(fixedGeometry{cols: 80, rows: 20})
		m.SetStart(Cell{7, 5})
		m.SetEnd(Cell{3, 9})
		m.OnTrim(4)
		start, ok := m.Start()
		expectCell(t, "raw start", start, ok, Cell{7, 1})
		end, ok := m.End()
		expectCell(t, "raw end", end, ok, Cell{3, 5})
	})

	t.Run("start-only selection moves with its row", func(t *testing.T) {
		m := New(fixedGeometry{cols: 80, rows: 20})
		m.SetStart(Cell{4, 3})
		m.SetStartLength(5)
		if m.OnTrim(2) {
			t.Fatalf("expected start-only selection to survive")
		}
		start, ok := m.FinalStart()
		expectCell(t, "start", start, ok, Cell{4, 1})
		end, ok := m.FinalEnd()
		expectCell(t, "end", end, ok, Cell{9, 1})

		if !m.OnTrim(2) {
			t.Fatalf("expected start-only selection above the buffer to be cleared")
		}
		if _, ok := m.Start(); ok {
			t.Fatalf("expected no start after the start row was trimmed")
		}
	})

	t.Run("zero rows and empty selection are no-ops", func(t *testing.T) {
		m := newTestModel()
		if m.OnTrim(3) {
			t.Fatalf("expected no clear on an empty selection")
		}
		m.SetStart(Cell{1, 1})
		m.SetEnd(Cell{2, 1})
		if m.OnTrim(0) {
			t.Fatalf("expected no clear for a zero-row trim")
		}
		end, ok := m.End()
		expectCell(t, "raw end", end, ok, Cell{2, 1})
	})
}

func TestHasSelectionAndContains(t *testing.T) {
	m := newTestModel()
	if m.HasSelection() {
		t.Fatalf("expected no selection on a new model")
	}

	m.SetStart(Cell{3, 0})
	if m.HasSelection() {
		t.Fatalf("expected click-only selection to be empty")
	}
	if m.Contains(Cell{3, 0}) {
		t.Fatalf("expected empty selection to contain nothing")
	}

	m.SetEnd(Cell{2, 1})
	if !m.HasSelection() {
		t.Fatalf("expected a selection after dragging")
	}
	for _, c := range []Cell{{3, 0}, {79, 0}, {80, 0}, {0, 1}, {1, 1}} {
		if !m.Contains(c) {
			t.Fatalf("expected %v inside the selection", c)
		}
	}
	for _, c := range []Cell{{2, 0}, {2, 1}, {5, 1}} {
		if m.Contains(c) {
			t.Fatalf("expected %v outside the selection", c)
		}
	}

	m.Clear()
	m.SetSelectAll(true)
	if !m.HasSelection() || !m.Contains(Cell{79, 1}) {
		t.Fatalf("expected select-all to cover the last cell")
	}
}
