// Package selection tracks a text selection over a fixed-width, scrollable
// character grid and reduces its raw anchors to one ordered (start, end) pair.
//
// The end cell reported by a Model is exclusive: a selection from (0,0) to
// (width,0) covers the whole first row.
package selection

import (
	"gridsel/internal/debug"
)

// Geometry exposes the live dimensions of the grid a selection lives in
type Geometry interface {
	// Width is the row width in columns (>= 1)
	Width() int
	// TotalRows is the number of retained rows, screen plus scrollback (>= 1)
	TotalRows() int
}

// Model holds the raw selection anchors written by the input handler.
// It is not safe for concurrent use; the owning event loop serialises
// anchor updates and trim notifications.
type Model struct {
	geo Geometry

	start       anchor
	end         anchor
	startLength int
	selectAll   bool
}

// New creates an empty selection over geo
func New(geo Geometry) *Model {
	return &Model{geo: geo}
}

// SetStart sets the anchor where the selection began (mouse down)
func (m *Model) SetStart(c Cell) {
	m.start = anchor{cell: c, set: true}
}

// SetEnd sets the anchor the selection has been extended to
func (m *Model) SetEnd(c Cell) {
	m.end = anchor{cell: c, set: true}
}

// ClearEnd drops the end anchor, leaving a click-only selection
func (m *Model) ClearEnd() {
	m.end = anchor{}
}

// SetStartLength sets how many cells from the start anchor stay selected
// no matter where the end anchor lands (word and line presets).
func (m *Model) SetStartLength(n int) {
	if n < 0 {
		n = 0
	}
	m.startLength = n
}

// SetSelectAll toggles select-all mode, which overrides every anchor
func (m *Model) SetSelectAll(active bool) {
	m.selectAll = active
}

// Start returns the raw start anchor
func (m *Model) Start() (Cell, bool) {
	return m.start.get()
}

// End returns the raw end anchor
func (m *Model) End() (Cell, bool) {
	return m.end.get()
}

// StartLength returns the preset length in cells
func (m *Model) StartLength() int {
	return m.startLength
}

// SelectAllActive reports whether select-all mode is on
func (m *Model) SelectAllActive() bool {
	return m.selectAll
}

// Clear resets the selection, including select-all mode. Safe to call repeatedly.
func (m *Model) Clear() {
	if m.start.set || m.end.set || m.selectAll {
		debug.Log("selection.Clear: start=%v end=%v length=%d all=%v", m.start.cell, m.end.cell, m.startLength, m.selectAll)
	}
	m.start = anchor{}
	m.end = anchor{}
	m.startLength = 0
	m.selectAll = false
}

// AreSelectionValuesReversed reports whether the end anchor sits before the
// start anchor, i.e. the drag moved backwards.
func (m *Model) AreSelectionValuesReversed() bool {
	if !m.start.set || !m.end.set {
		return false
	}
	return Before(m.end.cell, m.start.cell)
}

// FinalStart returns the logical start of the selection
func (m *Model) FinalStart() (Cell, bool) {
	if m.selectAll {
		return Cell{}, true
	}
	if !m.start.set {
		return Cell{}, false
	}
	if !m.end.set {
		return m.start.cell, true
	}
	if m.AreSelectionValuesReversed() {
		return m.end.cell, true
	}
	return m.start.cell, true
}

// FinalEnd returns the logical (exclusive) end of the selection. The preset
// length always stays selected; the end anchor only wins when it lies
// strictly past it.
func (m *Model) FinalEnd() (Cell, bool) {
	if m.selectAll {
		return Cell{Col: m.geo.Width(), Row: m.geo.TotalRows() - 1}, true
	}
	if !m.start.set {
		return Cell{}, false
	}

	candidate := AddCells(m.start.cell, m.startLength, m.geo.Width())
	if !m.end.set || m.AreSelectionValuesReversed() || !Before(candidate, m.end.cell) {
		return candidate, true
	}
	return m.end.cell, true
}

// Range returns both final endpoints, or ok=false when there is no selection
func (m *Model) Range() (start, end Cell, ok bool) {
	start, ok = m.FinalStart()
	if !ok {
		return Cell{}, Cell{}, false
	}
	end, ok = m.FinalEnd()
	if !ok {
		return Cell{}, Cell{}, false
	}
	return start, end, true
}

// HasSelection reports whether the selection covers at least one cell
func (m *Model) HasSelection() bool {
	if m.selectAll {
		return true
	}
	start, end, ok := m.Range()
	return ok && start != end
}

// Contains reports whether c is inside the half-open range [FinalStart, FinalEnd)
func (m *Model) Contains(c Cell) bool {
	start, end, ok := m.Range()
	if !ok {
		return false
	}
	return !Before(c, start) && Before(c, end)
}

// OnTrim shifts the stored anchors after n rows were discarded from the top
// of the grid. It returns true when the selection scrolled out entirely and
// was cleared. Calls compose: each one works on the already shifted anchors.
func (m *Model) OnTrim(n int) bool {
	if n <= 0 || !m.start.set {
		return false
	}

	if !m.end.set {
		// A click-only selection moves with its row and goes away with it.
		row := m.start.cell.Row - n
		if row < 0 {
			debug.Log("selection.OnTrim(%d): start %v trimmed away", n, m.start.cell)
			m.Clear()
			return true
		}
		m.start.cell.Row = row
		return false
	}

	endRow := m.end.cell.Row - n
	if endRow < 0 {
		debug.Log("selection.OnTrim(%d): end %v trimmed away", n, m.end.cell)
		m.Clear()
		return true
	}
	m.end.cell.Row = endRow
	m.start.cell.Row = max(0, m.start.cell.Row-n)
	debug.Log("selection.OnTrim(%d): start=%v end=%v", n, m.start.cell, m.end.cell)
	return false
}
