package selection

import "fmt"

// Cell is a (column, row) coordinate in the grid. A column equal to the grid
// width points one past the last cell of the row.
type Cell struct {
	Col int
	Row int
}

// String formats the cell as row:col for status output and debug logs
func (c Cell) String() string {
	return fmt.Sprintf("%d:%d", c.Row, c.Col)
}

// Before reports whether a comes strictly before b in row-major order
func Before(a, b Cell) bool {
	return a.Row < b.Row || (a.Row == b.Row && a.Col < b.Col)
}

// AddCells advances c by length cells, wrapping onto following rows at width.
func AddCells(c Cell, length, width int) Cell {
	if width < 1 {
		width = 1
	}
	offset := c.Col + length
	return Cell{
		Col: offset % width,
		Row: c.Row + offset/width,
	}
}

// anchor is a cell that may not be set yet
type anchor struct {
	cell Cell
	set  bool
}

func (a anchor) get() (Cell, bool) {
	return a.cell, a.set
}
