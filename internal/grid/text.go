package grid

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"gridsel/internal/selection"
)

// Text returns the text in the half-open cell range [start, end). Trailing
// blanks are dropped from every row; rows are joined with a newline unless
// the next row is a wrapped continuation.
func (g *Grid) Text(start, end selection.Cell) string {
	if len(g.rows) == 0 || !selection.Before(start, end) {
		return ""
	}
	if start.Row < 0 {
		start = selection.Cell{}
	}
	last := len(g.rows) - 1
	if end.Row > last {
		end = selection.Cell{Col: g.width, Row: last}
	}
	// An end at column 0 selects nothing on its row.
	if end.Col == 0 && end.Row > start.Row {
		end = selection.Cell{Col: g.width, Row: end.Row - 1}
	}

	var b strings.Builder
	for r := start.Row; r <= end.Row; r++ {
		from, to := 0, g.width
		if r == start.Row {
			from = start.Col
		}
		if r == end.Row {
			to = end.Col
		}
		if r > start.Row && !g.rows[r].wrapped {
			b.WriteByte('\n')
		}
		b.WriteString(g.rowSlice(r, from, to))
	}
	return b.String()
}

// rowSlice returns the text of cells [from, to) of row r, right-trimmed
func (g *Grid) rowSlice(r, from, to int) string {
	cells := g.rows[r].cells
	if from < 0 {
		from = 0
	}
	if to > len(cells) {
		to = len(cells)
	}
	if from >= to {
		return ""
	}
	var b strings.Builder
	for _, c := range cells[from:to] {
		b.WriteString(c)
	}
	// Keep the tail of a wrapped row: its spaces belong to the next row's text.
	if r+1 < len(g.rows) && g.rows[r+1].wrapped && to == len(cells) {
		return b.String()
	}
	return strings.TrimRight(b.String(), " ")
}

type wordClass uint8

const (
	wordSpace wordClass = iota
	wordAlpha
	wordPunct
)

func classifyCell(cell string) wordClass {
	r, _ := utf8.DecodeRuneInString(cell)
	switch {
	case cell == "" || unicode.IsSpace(r):
		return wordSpace
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return wordAlpha
	default:
		return wordPunct
	}
}

// cellAt returns the cell at column x of row r, a blank past the row's end
// and "" for a continuation cell.
func (g *Grid) cellAt(r, x int) (cell string, continuation bool) {
	cells := g.rows[r].cells
	if x >= len(cells) {
		return " ", false
	}
	if cells[x] == "" {
		return "", true
	}
	return cells[x], false
}

// WordAt returns the start cell and length in cells of the run of same-class
// characters under c: a word, a punctuation run or a stretch of blanks.
func (g *Grid) WordAt(c selection.Cell) (start selection.Cell, length int, ok bool) {
	if c.Row < 0 || c.Row >= len(g.rows) {
		return selection.Cell{}, 0, false
	}
	x := min(max(c.Col, 0), g.width-1)
	for x > 0 {
		if _, cont := g.cellAt(c.Row, x); !cont {
			break
		}
		x--
	}

	base, _ := g.cellAt(c.Row, x)
	class := classifyCell(base)

	left := x
	for left > 0 {
		prev, cont := g.cellAt(c.Row, left-1)
		if !cont && classifyCell(prev) != class {
			break
		}
		left--
	}
	right := x
	for right < g.width-1 {
		next, cont := g.cellAt(c.Row, right+1)
		if !cont && classifyCell(next) != class {
			break
		}
		right++
	}
	return selection.Cell{Col: left, Row: c.Row}, right - left + 1, true
}

// LineAt returns the start cell and length in cells of the logical line
// containing row r, following wrapped continuation rows in both directions.
func (g *Grid) LineAt(r int) (start selection.Cell, length int, ok bool) {
	if r < 0 || r >= len(g.rows) {
		return selection.Cell{}, 0, false
	}
	first := r
	for first > 0 && g.rows[first].wrapped {
		first--
	}
	last := r
	for last+1 < len(g.rows) && g.rows[last+1].wrapped {
		last++
	}
	return selection.Cell{Row: first}, (last - first + 1) * g.width, true
}
