// Package grid stores log output as fixed-width rows of cells with a bounded
// scrollback. When the row cap is exceeded the oldest rows are discarded and
// trim listeners are told how many rows went away.
package grid

import (
	"regexp"
	"strings"

	"gridsel/internal/debug"

	"github.com/muesli/reflow/wrap"
	"github.com/rivo/uniseg"
)

const (
	// DefaultMaxRows is used when New is given a non-positive cap
	DefaultMaxRows = 1000
	tabWidth       = 4
)

var sgrRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// row is one physical grid row. A wide grapheme takes its cell plus empty
// continuation cells ("") so that len(cells) is the display width.
type row struct {
	cells []string
	// wrapped marks a row that continues the previous one
	wrapped bool
}

// Grid is a fixed-width, bounded character grid. It is not safe for
// concurrent use.
type Grid struct {
	width   int
	maxRows int
	rows    []row

	trimListeners []func(int)
}

// New creates an empty grid
func New(width, maxRows int) *Grid {
	if width < 1 {
		width = 1
	}
	if maxRows < 1 {
		maxRows = DefaultMaxRows
	}
	return &Grid{
		width:   width,
		maxRows: maxRows,
		rows:    make([]row, 0, maxRows),
	}
}

// Width returns the grid width in columns
func (g *Grid) Width() int {
	return g.width
}

// TotalRows returns the number of retained rows, never less than 1
func (g *Grid) TotalRows() int {
	if len(g.rows) == 0 {
		return 1
	}
	return len(g.rows)
}

// Len returns the number of stored rows (0 for an empty grid)
func (g *Grid) Len() int {
	return len(g.rows)
}

// MaxRows returns the scrollback cap
func (g *Grid) MaxRows() int {
	return g.maxRows
}

// OnTrim registers fn to be called with the number of rows discarded from
// the top, once per discard event.
func (g *Grid) OnTrim(fn func(rows int)) {
	g.trimListeners = append(g.trimListeners, fn)
}

// AppendLine appends one logical line, hard-wrapped at the grid width
func (g *Grid) AppendLine(text string) {
	text = sgrRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", tabWidth))
	text = strings.ReplaceAll(text, "\r", "")

	for _, line := range strings.Split(text, "\n") {
		g.appendLogical(line)
	}
	g.trim()
}

func (g *Grid) appendLogical(line string) {
	w := wrap.NewWriter(g.width)
	w.PreserveSpace = true
	_, _ = w.Write([]byte(line))
	wrapped := strings.Split(w.String(), "\n")
	first := true
	for _, segment := range wrapped {
		for _, cells := range g.cellify(segment) {
			g.rows = append(g.rows, row{cells: cells, wrapped: !first})
			first = false
		}
	}
}

// cellify splits text into grapheme cells, starting a new row whenever the
// next grapheme would not fit. An empty segment yields one empty row.
func (g *Grid) cellify(text string) [][]string {
	var out [][]string
	cur := make([]string, 0, g.width)

	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		cluster := gr.Str()
		w := gr.Width()
		if w < 1 {
			w = 1
		}
		if w > g.width {
			w = g.width
		}
		if len(cur)+w > g.width {
			out = append(out, cur)
			cur = make([]string, 0, g.width)
		}
		cur = append(cur, cluster)
		for i := 1; i < w; i++ {
			cur = append(cur, "")
		}
	}
	return append(out, cur)
}

// trim discards rows above the cap and notifies listeners
func (g *Grid) trim() {
	n := len(g.rows) - g.maxRows
	if n <= 0 {
		return
	}
	kept := make([]row, g.maxRows, cap(g.rows))
	copy(kept, g.rows[n:])
	g.rows = kept
	// The new first row has nothing to continue.
	g.rows[0].wrapped = false

	debug.Log("grid.trim: discarded %d rows, %d retained", n, len(g.rows))
	for _, fn := range g.trimListeners {
		fn(n)
	}
}

// Reset drops every row. This is not a trim, so listeners are not called.
func (g *Grid) Reset() {
	g.rows = g.rows[:0]
}

// Row returns the cells of row i, or nil when out of range
func (g *Grid) Row(i int) []string {
	if i < 0 || i >= len(g.rows) {
		return nil
	}
	return g.rows[i].cells
}

// IsWrapped reports whether row i continues the previous row
func (g *Grid) IsWrapped(i int) bool {
	if i < 0 || i >= len(g.rows) {
		return false
	}
	return g.rows[i].wrapped
}

// RowText returns the text of row i without continuation cells
func (g *Grid) RowText(i int) string {
	return strings.Join(g.Row(i), "")
}
