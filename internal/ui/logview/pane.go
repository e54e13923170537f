package logview

import (
	"fmt"
	"regexp"
	"strings"

	"gridsel/internal/debug"
	"gridsel/internal/docker"
	"gridsel/internal/grid"
	"gridsel/internal/selection"
	"gridsel/internal/ui/common"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// Regex patterns for terminal control sequences to strip. SGR is left to the grid.
var (
	// RIS and other single-character ESC sequences (ESC c, ESC D, ESC M, ...)
	singleEscRe = regexp.MustCompile(`\x1b[cDEHMNOPVWXZ7-9=>]`)
	// OSC sequences (title changes, etc.): ESC ] ... BEL or ESC ] ... ST
	oscRe = regexp.MustCompile(`\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)
	// DCS, APC, PM and SOS strings
	stringSeqRe = regexp.MustCompile(`\x1b[P_^X][^\x1b]*\x1b\\`)
	// Every CSI sequence except SGR ('m')
	csiRe = regexp.MustCompile(`\x1b\[[?>=!]?[\d;]*[^m\d;]`)
)

// sanitizeLogContent removes terminal control sequences that would move the
// cursor or clear the screen; only text and SGR survive.
func sanitizeLogContent(content string) string {
	content = oscRe.ReplaceAllString(content, "")
	content = stringSeqRe.ReplaceAllString(content, "")
	content = csiRe.ReplaceAllString(content, "")
	content = singleEscRe.ReplaceAllString(content, "")
	content = strings.ReplaceAll(content, "\r", "")
	return strings.TrimRight(content, " \t")
}

const (
	// Border (1) on each side
	paneChromeWidth = 2
	// Border (1) top and bottom plus title line
	paneChromeHeight = 3
	// Column reserved for the scroll bar
	scrollBarWidth = 1
)

// GridWidthFor returns the grid width that fits a pane of the given outer width
func GridWidthFor(paneWidth int) int {
	w := paneWidth - paneChromeWidth - scrollBarWidth
	if w < 10 {
		w = 10
	}
	return w
}

// Pane renders one grid with its selection. The pane owns both; the grid's
// trim events are routed to the selection so anchors follow the rows.
type Pane struct {
	Title    string
	Viewport viewport.Model
	Paused   bool

	grid *grid.Grid
	sel  *selection.Model

	tsFormat     string
	showSource   bool
	follow       bool
	pausedBuffer []docker.LogLine
}

// NewPane creates a pane of the given outer size over a new grid
func NewPane(title string, gridWidth, scrollback, width, height int, tsFormat string) *Pane {
	g := grid.New(gridWidth, scrollback)
	p := &Pane{
		Title:    title,
		Viewport: viewport.New(max(width-paneChromeWidth-scrollBarWidth, 1), max(height-paneChromeHeight, 1)),
		grid:     g,
		sel:      selection.New(g),
		tsFormat: tsFormat,
		follow:   true,
	}
	p.Viewport.Style = lipgloss.NewStyle()
	g.OnTrim(p.handleTrim)
	p.refresh()
	return p
}

// Grid returns the pane's grid
func (p *Pane) Grid() *grid.Grid {
	return p.grid
}

// Selection returns the pane's selection model
func (p *Pane) Selection() *selection.Model {
	return p.sel
}

// handleTrim keeps the selection and the scroll position on the same rows
// after the grid discarded rows from the top
func (p *Pane) handleTrim(rows int) {
	if p.sel.OnTrim(rows) {
		debug.Log("Pane.handleTrim: selection trimmed away (%d rows)", rows)
	}
	if !p.follow {
		p.Viewport.SetYOffset(p.Viewport.YOffset - rows)
	}
}

// SetSize resizes the viewport for a pane of the given outer size
func (p *Pane) SetSize(width, height int) {
	p.Viewport.Width = max(width-paneChromeWidth-scrollBarWidth, 1)
	p.Viewport.Height = max(height-paneChromeHeight, 1)
	p.refresh()
}

// AddLogLine adds a log line to the pane
func (p *Pane) AddLogLine(line docker.LogLine) {
	line.Content = sanitizeLogContent(line.Content)

	// Skip completely empty lines (after sanitization)
	if strings.TrimSpace(line.Content) == "" {
		return
	}

	// If paused, buffer the log line instead of displaying it
	if p.Paused {
		p.pausedBuffer = append(p.pausedBuffer, line)
		// Cap buffer size to prevent memory issues
		if limit := p.grid.MaxRows(); len(p.pausedBuffer) > limit {
			p.pausedBuffer = p.pausedBuffer[len(p.pausedBuffer)-limit:]
		}
		return
	}

	p.grid.AppendLine(p.formatLine(line))
	p.refresh()
}

// SetShowSource prefixes each line with its source name
func (p *Pane) SetShowSource(show bool) {
	p.showSource = show
}

func (p *Pane) formatLine(line docker.LogLine) string {
	var b strings.Builder
	if p.tsFormat != "" {
		b.WriteString(line.Timestamp.Format(p.tsFormat))
		b.WriteByte(' ')
	}
	if p.showSource && line.Source != "" {
		fmt.Fprintf(&b, "[%s] ", line.Source)
	}
	// The grid keeps text only, so streams are told apart by a marker
	switch line.Stream {
	case docker.StreamStderr:
		b.WriteString("! ")
	case docker.StreamSystem:
		b.WriteString("-- ")
	}
	b.WriteString(line.Content)
	return b.String()
}

// TogglePause toggles the pause state of the pane
func (p *Pane) TogglePause() bool {
	p.Paused = !p.Paused

	if !p.Paused {
		// Flush buffered logs when unpausing
		buffered := p.pausedBuffer
		p.pausedBuffer = nil
		for _, line := range buffered {
			p.grid.AppendLine(p.formatLine(line))
		}
		p.refresh()
	}

	return p.Paused
}

// ClearLogs drops every row and the selection with it
func (p *Pane) ClearLogs() {
	p.grid.Reset()
	p.sel.Clear()
	p.pausedBuffer = nil
	p.follow = true
	p.refresh()
}

// ScrollBy moves the viewport; scrolling to the bottom resumes following
func (p *Pane) ScrollBy(rows int) {
	p.Viewport.SetYOffset(p.Viewport.YOffset + rows)
	p.follow = p.Viewport.AtBottom()
}

// GotoTop scrolls to the oldest retained row
func (p *Pane) GotoTop() {
	p.Viewport.GotoTop()
	p.follow = p.Viewport.AtBottom()
}

// GotoBottom scrolls to the newest row and follows new output
func (p *Pane) GotoBottom() {
	p.Viewport.GotoBottom()
	p.follow = true
}

// Following reports whether the pane tracks new output
func (p *Pane) Following() bool {
	return p.follow
}

// CellAt maps a screen position (pane at origin) to a grid cell, clamped to
// the grid so the selection only ever sees valid cells
func (p *Pane) CellAt(screenX, screenY int) selection.Cell {
	// Account for border (1 char) and title (1 line)
	col := screenX - 1
	row := p.Viewport.YOffset + screenY - 2

	col = min(max(col, 0), p.grid.Width())
	row = min(max(row, 0), p.grid.TotalRows()-1)
	debug.Log("Pane.CellAt: screen(%d,%d) yoff=%d -> %v", screenX, screenY, p.Viewport.YOffset, selection.Cell{Col: col, Row: row})
	return selection.Cell{Col: col, Row: row}
}

// Refresh re-renders the pane content, e.g. after the selection changed
func (p *Pane) Refresh() {
	p.refresh()
}

func (p *Pane) refresh() {
	p.Viewport.SetContent(p.renderRows())
	if p.follow {
		p.Viewport.GotoBottom()
	}
}

// renderRows renders every grid row, highlighting selected cells
func (p *Pane) renderRows() (result string) {
	// Recover from any panics during rendering
	defer func() {
		if r := recover(); r != nil {
			result = common.StderrStyle.Render(fmt.Sprintf("Render error: %v", r))
		}
	}()

	if p.grid.Len() == 0 {
		return common.SubtitleStyle.Render("Waiting for logs...")
	}

	start, end, hasSel := p.sel.Range()
	if hasSel && start == end {
		hasSel = false
	}

	lines := make([]string, p.grid.Len())
	for i := range lines {
		if !hasSel || i < start.Row || i > end.Row {
			lines[i] = p.grid.RowText(i)
			continue
		}
		lines[i] = p.renderSelectedRow(i)
	}
	return strings.Join(lines, "\n")
}

// renderSelectedRow renders row i cell by cell across the full grid width,
// grouping runs of equal selection state into one styled segment
func (p *Pane) renderSelectedRow(i int) string {
	cells := p.grid.Row(i)
	var b, run strings.Builder
	runSelected := false

	flush := func() {
		if run.Len() == 0 {
			return
		}
		if runSelected {
			b.WriteString(common.SelectionStyle.Render(run.String()))
		} else {
			b.WriteString(run.String())
		}
		run.Reset()
	}

	for col := 0; col < p.grid.Width(); col++ {
		cell := " "
		if col < len(cells) {
			cell = cells[col]
		}
		if cell == "" {
			// Continuation of a wide grapheme
			continue
		}
		selected := p.sel.Contains(selection.Cell{Col: col, Row: i})
		if selected != runSelected {
			flush()
			runSelected = selected
		}
		run.WriteString(cell)
	}
	flush()
	return strings.TrimRight(b.String(), " ")
}

// renderScrollBar renders a vertical scroll bar
func (p *Pane) renderScrollBar(height, totalLines, offset int) string {
	if height <= 0 || totalLines <= 0 {
		return ""
	}

	// Calculate thumb size and position
	thumbSize := min(max(height*height/totalLines, 1), height)
	scrollableLines := max(totalLines-height, 1)
	thumbPos := min(max(offset*(height-thumbSize)/scrollableLines, 0), height-thumbSize)

	var sb strings.Builder
	trackStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	thumbStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	for i := 0; i < height; i++ {
		if i >= thumbPos && i < thumbPos+thumbSize {
			sb.WriteString(thumbStyle.Render("┃"))
		} else {
			sb.WriteString(trackStyle.Render("│"))
		}
		if i < height-1 {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// View renders the pane with border, title and scroll bar at the given size
func (p *Pane) View(width, height int) (result string) {
	// Recover from any panics to return a valid-sized placeholder
	defer func() {
		if r := recover(); r != nil {
			result = lipgloss.NewStyle().
				Width(width).
				Height(height).
				Render(fmt.Sprintf("Render error: %v", r))
		}
	}()

	width = max(width, 4)
	height = max(height, paneChromeHeight+1)
	innerWidth := width - paneChromeWidth
	innerHeight := height - 2
	vpHeight := innerHeight - 1

	title := p.Title
	if p.Paused {
		title += " [PAUSED]"
	}
	status := common.StatusActiveStyle.Render("●")
	if !p.follow {
		status = common.MutedInlineStyle.Render("○")
	}
	fullTitle := lipgloss.NewStyle().
		Width(innerWidth).
		MaxWidth(innerWidth).
		Render(status + " " + common.PaneTitleStyle.Render(title))

	contentWidth := innerWidth - scrollBarWidth
	vc := lipgloss.NewStyle().
		Width(contentWidth).
		MaxWidth(contentWidth).
		Height(vpHeight).
		MaxHeight(vpHeight).
		Render(p.Viewport.View())
	bar := p.renderScrollBar(vpHeight, p.Viewport.TotalLineCount(), p.Viewport.YOffset)
	viewportContent := lipgloss.JoinHorizontal(lipgloss.Top, vc, bar)

	content := lipgloss.JoinVertical(lipgloss.Left, fullTitle, viewportContent)

	border := common.PaneActiveBorderStyle
	if p.Paused {
		border = common.PaneBorderStyle
	}

	// Render with exact dimensions to prevent layout shifts
	return border.
		Width(innerWidth).
		Height(innerHeight).
		MaxWidth(width).
		MaxHeight(height).
		Render(content)
}
