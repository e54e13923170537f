package logview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gridsel/internal/config"
	"gridsel/internal/debug"
	"gridsel/internal/docker"
	"gridsel/internal/ui/common"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	wheelStep = 3
	// Lines from a source that arrive before the first WindowSizeMsg
	maxPending = 1000
)

// Messages
type LogLineMsg struct {
	SourceID string
	Line     docker.LogLine
}

type LogErrorMsg struct {
	SourceID string
	Err      error
}

// StreamClosedMsg is sent when a source's log channel closes
type StreamClosedMsg struct {
	SourceID string
}

// Source is one log stream shown in the view. Open starts it; the view
// cancels ctx when it quits.
type Source struct {
	ID   string
	Name string
	Open func(ctx context.Context) (<-chan docker.LogLine, <-chan error)
}

// streamInfo holds the channels for a source's log stream
type streamInfo struct {
	logChan <-chan docker.LogLine
	errChan <-chan error
}

// Model is the log view: one pane over a bounded grid, a mouse-driven
// selection and a status bar
type Model struct {
	pane          *Pane
	sources       map[string]Source
	streams       map[string]streamInfo // source ID -> stream channels
	order         []string
	pending       []docker.LogLine
	width, height int
	cfg           config.Config
	keys          common.KeyMap
	ctx           context.Context
	cancel        context.CancelFunc

	// Multi-click detection
	lastClickTime time.Time
	lastClickRow  int
	clickCount    int
	dragging      bool

	toast common.Toast

	now            func() time.Time
	writeClipboard func(string) error
}

// New creates a new log view model over the given sources
func New(sources []Source, cfg config.Config, keys common.KeyMap) Model {
	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		sources:        make(map[string]Source, len(sources)),
		streams:        make(map[string]streamInfo, len(sources)),
		cfg:            cfg,
		keys:           keys,
		ctx:            ctx,
		cancel:         cancel,
		toast:          common.NewToast(cfg.GetToastSeconds()),
		now:            time.Now,
		writeClipboard: clipboard.WriteAll,
	}
	for _, src := range sources {
		m.sources[src.ID] = src
		m.order = append(m.order, src.ID)
	}
	return m
}

// Context is cancelled when the view quits; sources should stop with it
func (m Model) Context() context.Context {
	return m.ctx
}

// Init opens every source and starts waiting on it
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	for _, id := range m.order {
		logChan, errChan := m.sources[id].Open(m.ctx)
		m.streams[id] = streamInfo{logChan: logChan, errChan: errChan}
		cmds = append(cmds, waitForLog(id, logChan))
		if errChan != nil {
			cmds = append(cmds, waitForError(id, errChan))
		}
	}
	return tea.Batch(cmds...)
}

func waitForLog(sourceID string, logChan <-chan docker.LogLine) tea.Cmd {
	return func() tea.Msg {
		line, ok := <-logChan
		if !ok {
			return StreamClosedMsg{SourceID: sourceID}
		}
		return LogLineMsg{SourceID: sourceID, Line: line}
	}
}

func waitForError(sourceID string, errChan <-chan error) tea.Cmd {
	return func() tea.Msg {
		err, ok := <-errChan
		if !ok {
			return nil
		}
		return LogErrorMsg{SourceID: sourceID, Err: err}
	}
}

// Pane returns the pane, nil until the first window size is known
func (m Model) Pane() *Pane {
	return m.pane
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case LogLineMsg:
		m.addLine(msg.Line)
		stream, ok := m.streams[msg.SourceID]
		if !ok {
			return m, nil
		}
		return m, waitForLog(msg.SourceID, stream.logChan)

	case LogErrorMsg:
		debug.Log("logview: source %s error: %v", msg.SourceID, msg.Err)
		m.addLine(m.systemLine(msg.SourceID, fmt.Sprintf("error: %v", msg.Err)))
		return m, m.toast.Show("Stream error", msg.Err.Error(), common.ToastError)

	case StreamClosedMsg:
		debug.Log("logview: source %s closed", msg.SourceID)
		delete(m.streams, msg.SourceID)
		m.addLine(m.systemLine(msg.SourceID, "stream ended"))
		return m, nil

	case common.ShowToastMsg, common.ToastExpiredMsg:
		var cmd tea.Cmd
		m.toast, cmd = m.toast.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	paneHeight := max(height-1, 1)

	if m.pane != nil {
		m.pane.SetSize(width, paneHeight)
		return
	}

	gridWidth := m.cfg.Width
	if gridWidth <= 0 {
		gridWidth = GridWidthFor(width)
	}
	m.pane = NewPane(m.title(), gridWidth, m.cfg.GetScrollback(), width, paneHeight, m.cfg.GetTimestampFormat())
	m.pane.SetShowSource(len(m.order) > 1)
	debug.Log("logview: pane created, grid %dx%d, screen %dx%d", gridWidth, m.cfg.GetScrollback(), width, height)

	for _, line := range m.pending {
		m.pane.AddLogLine(line)
	}
	m.pending = nil
}

func (m Model) title() string {
	names := make([]string, 0, len(m.order))
	for _, id := range m.order {
		names = append(names, m.sources[id].Name)
	}
	if len(names) == 0 {
		return "logs"
	}
	return strings.Join(names, ", ")
}

func (m Model) systemLine(sourceID, content string) docker.LogLine {
	name := sourceID
	if src, ok := m.sources[sourceID]; ok {
		name = src.Name
	}
	return docker.LogLine{
		Source:    name,
		Timestamp: m.now(),
		Stream:    docker.StreamSystem,
		Content:   content,
	}
}

func (m *Model) addLine(line docker.LogLine) {
	if src, ok := m.sources[line.Source]; ok {
		line.Source = src.Name
	}
	if m.pane == nil {
		m.pending = append(m.pending, line)
		if len(m.pending) > maxPending {
			m.pending = m.pending[len(m.pending)-maxPending:]
		}
		return
	}
	m.pane.AddLogLine(line)
}

func (m *Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.Cleanup()
		return *m, tea.Quit
	}
	if key.Matches(msg, m.keys.DebugToggle) {
		if debug.Toggle() {
			return *m, m.toast.Show("Debug logging on", debug.LogPath(), common.ToastInfo)
		}
		return *m, m.toast.Show("Debug logging off", "", common.ToastInfo)
	}
	if m.pane == nil {
		return *m, nil
	}

	sel := m.pane.Selection()
	switch {
	case key.Matches(msg, m.keys.SelectAll):
		sel.SetSelectAll(true)
		m.pane.Refresh()

	case key.Matches(msg, m.keys.Copy):
		return *m, m.copySelection()

	case key.Matches(msg, m.keys.ClearSelection):
		sel.Clear()
		m.pane.Refresh()

	case key.Matches(msg, m.keys.ClearLogs):
		m.pane.ClearLogs()

	case key.Matches(msg, m.keys.Pause):
		if m.pane.TogglePause() {
			return *m, m.toast.Show("Paused", "new lines are buffered", common.ToastInfo)
		}

	case key.Matches(msg, m.keys.ScrollUp):
		m.pane.ScrollBy(-1)
	case key.Matches(msg, m.keys.ScrollDown):
		m.pane.ScrollBy(1)
	case key.Matches(msg, m.keys.PageUp):
		m.pane.ScrollBy(-m.pane.Viewport.Height)
	case key.Matches(msg, m.keys.PageDown):
		m.pane.ScrollBy(m.pane.Viewport.Height)
	case key.Matches(msg, m.keys.Top):
		m.pane.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.pane.GotoBottom()
	}
	return *m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.pane == nil {
		return nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.pane.ScrollBy(-wheelStep)
			return nil
		case tea.MouseButtonWheelDown:
			m.pane.ScrollBy(wheelStep)
			return nil
		case tea.MouseButtonLeft:
			// The status bar is not part of the grid
			if msg.Y >= m.height-1 {
				return nil
			}
			m.handleMouseClick(msg)
		}

	case tea.MouseActionMotion:
		if m.dragging {
			m.pane.Selection().SetEnd(m.pane.CellAt(msg.X, msg.Y))
			m.pane.Refresh()
		}

	case tea.MouseActionRelease:
		if !m.dragging {
			return nil
		}
		m.dragging = false
		if m.pane.Selection().HasSelection() {
			return m.copySelection()
		}
		// A plain click selects nothing
		m.pane.Selection().Clear()
		m.pane.Refresh()
	}
	return nil
}

// handleMouseClick starts a selection. Repeated clicks on the same row
// within the double-click threshold select the word, then the whole line.
func (m *Model) handleMouseClick(msg tea.MouseMsg) {
	cell := m.pane.CellAt(msg.X, msg.Y)
	now := m.now()
	threshold := time.Duration(m.cfg.GetDoubleClickMS()) * time.Millisecond

	if m.clickCount > 0 && cell.Row == m.lastClickRow && now.Sub(m.lastClickTime) < threshold {
		m.clickCount = m.clickCount%3 + 1
	} else {
		m.clickCount = 1
	}
	m.lastClickTime = now
	m.lastClickRow = cell.Row
	m.dragging = true

	sel := m.pane.Selection()
	sel.Clear()
	switch m.clickCount {
	case 2:
		if start, length, ok := m.pane.Grid().WordAt(cell); ok {
			sel.SetStart(start)
			sel.SetStartLength(length)
		}
	case 3:
		if start, length, ok := m.pane.Grid().LineAt(cell.Row); ok {
			sel.SetStart(start)
			sel.SetStartLength(length)
		}
	default:
		sel.SetStart(cell)
	}
	debug.Log("logview: click %d at %v", m.clickCount, cell)
	m.pane.Refresh()
}

// copySelection writes the selected text to the clipboard
func (m *Model) copySelection() tea.Cmd {
	start, end, ok := m.pane.Selection().Range()
	if !ok {
		return nil
	}
	text := m.pane.Grid().Text(start, end)
	if text == "" {
		return nil
	}
	if err := m.writeClipboard(text); err != nil {
		debug.Log("logview: clipboard write failed: %v", err)
		return m.toast.Show("Copy failed", err.Error(), common.ToastError)
	}
	return m.toast.Show("Copied", fmt.Sprintf("%d chars", len([]rune(text))), common.ToastSuccess)
}

// SelectionLabel describes the current selection for the status bar
func (m Model) SelectionLabel() string {
	if m.pane == nil {
		return ""
	}
	sel := m.pane.Selection()
	if sel.SelectAllActive() {
		return "all"
	}
	start, end, ok := sel.Range()
	if !ok || start == end {
		return ""
	}
	return fmt.Sprintf("%s-%s", start, end)
}

// View renders the pane, the status bar and any toast
func (m Model) View() (result string) {
	// Recover from any panics to prevent crashes
	defer func() {
		if r := recover(); r != nil {
			result = fmt.Sprintf("Render error: %v - press 'q' to quit", r)
		}
	}()

	if m.pane == nil {
		return "Starting..."
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.pane.View(m.width, m.height-1),
		m.renderStatusBar(),
	)

	if m.toast.IsVisible() {
		content = m.overlayToast(content)
	}
	return content
}

func (m Model) renderStatusBar() string {
	keyStyle := common.StatusKeyStyle.Render
	muted := common.MutedInlineStyle.Render

	grid := m.pane.Grid()
	parts := []string{fmt.Sprintf("%d/%d rows", grid.Len(), grid.MaxRows())}
	if label := m.SelectionLabel(); label != "" {
		parts = append(parts, "sel "+label)
	}
	switch {
	case m.pane.Paused:
		parts = append(parts, common.StatusPausedStyle.Render("paused"))
	case m.pane.Following():
		parts = append(parts, common.StatusActiveStyle.Render("follow"))
	default:
		parts = append(parts, muted("scrolled"))
	}

	var help []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		help = append(help, keyStyle(h.Key)+muted(":"+h.Desc))
	}

	bar := " " + strings.Join(parts, muted(" │ ")) + "   " + strings.Join(help, "  ")
	bar = truncate.String(bar, uint(max(m.width, 0)))
	return common.StatusBarStyle.Width(m.width).MaxWidth(m.width).Render(bar)
}

// overlayToast composites the toast on top of the content
func (m Model) overlayToast(content string) string {
	toastContent := m.toast.RenderInline()
	if toastContent == "" {
		return content
	}

	toastWidth := lipgloss.Width(toastContent)
	toastHeight := lipgloss.Height(toastContent)

	// Bottom-right, above the status bar
	toastX := max(m.width-toastWidth-2, 0)
	toastY := max(m.height-toastHeight-2, 0)

	contentLines := strings.Split(content, "\n")
	for len(contentLines) < m.height {
		contentLines = append(contentLines, "")
	}

	for i, toastLine := range strings.Split(toastContent, "\n") {
		targetY := toastY + i
		if targetY >= len(contentLines) {
			continue
		}

		contentLine := contentLines[targetY]
		if w := lipgloss.Width(contentLine); w <= toastX {
			contentLines[targetY] = contentLine + strings.Repeat(" ", toastX-w) + toastLine
		} else {
			contentLines[targetY] = truncate.String(contentLine, uint(toastX)) + toastLine
		}
	}

	return strings.Join(contentLines, "\n")
}

// Cleanup cancels the sources' context
func (m *Model) Cleanup() {
	if m.cancel != nil {
		m.cancel()
	}
}
