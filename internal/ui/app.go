package ui

import (
	"gridsel/internal/config"
	"gridsel/internal/ui/common"
	"gridsel/internal/ui/logview"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// App is the root model. It owns the log view and paints full frames.
type App struct {
	logview       logview.Model
	width, height int
}

// NewApp creates a new application model over the given sources
func NewApp(sources []logview.Source, cfg config.Config, keys common.KeyMap) App {
	return App{
		logview: logview.New(sources, cfg, keys),
	}
}

// Init initializes the application
// Note: AltScreen and Mouse are already enabled via tea.NewProgram options in main.go
func (a App) Init() tea.Cmd {
	return a.logview.Init()
}

// Update handles messages
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Always honor terminal interrupt semantics.
		if msg.String() == "ctrl+c" {
			a.logview.Cleanup()
			return a, tea.Quit
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
	}

	var cmd tea.Cmd
	a.logview, cmd = a.logview.Update(msg)
	return a, cmd
}

// View renders the application
func (a App) View() string {
	content := a.logview.View()

	// Always paint a full frame to avoid stale cells/background artifacts.
	if a.width > 0 && a.height > 0 {
		return lipgloss.NewStyle().
			Width(a.width).
			Height(a.height).
			MaxHeight(a.height).
			Render(content)
	}

	return content
}

// Cleanup stops the sources
func (a *App) Cleanup() {
	a.logview.Cleanup()
}
