package common

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor = lipgloss.Color("39")      // Blue
	successColor = lipgloss.Color("#00ff66") // Green (truecolor for terminal consistency)
	errorColor   = lipgloss.Color("196")     // Red
	mutedColor   = lipgloss.Color("241")     // Gray
	borderColor  = lipgloss.Color("240")     // Light gray

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	// Pane styles
	PaneBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	PaneActiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(primaryColor)

	PaneTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	// Log styles
	StderrStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	// Selected cells (inverted colors)
	SelectionStyle = lipgloss.NewStyle().
			Reverse(true)

	// Status bar styles
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	StatusKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	StatusActiveStyle = lipgloss.NewStyle().
				Foreground(successColor).
				Bold(true)

	StatusPausedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")).
				Bold(true)

	MutedInlineStyle = lipgloss.NewStyle().
				Foreground(mutedColor)
)
