package common

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ToastType represents the type of toast notification
type ToastType int

const (
	ToastSuccess ToastType = iota
	ToastError
	ToastInfo
)

// ShowToastMsg is sent to display a toast
type ShowToastMsg struct {
	Title   string
	Message string
	Type    ToastType
}

// ToastExpiredMsg is sent when a toast should be hidden
type ToastExpiredMsg struct {
	ID int
}

// Toast represents a toast notification shown in the bottom-right corner
type Toast struct {
	visible  bool
	title    string
	message  string
	typ      ToastType
	id       int
	duration time.Duration
}

// NewToast creates a new toast manager; seconds is clamped to 1-10
func NewToast(seconds int) Toast {
	t := Toast{}
	t.SetDuration(seconds)
	return t
}

// SetDuration updates the toast duration
func (t *Toast) SetDuration(seconds int) {
	if seconds < 1 {
		seconds = 1
	}
	if seconds > 10 {
		seconds = 10
	}
	t.duration = time.Duration(seconds) * time.Second
}

// Show displays a toast and returns a command to hide it after duration
func (t *Toast) Show(title, message string, typ ToastType) tea.Cmd {
	t.visible = true
	t.title = title
	t.message = message
	t.typ = typ
	t.id++

	currentID := t.id
	return tea.Tick(t.duration, func(time.Time) tea.Msg {
		return ToastExpiredMsg{ID: currentID}
	})
}

// Hide hides the toast if the ID matches (prevents hiding newer toasts)
func (t *Toast) Hide(id int) {
	if t.id == id {
		t.visible = false
	}
}

// IsVisible returns whether the toast is visible
func (t Toast) IsVisible() bool {
	return t.visible
}

// Update handles toast messages
func (t Toast) Update(msg tea.Msg) (Toast, tea.Cmd) {
	switch msg := msg.(type) {
	case ShowToastMsg:
		return t, t.Show(msg.Title, msg.Message, msg.Type)

	case ToastExpiredMsg:
		t.Hide(msg.ID)
	}

	return t, nil
}

// RenderInline renders just the toast box without positioning (for inline display)
func (t Toast) RenderInline() string {
	if !t.visible {
		return ""
	}

	// Choose style based on type
	var borderColor, iconColor lipgloss.Color
	var icon string

	switch t.typ {
	case ToastSuccess:
		borderColor = lipgloss.Color("42") // Green
		iconColor = lipgloss.Color("42")
		icon = "✓"
	case ToastError:
		borderColor = lipgloss.Color("196") // Red
		iconColor = lipgloss.Color("196")
		icon = "✗"
	case ToastInfo:
		borderColor = lipgloss.Color("39") // Blue
		iconColor = lipgloss.Color("39")
		icon = "●"
	}

	// Build toast content
	iconStyle := lipgloss.NewStyle().
		Foreground(iconColor).
		Bold(true).
		MarginRight(1)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("252"))

	messageStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	content := lipgloss.JoinHorizontal(lipgloss.Center,
		iconStyle.Render(icon),
		titleStyle.Render(t.title),
	)

	if t.message != "" {
		content = lipgloss.JoinVertical(lipgloss.Left,
			content,
			messageStyle.Render(t.message),
		)
	}

	// Toast container style
	toastStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Background(lipgloss.Color("236")).
		Padding(0, 2)

	return toastStyle.Render(content)
}
