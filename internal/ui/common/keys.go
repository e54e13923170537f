package common

import (
	"strings"

	"gridsel/internal/config"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the log view
type KeyMap struct {
	// Navigation
	ScrollUp   key.Binding
	ScrollDown key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Top        key.Binding
	Bottom     key.Binding

	// Selection
	SelectAll      key.Binding
	Copy           key.Binding
	ClearSelection key.Binding

	// General
	ClearLogs   key.Binding
	Pause       key.Binding
	DebugToggle key.Binding
	Quit        key.Binding
}

// parseKeys splits a comma-separated key string into a slice
func parseKeys(keys string) []string {
	parts := strings.Split(keys, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "space" {
			p = " "
		}
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// helpKeys renders the bound keys for the help bar
func helpKeys(keys string) string {
	return strings.ReplaceAll(keys, ",", "/")
}

func binding(keys, desc string) key.Binding {
	return key.NewBinding(
		key.WithKeys(parseKeys(keys)...),
		key.WithHelp(helpKeys(keys), desc),
	)
}

// NewKeyMap builds a KeyMap from configured bindings
func NewKeyMap(b config.KeyBindings) KeyMap {
	return KeyMap{
		ScrollUp:   binding(b.ScrollUp, "scroll up"),
		ScrollDown: binding(b.ScrollDown, "scroll down"),
		PageUp:     binding(b.PageUp, "page up"),
		PageDown:   binding(b.PageDown, "page down"),
		Top:        binding(b.Top, "top"),
		Bottom:     binding(b.Bottom, "bottom"),

		SelectAll:      binding(b.SelectAll, "select all"),
		Copy:           binding(b.Copy, "copy"),
		ClearSelection: binding(b.ClearSelection, "clear selection"),

		ClearLogs:   binding(b.ClearLogs, "clear logs"),
		Pause:       binding(b.Pause, "pause"),
		DebugToggle: binding(b.DebugToggle, "debug log"),
		Quit:        binding(b.Quit, "quit"),
	}
}

// DefaultKeyMap returns the key bindings loaded from the keybindings file
func DefaultKeyMap() KeyMap {
	return NewKeyMap(config.LoadKeyBindings())
}

// ShortHelp returns the bindings shown in the status bar
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SelectAll, k.Copy, k.ClearSelection, k.Pause, k.Quit}
}
