package common

import (
	"testing"

	"gridsel/internal/config"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func TestParseKeys(t *testing.T) {
	got := parseKeys(" p, space ,,ctrl+a")
	want := []string{"p", " ", "ctrl+a"}
	if len(got) != len(want) {
		t.Fatalf("expected %q, got %q", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}

func TestNewKeyMapMatchesConfiguredKeys(t *testing.T) {
	kb := config.DefaultKeyBindings()
	kb.Copy = "ctrl+y"
	km := NewKeyMap(kb)

	ctrlY := tea.KeyMsg{Type: tea.KeyCtrlY}
	if !key.Matches(ctrlY, km.Copy) {
		t.Fatalf("expected ctrl+y to match copy")
	}
	ctrlA := tea.KeyMsg{Type: tea.KeyCtrlA}
	if !key.Matches(ctrlA, km.SelectAll) {
		t.Fatalf("expected ctrl+a to match select all")
	}
	esc := tea.KeyMsg{Type: tea.KeyEsc}
	if !key.Matches(esc, km.ClearSelection) {
		t.Fatalf("expected esc to match clear selection")
	}
	if km.Copy.Help().Key != "ctrl+y" {
		t.Fatalf("expected help key ctrl+y, got %q", km.Copy.Help().Key)
	}
}
