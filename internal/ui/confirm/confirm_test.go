package confirm

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestImmediateDecision(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		def  Decision
		want Decision
	}{
		{"yes", []tea.KeyMsg{runes("y")}, Undecided, Accepted},
		{"upper yes", []tea.KeyMsg{runes("Y")}, Undecided, Accepted},
		{"no", []tea.KeyMsg{runes("n")}, Undecided, Denied},
		{"enter uses default", []tea.KeyMsg{{Type: tea.KeyEnter}}, Denied, Denied},
		{"enter without default", []tea.KeyMsg{{Type: tea.KeyEnter}}, Undecided, Undecided},
		{"esc", []tea.KeyMsg{{Type: tea.KeyEsc}}, Accepted, Denied},
		{"other keys ignored", []tea.KeyMsg{runes("x"), runes("y")}, Undecided, Accepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			m.DefaultValue = tt.def
			m.Init()
			for _, k := range tt.keys {
				m.Update(k)
			}
			if got := m.Selected(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStrictDecision(t *testing.T) {
	tests := []struct {
		name  string
		typed string
		want  Decision
	}{
		{"exact", "YES", Accepted},
		{"lowercase rejected", "yes", Denied},
		{"partial", "YE", Denied},
		{"noise filtered", "YxEzS", Accepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewStrict()
			m.Init()
			for _, r := range tt.typed {
				m.Update(runes(string(r)))
			}
			m.Update(tea.KeyMsg{Type: tea.KeyEnter})
			if got := m.Selected(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecisionStrings(t *testing.T) {
	if Accepted.YesNoString() != "yes" || Denied.YesNoString() != "no" {
		t.Error("unexpected yes/no strings")
	}
	if !Accepted.IsAccepted() || !Denied.IsDenied() {
		t.Error("unexpected decision helpers")
	}
}
