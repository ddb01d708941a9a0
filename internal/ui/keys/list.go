package keys

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
)

type ListKeyMap struct {
	Quit     key.Binding
	Enter    key.Binding
	Space    key.Binding
	Select   key.Binding
	DeSelect key.Binding
	Purge    key.Binding
	Esc      key.Binding
	AtSign   key.Binding
	Help     key.Binding

	showPurge bool
}

func (k ListKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		list.DefaultKeyMap().CursorUp,
		list.DefaultKeyMap().CursorDown,
		k.Enter,
		k.Space,
		k.Select,
		list.DefaultKeyMap().Filter,
		k.Help,
	}
}

func (k ListKeyMap) FullHelp() [][]key.Binding {
	actions := []key.Binding{k.Enter, k.Space, k.Select, k.DeSelect, k.Esc, k.AtSign}
	if k.showPurge {
		actions = append(actions, k.Purge)
	}
	return [][]key.Binding{
		{
			list.DefaultKeyMap().CursorUp,
			list.DefaultKeyMap().CursorDown,
			list.DefaultKeyMap().NextPage,
			list.DefaultKeyMap().PrevPage,
			list.DefaultKeyMap().GoToStart,
			list.DefaultKeyMap().GoToEnd,
		},
		actions,
		{k.Quit, k.Help},
	}
}

// PurgeEnabled reports whether the purge binding is active
func (k ListKeyMap) PurgeEnabled() bool {
	return k.showPurge
}

// NewListKeys returns the bindings of the restore picker. Purge is only
// bound when the caller may delete entries permanently.
func NewListKeys(purge bool) *ListKeyMap {
	k := &ListKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
		Select: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "select"),
		),
		DeSelect: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("s+tab", "de-select"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "restore"),
		),
		Space: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "detail"),
		),
		Esc: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "reset"),
		),
		AtSign: key.NewBinding(
			key.WithKeys("@"),
			key.WithHelp("@", "datefmt"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
	}
	if purge {
		k.showPurge = true
		k.Purge = key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "purge"),
		)
	} else {
		k.Purge = key.NewBinding(key.WithDisabled())
	}
	return k
}
