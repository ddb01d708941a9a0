package confirm

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Decision is the answer given to a confirmation prompt
type Decision int

const (
	// Undecided means no key was pressed and no default applies
	Undecided Decision = iota

	// Accepted is a positive answer
	Accepted

	// Denied is a negative answer
	Denied
)

// String satisfies the fmt.Stringer interface
func (d Decision) String() string {
	return [...]string{
		"undecided",
		"accepted",
		"denied",
	}[d]
}

// YesNoString represents Decision in undecided/yes/no format
func (d Decision) YesNoString() string {
	return [...]string{
		"undecided",
		"yes",
		"no",
	}[d]
}

func (d Decision) IsAccepted() bool {
	return d == Accepted
}

func (d Decision) IsDenied() bool {
	return d == Denied
}

// Styles holds relevant styles used for rendering
type Styles struct {
	PromptPrefix lipgloss.Style
	Prompt       lipgloss.Style
	Text         lipgloss.Style
	Placeholder  lipgloss.Style
	Valid        lipgloss.Style
	Invalid      lipgloss.Style
}

// Model is a bubbletea model asking a single yes/no question.
//
// By default one key press decides. With Strict set the user has to type
// the AcceptedDecisionText exactly and press enter, which is how
// irreversible operations like emptying the whole trash are guarded.
type Model struct {
	PromptPrefix string
	Prompt       string

	AcceptedDecisionText string
	DeniedDecisionText   string

	// DefaultValue is used when enter is pressed without an answer
	DefaultValue Decision

	Strict bool
	Styles Styles

	selected Decision
	input    textinput.Model
	done     bool
}

// New creates a new model with default settings
func New() Model {
	return Model{
		PromptPrefix:         "? ",
		AcceptedDecisionText: "y",
		DeniedDecisionText:   "n",
		Styles: Styles{
			PromptPrefix: lipgloss.NewStyle().Foreground(lipgloss.Color("#00D7AF")).Bold(true),
			Prompt:       lipgloss.NewStyle().Bold(true),
			Text:         lipgloss.NewStyle(),
			Placeholder:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
			Valid:        lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff00")),
			Invalid:      lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0000")),
		},
	}
}

// NewStrict creates a model that only accepts the literal word YES
func NewStrict() Model {
	m := New()
	m.Strict = true
	m.AcceptedDecisionText = "YES"
	m.DeniedDecisionText = "No"
	return m
}

func (m *Model) Selected() Decision {
	return m.selected
}

// Value returns the decision using the caller supplied texts
func (m *Model) Value() string {
	switch m.selected {
	case Accepted:
		return m.AcceptedDecisionText
	case Denied:
		return m.DeniedDecisionText
	}
	return ""
}

func (m *Model) Init() tea.Cmd {
	m.selected = Undecided
	if !m.Strict {
		return nil
	}
	input := textinput.New()
	input.Placeholder = m.AcceptedDecisionText
	input.Prompt = ""
	input.PlaceholderStyle = m.Styles.Placeholder
	input.TextStyle = m.Styles.Text
	input.CharLimit = len(m.AcceptedDecisionText)
	input.Focus()
	m.input = input
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m.decide(Denied)
	}

	if m.Strict {
		return m.updateStrict(keyMsg)
	}

	switch strings.ToLower(keyMsg.String()) {
	case "y":
		return m.decide(Accepted)
	case "n":
		return m.decide(Denied)
	case "enter":
		if m.DefaultValue != Undecided {
			return m.decide(m.DefaultValue)
		}
	}
	return m, nil
}

func (m *Model) updateStrict(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if m.input.Value() == m.AcceptedDecisionText {
			return m.decide(Accepted)
		}
		return m.decide(Denied)
	case tea.KeyBackspace:
	case tea.KeyRunes:
		// only the next expected character is accepted
		next := len(m.input.Value())
		if next >= len(m.AcceptedDecisionText) || msg.String() != m.AcceptedDecisionText[next:next+1] {
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) decide(d Decision) (tea.Model, tea.Cmd) {
	m.selected = d
	m.done = true
	return m, tea.Quit
}

func (m *Model) View() string {
	var b strings.Builder

	if m.PromptPrefix != "" {
		b.WriteString(m.Styles.PromptPrefix.Inline(true).Render(m.PromptPrefix))
	}
	b.WriteString(m.Styles.Prompt.Inline(true).Render(m.Prompt))
	b.WriteString(" ")

	if m.done {
		b.WriteString(m.Value())
		b.WriteRune('\n')
		return b.String()
	}

	if !m.Strict {
		switch m.DefaultValue {
		case Accepted:
			b.WriteString("[Y/n] ")
		case Denied:
			b.WriteString("[y/N] ")
		default:
			b.WriteString("[y/n] ")
		}
		return b.String()
	}

	b.WriteString(m.input.View())
	b.WriteString(" ")
	if m.input.Value() == m.AcceptedDecisionText {
		b.WriteString(m.Styles.Valid.Render("✓"))
	} else {
		b.WriteString(m.Styles.Invalid.Render("✗"))
	}
	return b.String()
}
