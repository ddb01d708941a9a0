package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/babarot/wardbin/internal/config"
	"github.com/babarot/wardbin/internal/trash"
	"github.com/babarot/wardbin/internal/ui/keys"
	"github.com/babarot/wardbin/internal/ui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/paginator"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/samber/lo"
)

const (
	CompactDensityVal  = "compact"
	SpaciousDensityVal = "spacious"
)

const (
	bullet   = "•"
	ellipsis = "…"

	defaultWidth  = 66
	defaultHeight = 26
)

var ErrNoEntries = errors.New("trash is empty")

// Purger deletes a trashed entry for good
type Purger interface {
	Purge(id string) (trash.Entry, error)
}

// Selection keeps the entries picked with tab, in picking order. It is
// shared by pointer between the model and its delegate.
type Selection struct {
	ids []string
}

func (s *Selection) Contains(item *Item) bool {
	if s == nil {
		return false
	}
	return lo.Contains(s.ids, item.entry.ID)
}

func (s *Selection) Toggle(item *Item) {
	if s.Contains(item) {
		s.Remove(item)
		return
	}
	s.ids = append(s.ids, item.entry.ID)
}

func (s *Selection) Remove(item *Item) {
	s.ids = lo.Without(s.ids, item.entry.ID)
}

func (s *Selection) Reset() {
	s.ids = nil
}

func (s *Selection) Len() int {
	return len(s.ids)
}

type purgedMsg struct {
	ids []string
	err error
}

type Model struct {
	state     *ViewState
	keys      *keys.ListKeyMap
	selection *Selection
	purger    Purger

	config config.UI
	help   help.Model
	list   list.Model

	detail  *Item
	choices []trash.Entry
	err     error
}

// NewModel builds the restore picker over entries. labels maps a kind to
// its display label; purger may be nil to hide the purge key.
func NewModel(entries []trash.Entry, labels func(trash.Kind) string, purger Purger, cfg config.UI) Model {
	state := NewViewState(DateFormat(cfg.DateFormat))
	selection := &Selection{}
	listKeys := keys.NewListKeys(purger != nil)

	items := lo.Map(entries, func(e trash.Entry, _ int) list.Item {
		var label string
		if labels != nil {
			label = labels(e.Kind)
		}
		return newItem(e, label, state)
	})

	d := NewListDelegate(cfg, selection)
	d.ShortHelpFunc = listKeys.ShortHelp
	d.FullHelpFunc = listKeys.FullHelp

	l := list.New(items, d, defaultWidth, defaultHeight)
	switch cfg.Paginator {
	case "arabic":
		l.Paginator.Type = paginator.Arabic
	default:
		l.Paginator.Type = paginator.Dots
	}
	l.Title = ""
	l.DisableQuitKeybindings()
	l.SetShowStatusBar(false)
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	return Model{
		state:     state,
		keys:      listKeys,
		selection: selection,
		purger:    purger,
		config:    cfg,
		help:      help.New(),
		list:      l,
	}
}

// Choices returns the entries picked for restore
func (m Model) Choices() []trash.Entry {
	return m.choices
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		slog.Debug("key pressed", "key", msg.String(), "view", m.state.current)
		switch m.state.current {
		case DETAIL_VIEW:
			return m.updateDetailView(msg)
		case CONFIRM_VIEW:
			return m.updateConfirmView(msg)
		default:
			return m.updateListView(msg)
		}

	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil

	case purgedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.removeItems(msg.ids)
		if len(m.list.Items()) == 0 {
			m.state.SetView(QUITTING)
			return m, tea.Quit
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	filtering := m.list.FilterState() == list.Filtering

	switch {
	case key.Matches(msg, m.keys.Quit) && !filtering:
		m.state.SetView(QUITTING)
		return m, tea.Quit

	case key.Matches(msg, m.keys.Select) && !filtering:
		if item := m.currentItem(); item != nil {
			m.selection.Toggle(item)
			m.list.CursorDown()
		}
		return m, nil

	case key.Matches(msg, m.keys.DeSelect) && !filtering:
		m.list.CursorUp()
		if item := m.currentItem(); item != nil {
			m.selection.Remove(item)
		}
		return m, nil

	case key.Matches(msg, m.keys.Space) && !filtering:
		if item := m.currentItem(); item != nil {
			m.detail = item
			m.state.SetView(DETAIL_VIEW)
		}
		return m, nil

	case key.Matches(msg, m.keys.AtSign) && !filtering:
		m.state.ToggleDateFormat()
		return m, nil

	case key.Matches(msg, m.keys.Purge) && !filtering:
		if len(m.targets()) > 0 {
			m.state.SetView(CONFIRM_VIEW)
		}
		return m, nil

	case key.Matches(msg, m.keys.Help) && !filtering:
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Esc) && !filtering:
		m.selection.Reset()
		// fall through to the list so an applied filter is cleared too

	case key.Matches(msg, m.keys.Enter) && !filtering:
		m.choices = lo.Map(m.targets(), func(item *Item, _ int) trash.Entry {
			return item.Entry()
		})
		if len(m.choices) == 0 {
			return m, nil
		}
		slog.Debug("key input: enter", "entries", strings.Join(
			lo.Map(m.choices, func(e trash.Entry, _ int) string { return e.ID }), ","))
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.state.SetView(QUITTING)
		return m, tea.Quit
	case key.Matches(msg, m.keys.Space, m.keys.Esc):
		m.detail = nil
		m.state.SetView(LIST_VIEW)
	case key.Matches(msg, m.keys.AtSign):
		m.state.ToggleDateFormat()
	case key.Matches(msg, m.keys.Select):
		if m.detail != nil {
			m.selection.Toggle(m.detail)
		}
	case key.Matches(msg, m.keys.Purge):
		m.state.SetView(CONFIRM_VIEW)
	case key.Matches(msg, m.keys.Enter):
		if m.detail != nil {
			m.choices = []trash.Entry{m.detail.Entry()}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) updateConfirmView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y":
		targets := m.targets()
		m.state.SetView(LIST_VIEW)
		m.detail = nil
		return m, m.purgeCmd(targets)
	case "n", "esc":
		m.state.SetView(m.state.previous)
	case "ctrl+c", "q":
		m.state.SetView(QUITTING)
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) purgeCmd(items []*Item) tea.Cmd {
	purger := m.purger
	return func() tea.Msg {
		var ids []string
		for _, item := range items {
			if _, err := purger.Purge(item.entry.ID); err != nil && !trash.IsNotFound(err) {
				return purgedMsg{ids: ids, err: err}
			}
			ids = append(ids, item.entry.ID)
		}
		return purgedMsg{ids: ids}
	}
}

// targets is the selection, or the entry under the cursor when nothing
// is selected
func (m Model) targets() []*Item {
	if m.state.current == DETAIL_VIEW && m.detail != nil && m.selection.Len() == 0 {
		return []*Item{m.detail}
	}
	if m.selection.Len() > 0 {
		items := lo.FilterMap(m.list.Items(), func(li list.Item, _ int) (*Item, bool) {
			item, ok := li.(*Item)
			return item, ok && m.selection.Contains(item)
		})
		return items
	}
	if item := m.currentItem(); item != nil {
		return []*Item{item}
	}
	return nil
}

func (m Model) currentItem() *Item {
	item, ok := m.list.SelectedItem().(*Item)
	if !ok {
		return nil
	}
	return item
}

func (m *Model) removeItems(ids []string) {
	items := lo.Reject(m.list.Items(), func(li list.Item, _ int) bool {
		item, ok := li.(*Item)
		return ok && lo.Contains(ids, item.entry.ID)
	})
	for _, li := range m.list.Items() {
		if item, ok := li.(*Item); ok && lo.Contains(ids, item.entry.ID) {
			m.selection.Remove(item)
		}
	}
	m.list.SetItems(items)
}

func (m Model) View() string {
	defer color.Unset()

	if m.err != nil {
		slog.Error("rendering of the view has stopped", "error", m.err)
		return m.err.Error()
	}
	if len(m.choices) > 0 {
		return ""
	}

	switch m.state.current {
	case LIST_VIEW:
		return m.list.View() + "\n" + styles.Help.Render(m.help.View(m.keys))
	case DETAIL_VIEW:
		return m.detailView() + "\n" + styles.Help.Render(m.help.View(m.keys))
	case CONFIRM_VIEW:
		return m.confirmView()
	}
	return ""
}

func (m Model) detailView() string {
	if m.detail == nil {
		return ""
	}
	e := m.detail.entry
	title := styles.SectionTitle(m.config)
	section := styles.Section(m.config)

	rows := []string{
		lipgloss.NewStyle().Bold(true).Render(m.detail.Title()),
		section.Render(title.Render(m.detail.label) + " " + e.Details),
		section.Render(title.Render("Deleted At") + " " + m.state.FormatDate(e.DeletedAt)),
	}
	if e.DeletedBy != "" {
		rows = append(rows, section.Render(title.Render("Deleted By")+" "+e.DeletedBy))
	}
	rows = append(rows, section.Render(title.Render("Entry")+" "+e.ID))
	if m.selection.Contains(m.detail) {
		rows = append(rows, section.Render(title.Render("Selected")))
	}
	return styles.Detail(m.config, defaultWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) confirmView() string {
	var base string
	switch m.state.previous {
	case DETAIL_VIEW:
		base = m.detailView()
	default:
		base = m.list.View()
	}

	targets := m.targets()
	target := fmt.Sprintf("%d entries", len(targets))
	if len(targets) == 1 {
		target = "'" + targets[0].Title() + "'"
	}
	dialog := styles.Dialog(m.config, defaultWidth).Render(lipgloss.JoinVertical(lipgloss.Center,
		"Are you sure you want to",
		"permanently delete "+target+"?",
		"",
		"(y/n)",
	))

	baseLines := strings.Split(base, "\n")
	dialogLines := strings.Split(dialog, "\n")
	for len(baseLines) < len(dialogLines) {
		baseLines = append(baseLines, "")
	}
	start := (len(baseLines) - len(dialogLines)) / 2
	for i, line := range dialogLines {
		baseLines[start+i] = lipgloss.NewStyle().
			Width(defaultWidth).
			Align(lipgloss.Center).
			Render(line)
	}
	return strings.Join(baseLines, "\n")
}

// RenderList runs the restore picker and returns the chosen entries. An
// empty result with a nil error means the user quit.
func RenderList(entries []trash.Entry, labels func(trash.Kind) string, purger Purger, cfg config.UI) ([]trash.Entry, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	m := NewModel(entries, labels, purger, cfg)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, err
	}

	result := final.(Model)
	if result.err != nil {
		return nil, result.err
	}
	if result.state.current == QUITTING {
		if msg := cfg.ExitMessage; msg != "" {
			fmt.Println(msg)
		}
		return nil, nil
	}
	return result.choices, nil
}
