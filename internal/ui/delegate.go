package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/babarot/wardbin/internal/config"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// ListDelegate manages the rendering and behavior of list items.
type ListDelegate struct {
	ShortHelpFunc func() []key.Binding
	FullHelpFunc  func() [][]key.Binding

	showDescription bool
	indentOnSelect  bool
	height          int
	spacing         int
	styles          *DelegateStyles
	selection       *Selection
}

// DelegateStyles holds all the styles used for list item rendering.
type DelegateStyles struct {
	NormalTitle         lipgloss.Style
	NormalDesc          lipgloss.Style
	SelectedTitle       lipgloss.Style
	SelectedDesc        lipgloss.Style
	DimmedTitle         lipgloss.Style
	DimmedDesc          lipgloss.Style
	CursorTitle         lipgloss.Style
	CursorDesc          lipgloss.Style
	SelectedCursorTitle lipgloss.Style
	SelectedCursorDesc  lipgloss.Style
	FilterMatch         lipgloss.Style
}

// NewListDelegate creates a new delegate with the provided configuration.
func NewListDelegate(cfg config.UI, selection *Selection) *ListDelegate {
	var height = 2
	var spacing = 1

	showDescription := true
	if cfg.Density == CompactDensityVal {
		showDescription = false
		height = 1
		spacing = 0
	}

	cursor := lipgloss.Color(cfg.Style.ListView.Cursor)
	selected := lipgloss.Color(cfg.Style.ListView.Selected)
	onCursor := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(cursor).
		Padding(0, 0, 0, 1)

	styles := &DelegateStyles{
		NormalTitle: lipgloss.NewStyle().
			Padding(0, 0, 0, 2),

		NormalDesc: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#A49FA5", Dark: "#777777"}).
			Padding(0, 0, 0, 2),

		SelectedTitle: lipgloss.NewStyle().
			Foreground(selected).
			Padding(0, 0, 0, 2),

		SelectedDesc: lipgloss.NewStyle().
			Foreground(selected).
			Padding(0, 0, 0, 2),

		DimmedTitle: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#A49FA5", Dark: "#777777"}).
			Padding(0, 0, 0, 2),

		DimmedDesc: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#C2B8C2", Dark: "#4D4D4D"}).
			Padding(0, 0, 0, 2),

		CursorTitle:         onCursor.Foreground(cursor),
		CursorDesc:          onCursor.Foreground(cursor),
		SelectedCursorTitle: onCursor.Foreground(selected),
		SelectedCursorDesc:  onCursor.Foreground(selected),

		FilterMatch: lipgloss.NewStyle().
			Underline(true),
	}

	return &ListDelegate{
		showDescription: showDescription,
		indentOnSelect:  cfg.Style.ListView.IndentOnSelect,
		height:          height,
		spacing:         spacing,
		styles:          styles,
		selection:       selection,
	}
}

func (d *ListDelegate) Height() int {
	return d.height
}

func (d *ListDelegate) Spacing() int {
	return d.spacing
}

func (d *ListDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

// Render renders a list item.
func (d *ListDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(*Item)
	if !ok {
		return
	}
	if m.Width() <= 0 {
		return
	}

	var (
		title        = item.Title()
		desc         = item.Description()
		matchedRunes []int
		styles       = d.styles
	)

	textWidth := m.Width() - styles.NormalTitle.GetPaddingLeft() - styles.NormalTitle.GetPaddingRight()
	title = ansi.Truncate(title, textWidth, ellipsis)
	if d.showDescription {
		var lines []string
		for i, line := range strings.Split(desc, "\n") {
			if i >= d.height-1 {
				break
			}
			lines = append(lines, ansi.Truncate(line, textWidth, ellipsis))
		}
		desc = strings.Join(lines, "\n")
	}

	var (
		isSelected  = d.selection.Contains(item)
		onCursor    = index == m.Index()
		emptyFilter = m.FilterState() == list.Filtering && m.FilterValue() == ""
		isFiltered  = m.FilterState() == list.Filtering || m.FilterState() == list.FilterApplied
	)

	if isFiltered {
		matchedRunes = m.MatchesForItem(index)
	}

	if isSelected && d.indentOnSelect {
		title = " " + title
		desc = " " + desc
	}

	switch {
	case emptyFilter:
		title = styles.DimmedTitle.Render(title)
		desc = styles.DimmedDesc.Render(desc)

	case onCursor:
		if isSelected {
			title = styles.SelectedCursorTitle.Render(title)
			desc = styles.SelectedCursorDesc.Render(desc)
		} else {
			title = styles.CursorTitle.Render(title)
			desc = styles.CursorDesc.Render(desc)
		}

	case isSelected:
		title = styles.SelectedTitle.Render(title)
		desc = styles.SelectedDesc.Render(desc)

	default:
		if isFiltered {
			unmatched := styles.NormalTitle.Inline(true)
			matched := unmatched.Inherit(styles.FilterMatch)
			title = lipgloss.StyleRunes(title, matchedRunes, matched, unmatched)
		}
		title = styles.NormalTitle.Render(title)
		desc = styles.NormalDesc.Render(desc)
	}

	if d.showDescription {
		fmt.Fprintf(w, "%s\n%s", title, desc)
		return
	}
	fmt.Fprintf(w, "%s", title)
}

func (d *ListDelegate) ShortHelp() []key.Binding {
	if d.ShortHelpFunc != nil {
		return d.ShortHelpFunc()
	}
	return nil
}

func (d *ListDelegate) FullHelp() [][]key.Binding {
	if d.FullHelpFunc != nil {
		return d.FullHelpFunc()
	}
	return nil
}
