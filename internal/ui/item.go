package ui

import (
	"strings"

	"github.com/babarot/wardbin/internal/trash"
	"github.com/charmbracelet/bubbles/list"
)

// Item is one trashed record shown in the restore picker
type Item struct {
	entry trash.Entry
	label string
	state *ViewState
}

var _ list.DefaultItem = (*Item)(nil)

func newItem(e trash.Entry, label string, state *ViewState) *Item {
	if label == "" {
		label = string(e.Kind)
	}
	return &Item{entry: e, label: label, state: state}
}

func (i *Item) Entry() trash.Entry {
	return i.entry
}

func (i *Item) Title() string {
	if i.entry.Name == "" {
		return i.entry.ID
	}
	return i.entry.Name
}

// Description shows when, what and by whom
func (i *Item) Description() string {
	var date string
	if i.state != nil {
		date = i.state.FormatDate(i.entry.DeletedAt)
	} else {
		date = formatDate(i.entry.DeletedAt, DateFormatRelative)
	}
	parts := []string{date, i.label}
	if i.entry.DeletedBy != "" {
		parts = append(parts, "by "+i.entry.DeletedBy)
	}
	return strings.Join(parts, " "+bullet+" ")
}

// FilterValue matches the same fields as the text filter of the list command
func (i *Item) FilterValue() string {
	return strings.Join([]string{i.entry.Name, i.entry.Details, i.label}, " ")
}
