package ui

import (
	"time"

	"github.com/dustin/go-humanize"
)

// ViewType represents the current view state
type ViewType uint8

const (
	LIST_VIEW ViewType = iota
	DETAIL_VIEW
	CONFIRM_VIEW
	QUITTING
)

func (v ViewType) String() string {
	switch v {
	case LIST_VIEW:
		return "list view"
	case DETAIL_VIEW:
		return "detail view"
	case CONFIRM_VIEW:
		return "confirm view"
	case QUITTING:
		return "quit"
	}
	return "unknown"
}

// DateFormat represents the date display format
type DateFormat string

const (
	DateFormatRelative DateFormat = "relative"
	DateFormatAbsolute DateFormat = "absolute"
)

type ViewState struct {
	current    ViewType
	previous   ViewType
	dateFormat DateFormat
}

// NewViewState creates a new ViewState starting on the list
func NewViewState(format DateFormat) *ViewState {
	if format != DateFormatAbsolute {
		format = DateFormatRelative
	}
	return &ViewState{
		current:    LIST_VIEW,
		previous:   LIST_VIEW,
		dateFormat: format,
	}
}

// SetView changes the current view and updates the previous view
func (v *ViewState) SetView(newView ViewType) {
	v.previous = v.current
	v.current = newView
}

// ToggleDateFormat switches between relative and absolute date formats
func (v *ViewState) ToggleDateFormat() {
	if v.dateFormat == DateFormatRelative {
		v.dateFormat = DateFormatAbsolute
	} else {
		v.dateFormat = DateFormatRelative
	}
}

// FormatDate formats the given time according to the current date format
func (v *ViewState) FormatDate(t time.Time) string {
	return formatDate(t, v.dateFormat)
}

func formatDate(t time.Time, f DateFormat) string {
	switch f {
	case DateFormatAbsolute:
		return t.Local().Format(time.DateTime)
	default:
		return humanize.Time(t)
	}
}
