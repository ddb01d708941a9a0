package trash

import (
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/babarot/wardbin/internal/config"
	"github.com/gobwas/glob"
	"github.com/k1LoW/duration"
	"github.com/samber/lo"
)

// Filterable defines what an item must expose to be filtered
type Filterable interface {
	// GetName returns the display name
	GetName() string
	// GetDeletedAt returns when the item was trashed
	GetDeletedAt() time.Time
}

// FilterOptions holds the configured filtering rules
type FilterOptions struct {
	Include config.IncludeConfig
	Exclude config.ExcludeConfig
}

// ApplyOptions applies the configured rules to a slice of items
func ApplyOptions[T Filterable](items []T, opts FilterOptions, now time.Time) []T {
	// Filter by name exclusions
	items = rejectByNames(items, opts.Exclude.Names)

	// Filter by patterns
	items = rejectByPatterns(items, opts.Exclude.Patterns)

	// Filter by globs
	items = rejectByGlobs(items, opts.Exclude.Globs)

	// Filter by time period
	items = filterByPeriod(items, opts.Include.WithinDays, now)

	return items
}

// Age is a deletion-age bucket
type Age string

const (
	AgeAll   Age = "all"
	AgeToday Age = "today"
	AgeWeek  Age = "week"
	AgeMonth Age = "month"
)

// ParseAge converts s into an Age. An empty string is AgeAll.
func ParseAge(s string) (Age, error) {
	switch a := Age(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return AgeAll, nil
	case AgeAll, AgeToday, AgeWeek, AgeMonth:
		return a, nil
	default:
		return "", fmt.Errorf("invalid age %q: must be one of all, today, week, month", s)
	}
}

// Days returns the size of the bucket in days, 0 for AgeAll
func (a Age) Days() int {
	switch a {
	case AgeToday:
		return 1
	case AgeWeek:
		return 7
	case AgeMonth:
		return 30
	default:
		return 0
	}
}

// Filter selects ledger entries for List
type Filter struct {
	// Query matches name, details and deletedBy, case-insensitively
	Query string

	// Kinds keeps only these kinds when not empty
	Kinds []Kind

	// Age keeps entries deleted within the bucket
	Age Age

	// Newest sorts by deletion time, most recent first. Otherwise entries
	// keep their ledger order.
	Newest bool
}

// Apply returns the entries matching f. The input is not modified.
func (f Filter) Apply(entries []Entry, now time.Time) []Entry {
	out := lo.Filter(entries, func(e Entry, _ int) bool {
		return f.matchQuery(e) && f.matchKind(e)
	})
	out = filterByPeriod(out, f.Age.Days(), now)

	if f.Newest {
		slices.SortStableFunc(out, func(a, b Entry) int {
			return b.DeletedAt.Compare(a.DeletedAt)
		})
	}
	return lo.Map(out, func(e Entry, _ int) Entry {
		return e.Copy()
	})
}

func (f Filter) matchQuery(e Entry) bool {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return lo.SomeBy([]string{e.Name, e.Details, e.DeletedBy}, func(s string) bool {
		return strings.Contains(strings.ToLower(s), q)
	})
}

func (f Filter) matchKind(e Entry) bool {
	return len(f.Kinds) == 0 || slices.Contains(f.Kinds, e.Kind)
}

func rejectByNames[T Filterable](items []T, names []string) []T {
	if len(names) == 0 {
		return items
	}
	return lo.Reject(items, func(item T, _ int) bool {
		return slices.Contains(names, item.GetName())
	})
}

func rejectByPatterns[T Filterable](items []T, patterns []string) []T {
	if len(patterns) == 0 {
		return items
	}

	var res []*regexp.Regexp
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			slog.Warn("skipping invalid exclude pattern", "pattern", pattern, "error", err)
			continue
		}
		res = append(res, re)
	}
	return lo.Reject(items, func(item T, _ int) bool {
		return lo.SomeBy(res, func(re *regexp.Regexp) bool {
			return re.MatchString(item.GetName())
		})
	})
}

func rejectByGlobs[T Filterable](items []T, globs []string) []T {
	if len(globs) == 0 {
		return items
	}

	var gs []glob.Glob
	for _, g := range globs {
		compiled, err := glob.Compile(g)
		if err != nil {
			slog.Warn("skipping invalid exclude glob", "glob", g, "error", err)
			continue
		}
		gs = append(gs, compiled)
	}
	return lo.Reject(items, func(item T, _ int) bool {
		return lo.SomeBy(gs, func(g glob.Glob) bool {
			return g.Match(item.GetName())
		})
	})
}

// filterByPeriod keeps items deleted at most days ago. An age of 2.5 days
// counts as 3, so "within 7 days" includes anything up to exactly 7 days old.
func filterByPeriod[T Filterable](items []T, days int, now time.Time) []T {
	if days <= 0 {
		return items
	}

	d, err := duration.Parse(fmt.Sprintf("%d days", days))
	if err != nil {
		slog.Error("failed to parse duration", "error", err)
		return items
	}

	return lo.Filter(items, func(item T, _ int) bool {
		return now.Sub(item.GetDeletedAt()) <= d
	})
}
