package trash

import (
	"testing"
	"time"

	"github.com/babarot/wardbin/internal/config"
)

// TestItem is a mock implementation of Filterable for testing
type TestItem struct {
	name      string
	deletedAt time.Time
}

func (t TestItem) GetName() string {
	return t.name
}

func (t TestItem) GetDeletedAt() time.Time {
	return t.deletedAt
}

var filterNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func createTestItems() []TestItem {
	return []TestItem{
		{name: "Ahmed Salem", deletedAt: filterNow.Add(-24 * time.Hour)},
		{name: "backup_2024-01-01_old", deletedAt: filterNow.Add(-48 * time.Hour)},
		{name: "Aspirin 100mg", deletedAt: filterNow.Add(-72 * time.Hour)},
		{name: "tmp-record", deletedAt: filterNow.Add(-96 * time.Hour)},
	}
}

func names[T Filterable](items []T) []string {
	var out []string
	for _, item := range items {
		out = append(out, item.GetName())
	}
	return out
}

func equalNames(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestApplyOptions(t *testing.T) {
	testCases := []struct {
		name          string
		filterOptions FilterOptions
		expectedNames []string
	}{
		{
			name:          "No filters",
			filterOptions: FilterOptions{},
			expectedNames: []string{"Ahmed Salem", "backup_2024-01-01_old", "Aspirin 100mg", "tmp-record"},
		},
		{
			name: "Exclude by name",
			filterOptions: FilterOptions{
				Exclude: config.ExcludeConfig{Names: []string{"Aspirin 100mg"}},
			},
			expectedNames: []string{"Ahmed Salem", "backup_2024-01-01_old", "tmp-record"},
		},
		{
			name: "Exclude by pattern",
			filterOptions: FilterOptions{
				Exclude: config.ExcludeConfig{Patterns: []string{`^backup_`, `[`}},
			},
			expectedNames: []string{"Ahmed Salem", "Aspirin 100mg", "tmp-record"},
		},
		{
			name: "Exclude by glob",
			filterOptions: FilterOptions{
				Exclude: config.ExcludeConfig{Globs: []string{"tmp-*"}},
			},
			expectedNames: []string{"Ahmed Salem", "backup_2024-01-01_old", "Aspirin 100mg"},
		},
		{
			name: "Combined filters",
			filterOptions: FilterOptions{
				Include: config.IncludeConfig{WithinDays: 3},
				Exclude: config.ExcludeConfig{
					Names:    []string{"Ahmed Salem"},
					Patterns: []string{`^tmp`},
				},
			},
			expectedNames: []string{"backup_2024-01-01_old", "Aspirin 100mg"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			filtered := ApplyOptions(createTestItems(), tc.filterOptions, filterNow)
			equalNames(t, names(filtered), tc.expectedNames)
		})
	}
}

func TestParseAge(t *testing.T) {
	tests := []struct {
		in      string
		want    Age
		wantErr bool
	}{
		{"", AgeAll, false},
		{"all", AgeAll, false},
		{"Today", AgeToday, false},
		{" week ", AgeWeek, false},
		{"month", AgeMonth, false},
		{"year", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAge(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAge(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseAge(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func ledgerFixture() []Entry {
	return []Entry{
		{ID: "patient_1", Kind: KindPatient, Name: "Ahmed", Details: "Patient - Emergency", DeletedBy: "Sara", DeletedAt: filterNow.Add(-12 * time.Hour)},
		{ID: "medicine_5", Kind: KindMedicine, Name: "Aspirin", Details: "Medicine - cardiac", DeletedBy: "Ahmed Mahmoud", DeletedAt: filterNow.Add(-3 * 24 * time.Hour)},
		{ID: "backup_4", Kind: KindBackup, Name: "backup_old", Details: "Backup - 23.5MB", DeletedBy: "System", DeletedAt: filterNow.Add(-10 * 24 * time.Hour)},
	}
}

func TestFilterApply(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"everything", Filter{}, []string{"patient_1", "medicine_5", "backup_4"}},
		{"today", Filter{Age: AgeToday}, []string{"patient_1"}},
		{"week", Filter{Age: AgeWeek}, []string{"patient_1", "medicine_5"}},
		{"month", Filter{Age: AgeMonth}, []string{"patient_1", "medicine_5", "backup_4"}},
		{"query on name", Filter{Query: "aspirin"}, []string{"medicine_5"}},
		{"query on details", Filter{Query: "23.5mb"}, []string{"backup_4"}},
		{"query on deletedBy", Filter{Query: "ahmed"}, []string{"patient_1", "medicine_5"}},
		{"kinds", Filter{Kinds: []Kind{KindBackup, KindPatient}}, []string{"patient_1", "backup_4"}},
		{"no match", Filter{Query: "nothing"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(ledgerFixture(), filterNow)
			var ids []string
			for _, e := range got {
				ids = append(ids, e.ID)
			}
			equalNames(t, ids, tt.want)
		})
	}
}

func TestFilterNewest(t *testing.T) {
	entries := ledgerFixture()
	entries[0], entries[2] = entries[2], entries[0]

	got := Filter{Newest: true}.Apply(entries, filterNow)
	want := []string{"patient_1", "medicine_5", "backup_4"}
	for i, e := range got {
		if e.ID != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], e.ID)
		}
	}

	if entries[0].ID != "backup_4" {
		t.Error("Apply must not reorder its input")
	}
}

func TestFilterBoundary(t *testing.T) {
	entries := []Entry{
		{ID: "patient_1", Kind: KindPatient, DeletedAt: filterNow.Add(-7 * 24 * time.Hour)},
		{ID: "patient_2", Kind: KindPatient, DeletedAt: filterNow.Add(-7*24*time.Hour - time.Minute)},
	}
	got := Filter{Age: AgeWeek}.Apply(entries, filterNow)
	if len(got) != 1 || got[0].ID != "patient_1" {
		t.Errorf("expected only patient_1 within a week, got %v", got)
	}
}
