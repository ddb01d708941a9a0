package trash

import (
	"testing"
	"time"

	"github.com/babarot/wardbin/internal/storage"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	want := []Kind{KindPatient, KindUser, KindDepartment, KindBackup, KindMedicine, KindLabTest}
	got := r.Kinds()
	if len(got) != len(want) {
		t.Fatalf("expected %d kinds, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("kind %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	collections := map[string]bool{}
	for _, k := range got {
		s, _ := r.Lookup(k)
		if collections[s.Collection] {
			t.Errorf("collection %s registered twice", s.Collection)
		}
		collections[s.Collection] = true
	}
}

func TestRegistryParse(t *testing.T) {
	r := DefaultRegistry()
	if k, err := r.Parse(" lab_test "); err != nil || k != KindLabTest {
		t.Errorf("Parse(lab_test) = %q, %v", k, err)
	}
	if _, err := r.Parse("ward"); !IsUnknownKind(err) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register("ward", Strategy{Collection: "a"})
	r.Register("ward", Strategy{Collection: "b"})

	if len(r.Kinds()) != 1 {
		t.Fatalf("expected a single kind, got %v", r.Kinds())
	}
	s, ok := r.Lookup("ward")
	if !ok || s.Collection != "b" {
		t.Errorf("expected replaced strategy, got %+v", s)
	}
	if s.Label != "ward" {
		t.Errorf("expected label to default to the kind, got %q", s.Label)
	}
}

func TestStrategyBuildIDs(t *testing.T) {
	ctx := RestoreContext{
		Entry: Entry{OriginalID: "abc", Data: storage.Record{"x": 1}},
		Now:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	tests := []struct {
		name string
		id   IDType
		want any
	}{
		{"string", IDString, "abc"},
		{"integer that does not parse", IDInteger, "abc"},
		{"none", IDNone, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Strategy{ID: tt.id}.build(ctx)
			if rec["id"] != tt.want {
				t.Errorf("expected id %v, got %v", tt.want, rec["id"])
			}
			if rec["x"] != float64(1) {
				t.Errorf("payload not copied: %v", rec)
			}
		})
	}

	if got := ctx.Timestamp(); got != "2024-01-02T03:04:05.000Z" {
		t.Errorf("unexpected timestamp %q", got)
	}
}

func TestDescribe(t *testing.T) {
	r := DefaultRegistry()
	tests := []struct {
		kind        Kind
		rec         storage.Record
		name, about string
	}{
		{KindMedicine, storage.Record{"name": "Aspirin", "category": "cardiac", "quantity": float64(50)}, "Aspirin", "Medicine - cardiac - quantity: 50"},
		{KindLabTest, storage.Record{"testName": "CBC", "patientName": "Mohamed", "testType": "blood", "status": "pending"}, "CBC - Mohamed", "Lab test - blood - status: pending"},
		{KindBackup, storage.Record{"filename": "backup_old.sql", "size": "23.5MB"}, "backup_old", "Backup - 23.5MB"},
		{KindBackup, storage.Record{"name": "nightly", "type": "full"}, "nightly", "Backup - full"},
		{KindDepartment, storage.Record{"name": "Orthopedics", "beds": float64(8)}, "Orthopedics", "Department - 8 beds"},
		{KindUser, storage.Record{"username": "sara", "role": "nurse"}, "sara", "User - nurse"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			s, _ := r.Lookup(tt.kind)
			name, about := s.Describe(tt.rec)
			if name != tt.name {
				t.Errorf("name = %q, want %q", name, tt.name)
			}
			if about != tt.about {
				t.Errorf("summary = %q, want %q", about, tt.about)
			}
		})
	}
}
