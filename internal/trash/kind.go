package trash

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/babarot/wardbin/internal/storage"
	"github.com/samber/lo"
)

// Kind is the category of a trashed record
type Kind string

const (
	KindPatient    Kind = "patient"
	KindUser       Kind = "user"
	KindDepartment Kind = "department"
	KindBackup     Kind = "backup"
	KindMedicine   Kind = "medicine"
	KindLabTest    Kind = "lab_test"
)

func (k Kind) String() string {
	return string(k)
}

// IDType tells how the original id is written back on restore
type IDType int

const (
	// IDString keeps the original id as a string
	IDString IDType = iota
	// IDInteger parses the original id as an integer
	IDInteger
	// IDNone does not write an id; the payload carries its own key
	IDNone
)

// isoLayout is the timestamp format the front-desk application writes
const isoLayout = "2006-01-02T15:04:05.000Z"

// RestoreContext is handed to a Strategy when a record is put back
type RestoreContext struct {
	Entry Entry
	Actor string
	Now   time.Time
}

// Timestamp returns Now in the format used by the origin collections
func (c RestoreContext) Timestamp() string {
	return c.Now.UTC().Format(isoLayout)
}

// Strategy describes how one kind of record moves in and out of the trash
type Strategy struct {
	// Collection is the storage key of the origin collection
	Collection string

	// Label is the human-readable name of the kind
	Label string

	// ID is how the original id is restored
	ID IDType

	// Describe derives the display name and summary of a record that is
	// deleted without them
	Describe func(r storage.Record) (name, summary string)

	// Stamp sets the fields that change when a record is restored
	Stamp func(r storage.Record, ctx RestoreContext)
}

// build synthesizes the record that goes back into the origin collection.
// The id derived from the entry comes first so that a payload carrying its
// own id keeps it, and the stamped fields win over the payload.
func (s Strategy) build(ctx RestoreContext) storage.Record {
	rec := storage.Record{}
	switch s.ID {
	case IDString:
		rec["id"] = ctx.Entry.OriginalID
	case IDInteger:
		if n, err := strconv.ParseInt(ctx.Entry.OriginalID, 10, 64); err == nil {
			rec["id"] = float64(n)
		} else {
			rec["id"] = ctx.Entry.OriginalID
		}
	}
	for k, v := range ctx.Entry.Data.Clone() {
		rec[k] = v
	}
	if s.Stamp != nil {
		s.Stamp(rec, ctx)
	}
	return rec
}

// Registry maps kinds to their strategies
type Registry struct {
	strategies map[Kind]Strategy
	order      []Kind
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[Kind]Strategy)}
}

// Register adds or replaces the strategy for k
func (r *Registry) Register(k Kind, s Strategy) {
	if _, ok := r.strategies[k]; !ok {
		r.order = append(r.order, k)
	}
	if s.Label == "" {
		s.Label = string(k)
	}
	r.strategies[k] = s
}

// Lookup returns the strategy registered for k
func (r *Registry) Lookup(k Kind) (Strategy, bool) {
	s, ok := r.strategies[k]
	return s, ok
}

// Kinds returns the registered kinds in registration order
func (r *Registry) Kinds() []Kind {
	return append([]Kind(nil), r.order...)
}

// Parse converts s into a registered kind
func (r *Registry) Parse(s string) (Kind, error) {
	k := Kind(strings.TrimSpace(s))
	if _, ok := r.strategies[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// DefaultRegistry returns the six kinds of the front desk
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(KindPatient, Strategy{
		Collection: storage.KeyPatients,
		Label:      "Patient",
		ID:         IDString,
		Describe: func(rec storage.Record) (string, string) {
			name := firstOf(rec, "fullName", "name")
			return name, summary("Patient", rec.String("department"), suffix(rec.String("age"), "years"))
		},
		Stamp: func(rec storage.Record, ctx RestoreContext) {
			rec["createdAt"] = ctx.Timestamp()
			rec["createdBy"] = ctx.Actor
		},
	})
	r.Register(KindUser, Strategy{
		Collection: storage.KeyUsers,
		Label:      "User",
		ID:         IDString,
		Describe: func(rec storage.Record) (string, string) {
			return firstOf(rec, "name", "username"), summary("User", rec.String("role"), rec.String("department"))
		},
		Stamp: func(rec storage.Record, ctx RestoreContext) {
			rec["status"] = "active"
			rec["createdAt"] = ctx.Timestamp()
		},
	})
	r.Register(KindDepartment, Strategy{
		Collection: storage.KeyDepartments,
		Label:      "Department",
		ID:         IDInteger,
		Describe: func(rec storage.Record) (string, string) {
			return rec.String("name"), summary("Department", suffix(rec.String("beds"), "beds"))
		},
		Stamp: func(rec storage.Record, _ RestoreContext) {
			rec["status"] = "active"
		},
	})
	r.Register(KindBackup, Strategy{
		Collection: storage.KeyBackups,
		Label:      "Backup",
		ID:         IDNone,
		Describe: func(rec storage.Record) (string, string) {
			name := firstOf(rec, "name", "filename")
			return strings.TrimSuffix(name, ".sql"), summary("Backup", rec.String("type"), rec.String("size"))
		},
		Stamp: func(rec storage.Record, ctx RestoreContext) {
			// backups are looked up by name; the filename only fills in a missing one
			if rec.String("name") == "" {
				rec["name"] = ctx.Entry.Data.String("filename")
			}
			rec["restoredAt"] = ctx.Timestamp()
		},
	})
	r.Register(KindMedicine, Strategy{
		Collection: storage.KeyMedicines,
		Label:      "Medicine",
		ID:         IDInteger,
		Describe: func(rec storage.Record) (string, string) {
			return rec.String("name"), summary("Medicine", rec.String("category"), prefix("quantity:", rec.String("quantity")))
		},
		Stamp: stampRestored,
	})
	r.Register(KindLabTest, Strategy{
		Collection: storage.KeyLabTests,
		Label:      "Lab test",
		ID:         IDInteger,
		Describe: func(rec storage.Record) (string, string) {
			name := strings.Join(lo.Compact([]string{rec.String("testName"), rec.String("patientName")}), " - ")
			return name, summary("Lab test", rec.String("testType"), prefix("status:", rec.String("status")))
		},
		Stamp: stampRestored,
	})
	return r
}

func stampRestored(rec storage.Record, ctx RestoreContext) {
	rec["restoredAt"] = ctx.Timestamp()
	rec["restoredBy"] = ctx.Actor
}

func firstOf(rec storage.Record, fields ...string) string {
	for _, f := range fields {
		if v := rec.String(f); v != "" {
			return v
		}
	}
	return ""
}

func summary(label string, parts ...string) string {
	return strings.Join(lo.Compact(append([]string{label}, parts...)), " - ")
}

func suffix(v, s string) string {
	if v == "" {
		return ""
	}
	return v + " " + s
}

func prefix(p, v string) string {
	if v == "" {
		return ""
	}
	return p + " " + v
}
