package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Common errors for storage operations
var (
	ErrInvalidKey = errors.New("invalid collection key")
	ErrConflict   = errors.New("collection was modified by another writer")
	ErrClosed     = errors.New("storage is closed")
	ErrLocked     = errors.New("collection is locked by another writer")
)

// Collection keys shared with the front-desk application
const (
	KeyTrash       = "hospitalTrashItems"
	KeyPatients    = "hospitalPatients"
	KeyUsers       = "hospitalUsers"
	KeyDepartments = "hospitalDepartments"
	KeyMedicines   = "hospitalMedicines"
	KeyLabTests    = "hospitalLabTests"
	KeyBackups     = "hospitalBackups"
	KeyActivities  = "hospitalActivities"
)

// Record is a single JSON object stored in a collection
type Record map[string]any

// Clone returns a deep copy of the record. The copy goes through a JSON
// round-trip so that numbers are always float64, the same as a record read
// back from any backend.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		slog.Warn("record is not JSON encodable, copying shallowly", "error", err)
		return r.shallowCopy()
	}
	var out Record
	if err := json.Unmarshal(data, &out); err != nil {
		slog.Warn("failed to decode record copy, copying shallowly", "error", err)
		return r.shallowCopy()
	}
	return out
}

func (r Record) shallowCopy() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String returns the value of the field as a string, or "" if it is absent
func (r Record) String(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprint(t)
	}
}

// Store persists named collections of records. Every save rewrites the
// whole collection.
type Store interface {
	// Load returns every record in the collection. A collection that was
	// never saved is empty, not an error.
	Load(key string) ([]Record, error)

	// Save replaces the collection. It fails with ErrConflict if the
	// collection changed since this store last loaded or saved it.
	Save(key string, records []Record) error

	// Close releases the underlying resources
	Close() error
}

// Backend names accepted by Open
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Options selects and configures a backend
type Options struct {
	Backend    string
	Dir        string
	SQLitePath string
}

// Open creates the store described by opts
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case BackendJSON, "":
		return NewJSONStore(opts.Dir)
	case BackendSQLite:
		return NewSQLiteStore(opts.SQLitePath)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", opts.Backend)
	}
}

// StoreError wraps an error with the collection it happened on
type StoreError struct {
	Op  string // Operation that failed (e.g., "load", "save")
	Key string // Collection key
	Err error  // The underlying error
}

func (e *StoreError) Error() string {
	if e.Key == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Key + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func newStoreError(op, key string, err error) error {
	return &StoreError{Op: op, Key: key, Err: err}
}

func validKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

func cloneAll(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
