// Package audit keeps the append-only activity log shown on the dashboard
package audit

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/babarot/wardbin/internal/storage"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Actions recorded by the trash engine
const (
	ActionMoveToTrash     = "move_to_trash"
	ActionRestore         = "restore"
	ActionPermanentDelete = "permanent_delete"
	ActionEmptyTrash      = "empty_trash"
	ActionPruneTrash      = "prune_trash"
)

const localIP = "localhost"

// Entry is one line of the activity log
type Entry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	User      string    `json:"user"`
	Timestamp time.Time `json:"timestamp"`
	IP        string    `json:"ip"`
}

// Log appends entries to the activities collection
type Log struct {
	mu    sync.Mutex
	store storage.Store
	now   func() time.Time
}

// New creates a Log backed by store
func New(store storage.Store) *Log {
	return &Log{
		store: store,
		now:   time.Now,
	}
}

// Append adds e to the log. ID, Timestamp and IP are filled in when empty.
func (l *Log) Append(e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = l.now()
	}
	if e.IP == "" {
		e.IP = localIP
	}

	records, err := l.store.Load(storage.KeyActivities)
	if err != nil {
		return fmt.Errorf("load activities: %w", err)
	}
	record, err := toRecord(e)
	if err != nil {
		return err
	}
	records = append(records, record)
	if err := l.store.Save(storage.KeyActivities, records); err != nil {
		return fmt.Errorf("save activities: %w", err)
	}

	slog.Debug("activity logged", "action", e.Action, "user", e.User)
	return nil
}

// List returns the most recent entries first. limit <= 0 returns all of them.
func (l *Log) List(limit int) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.store.Load(storage.KeyActivities)
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}

	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		e, err := fromRecord(r)
		if err != nil {
			slog.Warn("skipping malformed activity", "error", err)
			continue
		}
		entries = append(entries, e)
	}

	entries = lo.Reverse(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func toRecord(e Entry) (storage.Record, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode activity: %w", err)
	}
	var r storage.Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("encode activity: %w", err)
	}
	return r, nil
}

func fromRecord(r storage.Record) (Entry, error) {
	var e Entry
	// the browser application used Date.now() as the id
	if id, ok := r["id"].(float64); ok {
		r = r.Clone()
		r["id"] = fmt.Sprintf("%d", int64(id))
	}
	data, err := json.Marshal(r)
	if err != nil {
		return e, err
	}
	if err := json.Unmarshal(data, &e); err != nil {
		return e, err
	}
	return e, nil
}
