package trash

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/babarot/wardbin/internal/audit"
	"github.com/babarot/wardbin/internal/session"
	"github.com/babarot/wardbin/internal/storage"
	"github.com/samber/lo"
)

// AuditLog receives one entry per trash operation
type AuditLog interface {
	Append(e audit.Entry) error
}

// RemoveFunc deletes a record from its origin collection. It is called by
// Delete after the ledger entry has been written.
type RemoveFunc func(e Entry) error

// DeleteRequest describes a record being moved to trash
type DeleteRequest struct {
	Kind       Kind
	OriginalID any
	Name       string
	Summary    string
	Payload    storage.Record
}

// RestoreResult summarizes a batch restore
type RestoreResult struct {
	Restored []Entry
	NotFound []string
	Failed   map[string]error
}

// RestoredCount returns the number of entries put back
func (r RestoreResult) RestoredCount() int {
	return len(r.Restored)
}

// Manager owns the trash ledger and moves records in and out of it
type Manager struct {
	mu       sync.Mutex
	store    storage.Store
	registry *Registry
	session  session.Accessor
	audit    AuditLog
	now      func() time.Time
	options  FilterOptions
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithRegistry replaces the default kind registry
func WithRegistry(r *Registry) ManagerOption {
	return func(m *Manager) {
		m.registry = r
	}
}

// WithSession sets the accessor used to stamp the acting user
func WithSession(a session.Accessor) ManagerOption {
	return func(m *Manager) {
		m.session = a
	}
}

// WithAuditLog replaces the activity log. A nil log disables auditing.
func WithAuditLog(l AuditLog) ManagerOption {
	return func(m *Manager) {
		m.audit = l
	}
}

// WithClock sets the time source
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// WithFilterOptions sets the configured include/exclude rules applied to List
func WithFilterOptions(opts FilterOptions) ManagerOption {
	return func(m *Manager) {
		m.options = opts
	}
}

// NewManager creates a Manager over store. By default the activity log is
// kept in the same store.
func NewManager(store storage.Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:    store,
		registry: DefaultRegistry(),
		audit:    audit.New(store),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Registry returns the kind registry in use
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Put records a deleted entity in the ledger. The caller still owns the
// removal from the origin collection; Delete does both.
func (m *Manager) Put(kind Kind, originalID any, name, summary string, payload storage.Record) (Entry, error) {
	return m.Delete(DeleteRequest{
		Kind:       kind,
		OriginalID: originalID,
		Name:       name,
		Summary:    summary,
		Payload:    payload,
	}, nil)
}

// Delete writes the ledger entry for req and then calls remove. If remove
// fails the ledger entry is taken back out and the error is returned.
func (m *Manager) Delete(req DeleteRequest, remove RemoveFunc) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.delete(req, remove)
}

// DeleteRecord moves the record with the given id from the collection of
// kind into the ledger
func (m *Manager) DeleteRecord(kind Kind, originalID string) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	strategy, ok := m.registry.Lookup(kind)
	if !ok {
		return Entry{}, newError("delete", EntryID(kind, originalID), fmt.Errorf("%w: %q", ErrUnknownKind, kind))
	}

	records, err := m.store.Load(strategy.Collection)
	if err != nil {
		return Entry{}, newError("delete", EntryID(kind, originalID), err)
	}
	_, idx, found := lo.FindIndexOf(records, func(r storage.Record) bool {
		return recordKey(r) == originalID
	})
	if !found {
		return Entry{}, newError("delete", EntryID(kind, originalID), ErrRecordNotFound)
	}

	req := DeleteRequest{
		Kind:       kind,
		OriginalID: originalID,
		Payload:    records[idx],
	}
	return m.delete(req, func(Entry) error {
		rest := append(records[:idx:idx], records[idx+1:]...)
		return m.save(strategy.Collection, rest)
	})
}

func (m *Manager) delete(req DeleteRequest, remove RemoveFunc) (Entry, error) {
	originalID := formatID(req.OriginalID)
	id := EntryID(req.Kind, originalID)

	strategy, ok := m.registry.Lookup(req.Kind)
	if !ok {
		return Entry{}, newError("put", id, fmt.Errorf("%w: %q", ErrUnknownKind, req.Kind))
	}
	if originalID == "" {
		return Entry{}, newError("put", id, errors.New("original id is required"))
	}

	entries, err := m.loadLedger()
	if err != nil {
		return Entry{}, newError("put", id, err)
	}
	if err := stateOf(entries, id).transition(StateTrashed); err != nil {
		return Entry{}, newError("put", id, ErrAlreadyTrashed)
	}

	payload := req.Payload.Clone()
	if payload == nil {
		payload = storage.Record{}
	}
	name, summary := req.Name, req.Summary
	if (name == "" || summary == "") && strategy.Describe != nil {
		n, s := strategy.Describe(payload)
		name = lo.CoalesceOrEmpty(name, n)
		summary = lo.CoalesceOrEmpty(summary, s)
	}

	entry := Entry{
		ID:         id,
		Kind:       req.Kind,
		OriginalID: originalID,
		Name:       lo.CoalesceOrEmpty(name, id),
		Details:    summary,
		DeletedBy:  session.ActorName(m.session),
		DeletedAt:  m.now(),
		Data:       payload,
	}

	if err := m.saveLedger(append(entries, entry)); err != nil {
		return Entry{}, newError("put", id, err)
	}

	if remove != nil {
		if err := remove(entry.Copy()); err != nil {
			if rbErr := m.saveLedger(entries); rbErr != nil {
				slog.Error("failed to roll back ledger entry", "id", id, "error", rbErr)
				return Entry{}, newError("delete", id, errors.Join(err, rbErr))
			}
			return Entry{}, newError("delete", id, err)
		}
	}

	m.logActivity(audit.ActionMoveToTrash, fmt.Sprintf("moved to trash: %s %s", entry.Kind, entry.Name))
	slog.Info("moved to trash", "id", id, "kind", entry.Kind, "by", entry.DeletedBy)
	return entry.Copy(), nil
}

// Restore puts the entry back into its origin collection and removes it
// from the ledger
func (m *Manager) Restore(id string) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.restore(id)
}

func (m *Manager) restore(id string) (Entry, error) {
	entries, err := m.loadLedger()
	if err != nil {
		return Entry{}, newError("restore", id, err)
	}
	if err := stateOf(entries, id).transition(StateActive); err != nil {
		return Entry{}, newError("restore", id, fmt.Errorf("%w: %w", ErrNotFound, err))
	}
	idx := indexOf(entries, id)
	entry := entries[idx]

	strategy, ok := m.registry.Lookup(entry.Kind)
	if !ok {
		// the entry stays in the ledger
		return Entry{}, newError("restore", id, fmt.Errorf("%w: %q", ErrUnknownKind, entry.Kind))
	}

	rec := strategy.build(RestoreContext{
		Entry: entry.Copy(),
		Actor: session.ActorName(m.session),
		Now:   m.now(),
	})

	origin, err := m.store.Load(strategy.Collection)
	if err != nil {
		return Entry{}, newError("restore", id, err)
	}
	before := origin[:len(origin):len(origin)]
	if err := m.save(strategy.Collection, append(origin, rec)); err != nil {
		return Entry{}, newError("restore", id, err)
	}

	if err := m.saveLedger(removeAt(entries, idx)); err != nil {
		if rbErr := m.save(strategy.Collection, before); rbErr != nil {
			slog.Error("failed to roll back restored record", "id", id, "collection", strategy.Collection, "error", rbErr)
			return Entry{}, newError("restore", id, errors.Join(err, rbErr))
		}
		return Entry{}, newError("restore", id, err)
	}

	m.logActivity(audit.ActionRestore, fmt.Sprintf("restored: %s %s", entry.Kind, entry.Name))
	slog.Info("restored", "id", id, "collection", strategy.Collection)
	return entry, nil
}

// RestoreMany restores every id, carrying on past missing or failing ones
func (m *Manager) RestoreMany(ids []string) (RestoreResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := RestoreResult{Failed: make(map[string]error)}
	var errs []error
	for _, id := range lo.Uniq(ids) {
		entry, err := m.restore(id)
		switch {
		case err == nil:
			result.Restored = append(result.Restored, entry)
		case IsNotFound(err):
			result.NotFound = append(result.NotFound, id)
		default:
			result.Failed[id] = err
			errs = append(errs, err)
		}
	}
	slog.Debug("restore many",
		"restored", len(result.Restored),
		"not_found", len(result.NotFound),
		"failed", len(result.Failed))
	return result, errors.Join(errs...)
}

// Purge removes the entry from the ledger for good
func (m *Manager) Purge(id string) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.loadLedger()
	if err != nil {
		return Entry{}, newError("purge", id, err)
	}
	if err := stateOf(entries, id).transition(StateGone); err != nil {
		return Entry{}, newError("purge", id, fmt.Errorf("%w: %w", ErrNotFound, err))
	}
	idx := indexOf(entries, id)
	entry := entries[idx]

	if err := m.saveLedger(removeAt(entries, idx)); err != nil {
		return Entry{}, newError("purge", id, err)
	}

	m.logActivity(audit.ActionPermanentDelete, fmt.Sprintf("permanently deleted: %s %s", entry.Kind, entry.Name))
	slog.Info("purged", "id", id)
	return entry, nil
}

// PurgeAll empties the ledger in a single write and returns how many
// entries it held
func (m *Manager) PurgeAll() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.loadLedger()
	if err != nil {
		return 0, newError("purge_all", "", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}
	if err := m.saveLedger(nil); err != nil {
		return 0, newError("purge_all", "", err)
	}

	m.logActivity(audit.ActionEmptyTrash, fmt.Sprintf("emptied trash (%d items)", len(entries)))
	slog.Info("emptied trash", "count", len(entries))
	return len(entries), nil
}

// Prune purges every entry deleted more than olderThan ago
func (m *Manager) Prune(olderThan time.Duration) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.loadLedger()
	if err != nil {
		return nil, newError("prune", "", err)
	}
	cutoff := m.now().Add(-olderThan)
	expired, kept := splitExpired(entries, cutoff)
	if len(expired) == 0 {
		return nil, nil
	}
	if err := m.saveLedger(kept); err != nil {
		return nil, newError("prune", "", err)
	}

	m.logActivity(audit.ActionPruneTrash, fmt.Sprintf("pruned trash (%d items older than %s)", len(expired), olderThan))
	slog.Info("pruned trash", "count", len(expired), "cutoff", cutoff)
	return expired, nil
}

// Expired returns the entries Prune would remove, without removing them
func (m *Manager) Expired(olderThan time.Duration) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.loadLedger()
	if err != nil {
		return nil, newError("prune", "", err)
	}
	expired, _ := splitExpired(entries, m.now().Add(-olderThan))
	return expired, nil
}

func splitExpired(entries []Entry, cutoff time.Time) (expired, kept []Entry) {
	return lo.FilterReject(entries, func(e Entry, _ int) bool {
		return e.DeletedAt.Before(cutoff)
	})
}

// List returns the entries matching f, after the configured include and
// exclude rules
func (m *Manager) List(f Filter) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.loadLedger()
	if err != nil {
		return nil, newError("list", "", err)
	}
	now := m.now()
	entries = ApplyOptions(entries, m.options, now)
	return f.Apply(entries, now), nil
}

// Get returns the ledger entry with the given id
func (m *Manager) Get(id string) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.loadLedger()
	if err != nil {
		return Entry{}, newError("get", id, err)
	}
	idx := indexOf(entries, id)
	if idx < 0 {
		return Entry{}, newError("get", id, ErrNotFound)
	}
	return entries[idx], nil
}

// Stats returns the number of ledger entries per kind
func (m *Manager) Stats() (map[Kind]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.loadLedger()
	if err != nil {
		return nil, newError("stats", "", err)
	}
	return lo.CountValuesBy(entries, func(e Entry) Kind {
		return e.Kind
	}), nil
}

// State reports whether the record of kind with originalID sits in the ledger
func (m *Manager) State(kind Kind, originalID any) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.loadLedger()
	if err != nil {
		return "", newError("state", "", err)
	}
	return stateOf(entries, EntryID(kind, formatID(originalID))), nil
}

func (m *Manager) loadLedger() ([]Entry, error) {
	records, err := m.store.Load(storage.KeyTrash)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		e, err := entryFromRecord(r)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (m *Manager) saveLedger(entries []Entry) error {
	records := make([]storage.Record, 0, len(entries))
	for _, e := range entries {
		r, err := e.record()
		if err != nil {
			return err
		}
		records = append(records, r)
	}
	return m.save(storage.KeyTrash, records)
}

// save writes a collection, retrying once. A conflict is not retried:
// the other writer's data has to be reloaded first.
func (m *Manager) save(key string, records []storage.Record) error {
	err := m.store.Save(key, records)
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrConflict) {
		return fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}
	slog.Warn("save failed, retrying", "collection", key, "error", err)
	if err := m.store.Save(key, records); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}
	return nil
}

func (m *Manager) logActivity(action, details string) {
	if m.audit == nil {
		return
	}
	err := m.audit.Append(audit.Entry{
		Action:    action,
		Details:   details,
		User:      session.ActorName(m.session),
		Timestamp: m.now(),
	})
	if err != nil {
		slog.Error("failed to log activity", "action", action, "error", err)
	}
}

func stateOf(entries []Entry, id string) State {
	if indexOf(entries, id) >= 0 {
		return StateTrashed
	}
	return StateActive
}

func indexOf(entries []Entry, id string) int {
	_, idx, ok := lo.FindIndexOf(entries, func(e Entry) bool {
		return e.ID == id
	})
	if !ok {
		return -1
	}
	return idx
}

func removeAt(entries []Entry, idx int) []Entry {
	out := make([]Entry, 0, len(entries)-1)
	out = append(out, entries[:idx]...)
	return append(out, entries[idx+1:]...)
}

// recordKey is the natural id of a record in an origin collection
func recordKey(r storage.Record) string {
	for _, field := range []string{"id", "name", "filename"} {
		if v := r.String(field); v != "" {
			return v
		}
	}
	return ""
}

func formatID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(id), 'f', -1, 32)
	default:
		return fmt.Sprint(id)
	}
}
