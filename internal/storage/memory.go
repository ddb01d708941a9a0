package storage

import "sync"

// MemoryStore keeps collections in process memory
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string][]Record
	versions    map[string]int64
	seen        map[string]int64
	closed      bool
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string][]Record),
		versions:    make(map[string]int64),
		seen:        make(map[string]int64),
	}
}

func (s *MemoryStore) Load(key string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, newStoreError("load", key, ErrClosed)
	}
	if !validKey(key) {
		return nil, newStoreError("load", key, ErrInvalidKey)
	}
	s.seen[key] = s.versions[key]
	return cloneAll(s.collections[key]), nil
}

func (s *MemoryStore) Save(key string, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return newStoreError("save", key, ErrClosed)
	}
	if !validKey(key) {
		return newStoreError("save", key, ErrInvalidKey)
	}
	if s.seen[key] != s.versions[key] {
		return newStoreError("save", key, ErrConflict)
	}
	s.collections[key] = cloneAll(records)
	s.versions[key]++
	s.seen[key] = s.versions[key]
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
