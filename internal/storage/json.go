package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	cp "github.com/otiai10/copy"
)

// collectionFile is the on-disk shape of a collection. Files exported from
// the browser application are a bare JSON array and load as version 0.
type collectionFile struct {
	Version int64    `json:"version"`
	Records []Record `json:"records"`
}

const (
	defaultLockWait = 2 * time.Second
	lockRetryDelay  = 20 * time.Millisecond
	lockStaleAge    = 30 * time.Second
)

// JSONStore keeps each collection in its own <key>.json file. Save holds a
// <key>.json.lock file while it checks the version and replaces the file,
// so writers in other processes see either the old or the new version.
type JSONStore struct {
	mu       sync.Mutex
	dir      string
	seen     map[string]int64
	lockWait time.Duration
}

// NewJSONStore creates a JSONStore rooted at dir
func NewJSONStore(dir string) (*JSONStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("json storage requires a data directory")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &JSONStore{
		dir:      dir,
		seen:     make(map[string]int64),
		lockWait: defaultLockWait,
	}, nil
}

func (s *JSONStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *JSONStore) Load(key string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !validKey(key) {
		return nil, newStoreError("load", key, ErrInvalidKey)
	}

	path := s.path(key)
	if err := s.recover(path); err != nil {
		return nil, newStoreError("load", key, err)
	}

	cf, err := readCollection(path)
	if err != nil {
		return nil, newStoreError("load", key, err)
	}
	s.seen[key] = cf.Version
	return cf.Records, nil
}

func (s *JSONStore) Save(key string, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !validKey(key) {
		return newStoreError("save", key, ErrInvalidKey)
	}

	path := s.path(key)
	unlock, err := s.lock(path)
	if err != nil {
		return newStoreError("save", key, err)
	}
	defer unlock()

	current, err := readCollection(path)
	if err != nil {
		return newStoreError("save", key, err)
	}
	if current.Version != s.seen[key] {
		slog.Warn("collection changed on disk", "key", key,
			"seen", s.seen[key], "current", current.Version)
		return newStoreError("save", key, ErrConflict)
	}

	if records == nil {
		records = []Record{}
	}
	next := collectionFile{Version: current.Version + 1, Records: records}
	if err := writeCollection(path, &next); err != nil {
		return newStoreError("save", key, err)
	}
	s.seen[key] = next.Version

	if err := s.backup(path); err != nil {
		slog.Warn("failed to back up collection", "key", key, "error", err)
	}
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// lock creates path.lock exclusively, waiting up to lockWait for another
// writer to release it. Lock files older than lockStaleAge are left over
// from a crashed writer and are removed.
func (s *JSONStore) lock(path string) (func(), error) {
	lockFile := path + ".lock"
	deadline := time.Now().Add(s.lockWait)
	for {
		f, err := os.OpenFile(lockFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			f.Close()
			return func() {
				if err := os.Remove(lockFile); err != nil {
					slog.Warn("failed to release collection lock", "path", lockFile, "error", err)
				}
			}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lock file: %w", err)
		}
		if fi, statErr := os.Stat(lockFile); statErr == nil && time.Since(fi.ModTime()) > lockStaleAge {
			slog.Warn("removing stale collection lock", "path", lockFile, "age", time.Since(fi.ModTime()))
			os.Remove(lockFile)
			continue
		}
		if time.Now().After(deadline) {
			return nil, ErrLocked
		}
		time.Sleep(lockRetryDelay)
	}
}

// recover puts the backup copy in place when the main file is gone
func (s *JSONStore) recover(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}
	backupFile := path + ".backup"
	if _, err := os.Stat(backupFile); os.IsNotExist(err) {
		return nil
	}
	slog.Warn("collection file not found, restoring from backup", "path", backupFile)
	if err := os.Rename(backupFile, path); err != nil {
		return fmt.Errorf("failed to restore collection from backup: %w", err)
	}
	return nil
}

func (s *JSONStore) backup(path string) error {
	backupFile := path + ".backup"
	slog.Debug("backing up collection", "path", backupFile)
	return cp.Copy(path, backupFile)
}

func readCollection(path string) (collectionFile, error) {
	var cf collectionFile
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cf, nil
		}
		return cf, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return cf, nil
	}
	if data[0] == '[' {
		if err := json.Unmarshal(data, &cf.Records); err != nil {
			return cf, fmt.Errorf("decode collection: %w", err)
		}
		return cf, nil
	}
	if err := json.Unmarshal(data, &cf); err != nil {
		return cf, fmt.Errorf("decode collection: %w", err)
	}
	return cf, nil
}

func writeCollection(path string, cf *collectionFile) error {
	// Create collection file atomically using a temporary file
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cf); err != nil {
		cleanup()
		return fmt.Errorf("failed to encode collection: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to sync collection file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("failed to save collection file: %w", err)
	}

	return nil
}
