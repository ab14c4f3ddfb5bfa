package storage

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// SnapshotKey is the fixed slot the embedded variant serializes the
// whole database under, mirroring the localStorage key the web build
// of the original app used.
const SnapshotKey = "gym-tracker-db"

// KeyValueStore is the persistent slot the embedded backend writes
// snapshots to.
type KeyValueStore interface {
	// Get returns the value for key; ok is false when the key has
	// never been written.
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
}

// FileStore persists keys as a single JSON document with
// base64-encoded values. It stands in for browser local storage: one
// small file, rewritten whole on every Set.
type FileStore struct {
	path string

	mu sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return nil, false, err
	}
	encoded, ok := entries[key]
	if !ok {
		return nil, false, nil
	}
	value, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, false, fmt.Errorf("kv get %q: decode: %w", key, err)
	}
	return value, true, nil
}

func (s *FileStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	entries[key] = base64.StdEncoding.EncodeToString(value)

	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("kv set %q: encode: %w", key, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("kv set %q: create dir: %w", key, err)
	}
	if err := os.WriteFile(s.path, payload, 0o600); err != nil {
		return fmt.Errorf("kv set %q: write: %w", key, err)
	}
	return nil
}

func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kv read %s: %w", s.path, err)
	}
	entries := map[string]string{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("kv read %s: parse: %w", s.path, err)
	}
	return entries, nil
}
