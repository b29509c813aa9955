// Package cache stores parsed constituency trees so unchanged input files
// are not re-parsed across runs. Entries are keyed by input path and a hash
// of the file content; a stale hash is a miss.
//
// Two implementations share the Store interface: an in-memory store for
// single runs and tests, and a SQLite-backed store for persistence.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Store is the parse-tree cache.
type Store interface {
	// Get returns the cached trees for path if the content hash matches.
	Get(path, contentHash string) (trees string, ok bool, err error)

	// Put stores trees for path, replacing any previous entry.
	Put(path, contentHash, trees string) error

	// Delete removes the entry for path. Removing a missing entry is not an
	// error; the engine deletes entries written during a run that later
	// fails.
	Delete(path string) error

	Close() error
}

// HashContent returns the cache key hash for file content.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// MemStore is a process-local Store.
type MemStore struct {
	mu      sync.RWMutex
	entries map[string]memEntry
}

type memEntry struct {
	hash  string
	trees string
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[string]memEntry)}
}

func (s *MemStore) Get(path, contentHash string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[path]
	if !ok || e.hash != contentHash {
		return "", false, nil
	}
	return e.trees, true, nil
}

func (s *MemStore) Put(path, contentHash, trees string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[path] = memEntry{hash: contentHash, trees: trees}
	return nil
}

func (s *MemStore) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, path)
	return nil
}

func (s *MemStore) Close() error { return nil }
