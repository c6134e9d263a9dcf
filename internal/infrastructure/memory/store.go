// Package memory provides an in-memory persistence adapter, used for tests
// and for ephemeral runs where durability is not wanted.
package memory

import (
	"context"
	"sync"
)

// Store implements ledger.Persistence with a mutex-guarded map.
type Store struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{blobs: make(map[string][]byte)}
}

// Load returns a copy of the blob stored under key, or nil when absent.
func (s *Store) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.blobs[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), blob...), nil
}

// Save stores a copy of the blob under key.
func (s *Store) Save(_ context.Context, key string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), blob...)
	return nil
}
