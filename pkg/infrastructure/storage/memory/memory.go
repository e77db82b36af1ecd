// Package memory implements an in-memory document backend used by tests.
package memory

import (
	"context"
	"sync"

	"github.com/vsinha/shoplist/pkg/infrastructure/storage/core"
)

// Store is a mutex guarded map of documents.
type Store struct {
	mu     sync.RWMutex
	docs   map[string][]byte
	writes int
}

// New returns an empty store.
func New() *Store {
	return &Store{docs: make(map[string][]byte)}
}

func (s *Store) Driver() core.Driver { return core.DriverMemory }

func (s *Store) Close() error { return nil }

func (s *Store) Read(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.docs[key]
	if !ok {
		return nil, core.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *Store) Write(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = append([]byte(nil), data...)
	s.writes++
	return nil
}

// Writes returns how many writes the store has accepted.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
