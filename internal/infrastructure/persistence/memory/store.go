// Package memory is a process-local KV store used by tests and by the
// "memory" storage backend. Nothing survives a restart.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/narwhalmedia/moviebrowser/pkg/interfaces"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store closed")

// Store is an in-memory interfaces.KVStore.
type Store struct {
	mu      sync.RWMutex
	entries map[string]string
	closed  bool

	// failSet, when set, is returned by Set for the given key.
	failSet map[string]error
}

var _ interfaces.KVStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		entries: make(map[string]string),
		failSet: make(map[string]error),
	}
}

// NewWith creates a store pre-populated with entries.
func NewWith(entries map[string]string) *Store {
	s := New()
	for k, v := range entries {
		s.entries[k] = v
	}
	return s
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", false, ErrClosed
	}
	v, ok := s.entries[key]
	return v, ok, nil
}

// Set overwrites the value stored under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if err := s.failSet[key]; err != nil {
		return err
	}
	s.entries[key] = value
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	delete(s.entries, key)
	return nil
}

// Close marks the store closed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// FailSet makes every Set of key return err. A nil err clears the failure.
func (s *Store) FailSet(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failSet, key)
		return
	}
	s.failSet[key] = err
}

// Snapshot returns a copy of all entries.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}
