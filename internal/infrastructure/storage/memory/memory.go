// Package memory implements an in-memory KVStore for tests and throwaway
// sessions (STORE_BACKEND=memory).
package memory

import (
	"context"
	"sync"

	"github.com/catalogo/storefront-client/internal/core/ports"
)

// Store is a mutex-guarded map. The *Err fields inject failures for tests.
type Store struct {
	mu     sync.Mutex
	values map[string]string

	GetErr    error
	SetErr    error
	RemoveErr error
	// FailSetKey makes Set fail only for the named key.
	FailSetKey string

	sets    []string
	removes [][]string
}

var _ ports.KVStore = (*Store)(nil)

func New() *Store {
	return &Store{values: make(map[string]string)}
}

// Seed returns a store pre-populated with values.
func Seed(values map[string]string) *Store {
	s := New()
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.GetErr != nil {
		return "", false, s.GetErr
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SetErr != nil {
		return s.SetErr
	}
	if s.FailSetKey != "" && s.FailSetKey == key {
		return errSetFailed
	}
	s.values[key] = value
	s.sets = append(s.sets, key)
	return nil
}

func (s *Store) Remove(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removes = append(s.removes, append([]string(nil), keys...))
	if s.RemoveErr != nil {
		return s.RemoveErr
	}
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

func (s *Store) Close() error { return nil }

// Has reports whether key is currently stored.
func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[key]
	return ok
}

// Value returns the raw stored value.
func (s *Store) Value(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

// SetOrder returns the keys passed to successful Set calls, in order.
func (s *Store) SetOrder() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sets...)
}

// RemoveCalls returns the key lists passed to Remove, in order.
func (s *Store) RemoveCalls() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]string(nil), s.removes...)
}
