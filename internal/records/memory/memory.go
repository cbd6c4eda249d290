package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"ledger/internal/records"
)

// ErrQuotaExceeded mimics a full browser-style storage area.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

type Store struct {
	mu    sync.Mutex
	items map[string][]byte
	quota int // total bytes; 0 means unlimited
}

type Option func(*Store)

// WithQuota limits the total size of all stored values.
func WithQuota(bytes int) Option {
	return func(s *Store) { s.quota = bytes }
}

func New(opts ...Option) *Store {
	s := &Store{items: make(map[string][]byte)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns a copy of the stored value.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	if !ok {
		return nil, records.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put stores value under key, failing when the quota would be exceeded.
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quota > 0 {
		size := len(value)
		for k, v := range s.items {
			if k != key {
				size += len(v)
			}
		}
		if size > s.quota {
			return fmt.Errorf("put %s (%d bytes): %w", key, size, ErrQuotaExceeded)
		}
	}
	s.items[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// Keys lists the stored keys, mainly for tests.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.items))
	for k := range s.items {
		out = append(out, k)
	}
	return out
}

func (s *Store) Close() error { return nil }

var _ records.Store = (*Store)(nil)
