package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-process DocStore used in tests and as a
// zero-dependency backend for local development.
//
// Update holds the store lock for the whole read-modify-write, so
// concurrent updates to the same key serialize and no history entry
// is lost on this backend.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), doc...), nil
}

func (s *MemoryStore) Scan(ctx context.Context, prefix string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.docs))
	for key := range s.docs {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	docs := make([][]byte, 0, len(keys))
	for _, key := range keys {
		docs = append(docs, append([]byte(nil), s.docs[key]...))
	}
	return docs, nil
}

func (s *MemoryStore) Put(ctx context.Context, key string, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[key] = append([]byte(nil), doc...)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, key string, fn UpdateFunc) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.docs[key]
	if !ok {
		return nil, ErrNotFound
	}

	next, err := fn(append([]byte(nil), current...))
	if err != nil {
		return nil, err
	}

	s.docs[key] = next
	return append([]byte(nil), next...), nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.docs[key]
	delete(s.docs, key)
	return ok, nil
}
