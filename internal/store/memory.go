package store

import (
	"context"
	"sync"

	"github.com/goliatone/go-recipes/recipe"
)

// MemoryStore keeps encoded payloads in a map. State is lost on exit.
type MemoryStore struct {
	mu       sync.RWMutex
	payloads map[string][]byte
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{payloads: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, key string) (*recipe.Recipe, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	s.mu.RLock()
	payload, ok := s.payloads[key]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound(key)
	}
	r, err := Decode(payload)
	if err != nil {
		return nil, err
	}
	return loaded(r), nil
}

func (s *MemoryStore) Save(_ context.Context, key string, r recipe.Recipe) error {
	if err := checkKey(key); err != nil {
		return err
	}
	payload, err := Encode(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.payloads[key] = payload
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.payloads, key)
	s.mu.Unlock()
	return nil
}

// PutRaw stores payload verbatim, bypassing encoding.
func (s *MemoryStore) PutRaw(key string, payload []byte) {
	s.mu.Lock()
	s.payloads[key] = append([]byte(nil), payload...)
	s.mu.Unlock()
}
