package overrides

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store used by tests and the memory backend.
type MemoryStore struct {
	mu sync.Mutex
	m  map[int]bool

	// LoadErr and SaveErr, when set, are returned by the next call. Tests
	// use them to exercise the fail-open path.
	LoadErr error
	SaveErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: map[int]bool{}}
}

func (s *MemoryStore) Load(_ context.Context) (map[int]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	out := make(map[int]bool, len(s.m))
	for k, v := range s.m {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) SaveAll(_ context.Context, m map[int]bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.m = make(map[int]bool, len(m))
	for k, v := range m {
		s.m[k] = v
	}
	return nil
}
