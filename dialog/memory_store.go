package dialog

import (
	"context"
	"sync"
)

// MemoryStore is a Store for tests and ephemeral runs. Safe for
// concurrent use across threads; per-thread serialization is still the
// caller's job.
type MemoryStore struct {
	mu     sync.Mutex
	states map[string]State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]State)}
}

func (s *MemoryStore) Get(ctx context.Context, threadID string) (State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[threadID]
	return st, ok, nil
}

func (s *MemoryStore) Save(ctx context.Context, threadID string, st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[threadID] = st
	return nil
}
