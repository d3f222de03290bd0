package session

import (
	"context"
	"sync"
)

// MemoryStore is the in-process fallback used when Redis is unreachable.
// Entries live until cleared or the process exits; there is no eviction.
type MemoryStore struct {
	mu        sync.RWMutex
	histories map[string][]Message
}

// NewMemoryStore creates an empty in-process history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{histories: make(map[string][]Message)}
}

// Load returns the stored history for the session, if any.
func (s *MemoryStore) Load(_ context.Context, sessionID string) ([]Message, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.histories[sessionID]
	if !ok {
		return nil, false, nil
	}
	out := make([]Message, len(history))
	copy(out, history)
	return out, true, nil
}

// Save overwrites the stored history for the session.
func (s *MemoryStore) Save(_ context.Context, sessionID string, history []Message) error {
	stored := make([]Message, len(history))
	copy(stored, history)

	s.mu.Lock()
	s.histories[sessionID] = stored
	s.mu.Unlock()
	return nil
}

// Delete removes the stored history for the session.
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.histories, sessionID)
	s.mu.Unlock()
	return nil
}
