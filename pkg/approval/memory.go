package approval

import (
	"context"
	"sync"
)

// MemoryStore is an in-process approval store for tests and dry runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]Record
}

// NewMemoryStore creates an empty in-memory approval store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]Record)}
}

// Record implements Store.
func (s *MemoryStore) Record(ctx context.Context, proposalID string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[proposalID] = append(s.records[proposalID], rec)
	return nil
}

// Latest implements Store. Records are returned in insertion order, so the
// last one wins.
func (s *MemoryStore) Latest(ctx context.Context, proposalID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.records[proposalID]
	if len(recs) == 0 {
		return nil, nil
	}
	rec := recs[len(recs)-1]
	return &rec, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}
