package audit

import (
	"context"
	"sync"
)

// MemoryStorage is an in-process audit backend for tests and dry runs.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []*Record
}

// NewMemoryStorage creates an empty in-memory audit backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store implements Storage.
func (s *MemoryStorage) Store(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.records = append(s.records, &cp)
	return nil
}

// Query implements Storage. Records are returned newest first.
func (s *MemoryStorage) Query(ctx context.Context, q *Query) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Record
	for i := len(s.records) - 1; i >= 0; i-- {
		rec := s.records[i]
		if !matches(rec, q) {
			continue
		}
		cp := *rec
		out = append(out, &cp)
		if q != nil && q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out, nil
}

// Count implements Storage.
func (s *MemoryStorage) Count(ctx context.Context, q *Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, rec := range s.records {
		if matches(rec, q) {
			n++
		}
	}
	return n, nil
}

// Delete implements Storage.
func (s *MemoryStorage) Delete(ctx context.Context, q *Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []*Record
	var deleted int64
	for _, rec := range s.records {
		if matches(rec, q) {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	s.records = kept
	return deleted, nil
}

// Close implements Storage.
func (s *MemoryStorage) Close() error {
	return nil
}

// matches applies query filters to a record.
func matches(rec *Record, q *Query) bool {
	if q == nil {
		return true
	}
	if q.Identity != "" && rec.Identity != q.Identity {
		return false
	}
	if q.Step != "" && rec.Step != q.Step {
		return false
	}
	if q.OnlyFailed && rec.Succeeded {
		return false
	}
	if q.Since != nil && rec.RecordedAt.Before(*q.Since) {
		return false
	}
	if q.Until != nil && rec.RecordedAt.After(*q.Until) {
		return false
	}
	return true
}
