package store

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"example.com/fitness/libs/go/entity"
)

// MemoryStore keeps records in memory for local development and tests.
type MemoryStore[T entity.Record[T]] struct {
	mu      sync.RWMutex
	records map[string]T
	uniques []Unique[T]
}

// NewMemoryStore constructs an empty store enforcing the given unique fields.
func NewMemoryStore[T entity.Record[T]](uniques ...Unique[T]) *MemoryStore[T] {
	return &MemoryStore[T]{
		records: make(map[string]T),
		uniques: uniques,
	}
}

// Insert implements Store.
func (s *MemoryStore[T]) Insert(ctx context.Context, doc T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc = doc.WithID(uuid.NewString())
	if s.conflicts(doc) {
		var zero T
		return zero, ErrDuplicate
	}
	s.records[doc.RecordID()] = doc
	return doc, nil
}

// Get implements Store.
func (s *MemoryStore[T]) Get(ctx context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.records[id]
	if !ok {
		return doc, ErrNotFound
	}
	return doc, nil
}

// Replace implements Store.
func (s *MemoryStore[T]) Replace(ctx context.Context, doc T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[doc.RecordID()]; !ok {
		return ErrNotFound
	}
	if s.conflicts(doc) {
		return ErrDuplicate
	}
	s.records[doc.RecordID()] = doc
	return nil
}

// Delete implements Store.
func (s *MemoryStore[T]) Delete(ctx context.Context, id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.records[id]
	if !ok {
		return doc, ErrNotFound
	}
	delete(s.records, id)
	return doc, nil
}

// List implements Store.
func (s *MemoryStore[T]) List(ctx context.Context, after string, limit int) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		if id > after {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	limit = pageSize(limit)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.records[id])
	}
	return out, nil
}

// conflicts reports whether doc repeats a unique value held by another record.
// Callers hold the write lock.
func (s *MemoryStore[T]) conflicts(doc T) bool {
	for _, u := range s.uniques {
		value := u.Value(doc)
		for id, existing := range s.records {
			if id != doc.RecordID() && u.Value(existing) == value {
				return true
			}
		}
	}
	return false
}
