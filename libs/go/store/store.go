// Package store contains the document persistence backends used by the domain
// services. Every backend assigns record ids itself and keeps one collection per
// entity kind.
package store

import (
	"context"
	"errors"

	"example.com/fitness/libs/go/entity"
)

var (
	// ErrNotFound is returned when no record carries the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write would violate a unique field.
	ErrDuplicate = errors.New("duplicate unique field")
)

// DefaultPageSize bounds List when callers pass a non-positive limit.
const DefaultPageSize = 50

// Store persists records of a single kind. Each write targets one id.
type Store[T entity.Record[T]] interface {
	// Insert assigns a fresh id to doc, persists it and returns the stored copy.
	Insert(ctx context.Context, doc T) (T, error)
	Get(ctx context.Context, id string) (T, error)
	// Replace overwrites an existing record. It never creates.
	Replace(ctx context.Context, doc T) error
	// Delete removes the record and returns its last stored value.
	Delete(ctx context.Context, id string) (T, error)
	// List returns up to limit records ordered by id, starting after the given id.
	List(ctx context.Context, after string, limit int) ([]T, error)
}

// Unique declares a field whose value must not repeat across a collection.
// Field is the document (JSON/BSON) field name.
type Unique[T any] struct {
	Field string
	Value func(T) string
}

func pageSize(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	return limit
}
