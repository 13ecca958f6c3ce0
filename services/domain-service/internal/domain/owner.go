package domain

import (
	"context"
	"errors"
	"fmt"

	"example.com/fitness/libs/go/apperr"
	"example.com/fitness/libs/go/entity"
	"example.com/fitness/services/domain-service/internal/observability"
)

// OwnerLookup verifies that a referenced owner exists before a dependent write.
type OwnerLookup interface {
	Exists(ctx context.Context, id string) error
}

// Getter fetches a record by id. Both a local Service and an rpc client satisfy it.
type Getter[T any] interface {
	Get(ctx context.Context, id string) (T, error)
}

type ownerLookup[T any] struct {
	kind   entity.Kind
	getter Getter[T]
}

// OwnerOf builds an OwnerLookup for kind backed by getter. A missing owner
// becomes a parent-not-found failure; anything else is Internal.
func OwnerOf[T any](kind entity.Kind, getter Getter[T]) OwnerLookup {
	return ownerLookup[T]{kind: kind, getter: getter}
}

func (l ownerLookup[T]) Exists(ctx context.Context, id string) error {
	_, err := l.getter.Get(ctx, id)
	switch {
	case err == nil:
		observability.RecordOwnerCheck(string(l.kind), observability.OutcomeOK)
		return nil
	case errors.Is(err, apperr.ErrNotFound):
		observability.RecordOwnerCheck(string(l.kind), observability.OutcomeNotFound)
		return apperr.ParentNotFound(string(l.kind), id)
	default:
		observability.RecordOwnerCheck(string(l.kind), observability.OutcomeInternal)
		return apperr.Internal(fmt.Errorf("look up %s %s: %w", l.kind, id, err))
	}
}
