// Package domain implements the entity services: validated CRUD over a document
// store with foreign keys checked against the owning service before every write.
package domain

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"example.com/fitness/libs/go/apperr"
	"example.com/fitness/libs/go/entity"
	"example.com/fitness/libs/go/events"
	"example.com/fitness/libs/go/store"
	"example.com/fitness/services/domain-service/internal/observability"
)

// MaxPageSize caps List regardless of the requested limit.
const MaxPageSize = 100

// Service orchestrates one entity kind. It holds no locks; concurrent calls on
// different ids never wait on each other.
type Service[T entity.Record[T], C entity.Input[T], P entity.Patch[T]] struct {
	kind     entity.Kind
	store    store.Store[T]
	owner    OwnerLookup
	notifier *events.Notifier
	logger   logrus.FieldLogger
	conflict string
}

// Option configures optional Service behaviour.
type Option func(*settings)

type settings struct {
	notifier *events.Notifier
	logger   logrus.FieldLogger
	conflict string
}

// WithNotifier publishes a change after every committed mutation.
func WithNotifier(n *events.Notifier) Option {
	return func(s *settings) { s.notifier = n }
}

// WithLogger sets the service logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithConflictMessage sets the validation detail reported when a write repeats a unique field.
func WithConflictMessage(detail string) Option {
	return func(s *settings) { s.conflict = detail }
}

// NewService constructs a Service. owner may be nil only for kinds without a foreign key.
func NewService[T entity.Record[T], C entity.Input[T], P entity.Patch[T]](kind entity.Kind, st store.Store[T], owner OwnerLookup, opts ...Option) *Service[T, C, P] {
	discard := logrus.New()
	discard.Out = io.Discard
	cfg := settings{logger: discard, conflict: fmt.Sprintf("%s conflicts with an existing record", kind)}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Service[T, C, P]{
		kind:     kind,
		store:    st,
		owner:    owner,
		notifier: cfg.notifier,
		logger:   cfg.logger.WithField("entity", string(kind)),
		conflict: cfg.conflict,
	}
}

// Kind reports the entity kind served.
func (s *Service[T, C, P]) Kind() entity.Kind { return s.kind }

// Create validates input, checks its owner and persists it under a fresh id.
func (s *Service[T, C, P]) Create(ctx context.Context, input C) (T, error) {
	var zero T
	if err := input.Validate(); err != nil {
		return zero, s.failed("create", err)
	}
	if err := s.checkOwner(ctx, input.OwnerRef()); err != nil {
		return zero, s.failed("create", err)
	}

	stored, err := s.store.Insert(ctx, input.Record())
	if err != nil {
		return zero, s.failed("create", s.storeError("create", "", err))
	}

	s.committed(ctx, "create", events.ActionCreated, stored)
	return stored, nil
}

// Get fetches by id.
func (s *Service[T, C, P]) Get(ctx context.Context, id string) (T, error) {
	record, err := s.store.Get(ctx, id)
	if err != nil {
		var zero T
		return zero, s.storeError("get", id, err)
	}
	return record, nil
}

// Update applies patch to an existing record. The target must exist before a
// supplied foreign key is checked. Update never creates.
func (s *Service[T, C, P]) Update(ctx context.Context, id string, patch P) (T, error) {
	var zero T
	if err := patch.Validate(); err != nil {
		return zero, s.failed("update", err)
	}

	current, err := s.store.Get(ctx, id)
	if err != nil {
		return zero, s.failed("update", s.storeError("update", id, err))
	}
	if ref := patch.OwnerRef(); ref != "" {
		if err := s.checkOwner(ctx, ref); err != nil {
			return zero, s.failed("update", err)
		}
	}

	next := patch.Apply(current)
	if err := s.store.Replace(ctx, next); err != nil {
		return zero, s.failed("update", s.storeError("update", id, err))
	}

	s.committed(ctx, "update", events.ActionUpdated, next)
	return next, nil
}

// Delete removes the record and returns it as it was immediately before removal.
// Records referencing it are left in place.
func (s *Service[T, C, P]) Delete(ctx context.Context, id string) (T, error) {
	prior, err := s.store.Delete(ctx, id)
	if err != nil {
		var zero T
		return zero, s.failed("delete", s.storeError("delete", id, err))
	}

	s.committed(ctx, "delete", events.ActionDeleted, prior)
	return prior, nil
}

// List returns one page ordered by id. NextCursor is set while the page is full.
func (s *Service[T, C, P]) List(ctx context.Context, cursor string, limit int) (entity.Page[T], error) {
	after, err := store.DecodeCursor(cursor)
	if err != nil {
		return entity.Page[T]{}, apperr.Validation("invalid cursor")
	}
	switch {
	case limit < 0:
		return entity.Page[T]{}, apperr.Validation("limit must not be negative")
	case limit == 0:
		limit = store.DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}

	items, err := s.store.List(ctx, after, limit)
	if err != nil {
		return entity.Page[T]{}, s.storeError("list", "", err)
	}

	page := entity.Page[T]{Items: items}
	if len(items) == limit {
		page.NextCursor = store.EncodeCursor(items[len(items)-1].RecordID())
	}
	return page, nil
}

func (s *Service[T, C, P]) checkOwner(ctx context.Context, id string) error {
	if id == "" || s.owner == nil {
		return nil
	}
	return s.owner.Exists(ctx, id)
}

func (s *Service[T, C, P]) storeError(op, id string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound(string(s.kind), id)
	case errors.Is(err, store.ErrDuplicate):
		return apperr.Validation("%s", s.conflict)
	default:
		return apperr.Internal(fmt.Errorf("%s %s: %w", op, s.kind, err))
	}
}

func (s *Service[T, C, P]) failed(op string, err error) error {
	outcome := observability.OutcomeInternal
	switch apperr.KindOf(err) {
	case apperr.ErrNotFound:
		outcome = observability.OutcomeNotFound
	case apperr.ErrValidation:
		outcome = observability.OutcomeValidation
	default:
		s.logger.WithError(err).WithField("operation", op).Error("write failed")
	}
	observability.RecordWrite(string(s.kind), op, outcome)
	return err
}

func (s *Service[T, C, P]) committed(ctx context.Context, op string, action events.Action, record T) {
	observability.RecordWrite(string(s.kind), op, observability.OutcomeOK)
	s.logger.WithField("id", record.RecordID()).Debugf("%s %s", s.kind, action)
	s.notifier.Notify(ctx, events.ChangeOf(s.kind, action, record))
}
