// Package backendtest provides in-memory domain services for gateway tests.
package backendtest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"example.com/fitness/libs/go/apperr"
	"example.com/fitness/libs/go/entity"
	"example.com/fitness/libs/go/events"
	"example.com/fitness/libs/go/store"
	"example.com/fitness/services/gateway/internal/backend"
)

// MaxPageSize mirrors the domain services' cap on List.
const MaxPageSize = 100

// Service mimics a domain service over a memory store.
type Service[T entity.Record[T], C entity.Input[T], P entity.Patch[T]] struct {
	kind  entity.Kind
	store *store.MemoryStore[T]
	owner func(ctx context.Context, id string) error

	// Fail, when set, is returned by every call.
	Fail error

	gets  atomic.Int64
	calls atomic.Int64
}

// NewService returns an empty fake for kind.
func NewService[T entity.Record[T], C entity.Input[T], P entity.Patch[T]](kind entity.Kind, uniques ...store.Unique[T]) *Service[T, C, P] {
	return &Service[T, C, P]{kind: kind, store: store.NewMemoryStore(uniques...)}
}

// Gets reports how many Get calls reached the fake.
func (s *Service[T, C, P]) Gets() int64 { return s.gets.Load() }

// Calls reports how many calls of any kind reached the fake.
func (s *Service[T, C, P]) Calls() int64 { return s.calls.Load() }

func (s *Service[T, C, P]) Create(ctx context.Context, input C) (T, error) {
	var zero T
	s.calls.Add(1)
	if s.Fail != nil {
		return zero, s.Fail
	}
	if err := input.Validate(); err != nil {
		return zero, err
	}
	if err := s.checkOwner(ctx, input.OwnerRef()); err != nil {
		return zero, err
	}
	stored, err := s.store.Insert(ctx, input.Record())
	if err != nil {
		return zero, s.translate("", err)
	}
	return stored, nil
}

func (s *Service[T, C, P]) Get(ctx context.Context, id string) (T, error) {
	s.calls.Add(1)
	s.gets.Add(1)
	if s.Fail != nil {
		var zero T
		return zero, s.Fail
	}
	record, err := s.store.Get(ctx, id)
	return record, s.translate(id, err)
}

func (s *Service[T, C, P]) Update(ctx context.Context, id string, patch P) (T, error) {
	var zero T
	s.calls.Add(1)
	if s.Fail != nil {
		return zero, s.Fail
	}
	if err := patch.Validate(); err != nil {
		return zero, err
	}
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return zero, s.translate(id, err)
	}
	if err := s.checkOwner(ctx, patch.OwnerRef()); err != nil {
		return zero, err
	}
	next := patch.Apply(current)
	if err := s.store.Replace(ctx, next); err != nil {
		return zero, s.translate(id, err)
	}
	return next, nil
}

func (s *Service[T, C, P]) Delete(ctx context.Context, id string) (T, error) {
	s.calls.Add(1)
	if s.Fail != nil {
		var zero T
		return zero, s.Fail
	}
	prior, err := s.store.Delete(ctx, id)
	return prior, s.translate(id, err)
}

func (s *Service[T, C, P]) List(ctx context.Context, cursor string, limit int) (entity.Page[T], error) {
	s.calls.Add(1)
	if s.Fail != nil {
		return entity.Page[T]{}, s.Fail
	}
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
		return entity.Page[T]{}, apperr.Internal(err)
	}
	page := entity.Page[T]{Items: items}
	if len(items) == limit {
		page.NextCursor = store.EncodeCursor(items[len(items)-1].RecordID())
	}
	return page, nil
}

// lookup reads a record like Get without counting the call.
func (s *Service[T, C, P]) lookup(ctx context.Context, id string) (T, error) {
	record, err := s.store.Get(ctx, id)
	return record, s.translate(id, err)
}

func (s *Service[T, C, P]) checkOwner(ctx context.Context, id string) error {
	if id == "" || s.owner == nil {
		return nil
	}
	return s.owner(ctx, id)
}

func (s *Service[T, C, P]) translate(id string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound(string(s.kind), id)
	case errors.Is(err, store.ErrDuplicate):
		return apperr.Validation("email already registered")
	default:
		return apperr.Internal(err)
	}
}

func ownerCheck[T any](kind entity.Kind, get func(ctx context.Context, id string) (T, error)) func(context.Context, string) error {
	return func(ctx context.Context, id string) error {
		if _, err := get(ctx, id); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return apperr.ParentNotFound(string(kind), id)
			}
			return err
		}
		return nil
	}
}

// Fitness is a full set of fakes with foreign keys wired like the real services.
type Fitness struct {
	Accounts  *Service[entity.Account, entity.AccountInput, entity.AccountPatch]
	Workouts  *Service[entity.Workout, entity.WorkoutInput, entity.WorkoutPatch]
	Exercises *Service[entity.Exercise, entity.ExerciseInput, entity.ExercisePatch]
	Diets     *Service[entity.Diet, entity.DietInput, entity.DietPatch]
}

// NewFitness builds the four fakes.
func NewFitness() *Fitness {
	f := &Fitness{
		Accounts: NewService[entity.Account, entity.AccountInput, entity.AccountPatch](entity.KindAccount, store.Unique[entity.Account]{
			Field: "email",
			Value: func(a entity.Account) string { return a.Email },
		}),
		Workouts:  NewService[entity.Workout, entity.WorkoutInput, entity.WorkoutPatch](entity.KindWorkout),
		Exercises: NewService[entity.Exercise, entity.ExerciseInput, entity.ExercisePatch](entity.KindExercise),
		Diets:     NewService[entity.Diet, entity.DietInput, entity.DietPatch](entity.KindDiet),
	}
	f.Workouts.owner = ownerCheck(entity.KindAccount, f.Accounts.lookup)
	f.Exercises.owner = ownerCheck(entity.KindWorkout, f.Workouts.lookup)
	f.Diets.owner = ownerCheck(entity.KindAccount, f.Accounts.lookup)
	return f
}

// Backend wraps the fakes the way main wraps the rpc clients.
func (f *Fitness) Backend(notifier *events.Notifier) *backend.Backend {
	return backend.New(backend.Services{
		Accounts:  f.Accounts,
		Workouts:  f.Workouts,
		Exercises: f.Exercises,
		Diets:     f.Diets,
	}, notifier)
}

// Recorder is a Publisher remembering every change message.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *Recorder) Publish(_ context.Context, change events.Change) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, change.Message())
	return nil
}

func (r *Recorder) Close() error { return nil }

// Messages returns a copy of the recorded messages.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}
