// Package backend is the gateway's single mutation path: both client surfaces
// call the domain services through it, and it publishes one change per
// successful mutation.
package backend

import (
	"context"

	"example.com/fitness/libs/go/entity"
	"example.com/fitness/libs/go/events"
	"example.com/fitness/libs/go/rpc"
)

// Collection fronts the domain service of one entity kind.
type Collection[T entity.Record[T], C entity.Input[T], P entity.Patch[T]] struct {
	kind     entity.Kind
	service  rpc.Service[T, C, P]
	notifier *events.Notifier
}

// NewCollection wraps service. A nil notifier publishes nothing.
func NewCollection[T entity.Record[T], C entity.Input[T], P entity.Patch[T]](kind entity.Kind, service rpc.Service[T, C, P], notifier *events.Notifier) *Collection[T, C, P] {
	return &Collection[T, C, P]{kind: kind, service: service, notifier: notifier}
}

// Kind reports the entity kind served.
func (c *Collection[T, C, P]) Kind() entity.Kind { return c.kind }

func (c *Collection[T, C, P]) Get(ctx context.Context, id string) (T, error) {
	return c.service.Get(ctx, id)
}

func (c *Collection[T, C, P]) List(ctx context.Context, cursor string, limit int) (entity.Page[T], error) {
	return c.service.List(ctx, cursor, limit)
}

// Create validates input locally, calls the domain service and publishes on success.
func (c *Collection[T, C, P]) Create(ctx context.Context, input C) (T, error) {
	if err := input.Validate(); err != nil {
		var zero T
		return zero, err
	}
	created, err := c.service.Create(ctx, input)
	if err != nil {
		return created, err
	}
	c.notifier.Notify(ctx, events.ChangeOf(c.kind, events.ActionCreated, created))
	return created, nil
}

// Update validates patch locally, calls the domain service and publishes on success.
func (c *Collection[T, C, P]) Update(ctx context.Context, id string, patch P) (T, error) {
	if err := patch.Validate(); err != nil {
		var zero T
		return zero, err
	}
	updated, err := c.service.Update(ctx, id, patch)
	if err != nil {
		return updated, err
	}
	c.notifier.Notify(ctx, events.ChangeOf(c.kind, events.ActionUpdated, updated))
	return updated, nil
}

// Delete calls the domain service and publishes the removed record on success.
func (c *Collection[T, C, P]) Delete(ctx context.Context, id string) (T, error) {
	deleted, err := c.service.Delete(ctx, id)
	if err != nil {
		return deleted, err
	}
	c.notifier.Notify(ctx, events.ChangeOf(c.kind, events.ActionDeleted, deleted))
	return deleted, nil
}

// Per-entity collections.
type (
	Accounts  = Collection[entity.Account, entity.AccountInput, entity.AccountPatch]
	Workouts  = Collection[entity.Workout, entity.WorkoutInput, entity.WorkoutPatch]
	Exercises = Collection[entity.Exercise, entity.ExerciseInput, entity.ExercisePatch]
	Diets     = Collection[entity.Diet, entity.DietInput, entity.DietPatch]
)

// Services are the four domain services, usually rpc clients.
type Services struct {
	Accounts  rpc.Service[entity.Account, entity.AccountInput, entity.AccountPatch]
	Workouts  rpc.Service[entity.Workout, entity.WorkoutInput, entity.WorkoutPatch]
	Exercises rpc.Service[entity.Exercise, entity.ExerciseInput, entity.ExercisePatch]
	Diets     rpc.Service[entity.Diet, entity.DietInput, entity.DietPatch]
}

// Backend is built once in main and handed to every surface.
type Backend struct {
	Accounts  *Accounts
	Workouts  *Workouts
	Exercises *Exercises
	Diets     *Diets
}

// New wraps each service in a Collection sharing notifier.
func New(services Services, notifier *events.Notifier) *Backend {
	return &Backend{
		Accounts:  NewCollection(entity.KindAccount, services.Accounts, notifier),
		Workouts:  NewCollection(entity.KindWorkout, services.Workouts, notifier),
		Exercises: NewCollection(entity.KindExercise, services.Exercises, notifier),
		Diets:     NewCollection(entity.KindDiet, services.Diets, notifier),
	}
}
