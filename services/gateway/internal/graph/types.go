package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"example.com/fitness/libs/go/entity"
)

type accountResolver struct {
	root    *Resolver
	account entity.Account
}

func (r *Resolver) wrapAccount(a entity.Account) *accountResolver {
	return &accountResolver{root: r, account: a}
}

func (a *accountResolver) ID() graphql.ID { return graphql.ID(a.account.ID) }
func (a *accountResolver) Name() string  { return a.account.Name }
func (a *accountResolver) Email() string { return a.account.Email }
func (a *accountResolver) Age() int32    { return int32(a.account.Age) }

type workoutResolver struct {
	root    *Resolver
	workout entity.Workout
}

func (r *Resolver) wrapWorkout(w entity.Workout) *workoutResolver {
	return &workoutResolver{root: r, workout: w}
}

func (w *workoutResolver) ID() graphql.ID             { return graphql.ID(w.workout.ID) }
func (w *workoutResolver) Title() string              { return w.workout.Title }
func (w *workoutResolver) Description() *string       { return optional(w.workout.Description) }
func (w *workoutResolver) OwnerAccountID() graphql.ID { return graphql.ID(w.workout.OwnerAccountID) }

// Owner resolves the referenced account. A dangling reference resolves to null with a NOT_FOUND error.
func (w *workoutResolver) Owner(ctx context.Context) (*accountResolver, error) {
	account, err := w.root.backend.Accounts.Get(ctx, w.workout.OwnerAccountID)
	return one(w.root, account, err, w.root.wrapAccount)
}

type exerciseResolver struct {
	root     *Resolver
	exercise entity.Exercise
}

func (r *Resolver) wrapExercise(e entity.Exercise) *exerciseResolver {
	return &exerciseResolver{root: r, exercise: e}
}

func (e *exerciseResolver) ID() graphql.ID             { return graphql.ID(e.exercise.ID) }
func (e *exerciseResolver) Name() string               { return e.exercise.Name }
func (e *exerciseResolver) Description() *string       { return optional(e.exercise.Description) }
func (e *exerciseResolver) OwnerWorkoutID() graphql.ID { return graphql.ID(e.exercise.OwnerWorkoutID) }

func (e *exerciseResolver) Owner(ctx context.Context) (*workoutResolver, error) {
	workout, err := e.root.backend.Workouts.Get(ctx, e.exercise.OwnerWorkoutID)
	return one(e.root, workout, err, e.root.wrapWorkout)
}

type dietResolver struct {
	root *Resolver
	diet entity.Diet
}

func (r *Resolver) wrapDiet(d entity.Diet) *dietResolver {
	return &dietResolver{root: r, diet: d}
}

func (d *dietResolver) ID() graphql.ID             { return graphql.ID(d.diet.ID) }
func (d *dietResolver) Title() string              { return d.diet.Title }
func (d *dietResolver) Description() *string       { return optional(d.diet.Description) }
func (d *dietResolver) OwnerAccountID() graphql.ID { return graphql.ID(d.diet.OwnerAccountID) }

func (d *dietResolver) Owner(ctx context.Context) (*accountResolver, error) {
	account, err := d.root.backend.Accounts.Get(ctx, d.diet.OwnerAccountID)
	return one(d.root, account, err, d.root.wrapAccount)
}
