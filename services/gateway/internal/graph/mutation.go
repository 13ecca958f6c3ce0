package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"

	"example.com/fitness/libs/go/entity"
)

// Mutations go through the same backend collections as the resource surface,
// so they validate and publish identically.

type accountInput struct {
	Name  string
	Email string
	Age   int32
}

type accountPatch struct {
	Name  *string
	Email *string
	Age   *int32
}

func (p accountPatch) contract() entity.AccountPatch {
	out := entity.AccountPatch{Name: p.Name, Email: p.Email}
	if p.Age != nil {
		age := int(*p.Age)
		out.Age = &age
	}
	return out
}

func (r *Resolver) CreateAccount(ctx context.Context, args struct{ Input accountInput }) (*accountResolver, error) {
	account, err := r.backend.Accounts.Create(ctx, entity.AccountInput{
		Name:  args.Input.Name,
		Email: args.Input.Email,
		Age:   int(args.Input.Age),
	})
	return one(r, account, err, r.wrapAccount)
}

func (r *Resolver) UpdateAccount(ctx context.Context, args struct {
	ID    graphql.ID
	Input accountPatch
}) (*accountResolver, error) {
	account, err := r.backend.Accounts.Update(ctx, string(args.ID), args.Input.contract())
	return one(r, account, err, r.wrapAccount)
}

func (r *Resolver) DeleteAccount(ctx context.Context, args idArgs) (*accountResolver, error) {
	account, err := r.backend.Accounts.Delete(ctx, string(args.ID))
	return one(r, account, err, r.wrapAccount)
}

type workoutInput struct {
	Title          string
	Description    *string
	OwnerAccountID graphql.ID
}

type workoutPatch struct {
	Title          *string
	Description    *string
	OwnerAccountID *graphql.ID
}

func (r *Resolver) CreateWorkout(ctx context.Context, args struct{ Input workoutInput }) (*workoutResolver, error) {
	workout, err := r.backend.Workouts.Create(ctx, entity.WorkoutInput{
		Title:          args.Input.Title,
		Description:    text(args.Input.Description),
		OwnerAccountID: string(args.Input.OwnerAccountID),
	})
	return one(r, workout, err, r.wrapWorkout)
}

func (r *Resolver) UpdateWorkout(ctx context.Context, args struct {
	ID    graphql.ID
	Input workoutPatch
}) (*workoutResolver, error) {
	workout, err := r.backend.Workouts.Update(ctx, string(args.ID), entity.WorkoutPatch{
		Title:          args.Input.Title,
		Description:    args.Input.Description,
		OwnerAccountID: idRef(args.Input.OwnerAccountID),
	})
	return one(r, workout, err, r.wrapWorkout)
}

func (r *Resolver) DeleteWorkout(ctx context.Context, args idArgs) (*workoutResolver, error) {
	workout, err := r.backend.Workouts.Delete(ctx, string(args.ID))
	return one(r, workout, err, r.wrapWorkout)
}

type exerciseInput struct {
	Name           string
	Description    *string
	OwnerWorkoutID graphql.ID
}

type exercisePatch struct {
	Name           *string
	Description    *string
	OwnerWorkoutID *graphql.ID
}

func (r *Resolver) CreateExercise(ctx context.Context, args struct{ Input exerciseInput }) (*exerciseResolver, error) {
	exercise, err := r.backend.Exercises.Create(ctx, entity.ExerciseInput{
		Name:           args.Input.Name,
		Description:    text(args.Input.Description),
		OwnerWorkoutID: string(args.Input.OwnerWorkoutID),
	})
	return one(r, exercise, err, r.wrapExercise)
}

func (r *Resolver) UpdateExercise(ctx context.Context, args struct {
	ID    graphql.ID
	Input exercisePatch
}) (*exerciseResolver, error) {
	exercise, err := r.backend.Exercises.Update(ctx, string(args.ID), entity.ExercisePatch{
		Name:           args.Input.Name,
		Description:    args.Input.Description,
		OwnerWorkoutID: idRef(args.Input.OwnerWorkoutID),
	})
	return one(r, exercise, err, r.wrapExercise)
}

func (r *Resolver) DeleteExercise(ctx context.Context, args idArgs) (*exerciseResolver, error) {
	exercise, err := r.backend.Exercises.Delete(ctx, string(args.ID))
	return one(r, exercise, err, r.wrapExercise)
}

type dietInput struct {
	Title          string
	Description    *string
	OwnerAccountID graphql.ID
}

type dietPatch struct {
	Title          *string
	Description    *string
	OwnerAccountID *graphql.ID
}

func (r *Resolver) CreateDiet(ctx context.Context, args struct{ Input dietInput }) (*dietResolver, error) {
	diet, err := r.backend.Diets.Create(ctx, entity.DietInput{
		Title:          args.Input.Title,
		Description:    text(args.Input.Description),
		OwnerAccountID: string(args.Input.OwnerAccountID),
	})
	return one(r, diet, err, r.wrapDiet)
}

func (r *Resolver) UpdateDiet(ctx context.Context, args struct {
	ID    graphql.ID
	Input dietPatch
}) (*dietResolver, error) {
	diet, err := r.backend.Diets.Update(ctx, string(args.ID), entity.DietPatch{
		Title:          args.Input.Title,
		Description:    args.Input.Description,
		OwnerAccountID: idRef(args.Input.OwnerAccountID),
	})
	return one(r, diet, err, r.wrapDiet)
}

func (r *Resolver) DeleteDiet(ctx context.Context, args idArgs) (*dietResolver, error) {
	diet, err := r.backend.Diets.Delete(ctx, string(args.ID))
	return one(r, diet, err, r.wrapDiet)
}

func idRef(id *graphql.ID) *string {
	if id == nil {
		return nil
	}
	s := string(*id)
	return &s
}
