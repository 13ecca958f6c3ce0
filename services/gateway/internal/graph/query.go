package graph

import "context"

func (r *Resolver) Accounts(ctx context.Context, args listArgs) (*pageResolver[*accountResolver], error) {
	return list(ctx, r, args, r.backend.Accounts.List, r.wrapAccount)
}

func (r *Resolver) Workouts(ctx context.Context, args listArgs) (*pageResolver[*workoutResolver], error) {
	return list(ctx, r, args, r.backend.Workouts.List, r.wrapWorkout)
}

func (r *Resolver) Exercises(ctx context.Context, args listArgs) (*pageResolver[*exerciseResolver], error) {
	return list(ctx, r, args, r.backend.Exercises.List, r.wrapExercise)
}

func (r *Resolver) Diets(ctx context.Context, args listArgs) (*pageResolver[*dietResolver], error) {
	return list(ctx, r, args, r.backend.Diets.List, r.wrapDiet)
}

func (r *Resolver) Account(ctx context.Context, args idArgs) (*accountResolver, error) {
	account, err := r.backend.Accounts.Get(ctx, string(args.ID))
	return one(r, account, err, r.wrapAccount)
}

func (r *Resolver) Workout(ctx context.Context, args idArgs) (*workoutResolver, error) {
	workout, err := r.backend.Workouts.Get(ctx, string(args.ID))
	return one(r, workout, err, r.wrapWorkout)
}

func (r *Resolver) Exercise(ctx context.Context, args idArgs) (*exerciseResolver, error) {
	exercise, err := r.backend.Exercises.Get(ctx, string(args.ID))
	return one(r, exercise, err, r.wrapExercise)
}

func (r *Resolver) Diet(ctx context.Context, args idArgs) (*dietResolver, error) {
	diet, err := r.backend.Diets.Get(ctx, string(args.ID))
	return one(r, diet, err, r.wrapDiet)
}
