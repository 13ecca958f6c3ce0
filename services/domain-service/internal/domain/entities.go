package domain

import (
	"example.com/fitness/libs/go/entity"
	"example.com/fitness/libs/go/store"
)

// Per-entity services.
type (
	AccountService  = Service[entity.Account, entity.AccountInput, entity.AccountPatch]
	WorkoutService  = Service[entity.Workout, entity.WorkoutInput, entity.WorkoutPatch]
	ExerciseService = Service[entity.Exercise, entity.ExerciseInput, entity.ExercisePatch]
	DietService     = Service[entity.Diet, entity.DietInput, entity.DietPatch]
)

// AccountUniques declares the unique fields of the accounts collection.
func AccountUniques() []store.Unique[entity.Account] {
	return []store.Unique[entity.Account]{{
		Field: "email",
		Value: func(a entity.Account) string { return a.Email },
	}}
}

func NewAccountService(st store.Store[entity.Account], opts ...Option) *AccountService {
	opts = append([]Option{WithConflictMessage("email already registered")}, opts...)
	return NewService[entity.Account, entity.AccountInput, entity.AccountPatch](entity.KindAccount, st, nil, opts...)
}

// NewWorkoutService checks ownerAccountId through accounts.
func NewWorkoutService(st store.Store[entity.Workout], accounts OwnerLookup, opts ...Option) *WorkoutService {
	return NewService[entity.Workout, entity.WorkoutInput, entity.WorkoutPatch](entity.KindWorkout, st, accounts, opts...)
}

// NewExerciseService checks ownerWorkoutId through workouts.
func NewExerciseService(st store.Store[entity.Exercise], workouts OwnerLookup, opts ...Option) *ExerciseService {
	return NewService[entity.Exercise, entity.ExerciseInput, entity.ExercisePatch](entity.KindExercise, st, workouts, opts...)
}

// NewDietService checks ownerAccountId through accounts.
func NewDietService(st store.Store[entity.Diet], accounts OwnerLookup, opts ...Option) *DietService {
	return NewService[entity.Diet, entity.DietInput, entity.DietPatch](entity.KindDiet, st, accounts, opts...)
}
