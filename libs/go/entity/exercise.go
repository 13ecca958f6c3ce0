package entity

import (
	"strings"

	"example.com/fitness/libs/go/apperr"
)

// Exercise belongs to a workout through OwnerWorkoutID.
type Exercise struct {
	ID             string `json:"id" bson:"_id"`
	Name           string `json:"name" bson:"name"`
	Description    string `json:"description,omitempty" bson:"description,omitempty"`
	OwnerWorkoutID string `json:"ownerWorkoutId" bson:"ownerWorkoutId"`
}

func (e Exercise) RecordID() string { return e.ID }

func (e Exercise) WithID(id string) Exercise {
	e.ID = id
	return e
}

func (e Exercise) DisplayName() string { return e.Name }

func (e Exercise) OwnerRef() string { return e.OwnerWorkoutID }

// ExerciseInput is the create contract for an exercise.
type ExerciseInput struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	OwnerWorkoutID string `json:"ownerWorkoutId"`
}

// Validate ensures request correctness.
func (in ExerciseInput) Validate() error {
	if blank(in.Name) {
		return apperr.Validation("name is required")
	}
	if blank(in.OwnerWorkoutID) {
		return apperr.Validation("ownerWorkoutId is required")
	}
	return nil
}

func (in ExerciseInput) OwnerRef() string { return strings.TrimSpace(in.OwnerWorkoutID) }

func (in ExerciseInput) Record() Exercise {
	return Exercise{
		Name:           strings.TrimSpace(in.Name),
		Description:    strings.TrimSpace(in.Description),
		OwnerWorkoutID: strings.TrimSpace(in.OwnerWorkoutID),
	}
}

// ExercisePatch is the partial update contract for an exercise.
type ExercisePatch struct {
	Name           *string `json:"name,omitempty"`
	Description    *string `json:"description,omitempty"`
	OwnerWorkoutID *string `json:"ownerWorkoutId,omitempty"`
}

// Validate checks every supplied field.
func (p ExercisePatch) Validate() error {
	if p.Name != nil && blank(*p.Name) {
		return apperr.Validation("name must not be blank")
	}
	if p.OwnerWorkoutID != nil && blank(*p.OwnerWorkoutID) {
		return apperr.Validation("ownerWorkoutId must not be blank")
	}
	return nil
}

func (p ExercisePatch) OwnerRef() string {
	if p.OwnerWorkoutID == nil {
		return ""
	}
	return strings.TrimSpace(*p.OwnerWorkoutID)
}

func (p ExercisePatch) Apply(e Exercise) Exercise {
	setIfPresent(&e.Name, p.Name)
	setIfPresent(&e.Description, p.Description)
	setIfPresent(&e.OwnerWorkoutID, p.OwnerWorkoutID)
	return e
}
