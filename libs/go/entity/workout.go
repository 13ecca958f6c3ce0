package entity

import (
	"strings"

	"example.com/fitness/libs/go/apperr"
)

// Workout belongs to an account through OwnerAccountID.
type Workout struct {
	ID             string `json:"id" bson:"_id"`
	Title          string `json:"title" bson:"title"`
	Description    string `json:"description,omitempty" bson:"description,omitempty"`
	OwnerAccountID string `json:"ownerAccountId" bson:"ownerAccountId"`
}

func (w Workout) RecordID() string { return w.ID }

func (w Workout) WithID(id string) Workout {
	w.ID = id
	return w
}

func (w Workout) DisplayName() string { return w.Title }

func (w Workout) OwnerRef() string { return w.OwnerAccountID }

// WorkoutInput is the create contract for a workout.
type WorkoutInput struct {
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	OwnerAccountID string `json:"ownerAccountId"`
}

// Validate ensures request correctness.
func (in WorkoutInput) Validate() error {
	if blank(in.Title) {
		return apperr.Validation("title is required")
	}
	if blank(in.OwnerAccountID) {
		return apperr.Validation("ownerAccountId is required")
	}
	return nil
}

func (in WorkoutInput) OwnerRef() string { return strings.TrimSpace(in.OwnerAccountID) }

func (in WorkoutInput) Record() Workout {
	return Workout{
		Title:          strings.TrimSpace(in.Title),
		Description:    strings.TrimSpace(in.Description),
		OwnerAccountID: strings.TrimSpace(in.OwnerAccountID),
	}
}

// WorkoutPatch is the partial update contract for a workout.
type WorkoutPatch struct {
	Title          *string `json:"title,omitempty"`
	Description    *string `json:"description,omitempty"`
	OwnerAccountID *string `json:"ownerAccountId,omitempty"`
}

// Validate checks every supplied field.
func (p WorkoutPatch) Validate() error {
	if p.Title != nil && blank(*p.Title) {
		return apperr.Validation("title must not be blank")
	}
	if p.OwnerAccountID != nil && blank(*p.OwnerAccountID) {
		return apperr.Validation("ownerAccountId must not be blank")
	}
	return nil
}

func (p WorkoutPatch) OwnerRef() string {
	if p.OwnerAccountID == nil {
		return ""
	}
	return strings.TrimSpace(*p.OwnerAccountID)
}

func (p WorkoutPatch) Apply(w Workout) Workout {
	setIfPresent(&w.Title, p.Title)
	setIfPresent(&w.Description, p.Description)
	setIfPresent(&w.OwnerAccountID, p.OwnerAccountID)
	return w
}
