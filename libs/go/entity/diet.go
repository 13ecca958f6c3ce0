package entity

import (
	"strings"

	"example.com/fitness/libs/go/apperr"
)

// Diet is a nutrition plan owned by an account.
type Diet struct {
	ID             string `json:"id" bson:"_id"`
	Title          string `json:"title" bson:"title"`
	Description    string `json:"description,omitempty" bson:"description,omitempty"`
	OwnerAccountID string `json:"ownerAccountId" bson:"ownerAccountId"`
}

func (d Diet) RecordID() string { return d.ID }

func (d Diet) WithID(id string) Diet {
	d.ID = id
	return d
}

func (d Diet) DisplayName() string { return d.Title }

func (d Diet) OwnerRef() string { return d.OwnerAccountID }

// DietInput is the create contract for a diet.
type DietInput struct {
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	OwnerAccountID string `json:"ownerAccountId"`
}

// Validate ensures request correctness.
func (in DietInput) Validate() error {
	if blank(in.Title) {
		return apperr.Validation("title is required")
	}
	if blank(in.OwnerAccountID) {
		return apperr.Validation("ownerAccountId is required")
	}
	return nil
}

func (in DietInput) OwnerRef() string { return strings.TrimSpace(in.OwnerAccountID) }

func (in DietInput) Record() Diet {
	return Diet{
		Title:          strings.TrimSpace(in.Title),
		Description:    strings.TrimSpace(in.Description),
		OwnerAccountID: strings.TrimSpace(in.OwnerAccountID),
	}
}

// DietPatch is the partial update contract for a diet.
type DietPatch struct {
	Title          *string `json:"title,omitempty"`
	Description    *string `json:"description,omitempty"`
	OwnerAccountID *string `json:"ownerAccountId,omitempty"`
}

// Validate checks every supplied field.
func (p DietPatch) Validate() error {
	if p.Title != nil && blank(*p.Title) {
		return apperr.Validation("title must not be blank")
	}
	if p.OwnerAccountID != nil && blank(*p.OwnerAccountID) {
		return apperr.Validation("ownerAccountId must not be blank")
	}
	return nil
}

func (p DietPatch) OwnerRef() string {
	if p.OwnerAccountID == nil {
		return ""
	}
	return strings.TrimSpace(*p.OwnerAccountID)
}

func (p DietPatch) Apply(d Diet) Diet {
	setIfPresent(&d.Title, p.Title)
	setIfPresent(&d.Description, p.Description)
	setIfPresent(&d.OwnerAccountID, p.OwnerAccountID)
	return d
}
