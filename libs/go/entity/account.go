package entity

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"example.com/fitness/libs/go/apperr"
)

const maxAge = 150

var validate = validator.New()

// Account is the root owner record. Email is unique across all accounts.
type Account struct {
	ID    string `json:"id" bson:"_id"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Age   int    `json:"age" bson:"age"`
}

func (a Account) RecordID() string { return a.ID }

func (a Account) WithID(id string) Account {
	a.ID = id
	return a
}

func (a Account) DisplayName() string { return a.Name }

// OwnerRef is always empty: accounts reference nothing.
func (a Account) OwnerRef() string { return "" }

// AccountInput is the create contract for an account.
type AccountInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

// Validate ensures request correctness.
func (in AccountInput) Validate() error {
	if blank(in.Name) {
		return apperr.Validation("name is required")
	}
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	return validateAge(in.Age)
}

func (in AccountInput) OwnerRef() string { return "" }

func (in AccountInput) Record() Account {
	return Account{
		Name:  strings.TrimSpace(in.Name),
		Email: NormalizeEmail(in.Email),
		Age:   in.Age,
	}
}

// AccountPatch is the partial update contract for an account.
type AccountPatch struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Age   *int    `json:"age,omitempty"`
}

// Validate checks every supplied field.
func (p AccountPatch) Validate() error {
	if p.Name != nil && blank(*p.Name) {
		return apperr.Validation("name must not be blank")
	}
	if p.Email != nil {
		if err := validateEmail(*p.Email); err != nil {
			return err
		}
	}
	if p.Age != nil {
		return validateAge(*p.Age)
	}
	return nil
}

func (p AccountPatch) OwnerRef() string { return "" }

func (p AccountPatch) Apply(a Account) Account {
	setIfPresent(&a.Name, p.Name)
	if p.Email != nil {
		a.Email = NormalizeEmail(*p.Email)
	}
	if p.Age != nil {
		a.Age = *p.Age
	}
	return a
}

// NormalizeEmail trims and lower-cases an address so uniqueness ignores case.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if blank(email) {
		return apperr.Validation("email is required")
	}
	// Only a bare mailbox is accepted, so the stored form is canonical.
	if err := validate.Var(strings.TrimSpace(email), "email"); err != nil {
		return apperr.Validation("email %q is not a valid address", email)
	}
	return nil
}

func validateAge(age int) error {
	if age < 1 || age > maxAge {
		return apperr.Validation("age must be between 1 and %d", maxAge)
	}
	return nil
}
