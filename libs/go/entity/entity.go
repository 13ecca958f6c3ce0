// Package entity defines the records owned by the fitness domain services and the
// request contracts used to create and update them.
package entity

import "strings"

// Kind names one of the four entity types.
type Kind string

const (
	KindAccount  Kind = "account"
	KindWorkout  Kind = "workout"
	KindExercise Kind = "exercise"
	KindDiet     Kind = "diet"
)

// Kinds lists every entity type in dependency order (owners first).
var Kinds = []Kind{KindAccount, KindWorkout, KindExercise, KindDiet}

// ParseKind resolves a lower-case kind name.
func ParseKind(value string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(value)))
	switch k {
	case KindAccount, KindWorkout, KindExercise, KindDiet:
		return k, true
	}
	return "", false
}

// Title returns the display form used in change messages, e.g. "Workout".
func (k Kind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// Collection is the store collection (or table) holding records of this kind.
func (k Kind) Collection() string {
	return string(k) + "s"
}

// Owner reports the kind referenced by this kind's foreign key.
func (k Kind) Owner() (Kind, bool) {
	switch k {
	case KindWorkout, KindDiet:
		return KindAccount, true
	case KindExercise:
		return KindWorkout, true
	}
	return "", false
}

// Record is implemented by every stored entity. WithID returns a copy carrying
// the store-assigned identifier.
type Record[T any] interface {
	RecordID() string
	WithID(id string) T
	DisplayName() string
	OwnerRef() string
}

// Input is a validated create request that produces a record without an id.
type Input[T any] interface {
	Validate() error
	OwnerRef() string
	Record() T
}

// Patch is a partial update. Unset fields leave the stored value untouched.
type Patch[T any] interface {
	Validate() error
	OwnerRef() string
	Apply(T) T
}

// Page is one slice of a cursor-paginated listing.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func setIfPresent(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
