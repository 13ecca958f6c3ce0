// Package events carries the change notifications published after every
// successful mutation and the best-effort machinery that publishes them.
package events

import (
	"fmt"

	"example.com/fitness/libs/go/entity"
)

// DefaultTopic is the shared event log every mutation is published to.
const DefaultTopic = "fitness-events"

// Action names the mutation that produced a change.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Change describes one committed mutation.
type Change struct {
	Kind   entity.Kind
	Action Action
	ID     string
	// Name is the display name of the record: an account or exercise name, a workout or diet title.
	Name string
}

// ChangeOf builds a Change from a stored record.
func ChangeOf[T entity.Record[T]](kind entity.Kind, action Action, record T) Change {
	return Change{Kind: kind, Action: action, ID: record.RecordID(), Name: record.DisplayName()}
}

// Message renders the human readable notification, e.g. "Workout created: Run".
func (c Change) Message() string {
	return fmt.Sprintf("%s %s: %s", c.Kind.Title(), c.Action, c.Name)
}

// EventType is the dotted type carried in the event_type header, e.g. "workout.created".
func (c Change) EventType() string {
	return fmt.Sprintf("%s.%s", c.Kind, c.Action)
}
