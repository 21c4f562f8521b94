package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds surfaced by the routing core. Callers match them with errors.Is;
// the typed errors below carry the context needed to render a message.
var (
	ErrInvalidCoordinateFormat = errors.New("invalid coordinate format")
	ErrNoValidStops            = errors.New("no valid stops")
	ErrInvalidTransition       = errors.New("invalid transition")
	ErrNotFound                = errors.New("not found")
	ErrPersistence             = errors.New("persistence failure")
	ErrInvalidInput            = errors.New("invalid input")
	ErrOrderNotRoutable        = errors.New("order not routable")
)

// TransitionError reports a state-machine request made from an incompatible state.
type TransitionError struct {
	Entity   string
	ID       int64
	Action   string
	Current  string
	Required []string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf(
		"%s %d: cannot %s from status %q (requires %s)",
		e.Entity, e.ID, e.Action, e.Current, strings.Join(e.Required, " or "),
	)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// NotFoundError reports a missing route or order.
type NotFoundError struct {
	Entity string
	ID     int64
}

func NewNotFound(entity string, id int64) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// OperationError wraps a repository failure with the operation that triggered it.
type OperationError struct {
	Op     string
	Entity string
	ID     int64
	Err    error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %s %d: %v", e.Op, e.Entity, e.ID, e.Err)
}

func (e *OperationError) Is(target error) bool { return target == ErrPersistence }

func (e *OperationError) Unwrap() error { return e.Err }
