package engine

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or out-of-range caller input. It maps
// to a 4xx response and implies no state change happened.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NotFoundError reports an operation against an entity that does not exist,
// is owned by someone else, or is in the wrong state for the transition.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var ne NotFoundError
	return errors.As(err, &ne)
}
