package verrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNullArgument is returned when a required argument is absent
	ErrNullArgument = errors.New("null argument")

	// ErrInvalidEntry is returned when a cursor or entry is unset where one is
	// required, or does not belong to the target collection
	ErrInvalidEntry = errors.New("invalid entry")

	// ErrNotFound is returned when a name-based lookup has no match
	ErrNotFound = errors.New("not found")

	// ErrTypeMismatch is returned when a value is read through an accessor
	// for a different type than the one it holds
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrDestroyed is returned when an operation targets an object whose
	// reference count already dropped to zero
	ErrDestroyed = errors.New("object destroyed")

	// ErrStaleIterator is reported by an iterator whose collection was
	// structurally modified after the iterator was positioned
	ErrStaleIterator = errors.New("stale iterator")
)

// InvariantError is the panic value used for programming errors that have no
// recovery path, such as a reference count dropping below zero.
type InvariantError struct {
	Op  string
	Msg string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: invariant violated: %s", e.Op, e.Msg)
}

// Invariant panics with an *InvariantError.
func Invariant(op, format string, args ...interface{}) {
	panic(&InvariantError{Op: op, Msg: fmt.Sprintf(format, args...)})
}
