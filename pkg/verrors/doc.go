// Package verrors defines the error taxonomy shared by the object, collection
// and parameter packages.
//
// # Overview
//
// Recoverable conditions are reported through sentinel errors that callers
// match with errors.Is:
//
//	ErrNullArgument  - a required argument was nil or empty
//	ErrInvalidEntry  - a cursor was unset or belongs to another list
//	ErrNotFound      - a lookup by name found nothing
//	ErrTypeMismatch  - a parameter value was read as the wrong type
//	ErrDestroyed     - the object was already released
//	ErrStaleIterator - the collection changed under a live iterator
//
// Programming errors (reference count underflow, use after destroy) panic
// with *InvariantError instead of being clamped.
//
// # Usage Example
//
//	if _, err := l.Get(3); errors.Is(err, verrors.ErrNotFound) {
//		// past the end
//	}
//
// # Related Packages
//
//   - pkg/object: Reference counting invariants
//   - pkg/param: Type mismatch and lookup errors
package verrors
