package collection

import (
	"fmt"

	"github.com/platinummonkey/visual/pkg/object"
	"github.com/platinummonkey/visual/pkg/verrors"
)

// IterContext is the per-collection cursor state behind an Iterator. It is
// itself reference counted; the Iterator owns one reference.
type IterContext interface {
	object.Refcounted

	// Assign repositions the cursor at index counted from the first element.
	// An out-of-range index leaves the cursor exhausted.
	Assign(index int)
	Next()
	HasMore() bool
	Data() any

	// Err reports why the cursor stopped early, or nil.
	Err() error
}

// Iterator is a forward cursor bound to one collection for one traversal
type Iterator struct {
	object.Object

	collection Collection
	context    IterContext
}

// NewIterator binds ctx to c. The iterator takes over the caller's reference
// to ctx and, when c is reference counted, holds a reference to c until the
// iterator is destroyed. On error the caller keeps its reference to ctx.
func NewIterator(c Collection, ctx IterContext) (*Iterator, error) {
	if c == nil || ctx == nil {
		return nil, fmt.Errorf("collection iterator: %w", verrors.ErrNullArgument)
	}

	if rc, ok := c.(object.Refcounted); ok {
		if _, err := rc.Ref(); err != nil {
			return nil, fmt.Errorf("collection iterator: %w", err)
		}
	}

	it := &Iterator{
		collection: c,
		context:    ctx,
	}
	it.Initialize(true, func(*object.Object) error {
		return it.release()
	})

	return it, nil
}

func (it *Iterator) release() error {
	var firstErr error
	if _, err := it.context.Unref(); err != nil {
		firstErr = err
	}
	if rc, ok := it.collection.(object.Refcounted); ok {
		if _, err := rc.Unref(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Assign repositions the iterator at index
func (it *Iterator) Assign(index int) {
	it.context.Assign(index)
}

// Next advances one element
func (it *Iterator) Next() {
	it.context.Next()
}

// HasMore reports whether the cursor is on an element
func (it *Iterator) HasMore() bool {
	return it.context.HasMore()
}

// Data returns the element under the cursor without advancing
func (it *Iterator) Data() any {
	return it.context.Data()
}

// Err returns verrors.ErrStaleIterator when the collection changed under the
// iterator since it was created or last assigned
func (it *Iterator) Err() error {
	return it.context.Err()
}

// Collection returns the bound collection
func (it *Iterator) Collection() Collection {
	return it.collection
}

// Context returns the cursor state
func (it *Iterator) Context() IterContext {
	return it.context
}
