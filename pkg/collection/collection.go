package collection

import "iter"

// DestroyerFunc releases one element when a collection frees its elements
type DestroyerFunc func(data any)

// Collection is the capability shared by every concrete container: it has a
// size, can destroy its elements and can be iterated.
type Collection interface {
	// Size returns the number of elements.
	Size() int

	// Destroy frees every element, running the destroyer on each payload
	// when one is registered.
	Destroy() error

	// Iter returns a fresh iterator positioned at the first element. The
	// caller owns the returned reference.
	Iter() *Iterator

	Destroyer() DestroyerFunc
	SetDestroyer(destroyer DestroyerFunc)
}

// Base stores the element destroyer. Concrete collections embed it.
type Base struct {
	destroyer DestroyerFunc
}

// Destroyer returns the registered element destroyer, or nil
func (b *Base) Destroyer() DestroyerFunc {
	return b.destroyer
}

// SetDestroyer registers the element destroyer
func (b *Base) SetDestroyer(destroyer DestroyerFunc) {
	b.destroyer = destroyer
}

// Funcs assembles a Collection from function slots. Nil slots behave as an
// empty collection.
type Funcs struct {
	Base

	DestroyFunc func() error
	SizeFunc    func() int
	IterFunc    func() *Iterator
}

// Size calls SizeFunc
func (f *Funcs) Size() int {
	if f.SizeFunc == nil {
		return 0
	}
	return f.SizeFunc()
}

// Destroy calls DestroyFunc
func (f *Funcs) Destroy() error {
	if f.DestroyFunc == nil {
		return nil
	}
	return f.DestroyFunc()
}

// Iter calls IterFunc
func (f *Funcs) Iter() *Iterator {
	if f.IterFunc == nil {
		return nil
	}
	return f.IterFunc()
}

// All returns a range-over-func sequence of the elements of c.
// The iterator reference is released when the loop ends.
func All(c Collection) iter.Seq[any] {
	return func(yield func(any) bool) {
		if c == nil {
			return
		}
		it := c.Iter()
		if it == nil {
			return
		}
		defer it.Unref()

		for ; it.HasMore(); it.Next() {
			if !yield(it.Data()) {
				return
			}
		}
	}
}
