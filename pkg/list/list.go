package list

import (
	"fmt"
	"iter"

	"github.com/platinummonkey/visual/pkg/collection"
	"github.com/platinummonkey/visual/pkg/object"
	"github.com/platinummonkey/visual/pkg/observability"
	"github.com/platinummonkey/visual/pkg/verrors"
	"github.com/sirupsen/logrus"
)

// Entry is one link of a List. An entry belongs to at most one list.
type Entry struct {
	Data any

	prev *Entry
	next *Entry
	list *List
}

// NewEntry returns an unlinked entry carrying data, ready for Chain
func NewEntry(data any) *Entry {
	return &Entry{Data: data}
}

// Next returns the following entry, or nil at the tail
func (e *Entry) Next() *Entry {
	if e == nil {
		return nil
	}
	return e.next
}

// Prev returns the preceding entry, or nil at the head
func (e *Entry) Prev() *Entry {
	if e == nil {
		return nil
	}
	return e.prev
}

// List is a doubly linked list implementing collection.Collection.
//
// The head's prev and the tail's next are always nil, and the number of
// entries reachable from head equals Count. List is not safe for concurrent
// use.
type List struct {
	object.Object
	collection.Base

	head  *Entry
	tail  *Entry
	count int

	// generation changes on every structural mutation so that outstanding
	// iterators can detect that their cursor may be gone.
	generation uint64
}

var _ collection.Collection = (*List)(nil)

// Init resets l to an empty, non-allocated list holding one reference and
// registers destroyer for its elements. A live list is retired first; its
// entries are dropped without running the destroyer.
func Init(l *List, destroyer collection.DestroyerFunc) error {
	if l == nil {
		return fmt.Errorf("list init: %w", verrors.ErrNullArgument)
	}

	l.Retire()
	*l = List{}
	if err := l.Initialize(false, func(*object.Object) error {
		return l.Destroy()
	}); err != nil {
		return fmt.Errorf("list init: %w", err)
	}
	l.SetDestroyer(destroyer)

	return nil
}

// New allocates an empty list holding one reference
func New(destroyer collection.DestroyerFunc) *List {
	l := &List{}
	Init(l, destroyer)
	l.SetAllocated(true)
	return l
}

// Count returns the number of entries
func (l *List) Count() int {
	if l == nil {
		return 0
	}
	return l.count
}

// Size implements collection.Collection
func (l *List) Size() int {
	return l.Count()
}

// Head returns the first entry, or nil
func (l *List) Head() *Entry {
	return l.head
}

// Tail returns the last entry, or nil
func (l *List) Tail() *Entry {
	return l.tail
}

// Next advances an external cursor. A nil *cursor starts at the head.
// It returns the data of the entry reached, and false once the cursor moves
// past the tail.
func (l *List) Next(cursor **Entry) (any, bool) {
	if l == nil || cursor == nil {
		return nil, false
	}

	if *cursor == nil {
		*cursor = l.head
	} else if (*cursor).list != l {
		*cursor = nil
	} else {
		*cursor = (*cursor).next
	}

	if *cursor == nil {
		return nil, false
	}
	return (*cursor).Data, true
}

// Prev moves an external cursor backwards. A nil *cursor starts at the tail.
func (l *List) Prev(cursor **Entry) (any, bool) {
	if l == nil || cursor == nil {
		return nil, false
	}

	if *cursor == nil {
		*cursor = l.tail
	} else if (*cursor).list != l {
		*cursor = nil
	} else {
		*cursor = (*cursor).prev
	}

	if *cursor == nil {
		return nil, false
	}
	return (*cursor).Data, true
}

// Get returns the data at index, walking from the head
func (l *List) Get(index int) (any, bool) {
	if l == nil || index < 0 || index >= l.count {
		return nil, false
	}

	e := l.head
	for i := 0; i < index && e != nil; i++ {
		e = e.next
	}
	if e == nil {
		return nil, false
	}
	return e.Data, true
}

// Add appends data at the tail
func (l *List) Add(data any) error {
	if l == nil {
		return fmt.Errorf("list add: %w", verrors.ErrNullArgument)
	}
	return l.Chain(NewEntry(data))
}

// AddAtBegin prepends data at the head
func (l *List) AddAtBegin(data any) error {
	if l == nil {
		return fmt.Errorf("list add at begin: %w", verrors.ErrNullArgument)
	}
	return l.ChainAtBegin(NewEntry(data))
}

// Chain links an unlinked entry at the tail
func (l *List) Chain(e *Entry) error {
	if l == nil || e == nil {
		return fmt.Errorf("list chain: %w", verrors.ErrNullArgument)
	}
	if e.list != nil {
		return fmt.Errorf("list chain: entry already linked: %w", verrors.ErrInvalidEntry)
	}

	e.list = l
	e.next = nil
	if l.head == nil {
		e.prev = nil
		l.head = e
	} else {
		e.prev = l.tail
		l.tail.next = e
	}
	l.tail = e

	l.count++
	l.mutated("chain")
	return nil
}

// ChainAtBegin links an unlinked entry at the head
func (l *List) ChainAtBegin(e *Entry) error {
	if l == nil || e == nil {
		return fmt.Errorf("list chain at begin: %w", verrors.ErrNullArgument)
	}
	if e.list != nil {
		return fmt.Errorf("list chain at begin: entry already linked: %w", verrors.ErrInvalidEntry)
	}

	e.list = l
	e.prev = nil
	if l.head == nil {
		e.next = nil
		l.tail = e
	} else {
		e.next = l.head
		l.head.prev = e
	}
	l.head = e

	l.count++
	l.mutated("chain_at_begin")
	return nil
}

// Unchain removes e from the list without touching its data
func (l *List) Unchain(e *Entry) error {
	if l == nil || e == nil {
		return fmt.Errorf("list unchain: %w", verrors.ErrNullArgument)
	}
	if e.list != l {
		return fmt.Errorf("list unchain: entry not in list: %w", verrors.ErrInvalidEntry)
	}

	if e.prev != nil {
		e.prev.next = e.next
	} else {
		l.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		l.tail = e.prev
	}

	e.prev = nil
	e.next = nil
	e.list = nil

	l.count--
	l.mutated("unchain")
	return nil
}

// Insert adds data after the entry under the cursor, or at the head when
// *cursor is nil, and moves the cursor onto the new entry.
func (l *List) Insert(cursor **Entry, data any) error {
	if l == nil || cursor == nil || data == nil {
		return fmt.Errorf("list insert: %w", verrors.ErrNullArgument)
	}

	at := *cursor
	if at == nil {
		e := NewEntry(data)
		if err := l.ChainAtBegin(e); err != nil {
			return err
		}
		*cursor = e
		return nil
	}
	if at.list != l {
		return fmt.Errorf("list insert: cursor not in list: %w", verrors.ErrInvalidEntry)
	}

	e := &Entry{Data: data, list: l, prev: at, next: at.next}
	if at.next != nil {
		at.next.prev = e
	} else {
		l.tail = e
	}
	at.next = e

	*cursor = e
	l.count++
	l.mutated("insert")
	return nil
}

// Delete unlinks the entry under the cursor and moves the cursor to the
// following entry. The entry's data is not released.
func (l *List) Delete(cursor **Entry) error {
	if l == nil || cursor == nil {
		return fmt.Errorf("list delete: %w", verrors.ErrNullArgument)
	}

	e := *cursor
	if e == nil {
		observability.Log().Error("There is no list entry to delete")
		return fmt.Errorf("list delete: cursor unset: %w", verrors.ErrInvalidEntry)
	}

	next := e.next
	if err := l.Unchain(e); err != nil {
		return err
	}
	e.Data = nil

	*cursor = next
	return nil
}

// DestroyEntry runs the destroyer on the data under the cursor, then deletes
// the entry like Delete.
func (l *List) DestroyEntry(cursor **Entry) error {
	if l == nil || cursor == nil {
		return fmt.Errorf("list destroy entry: %w", verrors.ErrNullArgument)
	}
	if *cursor == nil || (*cursor).list != l {
		return fmt.Errorf("list destroy entry: %w", verrors.ErrInvalidEntry)
	}

	if destroyer := l.Destroyer(); destroyer != nil {
		destroyer((*cursor).Data)
	}
	return l.Delete(cursor)
}

// Destroy frees every entry, running the destroyer on each payload when one
// is registered. The list stays usable and empty afterwards.
func (l *List) Destroy() error {
	if l == nil {
		return fmt.Errorf("list destroy: %w", verrors.ErrNullArgument)
	}

	destroyer := l.Destroyer()
	freed := l.count

	for e := l.head; e != nil; {
		next := e.next
		if destroyer != nil {
			destroyer(e.Data)
		}
		e.Data = nil
		e.prev = nil
		e.next = nil
		e.list = nil
		e = next
	}

	l.head = nil
	l.tail = nil
	l.count = 0
	l.generation++
	observability.DefaultMetrics().ListOperation("destroy")

	observability.Log().WithFields(logrus.Fields{
		"list_id": l.ID().String(),
		"freed":   freed,
	}).Debug("list destroyed")

	return nil
}

// Iter implements collection.Collection
func (l *List) Iter() *collection.Iterator {
	if l == nil {
		return nil
	}

	ctx := &iterContext{list: l, cur: l.head, generation: l.generation}
	ctx.Initialize(true, nil)

	it, err := collection.NewIterator(l, ctx)
	if err != nil {
		ctx.Unref()
		return nil
	}
	return it
}

// All returns a head-to-tail range-over-func sequence of the list data.
// Deleting the entry being visited is allowed.
func (l *List) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		if l == nil {
			return
		}
		for e := l.head; e != nil; {
			next := e.next
			if !yield(e.Data) {
				return
			}
			e = next
		}
	}
}

// Backward returns a tail-to-head range-over-func sequence of the list data
func (l *List) Backward() iter.Seq[any] {
	return func(yield func(any) bool) {
		if l == nil {
			return
		}
		for e := l.tail; e != nil; {
			prev := e.prev
			if !yield(e.Data) {
				return
			}
			e = prev
		}
	}
}

// mutated invalidates outstanding iterators and records op
func (l *List) mutated(op string) {
	l.generation++
	observability.DefaultMetrics().ListOperation(op)
}
