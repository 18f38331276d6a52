package list

import (
	"github.com/platinummonkey/visual/pkg/object"
	"github.com/platinummonkey/visual/pkg/verrors"
)

// iterContext is the list cursor behind a collection.Iterator. It remembers
// the list generation it was positioned against and stops once the list has
// been modified.
type iterContext struct {
	object.Object

	list       *List
	cur        *Entry
	generation uint64
}

func (c *iterContext) valid() bool {
	return c.generation == c.list.generation
}

func (c *iterContext) Assign(index int) {
	c.generation = c.list.generation
	c.cur = nil
	if index < 0 {
		return
	}

	c.cur = c.list.head
	for i := 0; i < index && c.cur != nil; i++ {
		c.cur = c.cur.next
	}
}

func (c *iterContext) Next() {
	if c.cur == nil || !c.valid() {
		return
	}
	c.cur = c.cur.next
}

func (c *iterContext) HasMore() bool {
	return c.cur != nil && c.valid()
}

func (c *iterContext) Data() any {
	if c.cur == nil || !c.valid() {
		return nil
	}
	return c.cur.Data
}

func (c *iterContext) Err() error {
	if !c.valid() {
		return verrors.ErrStaleIterator
	}
	return nil
}
