// Package collection defines the Collection capability and the Iterator used
// to walk any collection without knowing its storage layout.
//
// # Overview
//
// Generic consumers such as the parameter container hold a Collection and
// call only Size, Destroy, Iter and the destroyer accessors. Concrete
// containers (pkg/list) implement the interface and supply an IterContext
// holding their cursor.
//
// # Iteration
//
//	it := c.Iter()
//	defer it.Unref()
//
//	for ; it.HasMore(); it.Next() {
//		fmt.Println(it.Data())
//	}
//
// Or with range-over-func:
//
//	for data := range collection.All(c) {
//		fmt.Println(data)
//	}
//
// Iterators are independent of each other. A structural change to the
// collection makes outstanding iterators report HasMore() == false and
// Err() == verrors.ErrStaleIterator until they are re-assigned.
//
// # Ad-hoc Collections
//
//	c := &collection.Funcs{
//		SizeFunc: func() int { return len(items) },
//	}
//
// # Related Packages
//
//   - pkg/list: Doubly linked list collection
//   - pkg/object: Reference counting used by iterators
package collection
