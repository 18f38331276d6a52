// Package list provides a reference counted doubly linked list that
// implements collection.Collection.
//
// # Overview
//
// A List owns its entries. Entries carry an opaque payload and are released
// through the list's destroyer when the list is destroyed or when an entry is
// removed with DestroyEntry. Plain Delete and Unchain leave payloads alone.
//
// # Usage Example
//
//	l := list.New(nil)
//	defer l.Unref()
//
//	l.Add("b")
//	l.AddAtBegin("a")
//
//	var cursor *list.Entry
//	for data, ok := l.Next(&cursor); ok; data, ok = l.Next(&cursor) {
//		fmt.Println(data)
//	}
//
// # Cursors
//
// Next, Prev, Insert and Delete take a **Entry cursor owned by the caller.
// A nil cursor means "before the head" for Next and Insert and "after the
// tail" for Prev. Delete moves the cursor to the entry that followed the
// removed one, so deleting inside a Next loop needs no extra bookkeeping.
//
// # Iterators
//
// Iter returns a collection.Iterator over the list. Any structural change
// made after the iterator was positioned makes it stop early with
// Err() == verrors.ErrStaleIterator; Assign repositions it on the current
// contents.
//
// # Related Packages
//
//   - pkg/collection: The Collection capability and Iterator
//   - pkg/param: Parameter container built on List
package list
