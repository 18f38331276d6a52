// Package object provides the reference counted base every shared value in
// the framework embeds.
//
// # Overview
//
// An Object starts with one reference after Initialize. Ref adds a
// reference, Unref drops one; the call that drops the last reference runs the
// destructor exactly once. Derived types embed Object by value and register a
// destructor closure that sees the whole derived value:
//
//	type Actor struct {
//		object.Object
//		buffers [][]byte
//	}
//
//	func NewActor() *Actor {
//		a := &Actor{}
//		a.Initialize(true, func(*object.Object) error {
//			a.buffers = nil
//			return nil
//		})
//		return a
//	}
//
// Dropping below zero or touching a destroyed object panics with
// *verrors.InvariantError.
//
// # Private Payload
//
//	obj.SetPrivate(&pluginState{})
//	state, ok := object.PrivateAs[*pluginState](obj)
//
// # Leak Tracking
//
//	object.EnableTracking(true)
//	defer func() { fmt.Println(object.LiveCount()) }()
//
// # Related Packages
//
//   - pkg/list: Lists are objects
//   - pkg/param: Parameter values hold references to objects
package object
