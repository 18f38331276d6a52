package object

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/platinummonkey/visual/pkg/observability"
	"github.com/platinummonkey/visual/pkg/verrors"
	"github.com/sirupsen/logrus"
)

// DtorFunc releases the resources of the value embedding obj. It runs once,
// when the last reference is dropped.
type DtorFunc func(obj *Object) error

// Refcounted is implemented by *Object and by every type embedding an Object
type Refcounted interface {
	Ref() (int, error)
	Unref() (int, error)
	RefCount() int
}

type state uint8

const (
	stateUninitialized state = iota
	stateLive
	stateDestroyed
)

// Object is the reference counted base embedded by lists, containers, colors
// and every other shared value.
//
// Object is not safe for concurrent use. Callers sharing an Object across
// goroutines must serialize access themselves.
type Object struct {
	id        uuid.UUID
	refcount  int
	allocated bool
	dtor      DtorFunc
	private   any
	state     state
}

// New returns an initialized, allocated object holding one reference
func New(dtor DtorFunc) *Object {
	obj := &Object{}
	obj.Initialize(true, dtor)
	return obj
}

// Initialize sets the reference count to one and stores the allocation flag
// and destructor. The private payload is cleared.
func (o *Object) Initialize(allocated bool, dtor DtorFunc) error {
	if o == nil {
		return fmt.Errorf("object initialize: %w", verrors.ErrNullArgument)
	}
	if o.state == stateLive {
		verrors.Invariant("object initialize", "object %s initialized twice", o.id)
	}

	o.id = uuid.New()
	o.refcount = 1
	o.allocated = allocated
	o.dtor = dtor
	o.private = nil
	o.state = stateLive

	track(o)
	observability.DefaultMetrics().ObjectCreated()

	return nil
}

// Ref increments the reference count and returns the new count
func (o *Object) Ref() (int, error) {
	if o == nil {
		return 0, fmt.Errorf("object ref: %w", verrors.ErrNullArgument)
	}
	o.mustBeLive("object ref")

	o.refcount++
	return o.refcount, nil
}

// Unref decrements the reference count and returns the remaining count.
// When the count reaches zero the destructor runs and, for allocated objects,
// the private payload and destructor are released. A returned count of zero
// means the object was destroyed; a destructor error is returned alongside it.
func (o *Object) Unref() (int, error) {
	if o == nil {
		return 0, fmt.Errorf("object unref: %w", verrors.ErrNullArgument)
	}
	o.mustBeLive("object unref")

	o.refcount--
	if o.refcount > 0 {
		return o.refcount, nil
	}

	return 0, o.destroy()
}

func (o *Object) destroy() error {
	o.state = stateDestroyed

	var err error
	if o.dtor != nil {
		if dtorErr := o.dtor(o); dtorErr != nil {
			err = fmt.Errorf("object %s destructor: %w", o.id, dtorErr)
		}
	}

	if o.allocated {
		o.dtor = nil
		o.private = nil
	}

	untrack(o)
	observability.DefaultMetrics().ObjectDestroyed()

	observability.Log().WithFields(logrus.Fields{
		"object_id": o.id.String(),
		"allocated": o.allocated,
	}).Debug("object destroyed")

	return err
}

// Retire forgets a live object without running its destructor, leaving
// it ready for Initialize. It does nothing on an object that is not live.
func (o *Object) Retire() {
	if o == nil || o.state != stateLive {
		return
	}

	o.state = stateDestroyed
	untrack(o)
	observability.DefaultMetrics().ObjectDestroyed()
}

func (o *Object) mustBeLive(op string) {
	switch o.state {
	case stateUninitialized:
		verrors.Invariant(op, "object used before initialization")
	case stateDestroyed:
		verrors.Invariant(op, "object %s used after its last reference was released", o.id)
	}
}

// RefCount returns the current reference count
func (o *Object) RefCount() int {
	if o == nil {
		return 0
	}
	return o.refcount
}

// Destroyed reports whether the last reference has been released
func (o *Object) Destroyed() bool {
	return o != nil && o.state == stateDestroyed
}

// ID returns the identity assigned at initialization
func (o *Object) ID() uuid.UUID {
	if o == nil {
		return uuid.Nil
	}
	return o.id
}

// IsAllocated reports whether destruction also releases the payload
func (o *Object) IsAllocated() bool {
	return o != nil && o.allocated
}

// SetAllocated changes the allocation flag
func (o *Object) SetAllocated(allocated bool) error {
	if o == nil {
		return fmt.Errorf("object set allocated: %w", verrors.ErrNullArgument)
	}
	o.allocated = allocated
	return nil
}

// SetDtor replaces the destructor
func (o *Object) SetDtor(dtor DtorFunc) error {
	if o == nil {
		return fmt.Errorf("object set dtor: %w", verrors.ErrNullArgument)
	}
	o.dtor = dtor
	return nil
}

// Dtor returns the destructor, or nil
func (o *Object) Dtor() DtorFunc {
	if o == nil {
		return nil
	}
	return o.dtor
}

// SetPrivate attaches an arbitrary payload. Ownership stays with the caller.
func (o *Object) SetPrivate(private any) error {
	if o == nil {
		return fmt.Errorf("object set private: %w", verrors.ErrNullArgument)
	}
	o.private = private
	return nil
}

// Private returns the attached payload, or nil
func (o *Object) Private() any {
	if o == nil {
		return nil
	}
	return o.private
}

// PrivateAs returns the payload of o as a T
func PrivateAs[T any](o *Object) (T, bool) {
	v, ok := o.Private().(T)
	return v, ok
}
