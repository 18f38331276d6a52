package param

import (
	"fmt"
	"iter"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/platinummonkey/visual/pkg/list"
	"github.com/platinummonkey/visual/pkg/object"
	"github.com/platinummonkey/visual/pkg/observability"
	"github.com/platinummonkey/visual/pkg/verrors"
	"github.com/sirupsen/logrus"
)

// Info declares a parameter
type Info struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Type        Type   `yaml:"type" json:"type"`
}

// Entry pairs a declaration with its current value
type Entry struct {
	Info
	Value Value
}

// ChangeFunc is called after SetParamValue replaced the value of e
type ChangeFunc func(e *Entry)

// Container holds parameter entries in insertion order. Lookups match names
// exactly and the first match wins, so adding a name twice shadows rather
// than replaces the earlier entry.
//
// Container is not safe for concurrent use.
type Container struct {
	object.Object

	entries   list.List
	cache     *lru.Cache[string, *Entry]
	callbacks []ChangeFunc
}

// NewContainer allocates an empty container holding one reference. A
// positive cacheSize enables a name lookup cache of that many entries.
func NewContainer(cacheSize int) *Container {
	c := &Container{}
	list.Init(&c.entries, destroyEntry)

	if cacheSize > 0 {
		cache, err := lru.New[string, *Entry](cacheSize)
		if err != nil {
			observability.Log().WithError(err).Warn("param lookup cache disabled")
		} else {
			c.cache = cache
		}
	}

	c.Initialize(true, func(*object.Object) error {
		return c.destroy()
	})

	return c
}

func destroyEntry(data any) {
	if e, ok := data.(*Entry); ok {
		e.Value.Unset()
	}
}

func (c *Container) destroy() error {
	if c.cache != nil {
		c.cache.Purge()
	}
	c.callbacks = nil

	count := c.entries.Count()
	if _, err := c.entries.Unref(); err != nil {
		return fmt.Errorf("param container destroy: %w", err)
	}

	observability.Log().WithFields(logrus.Fields{
		"container_id": c.ID().String(),
		"entries":      count,
	}).Debug("param container destroyed")

	return nil
}

// Add appends an entry with an unset value
func (c *Container) Add(info Info) error {
	if c == nil {
		return fmt.Errorf("param add: %w", verrors.ErrNullArgument)
	}
	if info.Name == "" {
		return fmt.Errorf("param add: empty name: %w", verrors.ErrNullArgument)
	}

	return c.entries.Add(&Entry{Info: info})
}

// AddMany appends entries for every declaration in order. Nothing is added
// when any declaration is invalid.
func (c *Container) AddMany(infos ...Info) error {
	if c == nil || len(infos) == 0 {
		return fmt.Errorf("param add many: %w", verrors.ErrNullArgument)
	}
	for i, info := range infos {
		if info.Name == "" {
			return fmt.Errorf("param add many: declaration %d has no name: %w", i, verrors.ErrNullArgument)
		}
	}

	for _, info := range infos {
		if err := c.entries.Add(&Entry{Info: info}); err != nil {
			return fmt.Errorf("param add many: %w", err)
		}
	}
	return nil
}

// Remove destroys the first entry named name and reports whether one was
// found. A shadowed entry of the same name becomes visible afterwards.
func (c *Container) Remove(name string) bool {
	if c == nil {
		return false
	}

	var cursor *list.Entry
	for data, ok := c.entries.Next(&cursor); ok; data, ok = c.entries.Next(&cursor) {
		if data.(*Entry).Name != name {
			continue
		}

		if c.cache != nil {
			c.cache.Remove(name)
		}
		if err := c.entries.DestroyEntry(&cursor); err != nil {
			observability.Log().WithError(err).WithField("param", name).Error("failed to remove param entry")
			return false
		}
		return true
	}

	return false
}

// Entry returns the first entry named name
func (c *Container) Entry(name string) (*Entry, bool) {
	if c == nil {
		return nil, false
	}

	if c.cache != nil {
		if e, ok := c.cache.Get(name); ok {
			observability.DefaultMetrics().ParamLookup("cached")
			return e, true
		}
	}

	for data := range c.entries.All() {
		e := data.(*Entry)
		if e.Name != name {
			continue
		}
		if c.cache != nil {
			c.cache.Add(name, e)
		}
		observability.DefaultMetrics().ParamLookup("hit")
		return e, true
	}

	observability.DefaultMetrics().ParamLookup("miss")
	return nil, false
}

// ParamValue returns the value of the first entry named name. The value is
// owned by the container; it stays valid until the entry is removed.
func (c *Container) ParamValue(name string) (*Value, bool) {
	e, ok := c.Entry(name)
	if !ok {
		return nil, false
	}
	return &e.Value, true
}

// ParamType returns the declared type of the first entry named name, or
// TypeNone when there is none.
func (c *Container) ParamType(name string) Type {
	e, ok := c.Entry(name)
	if !ok {
		return TypeNone
	}
	return e.Type
}

// SetParamValue replaces the value of the first entry named name with a copy
// of v and notifies the change callbacks. Entries declared with a type only
// accept values of that type or TypeNone.
func (c *Container) SetParamValue(name string, v *Value) error {
	if c == nil || v == nil {
		return fmt.Errorf("param set value: %w", verrors.ErrNullArgument)
	}

	e, ok := c.Entry(name)
	if !ok {
		return fmt.Errorf("param set value %q: %w", name, verrors.ErrNotFound)
	}
	if e.Type != TypeNone && v.Type() != TypeNone && v.Type() != e.Type {
		return fmt.Errorf("param set value %q: declared %s, got %s: %w", name, e.Type, v.Type(), verrors.ErrTypeMismatch)
	}

	if err := e.Value.Set(v); err != nil {
		return fmt.Errorf("param set value %q: %w", name, err)
	}

	for _, fn := range c.callbacks {
		fn(e)
	}
	return nil
}

// OnChange registers fn to run after every successful SetParamValue
func (c *Container) OnChange(fn ChangeFunc) {
	if c == nil || fn == nil {
		return
	}
	c.callbacks = append(c.callbacks, fn)
}

// Len returns the number of entries, shadowed ones included
func (c *Container) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Count()
}

// Names returns entry names in insertion order, shadowed ones included
func (c *Container) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, c.entries.Count())
	for data := range c.entries.All() {
		names = append(names, data.(*Entry).Name)
	}
	return names
}

// All returns the entries in insertion order
func (c *Container) All() iter.Seq2[Info, *Value] {
	return func(yield func(Info, *Value) bool) {
		if c == nil {
			return
		}
		for data := range c.entries.All() {
			e := data.(*Entry)
			if !yield(e.Info, &e.Value) {
				return
			}
		}
	}
}
