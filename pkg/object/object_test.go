package object

// Tests cover:
// - Initialization (count, allocation flag, private payload reset)
// - Ref/Unref pairing and single destructor run
// - Invariant panics (underflow, use after destroy, use before init)
// - Nil receivers
// - Private payload accessors
// - Live-object tracking and retirement

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/platinummonkey/visual/pkg/observability"
	"github.com/platinummonkey/visual/pkg/verrors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	var obj Object
	obj.SetPrivate("stale")

	err := obj.Initialize(false, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, obj.RefCount())
	assert.False(t, obj.IsAllocated())
	assert.Nil(t, obj.Private())
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", obj.ID().String())
	assert.False(t, obj.Destroyed())
}

func TestInitialize_Twice(t *testing.T) {
	obj := New(nil)

	assert.Panics(t, func() {
		obj.Initialize(true, nil)
	})
}

func TestRefUnref_DestructorRunsOnce(t *testing.T) {
	tests := []struct {
		name string
		refs int
	}{
		{name: "no extra references", refs: 0},
		{name: "one extra reference", refs: 1},
		{name: "five extra references", refs: 5},
		{name: "many extra references", refs: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			obj := New(func(*Object) error {
				calls++
				return nil
			})

			for i := 0; i < tt.refs; i++ {
				count, err := obj.Ref()
				require.NoError(t, err)
				assert.Equal(t, i+2, count)
			}

			for i := 0; i < tt.refs; i++ {
				count, err := obj.Unref()
				require.NoError(t, err)
				assert.Equal(t, tt.refs-i, count)
				assert.Equal(t, 0, calls, "destructor ran before the last unref")
			}

			count, err := obj.Unref()
			require.NoError(t, err)
			assert.Equal(t, 0, count)
			assert.Equal(t, 1, calls)
			assert.True(t, obj.Destroyed())
		})
	}
}

func TestUnref_Underflow(t *testing.T) {
	obj := New(nil)
	_, err := obj.Unref()
	require.NoError(t, err)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		var ie *verrors.InvariantError
		require.True(t, errors.As(r.(error), &ie))
		assert.Equal(t, "object unref", ie.Op)
	}()

	obj.Unref()
}

func TestRef_AfterDestroy(t *testing.T) {
	obj := New(nil)
	obj.Unref()

	assert.Panics(t, func() {
		obj.Ref()
	})
}

func TestRef_Uninitialized(t *testing.T) {
	var obj Object

	assert.Panics(t, func() {
		obj.Ref()
	})
}

func TestNilObject(t *testing.T) {
	var obj *Object

	_, err := obj.Ref()
	assert.ErrorIs(t, err, verrors.ErrNullArgument)

	_, err = obj.Unref()
	assert.ErrorIs(t, err, verrors.ErrNullArgument)

	assert.ErrorIs(t, obj.Initialize(true, nil), verrors.ErrNullArgument)
	assert.ErrorIs(t, obj.SetDtor(nil), verrors.ErrNullArgument)
	assert.ErrorIs(t, obj.SetPrivate(1), verrors.ErrNullArgument)
	assert.ErrorIs(t, obj.SetAllocated(true), verrors.ErrNullArgument)
	assert.Equal(t, 0, obj.RefCount())
	assert.Nil(t, obj.Private())
	assert.Nil(t, obj.Dtor())
}

type derived struct {
	Object
	buffers []string
	seen    []string
}

func TestDestructor_SeesDerivedState(t *testing.T) {
	d := &derived{buffers: []string{"a", "b"}}
	d.Initialize(true, func(obj *Object) error {
		assert.Same(t, &d.Object, obj)
		d.seen = append(d.seen, d.buffers...)
		d.buffers = nil
		return nil
	})

	var r Refcounted = d
	r.Ref()
	r.Unref()
	assert.Equal(t, 1, d.RefCount())

	r.Unref()
	assert.Equal(t, []string{"a", "b"}, d.seen)
	assert.Nil(t, d.buffers)
}

func TestDestructor_Error(t *testing.T) {
	boom := errors.New("boom")
	obj := New(func(*Object) error { return boom })

	count, err := obj.Unref()
	assert.Equal(t, 0, count)
	assert.ErrorIs(t, err, boom)
	assert.True(t, obj.Destroyed())
}

func TestDestroy_ReleasesAllocatedPayload(t *testing.T) {
	allocated := New(nil)
	allocated.SetPrivate("payload")
	allocated.Unref()
	assert.Nil(t, allocated.Private())

	var embedded Object
	embedded.Initialize(false, nil)
	embedded.SetPrivate("payload")
	embedded.Unref()
	assert.Equal(t, "payload", embedded.Private())
}

func TestSetDtor(t *testing.T) {
	obj := New(nil)
	called := false

	require.NoError(t, obj.SetDtor(func(*Object) error {
		called = true
		return nil
	}))
	assert.NotNil(t, obj.Dtor())

	obj.Unref()
	assert.True(t, called)
}

func TestPrivateAs(t *testing.T) {
	type pluginState struct{ frames int }

	obj := New(nil)
	obj.SetPrivate(&pluginState{frames: 3})

	state, ok := PrivateAs[*pluginState](obj)
	require.True(t, ok)
	assert.Equal(t, 3, state.frames)

	_, ok = PrivateAs[string](obj)
	assert.False(t, ok)
}

func TestTracking(t *testing.T) {
	EnableTracking(true)
	defer EnableTracking(false)

	a := New(nil)
	b := New(nil)
	assert.Equal(t, 2, LiveCount())
	assert.ElementsMatch(t, []interface{}{a.ID(), b.ID()}, toAny(LiveObjects()))

	a.Unref()
	assert.Equal(t, 1, LiveCount())
	assert.Equal(t, b.ID(), LiveObjects()[0])

	b.Unref()
	assert.Equal(t, 0, LiveCount())
}

func TestRetire(t *testing.T) {
	EnableTracking(true)
	defer EnableTracking(false)

	called := false
	var obj Object
	obj.Retire()
	require.NoError(t, obj.Initialize(false, func(*Object) error {
		called = true
		return nil
	}))
	oldID := obj.ID()
	assert.Equal(t, 1, LiveCount())

	obj.Retire()
	assert.False(t, called)
	assert.True(t, obj.Destroyed())
	assert.Equal(t, 0, LiveCount())

	require.NoError(t, obj.Initialize(false, nil))
	assert.NotEqual(t, oldID, obj.ID())
	assert.Equal(t, []uuid.UUID{obj.ID()}, LiveObjects())

	obj.Unref()
	assert.Equal(t, 0, LiveCount())
}

func TestTracking_Disabled(t *testing.T) {
	EnableTracking(false)

	New(nil)
	assert.False(t, TrackingEnabled())
	assert.Equal(t, 0, LiveCount())
}

func TestMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)
	observability.SetMetrics(metrics)
	defer observability.SetMetrics(nil)

	a := New(nil)
	New(nil)
	a.Unref()

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.ObjectsCreatedTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ObjectsDestroyedTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ObjectsLive))
}

func toAny[T any](in []T) []interface{} {
	out := make([]interface{}, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
