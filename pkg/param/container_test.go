package param

// This file tests the parameter container.
//
// Test Coverage:
// - Add/AddMany ordering and validation
// - First-match lookups, shadowing and Remove
// - SetParamValue type checks and change callbacks
// - Lookup cache consistency after removals
// - Release of entry values when the container is destroyed

import (
	"errors"
	"testing"

	"github.com/platinummonkey/visual/pkg/color"
	"github.com/platinummonkey/visual/pkg/observability"
	"github.com/platinummonkey/visual/pkg/verrors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setInt(t *testing.T, c *Container, name string, n int) {
	t.Helper()
	var v Value
	v.SetInt(n)
	require.NoError(t, c.SetParamValue(name, &v))
	v.Unset()
}

func TestContainer_WidthHeight(t *testing.T) {
	for _, cacheSize := range []int{0, 8} {
		c := NewContainer(cacheSize)

		require.NoError(t, c.AddMany(
			Info{Name: "width", Type: TypeInt},
			Info{Name: "height", Type: TypeInt},
		))
		setInt(t, c, "width", 800)
		setInt(t, c, "height", 600)

		v, ok := c.ParamValue("height")
		require.True(t, ok)
		n, err := v.Int()
		require.NoError(t, err)
		assert.Equal(t, 600, n)

		assert.True(t, c.Remove("width"))
		assert.Equal(t, TypeNone, c.ParamType("width"))
		_, ok = c.ParamValue("width")
		assert.False(t, ok)
		assert.False(t, c.Remove("width"))

		assert.Equal(t, TypeInt, c.ParamType("height"))
		assert.Equal(t, 1, c.Len())

		c.Unref()
	}
}

func TestContainer_Add(t *testing.T) {
	c := NewContainer(0)
	defer c.Unref()

	require.NoError(t, c.Add(Info{Name: "a", Type: TypeInt}))
	require.NoError(t, c.Add(Info{Name: "b", Type: TypeString, Description: "b param"}))

	assert.Equal(t, []string{"a", "b"}, c.Names())

	e, ok := c.Entry("b")
	require.True(t, ok)
	assert.Equal(t, "b param", e.Description)
	assert.False(t, e.Value.IsSet())

	err := c.Add(Info{})
	assert.True(t, errors.Is(err, verrors.ErrNullArgument))
}

func TestContainer_AddMany(t *testing.T) {
	tests := []struct {
		name    string
		infos   []Info
		wantErr error
		wantLen int
	}{
		{
			name:    "several",
			infos:   []Info{{Name: "a"}, {Name: "b"}, {Name: "c"}},
			wantLen: 3,
		},
		{
			name:    "empty",
			wantErr: verrors.ErrNullArgument,
		},
		{
			name:    "unnamed declaration adds nothing",
			infos:   []Info{{Name: "a"}, {}},
			wantErr: verrors.ErrNullArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewContainer(0)
			defer c.Unref()

			err := c.AddMany(tt.infos...)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantLen, c.Len())
		})
	}
}

func TestContainer_Shadowing(t *testing.T) {
	c := NewContainer(4)
	defer c.Unref()

	require.NoError(t, c.Add(Info{Name: "fps", Type: TypeInt}))
	require.NoError(t, c.Add(Info{Name: "fps", Type: TypeDouble}))
	assert.Equal(t, 2, c.Len())

	// First match wins, and the cache must not hide the shadow after removal
	assert.Equal(t, TypeInt, c.ParamType("fps"))
	assert.Equal(t, TypeInt, c.ParamType("fps"))

	assert.True(t, c.Remove("fps"))
	assert.Equal(t, TypeDouble, c.ParamType("fps"))
	assert.True(t, c.Remove("fps"))
	assert.Equal(t, TypeNone, c.ParamType("fps"))
	assert.Equal(t, 0, c.Len())
}

func TestContainer_SetParamValue(t *testing.T) {
	c := NewContainer(0)
	defer c.Unref()
	require.NoError(t, c.AddMany(
		Info{Name: "depth", Type: TypeInt},
		Info{Name: "anything"},
	))

	var str Value
	str.SetString("x")
	defer str.Unset()

	tests := []struct {
		name    string
		param   string
		value   *Value
		wantErr error
	}{
		{name: "missing", param: "nope", value: &str, wantErr: verrors.ErrNotFound},
		{name: "wrong type", param: "depth", value: &str, wantErr: verrors.ErrTypeMismatch},
		{name: "untyped accepts any", param: "anything", value: &str},
		{name: "nil value", param: "depth", wantErr: verrors.ErrNullArgument},
		{name: "none unsets", param: "depth", value: &Value{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.SetParamValue(tt.param, tt.value)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
		})
	}

	v, ok := c.ParamValue("anything")
	require.True(t, ok)
	s, err := v.Str()
	require.NoError(t, err)
	assert.Equal(t, "x", s)
}

func TestContainer_OnChange(t *testing.T) {
	c := NewContainer(0)
	defer c.Unref()
	require.NoError(t, c.Add(Info{Name: "fps", Type: TypeInt}))

	var changed []string
	c.OnChange(func(e *Entry) {
		n, _ := e.Value.Int()
		changed = append(changed, e.Name)
		assert.Equal(t, 60, n)
	})
	c.OnChange(nil)

	setInt(t, c, "fps", 60)
	assert.Equal(t, []string{"fps"}, changed)

	var v Value
	v.SetInt(1)
	assert.Error(t, c.SetParamValue("missing", &v))
	assert.Len(t, changed, 1)
}

func TestContainer_ReleasesValues(t *testing.T) {
	pal := color.NewPalette(2)
	col := color.New(1, 2, 3, 255)

	c := NewContainer(0)
	require.NoError(t, c.AddMany(
		Info{Name: "palette", Type: TypePalette},
		Info{Name: "color", Type: TypeColor},
	))

	var v Value
	require.NoError(t, v.SetPalette(pal))
	require.NoError(t, c.SetParamValue("palette", &v))
	require.NoError(t, v.SetColorByColor(col))
	require.NoError(t, c.SetParamValue("color", &v))
	v.Unset()

	assert.Equal(t, 2, pal.RefCount())
	assert.Equal(t, 2, col.RefCount())

	assert.True(t, c.Remove("color"))
	assert.Equal(t, 1, col.RefCount())

	n, err := c.Unref()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, pal.RefCount())
}

func TestContainer_All(t *testing.T) {
	c := NewContainer(0)
	defer c.Unref()
	require.NoError(t, c.AddMany(Info{Name: "a", Type: TypeInt}, Info{Name: "b", Type: TypeInt}))
	setInt(t, c, "a", 1)
	setInt(t, c, "b", 2)

	var names []string
	var values []any
	for info, v := range c.All() {
		names = append(names, info.Name)
		values = append(values, v.Interface())
	}
	assert.Equal(t, []string{"a", "b"}, names)
	assert.Equal(t, []any{1, 2}, values)
}

func TestContainer_LookupMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)
	observability.SetMetrics(metrics)
	defer observability.SetMetrics(nil)

	c := NewContainer(4)
	defer c.Unref()
	require.NoError(t, c.Add(Info{Name: "a"}))

	c.Entry("a")
	c.Entry("a")
	c.Entry("b")

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ParamLookupsTotal.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ParamLookupsTotal.WithLabelValues("cached")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ParamLookupsTotal.WithLabelValues("miss")))
}
