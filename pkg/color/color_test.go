package color

import (
	"errors"
	"testing"

	"github.com/platinummonkey/visual/pkg/verrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    RGBA
		wantErr bool
	}{
		{name: "rgb", input: "#FF8000", want: RGBA{R: 0xFF, G: 0x80, B: 0x00, A: 0xFF}},
		{name: "lowercase without hash", input: "0a0b0c", want: RGBA{R: 0x0A, G: 0x0B, B: 0x0C, A: 0xFF}},
		{name: "rgba", input: "#01020304", want: RGBA{R: 1, G: 2, B: 3, A: 4}},
		{name: "too short", input: "#FFF", wantErr: true},
		{name: "not hex", input: "#GGGGGG", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHex(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHex(t *testing.T) {
	assert.Equal(t, "#123456", RGB(0x12, 0x34, 0x56).Hex())
	assert.Equal(t, "#12345680", RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0x80}.Hex())

	back, err := ParseHex(RGBA{R: 9, G: 8, B: 7, A: 6}.Hex())
	require.NoError(t, err)
	assert.Equal(t, RGBA{R: 9, G: 8, B: 7, A: 6}, back)
}

func TestColor(t *testing.T) {
	c := New(1, 2, 3, 255)
	assert.Equal(t, 1, c.RefCount())
	assert.Equal(t, RGB(1, 2, 3), c.Value())
	assert.Equal(t, "#010203", c.String())

	other := FromRGBA(RGB(1, 2, 3))
	assert.True(t, c.Equal(other))
	assert.False(t, c.Equal(New(0, 0, 0, 255)))
	assert.False(t, c.Equal(nil))

	n, err := c.Unref()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.True(t, c.Destroyed())
}

func TestPalette(t *testing.T) {
	p := NewPalette(4)
	assert.Equal(t, 4, p.Len())

	c, ok := p.At(0)
	require.True(t, ok)
	assert.Equal(t, RGB(0, 0, 0), c)

	require.NoError(t, p.Set(3, RGB(10, 20, 30)))
	c, ok = p.At(3)
	require.True(t, ok)
	assert.Equal(t, RGB(10, 20, 30), c)

	_, ok = p.At(4)
	assert.False(t, ok)
	_, ok = p.At(-1)
	assert.False(t, ok)

	err := p.Set(4, RGB(1, 1, 1))
	assert.True(t, errors.Is(err, verrors.ErrInvalidEntry))

	colors := p.Colors()
	colors[0] = RGB(255, 255, 255)
	c, _ = p.At(0)
	assert.Equal(t, RGB(0, 0, 0), c, "Colors must return a copy")

	p.Unref()
	assert.Equal(t, 0, p.Len())
}

func TestNewPalette_Negative(t *testing.T) {
	p := NewPalette(-3)
	assert.Equal(t, 0, p.Len())
	assert.Empty(t, p.Colors())
}
