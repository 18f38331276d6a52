package color

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/platinummonkey/visual/pkg/object"
	"github.com/platinummonkey/visual/pkg/verrors"
)

// RGBA is a plain 8-bit-per-channel color value
type RGBA struct {
	R, G, B, A uint8
}

// RGB returns an opaque RGBA
func RGB(r, g, b uint8) RGBA {
	return RGBA{R: r, G: g, B: b, A: 0xFF}
}

// Hex formats the color as #RRGGBB, or #RRGGBBAA when not opaque.
func (c RGBA) Hex() string {
	if c.A == 0xFF {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// ParseHex parses #RRGGBB or #RRGGBBAA. The leading '#' is optional.
func ParseHex(s string) (RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return RGBA{}, fmt.Errorf("parse color %q: want 6 or 8 hex digits", s)
	}

	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}

	if len(h) == 6 {
		return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
	}
	return RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Color is a reference counted color object, the payload of color
// parameters.
type Color struct {
	object.Object
	RGBA
}

// New allocates a color holding one reference
func New(r, g, b, a uint8) *Color {
	c := &Color{RGBA: RGBA{R: r, G: g, B: b, A: a}}
	c.Initialize(true, nil)
	return c
}

// FromRGBA allocates a color from a plain value
func FromRGBA(v RGBA) *Color {
	return New(v.R, v.G, v.B, v.A)
}

// Value returns the plain color value
func (c *Color) Value() RGBA {
	if c == nil {
		return RGBA{}
	}
	return c.RGBA
}

// Equal compares channel values; identity and reference counts are ignored.
func (c *Color) Equal(other *Color) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.RGBA == other.RGBA
}

func (c *Color) String() string {
	if c == nil {
		return "<nil>"
	}
	return c.Hex()
}

// Palette is a reference counted, fixed-size table of colors
type Palette struct {
	object.Object

	colors []RGBA
}

// NewPalette allocates a palette of n opaque black entries holding one
// reference.
func NewPalette(n int) *Palette {
	if n < 0 {
		n = 0
	}

	p := &Palette{colors: make([]RGBA, n)}
	for i := range p.colors {
		p.colors[i].A = 0xFF
	}
	p.Initialize(true, func(*object.Object) error {
		p.colors = nil
		return nil
	})
	return p
}

// Len returns the number of entries
func (p *Palette) Len() int {
	if p == nil {
		return 0
	}
	return len(p.colors)
}

// At returns entry i
func (p *Palette) At(i int) (RGBA, bool) {
	if p == nil || i < 0 || i >= len(p.colors) {
		return RGBA{}, false
	}
	return p.colors[i], true
}

// Set replaces entry i
func (p *Palette) Set(i int, c RGBA) error {
	if p == nil {
		return fmt.Errorf("palette set: %w", verrors.ErrNullArgument)
	}
	if i < 0 || i >= len(p.colors) {
		return fmt.Errorf("palette set: index %d out of range [0,%d): %w", i, len(p.colors), verrors.ErrInvalidEntry)
	}
	p.colors[i] = c
	return nil
}

// Colors returns a copy of the entries
func (p *Palette) Colors() []RGBA {
	if p == nil {
		return nil
	}
	out := make([]RGBA, len(p.colors))
	copy(out, p.colors)
	return out
}
