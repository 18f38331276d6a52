package param

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/platinummonkey/visual/pkg/collection"
	"github.com/platinummonkey/visual/pkg/color"
	"github.com/platinummonkey/visual/pkg/object"
	"github.com/platinummonkey/visual/pkg/observability"
	"github.com/platinummonkey/visual/pkg/verrors"
)

// Value is a tagged union holding at most one payload.
//
// Strings are copied on set. Color, palette, object and collection payloads
// are shared by reference: setting takes a reference, unsetting drops it and
// the getters hand the caller a new reference it must release. The zero Value
// is an unset value of TypeNone.
type Value struct {
	typ Type

	i   int
	f   float32
	d   float64
	str string
	ref any
}

// Type returns the tag of the current payload
func (v *Value) Type() Type {
	if v == nil {
		return TypeNone
	}
	return v.typ
}

// IsSet reports whether the value holds a payload
func (v *Value) IsSet() bool {
	return v.Type() != TypeNone
}

// SetString stores a copy of s
func (v *Value) SetString(s string) error {
	if v == nil {
		return fmt.Errorf("param set string: %w", verrors.ErrNullArgument)
	}
	v.Unset()
	v.typ = TypeString
	v.str = strings.Clone(s)
	observability.DefaultMetrics().ParamValueSet(TypeString.String())
	return nil
}

// SetInt stores an integer
func (v *Value) SetInt(i int) error {
	if v == nil {
		return fmt.Errorf("param set int: %w", verrors.ErrNullArgument)
	}
	v.Unset()
	v.typ = TypeInt
	v.i = i
	observability.DefaultMetrics().ParamValueSet(TypeInt.String())
	return nil
}

// SetFloat stores a single precision float
func (v *Value) SetFloat(f float32) error {
	if v == nil {
		return fmt.Errorf("param set float: %w", verrors.ErrNullArgument)
	}
	v.Unset()
	v.typ = TypeFloat
	v.f = f
	observability.DefaultMetrics().ParamValueSet(TypeFloat.String())
	return nil
}

// SetDouble stores a double precision float
func (v *Value) SetDouble(d float64) error {
	if v == nil {
		return fmt.Errorf("param set double: %w", verrors.ErrNullArgument)
	}
	v.Unset()
	v.typ = TypeDouble
	v.d = d
	observability.DefaultMetrics().ParamValueSet(TypeDouble.String())
	return nil
}

// SetColor stores a new opaque color owned by the value
func (v *Value) SetColor(r, g, b uint8) error {
	if v == nil {
		return fmt.Errorf("param set color: %w", verrors.ErrNullArgument)
	}
	v.Unset()
	v.typ = TypeColor
	v.ref = color.New(r, g, b, 0xFF)
	observability.DefaultMetrics().ParamValueSet(TypeColor.String())
	return nil
}

// SetColorByColor shares c with the caller, taking a reference
func (v *Value) SetColorByColor(c *color.Color) error {
	if c == nil {
		return fmt.Errorf("param set color: %w", verrors.ErrNullArgument)
	}
	return v.setRef(TypeColor, c)
}

// SetPalette shares p with the caller, taking a reference
func (v *Value) SetPalette(p *color.Palette) error {
	if p == nil {
		return fmt.Errorf("param set palette: %w", verrors.ErrNullArgument)
	}
	return v.setRef(TypePalette, p)
}

// SetObject shares obj with the caller, taking a reference
func (v *Value) SetObject(obj object.Refcounted) error {
	if obj == nil {
		return fmt.Errorf("param set object: %w", verrors.ErrNullArgument)
	}
	return v.setRef(TypeObject, obj)
}

// SetCollection stores c. A reference is taken when c is reference counted.
func (v *Value) SetCollection(c collection.Collection) error {
	if c == nil {
		return fmt.Errorf("param set collection: %w", verrors.ErrNullArgument)
	}
	return v.setRef(TypeCollection, c)
}

// setRef takes the new reference before dropping the old one so that
// re-setting the payload already held never destroys it.
func (v *Value) setRef(typ Type, payload any) error {
	if v == nil {
		return fmt.Errorf("param set %s: %w", typ, verrors.ErrNullArgument)
	}
	if err := ref(payload); err != nil {
		return fmt.Errorf("param set %s: %w", typ, err)
	}

	v.Unset()
	v.typ = typ
	v.ref = payload
	observability.DefaultMetrics().ParamValueSet(typ.String())

	return nil
}

// Set makes v a copy of src following the same ownership rules as the
// typed setters. Setting a value from itself is a no-op.
func (v *Value) Set(src *Value) error {
	if v == nil || src == nil {
		return fmt.Errorf("param set: %w", verrors.ErrNullArgument)
	}
	if v == src {
		return nil
	}

	switch src.typ {
	case TypeNone:
		v.Unset()
	case TypeInt:
		return v.SetInt(src.i)
	case TypeFloat:
		return v.SetFloat(src.f)
	case TypeDouble:
		return v.SetDouble(src.d)
	case TypeString:
		return v.SetString(src.str)
	case TypeColor, TypePalette, TypeObject, TypeCollection:
		return v.setRef(src.typ, src.ref)
	default:
		return fmt.Errorf("param set: unknown type %s", src.typ)
	}

	return nil
}

// Unset releases the payload and resets the tag to TypeNone. Unsetting an
// unset value does nothing.
func (v *Value) Unset() {
	if v == nil {
		return
	}

	if v.typ.IsObject() {
		unref(v.ref)
	}

	*v = Value{}
}

// Str returns the string payload
func (v *Value) Str() (string, error) {
	if err := v.expect(TypeString); err != nil {
		return "", err
	}
	return v.str, nil
}

// Int returns the integer payload
func (v *Value) Int() (int, error) {
	if err := v.expect(TypeInt); err != nil {
		return 0, err
	}
	return v.i, nil
}

// Float returns the single precision payload
func (v *Value) Float() (float32, error) {
	if err := v.expect(TypeFloat); err != nil {
		return 0, err
	}
	return v.f, nil
}

// Double returns the double precision payload
func (v *Value) Double() (float64, error) {
	if err := v.expect(TypeDouble); err != nil {
		return 0, err
	}
	return v.d, nil
}

// Color returns a new reference to the color payload
func (v *Value) Color() (*color.Color, error) {
	if err := v.expect(TypeColor); err != nil {
		return nil, err
	}
	c := v.ref.(*color.Color)
	if _, err := c.Ref(); err != nil {
		return nil, err
	}
	return c, nil
}

// Palette returns a new reference to the palette payload
func (v *Value) Palette() (*color.Palette, error) {
	if err := v.expect(TypePalette); err != nil {
		return nil, err
	}
	p := v.ref.(*color.Palette)
	if _, err := p.Ref(); err != nil {
		return nil, err
	}
	return p, nil
}

// Object returns a new reference to the generic object payload. Color and
// palette values are not returned here; use their own getters.
func (v *Value) Object() (object.Refcounted, error) {
	if err := v.expect(TypeObject); err != nil {
		return nil, err
	}
	obj := v.ref.(object.Refcounted)
	if _, err := obj.Ref(); err != nil {
		return nil, err
	}
	return obj, nil
}

// Collection returns the collection payload, with a new reference when it
// is reference counted.
func (v *Value) Collection() (collection.Collection, error) {
	if err := v.expect(TypeCollection); err != nil {
		return nil, err
	}
	c := v.ref.(collection.Collection)
	if err := ref(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Interface returns the payload as a plain Go value for display and
// encoding: colors as hex strings, palettes as hex string slices, objects
// by ID and collections by size. No reference is taken.
func (v *Value) Interface() any {
	switch v.Type() {
	case TypeInt:
		return v.i
	case TypeFloat:
		return v.f
	case TypeDouble:
		return v.d
	case TypeString:
		return v.str
	case TypeColor:
		return v.ref.(*color.Color).Hex()
	case TypePalette:
		colors := v.ref.(*color.Palette).Colors()
		out := make([]string, len(colors))
		for i, c := range colors {
			out[i] = c.Hex()
		}
		return out
	case TypeObject:
		if o, ok := v.ref.(interface{ ID() uuid.UUID }); ok {
			return o.ID().String()
		}
		return fmt.Sprintf("%T", v.ref)
	case TypeCollection:
		return v.ref.(collection.Collection).Size()
	}
	return nil
}

func (v *Value) String() string {
	switch v.Type() {
	case TypeNone:
		return "<none>"
	case TypeString:
		return strconv.Quote(v.str)
	case TypeFloat:
		return strconv.FormatFloat(float64(v.f), 'g', -1, 32)
	case TypeDouble:
		return strconv.FormatFloat(v.d, 'g', -1, 64)
	case TypePalette:
		return fmt.Sprintf("palette%v", v.Interface())
	case TypeObject, TypeCollection:
		return fmt.Sprintf("%s(%v)", v.typ, v.Interface())
	}
	return fmt.Sprint(v.Interface())
}

func (v *Value) expect(want Type) error {
	if v == nil {
		return fmt.Errorf("param get %s: %w", want, verrors.ErrNullArgument)
	}
	if v.typ != want {
		return fmt.Errorf("param get %s: value holds %s: %w", want, v.typ, verrors.ErrTypeMismatch)
	}
	return nil
}

func ref(payload any) error {
	if rc, ok := payload.(object.Refcounted); ok {
		_, err := rc.Ref()
		return err
	}
	return nil
}

func unref(payload any) {
	rc, ok := payload.(object.Refcounted)
	if !ok {
		return
	}
	if _, err := rc.Unref(); err != nil {
		observability.Log().WithError(err).Warn("param value payload destructor failed")
	}
}
