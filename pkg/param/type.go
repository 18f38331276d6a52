package param

import (
	"fmt"
	"strings"
)

// Type tags the payload held by a Value
type Type int

const (
	TypeNone Type = iota
	TypeInt
	TypeFloat
	TypeDouble
	TypeString
	TypeColor
	TypePalette
	TypeObject
	TypeCollection
)

var typeNames = map[Type]string{
	TypeNone:       "none",
	TypeInt:        "int",
	TypeFloat:      "float",
	TypeDouble:     "double",
	TypeString:     "string",
	TypeColor:      "color",
	TypePalette:    "palette",
	TypeObject:     "object",
	TypeCollection: "collection",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// IsObject reports whether values of this type hold a reference counted
// payload.
func (t Type) IsObject() bool {
	switch t {
	case TypeColor, TypePalette, TypeObject, TypeCollection:
		return true
	}
	return false
}

// ParseType resolves a type name as written in manifests
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return TypeNone, nil
	}
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return TypeNone, fmt.Errorf("unknown param type %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (t Type) MarshalText() ([]byte, error) {
	if _, ok := typeNames[t]; !ok {
		return nil, fmt.Errorf("unknown param type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
