package primitive

import (
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=FieldType -linecomment -output=fieldtype_string.go

// FieldType is the closed set of primitive and structural kinds shared by
// every document format.
type FieldType int

const (
	_ FieldType = iota // skip zero value, use it as the "not declared" value for FieldType

	TypeString      // STRING
	TypeBoolean     // BOOLEAN
	TypeByte        // BYTE
	TypeChar        // CHAR
	TypeShort       // SHORT
	TypeInteger     // INTEGER
	TypeLong        // LONG
	TypeFloat       // FLOAT
	TypeDouble      // DOUBLE
	TypeDecimal     // DECIMAL
	TypeBigInteger  // BIG_INTEGER
	TypeNumber      // NUMBER
	TypeDate        // DATE
	TypeTime        // TIME
	TypeDateTime    // DATE_TIME
	TypeComplex     // COMPLEX
	TypeUnsupported // UNSUPPORTED

	// TypeTotal is a constant that represents the total number of types defined
	TypeTotal = int(iota)
)

// IsDeclared reports whether t is one of the defined types.
func (t FieldType) IsDeclared() bool {
	return t > 0 && int(t) < TypeTotal
}

func (t FieldType) IsNumber() bool {
	switch t {
	default:
		return false
	case TypeByte, TypeShort, TypeInteger, TypeLong, TypeBigInteger,
		TypeFloat, TypeDouble, TypeDecimal, TypeNumber:
		return true
	}
}

func (t FieldType) IsInteger() bool {
	switch t {
	default:
		return false
	case TypeByte, TypeShort, TypeInteger, TypeLong, TypeBigInteger:
		return true
	}
}

func (t FieldType) IsFloat() bool {
	switch t {
	default:
		return false
	case TypeFloat, TypeDouble:
		return true
	}
}

// IsFractional reports whether t can hold a fractional part.
func (t FieldType) IsFractional() bool {
	switch t {
	default:
		return false
	case TypeFloat, TypeDouble, TypeDecimal, TypeNumber:
		return true
	}
}

func (t FieldType) IsTemporal() bool {
	switch t {
	default:
		return false
	case TypeDate, TypeTime, TypeDateTime:
		return true
	}
}

// IsScalar reports whether values of t carry a primitive value.
func (t FieldType) IsScalar() bool {
	return t.IsDeclared() && t != TypeComplex && t != TypeUnsupported
}

// Bits returns the width of fixed size integer and floating point types.
func (t FieldType) Bits() int {
	switch t {
	default:
		panic("only fixed size number types have a meaningful bits amount, but requested for: " + t.String())
	case TypeByte:
		return 8
	case TypeShort:
		return 16
	case TypeInteger, TypeFloat:
		return 32
	case TypeLong, TypeDouble:
		return 64
	}
}

// ParseFieldType parses a type name such as "INTEGER" or "date_time".
// The empty string is the undeclared type.
func ParseFieldType(name string) (FieldType, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return 0, nil
	}

	for t := FieldType(1); int(t) < TypeTotal; t++ {
		if t.String() == name {
			return t, nil
		}
	}

	return 0, fmt.Errorf("unknown field type %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (t FieldType) MarshalText() ([]byte, error) {
	if !t.IsDeclared() {
		return []byte{}, nil
	}

	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *FieldType) UnmarshalText(text []byte) error {
	parsed, err := ParseFieldType(string(text))
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}
