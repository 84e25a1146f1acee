package primitive

import (
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// Value is a typed primitive value. The zero Value is null.
//
// The Go representation always matches the type:
//
//	STRING               string
//	BOOLEAN              bool
//	BYTE                 int8
//	CHAR                 rune
//	SHORT                int16
//	INTEGER              int32
//	LONG                 int64
//	FLOAT                float32
//	DOUBLE               float64
//	DECIMAL, NUMBER      decimal.Decimal
//	BIG_INTEGER          *big.Int
//	DATE, TIME, DATE_TIME time.Time
//
// COMPLEX and UNSUPPORTED values are always null.
type Value struct {
	typ FieldType
	raw any
}

// NewValue builds a Value, checking that raw is the representation of t.
// A nil raw yields null.
func NewValue(t FieldType, raw any) (Value, error) {
	if raw == nil {
		return Value{}, nil
	}

	ok := false

	switch t {
	case TypeString:
		_, ok = raw.(string)
	case TypeBoolean:
		_, ok = raw.(bool)
	case TypeByte:
		_, ok = raw.(int8)
	case TypeChar, TypeInteger:
		_, ok = raw.(int32)
	case TypeShort:
		_, ok = raw.(int16)
	case TypeLong:
		_, ok = raw.(int64)
	case TypeFloat:
		_, ok = raw.(float32)
	case TypeDouble:
		_, ok = raw.(float64)
	case TypeDecimal, TypeNumber:
		_, ok = raw.(decimal.Decimal)
	case TypeBigInteger:
		var b *big.Int
		if b, ok = raw.(*big.Int); ok {
			if b == nil {
				return Value{}, nil
			}

			raw = new(big.Int).Set(b)
		}
	case TypeDate, TypeTime, TypeDateTime:
		_, ok = raw.(time.Time)
	case TypeComplex, TypeUnsupported:
		return Value{}, fmt.Errorf("%s values cannot carry %T", t, raw)
	}

	if !ok {
		return Value{}, fmt.Errorf("%T is not a valid %s value", raw, t)
	}

	return Value{typ: t, raw: raw}, nil
}

// MustValue is like NewValue but panics on a representation mismatch.
func MustValue(t FieldType, raw any) Value {
	v, err := NewValue(t, raw)
	if err != nil {
		panic(err)
	}

	return v
}

func String(s string) Value { return Value{typ: TypeString, raw: s} }
func Bool(b bool) Value { return Value{typ: TypeBoolean, raw: b} }
func Byte(n int8) Value { return Value{typ: TypeByte, raw: n} }
func Char(r rune) Value { return Value{typ: TypeChar, raw: r} }
func Short(n int16) Value { return Value{typ: TypeShort, raw: n} }
func Int(n int32) Value { return Value{typ: TypeInteger, raw: n} }
func Long(n int64) Value { return Value{typ: TypeLong, raw: n} }
func Float(f float32) Value { return Value{typ: TypeFloat, raw: f} }
func Double(f float64) Value { return Value{typ: TypeDouble, raw: f} }
func Decimal(d decimal.Decimal) Value { return Value{typ: TypeDecimal, raw: d} }
func Number(d decimal.Decimal) Value { return Value{typ: TypeNumber, raw: d} }
func Date(t time.Time) Value { return Value{typ: TypeDate, raw: t} }
func Time(t time.Time) Value { return Value{typ: TypeTime, raw: t} }
func DateTime(t time.Time) Value { return Value{typ: TypeDateTime, raw: t} }
func BigInt(b *big.Int) Value { return MustValue(TypeBigInteger, b) }

// Type returns the value's type, or zero for null.
func (v Value) Type() FieldType {
	return v.typ
}

// IsNull reports whether the value is absent.
func (v Value) IsNull() bool {
	return v.raw == nil
}

// Raw returns the Go representation, or nil for null.
func (v Value) Raw() any {
	if b, ok := v.raw.(*big.Int); ok {
		return new(big.Int).Set(b)
	}

	return v.raw
}

// Equal compares type and value. Decimal and big integer values compare
// numerically, times with time.Time.Equal.
func (v Value) Equal(other Value) bool {
	if v.IsNull() || other.IsNull() {
		return v.IsNull() && other.IsNull()
	}

	if v.typ != other.typ {
		return false
	}

	switch a := v.raw.(type) {
	case decimal.Decimal:
		return a.Equal(other.raw.(decimal.Decimal))
	case *big.Int:
		return a.Cmp(other.raw.(*big.Int)) == 0
	case time.Time:
		return a.Equal(other.raw.(time.Time))
	default:
		return v.raw == other.raw
	}
}

// String returns a debug representation such as "INTEGER(2)" or "null".
func (v Value) String() string {
	if v.IsNull() {
		return "null"
	}

	return fmt.Sprintf("%s(%v)", v.typ, v.raw)
}
