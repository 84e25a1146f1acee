package primitive

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"docmapper/utils"
)

// integerBounds returns the inclusive range of a fixed size integer type.
func integerBounds(t FieldType) (int64, int64) {
	switch t {
	case TypeByte:
		return math.MinInt8, math.MaxInt8
	case TypeShort:
		return math.MinInt16, math.MaxInt16
	case TypeInteger:
		return math.MinInt32, math.MaxInt32
	default:
		return math.MinInt64, math.MaxInt64
	}
}

func isFixedInteger(t FieldType) bool {
	return t.IsInteger() && t != TypeBigInteger
}

// fixedInt narrows n to the representation of t; n must already be in range.
func fixedInt(n int64, t FieldType) any {
	switch t {
	case TypeByte:
		return int8(n)
	case TypeShort:
		return int16(n)
	case TypeInteger:
		return int32(n)
	default:
		return n
	}
}

func asInt64(raw any) (int64, bool) {
	switch n := raw.(type) {
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}

func asFloat64(raw any) (float64, bool) {
	switch f := raw.(type) {
	case float32:
		return float64(f), true
	case float64:
		return f, true
	default:
		return 0, false
	}
}

// convertNumber converts between any two number representations, range
// checking before narrowing.
func convertNumber(raw any, to FieldType) (any, error) {
	if n, ok := asInt64(raw); ok {
		return fromInt64(n, to)
	}

	if f, ok := raw.(float32); ok {
		return fromFloat32(f, to)
	}

	if f, ok := asFloat64(raw); ok {
		return fromFloat64(f, to)
	}

	switch n := raw.(type) {
	case decimal.Decimal:
		return fromDecimal(n, to)
	case *big.Int:
		return fromDecimal(decimal.NewFromBigInt(n, 0), to)
	default:
		return nil, fmt.Errorf("%T is not a number", raw)
	}
}

func fromInt64(n int64, to FieldType) (any, error) {
	switch to {
	case TypeByte, TypeShort, TypeInteger, TypeLong:
		lo, hi := integerBounds(to)
		if !utils.IsInRange(lo, n, hi) {
			return nil, rangeError("%d overflows %s", n, to)
		}

		return fixedInt(n, to), nil
	case TypeFloat:
		f := float32(n)
		if !intRoundTrips(float64(f), n) {
			return nil, rangeError("%d has no exact %s representation", n, to)
		}

		return f, nil
	case TypeDouble:
		f := float64(n)
		if !intRoundTrips(f, n) {
			return nil, rangeError("%d has no exact %s representation", n, to)
		}

		return f, nil
	case TypeDecimal, TypeNumber:
		return decimal.NewFromInt(n), nil
	case TypeBigInteger:
		return big.NewInt(n), nil
	default:
		return nil, fmt.Errorf("%s is not a number type", to)
	}
}

// intRoundTrips reports whether f converts back to exactly n.
func intRoundTrips(f float64, n int64) bool {
	// 2^63 is the first float64 above MaxInt64.
	if f >= 1<<63 {
		return false
	}

	return int64(f) == n
}

// fromFloat32 keeps the shortest decimal form of a FLOAT when the target
// is decimal; the other targets see the widened value.
func fromFloat32(f float32, to FieldType) (any, error) {
	f64 := float64(f)
	if math.IsNaN(f64) || math.IsInf(f64, 0) {
		return fromFloat64(f64, to)
	}

	switch to {
	case TypeDecimal, TypeNumber:
		return decimal.NewFromFloat32(f), nil
	case TypeBigInteger:
		return decimal.NewFromFloat32(f).BigInt(), nil
	case TypeFloat:
		return f, nil
	default:
		return fromFloat64(f64, to)
	}
}

func fromFloat64(f float64, to FieldType) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		switch to {
		case TypeFloat:
			return float32(f), nil
		case TypeDouble:
			return f, nil
		default:
			return nil, rangeError("%v has no %s representation", f, to)
		}
	}

	switch to {
	case TypeByte, TypeShort, TypeInteger, TypeLong:
		t := math.Trunc(f)
		lo, hi := integerBounds(to)

		// float64(hi)+1 is exact for every bound, float64(hi) is not for LONG.
		if t < float64(lo) || t >= float64(hi)+1 {
			return nil, rangeError("%v overflows %s", f, to)
		}

		return fixedInt(int64(t), to), nil
	case TypeFloat:
		if math.Abs(f) > math.MaxFloat32 {
			return nil, rangeError("%v overflows %s", f, to)
		}

		return float32(f), nil
	case TypeDouble:
		return f, nil
	case TypeDecimal, TypeNumber:
		return decimal.NewFromFloat(f), nil
	case TypeBigInteger:
		return decimal.NewFromFloat(f).BigInt(), nil
	default:
		return nil, fmt.Errorf("%s is not a number type", to)
	}
}

func fromDecimal(d decimal.Decimal, to FieldType) (any, error) {
	switch to {
	case TypeByte, TypeShort, TypeInteger, TypeLong:
		t := d.Truncate(0)
		lo, hi := integerBounds(to)

		if t.LessThan(decimal.NewFromInt(lo)) || t.GreaterThan(decimal.NewFromInt(hi)) {
			return nil, rangeError("%s overflows %s", d, to)
		}

		return fixedInt(t.IntPart(), to), nil
	case TypeFloat:
		f, _ := d.Float64()
		if math.IsInf(f, 0) || math.Abs(f) > math.MaxFloat32 {
			return nil, rangeError("%s overflows %s", d, to)
		}

		if !decimal.NewFromFloat32(float32(f)).Equal(d) {
			return nil, rangeError("%s has no exact %s representation", d, to)
		}

		return float32(f), nil
	case TypeDouble:
		f, _ := d.Float64()
		if math.IsInf(f, 0) {
			return nil, rangeError("%s overflows %s", d, to)
		}

		if !decimal.NewFromFloat(f).Equal(d) {
			return nil, rangeError("%s has no exact %s representation", d, to)
		}

		return f, nil
	case TypeDecimal, TypeNumber:
		return d, nil
	case TypeBigInteger:
		return d.BigInt(), nil
	default:
		return nil, fmt.Errorf("%s is not a number type", to)
	}
}

// parseNumber parses text into a number of type to. The native strconv
// parse is tried first and an arbitrary precision parse second, so values
// at the edge of the native ranges still convert or fail with RANGE rather
// than FORMAT. Blank text is null.
func parseNumber(s string, to FieldType) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	switch {
	case isFixedInteger(to):
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return fromInt64(n, to)
		}
	case to.IsFloat():
		if f, err := strconv.ParseFloat(s, to.Bits()); err == nil {
			return fromFloat64(f, to)
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, formatError("%q is not a valid %s", s, to)
	}

	return fromDecimal(d, to)
}

// formatFloat renders f the way JSON numbers are usually written: plain
// digits for moderate magnitudes, exponent notation otherwise.
func formatFloat(f float64, bits int) string {
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.FormatFloat(f, 'e', -1, bits)
	}

	return strconv.FormatFloat(f, 'f', -1, bits)
}

// numberConcerns classifies a number to number pair.
func numberConcerns(from, to FieldType) Concern {
	var c Concern

	if !isWidening(from, to) {
		c |= ConcernRange
	}

	if from.IsFloat() && !to.IsFloat() {
		// NaN and infinities have no decimal or integer form
		c |= ConcernRange
	}

	if from.IsFractional() && to.IsInteger() {
		c |= ConcernFractionalPart
	}

	return c
}

// isWidening reports whether every value of from is exactly representable in to.
func isWidening(from, to FieldType) bool {
	switch {
	case from == to:
		return true
	case to == TypeDecimal || to == TypeNumber:
		return true
	case isFixedInteger(from) && isFixedInteger(to):
		return from.Bits() <= to.Bits()
	case from.IsInteger() && to == TypeBigInteger:
		return true
	case isFixedInteger(from) && to == TypeFloat:
		return from.Bits() <= 16
	case isFixedInteger(from) && to == TypeDouble:
		return from.Bits() <= 32
	case from == TypeFloat && to == TypeDouble:
		return true
	default:
		return false
	}
}
