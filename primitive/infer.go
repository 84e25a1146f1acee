package primitive

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// InferNumber returns the narrowest value for a numeric literal. Integral
// literals become INTEGER, LONG or BIG_INTEGER by magnitude; anything else
// becomes DOUBLE, or NUMBER when it overflows a float64.
func InferNumber(literal string) (Value, error) {
	literal = strings.TrimSpace(literal)

	if n, err := strconv.ParseInt(literal, 10, 64); err == nil {
		if n >= math.MinInt32 && n <= math.MaxInt32 {
			return Int(int32(n)), nil
		}

		return Long(n), nil
	}

	if b, ok := new(big.Int).SetString(literal, 10); ok {
		return BigInt(b), nil
	}

	f, err := strconv.ParseFloat(literal, 64)
	if err == nil {
		return Double(f), nil
	}

	if !errors.Is(err, strconv.ErrRange) {
		return Value{}, &ConversionError{Value: literal, From: TypeString, To: TypeDouble, Concern: ConcernFormat, Err: err}
	}

	d, derr := decimal.NewFromString(literal)
	if derr != nil {
		return Value{}, &ConversionError{Value: literal, From: TypeString, To: TypeNumber, Concern: ConcernFormat, Err: derr}
	}

	return Number(d), nil
}
