package primitive

import (
	"math"
	"math/big"
	"time"
	"unicode/utf8"

	"docmapper/options"
)

func newRule(from, to FieldType, concerns Concern, fn ConvertFunc) *Converter {
	return &Converter{ConversionPair: ConversionPair{from, to}, Concerns: concerns, fn: fn}
}

// categoryRules returns fresh rules for a single category.
func categoryRules(category options.CategoryEnum) []*Converter {
	switch category {
	case options.CategorySafeNumber, options.CategoryUnsafeNumber:
		return numberRules(category == options.CategorySafeNumber)
	case options.CategoryTextNumber:
		return textNumberRules()
	case options.CategoryNumericBool:
		return numericBoolRules()
	case options.CategoryTextualBool:
		return []*Converter{
			newRule(TypeString, TypeBoolean, ConcernFormat, func(raw any, _ string) (any, error) {
				return parseBool(raw.(string))
			}),
			newRule(TypeBoolean, TypeString, ConcernNone, toText(TypeBoolean)),
		}
	case options.CategoryDatetime:
		return datetimeRules()
	case options.CategoryTimestamp:
		return timestampRules()
	case options.CategoryTemporal:
		return temporalRules()
	case options.CategoryCharacter:
		return characterRules()
	default:
		return nil
	}
}

func forEachType(fn func(t FieldType)) {
	for t := FieldType(1); int(t) < TypeTotal; t++ {
		fn(t)
	}
}

func toText(from FieldType) ConvertFunc {
	return func(raw any, format string) (any, error) {
		return lexical(from, raw, format)
	}
}

// numberRules returns either the widening or the narrowing half of the
// number to number matrix.
func numberRules(safe bool) []*Converter {
	var rules []*Converter

	forEachType(func(from FieldType) {
		if !from.IsNumber() {
			return
		}

		forEachType(func(to FieldType) {
			if !to.IsNumber() || from == to || isWidening(from, to) != safe {
				return
			}

			rules = append(rules, newRule(from, to, numberConcerns(from, to), func(raw any, _ string) (any, error) {
				return convertNumber(raw, to)
			}))
		})
	})

	return rules
}

func textNumberRules() []*Converter {
	var rules []*Converter

	forEachType(func(t FieldType) {
		if !t.IsNumber() {
			return
		}

		rules = append(rules,
			newRule(t, TypeString, ConcernNone, toText(t)),
			newRule(TypeString, t, ConcernFormat|ConcernRange, func(raw any, _ string) (any, error) {
				return parseNumber(raw.(string), t)
			}),
		)
	})

	return rules
}

func numericBoolRules() []*Converter {
	var rules []*Converter

	forEachType(func(t FieldType) {
		if !t.IsInteger() {
			return
		}

		// 0, 1 - valid, other numbers is error
		rules = append(rules,
			newRule(t, TypeBoolean, ConcernRange, func(raw any, _ string) (any, error) {
				if b, ok := raw.(*big.Int); ok {
					if !b.IsInt64() {
						return nil, rangeError("only numbers 0 and 1 are allowed for BOOLEAN, got: %s", b)
					}

					raw = b.Int64()
				}

				switch n, _ := asInt64(raw); n {
				case 0:
					return false, nil
				case 1:
					return true, nil
				default:
					return nil, rangeError("only numbers 0 and 1 are allowed for BOOLEAN, got: %d", n)
				}
			}),
			newRule(TypeBoolean, t, ConcernNone, func(raw any, _ string) (any, error) {
				var n int64
				if raw.(bool) {
					n = 1
				}

				return fromInt64(n, t)
			}),
		)
	})

	return rules
}

func datetimeRules() []*Converter {
	var rules []*Converter

	for _, t := range []FieldType{TypeDate, TypeTime, TypeDateTime} {
		rules = append(rules,
			newRule(TypeString, t, ConcernFormat, func(raw any, format string) (any, error) {
				return parseTemporal(raw.(string), t, format)
			}),
			newRule(t, TypeString, ConcernNone, toText(t)),
		)
	}

	return rules
}

// timestampRules convert between Unix milliseconds and dates.
func timestampRules() []*Converter {
	var rules []*Converter

	for _, number := range []FieldType{TypeInteger, TypeLong} {
		for _, t := range []FieldType{TypeDate, TypeDateTime} {
			rules = append(rules,
				newRule(number, t, ConcernNone, func(raw any, _ string) (any, error) {
					ms, _ := asInt64(raw)
					return truncateTemporal(time.UnixMilli(ms).UTC(), t), nil
				}),
				newRule(t, number, ConcernRange, func(raw any, _ string) (any, error) {
					return fromInt64(raw.(time.Time).UnixMilli(), number)
				}),
			)
		}
	}

	return rules
}

func temporalRules() []*Converter {
	truncate := func(to FieldType) ConvertFunc {
		return func(raw any, _ string) (any, error) {
			return truncateTemporal(raw.(time.Time), to), nil
		}
	}

	return []*Converter{
		newRule(TypeDate, TypeDateTime, ConcernNone, truncate(TypeDateTime)),
		newRule(TypeTime, TypeDateTime, ConcernNone, truncate(TypeDateTime)),
		newRule(TypeDateTime, TypeDate, ConcernNone, truncate(TypeDate)),
		newRule(TypeDateTime, TypeTime, ConcernNone, truncate(TypeTime)),
	}
}

func characterRules() []*Converter {
	rules := []*Converter{
		newRule(TypeChar, TypeString, ConcernNone, toText(TypeChar)),
		newRule(TypeString, TypeChar, ConcernRange, func(raw any, _ string) (any, error) {
			return parseChar(raw.(string))
		}),
	}

	forEachType(func(t FieldType) {
		if !t.IsInteger() {
			return
		}

		rules = append(rules,
			newRule(TypeChar, t, ConcernRange, func(raw any, _ string) (any, error) {
				return fromInt64(int64(raw.(rune)), t)
			}),
			newRule(t, TypeChar, ConcernRange, func(raw any, _ string) (any, error) {
				if b, ok := raw.(*big.Int); ok {
					if !b.IsInt64() {
						return nil, rangeError("%s is not a code point", b)
					}

					raw = b.Int64()
				}

				n, _ := asInt64(raw)
				if n < 0 || n > math.MaxInt32 || !utf8.ValidRune(rune(n)) {
					return nil, rangeError("%d is not a code point", n)
				}

				return rune(n), nil
			}),
		)
	})

	return rules
}
