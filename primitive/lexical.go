package primitive

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05.999999999"
	DateTimeLayout = time.RFC3339Nano
)

// extra layouts accepted when parsing date-times without an explicit format
var dateTimeFallbacks = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	DateLayout,
}

// lexical renders raw, a value of type t, as text.
func lexical(t FieldType, raw any, format string) (string, error) {
	switch t {
	case TypeString:
		return raw.(string), nil
	case TypeBoolean:
		return strconv.FormatBool(raw.(bool)), nil
	case TypeChar:
		return string(raw.(rune)), nil
	case TypeByte, TypeShort, TypeInteger, TypeLong:
		n, _ := asInt64(raw)
		return strconv.FormatInt(n, 10), nil
	case TypeFloat:
		return formatFloat(float64(raw.(float32)), 32), nil
	case TypeDouble:
		return formatFloat(raw.(float64), 64), nil
	case TypeDecimal, TypeNumber:
		return raw.(decimal.Decimal).String(), nil
	case TypeBigInteger:
		return raw.(*big.Int).String(), nil
	case TypeDate, TypeTime, TypeDateTime:
		return raw.(time.Time).Format(layoutOf(t, format)), nil
	default:
		return "", fmt.Errorf("%s has no lexical form", t)
	}
}

func layoutOf(t FieldType, format string) string {
	if format != "" {
		return format
	}

	switch t {
	case TypeDate:
		return DateLayout
	case TypeTime:
		return TimeLayout
	default:
		return DateTimeLayout
	}
}

// parseTemporal parses text as a date, time or date-time. An explicit
// format is the only layout tried; otherwise the default layout of t and,
// for dates and date-times, a few common variants are accepted.
func parseTemporal(s string, t FieldType, format string) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	layouts := []string{layoutOf(t, format)}
	if format == "" && t != TypeTime {
		layouts = append(layouts, DateTimeLayout)
		layouts = append(layouts, dateTimeFallbacks...)
	}

	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			return truncateTemporal(parsed, t), nil
		}
	}

	return nil, formatError("%q does not match the %s layout %q", s, t, layouts[0])
}

// truncateTemporal drops the parts of tm that t does not carry. TIME values
// keep the zero date 0000-01-01.
func truncateTemporal(tm time.Time, t FieldType) time.Time {
	switch t {
	case TypeDate:
		y, m, d := tm.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, tm.Location())
	case TypeTime:
		return time.Date(0, time.January, 1, tm.Hour(), tm.Minute(), tm.Second(), tm.Nanosecond(), tm.Location())
	default:
		return tm
	}
}

// parseBool accepts the usual textual spellings of a boolean.
func parseBool(s string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return nil, nil
	case "true", "yes", "on", "1", "t", "y":
		return true, nil
	case "false", "no", "off", "0", "f", "n":
		return false, nil
	default:
		return nil, formatError("only true/false, yes/no, on/off and 1/0 are allowed for BOOLEAN, got: %q", s)
	}
}

// parseChar requires exactly one character. The empty string is null.
func parseChar(s string) (any, error) {
	switch utf8.RuneCountInString(s) {
	case 0:
		return nil, nil
	case 1:
		r, _ := utf8.DecodeRuneInString(s)
		return r, nil
	default:
		return nil, rangeError("%q is longer than one character", s)
	}
}
