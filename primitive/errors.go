package primitive

import (
	"errors"
	"fmt"
	"strings"
)

// Concern is a risk category attached to a conversion rule.
type Concern int

const (
	ConcernRange          Concern = 1 << iota // value may not fit the target and is checked at call time
	ConcernFormat                             // textual input may not parse
	ConcernFractionalPart                     // fractional digits are truncated
	ConcernUnsupported                        // no rule exists for the pair

	ConcernNone Concern = 0
)

// Has reports whether every flag of other is set in c.
func (c Concern) Has(other Concern) bool {
	return c&other == other
}

// String returns the flags joined with "|", e.g. "RANGE|FORMAT".
func (c Concern) String() string {
	if c == ConcernNone {
		return "NONE"
	}

	var parts []string

	for _, item := range []struct {
		flag Concern
		name string
	}{
		{ConcernRange, "RANGE"},
		{ConcernFormat, "FORMAT"},
		{ConcernFractionalPart, "FRACTIONAL_PART"},
		{ConcernUnsupported, "UNSUPPORTED"},
	} {
		if c.Has(item.flag) {
			parts = append(parts, item.name)
		}
	}

	return strings.Join(parts, "|")
}

// ErrConversion is the sentinel wrapped by every ConversionError.
var ErrConversion = errors.New("conversion failed")

// ConversionError reports a value that has no safe coercion to the target type.
type ConversionError struct {
	// Value is the offending input.
	Value any
	From  FieldType
	To    FieldType
	// Concern classifies the failure (RANGE, FORMAT or UNSUPPORTED).
	Concern Concern
	Err     error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("cannot convert %v from %s to %s [%s]", e.Value, e.From, e.To, e.Concern)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *ConversionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConversion}
	}

	return []error{ErrConversion, e.Err}
}

// concernError tags a rule failure with its concern.
type concernError struct {
	concern Concern
	err     error
}

func (e *concernError) Error() string { return e.err.Error() }
func (e *concernError) Unwrap() error { return e.err }

func rangeError(format string, args ...any) error {
	return &concernError{concern: ConcernRange, err: fmt.Errorf(format, args...)}
}

func formatError(format string, args ...any) error {
	return &concernError{concern: ConcernFormat, err: fmt.Errorf(format, args...)}
}

func concernOf(err error, fallback Concern) Concern {
	var ce *concernError
	if errors.As(err, &ce) {
		return ce.concern
	}

	return fallback
}
