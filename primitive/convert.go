package primitive

import (
	"cmp"
	"errors"
	"maps"
	"slices"

	"docmapper/options"
)

// ConvertFunc converts the Go representation of a source value into the
// representation of the target type. Returning nil means null. format is
// an optional lexical layout (e.g. a Go time layout).
type ConvertFunc func(raw any, format string) (any, error)

type ConversionPair struct {
	From, To FieldType
}

// Converter is one rule of the conversion matrix.
type Converter struct {
	ConversionPair

	// Concerns documents what may go wrong at call time.
	Concerns Concern
	// Category is the option category that enabled the rule; zero for
	// identity and custom rules.
	Category options.CategoryEnum

	fn ConvertFunc
}

// Convert applies the rule. Null converts to null without calling the rule.
func (c *Converter) Convert(v Value, format string) (Value, error) {
	if v.IsNull() {
		return Value{}, nil
	}

	if v.Type() != c.From {
		return Value{}, &ConversionError{
			Value: v.raw, From: v.Type(), To: c.To, Concern: ConcernUnsupported,
			Err: errors.New("value does not match the rule source type " + c.From.String()),
		}
	}

	raw, err := c.fn(v.raw, format)
	if err != nil {
		return Value{}, &ConversionError{
			Value: v.raw, From: c.From, To: c.To, Concern: concernOf(err, c.Concerns), Err: err,
		}
	}

	out, err := NewValue(c.To, raw)
	if err != nil {
		return Value{}, &ConversionError{
			Value: v.raw, From: c.From, To: c.To, Concern: ConcernUnsupported, Err: err,
		}
	}

	return out, nil
}

// Service owns the conversion rule matrix. It is built once by NewService
// and is read-only afterwards, so it may be shared between goroutines.
// Register must only be called before the service is shared.
type Service struct {
	rules map[ConversionPair]*Converter
}

// NewService builds the rule matrix from the allowed categories. Identity
// rules are always present.
func NewService(allowed options.CategoryEnum) *Service {
	s := &Service{rules: map[ConversionPair]*Converter{}}

	for t := FieldType(1); int(t) < TypeTotal; t++ {
		if !t.IsScalar() {
			continue
		}

		s.rules[ConversionPair{t, t}] = &Converter{
			ConversionPair: ConversionPair{t, t},
			fn:             identity,
		}
	}

	for category := options.CategoryEnum(1); category&options.CategoryAll > 0; category <<= 1 {
		if allowed&category == 0 {
			continue
		}

		for _, rule := range categoryRules(category) {
			rule.Category = category
			s.rules[rule.ConversionPair] = rule
		}
	}

	return s
}

// Register installs or replaces a custom rule.
func (s *Service) Register(from, to FieldType, concerns Concern, fn ConvertFunc) {
	pair := ConversionPair{from, to}
	s.rules[pair] = &Converter{ConversionPair: pair, Concerns: concerns, fn: fn}
}

// FindConverter returns the rule for a pair.
func (s *Service) FindConverter(from, to FieldType) (*Converter, bool) {
	c, ok := s.rules[ConversionPair{from, to}]
	return c, ok
}

// Pairs returns every registered pair in a stable order.
func (s *Service) Pairs() []ConversionPair {
	return slices.SortedFunc(maps.Keys(s.rules), func(a, b ConversionPair) int {
		return cmp.Or(cmp.Compare(a.From, b.From), cmp.Compare(a.To, b.To))
	})
}

// Convert converts v to the target type. Null converts to null. A missing
// rule fails with a ConversionError tagged ConcernUnsupported.
func (s *Service) Convert(v Value, to FieldType, format string) (Value, error) {
	if v.IsNull() {
		return Value{}, nil
	}

	c, ok := s.FindConverter(v.Type(), to)
	if !ok {
		return Value{}, &ConversionError{
			Value: v.raw, From: v.Type(), To: to, Concern: ConcernUnsupported,
			Err: errors.New("no converter registered"),
		}
	}

	return c.Convert(v, format)
}

// Format renders the lexical form of v used by textual document formats.
// It uses a registered STRING rule when present and the built-in lexical
// form otherwise, so rendering works whatever categories are enabled.
func (s *Service) Format(v Value, format string) (string, error) {
	if v.IsNull() {
		return "", nil
	}

	if c, ok := s.FindConverter(v.Type(), TypeString); ok {
		out, err := c.Convert(v, format)
		if err != nil {
			return "", err
		}

		str, _ := out.raw.(string)

		return str, nil
	}

	str, err := lexical(v.typ, v.raw, format)
	if err != nil {
		return "", &ConversionError{Value: v.raw, From: v.Type(), To: TypeString, Concern: ConcernUnsupported, Err: err}
	}

	return str, nil
}

func identity(raw any, _ string) (any, error) {
	return raw, nil
}
