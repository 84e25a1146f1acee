package document

import (
	"fmt"
	"strings"

	"docmapper/internal/common"
)

// Format is a supported document format.
type Format int

const (
	FormatUnknown Format = iota
	FormatXML
	FormatJSON
	FormatYAML
)

// String returns the configuration name of the format.
func (f Format) String() string {
	switch f {
	case FormatXML:
		return "xml"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return common.UnknownStr
	}
}

// ParseFormat parses "xml", "json" or "yaml" ("yml" is accepted too).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xml":
		return FormatXML, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatUnknown, fmt.Errorf("unknown document format %q (expected xml, json or yaml)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}

	*f = parsed

	return nil
}
