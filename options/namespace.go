package options

import (
	"fmt"
	"strings"
)

// NamespacePolicy decides what a writer does with a namespace alias it
// cannot resolve to a URI.
type NamespacePolicy int

const (
	// NamespaceTolerate writes the unqualified name and records a warning.
	NamespaceTolerate NamespacePolicy = iota
	// NamespaceStrict fails the write.
	NamespaceStrict
)

// String returns the configuration name of the policy.
func (p NamespacePolicy) String() string {
	switch p {
	case NamespaceTolerate:
		return "tolerate"
	case NamespaceStrict:
		return "strict"
	default:
		return "unknown"
	}
}

// ParseNamespacePolicy parses "tolerate" or "strict". An empty string is tolerate.
func ParseNamespacePolicy(s string) (NamespacePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tolerate":
		return NamespaceTolerate, nil
	case "strict":
		return NamespaceStrict, nil
	default:
		return NamespaceTolerate, fmt.Errorf("unknown namespace policy %q (expected 'tolerate' or 'strict')", s)
	}
}

func (p NamespacePolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *NamespacePolicy) UnmarshalText(text []byte) error {
	v, err := ParseNamespacePolicy(string(text))
	if err != nil {
		return err
	}

	*p = v

	return nil
}
