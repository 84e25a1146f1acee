package mapping

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"docmapper/internal/common"
)

// --- StringOrArray YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
// Accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("line %d: expected string or array", node.Line)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if common.IsSingle(s) {
		return s[0], nil
	}

	return []string(s), nil
}

// First returns the first element or empty string if empty.
func (s StringOrArray) First() string {
	if v, ok := common.First(s); ok {
		return v
	}

	return ""
}

// IsEmpty returns true if the array is empty.
func (s StringOrArray) IsEmpty() bool {
	return common.IsEmpty(s)
}

// IsMultiple returns true if the array has more than one element.
func (s StringOrArray) IsMultiple() bool {
	return common.IsMultiple(s)
}

// Contains returns true if the array contains the given string.
func (s StringOrArray) Contains(str string) bool {
	return slices.Contains(s, str)
}

// --- OrderedPairs YAML methods ---

// UnmarshalYAML reads a mapping node keeping its key order.
func (p *OrderedPairs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of source path to target path", node.Line)
	}

	out := make(OrderedPairs, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		var source, target string

		if err := node.Content[i].Decode(&source); err != nil {
			return err
		}

		if err := node.Content[i+1].Decode(&target); err != nil {
			return err
		}

		out = append(out, Pair{Source: source, Target: target})
	}

	*p = out

	return nil
}

// MarshalYAML writes the pairs as an ordered mapping node.
func (p OrderedPairs) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, pair := range p {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: pair.Source},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: pair.Target},
		)
	}

	return node, nil
}
