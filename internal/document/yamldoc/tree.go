// Package yamldoc reads and writes YAML documents through yaml.v3 nodes.
//
// Addressing follows the JSON rules: the first segment is a key of the
// root mapping, an unnamed collection segment addresses a root level
// sequence and "alias:name" is the literal key. Scalars keep their YAML
// tags, so plain integers, floats, booleans and timestamps are read with
// their native types. Comments of a template document survive writes.
package yamldoc

import (
	"gopkg.in/yaml.v3"

	"docmapper/internal/fieldpath"
)

const (
	tagNull      = "!!null"
	tagBool      = "!!bool"
	tagInt       = "!!int"
	tagFloat     = "!!float"
	tagStr       = "!!str"
	tagTimestamp = "!!timestamp"
	tagMap       = "!!map"
	tagSeq       = "!!seq"
)

// tree navigates a document node. The document node is the virtual root
// whose only content is the root value.
type tree struct {
	doc *yaml.Node
}

func newTree(doc *yaml.Node) *tree {
	if doc == nil || doc.Kind != yaml.DocumentNode {
		doc = &yaml.Node{Kind: yaml.DocumentNode}
	}

	return &tree{doc: doc}
}

func (t *tree) root() *yaml.Node {
	if len(t.doc.Content) == 0 {
		return nil
	}

	return deref(t.doc.Content[0])
}

func (t *tree) container(n *yaml.Node) *yaml.Node {
	if n == t.doc {
		return t.root()
	}

	return deref(n)
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}

	return n
}

// lookup returns the value of key in a mapping node.
func lookup(m *yaml.Node, key string) (*yaml.Node, bool) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return deref(m.Content[i+1]), true
		}
	}

	return nil, false
}

func (t *tree) Children(parent *yaml.Node, seg fieldpath.Segment) []*yaml.Node {
	c := t.container(parent)
	if c == nil {
		return nil
	}

	if seg.Name == "" {
		if seg.IsCollection() && c.Kind == yaml.SequenceNode {
			return c.Content
		}

		return nil
	}

	if c.Kind != yaml.MappingNode {
		return nil
	}

	v, ok := lookup(c, seg.QualifiedName())

	switch {
	case !ok:
		return nil
	case !seg.IsCollection():
		return []*yaml.Node{v}
	case v.Kind == yaml.SequenceNode:
		return v.Content
	default:
		return nil
	}
}

func (t *tree) Names(parent *yaml.Node) []string {
	c := t.container(parent)
	if c == nil || c.Kind != yaml.MappingNode {
		return nil
	}

	out := make([]string, 0, len(c.Content)/2)
	for i := 0; i+1 < len(c.Content); i += 2 {
		out = append(out, c.Content[i].Value)
	}

	return out
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar " + n.ShortTag()
	default:
		return "node"
	}
}
