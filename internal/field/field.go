// Package field is the in-memory field graph exchanged between document
// readers, the conversion service and document writers.
package field

import (
	"maps"

	"docmapper/internal/fieldpath"
	"docmapper/primitive"
)

// Node is either a *Field or a *Group.
type Node interface {
	node()
}

// Metadata carries format specific details of a field.
type Metadata struct {
	// NamespaceURI is the resolved namespace of the last segment (XML).
	NamespaceURI string
	// Labels are free format annotations.
	Labels map[string]string
}

func (m Metadata) clone() Metadata {
	m.Labels = maps.Clone(m.Labels)
	return m
}

// Field is a leaf value addressed by a path.
type Field struct {
	Path fieldpath.Path
	// Type is the declared or inferred type; zero means undeclared.
	Type  primitive.FieldType
	Value primitive.Value
	DocID string
	// Format is a lexical layout used when converting (e.g. a date layout).
	Format string
	Meta   Metadata
}

func (*Field) node() {}

// New returns a field addressed by path in the given document.
func New(docID string, path fieldpath.Path) *Field {
	return &Field{DocID: docID, Path: path}
}

// SetValue stores v and its type. A null v keeps the declared type.
func (f *Field) SetValue(v primitive.Value) {
	f.Value = v
	if !v.IsNull() {
		f.Type = v.Type()
	}
}

// Clone returns a copy that shares nothing mutable with f.
func (f *Field) Clone() *Field {
	out := *f
	out.Meta = f.Meta.clone()

	return &out
}

// Group is an ordered collection of nodes sharing an unindexed base path.
// Members carry concrete paths and keep source discovery order.
type Group struct {
	// Path is the base path, typically with vacant collection indexes.
	Path    fieldpath.Path
	Type    primitive.FieldType
	DocID   string
	Format  string
	Meta    Metadata
	Members []Node
}

func (*Group) node() {}

// NewGroupFrom stamps an empty group carrying the template's document,
// type and path. Metadata labels are copied when deepCopyMeta is set and
// shared otherwise.
func NewGroupFrom(template *Field, deepCopyMeta bool) *Group {
	meta := template.Meta
	if deepCopyMeta {
		meta = meta.clone()
	}

	return &Group{
		Path:   template.Path,
		Type:   template.Type,
		DocID:  template.DocID,
		Format: template.Format,
		Meta:   meta,
	}
}

// Add appends members in order.
func (g *Group) Add(members ...Node) {
	g.Members = append(g.Members, members...)
}

// Len returns the number of direct members.
func (g *Group) Len() int {
	return len(g.Members)
}

// PathOf returns the path of a node.
func PathOf(n Node) fieldpath.Path {
	switch n := n.(type) {
	case *Field:
		return n.Path
	case *Group:
		return n.Path
	default:
		return fieldpath.Path{}
	}
}

// DocIDOf returns the document of a node.
func DocIDOf(n Node) string {
	switch n := n.(type) {
	case *Field:
		return n.DocID
	case *Group:
		return n.DocID
	default:
		return ""
	}
}

// Leaves flattens a node into its fields in depth first order.
func Leaves(n Node) []*Field {
	switch n := n.(type) {
	case *Field:
		return []*Field{n}
	case *Group:
		var out []*Field
		for _, m := range n.Members {
			out = append(out, Leaves(m)...)
		}

		return out
	default:
		return nil
	}
}

// ExtractChildren resolves a relative sub path against an already resolved
// node. A leaf matches when its path is the node path joined with sub,
// explicit indexes of sub must match and vacant ones match any index.
// One hit is returned as a *Field, several as a *Group in discovery order.
func ExtractChildren(n Node, sub fieldpath.Path) (Node, bool) {
	base := PathOf(n)
	if g, ok := n.(*Group); ok {
		base = g.Path.Unindexed()
	}

	var hits []*Field

	for _, leaf := range Leaves(n) {
		if leafMatches(leaf.Path, base, sub) {
			hits = append(hits, leaf)
		}
	}

	switch len(hits) {
	case 0:
		return nil, false
	case 1:
		return hits[0], true
	}

	group := &Group{
		Path:  base.Join(sub),
		Type:  hits[0].Type,
		DocID: DocIDOf(n),
	}

	for _, h := range hits {
		group.Add(h)
	}

	return group, true
}

// leafMatches checks that path is base followed by sub. base is compared
// by node only, since group members carry concrete indexes.
func leafMatches(path, base, sub fieldpath.Path) bool {
	if path.Len() != base.Len()+sub.Len() {
		return false
	}

	for i := range base.Len() {
		if !path.Segment(i).SameNode(base.Segment(i)) {
			return false
		}
	}

	tail := fieldpath.NewRelative(path.Segments(true)[base.Len():]...)

	return tail.Matches(sub)
}
