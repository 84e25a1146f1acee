package fieldpath

import (
	"strconv"
	"strings"
)

// CollectionKind describes whether a segment addresses a collection and
// which growth semantics apply to it.
type CollectionKind int

const (
	// CollectionNone is a plain, single valued segment.
	CollectionNone CollectionKind = iota
	// CollectionArray is a fixed capacity collection written as "name[n]".
	CollectionArray
	// CollectionList is a dynamically grown collection written as "name<n>".
	CollectionList
)

// String returns a human-readable collection kind name.
func (k CollectionKind) String() string {
	switch k {
	case CollectionNone:
		return "none"
	case CollectionArray:
		return "array"
	case CollectionList:
		return "list"
	default:
		return "unknown"
	}
}

// Index is an optional collection index. The zero value is vacant.
type Index struct {
	n   int
	set bool
}

// At returns an explicit index.
func At(n int) Index {
	return Index{n: n, set: true}
}

// Get returns the index and true, or zero and false when vacant.
func (i Index) Get() (int, bool) {
	return i.n, i.set
}

// IsVacant reports whether no index is assigned.
func (i Index) IsVacant() bool {
	return !i.set
}

// String returns the index digits, or an empty string when vacant.
func (i Index) String() string {
	if !i.set {
		return ""
	}

	return strconv.Itoa(i.n)
}

// Segment is one step of a Path.
type Segment struct {
	// Name is the local element, attribute or key name. It is empty only
	// for root level collections ("/<0>").
	Name string
	// Attribute marks attribute-like access ("@name").
	Attribute bool
	// Namespace is the namespace alias ("ns" in "ns:name"), empty if none.
	Namespace string
	// Collection is the collection kind of this segment.
	Collection CollectionKind
	// Index is the collection index. Only meaningful when Collection != CollectionNone.
	Index Index
}

// IsCollection reports whether the segment addresses a collection.
func (s Segment) IsCollection() bool {
	return s.Collection != CollectionNone
}

// HasVacantIndex reports whether the segment is a collection without an index.
func (s Segment) HasVacantIndex() bool {
	return s.IsCollection() && s.Index.IsVacant()
}

// QualifiedName returns "ns:name" or just "name" when no namespace is set.
func (s Segment) QualifiedName() string {
	if s.Namespace == "" {
		return s.Name
	}

	return s.Namespace + ":" + s.Name
}

// WithIndex returns a copy of the segment with the given index. Non
// collection segments are returned unchanged.
func (s Segment) WithIndex(idx Index) Segment {
	if !s.IsCollection() {
		return s
	}

	s.Index = idx

	return s
}

// Unindexed returns a copy of the segment with a vacant index.
func (s Segment) Unindexed() Segment {
	s.Index = Index{}
	return s
}

// SameNode reports whether two segments address the same kind of node,
// ignoring the collection index.
func (s Segment) SameNode(other Segment) bool {
	return s.Name == other.Name &&
		s.Attribute == other.Attribute &&
		s.Namespace == other.Namespace &&
		s.Collection == other.Collection
}

// String serializes the segment in path syntax.
func (s Segment) String() string {
	var b strings.Builder

	if s.Attribute {
		b.WriteByte(attributeMarker)
	}

	if s.Namespace != "" {
		b.WriteString(escape(s.Namespace))
		b.WriteByte(namespaceSeparator)
	}

	b.WriteString(escape(s.Name))

	switch s.Collection {
	case CollectionNone:
	case CollectionArray:
		b.WriteByte(arrayOpen)
		b.WriteString(s.Index.String())
		b.WriteByte(arrayClose)
	case CollectionList:
		b.WriteByte(listOpen)
		b.WriteString(s.Index.String())
		b.WriteByte(listClose)
	}

	return b.String()
}

func escape(name string) string {
	if !strings.ContainsAny(name, reservedChars) {
		return name
	}

	var b strings.Builder

	b.Grow(len(name) + 2)

	for _, r := range name {
		if strings.ContainsRune(reservedChars, r) {
			b.WriteByte(escapeChar)
		}

		b.WriteRune(r)
	}

	return b.String()
}
