package fieldpath

import (
	"fmt"
	"slices"
	"strings"
)

// Path is a parsed field address. The zero value is the absolute root "/".
type Path struct {
	segments []Segment
	relative bool
}

// New builds an absolute path from segments.
func New(segments ...Segment) Path {
	return Path{segments: slices.Clone(segments)}
}

// NewRelative builds a relative path from segments.
func NewRelative(segments ...Segment) Path {
	return Path{segments: slices.Clone(segments), relative: true}
}

// String serializes the path. It is the inverse of Parse.
func (p Path) String() string {
	parts := make([]string, len(p.segments))
	for i, seg := range p.segments {
		parts[i] = seg.String()
	}

	joined := strings.Join(parts, string(Separator))
	if p.relative {
		return joined
	}

	return string(Separator) + joined
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// IsRelative reports whether the path has no leading separator.
func (p Path) IsRelative() bool {
	return p.relative
}

// IsRoot reports whether the path is the absolute document root.
func (p Path) IsRoot() bool {
	return !p.relative && len(p.segments) == 0
}

// Segment returns the segment at position i.
func (p Path) Segment(i int) Segment {
	return p.segments[i]
}

// Segments returns a copy of the segments, optionally dropping attribute segments.
func (p Path) Segments(includeAttributes bool) []Segment {
	out := make([]Segment, 0, len(p.segments))
	for _, seg := range p.segments {
		if seg.Attribute && !includeAttributes {
			continue
		}

		out = append(out, seg)
	}

	return out
}

// First returns the first segment.
func (p Path) First() (Segment, bool) {
	if len(p.segments) == 0 {
		return Segment{}, false
	}

	return p.segments[0], true
}

// Last returns the last segment.
func (p Path) Last() (Segment, bool) {
	if len(p.segments) == 0 {
		return Segment{}, false
	}

	return p.segments[len(p.segments)-1], true
}

// Parent returns the path without its last segment. The parent of the
// root is the root.
func (p Path) Parent() Path {
	if len(p.segments) == 0 {
		return p
	}

	return Path{segments: slices.Clone(p.segments[:len(p.segments)-1]), relative: p.relative}
}

// Append returns a new path with the given segments appended.
func (p Path) Append(segs ...Segment) Path {
	out := make([]Segment, 0, len(p.segments)+len(segs))
	out = append(out, p.segments...)
	out = append(out, segs...)

	return Path{segments: out, relative: p.relative}
}

// Join appends the segments of a relative path.
func (p Path) Join(rel Path) Path {
	return p.Append(rel.segments...)
}

// Unindexed returns the path with every collection index vacant.
func (p Path) Unindexed() Path {
	out := make([]Segment, len(p.segments))
	for i, seg := range p.segments {
		out[i] = seg.Unindexed()
	}

	return Path{segments: out, relative: p.relative}
}

// HasVacantIndex reports whether any collection segment has no index.
func (p Path) HasVacantIndex() bool {
	return slices.ContainsFunc(p.segments, Segment.HasVacantIndex)
}

// IsIndexed reports whether every collection segment carries an index.
func (p Path) IsIndexed() bool {
	return !p.HasVacantIndex()
}

// CollectionPositions returns the positions of collection segments.
func (p Path) CollectionPositions() []int {
	var out []int

	for i, seg := range p.segments {
		if seg.IsCollection() {
			out = append(out, i)
		}
	}

	return out
}

// CollectionCount returns the number of collection segments.
func (p Path) CollectionCount() int {
	return len(p.CollectionPositions())
}

// SetCollectionIndex returns a new path whose segment at pos carries idx.
func (p Path) SetCollectionIndex(pos int, idx Index) (Path, error) {
	if pos < 0 || pos >= len(p.segments) {
		return Path{}, fmt.Errorf("segment position %d out of range for %q", pos, p)
	}

	if !p.segments[pos].IsCollection() {
		return Path{}, fmt.Errorf("segment %d of %q is not a collection", pos, p)
	}

	out := slices.Clone(p.segments)
	out[pos] = out[pos].WithIndex(idx)

	return Path{segments: out, relative: p.relative}, nil
}

// SetVacantCollectionIndex assigns n to the first collection segment that
// has no index. It returns false when every collection segment is indexed.
func (p Path) SetVacantCollectionIndex(n int) (Path, bool) {
	for i, seg := range p.segments {
		if !seg.HasVacantIndex() {
			continue
		}

		out := slices.Clone(p.segments)
		out[i] = seg.WithIndex(At(n))

		return Path{segments: out, relative: p.relative}, true
	}

	return p, false
}

// Equal reports whether two paths are identical, including indexes.
func (p Path) Equal(other Path) bool {
	return p.relative == other.relative && slices.Equal(p.segments, other.segments)
}

// Matches reports whether p is addressed by pattern: same length, same
// nodes, and every explicit pattern index equal to p's index. Vacant
// pattern indexes match anything.
func (p Path) Matches(pattern Path) bool {
	if len(p.segments) != len(pattern.segments) {
		return false
	}

	for i, seg := range pattern.segments {
		own := p.segments[i]
		if !own.SameNode(seg) {
			return false
		}

		if want, ok := seg.Index.Get(); ok {
			if got, ok := own.Index.Get(); !ok || got != want {
				return false
			}
		}
	}

	return true
}

// HasPrefix reports whether the leading segments of p match prefix
// under the same rules as Matches.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix.segments) > len(p.segments) || p.relative != prefix.relative {
		return false
	}

	head := Path{segments: p.segments[:len(prefix.segments)], relative: p.relative}

	return head.Matches(prefix)
}
