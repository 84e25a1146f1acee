package document

import (
	"docmapper/internal/fieldpath"
	"docmapper/internal/match"
)

// Tree is the view of a native document a walk needs. N is the format's
// node handle; the document itself is represented by a virtual node whose
// children are the root level nodes.
type Tree[N any] interface {
	// Children returns the nodes addressed by seg under parent in document
	// order, ignoring seg's index: every same named sibling for collection
	// segments, the matching child or attribute otherwise.
	Children(parent N, seg fieldpath.Segment) []N
	// Names lists the child and attribute names of parent, attributes
	// prefixed with "@".
	Names(parent N) []string
}

// Builder extends a Tree with the mutations a writer needs.
type Builder[N any] interface {
	Tree[N]
	// Append adds an empty node for seg under parent and returns it.
	Append(parent N, seg fieldpath.Segment) (N, error)
	// IsVacant reports whether n is an unwritten placeholder.
	IsVacant(n N) bool
}

// Match is one outcome of resolving a path. Path carries the concrete
// indexes of the walk; Found is false when the walk stopped early.
type Match[N any] struct {
	Path  fieldpath.Path
	Node  N
	Found bool
}

// Resolve walks p from root. Vacant collection segments fork the walk
// over every sibling, so the result holds one match per fork in document
// order, plus an unfound match for each fork whose continuation is missing.
// A walk that stops before a vacant segment has nothing to fork over and
// yields no match. Without vacant segments the result holds exactly one
// match.
func Resolve[N any](t Tree[N], root N, p fieldpath.Path) []Match[N] {
	states := []Match[N]{{Path: fieldpath.New(), Node: root, Found: true}}

	for _, seg := range p.Segments(true) {
		next := make([]Match[N], 0, len(states))
		vacant := seg.HasVacantIndex()

		for _, st := range states {
			if !st.Found {
				if !vacant {
					st.Path = st.Path.Append(seg)
					next = append(next, st)
				}

				continue
			}

			children := t.Children(st.Node, seg)

			switch idx, ok := seg.Index.Get(); {
			case !seg.IsCollection():
				next = append(next, step(st, seg, children, 0))
			case ok:
				next = append(next, step(st, seg, children, idx))
			default:
				for k := range children {
					next = append(next, step(st, seg.WithIndex(fieldpath.At(k)), children, k))
				}
			}
		}

		states = next
	}

	return states
}

func step[N any](st Match[N], seg fieldpath.Segment, children []N, idx int) Match[N] {
	out := Match[N]{Path: st.Path.Append(seg)}
	if idx < len(children) {
		out.Node = children[idx]
		out.Found = true
	}

	return out
}

// Descend returns the node addressed by seg under parent, creating it
// when missing. Collections grow to index+1 with empty placeholders; a
// vacant list index appends, a vacant array index reuses the first
// placeholder left by an earlier growth and appends otherwise. The
// returned index is the slot that was selected.
func Descend[N any](b Builder[N], parent N, seg fieldpath.Segment) (N, int, error) {
	children := b.Children(parent, seg)

	if !seg.IsCollection() {
		if len(children) > 0 {
			return children[0], 0, nil
		}

		n, err := b.Append(parent, seg)

		return n, 0, err
	}

	if idx, ok := seg.Index.Get(); ok {
		for len(children) <= idx {
			n, err := b.Append(parent, seg)
			if err != nil {
				var zero N
				return zero, 0, err
			}

			children = append(children, n)
		}

		return children[idx], idx, nil
	}

	if seg.Collection == fieldpath.CollectionArray {
		for k, c := range children {
			if b.IsVacant(c) {
				return c, k, nil
			}
		}
	}

	n, err := b.Append(parent, seg)

	return n, len(children), err
}

// Suggestions walks p as far as it resolves and ranks the names available
// at the first segment that does not.
func Suggestions[N any](t Tree[N], root N, p fieldpath.Path, limit int) []string {
	node := root

	for _, seg := range p.Segments(true) {
		children := t.Children(node, seg)

		idx, _ := seg.Index.Get()
		if idx >= len(children) {
			return match.Suggest(nameOf(seg), t.Names(node), limit)
		}

		node = children[idx]
	}

	return nil
}

func nameOf(seg fieldpath.Segment) string {
	if seg.Attribute {
		return "@" + seg.QualifiedName()
	}

	return seg.QualifiedName()
}
