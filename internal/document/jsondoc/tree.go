package jsondoc

import (
	"fmt"

	"github.com/valyala/fastjson"

	"docmapper/internal/document"
	"docmapper/internal/fieldpath"
)

// tree navigates a document through a virtual document node whose only
// child is root.
type tree struct {
	doc   *node
	root  *fastjson.Value
	arena fastjson.Arena
	// vacant holds the array slots grown as placeholders and not yet written.
	vacant map[slot]struct{}
}

func newTree(root *fastjson.Value) *tree {
	return &tree{doc: &node{index: -1}, root: root, vacant: map[slot]struct{}{}}
}

func (t *tree) container(n *node) *fastjson.Value {
	if n == t.doc {
		return t.root
	}

	return n.val
}

func (t *tree) Children(parent *node, seg fieldpath.Segment) []*node {
	c := t.container(parent)
	if c == nil {
		return nil
	}

	if seg.Name == "" {
		if seg.IsCollection() && c.Type() == fastjson.TypeArray {
			return items(c)
		}

		return nil
	}

	if c.Type() != fastjson.TypeObject {
		return nil
	}

	key := seg.QualifiedName()
	v := c.Get(key)

	switch {
	case v == nil:
		return nil
	case !seg.IsCollection():
		return []*node{member(c, key, v)}
	case v.Type() == fastjson.TypeArray:
		return items(v)
	default:
		return nil
	}
}

func (t *tree) Names(parent *node) []string {
	c := t.container(parent)
	if c == nil || c.Type() != fastjson.TypeObject {
		return nil
	}

	obj, err := c.Object()
	if err != nil {
		return nil
	}

	out := make([]string, 0, obj.Len())
	obj.Visit(func(key []byte, _ *fastjson.Value) {
		out = append(out, string(key))
	})

	return out
}

// Append adds a null placeholder for seg. Null containers along the way
// become objects or arrays as the segment requires.
func (t *tree) Append(parent *node, seg fieldpath.Segment) (*node, error) {
	want := fastjson.TypeObject
	if seg.Name == "" {
		want = fastjson.TypeArray
	}

	c, err := t.containerFor(parent, want, seg)
	if err != nil {
		return nil, err
	}

	if seg.Name == "" {
		return t.push(c), nil
	}

	key := seg.QualifiedName()

	if !seg.IsCollection() {
		n := member(c, key, t.arena.NewNull())
		c.Set(key, n.val)

		return n, nil
	}

	arr := member(c, key, c.Get(key))
	if arr.val == nil {
		arr.val = t.arena.NewNull()
	}

	if err := t.shape(arr, fastjson.TypeArray, seg); err != nil {
		return nil, err
	}

	return t.push(arr.val), nil
}

func (t *tree) containerFor(parent *node, want fastjson.Type, seg fieldpath.Segment) (*fastjson.Value, error) {
	if parent != t.doc {
		if err := t.shape(parent, want, seg); err != nil {
			return nil, err
		}

		return parent.val, nil
	}

	switch {
	case t.root == nil:
		t.root = t.newContainer(want)
	case t.root.Type() != want:
		return nil, &document.RootMismatchError{Path: seg.String(), Expected: want.String(), Actual: t.root.Type().String()}
	}

	return t.root, nil
}

// shape turns a null n into an empty container of kind want.
func (t *tree) shape(n *node, want fastjson.Type, seg fieldpath.Segment) error {
	if n.kind() == fastjson.TypeNull {
		t.store(n, t.newContainer(want))
	}

	if n.kind() != want {
		return fmt.Errorf("segment %s needs a JSON %s, found %s", seg, want, n.kind())
	}

	return nil
}

func (t *tree) newContainer(want fastjson.Type) *fastjson.Value {
	if want == fastjson.TypeArray {
		return t.arena.NewArray()
	}

	return t.arena.NewObject()
}

// push appends a placeholder element to arr.
func (t *tree) push(arr *fastjson.Value) *node {
	vs, _ := arr.Array()
	n := item(arr, len(vs), t.arena.NewNull())

	arr.SetArrayItem(n.index, n.val)
	t.vacant[n.slot()] = struct{}{}

	return n
}

// store replaces the value held by n's slot.
func (t *tree) store(n *node, v *fastjson.Value) {
	if n.index >= 0 {
		n.parent.SetArrayItem(n.index, v)
	} else {
		n.parent.Set(n.key, v)
	}

	n.val = v
	delete(t.vacant, n.slot())
}

// IsVacant reports placeholders created by collection growth.
func (t *tree) IsVacant(n *node) bool {
	if n.kind() != fastjson.TypeNull {
		return false
	}

	_, ok := t.vacant[n.slot()]

	return ok
}
