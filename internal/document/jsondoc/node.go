// Package jsondoc reads and writes JSON documents.
//
// Documents are held as fastjson values, whose objects keep key order and
// whose numbers keep their literal text, so a template survives a
// read-modify-write cycle. The first path segment addresses a key of the
// root object; a first segment with an empty name and a collection marker
// ("/<0>/x") addresses a root level array. Attribute segments are plain
// keys and "alias:name" segments address the literal key "alias:name".
package jsondoc

import (
	"github.com/valyala/fastjson"
)

// node is the value stored in one slot of a container: under key in an
// object parent, or at index in an array parent. fastjson values cannot
// change type, so a placeholder is replaced in its parent rather than
// mutated.
type node struct {
	parent *fastjson.Value
	key    string
	index  int
	val    *fastjson.Value
}

// slot identifies a container position independently of the handle.
type slot struct {
	parent *fastjson.Value
	key    string
	index  int
}

func member(parent *fastjson.Value, key string, val *fastjson.Value) *node {
	return &node{parent: parent, key: key, index: -1, val: val}
}

func item(parent *fastjson.Value, index int, val *fastjson.Value) *node {
	return &node{parent: parent, index: index, val: val}
}

func (n *node) slot() slot {
	return slot{parent: n.parent, key: n.key, index: n.index}
}

func (n *node) kind() fastjson.Type {
	return n.val.Type()
}

// items returns handles for every element of arr.
func items(arr *fastjson.Value) []*node {
	vs, err := arr.Array()
	if err != nil {
		return nil
	}

	out := make([]*node, len(vs))
	for i, v := range vs {
		out[i] = item(arr, i, v)
	}

	return out
}

// parse decodes exactly one JSON value.
func parse(raw []byte) (*fastjson.Value, error) {
	var p fastjson.Parser

	return p.ParseBytes(raw)
}
