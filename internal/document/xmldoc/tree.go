// Package xmldoc reads and writes XML documents through an etree DOM.
//
// Path segments address elements by local name, "@name" addresses an
// attribute and "alias:name" an element or attribute in the namespace the
// alias resolves to. Collection segments address repeated sibling
// elements. Element text is read as STRING unless the field declares a
// type.
package xmldoc

import (
	"github.com/beevik/etree"

	"docmapper/internal/fieldpath"
)

const xmlnsPrefix = "xmlns"

// node is an element or one of its attributes.
type node struct {
	el   *etree.Element
	attr *etree.Attr
}

// tree navigates a document. The document's own pseudo element is the
// virtual root whose only child element is the root element.
type tree struct {
	doc        *etree.Document
	namespaces map[string]string
}

func (t *tree) docNode() node {
	return node{el: &t.doc.Element}
}

func (t *tree) isDoc(n node) bool {
	return n.el == &t.doc.Element
}

// resolve returns the URI of alias: configured aliases first, then the
// declarations in scope of el.
func (t *tree) resolve(alias string, el *etree.Element) string {
	if uri, ok := t.namespaces[alias]; ok {
		return uri
	}

	for e := el; e != nil; e = e.Parent() {
		for _, a := range e.Attr {
			if a.Space == xmlnsPrefix && a.Key == alias {
				return a.Value
			}
		}
	}

	return ""
}

// matches compares a name against seg. Unqualified segments match any
// namespace; qualified ones compare URIs when the alias resolves and the
// literal prefix otherwise.
func (t *tree) matches(space, local string, uri func() string, scope *etree.Element, seg fieldpath.Segment) bool {
	if local != seg.Name {
		return false
	}

	if seg.Namespace == "" {
		return true
	}

	if want := t.resolve(seg.Namespace, scope); want != "" {
		return uri() == want
	}

	return space == seg.Namespace
}

func (t *tree) Children(parent node, seg fieldpath.Segment) []node {
	if parent.attr != nil {
		return nil
	}

	if seg.Attribute {
		for i := range parent.el.Attr {
			a := &parent.el.Attr[i]
			if isDeclaration(a) {
				continue
			}

			if t.matches(a.Space, a.Key, a.NamespaceURI, parent.el, seg) {
				return []node{{el: parent.el, attr: a}}
			}
		}

		return nil
	}

	var out []node

	for _, c := range parent.el.ChildElements() {
		if t.matches(c.Space, c.Tag, c.NamespaceURI, c, seg) {
			out = append(out, node{el: c})
		}
	}

	return out
}

func (t *tree) Names(parent node) []string {
	if parent.attr != nil {
		return nil
	}

	var out []string

	for i := range parent.el.Attr {
		if a := &parent.el.Attr[i]; !isDeclaration(a) {
			out = append(out, "@"+a.FullKey())
		}
	}

	for _, c := range parent.el.ChildElements() {
		out = append(out, c.FullTag())
	}

	return out
}

func isDeclaration(a *etree.Attr) bool {
	return a.Space == xmlnsPrefix || (a.Space == "" && a.Key == xmlnsPrefix)
}
