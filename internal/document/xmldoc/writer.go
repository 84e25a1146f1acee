package xmldoc

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"docmapper/internal/diagnostic"
	"docmapper/internal/document"
	"docmapper/internal/field"
	"docmapper/internal/fieldpath"
	"docmapper/options"
)

// Writer builds an XML document.
type Writer struct {
	opts      document.Options
	tree      *tree
	written   map[*etree.Element]struct{}
	finalized bool
	out       []byte
}

var _ document.Writer = (*Writer)(nil)

// NewWriter returns a writer, seeded with opts.Template when set.
func NewWriter(opts document.Options) (*Writer, error) {
	opts = opts.WithDefaults()

	doc := etree.NewDocument()
	if len(opts.Template) > 0 {
		if err := doc.ReadFromBytes(opts.Template); err != nil {
			return nil, &document.ParseError{Format: document.FormatXML, Err: err}
		}
	}

	return &Writer{
		opts:    opts,
		tree:    &tree{doc: doc, namespaces: opts.Namespaces},
		written: map[*etree.Element]struct{}{},
	}, nil
}

// Write injects a field or every member of a group in order.
func (w *Writer) Write(n field.Node) error {
	if w.finalized {
		return document.ErrFinalized
	}

	switch n := n.(type) {
	case *field.Field:
		return w.writeField(n)
	case *field.Group:
		for _, m := range n.Members {
			if err := w.Write(m); err != nil {
				return err
			}
		}

		return nil
	default:
		return fmt.Errorf("unsupported node %T", n)
	}
}

func (w *Writer) writeField(f *field.Field) error {
	segs, err := w.qualify(f.Path)
	if err != nil {
		return err
	}

	if len(segs) == 0 {
		return errors.New("cannot write a value at the document root")
	}

	text, err := w.opts.Converter.Format(f.Value, f.Format)
	if err != nil {
		return err
	}

	cur := w.tree.docNode()
	last := segs[len(segs)-1]

	for _, seg := range segs[:len(segs)-1] {
		if cur, _, err = document.Descend[node](w, cur, seg); err != nil {
			return err
		}
	}

	if last.Attribute {
		if w.tree.isDoc(cur) {
			return fmt.Errorf("attribute %s needs an element", f.Path)
		}

		if f.Value.IsNull() {
			return nil
		}

		cur.el.CreateAttr(w.qualifiedName(last, cur.el), text)
		w.written[cur.el] = struct{}{}

		return nil
	}

	leaf, _, err := document.Descend[node](w, cur, last)
	if err != nil {
		return err
	}

	if !f.Value.IsNull() {
		leaf.el.SetText(text)
	}

	w.written[leaf.el] = struct{}{}

	return nil
}

// qualify checks every namespace alias of p before anything is created.
// Unresolved aliases fail under the strict policy and are dropped with an
// audit warning otherwise.
func (w *Writer) qualify(p fieldpath.Path) ([]fieldpath.Segment, error) {
	segs := p.Segments(true)

	for i, seg := range segs {
		if seg.Namespace == "" || w.tree.resolve(seg.Namespace, w.tree.doc.Root()) != "" {
			continue
		}

		if w.opts.NamespacePolicy == options.NamespaceStrict {
			return nil, &document.NamespaceError{Alias: seg.Namespace, Path: p.String()}
		}

		w.opts.Logger.Warn("namespace alias not declared, writing unqualified name",
			zap.String("alias", seg.Namespace), zap.Stringer("path", p))
		w.opts.Audit.AddWarning(diagnostic.CodeNamespace,
			fmt.Sprintf("namespace alias %q is not declared, wrote %q unqualified", seg.Namespace, seg.Name),
			w.opts.DocID, p.String())

		segs[i].Namespace = ""
	}

	return segs, nil
}

// Document serializes the tree. Later calls return the same bytes.
func (w *Writer) Document() ([]byte, error) {
	if w.finalized {
		return w.out, nil
	}

	out, err := w.tree.doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serialize xml document: %w", err)
	}

	w.finalized = true
	w.out = out

	return out, nil
}

func (w *Writer) Children(parent node, seg fieldpath.Segment) []node {
	return w.tree.Children(parent, seg)
}

func (w *Writer) Names(parent node) []string {
	return w.tree.Names(parent)
}

// Append creates the element for seg after its last same named sibling.
// Under the document node it creates the root element, which must not
// exist yet.
func (w *Writer) Append(parent node, seg fieldpath.Segment) (node, error) {
	if w.tree.isDoc(parent) {
		if root := w.tree.doc.Root(); root != nil {
			return node{}, &document.RootMismatchError{
				Path:     seg.String(),
				Expected: seg.QualifiedName(),
				Actual:   root.FullTag(),
			}
		}

		el := etree.NewElement(w.qualifiedName(seg, nil))
		w.tree.doc.SetRoot(el)
		w.declare(seg, el)

		return node{el: el}, nil
	}

	el := etree.NewElement(w.qualifiedName(seg, parent.el))

	if siblings := w.tree.Children(parent, seg); len(siblings) > 0 {
		parent.el.InsertChildAt(siblings[len(siblings)-1].el.Index()+1, el)
	} else {
		parent.el.AddChild(el)
	}

	w.declare(seg, el)
	w.opts.Logger.Debug("xml element created", zap.String("tag", el.FullTag()), zap.Int("position", el.Index()))

	return node{el: el}, nil
}

// IsVacant reports placeholders created by collection growth.
func (w *Writer) IsVacant(n node) bool {
	if _, ok := w.written[n.el]; ok {
		return false
	}

	return len(n.el.Child) == 0 && len(n.el.Attr) == 0
}

func (w *Writer) qualifiedName(seg fieldpath.Segment, scope *etree.Element) string {
	if seg.Namespace == "" || w.tree.resolve(seg.Namespace, scope) == "" {
		return seg.Name
	}

	return seg.Namespace + ":" + seg.Name
}

// declare adds xmlns:alias on the root element unless the alias already
// resolves to the configured URI where el sits.
func (w *Writer) declare(seg fieldpath.Segment, el *etree.Element) {
	if seg.Namespace == "" {
		return
	}

	uri, ok := w.opts.Namespaces[seg.Namespace]
	if !ok || lookupDeclared(el, seg.Namespace) == uri {
		return
	}

	w.tree.doc.Root().CreateAttr(xmlnsPrefix+":"+seg.Namespace, uri)
}

func lookupDeclared(el *etree.Element, alias string) string {
	for e := el; e != nil; e = e.Parent() {
		for _, a := range e.Attr {
			if a.Space == xmlnsPrefix && a.Key == alias {
				return a.Value
			}
		}
	}

	return ""
}
