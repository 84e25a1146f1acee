package xmldoc

import (
	"bytes"
	"errors"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"docmapper/internal/diagnostic"
	"docmapper/internal/document"
	"docmapper/internal/field"
	"docmapper/internal/fieldpath"
	"docmapper/primitive"
)

// Reader resolves paths against an XML document.
type Reader struct {
	opts   document.Options
	tree   *tree
	loaded bool
}

var (
	_ document.Reader    = (*Reader)(nil)
	_ document.Suggester = (*Reader)(nil)
)

func NewReader(opts document.Options) *Reader {
	return &Reader{opts: opts.WithDefaults()}
}

// SetDocument parses raw. Empty input marks the document absent.
func (r *Reader) SetDocument(raw []byte) error {
	r.loaded = true
	r.tree = nil

	if len(bytes.TrimSpace(raw)) == 0 {
		r.opts.Logger.Warn("xml source document is absent", zap.String("doc", r.opts.DocID))
		r.opts.Audit.AddWarning(diagnostic.CodeMissingDocument, "source document is absent", r.opts.DocID, "")

		return nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return &document.ParseError{Format: document.FormatXML, Err: err}
	}

	if doc.Root() == nil {
		return &document.ParseError{Format: document.FormatXML, Err: errors.New("no root element")}
	}

	r.tree = &tree{doc: doc, namespaces: r.opts.Namespaces}

	return nil
}

// Read resolves f.Path. See document.Reader.
func (r *Reader) Read(f *field.Field) (field.Node, error) {
	if !r.loaded {
		return nil, document.ErrNotLoaded
	}

	if r.tree == nil {
		return document.ReadAll[node](r.opts, f, nil, nil)
	}

	matches := document.Resolve[node](r.tree, r.tree.docNode(), f.Path)

	return document.ReadAll(r.opts, f, matches, r.value)
}

// Suggest lists names close to the first segment of p that does not resolve.
func (r *Reader) Suggest(p fieldpath.Path, limit int) []string {
	if r.tree == nil {
		return nil
	}

	return document.Suggestions[node](r.tree, r.tree.docNode(), p, limit)
}

func (r *Reader) value(n node, f *field.Field) (primitive.Value, primitive.FieldType) {
	if n.attr != nil {
		f.Meta.NamespaceURI = n.attr.NamespaceURI()
		return primitive.String(n.attr.Value), primitive.TypeString
	}

	f.Meta.NamespaceURI = n.el.NamespaceURI()

	if len(n.el.ChildElements()) > 0 {
		return primitive.Value{}, primitive.TypeComplex
	}

	text := n.el.Text()
	if text == "" {
		return primitive.Value{}, primitive.TypeString
	}

	return primitive.String(text), primitive.TypeString
}
