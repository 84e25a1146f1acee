package jsondoc

import (
	"bytes"

	"github.com/valyala/fastjson"
	"go.uber.org/zap"

	"docmapper/internal/diagnostic"
	"docmapper/internal/document"
	"docmapper/internal/field"
	"docmapper/internal/fieldpath"
	"docmapper/primitive"
)

// Reader resolves paths against a JSON document.
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
		r.opts.Logger.Warn("json source document is absent", zap.String("doc", r.opts.DocID))
		r.opts.Audit.AddWarning(diagnostic.CodeMissingDocument, "source document is absent", r.opts.DocID, "")

		return nil
	}

	root, err := parse(raw)
	if err != nil {
		return &document.ParseError{Format: document.FormatJSON, Err: err}
	}

	r.tree = newTree(root)

	return nil
}

// Read resolves f.Path. See document.Reader.
func (r *Reader) Read(f *field.Field) (field.Node, error) {
	if !r.loaded {
		return nil, document.ErrNotLoaded
	}

	if r.tree == nil {
		return document.ReadAll[*node](r.opts, f, nil, nil)
	}

	matches := document.Resolve[*node](r.tree, r.tree.doc, f.Path)

	return document.ReadAll(r.opts, f, matches, r.value)
}

// Suggest lists names close to the first segment of p that does not resolve.
func (r *Reader) Suggest(p fieldpath.Path, limit int) []string {
	if r.tree == nil {
		return nil
	}

	return document.Suggestions[*node](r.tree, r.tree.doc, p, limit)
}

func (r *Reader) value(n *node, f *field.Field) (primitive.Value, primitive.FieldType) {
	switch n.kind() {
	case fastjson.TypeTrue, fastjson.TypeFalse:
		return primitive.Bool(n.kind() == fastjson.TypeTrue), primitive.TypeBoolean
	case fastjson.TypeString:
		text, _ := n.val.StringBytes()
		return primitive.String(string(text)), primitive.TypeString
	case fastjson.TypeNumber:
		literal := string(n.val.MarshalTo(nil))

		v, err := primitive.InferNumber(literal)
		if err != nil {
			r.opts.Logger.Warn("json number not representable, reading it as text",
				zap.String("literal", literal), zap.Stringer("path", f.Path), zap.Error(err))

			return primitive.String(literal), primitive.TypeString
		}

		return v, v.Type()
	case fastjson.TypeObject, fastjson.TypeArray:
		return primitive.Value{}, primitive.TypeComplex
	default:
		return primitive.Value{}, f.Type
	}
}
