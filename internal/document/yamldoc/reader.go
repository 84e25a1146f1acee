package yamldoc

import (
	"bytes"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"docmapper/internal/diagnostic"
	"docmapper/internal/document"
	"docmapper/internal/field"
	"docmapper/internal/fieldpath"
	"docmapper/primitive"
)

// Reader resolves paths against a YAML document.
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

// SetDocument parses the first document of raw. Empty input marks the
// document absent.
func (r *Reader) SetDocument(raw []byte) error {
	r.loaded = true
	r.tree = nil

	if len(bytes.TrimSpace(raw)) == 0 {
		r.opts.Logger.Warn("yaml source document is absent", zap.String("doc", r.opts.DocID))
		r.opts.Audit.AddWarning(diagnostic.CodeMissingDocument, "source document is absent", r.opts.DocID, "")

		return nil
	}

	doc, err := parse(raw)
	if err != nil {
		return err
	}

	r.tree = newTree(doc)

	return nil
}

func parse(raw []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &document.ParseError{Format: document.FormatYAML, Err: err}
	}

	return &doc, nil
}

// Read resolves f.Path. See document.Reader.
func (r *Reader) Read(f *field.Field) (field.Node, error) {
	if !r.loaded {
		return nil, document.ErrNotLoaded
	}

	if r.tree == nil {
		return document.ReadAll[*yaml.Node](r.opts, f, nil, nil)
	}

	matches := document.Resolve[*yaml.Node](r.tree, r.tree.doc, f.Path)

	return document.ReadAll(r.opts, f, matches, r.value)
}

// Suggest lists names close to the first segment of p that does not resolve.
func (r *Reader) Suggest(p fieldpath.Path, limit int) []string {
	if r.tree == nil {
		return nil
	}

	return document.Suggestions[*yaml.Node](r.tree, r.tree.doc, p, limit)
}

// value maps a node to its native value by resolved tag. Scalars whose
// tag cannot be decoded fall back to their text.
func (r *Reader) value(n *yaml.Node, f *field.Field) (primitive.Value, primitive.FieldType) {
	n = deref(n)

	if n.Kind != yaml.ScalarNode {
		return primitive.Value{}, primitive.TypeComplex
	}

	switch n.ShortTag() {
	case tagNull:
		return primitive.Value{}, f.Type
	case tagBool:
		var b bool
		if n.Decode(&b) == nil {
			return primitive.Bool(b), primitive.TypeBoolean
		}
	case tagInt:
		var i int64
		if n.Decode(&i) == nil {
			if int64(int32(i)) == i {
				return primitive.Int(int32(i)), primitive.TypeInteger
			}

			return primitive.Long(i), primitive.TypeLong
		}

		if b, ok := new(big.Int).SetString(strings.ReplaceAll(n.Value, "_", ""), 0); ok {
			return primitive.BigInt(b), primitive.TypeBigInteger
		}
	case tagFloat:
		var x float64
		if n.Decode(&x) == nil {
			return primitive.Double(x), primitive.TypeDouble
		}
	case tagTimestamp:
		var t time.Time
		if n.Decode(&t) == nil {
			if strings.ContainsAny(n.Value, "tT ") {
				return primitive.DateTime(t), primitive.TypeDateTime
			}

			return primitive.Date(t), primitive.TypeDate
		}
	}

	if n.ShortTag() != tagStr {
		r.opts.Logger.Debug("yaml scalar read as text",
			zap.String("tag", n.ShortTag()), zap.Stringer("path", f.Path))
	}

	return primitive.String(n.Value), primitive.TypeString
}
