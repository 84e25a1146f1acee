package jsondoc

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/valyala/fastjson"
	"go.uber.org/zap"

	"docmapper/internal/document"
	"docmapper/internal/field"
	"docmapper/primitive"
)

// Writer builds a JSON document.
type Writer struct {
	opts      document.Options
	tree      *tree
	finalized bool
	out       []byte
}

var _ document.Writer = (*Writer)(nil)

// NewWriter returns a writer, seeded with opts.Template when set.
func NewWriter(opts document.Options) (*Writer, error) {
	opts = opts.WithDefaults()

	var root *fastjson.Value

	if len(bytes.TrimSpace(opts.Template)) > 0 {
		var err error
		if root, err = parse(opts.Template); err != nil {
			return nil, &document.ParseError{Format: document.FormatJSON, Err: err}
		}
	}

	return &Writer{opts: opts, tree: newTree(root)}, nil
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
	segs := f.Path.Segments(true)
	if len(segs) == 0 {
		return errors.New("cannot write a value at the document root")
	}

	val, err := w.render(f.Value, f.Format)
	if err != nil {
		return err
	}

	cur := w.tree.doc

	for _, seg := range segs {
		if cur, _, err = document.Descend[*node](w.tree, cur, seg); err != nil {
			return err
		}
	}

	w.tree.store(cur, val)

	w.opts.Logger.Debug("json value written", zap.Stringer("path", f.Path), zap.Stringer("kind", val.Type()))

	return nil
}

// render maps a typed value to its JSON form: booleans and finite numbers
// natively, everything else as a string.
func (w *Writer) render(v primitive.Value, format string) (*fastjson.Value, error) {
	a := &w.tree.arena

	if v.IsNull() {
		return a.NewNull(), nil
	}

	if b, ok := v.Raw().(bool); ok {
		if b {
			return a.NewTrue(), nil
		}

		return a.NewFalse(), nil
	}

	text, err := w.opts.Converter.Format(v, format)
	if err != nil {
		return nil, err
	}

	if v.Type().IsNumber() && isNumberLiteral(text) {
		return a.NewNumberString(text), nil
	}

	return a.NewString(text), nil
}

func isNumberLiteral(s string) bool {
	if s == "" || (s[0] != '-' && (s[0] < '0' || s[0] > '9')) {
		return false
	}

	return fastjson.Validate(s) == nil
}

// Document serializes the tree. Later calls return the same bytes.
func (w *Writer) Document() ([]byte, error) {
	if w.finalized {
		return w.out, nil
	}

	var out []byte

	if w.tree.root != nil {
		out = w.tree.root.MarshalTo(nil)
	}

	w.finalized = true
	w.out = out

	return w.out, nil
}
