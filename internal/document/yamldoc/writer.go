package yamldoc

import (
	"bytes"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"docmapper/internal/document"
	"docmapper/internal/field"
	"docmapper/internal/fieldpath"
	"docmapper/primitive"
)

const indent = 2

// Writer builds a YAML document.
type Writer struct {
	opts      document.Options
	tree      *tree
	written   map[*yaml.Node]struct{}
	finalized bool
	out       []byte
}

var _ document.Writer = (*Writer)(nil)

// NewWriter returns a writer, seeded with opts.Template when set.
func NewWriter(opts document.Options) (*Writer, error) {
	opts = opts.WithDefaults()

	var doc *yaml.Node

	if len(bytes.TrimSpace(opts.Template)) > 0 {
		var err error
		if doc, err = parse(opts.Template); err != nil {
			return nil, err
		}
	}

	return &Writer{
		opts:    opts,
		tree:    newTree(doc),
		written: map[*yaml.Node]struct{}{},
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
	segs := f.Path.Segments(true)
	if len(segs) == 0 {
		return errors.New("cannot write a value at the document root")
	}

	tag, text, err := w.render(f.Value, f.Format)
	if err != nil {
		return err
	}

	cur := w.tree.doc

	for _, seg := range segs {
		if cur, _, err = document.Descend[*yaml.Node](w, cur, seg); err != nil {
			return err
		}
	}

	cur = deref(cur)
	cur.Kind = yaml.ScalarNode
	cur.Tag = tag
	cur.Value = text
	cur.Style = 0
	cur.Content = nil
	w.written[cur] = struct{}{}

	return nil
}

// render returns the tag and lexical form of v. Dates keep the timestamp
// tag only in their default layout.
func (w *Writer) render(v primitive.Value, format string) (string, string, error) {
	if v.IsNull() {
		return tagNull, "null", nil
	}

	text, err := w.opts.Converter.Format(v, format)
	if err != nil {
		return "", "", err
	}

	switch t := v.Type(); {
	case t == primitive.TypeBoolean:
		return tagBool, text, nil
	case t.IsInteger():
		return tagInt, text, nil
	case t.IsNumber():
		return tagFloat, floatLiteral(text), nil
	case (t == primitive.TypeDate || t == primitive.TypeDateTime) && format == "":
		return tagTimestamp, text, nil
	default:
		return tagStr, text, nil
	}
}

func floatLiteral(s string) string {
	switch s {
	case "NaN":
		return ".nan"
	case "+Inf":
		return ".inf"
	case "-Inf":
		return "-.inf"
	default:
		return s
	}
}

// Document serializes the tree. Later calls return the same bytes.
func (w *Writer) Document() ([]byte, error) {
	if w.finalized {
		return w.out, nil
	}

	var buf bytes.Buffer

	if w.tree.root() != nil {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(indent)

		if err := enc.Encode(w.tree.doc); err != nil {
			return nil, fmt.Errorf("serialize yaml document: %w", err)
		}

		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("serialize yaml document: %w", err)
		}
	}

	w.finalized = true
	w.out = buf.Bytes()

	return w.out, nil
}

func (w *Writer) Children(parent *yaml.Node, seg fieldpath.Segment) []*yaml.Node {
	return w.tree.Children(parent, seg)
}

func (w *Writer) Names(parent *yaml.Node) []string {
	return w.tree.Names(parent)
}

// Append adds a null placeholder for seg. Null scalars along the way become
// mappings or sequences as the segment requires.
func (w *Writer) Append(parent *yaml.Node, seg fieldpath.Segment) (*yaml.Node, error) {
	if parent == w.tree.doc {
		want := yaml.MappingNode
		if seg.Name == "" {
			want = yaml.SequenceNode
		}

		root := w.tree.root()

		switch {
		case root == nil:
			root = placeholder()
			w.tree.doc.Content = []*yaml.Node{root}
		case root.Kind != want:
			return nil, &document.RootMismatchError{
				Path:     seg.String(),
				Expected: kindName(&yaml.Node{Kind: want}),
				Actual:   kindName(root),
			}
		}

		parent = root
	}

	parent = deref(parent)

	if seg.Name == "" {
		return w.appendItem(parent, seg)
	}

	if err := shape(parent, yaml.MappingNode, seg); err != nil {
		return nil, err
	}

	key := seg.QualifiedName()

	if !seg.IsCollection() {
		v := placeholder()
		parent.Content = append(parent.Content, keyNode(key), v)

		return v, nil
	}

	seq, ok := lookup(parent, key)
	if !ok {
		seq = placeholder()
		parent.Content = append(parent.Content, keyNode(key), seq)
	}

	return w.appendItem(seq, seg)
}

func (w *Writer) appendItem(seq *yaml.Node, seg fieldpath.Segment) (*yaml.Node, error) {
	if err := shape(seq, yaml.SequenceNode, seg); err != nil {
		return nil, err
	}

	item := placeholder()
	seq.Content = append(seq.Content, item)

	w.opts.Logger.Debug("yaml sequence grown", zap.Stringer("segment", seg), zap.Int("length", len(seq.Content)))

	return item, nil
}

// IsVacant reports placeholders created by collection growth.
func (w *Writer) IsVacant(n *yaml.Node) bool {
	if _, ok := w.written[n]; ok {
		return false
	}

	return n.Kind == yaml.ScalarNode && n.ShortTag() == tagNull
}

func placeholder() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tagNull, Value: "null"}
}

func keyNode(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tagStr, Value: key}
}

func shape(n *yaml.Node, want yaml.Kind, seg fieldpath.Segment) error {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == tagNull {
		n.Kind = want
		n.Value = ""
		n.Tag = tagMap

		if want == yaml.SequenceNode {
			n.Tag = tagSeq
		}
	}

	if n.Kind != want {
		return fmt.Errorf("segment %s needs a yaml %s, found %s", seg, kindName(&yaml.Node{Kind: want}), kindName(n))
	}

	return nil
}
