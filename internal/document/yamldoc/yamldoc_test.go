package yamldoc

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmapper/internal/diagnostic"
	"docmapper/internal/document"
	"docmapper/internal/field"
	"docmapper/internal/fieldpath"
	"docmapper/primitive"
)

func newField(path string, v primitive.Value) *field.Field {
	f := field.New("doc", fieldpath.MustParse(path))
	f.SetValue(v)

	return f
}

func newWriter(t *testing.T, template string) *Writer {
	t.Helper()

	w, err := NewWriter(document.Options{Template: []byte(template)})
	require.NoError(t, err)

	return w
}

func newReader(t *testing.T, raw string) *Reader {
	t.Helper()

	r := NewReader(document.Options{})
	require.NoError(t, r.SetDocument([]byte(raw)))

	return r
}

func serialize(t *testing.T, w *Writer) string {
	t.Helper()

	out, err := w.Document()
	require.NoError(t, err)

	return string(out)
}

func readField(t *testing.T, r *Reader, path string, typ primitive.FieldType) *field.Field {
	t.Helper()

	f := field.New("src", fieldpath.MustParse(path))
	f.Type = typ

	got, err := r.Read(f)
	require.NoError(t, err)

	return got.(*field.Field)
}

func TestWriter_FlatPrimitive(t *testing.T) {
	t.Parallel()

	w := newWriter(t, "")
	require.NoError(t, w.Write(newField("/YamlFPE/intField", primitive.Int(2))))
	assert.Equal(t, "YamlFPE:\n  intField: 2\n", serialize(t, w))

	require.ErrorIs(t, w.Write(newField("/YamlFPE/other", primitive.Int(3))), document.ErrFinalized)
}

func TestWriter_Tags(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	w := newWriter(t, "")
	require.NoError(t, w.Write(newField("/V/double", primitive.Double(1.5))))
	require.NoError(t, w.Write(newField("/V/text", primitive.String("2"))))
	require.NoError(t, w.Write(newField("/V/flag", primitive.Bool(true))))
	require.NoError(t, w.Write(newField("/V/none", primitive.Value{})))
	require.NoError(t, w.Write(newField("/V/day", primitive.Date(day))))
	require.NoError(t, w.Write(newField("/V/nan", primitive.Double(math.NaN()))))

	out := serialize(t, w)
	assert.Equal(t, "V:\n  double: 1.5\n  text: \"2\"\n  flag: true\n  none: null\n  day: 2024-01-02\n  nan: .nan\n", out)

	r := newReader(t, out)
	assert.Equal(t, primitive.Double(1.5), readField(t, r, "/V/double", 0).Value)
	assert.Equal(t, primitive.String("2"), readField(t, r, "/V/text", 0).Value)
	assert.Equal(t, primitive.Bool(true), readField(t, r, "/V/flag", 0).Value)
	assert.True(t, readField(t, r, "/V/none", 0).Value.IsNull())
	assert.Equal(t, primitive.TypeDate, readField(t, r, "/V/day", 0).Type)
	assert.True(t, math.IsNaN(readField(t, r, "/V/nan", 0).Value.Raw().(float64)))
}

func TestWriter_Collections(t *testing.T) {
	t.Parallel()

	t.Run("group fan out", func(t *testing.T) {
		t.Parallel()

		group := &field.Group{Path: fieldpath.MustParse("/YamlOA/contact<>/name"), DocID: "doc"}
		for i, name := range []string{"name0", "name1", "name2"} {
			p, _ := fieldpath.MustParse("/YamlOA/contact<>/name").SetVacantCollectionIndex(i)
			f := field.New("doc", p)
			f.SetValue(primitive.String(name))
			group.Add(f)
		}

		w := newWriter(t, "")
		require.NoError(t, w.Write(group))

		got, err := newReader(t, serialize(t, w)).Read(field.New("src", fieldpath.MustParse("/YamlOA/contact<>/name")))
		require.NoError(t, err)

		leaves := field.Leaves(got)
		require.Len(t, leaves, 3)

		for i, name := range []string{"name0", "name1", "name2"} {
			assert.Equal(t, primitive.String(name), leaves[i].Value)
		}
	})

	t.Run("array reuses placeholders", func(t *testing.T) {
		t.Parallel()

		w := newWriter(t, "")
		require.NoError(t, w.Write(newField("/R/item[2]", primitive.String("c"))))
		require.NoError(t, w.Write(newField("/R/item[]", primitive.String("a"))))
		require.NoError(t, w.Write(newField("/R/item[]", primitive.String("b"))))
		require.NoError(t, w.Write(newField("/R/item[]", primitive.String("d"))))

		got, err := newReader(t, serialize(t, w)).Read(field.New("src", fieldpath.MustParse("/R/item[]")))
		require.NoError(t, err)

		var values []any
		for _, l := range field.Leaves(got) {
			values = append(values, l.Value.Raw())
		}

		assert.Equal(t, []any{"a", "b", "c", "d"}, values)
	})

	t.Run("root sequence", func(t *testing.T) {
		t.Parallel()

		w := newWriter(t, "")
		require.NoError(t, w.Write(newField("/<>/id", primitive.Int(1))))
		require.NoError(t, w.Write(newField("/<>/id", primitive.Int(2))))

		r := newReader(t, serialize(t, w))
		assert.Equal(t, primitive.Int(2), readField(t, r, "/<1>/id", 0).Value)
	})
}

func TestWriter_Template(t *testing.T) {
	t.Parallel()

	w := newWriter(t, "# header\nA:\n  keep: 1 # note\n")

	require.ErrorIs(t, w.Write(newField("/<0>/x", primitive.Int(1))), document.ErrRootMismatch)
	require.NoError(t, w.Write(newField("/A/x", primitive.Int(2))))
	require.Error(t, w.Write(newField("/A/keep/deeper", primitive.Int(3))))

	out := serialize(t, w)
	assert.Contains(t, out, "# header")
	assert.Contains(t, out, "keep: 1 # note")
	assert.Contains(t, out, "x: 2")

	_, err := NewWriter(document.Options{Template: []byte("a: [1")})
	require.ErrorIs(t, err, document.ErrDocumentParse)
}

func TestReader(t *testing.T) {
	t.Parallel()

	const source = `
YamlOA:
  contact:
    - firstName: name0
      age: 30
    - lastName: last1
    - firstName: name2
defaults: &defaults
  region: eu
site: *defaults
long: 2147483648
big: 9223372036854775808
hex: 0x1F
stamp: 2024-01-02T10:11:12Z
quoted: "42"
ns:key: v
`

	r := newReader(t, source)

	t.Run("fan out", func(t *testing.T) {
		t.Parallel()

		got, err := r.Read(field.New("src", fieldpath.MustParse("/YamlOA/contact<>/firstName")))
		require.NoError(t, err)

		leaves := field.Leaves(got)
		require.Len(t, leaves, 3)
		assert.Equal(t, primitive.String("name0"), leaves[0].Value)
		assert.True(t, leaves[1].Value.IsNull())
		assert.Equal(t, "/YamlOA/contact<2>/firstName", leaves[2].Path.String())
	})

	t.Run("native types", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, primitive.Int(30), readField(t, r, "/YamlOA/contact<0>/age", 0).Value)
		assert.Equal(t, primitive.TypeLong, readField(t, r, "/long", 0).Type)
		assert.Equal(t, primitive.TypeBigInteger, readField(t, r, "/big", 0).Type)
		assert.Equal(t, primitive.Int(31), readField(t, r, "/hex", 0).Value)
		assert.Equal(t, primitive.TypeDateTime, readField(t, r, "/stamp", 0).Type)
		assert.Equal(t, primitive.String("42"), readField(t, r, "/quoted", 0).Value)
		assert.Equal(t, primitive.String("v"), readField(t, r, "/ns:key", 0).Value)
		assert.Equal(t, primitive.TypeComplex, readField(t, r, "/YamlOA/contact", 0).Type)
	})

	t.Run("aliases", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, primitive.String("eu"), readField(t, r, "/site/region", 0).Value)
	})

	t.Run("declared type", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, primitive.Long(42), readField(t, r, "/quoted", primitive.TypeLong).Value)
	})

	t.Run("out of range", func(t *testing.T) {
		t.Parallel()

		assert.True(t, readField(t, r, "/YamlOA/contact<5>/firstName", 0).Value.IsNull())
	})

	t.Run("suggest", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{"firstName"}, r.Suggest(fieldpath.MustParse("/YamlOA/contact<0>/first_name"), 3))
	})
}

func TestReader_States(t *testing.T) {
	t.Parallel()

	r := NewReader(document.Options{})
	_, err := r.Read(field.New("src", fieldpath.MustParse("/a")))
	require.ErrorIs(t, err, document.ErrNotLoaded)

	require.ErrorIs(t, r.SetDocument([]byte("a: [1")), document.ErrDocumentParse)
	require.ErrorIs(t, r.SetDocument([]byte("a:\n\tb: 1")), document.ErrDocumentParse)

	audit := &diagnostic.Diagnostics{}
	r = NewReader(document.Options{Audit: audit, DocID: "src"})
	require.NoError(t, r.SetDocument(nil))

	got, err := r.Read(field.New("src", fieldpath.MustParse("/a<>")))
	require.NoError(t, err)
	assert.Zero(t, got.(*field.Group).Len())
	assert.Len(t, audit.ByCode(diagnostic.CodeMissingDocument), 1)
}
