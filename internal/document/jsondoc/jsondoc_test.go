package jsondoc

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

func readField(t *testing.T, r *Reader, path string, typ primitive.FieldType) *field.Field {
	t.Helper()

	f := field.New("src", fieldpath.MustParse(path))
	f.Type = typ

	got, err := r.Read(f)
	require.NoError(t, err)

	return got.(*field.Field)
}

func serialize(t *testing.T, w *Writer) string {
	t.Helper()

	out, err := w.Document()
	require.NoError(t, err)

	return string(out)
}

func TestWriter_Values(t *testing.T) {
	t.Parallel()

	w := newWriter(t, "")
	require.NoError(t, w.Write(newField("/JsonFPE/intField", primitive.Int(2))))
	require.NoError(t, w.Write(newField("/JsonFPE/doubleField", primitive.Double(1.5))))
	require.NoError(t, w.Write(newField("/JsonFPE/booleanField", primitive.Bool(true))))
	require.NoError(t, w.Write(newField("/JsonFPE/stringField", primitive.String(`a "<b>"`))))
	require.NoError(t, w.Write(newField("/JsonFPE/nullField", primitive.Value{})))
	require.NoError(t, w.Write(newField("/JsonFPE/nan", primitive.Double(math.NaN()))))
	require.NoError(t, w.Write(newField("/JsonFPE/date", primitive.Date(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))))

	assert.Equal(t,
		`{"JsonFPE":{"intField":2,"doubleField":1.5,"booleanField":true,"stringField":"a \"<b>\"","nullField":null,"nan":"NaN","date":"2024-01-02"}}`,
		serialize(t, w))

	require.ErrorIs(t, w.Write(newField("/JsonFPE/other", primitive.Int(3))), document.ErrFinalized)
}

func TestWriter_Collections(t *testing.T) {
	t.Parallel()

	t.Run("group fan out", func(t *testing.T) {
		t.Parallel()

		group := &field.Group{Path: fieldpath.MustParse("/JsonOA/contact<>/name"), DocID: "doc"}
		for i, name := range []string{"name0", "name1", "name2"} {
			p, _ := fieldpath.MustParse("/JsonOA/contact<>/name").SetVacantCollectionIndex(i)
			f := field.New("doc", p)
			f.SetValue(primitive.String(name))
			group.Add(f)
		}

		w := newWriter(t, "")
		require.NoError(t, w.Write(group))
		assert.Equal(t, `{"JsonOA":{"contact":[{"name":"name0"},{"name":"name1"},{"name":"name2"}]}}`, serialize(t, w))
	})

	t.Run("list appends", func(t *testing.T) {
		t.Parallel()

		w := newWriter(t, "")
		for _, v := range []string{"a", "b", "c"} {
			require.NoError(t, w.Write(newField("/R/item<>", primitive.String(v))))
		}

		assert.Equal(t, `{"R":{"item":["a","b","c"]}}`, serialize(t, w))
	})

	t.Run("array reuses placeholders", func(t *testing.T) {
		t.Parallel()

		w := newWriter(t, "")
		require.NoError(t, w.Write(newField("/R/item[2]", primitive.String("c"))))
		require.NoError(t, w.Write(newField("/R/item[]", primitive.String("a"))))
		require.NoError(t, w.Write(newField("/R/item[]", primitive.String("b"))))
		require.NoError(t, w.Write(newField("/R/item[]", primitive.String("d"))))

		assert.Equal(t, `{"R":{"item":["a","b","c","d"]}}`, serialize(t, w))
	})

	t.Run("root array", func(t *testing.T) {
		t.Parallel()

		w := newWriter(t, "")
		require.NoError(t, w.Write(newField("/<>/name", primitive.String("x"))))
		require.NoError(t, w.Write(newField("/<>/name", primitive.String("y"))))
		require.NoError(t, w.Write(newField("/<0>/id", primitive.Int(1))))

		assert.Equal(t, `[{"name":"x","id":1},{"name":"y"}]`, serialize(t, w))
	})
}

func TestWriter_Template(t *testing.T) {
	t.Parallel()

	w := newWriter(t, `{"b":1,"a":{"x":1}}`)

	require.ErrorIs(t, w.Write(newField("/<0>/x", primitive.Int(1))), document.ErrRootMismatch)
	require.NoError(t, w.Write(newField("/a/y", primitive.Int(2))))
	require.NoError(t, w.Write(newField("/c", primitive.Int(3))))
	require.Error(t, w.Write(newField("/b/deeper", primitive.Int(4))))

	assert.Equal(t, `{"b":1,"a":{"x":1,"y":2},"c":3}`, serialize(t, w))

	w = newWriter(t, `[1]`)
	require.ErrorIs(t, w.Write(newField("/a", primitive.Int(1))), document.ErrRootMismatch)
	assert.Equal(t, `[1]`, serialize(t, w))

	w = newWriter(t, `{"price": 1.50, "id": 12345678901234567890, "tags": ["x", null]}`)
	require.NoError(t, w.Write(newField("/tags[]", primitive.String("y"))))
	require.NoError(t, w.Write(newField("/tags[1]", primitive.String("z"))))
	assert.Equal(t, `{"price":1.50,"id":12345678901234567890,"tags":["x","z","y"]}`, serialize(t, w))

	_, err := NewWriter(document.Options{Template: []byte(`{"a":`)})
	require.ErrorIs(t, err, document.ErrDocumentParse)
}

func TestReader(t *testing.T) {
	t.Parallel()

	const source = `{
  "JsonOA": {"contact": [{"firstName": "name0", "age": 30}, {"lastName": "last1"}, {"firstName": "name2"}]},
  "big": 9223372036854775808,
  "long": 2147483648,
  "ratio": 0.25,
  "flag": false,
  "nothing": null,
  "ns:key": "v"
}`

	r := newReader(t, source)

	t.Run("fan out", func(t *testing.T) {
		t.Parallel()

		got, err := r.Read(field.New("src", fieldpath.MustParse("/JsonOA/contact<>/firstName")))
		require.NoError(t, err)

		leaves := field.Leaves(got)
		require.Len(t, leaves, 3)
		assert.Equal(t, primitive.String("name0"), leaves[0].Value)
		assert.True(t, leaves[1].Value.IsNull())
		assert.Equal(t, "/JsonOA/contact<2>/firstName", leaves[2].Path.String())
	})

	t.Run("inferred types", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, primitive.Int(30), readField(t, r, "/JsonOA/contact<0>/age", 0).Value)
		assert.Equal(t, primitive.TypeLong, readField(t, r, "/long", 0).Type)
		assert.Equal(t, primitive.TypeBigInteger, readField(t, r, "/big", 0).Type)
		assert.Equal(t, primitive.Double(0.25), readField(t, r, "/ratio", 0).Value)
		assert.Equal(t, primitive.Bool(false), readField(t, r, "/flag", 0).Value)
		assert.True(t, readField(t, r, "/nothing", 0).Value.IsNull())
		assert.Equal(t, primitive.String("v"), readField(t, r, "/ns:key", 0).Value)
		assert.Equal(t, primitive.TypeComplex, readField(t, r, "/JsonOA", 0).Type)
	})

	t.Run("declared type", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, primitive.String("30"), readField(t, r, "/JsonOA/contact<0>/age", primitive.TypeString).Value)
	})

	t.Run("out of range", func(t *testing.T) {
		t.Parallel()

		assert.True(t, readField(t, r, "/JsonOA/contact<5>/firstName", 0).Value.IsNull())
	})

	t.Run("suggest", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{"firstName"}, r.Suggest(fieldpath.MustParse("/JsonOA/contact<0>/firstname"), 3))
	})
}

func TestReader_RootArray(t *testing.T) {
	t.Parallel()

	r := newReader(t, `[{"id":1},{"id":2}]`)

	got, err := r.Read(field.New("src", fieldpath.MustParse("/<>/id")))
	require.NoError(t, err)

	leaves := field.Leaves(got)
	require.Len(t, leaves, 2)
	assert.Equal(t, primitive.Int(2), leaves[1].Value)
	assert.Equal(t, "/<1>/id", leaves[1].Path.String())

	assert.True(t, readField(t, r, "/id", 0).Value.IsNull())
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	w := newWriter(t, "")
	require.NoError(t, w.Write(newField("/order/id", primitive.Long(1<<40))))
	require.NoError(t, w.Write(newField("/order/line<>/qty", primitive.Int(3))))
	require.NoError(t, w.Write(newField("/order/line<>/qty", primitive.Int(4))))

	r := newReader(t, serialize(t, w))
	assert.Equal(t, primitive.Long(1<<40), readField(t, r, "/order/id", 0).Value)
	assert.Equal(t, primitive.Int(4), readField(t, r, "/order/line<1>/qty", 0).Value)
}

func TestReader_States(t *testing.T) {
	t.Parallel()

	r := NewReader(document.Options{})
	_, err := r.Read(field.New("src", fieldpath.MustParse("/a")))
	require.ErrorIs(t, err, document.ErrNotLoaded)

	for _, raw := range []string{`{"a":}`, `{"a":1} x`, `{"a":1,}`, `{1:2}`} {
		require.ErrorIs(t, r.SetDocument([]byte(raw)), document.ErrDocumentParse, raw)
	}

	audit := &diagnostic.Diagnostics{}
	r = NewReader(document.Options{Audit: audit, DocID: "src"})
	require.NoError(t, r.SetDocument([]byte("  ")))

	got, err := r.Read(field.New("src", fieldpath.MustParse("/a/b")))
	require.NoError(t, err)
	assert.True(t, got.(*field.Field).Value.IsNull())
	assert.Len(t, audit.ByCode(diagnostic.CodeMissingDocument), 1)
}
