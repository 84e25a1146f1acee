package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"hello", "hello", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "b", 1},
		{"a", "ab", 1},
		{"ab", "a", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"Hello", "hello", 1},
		{"straße", "strasse", 2},
		{"firstname", "firstnme", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a))
		})
	}
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 1.0, Similarity("abc", "abc"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
	assert.InDelta(t, 0.75, Similarity("abcd", "abce"), 1e-9)
	assert.InDelta(t, 1.0, NameSimilarity("first_name", "firstName"), 1e-9)
}

func TestTokenizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"firstName", []string{"first", "name"}},
		{"OrderID", []string{"order", "id"}},
		{"XMLParser", []string{"xml", "parser"}},
		{"ns:contactInfo", []string{"contact", "info"}},
		{"@xml-version", []string{"xml", "version"}},
		{"order.item_ID", []string{"order", "item", "id"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, TokenizeName(tt.in))
		})
	}

	assert.Equal(t, "firstname", NormalizeName("c:First-Name"))
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	available := []string{"lastName", "firstName", "phone", "firstName", "address"}

	ranked := Rank("firstname", available)
	assert.Len(t, ranked, 4)
	assert.Equal(t, "firstName", ranked[0].Name)
	assert.InDelta(t, 1.0, ranked[0].Score, 1e-9)

	assert.Equal(t, []string{"firstName", "lastName"}, Suggest("fristName", available, 2))
	assert.Equal(t, []string{"firstName"}, Suggest("fristName", available, 1))
	assert.Empty(t, Suggest("zzz", available, 3))
	assert.Equal(t, CandidateList{{Name: "a", Score: 1}}, CandidateList{{Name: "a", Score: 1}}.Top(5))
}
