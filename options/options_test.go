package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategories(t *testing.T) {
	t.Parallel()

	mask, err := ParseCategories(nil)
	require.NoError(t, err)
	assert.Equal(t, CategoryEnum(CategoryAll), mask)

	mask, err = ParseCategories([]string{"safe_number", " Datetime "})
	require.NoError(t, err)
	assert.Equal(t, CategorySafeNumber|CategoryDatetime, mask)

	_, err = ParseCategories([]string{"bogus"})
	assert.Error(t, err)
}

func TestParseNamespacePolicy(t *testing.T) {
	t.Parallel()

	p, err := ParseNamespacePolicy("")
	require.NoError(t, err)
	assert.Equal(t, NamespaceTolerate, p)

	p, err = ParseNamespacePolicy("STRICT")
	require.NoError(t, err)
	assert.Equal(t, NamespaceStrict, p)
	assert.Equal(t, "strict", p.String())

	_, err = ParseNamespacePolicy("lenient")
	assert.Error(t, err)
}
