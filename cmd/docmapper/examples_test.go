package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExamples runs every directory under examples/: mapping.yaml is
// applied to src.* (and template.* when present) and the result must
// match expected.*.
func TestExamples(t *testing.T) {
	t.Parallel()

	repoRoot, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)

	dirs, err := filepath.Glob(filepath.Join(repoRoot, "examples", "*", "mapping.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, dirs)

	for _, mappingFile := range dirs {
		dir := filepath.Dir(mappingFile)

		t.Run(filepath.Base(dir), func(t *testing.T) {
			t.Parallel()

			expected := single(t, dir, "expected.*")
			out := filepath.Join(t.TempDir(), "out"+filepath.Ext(expected))

			args := []string{
				"--env", "prod",
				"-m", mappingFile,
				"-s", "src=" + single(t, dir, "src.*"),
				"-o", "out=" + out,
			}

			if tmpl, _ := filepath.Glob(filepath.Join(dir, "template.*")); len(tmpl) == 1 {
				args = append(args, "-t", "out="+tmpl[0])
			}

			code, _, stderr := runCLI(t, args...)
			require.Equal(t, exitOK, code, stderr)

			want, err := os.ReadFile(expected)
			require.NoError(t, err)

			got, err := os.ReadFile(out)
			require.NoError(t, err)

			assert.Equal(t, strings.TrimSpace(string(want)), strings.TrimSpace(string(got)))
		})
	}
}

func single(t *testing.T, dir, pattern string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	require.NoError(t, err)
	require.Len(t, matches, 1, "%s in %s", pattern, dir)

	return matches[0]
}
