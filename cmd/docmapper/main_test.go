package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const xmlToJSON = `
sources: [{id: src, format: xml}]
targets: [{id: out, format: json}]
mappings:
  - source: /XmlFPE/intField
    target: /JsonFPE/intField
    target_type: INTEGER
  - source: /XmlFPE/text
    target: /JsonFPE/number
    target_type: INTEGER
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func TestParseAssignments(t *testing.T) {
	t.Parallel()

	got, err := parseAssignments("source", []string{"a=in.xml", " b =dir/x=y.json"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "in.xml", "b": "dir/x=y.json"}, got)

	for _, bad := range [][]string{{"noequals"}, {"=file"}, {"a="}, {"a=x", "a=y"}} {
		_, err := parseAssignments("source", bad)
		require.Error(t, err, "%v", bad)
	}
}

func TestRun_Flags(t *testing.T) {
	t.Parallel()

	code, stdout, _ := runCLI(t, "--version")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "docmapper dev")

	code, _, stderr := runCLI(t, "--help")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stderr, "--mapping")

	code, _, stderr = runCLI(t, "--env", "prod")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "at least one --mapping")

	code, _, _ = runCLI(t, "--no-such-flag")
	assert.Equal(t, exitUsage, code)
}

func TestRun_Files(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mappingFile := writeFile(t, dir, "map.yaml", xmlToJSON)
	source := writeFile(t, dir, "in.xml", "<XmlFPE><intField>2</intField><text>7</text></XmlFPE>")
	out := filepath.Join(dir, "out.json")
	metricsFile := filepath.Join(dir, "metrics.prom")

	code, stdout, stderr := runCLI(t,
		"--env", "prod",
		"-m", mappingFile,
		"-s", "src="+source,
		"-o", "out="+out,
		"--metrics-file", metricsFile)

	require.Equal(t, exitOK, code, stderr)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, `{"JsonFPE":{"intField":2,"number":7}}`, string(data))

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `docmapper_directives_total{status="ok"} 2`)
	assert.Contains(t, string(metrics), `docmapper_fields_written_total{format="json"} 2`)
}

func TestRun_Stdout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mappingFile := writeFile(t, dir, "map.yaml", xmlToJSON)
	source := writeFile(t, dir, "in.xml", "<XmlFPE><intField>2</intField><text>seven</text></XmlFPE>")

	code, stdout, stderr := runCLI(t, "--env", "prod", "--dump", "-m", mappingFile, "-s", "src="+source)

	assert.Equal(t, exitAuditError, code)
	assert.Equal(t, "{\"JsonFPE\":{\"intField\":2}}\n", stdout)
	assert.Contains(t, stderr, "[conversion]")
	assert.Contains(t, stderr, "Diagnostics")
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mappingFile := writeFile(t, dir, "map.yaml", xmlToJSON)

	code, _, stderr := runCLI(t, "--env", "prod", "-m", mappingFile, "-m", mappingFile)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "declared by both")

	code, _, stderr = runCLI(t, "--env", "prod", "-m", mappingFile, "-s", "src="+filepath.Join(dir, "missing.xml"))
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "failed to read source")

	bad := writeFile(t, dir, "bad.xml", "<XmlFPE>")
	code, _, _ = runCLI(t, "--env", "prod", "-m", mappingFile, "-s", "src="+bad)
	assert.Equal(t, exitAuditError, code)

	code, _, stderr = runCLI(t, "--env", "staging", "-m", mappingFile)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "logging.env")
}
