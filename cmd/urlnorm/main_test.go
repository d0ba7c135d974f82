package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urlnorm/internal/dedup"
	"urlnorm/internal/urlnorm"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	args = append([]string{"--log-level=error"}, args...)
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestNormalizeArgs(t *testing.T) {
	code, out, _ := runCLI(t, "", "normalize", "HTTP://Example.com:80/a/?b=2&a=1", "example.com/x/../y")
	require.Equal(t, 0, code)
	assert.Equal(t, "http://example.com/a?a=1&b=2\nhttp://example.com/y\n", out)
}

func TestNormalizeStdin(t *testing.T) {
	code, out, _ := runCLI(t, "HTTP://A.com\nnot a url\nb.com\n", "normalize", "--keep-invalid")
	require.Equal(t, 0, code)
	assert.Equal(t, "http://a.com/\n\nhttp://b.com/\n", out)

	code, out, _ = runCLI(t, "HTTP://A.com\nnot a url\n", "normalize")
	require.Equal(t, 0, code)
	assert.Equal(t, "http://a.com/\n", out)
}

func TestNormalizeHash(t *testing.T) {
	code, out, _ := runCLI(t, "", "normalize", "--hash", "http://e.com/a#x")
	require.Equal(t, 0, code)
	assert.Equal(t, urlnorm.HashNormalized("http://e.com/a")+"\thttp://e.com/a\n", out)
}

func TestNormalizeFlags(t *testing.T) {
	code, out, _ := runCLI(t, "", "normalize",
		"-a", "z=1", "--arg", "a=b",
		"--keep-fragments", "--keep-blank-values", "--keep-trailing-slash",
		"http://e.com/p/?c=#top",
	)
	require.Equal(t, 0, code)
	assert.Equal(t, "http://e.com/p/?a=b&c=&z=1#top\n", out)
}

func TestNormalizeBadArg(t *testing.T) {
	code, out, _ := runCLI(t, "", "normalize", "--arg", "novalue", "e.com")
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
}

func TestNormalizeUsesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urlnorm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
normalize:
  keep_fragments: true
  extra_query_args:
    - name: utm
      value: cli
`), 0o644))

	code, out, _ := runCLI(t, "", "--config", path, "normalize", "http://e.com/a#f")
	require.Equal(t, 0, code)
	assert.Equal(t, "http://e.com/a?utm=cli#f\n", out)
}

func TestMissingConfigFileFails(t *testing.T) {
	code, _, stderr := runCLI(t, "", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "normalize", "e.com")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "read config")
}

func TestDedupStdinJSON(t *testing.T) {
	input := "http://e.com/b?y=1&x=2\nE.COM/b?x=2&y=1\nbad url\nhttp://e.com/a\n"
	code, out, _ := runCLI(t, input, "dedup", "--format", "json", "--workers", "2")
	require.Equal(t, 0, code)

	var report dedup.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Entries, 2)
	assert.Equal(t, "http://e.com/b?x=2&y=1", report.Entries[0].URL)
	assert.Equal(t, 2, report.Entries[0].Count)
	assert.Equal(t, "stdin", report.Entries[0].Source)
	assert.Equal(t, "http://e.com/a", report.Entries[1].URL)
	assert.Equal(t, 1, report.Stats.Invalid)
	assert.Equal(t, 1, report.Stats.Duplicates)
}

func TestDedupFilesWithCache(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.txt")
	cache := filepath.Join(dir, "seen.json")
	require.NoError(t, os.WriteFile(first, []byte("e.com/a\ne.com/b.html\n"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("http://e.com/a/\ne.com/c.png\ne.com/d.html\n"), 0o644))

	code, out, _ := runCLI(t, "", "dedup", "--cache", cache, first)
	require.Equal(t, 0, code)
	assert.Equal(t, "http://e.com/a\nhttp://e.com/b.html\n", out)

	code, out, _ = runCLI(t, "", "dedup", "--cache", cache, "--ext", "html", second)
	require.Equal(t, 0, code)
	assert.Equal(t, "http://e.com/d.html\n", out)
}

func TestDedupHTML(t *testing.T) {
	page := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(page, []byte(`<a href="b/">B</a><a href="/b">B again</a><a href="mailto:x@y.z">m</a>`), 0o644))

	code, out, _ := runCLI(t, "", "dedup", "--html", "--base", "https://Site.example/", page)
	require.Equal(t, 0, code)
	assert.Equal(t, "https://site.example/b\n", out)
}

func TestDedupRejectsMissingFile(t *testing.T) {
	code, _, _ := runCLI(t, "", "dedup", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Equal(t, 1, code)
}

func TestHelpAndUsageErrors(t *testing.T) {
	code, out, _ := runCLI(t, "", "--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "normalize")
	assert.Contains(t, out, "dedup")

	code, _, stderr := runCLI(t, "", "frobnicate")
	assert.Equal(t, 1, code)
	assert.NotEmpty(t, stderr)

	code, _, _ = runCLI(t, "", "dedup", "--format", "xml")
	assert.Equal(t, 1, code)
}

func TestOpenInputsClosesFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("e.com/a\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("e.com/b\n"), 0o644))

	inputs, closeInputs, err := openInputs([]string{a, b}, strings.NewReader(""))
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	assert.Equal(t, a, inputs[0].Name)
	assert.Equal(t, b, inputs[1].Name)

	closeInputs()
	for _, in := range inputs {
		_, err := in.Reader.Read(make([]byte, 1))
		assert.ErrorIs(t, err, os.ErrClosed, in.Name)
	}
}

func TestOpenInputsFallsBackToStdin(t *testing.T) {
	stdin := strings.NewReader("e.com\n")
	inputs, closeInputs, err := openInputs(nil, stdin)
	require.NoError(t, err)
	defer closeInputs()
	require.Len(t, inputs, 1)
	assert.Equal(t, "stdin", inputs[0].Name)
	assert.Same(t, stdin, inputs[0].Reader)
}

func TestOpenInputsMissingFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(a, nil, 0o644))

	inputs, closeInputs, err := openInputs([]string{a, filepath.Join(dir, "missing.txt")}, nil)
	require.Error(t, err)
	assert.Nil(t, inputs)
	assert.Nil(t, closeInputs)
}
