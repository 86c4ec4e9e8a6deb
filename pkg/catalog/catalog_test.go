package catalog

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.md"), "# B\n")
	writeFile(t, filepath.Join(dir, "a.yaml"), "slides:\n  - key: a\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
	writeFile(t, filepath.Join(dir, "sub", "c.markdown"), "# C\n")
	writeFile(t, filepath.Join(dir, ".git", "d.md"), "# hidden\n")
	writeFile(t, filepath.Join(dir, ".dv.yml"), "theme: dark\n")
	writeFile(t, filepath.Join(dir, "sub", ".draft.md"), "# draft\n")
	single := filepath.Join(dir, "b.md")

	got, err := Discover([]string{dir, single})
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.md"),
		filepath.Join(dir, "sub", "c.markdown"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Discover mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverExplicitDotFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".talk.md")
	writeFile(t, path, "# Talk\n")

	got, err := Discover([]string{path})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, got, "named files are taken as given")
}

func TestDiscoverMissing(t *testing.T) {
	_, err := Discover([]string{filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}

func TestLoadAllAndSummarize(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.md")
	other := filepath.Join(dir, "other.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, good, "# One\n\n---\n\n# Two\n")
	writeFile(t, other, "title: Other\nslides:\n  - key: x\n    body: X\n")
	writeFile(t, bad, "slides: []\n")

	paths := []string{good, bad, other}
	results, err := NewLoader().LoadAll(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, r := range results {
		assert.Equal(t, paths[i], r.Path, "results keep input order")
	}
	assert.NoError(t, results[0].Error)
	assert.Error(t, results[1].Error)
	assert.Equal(t, "Other", results[2].Deck.Title())

	summary := Summarize(results)
	assert.Equal(t, LoadSummary{
		TotalDecks:      3,
		SuccessfulDecks: 2,
		FailedDecks:     1,
		TotalSlides:     3,
		FailedPaths:     []string{bad},
	}, summary)
}

func TestLoadAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := NewLoader()
	l.SetLimit(1)
	results, err := l.LoadAll(ctx, []string{"a.md", "b.md"})
	require.NoError(t, err)
	for _, r := range results {
		assert.ErrorIs(t, r.Error, context.Canceled)
	}
}

func TestWriteTable(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.md")
	writeFile(t, good, "# Quarterly Review\n")

	results, err := NewLoader().LoadAll(context.Background(), []string{good, filepath.Join(dir, "nope.md")})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, results))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "SLIDES  TITLE"))
	assert.Contains(t, lines[1], "Quarterly Review")
	assert.Contains(t, lines[1], good)
	assert.Contains(t, lines[2], "error:")
	column := func(line, path string) int {
		return runewidth.StringWidth(line[:strings.LastIndex(line, path)])
	}
	assert.Equal(t, column(lines[1], good), column(lines[2], filepath.Join(dir, "nope.md")), "path column is aligned")
}
