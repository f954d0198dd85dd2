package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mburaksayici/legal-rag/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("case.pdf"))
	assert.True(t, Supported("notice.DOCX"))
	assert.True(t, Supported("regulation.txt"))
	assert.True(t, Supported("readme.md"))
	assert.False(t, Supported("archive.zip"))
	assert.False(t, Supported("noextension"))
}

func TestExtractor_PlainText(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "regulation.txt", "Aid granted by a Member State shall be notified to the Commission.")

	e := New()
	text, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Aid granted by a Member State shall be notified to the Commission.", text)
}

func TestExtractor_UnsupportedFormat(t *testing.T) {
	e := New()
	_, err := e.Extract(context.Background(), "docs/archive.zip")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrExtraction))
}

func TestExtractor_EmptyDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "empty.txt", "   \n\t ")

	e := New()
	_, err := e.Extract(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrExtraction))
}

func TestExtractor_MissingFile(t *testing.T) {
	e := New()
	_, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrExtraction))
}

func TestExtractor_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "regulation.txt", "text")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New()
	_, err := e.Extract(ctx, path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestEnumerateDocuments_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "case.txt", "text")

	refs, err := EnumerateDocuments(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, refs)
}

func TestEnumerateDocuments_Directory(t *testing.T) {
	dir := t.TempDir()
	b := writeDoc(t, dir, "b.txt", "text")
	a := writeDoc(t, dir, "a.md", "text")
	writeDoc(t, dir, "skip.zip", "binary")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	writeDoc(t, filepath.Join(dir, "nested"), "deep.txt", "text")

	refs, err := EnumerateDocuments(dir)
	require.NoError(t, err)

	// Sorted, unsupported formats and subdirectories excluded
	assert.Equal(t, []string{a, b}, refs)
}

func TestEnumerateDocuments_EmptyDirectory(t *testing.T) {
	refs, err := EnumerateDocuments(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestEnumerateDocuments_MissingSource(t *testing.T) {
	_, err := EnumerateDocuments(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrSourceNotFound))
}

func TestEnumerateDocuments_UnsupportedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "archive.zip", "binary")

	_, err := EnumerateDocuments(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrExtraction))
}
