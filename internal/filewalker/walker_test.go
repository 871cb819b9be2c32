package filewalker

import (
	"os"
	"path/filepath"
	"testing"

	"doc-translator/internal/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, nil, 0644))
}

func TestWalkFindsSupportedDocuments(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{
		"a.docx",
		"b.PPTX",
		"notes.txt",
		"image.png",
		"~$a.docx",
		".hidden.xlsx",
		"sub/c.xlsm",
		"outputs/a_translated.docx",
		".git/config.txt",
	} {
		touch(t, filepath.Join(root, name))
	}

	entries, err := NewWalker(filepath.Join(root, "outputs")).Walk(root)
	require.NoError(t, err)

	var got []string
	for _, e := range entries {
		rel, _ := filepath.Rel(root, e.Path)
		got = append(got, filepath.ToSlash(rel))
	}
	assert.Equal(t, []string{"a.docx", "b.PPTX", "notes.txt", "sub/c.xlsm"}, got)
	assert.Equal(t, document.FormatPPTX, entries[1].Format)
	assert.Equal(t, document.FormatXLSX, entries[3].Format)
}

func TestWalkRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.docx")
	touch(t, path)

	_, err := NewWalker().Walk(path)
	assert.Error(t, err)
}
