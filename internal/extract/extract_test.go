package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestExtractText_Txt(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", []byte("  Plain text document body.\n"))

	text, err := NewFileExtractor().ExtractText(path)
	require.NoError(t, err)
	assert.Equal(t, "Plain text document body.", text)
}

func TestExtractText_EmptyTxt(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.txt", []byte("   \n\t"))

	_, err := NewFileExtractor().ExtractText(path)
	assert.ErrorIs(t, err, ErrNoText)
}

func TestExtractText_MissingTxt(t *testing.T) {
	_, err := NewFileExtractor().ExtractText(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestExtractText_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "report.docx", []byte("docx bytes"))

	_, err := NewFileExtractor().ExtractText(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractText_CaseInsensitiveExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "NOTES.TXT", []byte("upper case extension"))

	text, err := NewFileExtractor().ExtractText(path)
	require.NoError(t, err)
	assert.Equal(t, "upper case extension", text)
}

func TestExtractText_CorruptPDF(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.pdf", []byte("not a real pdf"))

	_, err := NewFileExtractor().ExtractText(path)
	assert.ErrorIs(t, err, ErrNoText)
}
