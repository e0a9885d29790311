// Package extract pulls plain text out of uploaded documents.
package extract

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrUnsupportedFormat is returned for extensions with no extractor.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrNoText is returned when extraction succeeds but yields nothing.
	ErrNoText = errors.New("document yields no text")
)

// Extractor turns a stored document into plain text.
type Extractor interface {
	ExtractText(path string) (string, error)
}

// FileExtractor extracts text from PDF files and reads .txt files as-is.
// DOCX uploads are accepted for storage but are not extractable.
type FileExtractor struct{}

// NewFileExtractor returns the default extractor.
func NewFileExtractor() *FileExtractor {
	return &FileExtractor{}
}

// ExtractText extracts the document's plain text by extension.
func (e *FileExtractor) ExtractText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDF(path)
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			return "", ErrNoText
		}
		return text, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

func extractPDF(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", ErrNoText
	}
	defer file.Close()

	var buf bytes.Buffer
	content, err := reader.GetPlainText()
	if err != nil {
		return "", ErrNoText
	}
	if _, err := buf.ReadFrom(content); err != nil {
		return "", ErrNoText
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}
