// Package extract turns source files into documents: page-ordered text plus
// whatever layout or tabular structure the format provides.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyperjump/yomitori/internal/models"
)

// Extractor extracts documents from source files. PDF pages keep their
// positioned words for table detection; spreadsheet sheets become pages with
// a pre-extracted table region; everything else is plain text.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractFile reads the file at path and extracts a document from it. The
// returned warnings report recoverable per-page failures; the error is
// reserved for the file being unreadable or unparseable as a whole.
func (e *Extractor) ExtractFile(path string) (*models.Document, []string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}
	return e.ExtractBytes(content, strings.ToLower(filepath.Ext(path)), path)
}

// ExtractBytes extracts a document from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf"). Unknown extensions are
// treated as plain text.
func (e *Extractor) ExtractBytes(content []byte, ext, source string) (*models.Document, []string, error) {
	var (
		pages    []models.Page
		warnings []string
		err      error
	)

	switch ext {
	case ".pdf":
		pages, warnings, err = extractPDF(content)
	case ".xlsx":
		pages, err = extractExcel(content)
	case ".docx", ".odt", ".rtf":
		var text string
		text, err = extractDOCX(content)
		pages = singlePage(text)
	default:
		var text string
		text, err = extractPlain(content)
		pages = singlePage(text)
	}
	if err != nil {
		return nil, warnings, err
	}

	doc := &models.Document{
		Source:    source,
		RawText:   joinPages(pages),
		Pages:     pages,
		CreatedAt: time.Now(),
	}
	return doc, warnings, nil
}

func singlePage(text string) []models.Page {
	if text == "" {
		return nil
	}
	return []models.Page{{Number: 1, Text: text}}
}

func joinPages(pages []models.Page) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		if p.Text != "" {
			parts = append(parts, p.Text)
		}
	}
	return strings.Join(parts, "\n")
}
