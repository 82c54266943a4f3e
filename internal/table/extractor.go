package table

import (
	"fmt"
	"strings"

	"github.com/hyperjump/yomitori/internal/models"
)

// Extractor walks a document's pages in order and collects the body rows of
// each page's detected table, tagged with the source page number. A failed
// detection on one page is reported as a warning and does not stop the scan.
type Extractor struct {
	detector Detector
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithDetector replaces the default layout detector.
func WithDetector(d Detector) ExtractorOption {
	return func(e *Extractor) { e.detector = d }
}

// NewExtractor returns an Extractor using the layout detector by default.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{detector: NewLayoutDetector()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the raw dataset of all detected table rows plus one warning
// per failed page. Column names keep their source spelling; the schema is the
// first-seen order of header names across pages. A document with no tables
// yields an empty dataset and no warnings.
func (e *Extractor) Extract(doc *models.Document) (*models.Dataset, []string) {
	ds := &models.Dataset{}
	var warnings []string
	if doc == nil {
		return ds, nil
	}

	seen := make(map[string]bool)
	for _, page := range doc.Pages {
		t, err := e.detector.Detect(page)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("page %d: table detection failed: %v", page.Number, err))
			continue
		}
		if t == nil || len(t.Rows) == 0 {
			continue
		}

		names := headerNames(t.Header)
		for _, name := range names {
			if !seen[name] {
				seen[name] = true
				ds.Columns = append(ds.Columns, models.Column{Name: name})
			}
		}
		for _, row := range t.Rows {
			cells := make(map[string]string, len(names))
			for i, name := range names {
				if i < len(row) {
					cells[name] = row[i]
				}
			}
			ds.Records = append(ds.Records, models.TableRecord{Page: page.Number, Cells: cells})
		}
	}
	return ds, warnings
}

// headerNames fills in blank header cells with a positional name so every
// column stays addressable.
func headerNames(header []string) []string {
	names := make([]string, len(header))
	for i, name := range header {
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		names[i] = name
	}
	return names
}
