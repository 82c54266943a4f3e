// Package models defines core data structures for documents, datasets, and analysis results.
package models

import "time"

// Document is a source document after extraction: raw text plus the ordered
// page sequence. Immutable once extracted.
type Document struct {
	ID        string    `json:"id"`
	Source    string    `json:"source,omitempty"`
	RawText   string    `json:"raw_text"`
	Pages     []Page    `json:"pages,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Page is one page of a document. Number is 1-based. Words carries positioned
// text fragments for layout-based table detection; it is empty for sources
// without layout information. Table holds a pre-extracted table region for
// sources that are already tabular (spreadsheets).
type Page struct {
	Number int       `json:"number"`
	Text   string    `json:"text"`
	Words  []Word    `json:"-"`
	Table  *RawTable `json:"-"`
}

// Word is a positioned text fragment on a page. Coordinates are in PDF points
// with the origin at the bottom-left; W is the rendered width.
type Word struct {
	Text     string
	X        float64
	Y        float64
	W        float64
	FontSize float64
}

// PageCount returns the number of pages, or 1 for a paged-less document with text.
func (d *Document) PageCount() int {
	if len(d.Pages) > 0 {
		return len(d.Pages)
	}
	if d.RawText != "" {
		return 1
	}
	return 0
}
