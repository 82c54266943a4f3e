package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/hyperjump/yomitori/internal/models"
)

// extractPDF returns one Page per PDF page, carrying both the plain text and
// the positioned text fragments. A page that fails to parse is skipped with
// a warning; the rest of the document still comes through.
func extractPDF(content []byte) ([]models.Page, []string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, nil, fmt.Errorf("open PDF: %w", err)
	}

	var pages []models.Page
	var warnings []string
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		page, err := readPDFPage(r, i)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("page %d: %v", i, err))
			continue
		}
		if page != nil {
			pages = append(pages, *page)
		}
	}
	return pages, warnings, nil
}

// readPDFPage extracts one page. The pdf library panics on some malformed
// content streams, so the panic is converted to an error here and handled
// like any other per-page failure.
func readPDFPage(r *pdf.Reader, number int) (_ *models.Page, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("parse failure: %v", rec)
		}
	}()

	page := r.Page(number)
	if page.V.IsNull() {
		return nil, nil
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	var words []models.Word
	for _, t := range page.Content().Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		words = append(words, models.Word{
			Text:     t.S,
			X:        t.X,
			Y:        t.Y,
			W:        t.W,
			FontSize: t.FontSize,
		})
	}

	return &models.Page{Number: number, Text: text, Words: words}, nil
}
