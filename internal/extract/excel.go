package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/yomitori/internal/models"
)

// extractExcel turns each sheet into one page. A sheet with at least a
// header row and one body row contributes a pre-extracted table region; the
// page text is the tab-joined cell content either way.
func extractExcel(content []byte) ([]models.Page, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	var pages []models.Page
	for i, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("get rows for sheet %q: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}

		var buf strings.Builder
		for _, row := range rows {
			buf.WriteString(strings.Join(row, "\t"))
			buf.WriteByte('\n')
		}

		page := models.Page{
			Number: i + 1,
			Text:   strings.TrimSpace(buf.String()),
		}
		if len(rows) >= 2 {
			page.Table = &models.RawTable{Header: rows[0], Rows: rows[1:]}
		}
		pages = append(pages, page)
	}
	return pages, nil
}
