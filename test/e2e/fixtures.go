// Package e2e provides end-to-end tests; this file builds minimal source
// files for supported types and positioned-word invoice pages.
package e2e

import (
	"archive/zip"
	"bytes"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/yomitori/internal/models"
)

// SupportedFileExtensions is the list of file extensions used in E2E file-based tests.
// Covers: plain text (.txt, .md), OOXML (.docx, .xlsx). PDF is not generated here
// (no minimal PDF with extractable text); .odt/.rtf use the same code path as .docx.
var SupportedFileExtensions = []string{
	".txt", ".md", ".docx", ".xlsx",
}

// WriteMinimalFile returns the bytes of a minimal file of the given extension
// carrying the given text. For plain types (.txt, .md) the content is the raw
// text; for binary types it is the file bytes.
func WriteMinimalFile(ext, text string) ([]byte, error) {
	switch ext {
	case ".txt", ".md":
		return []byte(text), nil
	case ".docx":
		return minimalDocx(text), nil
	case ".xlsx":
		return minimalXlsx(text), nil
	default:
		return []byte(text), nil
	}
}

func minimalDocx(text string) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, _ := w.Create("word/document.xml")
	_, _ = fw.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body></w:document>`))
	_ = w.Close()
	return buf.Bytes()
}

func minimalXlsx(text string) []byte {
	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", text)
	var buf bytes.Buffer
	_, _ = f.WriteTo(&buf)
	return buf.Bytes()
}

// Layout constants for InvoicePage. Columns start columnPitch apart, far
// wider than the detector's minimum column gap; words within a cell sit
// wordGap apart, far closer than it.
const (
	leftMargin  = 60.0
	columnPitch = 170.0
	topY        = 720.0
	linePitch   = 24.0
	charWidth   = 7.0
	wordGap     = 3.0
)

// InvoicePage lays a header row and body rows out as positioned words so the
// layout detector reconstructs them as a table. The page carries no plain
// text; only the word positions describe its content.
func InvoicePage(number int, header []string, rows [][]string) models.Page {
	var words []models.Word
	words = append(words, lineWords(header, topY)...)
	for i, row := range rows {
		words = append(words, lineWords(row, topY-linePitch*float64(i+1))...)
	}
	return models.Page{Number: number, Words: words}
}

// lineWords places one table line. Multi-word cell text stays one cell: the
// words touch, while the next column starts a pitch away.
func lineWords(cells []string, y float64) []models.Word {
	var words []models.Word
	for col, text := range cells {
		x := leftMargin + columnPitch*float64(col)
		for _, part := range strings.Fields(text) {
			w := charWidth * float64(len([]rune(part)))
			words = append(words, models.Word{Text: part, X: x, Y: y, W: w, FontSize: 10})
			x += w + wordGap
		}
	}
	return words
}
