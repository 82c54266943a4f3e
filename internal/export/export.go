// Package export writes analysis artifacts to disk: the extracted text, the
// summary, and the normalized dataset as CSV and XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/yomitori/internal/models"
)

// Writer writes artifacts for one analysis result into a directory. File
// names are derived from the source document's base name.
type Writer struct {
	dir string
}

// NewWriter returns a Writer targeting dir. The directory is created on the
// first write.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// WriteAll writes every artifact the result carries and returns the paths
// written. Empty stages are skipped: no summary file for an empty summary,
// no table files for an empty dataset.
func (w *Writer) WriteAll(result *models.AnalysisResult) ([]string, error) {
	var paths []string

	if result.Text != "" {
		p, err := w.WriteText(result)
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	if len(result.Summary) > 0 {
		p, err := w.WriteSummary(result)
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	if result.Dataset != nil && !result.Dataset.Empty() {
		p, err := w.WriteCSV(result)
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)

		p, err = w.WriteXLSX(result)
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// WriteText writes the cleaned document text as <base>_text.txt.
func (w *Writer) WriteText(result *models.AnalysisResult) (string, error) {
	path, err := w.preparePath(result, "_text.txt")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(result.Text), 0644); err != nil {
		return "", fmt.Errorf("write text artifact: %w", err)
	}
	return path, nil
}

// WriteSummary writes the summary sentences, one per line, as
// <base>_summary.txt.
func (w *Writer) WriteSummary(result *models.AnalysisResult) (string, error) {
	path, err := w.preparePath(result, "_summary.txt")
	if err != nil {
		return "", err
	}
	content := strings.Join(result.Summary, "\n")
	if len(result.Summary) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("write summary artifact: %w", err)
	}
	return path, nil
}

// WriteCSV writes the dataset as <base>_table.csv. The first column is the
// row's source page.
func (w *Writer) WriteCSV(result *models.AnalysisResult) (string, error) {
	path, err := w.preparePath(result, "_table.csv")
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("write csv artifact: %w", err)
	}
	defer f.Close()

	ds := result.Dataset
	names := ds.ColumnNames()
	cw := csv.NewWriter(f)
	if err := cw.Write(append([]string{"source_page"}, names...)); err != nil {
		return "", err
	}
	for _, rec := range ds.Records {
		row := make([]string, 0, len(names)+1)
		row = append(row, strconv.Itoa(rec.Page))
		for _, name := range names {
			row = append(row, rec.Cells[name])
		}
		if err := cw.Write(row); err != nil {
			return "", err
		}
	}
	cw.Flush()
	return path, cw.Error()
}

// WriteXLSX writes the dataset as <base>_table.xlsx.
func (w *Writer) WriteXLSX(result *models.AnalysisResult) (string, error) {
	path, err := w.preparePath(result, "_table.xlsx")
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	ds := result.Dataset
	names := append([]string{"source_page"}, ds.ColumnNames()...)
	for col, name := range names {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return "", err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return "", err
		}
	}
	for r, rec := range ds.Records {
		values := []string{strconv.Itoa(rec.Page)}
		for _, name := range ds.ColumnNames() {
			values = append(values, rec.Cells[name])
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return "", err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return "", err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("write xlsx artifact: %w", err)
	}
	return path, nil
}

func (w *Writer) preparePath(result *models.AnalysisResult, suffix string) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	return filepath.Join(w.dir, baseName(result)+suffix), nil
}

func baseName(result *models.AnalysisResult) string {
	base := filepath.Base(result.Source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		return "analysis"
	}
	return base
}
