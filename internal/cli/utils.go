// Package cli provides CLI utilities for Yomitori.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/yomitori/internal/models"
	"github.com/hyperjump/yomitori/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteAnalysisResult writes one analysis result to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteAnalysisResult(w io.Writer, result *models.AnalysisResult, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	default:
		writeAnalysisText(w, result)
		return nil
	}
}

func writeAnalysisText(w io.Writer, result *models.AnalysisResult) {
	source := result.Source
	if source == "" {
		source = result.DocID
	}
	fmt.Fprintf(w, "\nAnalyzed %s in %dms (%d pages)\n\n", source, result.ElapsedMS, result.PageCount)
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintln(w)
	}

	if result.Text != "" {
		fmt.Fprintln(w, "--- Text ---")
		fmt.Fprintf(w, "%s\n\n", utils.Truncate(result.Text, 400))
	}
	if len(result.Summary) > 0 {
		fmt.Fprintln(w, "--- Summary ---")
		for i, sentence := range result.Summary {
			fmt.Fprintf(w, "%d. %s\n", i+1, sentence)
		}
		fmt.Fprintln(w)
	}
	if len(result.Keywords) > 0 {
		fmt.Fprintln(w, "--- Keywords ---")
		for _, kw := range result.Keywords {
			fmt.Fprintf(w, "%s (%d)\n", kw.Term, kw.Count)
		}
		fmt.Fprintln(w)
	}
	if result.Stats != nil {
		fmt.Fprintln(w, "--- Statistics ---")
		fmt.Fprintf(w, "Characters: %d\n", result.Stats.CharCount)
		fmt.Fprintf(w, "Words: %d\n", result.Stats.WordCount)
		fmt.Fprintf(w, "Sentences: %d\n", result.Stats.SentenceCount)
		fmt.Fprintf(w, "Paragraphs: %d\n", result.Stats.ParagraphCount)
		fmt.Fprintf(w, "Avg sentence length: %.2f words\n", result.Stats.AvgSentenceLength)
		fmt.Fprintf(w, "Avg word length: %.2f characters\n", result.Stats.AvgWordLength)
		fmt.Fprintln(w)
	}
	if result.Report != nil && result.Report.RowCount > 0 {
		fmt.Fprintln(w, "--- Table ---")
		writeReportText(w, result.Report)
	}
}

// WriteDataset writes a dataset to w in the given format. The text form is
// one line per row with the source page first.
func WriteDataset(w io.Writer, ds *models.Dataset, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ds)
	default:
		writeDatasetText(w, ds)
		return nil
	}
}

func writeDatasetText(w io.Writer, ds *models.Dataset) {
	if ds.Empty() {
		fmt.Fprintln(w, "No rows stored.")
		return
	}
	names := ds.ColumnNames()
	fmt.Fprintf(w, "%d rows, %d columns\n\n", len(ds.Records), len(names))
	fmt.Fprintf(w, "page | %s\n", strings.Join(names, " | "))
	for _, rec := range ds.Records {
		values := make([]string, len(names))
		for i, name := range names {
			values[i] = rec.Cells[name]
		}
		fmt.Fprintf(w, "%4d | %s\n", rec.Page, strings.Join(values, " | "))
	}
}

// WriteReport writes a dataset report to w in the given format.
func WriteReport(w io.Writer, report *models.DatasetReport, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	default:
		fmt.Fprintf(w, "%d rows, %d columns\n", report.RowCount, report.ColumnCount)
		writeReportText(w, report)
		return nil
	}
}

func writeReportText(w io.Writer, report *models.DatasetReport) {
	for _, col := range report.Columns {
		if col.Numeric != nil {
			fmt.Fprintf(w, "%s (%s): sum %.2f, mean %.2f, min %.2f, max %.2f\n",
				col.Name, col.Type, col.Numeric.Sum, col.Numeric.Mean, col.Numeric.Min, col.Numeric.Max)
			continue
		}
		fmt.Fprintf(w, "%s (%s): %d distinct values\n", col.Name, col.Type, col.DistinctValues)
	}
}
