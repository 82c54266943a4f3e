package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hyperjump/yomitori/internal/models"
)

func sampleAnalysis() *models.AnalysisResult {
	return &models.AnalysisResult{
		RunID:     "run-1",
		DocID:     "doc:abc",
		Source:    "/data/march.pdf",
		PageCount: 2,
		Text:      "Cats eat fish. Fish swim fast.",
		Summary:   []string{"Cats eat fish.", "Fish swim fast."},
		Keywords:  []models.Keyword{{Term: "cat", Count: 3}, {Term: "fish", Count: 2}},
		Stats: &models.DocumentStats{
			CharCount:         30,
			WordCount:         6,
			SentenceCount:     2,
			ParagraphCount:    1,
			AvgSentenceLength: 3,
			AvgWordLength:     4.2,
		},
		Report: &models.DatasetReport{
			RowCount:    1,
			ColumnCount: 2,
			Columns: []models.ColumnSummary{
				{Name: "item_description", Type: models.ColumnCategorical, DistinctValues: 1},
				{Name: "total", Type: models.ColumnNumeric, Numeric: &models.NumericSummary{Sum: 10, Mean: 10, Min: 10, Max: 10}},
			},
		},
		Warnings:  []string{"page 2: table detection failed: camelot choked"},
		ElapsedMS: 12,
	}
}

func TestWriteAnalysisResult_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAnalysisResult(&buf, sampleAnalysis(), OutputJSON); err != nil {
		t.Fatalf("WriteAnalysisResult(json): %v", err)
	}
	var decoded models.AnalysisResult
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.DocID != "doc:abc" || decoded.RunID != "run-1" {
		t.Errorf("decoded doc_id=%q run_id=%q", decoded.DocID, decoded.RunID)
	}
	if len(decoded.Summary) != 2 || len(decoded.Keywords) != 2 {
		t.Errorf("decoded summary=%v keywords=%v", decoded.Summary, decoded.Keywords)
	}
}

func TestWriteAnalysisResult_text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAnalysisResult(&buf, sampleAnalysis(), OutputText); err != nil {
		t.Fatalf("WriteAnalysisResult(text): %v", err)
	}
	out := buf.String()
	for _, sub := range []string{
		"Analyzed /data/march.pdf in 12ms (2 pages)",
		"warning: page 2",
		"--- Summary ---",
		"1. Cats eat fish.",
		"--- Keywords ---",
		"cat (3)",
		"--- Statistics ---",
		"Words: 6",
		"Avg sentence length: 3.00 words",
		"--- Table ---",
		"total (numeric): sum 10.00",
		"item_description (categorical): 1 distinct values",
	} {
		if !strings.Contains(out, sub) {
			t.Errorf("text output missing %q:\n%s", sub, out)
		}
	}
}

func TestWriteAnalysisResult_text_emptyResult(t *testing.T) {
	var buf bytes.Buffer
	result := &models.AnalysisResult{DocID: "doc:empty", Summary: []string{}}
	if err := WriteAnalysisResult(&buf, result, OutputText); err != nil {
		t.Fatalf("WriteAnalysisResult(text): %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Analyzed doc:empty") {
		t.Errorf("expected doc id fallback in header:\n%s", out)
	}
	for _, sub := range []string{"--- Summary ---", "--- Keywords ---", "--- Table ---"} {
		if strings.Contains(out, sub) {
			t.Errorf("empty result should skip section %q:\n%s", sub, out)
		}
	}
}

func TestWriteAnalysisResult_unknownFormatTreatedAsText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAnalysisResult(&buf, sampleAnalysis(), OutputFormat("unknown")); err != nil {
		t.Fatalf("WriteAnalysisResult(unknown): %v", err)
	}
	if !strings.Contains(buf.String(), "Analyzed") {
		t.Errorf("unknown format should fall back to text; got %q", buf.String())
	}
}

func sampleDataset() *models.Dataset {
	return &models.Dataset{
		Columns: []models.Column{
			{Name: "item_description", Type: models.ColumnCategorical},
			{Name: "total", Type: models.ColumnNumeric},
		},
		Records: []models.TableRecord{
			{Page: 1, Cells: map[string]string{"item_description": "Widget", "total": "10"}},
			{Page: 2, Cells: map[string]string{"item_description": "Cable", "total": "5"}},
		},
	}
}

func TestWriteDataset_text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDataset(&buf, sampleDataset(), OutputText); err != nil {
		t.Fatalf("WriteDataset(text): %v", err)
	}
	out := buf.String()
	for _, sub := range []string{
		"2 rows, 2 columns",
		"page | item_description | total",
		"1 | Widget | 10",
		"2 | Cable | 5",
	} {
		if !strings.Contains(out, sub) {
			t.Errorf("dataset output missing %q:\n%s", sub, out)
		}
	}
}

func TestWriteDataset_text_empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDataset(&buf, &models.Dataset{}, OutputText); err != nil {
		t.Fatalf("WriteDataset(text): %v", err)
	}
	if !strings.Contains(buf.String(), "No rows stored.") {
		t.Errorf("empty dataset output = %q", buf.String())
	}
}

func TestWriteDataset_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDataset(&buf, sampleDataset(), OutputJSON); err != nil {
		t.Fatalf("WriteDataset(json): %v", err)
	}
	var decoded models.Dataset
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Records) != 2 || decoded.Records[0].Cells["total"] != "10" {
		t.Errorf("decoded dataset = %+v", decoded)
	}
}

func TestWriteReport(t *testing.T) {
	report := &models.DatasetReport{
		RowCount:    3,
		ColumnCount: 1,
		Columns: []models.ColumnSummary{
			{Name: "qty", Type: models.ColumnNumeric, Numeric: &models.NumericSummary{Sum: 6, Mean: 2, Min: 1, Max: 3}},
		},
	}

	var buf bytes.Buffer
	if err := WriteReport(&buf, report, OutputText); err != nil {
		t.Fatalf("WriteReport(text): %v", err)
	}
	out := buf.String()
	for _, sub := range []string{"3 rows, 1 columns", "qty (numeric): sum 6.00, mean 2.00, min 1.00, max 3.00"} {
		if !strings.Contains(out, sub) {
			t.Errorf("report output missing %q:\n%s", sub, out)
		}
	}

	buf.Reset()
	if err := WriteReport(&buf, report, OutputJSON); err != nil {
		t.Fatalf("WriteReport(json): %v", err)
	}
	var decoded models.DatasetReport
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.RowCount != 3 || len(decoded.Columns) != 1 {
		t.Errorf("decoded report = %+v", decoded)
	}
}
