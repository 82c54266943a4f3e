package e2e

import (
	"strings"
	"testing"

	"github.com/hyperjump/yomitori/internal/extract"
	"github.com/hyperjump/yomitori/internal/table"
)

func TestWriteMinimalFile_AllExtensionsExtractable(t *testing.T) {
	e := extract.NewExtractor()
	sample := "E2E analyzable content"
	for _, ext := range SupportedFileExtensions {
		ext := ext
		t.Run(ext, func(t *testing.T) {
			content, err := WriteMinimalFile(ext, sample)
			if err != nil {
				t.Fatalf("WriteMinimalFile: %v", err)
			}
			if len(content) == 0 {
				t.Fatal("empty content")
			}
			doc, warnings, err := e.ExtractBytes(content, ext, "doc"+ext)
			if err != nil {
				t.Fatalf("ExtractBytes: %v", err)
			}
			if len(warnings) > 0 {
				t.Errorf("unexpected warnings: %v", warnings)
			}
			if !strings.Contains(doc.RawText, sample) {
				t.Errorf("extracted text %q does not contain %q", doc.RawText, sample)
			}
		})
	}
}

func TestInvoicePage_DetectedAsTable(t *testing.T) {
	page := InvoicePage(1,
		[]string{"Item Description", "Qty", "Total"},
		[][]string{
			{"Standard Widget", "4", "120.00"},
			{"Deluxe Widget", "2", "180.50"},
		})

	got, err := table.NewLayoutDetector().Detect(page)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if got == nil {
		t.Fatal("no table detected on invoice page")
	}

	wantHeader := []string{"Item Description", "Qty", "Total"}
	if len(got.Header) != len(wantHeader) {
		t.Fatalf("header = %v, want %v", got.Header, wantHeader)
	}
	for i, name := range wantHeader {
		if got.Header[i] != name {
			t.Errorf("header %d = %q, want %q", i, got.Header[i], name)
		}
	}
	if len(got.Rows) != 2 {
		t.Fatalf("detected %d rows, want 2", len(got.Rows))
	}
	if got.Rows[0][0] != "Standard Widget" || got.Rows[0][2] != "120.00" {
		t.Errorf("first row = %v", got.Rows[0])
	}
}
