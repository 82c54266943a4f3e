// Package e2e provides end-to-end tests over a corpus of synthetic invoices.
package e2e

import (
	"fmt"
	"time"

	"github.com/hyperjump/yomitori/internal/models"
)

// E2EDocument is one synthetic invoice: a narrative page plus a tabular page.
type E2EDocument struct {
	ID     string
	Source string
	Text   string
	Header []string
	Rows   [][]string
}

// AnalysisCase states what the pipeline must produce for one corpus document.
// TopKeyword is chosen so the snowball stem equals the word itself, making
// the expected ranking independent of lemmatizer internals.
type AnalysisCase struct {
	DocID       string
	TopKeyword  string
	TableRows   int
	Description string
}

// Corpus holds documents and their analysis expectations for E2E tests.
type Corpus struct {
	Documents  []E2EDocument
	Cases      []AnalysisCase
	TotalDocs  int
	TotalCases int
}

// Each topic's signature word is repeated more often than any other content
// word in its narrative, so it must rank first among the keywords.
var topics = []struct {
	signature string
	rows      [][]string
}{
	{"widget", [][]string{{"Standard Widget", "4", "120.00"}, {"Deluxe Widget", "2", "180.50"}}},
	{"gasket", [][]string{{"Rubber Gasket", "24", "48.00"}, {"Metal Gasket", "12", "96.00"}, {"Gasket Kit", "1", "35.75"}}},
	{"brick", [][]string{{"Red Brick", "500", "250.00"}, {"Fire Brick", "80", "210.00"}}},
	{"steel", [][]string{{"Steel Beam", "6", "840.00"}, {"Steel Plate", "10", "455.00"}, {"Steel Rod", "40", "160.00"}}},
	{"paint", [][]string{{"White Paint", "8", "176.00"}, {"Primer", "4", "72.00"}}},
	{"bolt", [][]string{{"Hex Bolt", "200", "60.00"}, {"Anchor Bolt", "50", "87.50"}, {"Carriage Bolt", "100", "45.00"}}},
	{"drill", [][]string{{"Cordless Drill", "2", "318.00"}, {"Drill Bits", "5", "62.50"}}},
	{"pump", [][]string{{"Water Pump", "1", "415.00"}, {"Pump Seal", "3", "27.00"}}},
}

// BuildCorpus returns a corpus of synthetic invoice documents with one
// analysis expectation per document.
func BuildCorpus() *Corpus {
	header := []string{"Item Description", "Qty", "Total"}
	c := &Corpus{}
	for i, topic := range topics {
		id := fmt.Sprintf("invoice-%03d", i+1)
		c.Documents = append(c.Documents, E2EDocument{
			ID:     id,
			Source: id + ".pdf",
			Text:   narrative(topic.signature),
			Header: header,
			Rows:   topic.rows,
		})
		c.Cases = append(c.Cases, AnalysisCase{
			DocID:       id,
			TopKeyword:  topic.signature,
			TableRows:   len(topic.rows),
			Description: fmt.Sprintf("%s invoice", topic.signature),
		})
	}
	c.TotalDocs = len(c.Documents)
	c.TotalCases = len(c.Cases)
	return c
}

// narrative builds five sentences that mention the signature word five times;
// every other content word appears at most twice.
func narrative(signature string) string {
	return fmt.Sprintf("The %s shipment arrived on schedule this week. "+
		"Each %s passed inspection without defects. "+
		"Warehouse staff counted every %s against the manifest. "+
		"The %s order closes at month end.\n\n"+
		"Billing covers %s units only, freight excluded.",
		signature, signature, signature, signature, signature)
}

// BuildDocument assembles the models.Document the pipeline would see after
// extraction: page 1 narrative text, page 2 positioned-word table.
func (d *E2EDocument) BuildDocument() *models.Document {
	pages := []models.Page{
		{Number: 1, Text: d.Text},
		InvoicePage(2, d.Header, d.Rows),
	}
	return &models.Document{
		ID:        d.ID,
		Source:    d.Source,
		RawText:   d.Text,
		Pages:     pages,
		CreatedAt: time.Now(),
	}
}
