package models

import "time"

// Keyword is a ranked term with its frequency count.
type Keyword struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// DocumentStats holds corpus-level counts and averages for one document.
// Averages are 0 when their denominator is 0.
type DocumentStats struct {
	CharCount         int     `json:"char_count"`
	WordCount         int     `json:"word_count"`
	SentenceCount     int     `json:"sentence_count"`
	ParagraphCount    int     `json:"paragraph_count"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	AvgWordLength     float64 `json:"avg_word_length"`
}

// NumericSummary holds aggregates over a numeric column's non-missing values.
type NumericSummary struct {
	Sum  float64 `json:"sum"`
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// ColumnSummary reports one column: numeric aggregates for numeric columns,
// distinct-value cardinality for everything else.
type ColumnSummary struct {
	Name           string          `json:"name"`
	Type           ColumnType      `json:"type"`
	Numeric        *NumericSummary `json:"numeric,omitempty"`
	DistinctValues int             `json:"distinct_values,omitempty"`
}

// DatasetReport is the per-column report over a normalized dataset.
type DatasetReport struct {
	RowCount    int             `json:"row_count"`
	ColumnCount int             `json:"column_count"`
	Columns     []ColumnSummary `json:"columns,omitempty"`
}

// AnalysisResult is the single immutable result object produced by one
// pipeline run. Callers thread it to whichever consumer needs it; the
// pipeline keeps no state between runs.
type AnalysisResult struct {
	RunID     string         `json:"run_id"`
	DocID     string         `json:"doc_id"`
	Source    string         `json:"source,omitempty"`
	PageCount int            `json:"page_count"`
	Text      string         `json:"text"`
	Summary   []string       `json:"summary"`
	Keywords  []Keyword      `json:"keywords,omitempty"`
	Stats     *DocumentStats `json:"stats,omitempty"`
	Dataset   *Dataset       `json:"dataset,omitempty"`
	Report    *DatasetReport `json:"report,omitempty"`
	Warnings  []string       `json:"warnings,omitempty"`
	ElapsedMS int64          `json:"elapsed_ms"`
	CreatedAt time.Time      `json:"created_at"`
}
