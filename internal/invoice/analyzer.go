// Package invoice reports per-column aggregates over a normalized dataset.
package invoice

import (
	"github.com/hyperjump/yomitori/internal/models"
	"github.com/hyperjump/yomitori/pkg/utils"
)

// Analyzer summarizes a dataset column by column, trusting the type tags the
// transformer computed: numeric columns get sum, mean, min, and max over
// their present values; all other columns get a distinct-value count. The
// missing-value sentinel is not a value and never enters an aggregate.
type Analyzer struct {
	sentinel string
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithSentinel sets the marker to ignore in aggregates, when the dataset was
// transformed with a non-default one.
func WithSentinel(s string) AnalyzerOption {
	return func(a *Analyzer) { a.sentinel = s }
}

// NewAnalyzer returns an Analyzer expecting models.MissingValue as the
// sentinel.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{sentinel: models.MissingValue}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze returns the report for ds. An empty or nil dataset yields an empty
// report, never an error.
func (a *Analyzer) Analyze(ds *models.Dataset) *models.DatasetReport {
	report := &models.DatasetReport{}
	if ds == nil || ds.Empty() {
		return report
	}

	report.RowCount = len(ds.Records)
	report.ColumnCount = len(ds.Columns)
	for _, col := range ds.Columns {
		cs := models.ColumnSummary{Name: col.Name, Type: col.Type}
		if col.Type == models.ColumnNumeric {
			cs.Numeric = a.numericSummary(ds, col.Name)
		} else {
			cs.DistinctValues = a.distinctCount(ds, col.Name)
		}
		report.Columns = append(report.Columns, cs)
	}
	return report
}

func (a *Analyzer) numericSummary(ds *models.Dataset, column string) *models.NumericSummary {
	var values []float64
	for _, rec := range ds.Records {
		if v, ok := models.ParseNumeric(rec.Cells[column]); ok {
			values = append(values, v)
		}
	}
	lo, hi := utils.MinMax(values)
	return &models.NumericSummary{
		Sum:  utils.Sum(values),
		Mean: utils.Mean(values),
		Min:  lo,
		Max:  hi,
	}
}

func (a *Analyzer) distinctCount(ds *models.Dataset, column string) int {
	distinct := make(map[string]bool)
	for _, rec := range ds.Records {
		v := rec.Cells[column]
		if v == "" || v == a.sentinel {
			continue
		}
		distinct[v] = true
	}
	return len(distinct)
}
