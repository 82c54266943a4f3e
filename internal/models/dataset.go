package models

import (
	"strconv"
	"strings"
)

// MissingValue is the sentinel written into cells that have no value after
// transformation. No cell in a transformed dataset is ever empty.
const MissingValue = "N/A"

// ColumnType tags a column's value domain, computed once during transformation.
type ColumnType string

const (
	// ColumnNumeric means every non-missing value parses as a number.
	ColumnNumeric ColumnType = "numeric"
	// ColumnCategorical means no non-missing value parses as a number.
	ColumnCategorical ColumnType = "categorical"
	// ColumnOther covers mixed columns and columns with only missing values.
	ColumnOther ColumnType = "other"
)

// Column is one schema entry of a dataset. Type is empty on raw (untransformed)
// datasets.
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type,omitempty"`
}

// RawTable is a detected tabular region: a header row plus body rows.
// A page contributes at most one.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// TableRecord is one table body row: cell values keyed by column name, plus
// the 1-based source page it was extracted from.
type TableRecord struct {
	Page  int               `json:"page"`
	Cells map[string]string `json:"cells"`
}

// Dataset is an ordered sequence of records sharing one column schema.
// Each extraction pass defines its own schema; no cross-pass reconciliation
// is performed.
type Dataset struct {
	Columns []Column      `json:"columns"`
	Records []TableRecord `json:"records"`
}

// ColumnNames returns the schema names in order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// Empty reports whether the dataset has no records.
func (d *Dataset) Empty() bool {
	return d == nil || len(d.Records) == 0
}

// ParseNumeric parses a cell value as a number. The missing sentinel and
// empty strings never parse.
func ParseNumeric(value string) (float64, bool) {
	v := strings.TrimSpace(value)
	if v == "" || v == MissingValue {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// DetectColumnType classifies a column from its values: numeric when every
// non-missing value parses as a number (and at least one does), categorical
// when none do (and at least one non-missing value exists), other for mixed
// columns or columns with only missing values. Used by the table transformer
// and by the store read path so both derive identical tags.
func DetectColumnType(values []string) ColumnType {
	numeric, text := 0, 0
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" || trimmed == MissingValue {
			continue
		}
		if _, ok := ParseNumeric(trimmed); ok {
			numeric++
		} else {
			text++
		}
	}
	switch {
	case numeric > 0 && text == 0:
		return ColumnNumeric
	case text > 0 && numeric == 0:
		return ColumnCategorical
	default:
		return ColumnOther
	}
}
