package table

import (
	"strings"

	"github.com/hyperjump/yomitori/internal/models"
)

// Transformer normalizes a raw dataset: column names are trimmed, lowercased,
// and de-spaced; missing cells are filled with a sentinel; every column gets
// a type tag computed once here so consumers never re-infer it. The input
// dataset is not modified.
type Transformer struct {
	sentinel string
}

// TransformerOption configures a Transformer.
type TransformerOption func(*Transformer)

// WithSentinel replaces the default missing-value marker.
func WithSentinel(s string) TransformerOption {
	return func(t *Transformer) { t.sentinel = s }
}

// NewTransformer returns a Transformer using models.MissingValue as the
// sentinel.
func NewTransformer(opts ...TransformerOption) *Transformer {
	t := &Transformer{sentinel: models.MissingValue}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NormalizeColumnName trims, lowercases, and replaces spaces with
// underscores. Already-normalized names pass through unchanged, so the
// operation is idempotent.
func NormalizeColumnName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, " ", "_")
}

// Transform returns a normalized copy of ds. Columns whose names collide
// after normalization are merged; per record, the last colliding column with
// a non-empty value wins. An empty dataset transforms into an empty dataset.
func (t *Transformer) Transform(ds *models.Dataset) *models.Dataset {
	out := &models.Dataset{}
	if ds == nil || ds.Empty() {
		return out
	}

	seen := make(map[string]bool)
	rawByNorm := make(map[string][]string)
	for _, col := range ds.Columns {
		norm := NormalizeColumnName(col.Name)
		rawByNorm[norm] = append(rawByNorm[norm], col.Name)
		if !seen[norm] {
			seen[norm] = true
			out.Columns = append(out.Columns, models.Column{Name: norm})
		}
	}

	// Rebuild records keyed by normalized names. Iterating the declared
	// column order keeps collision resolution deterministic.
	out.Records = make([]models.TableRecord, len(ds.Records))
	for i, rec := range ds.Records {
		cells := make(map[string]string, len(out.Columns))
		for _, col := range out.Columns {
			value := ""
			for _, raw := range rawByNorm[col.Name] {
				if v, ok := rec.Cells[raw]; ok && strings.TrimSpace(v) != "" {
					value = v
				}
			}
			cells[col.Name] = value
		}
		out.Records[i] = models.TableRecord{Page: rec.Page, Cells: cells}
	}

	// Type tags are computed on the pre-fill values so blanks read as
	// missing, then every blank is replaced with the sentinel.
	for c := range out.Columns {
		name := out.Columns[c].Name
		values := make([]string, len(out.Records))
		for r, rec := range out.Records {
			values[r] = rec.Cells[name]
		}
		out.Columns[c].Type = models.DetectColumnType(values)
	}
	for _, rec := range out.Records {
		for name, v := range rec.Cells {
			if strings.TrimSpace(v) == "" {
				rec.Cells[name] = t.sentinel
			}
		}
	}
	return out
}
