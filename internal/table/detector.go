// Package table extracts tabular regions from document pages and normalizes
// them into datasets.
package table

import (
	"sort"
	"strings"

	"github.com/hyperjump/yomitori/internal/models"
)

const (
	defaultYTolerance   = 2.0
	defaultMinColumnGap = 12.0
)

// Detector finds at most one rectangular table on a page: a header row plus
// body rows, or nothing. Implementations must treat a page without a table
// as (nil, nil), not as an error.
type Detector interface {
	Detect(page models.Page) (*models.RawTable, error)
}

// LayoutDetector reconstructs a table from positioned words. Words are
// grouped into lines by vertical proximity; the first line that splits into
// two or more horizontally separated cells becomes the header, and its cell
// spans define the column grid. Following lines are mapped onto that grid
// until a line collapses into a single column, which ends the table.
type LayoutDetector struct {
	yTolerance   float64
	minColumnGap float64
}

// DetectorOption configures a LayoutDetector.
type DetectorOption func(*LayoutDetector)

// WithYTolerance sets the maximum vertical distance, in points, between words
// on the same line.
func WithYTolerance(v float64) DetectorOption {
	return func(d *LayoutDetector) { d.yTolerance = v }
}

// WithMinColumnGap sets the minimum horizontal whitespace, in points, that
// separates two cells on a line.
func WithMinColumnGap(v float64) DetectorOption {
	return func(d *LayoutDetector) { d.minColumnGap = v }
}

// NewLayoutDetector returns a LayoutDetector with default tolerances.
func NewLayoutDetector(opts ...DetectorOption) *LayoutDetector {
	d := &LayoutDetector{
		yTolerance:   defaultYTolerance,
		minColumnGap: defaultMinColumnGap,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect returns the page's table, or nil when the page has none. Pages with
// a pre-extracted table region return a copy of it directly; pages with
// positioned words go through layout reconstruction; pages with neither have
// no table.
func (d *LayoutDetector) Detect(page models.Page) (*models.RawTable, error) {
	if page.Table != nil {
		return copyTable(page.Table), nil
	}
	if len(page.Words) == 0 {
		return nil, nil
	}

	lines := groupLines(page.Words, d.yTolerance)

	var header []cell
	var columns []columnSpan
	var rows [][]string
	for _, line := range lines {
		if header == nil {
			cells := d.splitCells(line)
			if len(cells) < 2 {
				continue
			}
			header = cells
			columns = columnSpans(cells)
			continue
		}

		row, filled := assignToColumns(line, columns)
		if filled < 2 {
			break
		}
		rows = append(rows, row)
	}

	if header == nil || len(rows) == 0 {
		return nil, nil
	}

	names := make([]string, len(header))
	for i, c := range header {
		names[i] = c.text()
	}
	return &models.RawTable{Header: names, Rows: rows}, nil
}

// cell is a run of words on one line with no column-sized gap between them.
type cell struct {
	words []models.Word
}

func (c cell) text() string {
	parts := make([]string, len(c.words))
	for i, w := range c.words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

func (c cell) left() float64 {
	return c.words[0].X
}

func (c cell) right() float64 {
	last := c.words[len(c.words)-1]
	return last.X + last.W
}

// columnSpan is the horizontal interval owned by one column. Boundaries sit
// at the midpoints between adjacent header cells.
type columnSpan struct {
	rightBoundary float64
	last          bool
}

func columnSpans(header []cell) []columnSpan {
	spans := make([]columnSpan, len(header))
	for i := range header {
		if i == len(header)-1 {
			spans[i].last = true
			continue
		}
		spans[i].rightBoundary = (header[i].right() + header[i+1].left()) / 2
	}
	return spans
}

func columnFor(w models.Word, columns []columnSpan) int {
	center := w.X + w.W/2
	for i, span := range columns {
		if span.last || center < span.rightBoundary {
			return i
		}
	}
	return len(columns) - 1
}

// assignToColumns distributes a line's words over the column grid and returns
// the cell texts plus the number of distinct columns that received a word.
func assignToColumns(line []models.Word, columns []columnSpan) ([]string, int) {
	row := make([]string, len(columns))
	filled := 0
	for _, w := range line {
		i := columnFor(w, columns)
		if row[i] == "" {
			filled++
		} else {
			row[i] += " "
		}
		row[i] += w.Text
	}
	return row, filled
}

// groupLines buckets words into lines top-down. PDF y coordinates grow
// upward, so higher y means earlier on the page. Each line is sorted by x.
func groupLines(words []models.Word, yTolerance float64) [][]models.Word {
	sorted := append([]models.Word(nil), words...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines [][]models.Word
	var current []models.Word
	var anchorY float64
	for _, w := range sorted {
		if len(current) > 0 && anchorY-w.Y > yTolerance {
			lines = append(lines, current)
			current = nil
		}
		if len(current) == 0 {
			anchorY = w.Y
		}
		current = append(current, w)
	}
	if len(current) > 0 {
		lines = append(lines, current)
	}

	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })
	}
	return lines
}

// splitCells breaks an x-sorted line into cells wherever the horizontal gap
// between consecutive words reaches the column gap threshold.
func (d *LayoutDetector) splitCells(line []models.Word) []cell {
	var cells []cell
	var current []models.Word
	for _, w := range line {
		if len(current) > 0 {
			prev := current[len(current)-1]
			if w.X-(prev.X+prev.W) >= d.minColumnGap {
				cells = append(cells, cell{words: current})
				current = nil
			}
		}
		current = append(current, w)
	}
	if len(current) > 0 {
		cells = append(cells, cell{words: current})
	}
	return cells
}

func copyTable(t *models.RawTable) *models.RawTable {
	out := &models.RawTable{
		Header: append([]string(nil), t.Header...),
		Rows:   make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}
