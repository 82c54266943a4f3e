package table

import (
	"reflect"
	"testing"

	"github.com/hyperjump/yomitori/internal/models"
)

func rawDataset() *models.Dataset {
	return &models.Dataset{
		Columns: []models.Column{{Name: "Item Description"}, {Name: "Total"}},
		Records: []models.TableRecord{
			{Page: 1, Cells: map[string]string{"Item Description": "Widget", "Total": "10"}},
		},
	}
}

func TestNormalizeColumnName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Item Description", "item_description"},
		{"  Total  ", "total"},
		{"UNIT PRICE", "unit_price"},
		{"already_normal", "already_normal"},
		{"a  b", "a__b"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeColumnName(tt.in); got != tt.want {
			t.Errorf("NormalizeColumnName(%q) = %q, want %q", tt.in, got, tt.want)
		}
		// Idempotence: normalizing a normalized name is a no-op.
		if got := NormalizeColumnName(NormalizeColumnName(tt.in)); got != tt.want {
			t.Errorf("double NormalizeColumnName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTransformer_normalizesSchemaKeepsValues(t *testing.T) {
	tr := NewTransformer()

	got := tr.Transform(rawDataset())

	want := []string{"item_description", "total"}
	if names := got.ColumnNames(); !reflect.DeepEqual(names, want) {
		t.Errorf("columns = %v, want %v", names, want)
	}
	rec := got.Records[0]
	if rec.Cells["item_description"] != "Widget" || rec.Cells["total"] != "10" {
		t.Errorf("record values changed: %v", rec.Cells)
	}
	if rec.Page != 1 {
		t.Errorf("provenance page = %d, want 1", rec.Page)
	}
}

func TestTransformer_fillsMissingCells(t *testing.T) {
	tr := NewTransformer()
	ds := &models.Dataset{
		Columns: []models.Column{{Name: "Item"}, {Name: "Qty"}, {Name: "Price"}},
		Records: []models.TableRecord{
			{Page: 1, Cells: map[string]string{"Item": "Widget", "Qty": "2", "Price": "9.99"}},
			{Page: 1, Cells: map[string]string{"Item": "Cable", "Qty": "  "}},
		},
	}

	got := tr.Transform(ds)

	rec := got.Records[1]
	if rec.Cells["qty"] != models.MissingValue {
		t.Errorf("blank cell = %q, want sentinel %q", rec.Cells["qty"], models.MissingValue)
	}
	if rec.Cells["price"] != models.MissingValue {
		t.Errorf("absent cell = %q, want sentinel %q", rec.Cells["price"], models.MissingValue)
	}
	for _, rec := range got.Records {
		for name, v := range rec.Cells {
			if v == "" {
				t.Errorf("cell %q left empty after transform", name)
			}
		}
	}
}

func TestTransformer_customSentinel(t *testing.T) {
	tr := NewTransformer(WithSentinel("missing"))
	ds := &models.Dataset{
		Columns: []models.Column{{Name: "Item"}},
		Records: []models.TableRecord{{Page: 1, Cells: map[string]string{}}},
	}

	got := tr.Transform(ds)
	if got.Records[0].Cells["item"] != "missing" {
		t.Errorf("cell = %q, want custom sentinel", got.Records[0].Cells["item"])
	}
}

func TestTransformer_typeTags(t *testing.T) {
	tr := NewTransformer()
	ds := &models.Dataset{
		Columns: []models.Column{{Name: "Item"}, {Name: "Qty"}, {Name: "Note"}, {Name: "Empty"}},
		Records: []models.TableRecord{
			{Page: 1, Cells: map[string]string{"Item": "Widget", "Qty": "2", "Note": "fragile"}},
			{Page: 1, Cells: map[string]string{"Item": "Cable", "Qty": "10", "Note": "5"}},
			{Page: 2, Cells: map[string]string{"Item": "Bolt", "Qty": ""}},
		},
	}

	got := tr.Transform(ds)

	wantTypes := map[string]models.ColumnType{
		"item":  models.ColumnCategorical,
		"qty":   models.ColumnNumeric, // blanks read as missing, not as text
		"note":  models.ColumnOther,   // mixed numeric and text
		"empty": models.ColumnOther,   // no values at all
	}
	for _, col := range got.Columns {
		if col.Type != wantTypes[col.Name] {
			t.Errorf("column %q type = %q, want %q", col.Name, col.Type, wantTypes[col.Name])
		}
	}
}

func TestTransformer_collidingColumnsMerge(t *testing.T) {
	tr := NewTransformer()
	ds := &models.Dataset{
		Columns: []models.Column{{Name: "Total "}, {Name: "total"}},
		Records: []models.TableRecord{
			{Page: 1, Cells: map[string]string{"Total ": "10", "total": "20"}},
			{Page: 1, Cells: map[string]string{"Total ": "30"}},
		},
	}

	got := tr.Transform(ds)

	if len(got.Columns) != 1 || got.Columns[0].Name != "total" {
		t.Fatalf("columns = %v, want the single merged column total", got.ColumnNames())
	}
	// Last colliding column with a value wins; otherwise fall back to the
	// one that has one.
	if got.Records[0].Cells["total"] != "20" {
		t.Errorf("merged cell = %q, want 20", got.Records[0].Cells["total"])
	}
	if got.Records[1].Cells["total"] != "30" {
		t.Errorf("merged cell = %q, want 30", got.Records[1].Cells["total"])
	}
}

func TestTransformer_emptyDataset(t *testing.T) {
	tr := NewTransformer()

	if got := tr.Transform(nil); !got.Empty() {
		t.Errorf("Transform(nil) = %+v, want empty", got)
	}
	if got := tr.Transform(&models.Dataset{}); !got.Empty() {
		t.Errorf("Transform(empty) = %+v, want empty", got)
	}
}

func TestTransformer_inputNotMutated(t *testing.T) {
	tr := NewTransformer()
	ds := rawDataset()

	_ = tr.Transform(ds)

	if ds.Columns[0].Name != "Item Description" {
		t.Error("input column name was mutated")
	}
	if ds.Records[0].Cells["Item Description"] != "Widget" {
		t.Error("input record was mutated")
	}
	if ds.Columns[0].Type != "" {
		t.Error("input column type was set in place")
	}
}

func TestTransformer_transformTwiceIsStable(t *testing.T) {
	tr := NewTransformer()
	ds := &models.Dataset{
		Columns: []models.Column{{Name: "Item"}, {Name: "Qty"}},
		Records: []models.TableRecord{
			{Page: 1, Cells: map[string]string{"Item": "Widget"}},
		},
	}

	once := tr.Transform(ds)
	twice := tr.Transform(once)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second transform changed the dataset:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}
