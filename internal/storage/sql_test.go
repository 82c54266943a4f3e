package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hyperjump/yomitori/internal/models"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	store, err := NewSQLStore(Params{
		Driver: DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("NewSQLStore() error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testDataset() *models.Dataset {
	return &models.Dataset{
		Columns: []models.Column{
			{Name: "item", Type: models.ColumnCategorical},
			{Name: "qty", Type: models.ColumnNumeric},
			{Name: "price", Type: models.ColumnNumeric},
		},
		Records: []models.TableRecord{
			{Page: 1, Cells: map[string]string{"item": "Widget", "qty": "2", "price": "9.99"}},
			{Page: 1, Cells: map[string]string{"item": "Cable", "qty": "10", "price": models.MissingValue}},
			{Page: 2, Cells: map[string]string{"item": "Bolt", "qty": "3", "price": "4.50"}},
		},
	}
}

func TestSQLStore_roundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ds := testDataset()

	if err := store.ReplaceAll(ctx, "invoice_data", ds); err != nil {
		t.Fatalf("ReplaceAll() error: %v", err)
	}

	got, err := store.ReadAll(ctx, "invoice_data")
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}

	// Values, row order, provenance, and re-derived type tags all survive.
	if !reflect.DeepEqual(got, ds) {
		t.Errorf("ReadAll() = %+v,\nwant %+v", got, ds)
	}
}

func TestSQLStore_saveReplacesEverything(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.ReplaceAll(ctx, "invoice_data", testDataset()); err != nil {
		t.Fatalf("first ReplaceAll() error: %v", err)
	}

	second := &models.Dataset{
		Columns: []models.Column{{Name: "vendor", Type: models.ColumnCategorical}},
		Records: []models.TableRecord{
			{Page: 1, Cells: map[string]string{"vendor": "Acme"}},
		},
	}
	if err := store.ReplaceAll(ctx, "invoice_data", second); err != nil {
		t.Fatalf("second ReplaceAll() error: %v", err)
	}

	got, err := store.ReadAll(ctx, "invoice_data")
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if !reflect.DeepEqual(got, second) {
		t.Errorf("ReadAll() after replace = %+v, want only the second dataset", got)
	}
}

func TestSQLStore_readBeforeAnySave(t *testing.T) {
	store := newTestStore(t)

	got, err := store.ReadAll(context.Background(), "never_written")
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if !got.Empty() {
		t.Errorf("ReadAll() on missing table = %+v, want empty dataset", got)
	}
}

func TestSQLStore_emptyDatasetClearsTable(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.ReplaceAll(ctx, "invoice_data", testDataset()); err != nil {
		t.Fatalf("ReplaceAll() error: %v", err)
	}
	if err := store.ReplaceAll(ctx, "invoice_data", &models.Dataset{}); err != nil {
		t.Fatalf("ReplaceAll(empty) error: %v", err)
	}

	got, err := store.ReadAll(ctx, "invoice_data")
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if !got.Empty() {
		t.Errorf("ReadAll() after clearing = %+v, want empty dataset", got)
	}
}

func TestSQLStore_awkwardIdentifiers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ds := &models.Dataset{
		Columns: []models.Column{{Name: "price_(usd)", Type: models.ColumnNumeric}},
		Records: []models.TableRecord{
			{Page: 1, Cells: map[string]string{"price_(usd)": "12.50"}},
		},
	}
	if err := store.ReplaceAll(ctx, "invoice_data", ds); err != nil {
		t.Fatalf("ReplaceAll() error: %v", err)
	}

	got, err := store.ReadAll(ctx, "invoice_data")
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if got.Records[0].Cells["price_(usd)"] != "12.50" {
		t.Errorf("cell = %q, want 12.50", got.Records[0].Cells["price_(usd)"])
	}
}

func TestSQLStore_emptyTableName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.ReplaceAll(ctx, "", testDataset()); err == nil {
		t.Error("ReplaceAll with empty table name should fail")
	}
	if _, err := store.ReadAll(ctx, ""); err == nil {
		t.Error("ReadAll with empty table name should fail")
	}
}

func TestNewSQLStore_unsupportedDriver(t *testing.T) {
	if _, err := NewSQLStore(Params{Driver: "postgres"}); err == nil {
		t.Error("NewSQLStore with unsupported driver should fail")
	}
}

func TestNewSQLStore_createsParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "test.db")
	store, err := NewSQLStore(Params{Driver: DriverSQLite, Path: path})
	if err != nil {
		t.Fatalf("NewSQLStore() error: %v", err)
	}
	defer store.Close()

	if err := store.ReplaceAll(context.Background(), "t", testDataset()); err != nil {
		t.Errorf("ReplaceAll() error: %v", err)
	}
}
