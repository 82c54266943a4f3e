package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/yomitori/internal/models"
)

// DriverSQLite and DriverMySQL are the supported Params.Driver values.
const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

// Params describes a store connection. The target table is not part of the
// connection; callers name it per operation.
type Params struct {
	Driver   string
	Path     string // sqlite3 database file
	Host     string // mysql
	Port     int    // mysql
	User     string // mysql
	Password string // mysql
	Database string // mysql
}

// SQLStore implements Store on SQLite or MySQL. Dataset columns are stored
// as TEXT next to the row's source page; the schema of the target table is
// rebuilt on every save.
type SQLStore struct {
	db     *sql.DB
	driver string
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore opens a connection for the given parameters and verifies it.
// For SQLite, parent directories of the database file are created and WAL
// journaling is enabled.
func NewSQLStore(p Params) (*SQLStore, error) {
	var db *sql.DB
	var err error

	switch p.Driver {
	case DriverSQLite:
		if dir := filepath.Dir(p.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		db, err = sql.Open("sqlite3", p.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL: %w", err)
		}
	case DriverMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
			p.User, p.Password, p.Host, p.Port, p.Database)
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to connect to %s:%d: %w", p.Host, p.Port, err)
		}
	default:
		return nil, fmt.Errorf("unsupported store driver: %q", p.Driver)
	}

	return &SQLStore{db: db, driver: p.Driver}, nil
}

// ReplaceAll drops and recreates the table, then inserts every record in one
// transaction. Cell values are written verbatim.
func (s *SQLStore) ReplaceAll(ctx context.Context, table string, ds *models.Dataset) error {
	if table == "" {
		return fmt.Errorf("empty table name")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+s.quote(table)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", table, err)
	}

	if ds == nil || ds.Empty() {
		return tx.Commit()
	}

	names := ds.ColumnNames()
	if _, err := tx.ExecContext(ctx, s.createTableDDL(table, names)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}

	stmt, err := tx.PrepareContext(ctx, s.insertSQL(table, names))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range ds.Records {
		args := make([]any, 0, len(names)+1)
		args = append(args, rec.Page)
		for _, name := range names {
			args = append(args, rec.Cells[name])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row: %w", err)
		}
	}
	return tx.Commit()
}

// ReadAll returns the table's rows in insertion order, with column types
// re-derived from the stored values. A missing table reads as an empty
// dataset.
func (s *SQLStore) ReadAll(ctx context.Context, table string) (*models.Dataset, error) {
	if table == "" {
		return nil, fmt.Errorf("empty table name")
	}

	exists, err := s.tableExists(ctx, table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return &models.Dataset{}, nil
	}

	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+s.quote(table)+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	// Column order is id, source_page, then the dataset columns as written.
	if len(cols) < 2 {
		return nil, fmt.Errorf("table %s has no data columns", table)
	}
	names := cols[2:]

	ds := &models.Dataset{}
	for _, name := range names {
		ds.Columns = append(ds.Columns, models.Column{Name: name})
	}

	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		page, _ := strconv.Atoi(values[1].String)
		cells := make(map[string]string, len(names))
		for i, name := range names {
			cells[name] = values[i+2].String
		}
		ds.Records = append(ds.Records, models.TableRecord{Page: page, Cells: cells})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range ds.Columns {
		name := ds.Columns[i].Name
		values := make([]string, len(ds.Records))
		for r, rec := range ds.Records {
			values[r] = rec.Cells[name]
		}
		ds.Columns[i].Type = models.DetectColumnType(values)
	}
	return ds, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) createTableDDL(table string, names []string) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(s.quote(table))
	if s.driver == DriverMySQL {
		b.WriteString(" (id INTEGER AUTO_INCREMENT PRIMARY KEY, source_page INTEGER")
	} else {
		b.WriteString(" (id INTEGER PRIMARY KEY AUTOINCREMENT, source_page INTEGER")
	}
	for _, name := range names {
		b.WriteString(", ")
		b.WriteString(s.quote(name))
		b.WriteString(" TEXT")
	}
	b.WriteString(")")
	return b.String()
}

func (s *SQLStore) insertSQL(table string, names []string) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(s.quote(table))
	b.WriteString(" (source_page")
	for _, name := range names {
		b.WriteString(", ")
		b.WriteString(s.quote(name))
	}
	b.WriteString(") VALUES (?")
	b.WriteString(strings.Repeat(", ?", len(names)))
	b.WriteString(")")
	return b.String()
}

func (s *SQLStore) tableExists(ctx context.Context, table string) (bool, error) {
	var query string
	switch s.driver {
	case DriverMySQL:
		query = "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?"
	default:
		query = "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?"
	}
	var count int
	if err := s.db.QueryRowContext(ctx, query, table).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// quote wraps an identifier in the driver's quoting character, doubling any
// embedded occurrence.
func (s *SQLStore) quote(ident string) string {
	if s.driver == DriverMySQL {
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
