package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"sheetclean/domain/core"
	"sheetclean/domain/table"
	"sheetclean/ports"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	tablePrefix      = "clean_"
	maxIdentifierLen = 63
	rowIndexColumn   = "row_index"
	defaultListLimit = 50
)

const catalogDDL = `CREATE TABLE IF NOT EXISTS clean_tables (
	id           UUID PRIMARY KEY,
	name         TEXT NOT NULL,
	sql_table    TEXT NOT NULL UNIQUE,
	source_sheet TEXT NOT NULL DEFAULT '',
	column_count INTEGER NOT NULL,
	row_count    INTEGER NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL
)`

var nonIdentifierChars = regexp.MustCompile(`[^a-z0-9_]+`)

// tableRepository stores clean tables in PostgreSQL, one SQL table per clean
// table plus a row in the clean_tables catalog
type tableRepository struct {
	db *sqlx.DB
}

// NewTableRepository creates a new clean table repository
func NewTableRepository(db *sqlx.DB) ports.CleanTableRepository {
	return &tableRepository{db: db}
}

// EnsureSchema creates the catalog table
func (r *tableRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, catalogDDL); err != nil {
		return fmt.Errorf("failed to create catalog: %w", err)
	}
	return nil
}

// Save creates a typed table for t, bulk loads its rows with COPY and records
// it in the catalog, all in one transaction
func (r *tableRepository) Save(ctx context.Context, name, sourceSheet string, t *table.CleanTable) (*table.TableRecord, error) {
	if t == nil {
		return nil, core.NewValidationError("table", "table is nil")
	}

	id := core.NewID()
	sqlTable, err := sqlTableName(name, id)
	if err != nil {
		return nil, err
	}
	columns := columnIdentifiers(t.ColumnNames())

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, createTableDDL(sqlTable, columns, t.Columns)); err != nil {
		return nil, fmt.Errorf("failed to create table %s: %w", sqlTable, err)
	}

	if err := copyRows(ctx, tx, sqlTable, columns, t); err != nil {
		return nil, err
	}

	record := &table.TableRecord{
		ID:          id,
		Name:        name,
		SQLTable:    sqlTable,
		SourceSheet: sourceSheet,
		ColumnCount: len(t.Columns),
		RowCount:    t.RowCount(),
		CreatedAt:   time.Now().UTC(),
	}

	query := `INSERT INTO clean_tables (id, name, sql_table, source_sheet, column_count, row_count, created_at)
		VALUES (:id, :name, :sql_table, :source_sheet, :column_count, :row_count, :created_at)`
	if _, err := tx.NamedExecContext(ctx, query, record); err != nil {
		return nil, fmt.Errorf("failed to record table: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit table: %w", err)
	}

	return record, nil
}

// List returns catalog entries, newest first
func (r *tableRepository) List(ctx context.Context, limit, offset int) ([]table.TableRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT id, name, sql_table, source_sheet, column_count, row_count, created_at
		FROM clean_tables ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	records := []table.TableRecord{}
	if err := r.db.SelectContext(ctx, &records, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return records, nil
}

// Drop removes a stored table and its catalog entry
func (r *tableRepository) Drop(ctx context.Context, id string) error {
	tableID, err := core.ParseID(id)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var sqlTable string
	err = tx.GetContext(ctx, &sqlTable, `SELECT sql_table FROM clean_tables WHERE id = $1`, tableID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", core.ErrTableNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to get table: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+pq.QuoteIdentifier(sqlTable)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", sqlTable, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM clean_tables WHERE id = $1`, tableID); err != nil {
		return fmt.Errorf("failed to delete catalog entry: %w", err)
	}

	return tx.Commit()
}

func copyRows(ctx context.Context, tx *sqlx.Tx, sqlTable string, columns []string, t *table.CleanTable) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(sqlTable, append([]string{rowIndexColumn}, columns...)...))
	if err != nil {
		return fmt.Errorf("failed to prepare copy: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < t.RowCount(); i++ {
		if _, err := stmt.ExecContext(ctx, rowValues(i, t.Row(i))...); err != nil {
			return fmt.Errorf("failed to copy row %d: %w", i, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to flush copy: %w", err)
	}
	return nil
}

// rowValues returns the COPY arguments of a row, led by its index
func rowValues(index int, row []table.Cell) []interface{} {
	values := make([]interface{}, 0, len(row)+1)
	values = append(values, int64(index))
	for _, cell := range row {
		values = append(values, cell.Value())
	}
	return values
}

// sqlTableName derives a unique, safe table name from a display name
func sqlTableName(name string, id core.ID) (string, error) {
	base := nonIdentifierChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
	base = strings.Trim(base, "_")
	if base == "" {
		return "", fmt.Errorf("%w: %q", core.ErrInvalidTableRef, name)
	}

	suffix := "_" + id.Short(8)
	if room := maxIdentifierLen - len(tablePrefix) - len(suffix); len(base) > room {
		base = strings.TrimRight(base[:room], "_")
	}
	return tablePrefix + base + suffix, nil
}

// columnIdentifiers makes column names usable as SQL identifiers: blank
// names get a positional name, duplicates get a numeric suffix and every
// name fits the identifier length limit
func columnIdentifiers(names []string) []string {
	seen := map[string]bool{rowIndexColumn: true}
	out := make([]string, len(names))

	for i, name := range names {
		ident := truncateIdentifier(name, maxIdentifierLen)
		if ident == "" {
			ident = fmt.Sprintf("column_%d", i+1)
		}
		candidate := ident
		for n := 2; seen[candidate]; n++ {
			suffix := fmt.Sprintf("_%d", n)
			candidate = truncateIdentifier(ident, maxIdentifierLen-len(suffix)) + suffix
		}
		seen[candidate] = true
		out[i] = candidate
	}
	return out
}

func truncateIdentifier(name string, limit int) string {
	if len(name) <= limit {
		return name
	}
	// cut on a rune boundary
	cut := limit
	for cut > 0 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return name[:cut]
}

// createTableDDL builds the CREATE TABLE statement for a clean table
func createTableDDL(sqlTable string, columns []string, cols []table.CleanColumn) string {
	defs := make([]string, 0, len(cols)+1)
	defs = append(defs, pq.QuoteIdentifier(rowIndexColumn)+" BIGINT PRIMARY KEY")
	for i, col := range cols {
		defs = append(defs, pq.QuoteIdentifier(columns[i])+" "+sqlType(col.Storage))
	}
	return fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", pq.QuoteIdentifier(sqlTable), strings.Join(defs, ",\n\t"))
}

// sqlType maps a column's storage to its PostgreSQL type
func sqlType(storage table.Storage) string {
	switch storage {
	case table.StorageBoolean:
		return "BOOLEAN"
	case table.StorageInt64:
		return "BIGINT"
	case table.StorageFloat64:
		return "DOUBLE PRECISION"
	case table.StorageDateTime:
		return "TIMESTAMPTZ"
	}
	return "TEXT"
}
