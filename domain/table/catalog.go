package table

import (
	"time"

	"sheetclean/domain/core"
)

// TableRecord is the catalog entry of a persisted clean table
type TableRecord struct {
	ID          core.ID   `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	SQLTable    string    `json:"sql_table" db:"sql_table"`
	SourceSheet string    `json:"source_sheet" db:"source_sheet"`
	ColumnCount int       `json:"column_count" db:"column_count"`
	RowCount    int       `json:"row_count" db:"row_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
