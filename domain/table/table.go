package table

import (
	"sheetclean/domain/core"
)

// SemanticType is the logical type a column settles on
type SemanticType string

const (
	TypeBoolean  SemanticType = "boolean"
	TypeNumeric  SemanticType = "numeric"
	TypeDateTime SemanticType = "datetime"
	TypeText     SemanticType = "text"
)

// Storage is the physical representation of a column within its SemanticType
type Storage string

const (
	StorageBoolean  Storage = "boolean"
	StorageFloat64  Storage = "float64"
	StorageInt64    Storage = "int64"
	StorageDateTime Storage = "datetime"
	StorageString   Storage = "string"
)

// NaturalStorage returns the storage a column of this type starts with
// before any tightening
func (t SemanticType) NaturalStorage() Storage {
	switch t {
	case TypeBoolean:
		return StorageBoolean
	case TypeNumeric:
		return StorageFloat64
	case TypeDateTime:
		return StorageDateTime
	}
	return StorageString
}

// RawColumn is a named, ordered sequence of heterogeneous cells
type RawColumn struct {
	Name  string `json:"name"`
	Cells []Cell `json:"values"`
}

// RawTable is an ordered sequence of named columns as read from a sheet
type RawTable struct {
	Columns []RawColumn `json:"columns"`
}

// NewRawTable creates a table from columns, in order
func NewRawTable(columns ...RawColumn) *RawTable {
	return &RawTable{Columns: columns}
}

// NewRawColumn builds a column from loosely typed values
func NewRawColumn(name string, values ...interface{}) RawColumn {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = FromAny(v)
	}
	return RawColumn{Name: name, Cells: cells}
}

// FromRows builds a column-major table from a header and row-major cells.
// Every row must be exactly as wide as the header.
func FromRows(headers []string, rows [][]Cell) (*RawTable, error) {
	columns := make([]RawColumn, len(headers))
	for i, h := range headers {
		columns[i] = RawColumn{Name: h, Cells: make([]Cell, len(rows))}
	}

	for r, row := range rows {
		if len(row) != len(headers) {
			return nil, core.NewRowWidthError(r, len(row), len(headers))
		}
		for c, cell := range row {
			columns[c].Cells[r] = cell
		}
	}

	return &RawTable{Columns: columns}, nil
}

// Validate checks that every column has the same number of cells
func (t *RawTable) Validate() error {
	if t == nil {
		return core.NewValidationError("table", "table is nil")
	}
	if len(t.Columns) == 0 {
		return nil
	}

	want := len(t.Columns[0].Cells)
	for _, col := range t.Columns[1:] {
		if len(col.Cells) != want {
			return core.NewRaggedTableError(col.Name, len(col.Cells), want)
		}
	}
	return nil
}

// RowCount returns the number of rows, taken from the first column
func (t *RawTable) RowCount() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// ColumnNames returns column names in table order
func (t *RawTable) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// Clone returns a copy that shares no slices with t
func (t *RawTable) Clone() *RawTable {
	if t == nil {
		return nil
	}
	columns := make([]RawColumn, len(t.Columns))
	for i, col := range t.Columns {
		cells := make([]Cell, len(col.Cells))
		copy(cells, col.Cells)
		columns[i] = RawColumn{Name: col.Name, Cells: cells}
	}
	return &RawTable{Columns: columns}
}

// CleanColumn is a column that has settled on one SemanticType
type CleanColumn struct {
	Name    string       `json:"name"`
	Type    SemanticType `json:"type"`
	Storage Storage      `json:"storage"`
	Cells   []Cell       `json:"values"`
}

// NullCount returns the number of missing values in the column
func (c CleanColumn) NullCount() int {
	n := 0
	for _, cell := range c.Cells {
		if cell.IsNull() {
			n++
		}
	}
	return n
}

// CleanTable has the same shape as the RawTable it was derived from
type CleanTable struct {
	Columns []CleanColumn `json:"columns"`
}

// RowCount returns the number of rows, taken from the first column
func (t *CleanTable) RowCount() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// ColumnNames returns column names in table order
func (t *CleanTable) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// Column returns the first column with the given name
func (t *CleanTable) Column(name string) (CleanColumn, bool) {
	for _, col := range t.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return CleanColumn{}, false
}

// Types returns the settled type of every column in table order
func (t *CleanTable) Types() []SemanticType {
	types := make([]SemanticType, len(t.Columns))
	for i, col := range t.Columns {
		types[i] = col.Type
	}
	return types
}

// Row returns the cells of row i across all columns
func (t *CleanTable) Row(i int) []Cell {
	row := make([]Cell, len(t.Columns))
	for c, col := range t.Columns {
		row[c] = col.Cells[i]
	}
	return row
}

// Raw converts the clean table back into a RawTable so normalization can be
// applied again.
func (t *CleanTable) Raw() *RawTable {
	columns := make([]RawColumn, len(t.Columns))
	for i, col := range t.Columns {
		cells := make([]Cell, len(col.Cells))
		copy(cells, col.Cells)
		columns[i] = RawColumn{Name: col.Name, Cells: cells}
	}
	return &RawTable{Columns: columns}
}

// Sheet is a named raw table, one per workbook sheet
type Sheet struct {
	Name  string    `json:"name"`
	Table *RawTable `json:"table"`
}
