package postgres

import (
	"strings"
	"testing"
	"time"

	"sheetclean/domain/core"
	"sheetclean/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLTableName(t *testing.T) {
	id := core.ID("0000aaaa-0000-4000-8000-00003f2a9c1e")

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "Sales", "clean_sales_3f2a9c1e", false},
		{"spaces and symbols", " Q1 Sales (EUR) ", "clean_q1_sales_eur_3f2a9c1e", false},
		{"injection attempt", `x"; DROP TABLE users; --`, "clean_x_drop_table_users_3f2a9c1e", false},
		{"only symbols", "***", "", true},
		{"blank", "   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sqlTableName(tt.input, id)
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrInvalidTableRef)
				assert.True(t, core.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSQLTableNameFitsIdentifierLimit(t *testing.T) {
	got, err := sqlTableName(strings.Repeat("abc", 40), core.NewID())
	require.NoError(t, err)
	assert.LessOrEqual(t, len(got), maxIdentifierLen)
	assert.True(t, strings.HasPrefix(got, tablePrefix))
}

func TestColumnIdentifiers(t *testing.T) {
	long := strings.Repeat("é", 40)

	got := columnIdentifiers([]string{"id", "id", "", "row_index", "Amount", long})

	assert.Equal(t, "id", got[0])
	assert.Equal(t, "id_2", got[1])
	assert.Equal(t, "column_3", got[2])
	assert.Equal(t, "row_index_2", got[3])
	assert.Equal(t, "Amount", got[4])
	assert.LessOrEqual(t, len(got[5]), maxIdentifierLen)
	assert.True(t, strings.HasPrefix(long, got[5]))
}

func TestCreateTableDDL(t *testing.T) {
	cols := []table.CleanColumn{
		{Name: "paid", Storage: table.StorageBoolean},
		{Name: "count", Storage: table.StorageInt64},
		{Name: "amount", Storage: table.StorageFloat64},
		{Name: "placed", Storage: table.StorageDateTime},
		{Name: `say "hi"`, Storage: table.StorageString},
	}

	ddl := createTableDDL("clean_orders_1234abcd", columnIdentifiers((&table.CleanTable{Columns: cols}).ColumnNames()), cols)

	assert.Contains(t, ddl, `CREATE TABLE "clean_orders_1234abcd"`)
	assert.Contains(t, ddl, `"row_index" BIGINT PRIMARY KEY`)
	assert.Contains(t, ddl, `"paid" BOOLEAN`)
	assert.Contains(t, ddl, `"count" BIGINT`)
	assert.Contains(t, ddl, `"amount" DOUBLE PRECISION`)
	assert.Contains(t, ddl, `"placed" TIMESTAMPTZ`)
	assert.Contains(t, ddl, `"say ""hi""" TEXT`)
}

func TestRowValues(t *testing.T) {
	when := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	row := []table.Cell{
		table.NewBooleanCell(true),
		table.NewIntegerCell(7),
		table.NewNumberCell(1.5),
		table.NewDateTimeCell(when),
		table.NewStringCell("x"),
		table.NullCell(),
	}

	assert.Equal(t, []interface{}{int64(3), true, int64(7), 1.5, when, "x", nil}, rowValues(3, row))
}
