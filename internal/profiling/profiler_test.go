package profiling

import (
	"math"
	"testing"
	"time"

	"sheetclean/domain/core"
	"sheetclean/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbers(values ...float64) []table.Cell {
	cells := make([]table.Cell, len(values))
	for i, v := range values {
		cells[i] = table.NewNumberCell(v)
	}
	return cells
}

func TestSummarize(t *testing.T) {
	summary, err := NewDistributionAnalyzer().Summarize([]float64{4, 1, 3, 2})
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Count)
	assert.InDelta(t, 2.5, summary.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(1.25), summary.StdDev, 1e-9)
	assert.Equal(t, 1.0, summary.Min)
	assert.Equal(t, 4.0, summary.Max)
	assert.InDelta(t, 2.5, summary.Median, 1e-9)
	assert.Equal(t, 1.0, summary.Q25)
	assert.Equal(t, 3.0, summary.Q75)
	assert.InDelta(t, 0, summary.Skewness, 1e-9)

	_, err = NewDistributionAnalyzer().Summarize(nil)
	assert.Error(t, err)
}

func TestSummarizeConstantColumnHasNoSkew(t *testing.T) {
	summary, err := NewDistributionAnalyzer().Summarize([]float64{5, 5, 5})
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.StdDev)
	assert.Equal(t, 0.0, summary.Skewness)
}

func TestProfileTable(t *testing.T) {
	day := func(d int) table.Cell {
		return table.NewDateTimeCell(time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC))
	}

	raw := table.NewRawTable(
		table.NewRawColumn("amount", "1", 2.0, "3", "4"),
		table.NewRawColumn("when", "2024-01-01", "2024-01-11", "x", "2024-01-06"),
		table.NewRawColumn("paid", "yes", "no", "yes", "y"),
		table.NewRawColumn("note", "a", "b", "a", "c"),
		table.NewRawColumn("empty", "na", nil, "", "-"),
	)
	clean := &table.CleanTable{Columns: []table.CleanColumn{
		{Name: "amount", Type: table.TypeNumeric, Storage: table.StorageFloat64, Cells: numbers(1, 2, 3, 4)},
		{Name: "when", Type: table.TypeDateTime, Storage: table.StorageDateTime, Cells: []table.Cell{day(1), day(11), table.NullCell(), day(6)}},
		{Name: "paid", Type: table.TypeBoolean, Storage: table.StorageBoolean, Cells: []table.Cell{
			table.NewBooleanCell(true), table.NewBooleanCell(false), table.NewBooleanCell(true), table.NewBooleanCell(true),
		}},
		{Name: "note", Type: table.TypeText, Storage: table.StorageString, Cells: []table.Cell{
			table.NewStringCell("a"), table.NewStringCell("b"), table.NewStringCell("a"), table.NewStringCell("c"),
		}},
		{Name: "empty", Type: table.TypeText, Storage: table.StorageString, Cells: []table.Cell{
			table.NullCell(), table.NullCell(), table.NullCell(), table.NullCell(),
		}},
	}}

	profile, err := NewDataProfiler().ProfileTable(raw, clean, map[string]string{"amount": "Order amount in EUR"})
	require.NoError(t, err)
	require.Len(t, profile.Columns, 5)
	assert.Equal(t, 4, profile.RowCount)

	amount := profile.Columns[0]
	assert.Equal(t, "Order amount in EUR", amount.Description)
	assert.True(t, amount.HasWarning(WarningMixedKinds))
	assert.Equal(t, []table.CellKind{table.KindNumber, table.KindString}, amount.RawKinds)
	require.NotNil(t, amount.Numeric)
	assert.Equal(t, 4.0, amount.Numeric.Max)
	assert.Equal(t, 4, amount.DistinctCount)

	when := profile.Columns[1]
	assert.Equal(t, 1, when.NullCount)
	assert.InDelta(t, 0.25, when.NullRatio, 1e-9)
	require.NotNil(t, when.DateTime)
	assert.Equal(t, 10.0, when.DateTime.SpanDays)
	assert.False(t, when.HasWarning(WarningMixedKinds))

	paid := profile.Columns[2]
	require.NotNil(t, paid.Boolean)
	assert.Equal(t, 3, paid.Boolean.TrueCount)
	assert.Equal(t, 1, paid.Boolean.FalseCount)
	assert.InDelta(t, 0.75, paid.Boolean.TrueRatio, 1e-9)
	assert.Equal(t, 2, paid.DistinctCount)

	note := profile.Columns[3]
	require.NotNil(t, note.Text)
	assert.Equal(t, ValueCount{Value: "a", Count: 2}, note.Text.TopValues[0])
	assert.Equal(t, ValueCount{Value: "b", Count: 1}, note.Text.TopValues[1])
	assert.InDelta(t, 1.0, note.Text.MeanLength, 1e-9)
	assert.Empty(t, note.Description)

	empty := profile.Columns[4]
	assert.True(t, empty.HasWarning(WarningAllNull))
	assert.Nil(t, empty.Text)
	assert.Equal(t, 0, empty.DistinctCount)
}

func TestProfileTableWithoutRaw(t *testing.T) {
	clean := &table.CleanTable{Columns: []table.CleanColumn{
		{Name: "n", Type: table.TypeNumeric, Storage: table.StorageInt64, Cells: []table.Cell{table.NewIntegerCell(3), table.NullCell()}},
	}}

	profile, err := NewDataProfiler().ProfileTable(nil, clean, nil)
	require.NoError(t, err)

	col := profile.Columns[0]
	assert.Nil(t, col.RawKinds)
	assert.Empty(t, col.Warnings)
	require.NotNil(t, col.Numeric)
	assert.Equal(t, 1, col.Numeric.Count)
	assert.Equal(t, 3.0, col.Numeric.Mean)
}

func TestProfileTableRejectsMismatchedTables(t *testing.T) {
	clean := &table.CleanTable{Columns: []table.CleanColumn{{Name: "a"}}}

	_, err := NewDataProfiler().ProfileTable(table.NewRawTable(), clean, nil)
	assert.True(t, core.IsValidationError(err))

	_, err = NewDataProfiler().ProfileTable(nil, nil, nil)
	assert.True(t, core.IsValidationError(err))
}

func TestTopValuesAreBounded(t *testing.T) {
	cells := make([]table.Cell, 0, 8)
	for _, v := range []string{"a", "b", "c", "d", "e", "f", "g", "a"} {
		cells = append(cells, table.NewStringCell(v))
	}

	summary := summarizeText(cells)
	assert.Len(t, summary.TopValues, maxTopValues)
	assert.Equal(t, "a", summary.TopValues[0].Value)
	assert.Equal(t, "e", summary.TopValues[4].Value)
}
