package normalizer

import (
	"math"

	"sheetclean/domain/table"
)

// maxExactInteger is the largest magnitude at which every integer is exactly
// representable as a float64
const maxExactInteger = 1 << 53

// consolidate assigns each column its storage and narrows numeric columns
// holding only integral values to int64. It never changes a column's
// SemanticType.
func consolidate(clean *table.CleanTable) {
	for i := range clean.Columns {
		clean.Columns[i] = tighten(clean.Columns[i])
	}
}

func tighten(col table.CleanColumn) table.CleanColumn {
	col.Storage = col.Type.NaturalStorage()
	if col.Type != table.TypeNumeric {
		return col
	}

	switch {
	case allKind(col.Cells, table.KindInteger):
		col.Storage = table.StorageInt64
	case allIntegral(col.Cells):
		col.Cells = mapNumbers(col.Cells, func(f float64) table.Cell { return table.NewIntegerCell(int64(f)) })
		col.Storage = table.StorageInt64
	default:
		// float64 storage: every cell must carry a float payload
		col.Cells = mapNumbers(col.Cells, table.NewNumberCell)
	}
	return col
}

func mapNumbers(cells []table.Cell, fn func(float64) table.Cell) []table.Cell {
	out := make([]table.Cell, len(cells))
	for i, cell := range cells {
		f, ok := cell.AsFloat64()
		if !ok {
			out[i] = table.NullCell()
			continue
		}
		out[i] = fn(f)
	}
	return out
}

func allKind(cells []table.Cell, kind table.CellKind) bool {
	for _, cell := range cells {
		if !cell.IsNull() && cell.Kind() != kind {
			return false
		}
	}
	return true
}

func allIntegral(cells []table.Cell) bool {
	for _, cell := range cells {
		if cell.IsNull() {
			continue
		}
		f, ok := cell.AsFloat64()
		if !ok || f != math.Trunc(f) || math.Abs(f) > maxExactInteger {
			return false
		}
	}
	return true
}
