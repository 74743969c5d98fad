// Package normalizer turns raw sheets into clean tables. It owns the table
// level concerns: shape validation, column-name trimming, running the column
// coercer over every column in order, and tightening storage afterwards.
package normalizer

import (
	"strings"
	"time"

	"sheetclean/adapters/datareadiness/coercer"
	"sheetclean/domain/table"
	"sheetclean/internal"
)

// TableNormalizer applies the column coercer to whole tables
type TableNormalizer struct {
	coercer *coercer.TypeCoercer
	logger  *internal.Logger
}

// NewTableNormalizer creates a normalizer. A nil logger falls back to the
// package default.
func NewTableNormalizer(c *coercer.TypeCoercer, logger *internal.Logger) *TableNormalizer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &TableNormalizer{
		coercer: c,
		logger:  logger.WithComponent("normalizer"),
	}
}

// NewDefaultTableNormalizer uses the default coercion thresholds
func NewDefaultTableNormalizer() *TableNormalizer {
	return NewTableNormalizer(coercer.NewTypeCoercer(coercer.DefaultCoercionConfig()), nil)
}

// ColumnReport describes how one column was settled
type ColumnReport struct {
	Name     string               `json:"name"`
	Type     table.SemanticType   `json:"type"`
	Storage  table.Storage        `json:"storage"`
	Analysis coercer.TypeAnalysis `json:"analysis"`
}

// NormalizeColumn runs the column pipeline on a single column
func (n *TableNormalizer) NormalizeColumn(name string, cells []table.Cell) (table.SemanticType, []table.Cell) {
	return n.coercer.NormalizeColumn(name, cells)
}

// NormalizeTable derives a clean table from raw. The raw table is not
// modified. Row count, column count and column order are preserved.
func (n *TableNormalizer) NormalizeTable(raw *table.RawTable) (*table.CleanTable, error) {
	clean, _, err := n.NormalizeTableWithReport(raw)
	return clean, err
}

// NormalizeTableWithReport is NormalizeTable plus one report per column
func (n *TableNormalizer) NormalizeTableWithReport(raw *table.RawTable) (*table.CleanTable, []ColumnReport, error) {
	if err := raw.Validate(); err != nil {
		return nil, nil, err
	}

	start := time.Now()
	working := raw.Clone()

	clean := &table.CleanTable{Columns: make([]table.CleanColumn, len(working.Columns))}
	reports := make([]ColumnReport, len(working.Columns))

	for i, col := range working.Columns {
		name := strings.TrimSpace(col.Name)
		result := n.coercer.Normalize(name, col.Cells)

		clean.Columns[i] = table.CleanColumn{
			Name:  name,
			Type:  result.Type,
			Cells: result.Cells,
		}
		reports[i] = ColumnReport{
			Name:     name,
			Type:     result.Type,
			Analysis: result.Analysis,
		}

		n.logger.Debug("column %q settled as %s by %s stage (non-null %d/%d)",
			name, result.Type, result.Analysis.DecidedBy, result.Analysis.NonNullCount, result.Analysis.TotalCount)
	}

	consolidate(clean)
	for i := range reports {
		reports[i].Storage = clean.Columns[i].Storage
	}

	n.logger.Info("normalized table (%d columns, %d rows) in %.2fms",
		len(clean.Columns), clean.RowCount(), float64(time.Since(start).Nanoseconds())/1e6)

	return clean, reports, nil
}
