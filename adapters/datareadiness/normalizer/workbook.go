package normalizer

import (
	"context"
	"fmt"

	"sheetclean/domain/table"

	"golang.org/x/sync/errgroup"
)

// CleanSheet is a normalized workbook sheet
type CleanSheet struct {
	Name    string            `json:"name"`
	Table   *table.CleanTable `json:"table"`
	Reports []ColumnReport    `json:"reports"`
}

// NormalizeWorkbook normalizes every sheet, at most concurrency at a time.
// Results keep the input order. The first failing sheet cancels the sheets
// that have not started yet.
func (n *TableNormalizer) NormalizeWorkbook(ctx context.Context, sheets []table.Sheet, concurrency int) ([]CleanSheet, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]CleanSheet, len(sheets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, sheet := range sheets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			clean, reports, err := n.NormalizeTableWithReport(sheet.Table)
			if err != nil {
				return fmt.Errorf("sheet %q: %w", sheet.Name, err)
			}

			results[i] = CleanSheet{Name: sheet.Name, Table: clean, Reports: reports}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	n.logger.Info("normalized workbook (%d sheets)", len(results))
	return results, nil
}
