package excel

import (
	"fmt"
	"time"

	"sheetclean/adapters/datareadiness/normalizer"
	"sheetclean/domain/core"
	"sheetclean/domain/table"
	"sheetclean/internal"

	"github.com/xuri/excelize/v2"
)

// WorkbookWriter exports cleaned tables as .xlsx workbooks
type WorkbookWriter struct {
	logger *internal.Logger
}

// NewWorkbookWriter creates a writer; a nil logger uses the package default
func NewWorkbookWriter(logger *internal.Logger) *WorkbookWriter {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &WorkbookWriter{logger: logger.WithComponent("WorkbookWriter")}
}

// WriteWorkbook writes cleaned sheets to a new .xlsx file, one worksheet per
// sheet in order. Header goes in row 1; null cells are left blank.
func (w *WorkbookWriter) WriteWorkbook(path string, sheets []normalizer.CleanSheet) error {
	if len(sheets) == 0 {
		return core.NewValidationError("sheets", "workbook needs at least one sheet")
	}
	kind, err := detectFileType(path)
	if err != nil {
		return err
	}
	if kind != fileTypeXLSX {
		return fmt.Errorf("%w: workbooks are written as xlsx, got %s", core.ErrUnsupportedFormat, path)
	}

	start := time.Now()
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if sheet.Name == "" {
			return core.ErrEmptySheetName
		}
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet.Name, err)
		}

		if err := writeCleanTable(f, sheet.Name, sheet.Table); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", sheet.Name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Info("wrote %d sheets to %s in %.2fms", len(sheets), path, float64(time.Since(start).Nanoseconds())/1e6)
	return nil
}

func writeCleanTable(f *excelize.File, sheet string, t *table.CleanTable) error {
	if t == nil {
		return nil
	}

	for c, col := range t.Columns {
		ref, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, ref, col.Name); err != nil {
			return err
		}

		for r, cell := range col.Cells {
			if cell.IsNull() {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, ref, cell.Value()); err != nil {
				return err
			}
		}
	}
	return nil
}
