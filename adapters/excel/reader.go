package excel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"sheetclean/domain/core"
	"sheetclean/domain/table"
	"sheetclean/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files into raw tables
type DataReader struct {
	config ReaderConfig
	logger *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(config ReaderConfig, logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{config: config, logger: logger.WithComponent("DataReader")}
}

// SheetNames lists the sheets of a workbook in workbook order. A CSV file
// has exactly one sheet named after its file stem.
func (r *DataReader) SheetNames(path string) ([]string, error) {
	kind, err := r.checkSource(path)
	if err != nil {
		return nil, err
	}
	if kind == fileTypeCSV {
		return []string{csvSheetName(path)}, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	return f.GetSheetList(), nil
}

// ReadSheet materializes one sheet as a raw table. The first row is the
// header; every data row is padded to the widest row with null cells.
func (r *DataReader) ReadSheet(path, sheet string) (*table.RawTable, error) {
	if sheet == "" {
		return nil, core.ErrEmptySheetName
	}
	kind, err := r.checkSource(path)
	if err != nil {
		return nil, err
	}

	if kind == fileTypeCSV {
		if sheet != csvSheetName(path) {
			return nil, core.NewSheetNotFoundError(sheet)
		}
		return r.readCSVData(path)
	}

	f, err := r.openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !hasSheet(f, sheet) {
		return nil, core.NewSheetNotFoundError(sheet)
	}
	return r.readExcelSheet(f, sheet)
}

// ReadWorkbook reads every data sheet of a workbook. The configured
// description sheet is skipped, and so are empty sheets when configured.
func (r *DataReader) ReadWorkbook(path string) ([]table.Sheet, error) {
	kind, err := r.checkSource(path)
	if err != nil {
		return nil, err
	}

	if kind == fileTypeCSV {
		t, err := r.readCSVData(path)
		if err != nil {
			return nil, err
		}
		return []table.Sheet{{Name: csvSheetName(path), Table: t}}, nil
	}

	f, err := r.openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sheets []table.Sheet
	for _, name := range f.GetSheetList() {
		if name == r.config.DescriptionSheet {
			continue
		}
		t, err := r.readExcelSheet(f, name)
		if errors.Is(err, core.ErrEmptySheet) && r.config.SkipEmptySheets {
			r.logger.Warn("skipping empty sheet %q", name)
			continue
		}
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, table.Sheet{Name: name, Table: t})
	}

	return sheets, nil
}

// ReadColumnDescriptions maps column names to descriptions using the first
// two columns of the configured description sheet. A workbook without that
// sheet yields an empty map.
func (r *DataReader) ReadColumnDescriptions(path string) (map[string]string, error) {
	descriptions := make(map[string]string)

	kind, err := r.checkSource(path)
	if err != nil {
		return nil, err
	}
	if kind == fileTypeCSV || r.config.DescriptionSheet == "" {
		return descriptions, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if !hasSheet(f, r.config.DescriptionSheet) {
		return descriptions, nil
	}

	rows, err := f.GetRows(r.config.DescriptionSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", r.config.DescriptionSheet, err)
	}

	for i, row := range rows {
		// first row is the header
		if i == 0 || len(row) < 2 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		descriptions[name] = strings.TrimSpace(row[1])
	}

	r.logger.Debug("loaded %d column descriptions from %q", len(descriptions), r.config.DescriptionSheet)
	return descriptions, nil
}

func (r *DataReader) checkSource(path string) (fileType, error) {
	kind, err := detectFileType(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("%s file not found: %s", strings.ToUpper(string(kind)), path)
	}
	return kind, nil
}

func (r *DataReader) openWorkbook(path string) (*excelize.File, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	r.logger.Debug("Excel file opened in %.2fms", float64(time.Since(startTime).Nanoseconds())/1e6)
	return f, nil
}

// readExcelSheet reads a sheet with raw cell values so the decoder sees
// numbers and date serials rather than their display format
func (r *DataReader) readExcelSheet(f *excelize.File, sheet string) (*table.RawTable, error) {
	readStart := time.Now()
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	r.logger.Debug("%s read in %.2fms (%d rows)", sheet, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	decoder, err := newCellDecoder(f, sheet)
	if err != nil {
		return nil, err
	}

	t, err := r.processRows(sheet, rows, decoder.decode)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// readCSVData reads a CSV file. Every non-empty field becomes a string cell.
func (r *DataReader) readCSVData(path string) (*table.RawTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return r.readCSV(csvSheetName(path), file)
}

func (r *DataReader) readCSV(name string, src io.Reader) (*table.RawTable, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	r.logger.Debug("CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}

	return r.processRows(name, rows, func(_, _ int, raw string) (table.Cell, error) {
		return table.NewStringCell(raw), nil
	})
}

// decodeFunc turns a raw cell value at 1-based (col, row) into a Cell
type decodeFunc func(col, row int, raw string) (table.Cell, error)

// processRows converts raw string rows into a column-major table
func (r *DataReader) processRows(sheet string, rows [][]string, decode decodeFunc) (*table.RawTable, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", core.ErrEmptySheet, sheet)
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	headers := make([]string, width)
	for i := range headers {
		if i < len(rows[0]) && strings.TrimSpace(rows[0][i]) != "" {
			headers[i] = rows[0][i]
			continue
		}
		headers[i] = unnamedColumn(i)
	}

	data := make([][]table.Cell, 0, len(rows)-1)
	for i, row := range rows[1:] {
		cells := make([]table.Cell, width)
		for j := range cells {
			if j >= len(row) || row[j] == "" {
				cells[j] = table.NullCell()
				continue
			}
			cell, err := decode(j+1, i+2, row[j])
			if err != nil {
				return nil, fmt.Errorf("sheet %s: %w", sheet, err)
			}
			cells[j] = cell
		}
		data = append(data, cells)
	}

	t, err := table.FromRows(headers, data)
	if err != nil {
		return nil, err
	}

	r.logger.Info("%s processed (%d columns, %d rows)", sheet, len(headers), len(data))
	return t, nil
}

func hasSheet(f *excelize.File, sheet string) bool {
	for _, name := range f.GetSheetList() {
		if name == sheet {
			return true
		}
	}
	return false
}
