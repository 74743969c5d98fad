package ports

import (
	"sheetclean/domain/table"
)

// SheetReader materializes raw tables from spreadsheet files
type SheetReader interface {
	// SheetNames lists sheet names in workbook order
	SheetNames(path string) ([]string, error)
	// ReadSheet reads one sheet; the first row is the header
	ReadSheet(path, sheet string) (*table.RawTable, error)
	// ReadWorkbook reads every data sheet in workbook order
	ReadWorkbook(path string) ([]table.Sheet, error)
	// ReadColumnDescriptions maps column names to free-text descriptions
	ReadColumnDescriptions(path string) (map[string]string, error)
}
