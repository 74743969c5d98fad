package excel

import (
	"fmt"
	"path/filepath"
	"strings"

	"sheetclean/domain/core"
)

// fileType is the on-disk format of a sheet source
type fileType string

const (
	fileTypeXLSX fileType = "xlsx"
	fileTypeCSV  fileType = "csv"
)

// detectFileType maps a path's extension to a supported format
func detectFileType(path string) (fileType, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return fileTypeXLSX, nil
	case ".csv":
		return fileTypeCSV, nil
	}
	return "", fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, filepath.Base(path))
}

// csvSheetName is the single sheet name a CSV file exposes: its file stem
func csvSheetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// unnamedColumn names a header cell that was left blank
func unnamedColumn(index int) string {
	return fmt.Sprintf("Unnamed: %d", index)
}
