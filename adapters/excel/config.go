package excel

// ReaderConfig holds configuration for sheet sources
type ReaderConfig struct {
	// DescriptionSheet names a sheet holding column descriptions rather than
	// data. ReadWorkbook skips it.
	DescriptionSheet string `json:"description_sheet"`
	// SkipEmptySheets drops sheets without a header row from ReadWorkbook
	// instead of failing.
	SkipEmptySheets bool `json:"skip_empty_sheets"`
}

// DefaultReaderConfig returns sensible defaults for reading workbooks
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		DescriptionSheet: "Descriptions",
		SkipEmptySheets:  true,
	}
}
