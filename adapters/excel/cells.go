package excel

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"sheetclean/domain/table"

	"github.com/xuri/excelize/v2"
)

// cellDecoder maps raw worksheet values to typed cells using the cell's
// stored type and, for numbers, its number format
type cellDecoder struct {
	f          *excelize.File
	sheet      string
	date1904   bool
	dateStyles map[int]bool
}

func newCellDecoder(f *excelize.File, sheet string) (*cellDecoder, error) {
	props, err := f.GetWorkbookProps()
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook properties: %w", err)
	}
	return &cellDecoder{
		f:          f,
		sheet:      sheet,
		date1904:   props.Date1904 != nil && *props.Date1904,
		dateStyles: make(map[int]bool),
	}, nil
}

func (d *cellDecoder) decode(col, row int, raw string) (table.Cell, error) {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return table.Cell{}, err
	}
	cellType, err := d.f.GetCellType(d.sheet, ref)
	if err != nil {
		return table.Cell{}, fmt.Errorf("failed to get type of %s: %w", ref, err)
	}

	switch cellType {
	case excelize.CellTypeBool:
		return table.NewBooleanCell(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeDate:
		if t, ok := parseISOCell(raw); ok {
			return table.NewDateTimeCell(t), nil
		}
		return table.NewStringCell(raw), nil
	case excelize.CellTypeError:
		return table.NullCell(), nil
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return table.NewStringCell(raw), nil
		}
		isDate, err := d.isDateStyled(ref)
		if err != nil {
			return table.Cell{}, err
		}
		if isDate {
			if t, err := excelize.ExcelDateToTime(value, d.date1904); err == nil {
				return table.NewDateTimeCell(t.UTC()), nil
			}
		}
		return table.NewNumberCell(value), nil
	}

	return table.NewStringCell(raw), nil
}

// isDateStyled reports whether the number format applied to ref renders a
// date or time
func (d *cellDecoder) isDateStyled(ref string) (bool, error) {
	styleID, err := d.f.GetCellStyle(d.sheet, ref)
	if err != nil {
		return false, fmt.Errorf("failed to get style of %s: %w", ref, err)
	}
	if styleID == 0 {
		return false, nil
	}
	if isDate, ok := d.dateStyles[styleID]; ok {
		return isDate, nil
	}

	style, err := d.f.GetStyle(styleID)
	if err != nil {
		return false, fmt.Errorf("failed to get style %d: %w", styleID, err)
	}
	isDate := isDateNumFmt(style.NumFmt)
	if style.CustomNumFmt != nil {
		isDate = isDateFormatCode(*style.CustomNumFmt)
	}
	d.dateStyles[styleID] = isDate
	return isDate, nil
}

// isDateNumFmt reports whether a built-in number format id is a date or
// time format
func isDateNumFmt(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom format code contains date or
// time tokens once literals, escapes and bracketed sections are removed
func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket, escaped := false, false, false

	for _, r := range code {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			inQuote = r != '"'
		case inBracket:
			inBracket = r != ']'
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		default:
			b.WriteRune(r)
		}
	}

	stripped := strings.ToLower(b.String())
	if stripped == "general" {
		return false
	}
	return strings.ContainsAny(stripped, "ydh")
}

// parseISOCell parses the ISO 8601 text stored in cells of type "d"
func parseISOCell(raw string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
