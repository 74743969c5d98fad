package coercer

import (
	"math"
	"strconv"
	"strings"

	"sheetclean/adapters/datareadiness/classifier"
	"sheetclean/domain/table"
)

// Stage names the pipeline step that settled a column's type
type Stage string

const (
	StageNative   Stage = "native"   // column already held one typed representation
	StageEmpty    Stage = "empty"    // no non-null cells left after NA normalization
	StageBoolean  Stage = "boolean"  // boolean gate passed
	StageNumeric  Stage = "numeric"  // numeric gate passed
	StageDateTime Stage = "datetime" // datetime gate passed
	StageResidual Stage = "residual" // no gate passed, column stays text
)

// TypeCoercer runs the ordered, threshold-gated coercion stages on a column
type TypeCoercer struct {
	config CoercionConfig
	dates  *DateParser
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{
		config: config,
		dates:  NewDateParser(config.DayFirst),
	}
}

// Config returns the thresholds in use
func (c *TypeCoercer) Config() CoercionConfig {
	return c.config
}

// TypeAnalysis records the counts and ratios behind a column's type decision
type TypeAnalysis struct {
	TotalCount    int     `json:"total_count"`
	NonNullCount  int     `json:"non_null_count"`
	BooleanCount  int     `json:"boolean_count"`
	NumericCount  int     `json:"numeric_count"`
	DateTimeCount int     `json:"datetime_count"`
	BooleanRatio  float64 `json:"boolean_ratio"`
	NumericRatio  float64 `json:"numeric_ratio"`
	DateTimeRatio float64 `json:"datetime_ratio"`
	DecidedBy     Stage   `json:"decided_by"`
}

// ColumnResult is the outcome of normalizing one column
type ColumnResult struct {
	Name     string
	Type     table.SemanticType
	Cells    []table.Cell
	Analysis TypeAnalysis
}

// NormalizeColumn settles a column on one SemanticType and returns the
// converted cells. The input slice is never modified.
func (c *TypeCoercer) NormalizeColumn(name string, cells []table.Cell) (table.SemanticType, []table.Cell) {
	result := c.Normalize(name, cells)
	return result.Type, result.Cells
}

// Normalize is NormalizeColumn plus the analysis that led to the decision.
//
// Stages run in a fixed order: whitespace strip, NA normalization, boolean,
// numeric, datetime, residual text. Boolean is tried before numeric so 1/0
// flag columns are not read as numbers; numeric before datetime so numeric
// strings are never read as dates.
func (c *TypeCoercer) Normalize(name string, cells []table.Cell) ColumnResult {
	analysis := TypeAnalysis{TotalCount: len(cells)}
	working := stripWhitespace(cells)

	if native, ok := nativeType(working); ok {
		analysis.NonNullCount = countNonNull(working)
		if native == table.TypeNumeric && isNativeFlagColumn(working) {
			analysis.BooleanCount = analysis.NonNullCount
			analysis.BooleanRatio = 1
			analysis.DecidedBy = StageBoolean
			return ColumnResult{Name: name, Type: table.TypeBoolean, Cells: toBooleans(working), Analysis: analysis}
		}
		analysis.DecidedBy = StageNative
		return ColumnResult{Name: name, Type: native, Cells: working, Analysis: analysis}
	}

	working = normalizeNA(working)
	analysis.NonNullCount = countNonNull(working)
	if analysis.NonNullCount == 0 {
		analysis.DecidedBy = StageEmpty
		return ColumnResult{Name: name, Type: table.TypeText, Cells: working, Analysis: analysis}
	}

	if converted, ok := c.coerceBoolean(working, &analysis); ok {
		analysis.DecidedBy = StageBoolean
		return ColumnResult{Name: name, Type: table.TypeBoolean, Cells: converted, Analysis: analysis}
	}

	if converted, ok := c.coerceNumeric(working, &analysis); ok {
		analysis.DecidedBy = StageNumeric
		return ColumnResult{Name: name, Type: table.TypeNumeric, Cells: converted, Analysis: analysis}
	}

	if converted, ok := c.coerceDateTime(working, &analysis); ok {
		analysis.DecidedBy = StageDateTime
		return ColumnResult{Name: name, Type: table.TypeDateTime, Cells: converted, Analysis: analysis}
	}

	analysis.DecidedBy = StageResidual
	return ColumnResult{Name: name, Type: table.TypeText, Cells: toText(working), Analysis: analysis}
}

// stripWhitespace trims string cells; other kinds pass through
func stripWhitespace(cells []table.Cell) []table.Cell {
	out := make([]table.Cell, len(cells))
	for i, cell := range cells {
		if s, ok := cell.AsString(); ok {
			out[i] = table.NewStringCell(strings.TrimSpace(s))
			continue
		}
		out[i] = cell
	}
	return out
}

// normalizeNA nulls out string cells holding an NA sentinel
func normalizeNA(cells []table.Cell) []table.Cell {
	out := make([]table.Cell, len(cells))
	for i, cell := range cells {
		if s, ok := cell.AsString(); ok && classifier.IsNALike(s) {
			out[i] = table.NullCell()
			continue
		}
		out[i] = cell
	}
	return out
}

// nativeType reports the settled type of a column whose non-null cells all
// share one typed representation. Such a column has nothing left to coerce.
// isNativeFlagColumn reports whether a native number column holds only 0 and
// 1. Integer cells are what the numeric stage emits for integral values, so a
// column carrying any of them was already settled numeric and stays that way.
func isNativeFlagColumn(cells []table.Cell) bool {
	for _, cell := range cells {
		switch cell.Kind() {
		case table.KindNull:
			continue
		case table.KindNumber:
			if f, _ := cell.AsFloat64(); f != 0 && f != 1 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func toBooleans(cells []table.Cell) []table.Cell {
	out := make([]table.Cell, len(cells))
	for i, cell := range cells {
		out[i] = toBoolean(cell)
	}
	return out
}

func nativeType(cells []table.Cell) (table.SemanticType, bool) {
	var settled table.SemanticType
	seen := false

	for _, cell := range cells {
		var t table.SemanticType
		switch cell.Kind() {
		case table.KindNull:
			continue
		case table.KindNumber, table.KindInteger:
			t = table.TypeNumeric
		case table.KindBoolean:
			t = table.TypeBoolean
		case table.KindDateTime:
			t = table.TypeDateTime
		default:
			return "", false
		}

		if seen && t != settled {
			return "", false
		}
		settled, seen = t, true
	}

	return settled, seen
}

func (c *TypeCoercer) coerceBoolean(cells []table.Cell, analysis *TypeAnalysis) ([]table.Cell, bool) {
	for _, cell := range cells {
		if cell.IsNull() {
			continue
		}
		if _, ok := cell.AsBoolean(); ok || classifier.IsBooleanLike(cell.Text()) {
			analysis.BooleanCount++
		}
	}
	analysis.BooleanRatio = ratio(analysis.BooleanCount, analysis.NonNullCount)

	if analysis.BooleanRatio < c.config.BooleanThreshold {
		return nil, false
	}
	return toBooleans(cells), true
}

func toBoolean(cell table.Cell) table.Cell {
	if cell.IsNull() {
		return cell
	}
	if _, ok := cell.AsBoolean(); ok {
		return cell
	}
	if b, ok := classifier.ParseBoolean(cell.Text()); ok {
		return table.NewBooleanCell(b)
	}
	return table.NullCell()
}

func (c *TypeCoercer) coerceNumeric(cells []table.Cell, analysis *TypeAnalysis) ([]table.Cell, bool) {
	for _, cell := range cells {
		if cell.IsNull() {
			continue
		}
		if _, ok := cell.AsFloat64(); ok || classifier.IsNumericLike(cell.Text()) {
			analysis.NumericCount++
		}
	}
	analysis.NumericRatio = ratio(analysis.NumericCount, analysis.NonNullCount)

	if analysis.NumericRatio < c.config.NumericThreshold {
		return nil, false
	}

	out := make([]table.Cell, len(cells))
	parsed := 0
	for i, cell := range cells {
		out[i] = toNumber(cell)
		if !out[i].IsNull() {
			parsed++
		}
	}
	// every numeric-like cell overflowed or was rejected; an all-null column
	// would re-normalize as text, so leave it to the later stages
	if parsed == 0 {
		return nil, false
	}
	return out, true
}

// toNumber parses a cell as float64 after removing thousands separators and
// spaces. Anything that does not parse becomes null.
func toNumber(cell table.Cell) table.Cell {
	if cell.IsNull() {
		return cell
	}
	if f, ok := cell.AsFloat64(); ok {
		return numberCell(f)
	}

	s := classifier.StripNumericSeparators(cell.Text())
	// strconv accepts hex floats and digit separators, spreadsheets do not
	if s == "" || strings.ContainsAny(s, "xXpP_") {
		return table.NullCell()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return table.NullCell()
	}
	return numberCell(f)
}

// maxExactInteger is the largest magnitude float64 holds without losing
// integer precision
const maxExactInteger = 1 << 53

// numberCell stores integral values as integer cells
func numberCell(f float64) table.Cell {
	if f == math.Trunc(f) && math.Abs(f) <= maxExactInteger {
		return table.NewIntegerCell(int64(f))
	}
	return table.NewNumberCell(f)
}

func (c *TypeCoercer) coerceDateTime(cells []table.Cell, analysis *TypeAnalysis) ([]table.Cell, bool) {
	out := make([]table.Cell, len(cells))
	for i, cell := range cells {
		out[i] = c.toDateTime(cell)
		if !out[i].IsNull() {
			analysis.DateTimeCount++
		}
	}
	analysis.DateTimeRatio = ratio(analysis.DateTimeCount, analysis.NonNullCount)

	if analysis.DateTimeRatio < c.config.DateTimeThreshold {
		return nil, false
	}
	return out, true
}

// toDateTime parses string cells; datetime cells are kept and every other
// kind becomes null
func (c *TypeCoercer) toDateTime(cell table.Cell) table.Cell {
	if _, ok := cell.AsTime(); ok {
		return cell
	}
	s, ok := cell.AsString()
	if !ok {
		return table.NullCell()
	}
	t, ok := c.dates.Parse(s)
	if !ok {
		return table.NullCell()
	}
	return table.NewDateTimeCell(t)
}

// toText renders every non-null cell as a string so a text column holds one
// kind of value
func toText(cells []table.Cell) []table.Cell {
	out := make([]table.Cell, len(cells))
	for i, cell := range cells {
		if cell.IsNull() || cell.IsString() {
			out[i] = cell
			continue
		}
		out[i] = table.NewStringCell(cell.Text())
	}
	return out
}

func countNonNull(cells []table.Cell) int {
	n := 0
	for _, cell := range cells {
		if !cell.IsNull() {
			n++
		}
	}
	return n
}

func ratio(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}
