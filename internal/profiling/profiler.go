// Package profiling produces per-column diagnostics of clean tables: null and
// distinct counts, warnings, and a summary suited to each settled type.
package profiling

import (
	"sort"
	"unicode/utf8"

	"sheetclean/domain/core"
	"sheetclean/domain/table"
)

// maxTopValues bounds the frequency table of text columns
const maxTopValues = 5

// DataProfiler profiles clean tables
type DataProfiler struct {
	distribution *DistributionAnalyzer
}

// NewDataProfiler creates a new data profiler
func NewDataProfiler() *DataProfiler {
	return &DataProfiler{distribution: NewDistributionAnalyzer()}
}

// ProfileTable profiles every column of clean. raw, when given, must be the
// table clean was derived from; it is used to spot columns that arrived with
// mixed kinds of values. descriptions maps column names to descriptions and
// may be nil.
func (dp *DataProfiler) ProfileTable(raw *table.RawTable, clean *table.CleanTable, descriptions map[string]string) (*TableProfile, error) {
	if clean == nil {
		return nil, core.NewValidationError("table", "table is nil")
	}
	if raw != nil && len(raw.Columns) != len(clean.Columns) {
		return nil, core.NewValidationError("raw", "raw and clean tables have different column counts")
	}

	profile := &TableProfile{
		RowCount: clean.RowCount(),
		Columns:  make([]ColumnProfile, len(clean.Columns)),
	}

	for i, col := range clean.Columns {
		var rawCells []table.Cell
		if raw != nil {
			rawCells = raw.Columns[i].Cells
		}
		p, err := dp.ProfileColumn(col, rawCells)
		if err != nil {
			return nil, err
		}
		p.Description = descriptions[col.Name]
		profile.Columns[i] = p
	}

	return profile, nil
}

// ProfileColumn profiles one clean column. rawCells may be nil.
func (dp *DataProfiler) ProfileColumn(col table.CleanColumn, rawCells []table.Cell) (ColumnProfile, error) {
	p := ColumnProfile{
		Name:      col.Name,
		Type:      col.Type,
		Storage:   col.Storage,
		RowCount:  len(col.Cells),
		NullCount: col.NullCount(),
		Warnings:  []Warning{},
	}
	p.NonNullCount = p.RowCount - p.NullCount
	if p.RowCount > 0 {
		p.NullRatio = float64(p.NullCount) / float64(p.RowCount)
	}
	p.DistinctCount = len(frequencies(col.Cells))

	if rawCells != nil {
		p.RawKinds = rawKinds(rawCells)
		if len(p.RawKinds) > 1 {
			p.Warnings = append(p.Warnings, WarningMixedKinds)
		}
	}

	if p.NonNullCount == 0 {
		p.Warnings = append(p.Warnings, WarningAllNull)
		return p, nil
	}

	switch col.Type {
	case table.TypeNumeric:
		summary, err := dp.distribution.Summarize(numericValues(col.Cells))
		if err != nil {
			return p, err
		}
		p.Numeric = &summary
	case table.TypeDateTime:
		p.DateTime = summarizeDateTimes(col.Cells)
	case table.TypeBoolean:
		p.Boolean = summarizeBooleans(col.Cells)
	default:
		p.Text = summarizeText(col.Cells)
	}

	return p, nil
}

// rawKinds lists the distinct kinds of the non-null cells, sorted
func rawKinds(cells []table.Cell) []table.CellKind {
	seen := make(map[table.CellKind]bool)
	for _, cell := range cells {
		if !cell.IsNull() {
			seen[cell.Kind()] = true
		}
	}

	kinds := make([]table.CellKind, 0, len(seen))
	for k := range seen {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func frequencies(cells []table.Cell) map[string]int {
	counts := make(map[string]int)
	for _, cell := range cells {
		if !cell.IsNull() {
			counts[cell.Text()]++
		}
	}
	return counts
}

func numericValues(cells []table.Cell) []float64 {
	values := make([]float64, 0, len(cells))
	for _, cell := range cells {
		if f, ok := cell.AsFloat64(); ok {
			values = append(values, f)
		}
	}
	return values
}

func summarizeDateTimes(cells []table.Cell) *DateTimeSummary {
	var summary *DateTimeSummary
	for _, cell := range cells {
		t, ok := cell.AsTime()
		if !ok {
			continue
		}
		if summary == nil {
			summary = &DateTimeSummary{Min: t, Max: t}
			continue
		}
		if t.Before(summary.Min) {
			summary.Min = t
		}
		if t.After(summary.Max) {
			summary.Max = t
		}
	}
	if summary != nil {
		summary.SpanDays = summary.Max.Sub(summary.Min).Hours() / 24
	}
	return summary
}

func summarizeBooleans(cells []table.Cell) *BooleanSummary {
	summary := &BooleanSummary{}
	for _, cell := range cells {
		b, ok := cell.AsBoolean()
		if !ok {
			continue
		}
		if b {
			summary.TrueCount++
		} else {
			summary.FalseCount++
		}
	}
	if total := summary.TrueCount + summary.FalseCount; total > 0 {
		summary.TrueRatio = float64(summary.TrueCount) / float64(total)
	}
	return summary
}

func summarizeText(cells []table.Cell) *TextSummary {
	counts := frequencies(cells)

	top := make([]ValueCount, 0, len(counts))
	totalLength, n := 0, 0
	for value, count := range counts {
		top = append(top, ValueCount{Value: value, Count: count})
		totalLength += utf8.RuneCountInString(value) * count
		n += count
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Value < top[j].Value
	})
	if len(top) > maxTopValues {
		top = top[:maxTopValues]
	}

	summary := &TextSummary{TopValues: top}
	if n > 0 {
		summary.MeanLength = float64(totalLength) / float64(n)
	}
	return summary
}
