package profiling

import (
	"time"

	"sheetclean/domain/table"
)

// Warning flags a column property worth a human look
type Warning string

const (
	// WarningAllNull marks a column with no values left after cleaning
	WarningAllNull Warning = "all_null"
	// WarningMixedKinds marks a raw column holding more than one kind of value
	WarningMixedKinds Warning = "mixed_kinds"
)

// NumericSummary holds summary statistics of a numeric column
type NumericSummary struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Q25      float64 `json:"q25"`
	Q75      float64 `json:"q75"`
	Skewness float64 `json:"skewness"`
}

// DateTimeSummary holds the range of a datetime column
type DateTimeSummary struct {
	Min      time.Time `json:"min"`
	Max      time.Time `json:"max"`
	SpanDays float64   `json:"span_days"`
}

// BooleanSummary counts the values of a boolean column
type BooleanSummary struct {
	TrueCount  int     `json:"true_count"`
	FalseCount int     `json:"false_count"`
	TrueRatio  float64 `json:"true_ratio"`
}

// ValueCount is one entry of a frequency table
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// TextSummary describes a text column
type TextSummary struct {
	TopValues  []ValueCount `json:"top_values"`
	MeanLength float64      `json:"mean_length"`
}

// ColumnProfile is the diagnostic record of one clean column
type ColumnProfile struct {
	Name          string             `json:"name"`
	Description   string             `json:"description,omitempty"`
	Type          table.SemanticType `json:"type"`
	Storage       table.Storage      `json:"storage"`
	RowCount      int                `json:"row_count"`
	NullCount     int                `json:"null_count"`
	NonNullCount  int                `json:"non_null_count"`
	NullRatio     float64            `json:"null_ratio"`
	DistinctCount int                `json:"distinct_count"`
	RawKinds      []table.CellKind   `json:"raw_kinds,omitempty"`
	Warnings      []Warning          `json:"warnings"`

	Numeric  *NumericSummary  `json:"numeric,omitempty"`
	DateTime *DateTimeSummary `json:"datetime,omitempty"`
	Boolean  *BooleanSummary  `json:"boolean,omitempty"`
	Text     *TextSummary     `json:"text,omitempty"`
}

// HasWarning reports whether the profile carries w
func (p ColumnProfile) HasWarning(w Warning) bool {
	for _, got := range p.Warnings {
		if got == w {
			return true
		}
	}
	return false
}

// TableProfile collects the column profiles of a table in column order
type TableProfile struct {
	RowCount int             `json:"row_count"`
	Columns  []ColumnProfile `json:"columns"`
}
