package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// CellKind defines the physical kind of a single cell value
type CellKind string

const (
	KindNull     CellKind = "null"
	KindString   CellKind = "string"
	KindNumber   CellKind = "number"
	KindInteger  CellKind = "integer"
	KindBoolean  CellKind = "boolean"
	KindDateTime CellKind = "datetime"
)

// Layouts used by Cell.Text for datetime values
const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// Cell is a single tagged value. Payloads are held by value so copies never
// alias the caller's data.
type Cell struct {
	kind CellKind
	str  string
	num  float64
	i    int64
	b    bool
	t    time.Time
}

// NullCell creates a missing value
func NullCell() Cell {
	return Cell{kind: KindNull}
}

// NewStringCell creates a string value. Empty strings are kept as strings;
// deciding whether they mean "missing" is the normalizer's job.
func NewStringCell(s string) Cell {
	return Cell{kind: KindString, str: s}
}

// NewNumberCell creates a floating point value. NaN and infinities are missing.
func NewNumberCell(f float64) Cell {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NullCell()
	}
	return Cell{kind: KindNumber, num: f}
}

// NewIntegerCell creates an integer value
func NewIntegerCell(n int64) Cell {
	return Cell{kind: KindInteger, i: n}
}

// NewBooleanCell creates a boolean value
func NewBooleanCell(b bool) Cell {
	return Cell{kind: KindBoolean, b: b}
}

// NewDateTimeCell creates a datetime value
func NewDateTimeCell(t time.Time) Cell {
	return Cell{kind: KindDateTime, t: t}
}

// FromAny converts a loosely typed value (as decoded from JSON or handed over
// by a reader) into a Cell.
func FromAny(v interface{}) Cell {
	switch val := v.(type) {
	case nil:
		return NullCell()
	case Cell:
		return val
	case string:
		return NewStringCell(val)
	case bool:
		return NewBooleanCell(val)
	case float64:
		return NewNumberCell(val)
	case float32:
		return NewNumberCell(float64(val))
	case int:
		return NewNumberCell(float64(val))
	case int8:
		return NewNumberCell(float64(val))
	case int16:
		return NewNumberCell(float64(val))
	case int32:
		return NewNumberCell(float64(val))
	case int64:
		return NewNumberCell(float64(val))
	case uint:
		return NewNumberCell(float64(val))
	case uint8:
		return NewNumberCell(float64(val))
	case uint16:
		return NewNumberCell(float64(val))
	case uint32:
		return NewNumberCell(float64(val))
	case uint64:
		return NewNumberCell(float64(val))
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return NewNumberCell(f)
		}
		return NewStringCell(val.String())
	case time.Time:
		return NewDateTimeCell(val)
	case *time.Time:
		if val == nil {
			return NullCell()
		}
		return NewDateTimeCell(*val)
	default:
		return NewStringCell(fmt.Sprintf("%v", val))
	}
}

// Kind returns the physical kind of the cell
func (c Cell) Kind() CellKind {
	if c.kind == "" {
		return KindNull
	}
	return c.kind
}

// IsNull returns true if the cell holds no value
func (c Cell) IsNull() bool {
	return c.Kind() == KindNull
}

// IsString returns true if the cell holds text
func (c Cell) IsString() bool {
	return c.kind == KindString
}

// AsString returns the string payload
func (c Cell) AsString() (string, bool) {
	return c.str, c.kind == KindString
}

// AsFloat64 returns the numeric payload for number and integer cells
func (c Cell) AsFloat64() (float64, bool) {
	switch c.kind {
	case KindNumber:
		return c.num, true
	case KindInteger:
		return float64(c.i), true
	}
	return 0, false
}

// AsInt64 returns the payload of an integer cell
func (c Cell) AsInt64() (int64, bool) {
	return c.i, c.kind == KindInteger
}

// AsBoolean returns the payload of a boolean cell
func (c Cell) AsBoolean() (bool, bool) {
	return c.b, c.kind == KindBoolean
}

// AsTime returns the payload of a datetime cell
func (c Cell) AsTime() (time.Time, bool) {
	return c.t, c.kind == KindDateTime
}

// Text returns the textual form of the value, which is what cell
// classification inspects. Null cells render as the empty string.
func (c Cell) Text() string {
	switch c.kind {
	case KindString:
		return c.str
	case KindNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case KindInteger:
		return strconv.FormatInt(c.i, 10)
	case KindBoolean:
		return strconv.FormatBool(c.b)
	case KindDateTime:
		if c.t.Hour() == 0 && c.t.Minute() == 0 && c.t.Second() == 0 && c.t.Nanosecond() == 0 {
			return c.t.Format(dateLayout)
		}
		return c.t.Format(dateTimeLayout)
	}
	return ""
}

// String implements fmt.Stringer
func (c Cell) String() string {
	if c.IsNull() {
		return "<null>"
	}
	return c.Text()
}

// Value returns the payload as a plain Go value, nil for null cells
func (c Cell) Value() interface{} {
	switch c.kind {
	case KindString:
		return c.str
	case KindNumber:
		return c.num
	case KindInteger:
		return c.i
	case KindBoolean:
		return c.b
	case KindDateTime:
		return c.t
	}
	return nil
}

// Equal reports whether two cells hold the same kind and payload
func (c Cell) Equal(other Cell) bool {
	if c.Kind() != other.Kind() {
		return false
	}
	switch c.Kind() {
	case KindString:
		return c.str == other.str
	case KindNumber:
		return c.num == other.num
	case KindInteger:
		return c.i == other.i
	case KindBoolean:
		return c.b == other.b
	case KindDateTime:
		return c.t.Equal(other.t)
	}
	return true
}

// MarshalJSON encodes the payload as its natural JSON value. Datetimes are
// RFC3339 strings.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case KindString:
		return json.Marshal(c.str)
	case KindNumber:
		return json.Marshal(c.num)
	case KindInteger:
		return json.Marshal(c.i)
	case KindBoolean:
		return json.Marshal(c.b)
	case KindDateTime:
		return json.Marshal(c.t.Format(time.RFC3339Nano))
	}
	return []byte("null"), nil
}

// UnmarshalJSON decodes null, string, number and boolean JSON values
func (c *Cell) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("failed to decode cell: %w", err)
	}

	switch v.(type) {
	case map[string]interface{}, []interface{}:
		return fmt.Errorf("cell value must be a scalar, got %s", string(data))
	}

	*c = FromAny(v)
	return nil
}
