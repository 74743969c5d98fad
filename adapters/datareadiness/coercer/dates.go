package coercer

import (
	"strings"
	"time"
)

// Unambiguous layouts, tried before any day/month ordering question arises
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"2006.01.02",
}

var dayFirstLayouts = []string{
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"2-1-2006 15:04:05",
	"2-1-2006 15:04",
	"2-1-2006",
	"2.1.2006 15:04:05",
	"2.1.2006",
	"2/1/06",
	"2-1-06",
	"2.1.06",
}

var monthFirstLayouts = []string{
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"1-2-2006 15:04:05",
	"1-2-2006 15:04",
	"1-2-2006",
	"1.2.2006 15:04:05",
	"1.2.2006",
	"1/2/06",
	"1-2-06",
	"1.2.06",
}

// Month names carry their own ordering
var namedMonthLayouts = []string{
	"2 Jan 2006",
	"2 January 2006",
	"2-Jan-2006",
	"2-Jan-06",
	"2 Jan 2006 15:04",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"Mon, 2 Jan 2006",
	"Monday, January 2, 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// DateParser parses free-form spreadsheet dates. Numeric day/month forms are
// read in the preferred order first and fall back to the other order only
// when the preferred reading is not a valid date.
type DateParser struct {
	layouts []string
}

// NewDateParser creates a parser that prefers day-before-month when dayFirst
// is set
func NewDateParser(dayFirst bool) *DateParser {
	primary, fallback := dayFirstLayouts, monthFirstLayouts
	if !dayFirst {
		primary, fallback = monthFirstLayouts, dayFirstLayouts
	}

	layouts := make([]string, 0, len(isoLayouts)+len(primary)+len(fallback)+len(namedMonthLayouts))
	layouts = append(layouts, isoLayouts...)
	layouts = append(layouts, primary...)
	layouts = append(layouts, fallback...)
	layouts = append(layouts, namedMonthLayouts...)

	return &DateParser{layouts: layouts}
}

// Parse returns the parsed time in UTC
func (p *DateParser) Parse(text string) (time.Time, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range p.layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
