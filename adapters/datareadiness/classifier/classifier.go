// Package classifier holds the per-cell predicates used to measure how
// confident the normalizer can be about a column's type. All functions are
// pure and total.
package classifier

import (
	"regexp"
	"strings"
)

// naSentinels are the tokens that conventionally mean "missing"
var naSentinels = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
	"none": {},
	"-":    {},
	"--":   {},
}

var (
	truthyTokens = map[string]struct{}{"true": {}, "yes": {}, "y": {}, "1": {}}
	falsyTokens  = map[string]struct{}{"false": {}, "no": {}, "n": {}, "0": {}}
)

// numericPattern accepts an optional sign, digits, and an optional fraction
var numericPattern = regexp.MustCompile(`^[-+]?\d*(?:\.\d+)?$`)

// IsNALike reports whether text is a missing-value sentinel, ignoring case
// and surrounding whitespace
func IsNALike(text string) bool {
	_, ok := naSentinels[normalizeToken(text)]
	return ok
}

// IsNumericLike reports whether text reads as a plain decimal number once
// thousands separators and spaces are removed. NA-like text counts as numeric.
func IsNumericLike(text string) bool {
	if IsNALike(text) {
		return true
	}
	s := StripNumericSeparators(text)
	switch s {
	case "", "+", "-":
		return false
	}
	return numericPattern.MatchString(s)
}

// IsBooleanLike reports whether text is a recognised true/false token
func IsBooleanLike(text string) bool {
	_, ok := ParseBoolean(text)
	return ok
}

// ParseBoolean maps a truthy or falsy token to its value
func ParseBoolean(text string) (value bool, ok bool) {
	token := normalizeToken(text)
	if _, hit := truthyTokens[token]; hit {
		return true, true
	}
	if _, hit := falsyTokens[token]; hit {
		return false, true
	}
	return false, false
}

// StripNumericSeparators trims text and removes thousands separators and
// interior spaces
func StripNumericSeparators(text string) string {
	s := strings.TrimSpace(text)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}

func normalizeToken(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
