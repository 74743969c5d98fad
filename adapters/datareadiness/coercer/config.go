package coercer

// CoercionConfig defines the confidence thresholds that gate each stage
type CoercionConfig struct {
	BooleanThreshold  float64 `json:"boolean_threshold"`  // share of non-null cells that must be boolean-like
	NumericThreshold  float64 `json:"numeric_threshold"`  // share of non-null cells that must be numeric-like
	DateTimeThreshold float64 `json:"datetime_threshold"` // share of non-null cells that must parse as dates
	DayFirst          bool    `json:"day_first"`          // read 01/02/2024 as 1 February
}

// DefaultCoercionConfig returns the thresholds the normalizer ships with.
// Boolean columns rarely tolerate stray tokens, numeric and date columns
// routinely carry malformed entries, hence the gap.
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		BooleanThreshold:  0.8,
		NumericThreshold:  0.6,
		DateTimeThreshold: 0.6,
		DayFirst:          true,
	}
}
