package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrRaggedTable     = fmt.Errorf("%w: inconsistent column lengths", ErrValidation)
	ErrRowWidth        = fmt.Errorf("%w: row width does not match header", ErrValidation)
	ErrEmptySheetName  = fmt.Errorf("%w: sheet name is empty", ErrValidation)
	ErrInvalidTableRef = fmt.Errorf("%w: invalid table name", ErrValidation)

	// Not found errors
	ErrNotFound      = errors.New("resource not found")
	ErrSheetNotFound = fmt.Errorf("%w: sheet", ErrNotFound)
	ErrTableNotFound = fmt.Errorf("%w: table", ErrNotFound)

	// Source errors
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptySheet        = errors.New("sheet has no header row")
)

// NewValidationError reports a structurally invalid call for a field.
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrValidation, field, reason)
}

func NewRaggedTableError(column string, got, want int) error {
	return fmt.Errorf("%w: column %q has %d values, expected %d", ErrRaggedTable, column, got, want)
}

func NewRowWidthError(row, got, want int) error {
	return fmt.Errorf("%w: row %d has %d cells, header has %d", ErrRowWidth, row, got, want)
}

func NewSheetNotFoundError(sheet string) error {
	return fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
}

// Error checking helpers
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
