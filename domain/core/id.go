package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Falls back to v4 if v7 fails
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// ParseID validates s as a UUID and returns it in canonical form
func ParseID(s string) (ID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTableRef, s)
	}
	return ID(id.String()), nil
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Short returns the last n hex digits of the ID. UUID v7 ids share their
// leading timestamp bits, so the tail is the distinguishing part.
func (id ID) Short(n int) string {
	hex := strings.ReplaceAll(string(id), "-", "")
	if n >= len(hex) {
		return hex
	}
	return hex[len(hex)-n:]
}
