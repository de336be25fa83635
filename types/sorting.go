package types

import (
	"strings"
)

// Direction represents sorting direction.
type Direction string

const (
	Ascending  Direction = "ASC"  // Ascending order
	Descending Direction = "DESC" // Descending order
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == Ascending || d == Descending
}

// SortSpec represents a single sorting criterion handed to the backend.
type SortSpec struct {
	Field     string    `json:"field"`     // Field to sort by
	Direction Direction `json:"direction"` // Sort direction
}

// String returns the "field DIRECTION" form used by sort selectors.
func (s SortSpec) String() string {
	return s.Field + " " + string(s.Direction)
}

// ParseSort parses a "field DIRECTION" selector.
// It returns false unless the input holds exactly two single-space separated
// tokens and the second one is a known direction.
func ParseSort(s string) (*SortSpec, bool) {
	if s == "" {
		return nil, false
	}
	tokens := strings.Split(s, " ")
	if len(tokens) != 2 || tokens[0] == "" {
		return nil, false
	}
	dir := Direction(tokens[1])
	if !dir.Valid() {
		return nil, false
	}
	return &SortSpec{Field: tokens[0], Direction: dir}, true
}

// JoinSort builds a selector from its two parts, or "" when either is empty.
func JoinSort(field, direction string) string {
	if field == "" || direction == "" {
		return ""
	}
	return field + " " + direction
}
