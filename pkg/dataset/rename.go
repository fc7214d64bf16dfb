package dataset

import (
	"errors"
	"fmt"
)

// ErrColumnMismatch is returned when a raw header cannot be mapped onto the
// canonical column list.
var ErrColumnMismatch = errors.New("column count mismatch")

// RenameRule maps a raw header onto canonical column names.
type RenameRule func(raw, canonical []string) ([]string, error)

// Positional replaces raw names by position. Order is assumed stable across
// years; only the width is checked.
func Positional(raw, canonical []string) ([]string, error) {
	if len(raw) != len(canonical) {
		return nil, fmt.Errorf("%w: raw has %d columns, canonical has %d", ErrColumnMismatch, len(raw), len(canonical))
	}
	out := make([]string, len(canonical))
	copy(out, canonical)
	return out, nil
}
