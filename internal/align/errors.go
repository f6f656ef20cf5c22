package align

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDirection marks a grid cell whose direction has no known bit.
	// It means the grid was built incorrectly, not that the input was bad.
	ErrInvalidDirection = errors.New("invalid direction")

	// ErrLengthMismatch marks parallel arrays of different cardinality.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrSurfaceNotFound marks a token surface missing from the text.
	ErrSurfaceNotFound = errors.New("surface not found in text")

	// ErrCursorOverrun marks a path consuming more symbols than a side holds.
	ErrCursorOverrun = errors.New("cursor ran past last word")

	// ErrGridTooLarge marks inputs whose grid exceeds the configured cell budget.
	ErrGridTooLarge = errors.New("alignment grid too large")
)

// InvalidDirectionError carries the offending bitmask and, when known, its cell.
type InvalidDirectionError struct {
	Direction Direction
	Pos       *Pos
}

func (e *InvalidDirectionError) Error() string {
	if e.Pos != nil {
		return fmt.Sprintf("path: invalid direction: %03b at %d, %d", uint8(e.Direction), e.Pos.X, e.Pos.Y)
	}
	return fmt.Sprintf("path: invalid direction: %03b", uint8(e.Direction))
}

func (e *InvalidDirectionError) Unwrap() error { return ErrInvalidDirection }

// LengthMismatchError names the array that disagreed with the expected length.
type LengthMismatchError struct {
	Name     string
	Expected int
	Actual   int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("length mismatch of %s: expected %d, got %d", e.Name, e.Expected, e.Actual)
}

func (e *LengthMismatchError) Unwrap() error { return ErrLengthMismatch }

// SurfaceNotFoundError reports a token that could not be located.
type SurfaceNotFoundError struct {
	Index   int
	Surface string
	From    int
}

func (e *SurfaceNotFoundError) Error() string {
	return fmt.Sprintf("token %d: surface %q not found at or after offset %d", e.Index, e.Surface, e.From)
}

func (e *SurfaceNotFoundError) Unwrap() error { return ErrSurfaceNotFound }

// CheckLength returns a *LengthMismatchError when actual != expected.
func CheckLength(name string, expected, actual int) error {
	if expected != actual {
		return &LengthMismatchError{Name: name, Expected: expected, Actual: actual}
	}
	return nil
}
