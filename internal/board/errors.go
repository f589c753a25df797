package board

import (
	"errors"
	"fmt"
)

// Error represents a board setup or addressing failure.
//
// Board errors are limited to three kinds:
//   - Invalid configuration: bad dimensions or mine count
//   - Out of bounds: coordinate outside the grid
//   - Insufficient space: mines do not fit outside the exclusion set
//
// Routine gameplay refusals (revealing a flagged cell and so on) are not
// errors; the engine reports them as rejected results.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context.
	Details map[string]string
}

// ErrorCode categorizes board errors.
type ErrorCode string

const (
	// ErrCodeInvalidConfiguration indicates bad dimensions or mine count.
	ErrCodeInvalidConfiguration ErrorCode = "INVALID_CONFIGURATION"

	// ErrCodeOutOfBounds indicates a coordinate outside the grid.
	ErrCodeOutOfBounds ErrorCode = "OUT_OF_BOUNDS"

	// ErrCodeInsufficientSpace indicates mines cannot fit given exclusions.
	ErrCodeInsufficientSpace ErrorCode = "INSUFFICIENT_SPACE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidConfiguration returns true if err is an invalid configuration error.
// Uses errors.As to handle wrapped errors.
func IsInvalidConfiguration(err error) bool {
	return hasCode(err, ErrCodeInvalidConfiguration)
}

// IsOutOfBounds returns true if err is an out of bounds error.
func IsOutOfBounds(err error) bool {
	return hasCode(err, ErrCodeOutOfBounds)
}

// IsInsufficientSpace returns true if err is an insufficient space error.
func IsInsufficientSpace(err error) bool {
	return hasCode(err, ErrCodeInsufficientSpace)
}

func hasCode(err error, code ErrorCode) bool {
	var be *Error
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func newConfigError(width, height, mines int, msg string) *Error {
	return &Error{
		Code:    ErrCodeInvalidConfiguration,
		Message: msg,
		Details: map[string]string{
			"width":  fmt.Sprintf("%d", width),
			"height": fmt.Sprintf("%d", height),
			"mines":  fmt.Sprintf("%d", mines),
		},
	}
}

// NewOutOfBoundsError creates an Error for a coordinate outside a width × height grid.
func NewOutOfBoundsError(c Coord, width, height int) *Error {
	return &Error{
		Code:    ErrCodeOutOfBounds,
		Message: fmt.Sprintf("cell %s outside %dx%d board", c, width, height),
		Details: map[string]string{
			"row": fmt.Sprintf("%d", c.Row),
			"col": fmt.Sprintf("%d", c.Col),
		},
	}
}

func newInsufficientSpaceError(mines, available int) *Error {
	return &Error{
		Code:    ErrCodeInsufficientSpace,
		Message: fmt.Sprintf("cannot place %d mines in %d available cells", mines, available),
		Details: map[string]string{
			"mines":     fmt.Sprintf("%d", mines),
			"available": fmt.Sprintf("%d", available),
		},
	}
}
