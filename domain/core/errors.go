package core

import (
	"errors"
	"fmt"
)

// Domain errors. Statistical degeneracy (zero variance, empty groups) is never
// reported through these; it shows up as NaN or Inf in result fields.
var (
	ErrNotFound = errors.New("resource not found")

	// Input contract violations
	ErrEmptyInput           = errors.New("empty input collection")
	ErrLengthMismatch       = errors.New("paired samples differ in length")
	ErrNoNonZeroDifferences = errors.New("all paired differences are zero")
	ErrUnknownAttribute     = errors.New("unknown demographic attribute")
	ErrUnknownConstruct     = errors.New("unknown construct")
	ErrInvalidAnswer        = errors.New("invalid survey answer")

	// Schema errors
	ErrInvalidSchema = errors.New("invalid item schema")
	ErrUnknownItem   = fmt.Errorf("%w: unknown item", ErrInvalidSchema)
	ErrDuplicateItem = fmt.Errorf("%w: duplicate item", ErrInvalidSchema)
	ErrEmptyScale    = fmt.Errorf("%w: scale has no items", ErrInvalidSchema)
)

// NewLengthMismatchError reports two paired columns of different sizes.
func NewLengthMismatchError(a, b int) error {
	return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, a, b)
}

// NewSchemaError reports a schema problem for a construct/condition scale.
func NewSchemaError(kind error, scale, detail string) error {
	return fmt.Errorf("%w in %s: %s", kind, scale, detail)
}

// IsInputError reports whether err is a caller contract violation.
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrLengthMismatch) ||
		errors.Is(err, ErrNoNonZeroDifferences) ||
		errors.Is(err, ErrUnknownAttribute) ||
		errors.Is(err, ErrInvalidAnswer) ||
		errors.Is(err, ErrUnknownConstruct)
}

// IsSchemaError reports whether err came from schema validation.
func IsSchemaError(err error) bool {
	return errors.Is(err, ErrInvalidSchema)
}
