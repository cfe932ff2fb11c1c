// Package yerrors defines the tagged error kinds surfaced across the
// YachtSQL core. Every user-reachable failure is constructed from one
// of these kinds so callers can classify errors without string
// matching; none of them carry a stack trace, and none of the core's
// exported operations panic on account of them.
package yerrors

import (
	"fmt"

	errors "gopkg.in/src-d/go-errors.v1"
)

var (
	// InvalidQuery covers malformed SQL, bad literal syntax, and other
	// conditions the caller can fix by changing the query text.
	InvalidQuery = errors.NewKind("invalid query: %s")

	// TypeMismatch is returned when a value's runtime type does not
	// agree with the type a schema, column, or cast declared.
	TypeMismatch = errors.NewKind("type mismatch: expected %s, found %s")

	// ColumnNotFound is returned when an expression references a
	// column absent from the resolved schema.
	ColumnNotFound = errors.NewKind("column not found: %s")

	// TableNotFound is returned when a scan or catalog lookup names a
	// table the catalog does not know about.
	TableNotFound = errors.NewKind("table not found: %s")

	// Unsupported is returned for syntactically valid constructs this
	// core does not implement.
	Unsupported = errors.NewKind("unsupported: %s")

	// Cancelled is returned when an operator observes the cancellation
	// flag set mid-execution.
	Cancelled = errors.NewKind("query cancelled")

	// Internal is returned when the engine detects its own invariant
	// violation (e.g. an optimizer rule produced an ill-typed plan).
	// It must never be the result of user input alone.
	Internal = errors.NewKind("internal error: %s")

	// DateTimeError is returned by date/time parsing and arithmetic
	// that cannot proceed (bad pattern, overflowed calendar unit).
	DateTimeError = errors.NewKind("datetime error in %s: %s")
)

// OutOfBounds reports an out-of-range column or row index. Per
// spec.md section 4.1 this is always a structured error, never a panic.
func OutOfBounds(index, length int) error {
	return InvalidQuery.New(fmt.Sprintf("index %d out of bounds (length %d)", index, length))
}

// NewTypeMismatch is a convenience constructor so call sites don't
// need to know the positional argument order baked into the kind.
func NewTypeMismatch(expected, found string) error {
	return TypeMismatch.New(expected, found)
}
