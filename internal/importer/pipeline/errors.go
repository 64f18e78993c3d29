package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies every failure the pipeline can report.
type Kind string

const (
	KindNotFound          Kind = "NOT_FOUND"
	KindBadFormat         Kind = "BAD_FORMAT"
	KindValidationFailed  Kind = "VALIDATION_FAILED"
	KindPersistenceFailed Kind = "PERSISTENCE_FAILED"
)

type kinded interface {
	Kind() Kind
}

// KindOf returns the kind of the first error in err's chain that carries one,
// or "" for foreign errors.
func KindOf(err error) Kind {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return ""
}

// EmptyInputError is returned when the input holds no non-blank line.
type EmptyInputError struct{}

func (*EmptyInputError) Error() string { return "csv file is empty" }
func (*EmptyInputError) Kind() Kind    { return KindBadFormat }

// HeaderFormatError reports a header that does not match the expected columns.
// Column is the 1-based offending column, or 0 for a column count mismatch.
type HeaderFormatError struct {
	Expected []string
	Actual   []string
	Column   int
}

func (e *HeaderFormatError) Error() string {
	if e.Column == 0 {
		return fmt.Sprintf("invalid csv header: expected %d columns, got %d", len(e.Expected), len(e.Actual))
	}
	return fmt.Sprintf("invalid csv header: column %d must be %q (got %q)",
		e.Column, e.Expected[e.Column-1], e.Actual[e.Column-1])
}

func (*HeaderFormatError) Kind() Kind { return KindBadFormat }

// RowParseError is a structural failure on one data line. It aborts the import.
type RowParseError struct {
	Line    int
	Message string
}

func (e *RowParseError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Line, e.Message)
}

func (*RowParseError) Kind() Kind { return KindBadFormat }

// EntityNotFoundError is returned when the stock code does not resolve.
type EntityNotFoundError struct {
	Code string
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("stock code %s not found", e.Code)
}

func (*EntityNotFoundError) Kind() Kind { return KindNotFound }

// OptionError reports a malformed import option such as a date filter bound.
type OptionError struct {
	Option string
	Value  string
	Reason string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Option, e.Value, e.Reason)
}

func (*OptionError) Kind() Kind { return KindBadFormat }

// RowError is a row-scoped, recoverable failure reported inside a Result.
type RowError struct {
	Row     int               `json:"row"`
	Key     map[string]string `json:"key,omitempty"`
	Message string            `json:"message"`
	Kind    Kind              `json:"kind"`
}
