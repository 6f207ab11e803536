package types

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure that aborts a run wraps exactly one of these, so
// callers can classify it with errors.Is.
var (
	// ErrSourceUnavailable means the extraction location is absent or unreadable.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrMalformedRecord means a sub-record did not split into FieldCount fields.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrNumericParse means quantity or price is not a valid number.
	ErrNumericParse = errors.New("numeric parse error")

	// ErrArtifactWrite means an output artifact could not be fully written.
	ErrArtifactWrite = errors.New("artifact write error")
)

// RecordError describes a failure tied to a single sub-record.
type RecordError struct {
	// Kind is ErrMalformedRecord or ErrNumericParse.
	Kind error

	// Source is the name of the input the sub-record came from.
	Source string

	// Index is the 1-based position of the sub-record in its payload line.
	Index int

	// Record is the raw sub-record text.
	Record string

	// Field and Value are set for field-level failures.
	Field string
	Value string

	// Reason is a short human-readable explanation.
	Reason string
}

func (e *RecordError) Error() string {
	msg := fmt.Sprintf("%v: %s sub-record %d", e.Kind, e.Source, e.Index)
	if e.Field != "" {
		msg += fmt.Sprintf(", field '%s' (value: '%s')", e.Field, e.Value)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Field == "" && e.Record != "" {
		msg += fmt.Sprintf(" [%s]", e.Record)
	}
	return msg
}

// Unwrap exposes the error kind to errors.Is.
func (e *RecordError) Unwrap() error {
	return e.Kind
}
