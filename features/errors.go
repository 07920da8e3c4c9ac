package features

import "fmt"

// MissingFieldError reports a required raw order field that was not supplied.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// NumericDomainError reports a numeric input (or a value derived from it) that
// falls outside the domain the model was trained on: negative counts, hours
// outside 0-23, or anything non-finite.
type NumericDomainError struct {
	Field string
	Value float64
}

func (e *NumericDomainError) Error() string {
	return fmt.Sprintf("field %q out of domain: %v", e.Field, e.Value)
}

// FieldFormatError reports a field that was present but could not be parsed.
type FieldFormatError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldFormatError) Error() string {
	return fmt.Sprintf("field %q has invalid format %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldFormatError) Unwrap() error { return e.Err }
