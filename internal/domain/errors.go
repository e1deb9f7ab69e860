package domain

import "fmt"

// MissingFieldError is returned when a required input field is absent or non-numeric.
// Row is the 1-based data row when known, 0 otherwise.
type MissingFieldError struct {
	Field string
	Row   int
}

func (e *MissingFieldError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("missing or non-numeric field %q at row %d", e.Field, e.Row)
	}
	return fmt.Sprintf("missing or non-numeric field %q", e.Field)
}

// UnknownFieldError is returned when a prediction request carries a key outside FeatureNames
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q", e.Field)
}

// EmptyCategoryError is returned when no rows match the requested category
type EmptyCategoryError struct {
	Category string
}

func (e *EmptyCategoryError) Error() string {
	return fmt.Sprintf("no rows for category %q", e.Category)
}

// DivisionByZeroError is returned when a relative change has a zero baseline
type DivisionByZeroError struct {
	Quantity string
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("division by zero: %s is 0", e.Quantity)
}

// ModelInferenceError wraps a failure raised by the model adapter. The cause is kept unchanged.
type ModelInferenceError struct {
	Err error
}

func (e *ModelInferenceError) Error() string {
	return fmt.Sprintf("model inference failed: %v", e.Err)
}

func (e *ModelInferenceError) Unwrap() error {
	return e.Err
}
