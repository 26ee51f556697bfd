package scoring

import "fmt"

// ValidationError reports an input outside its declared domain. It is
// returned from the public entry points before any scoring math runs, so a
// caller never receives a partially computed result alongside one.
type ValidationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

func validationErr(field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}
