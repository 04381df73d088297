package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// FieldError describes a single rejected input field
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError is returned when a goal is outside its documented bounds.
// No simulation is attempted for a goal that fails validation.
type ValidationError struct {
	Operation string       `json:"operation"`
	Fields    []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Operation + ": validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return e.Operation + ": " + strings.Join(msgs, "; ")
}

// NewValidationError builds a ValidationError for a single field
func NewValidationError(operation, field, code, message string) *ValidationError {
	return &ValidationError{
		Operation: operation,
		Fields:    []FieldError{{Field: field, Code: code, Message: message}},
	}
}

// NumericalError is returned when parameters are degenerate and the math
// would otherwise produce NaN or infinite output
type NumericalError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *NumericalError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *NumericalError) Unwrap() error {
	return e.Cause
}

// TimeoutError is returned when an analysis exceeds its computation budget
type TimeoutError struct {
	Operation string
	Budget    time.Duration
	Cause     error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("%s: computation exceeded budget", e.Operation)
	if e.Budget > 0 {
		msg = fmt.Sprintf("%s of %s", msg, e.Budget)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// Retryable is always true: the same request may succeed with a larger budget
// or on a less loaded host.
func (e *TimeoutError) Retryable() bool { return true }

// ErrorKind classifies an error for logging, metrics and batch reporting
func ErrorKind(err error) string {
	var ve *ValidationError
	var ne *NumericalError
	var te *TimeoutError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return "validation"
	case errors.As(err, &ne):
		return "numerical"
	case errors.As(err, &te):
		return "timeout"
	default:
		return "internal"
	}
}
