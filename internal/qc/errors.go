package qc

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a pipeline error.
type ErrorKind string

const (
	// ErrKindMissingInput means an input table is absent, or a join key
	// column is undefined on one of its sides.
	ErrKindMissingInput ErrorKind = "missing_input"
	// ErrKindSchema means an input table's schema is malformed.
	ErrKindSchema ErrorKind = "schema"
	// ErrKindEncoding means the result could not be serialized by the
	// output boundary.
	ErrKindEncoding ErrorKind = "encoding"
	// ErrKindExecution covers any other failure during the build.
	ErrKindExecution ErrorKind = "execution"
)

// PipelineError is a build failure with the stage it occurred in and the
// underlying cause attached. No partial output accompanies it.
type PipelineError struct {
	Kind    ErrorKind
	Stage   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e == nil {
		return "unknown pipeline error"
	}
	if e.Stage != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Stage, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *PipelineError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewMissingInputError creates a missing-input error.
func NewMissingInputError(stage, message string) *PipelineError {
	return &PipelineError{
		Kind:    ErrKindMissingInput,
		Stage:   stage,
		Message: message,
	}
}

// NewSchemaError creates a schema error.
func NewSchemaError(stage, message string, cause error) *PipelineError {
	return &PipelineError{
		Kind:    ErrKindSchema,
		Stage:   stage,
		Message: message,
		Cause:   cause,
	}
}

// NewEncodingError creates an encoding error wrapping the serializer's
// failure.
func NewEncodingError(cause error) *PipelineError {
	return &PipelineError{
		Kind:    ErrKindEncoding,
		Message: "failed to encode output table",
		Cause:   cause,
	}
}

// WrapError wraps an error with pipeline context. A *PipelineError is
// enhanced in place rather than double-wrapped.
func WrapError(err error, stage, message string) *PipelineError {
	if err == nil {
		return nil
	}
	var pErr *PipelineError
	if errors.As(err, &pErr) {
		if pErr.Stage == "" {
			pErr.Stage = stage
		}
		if message != "" {
			pErr.Message = fmt.Sprintf("%s: %s", message, pErr.Message)
		}
		return pErr
	}
	return &PipelineError{
		Kind:    ErrKindExecution,
		Stage:   stage,
		Message: message,
		Cause:   err,
	}
}

// KindOf returns the kind of a pipeline error, or ErrKindExecution for
// any other non-nil error.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var pErr *PipelineError
	if errors.As(err, &pErr) {
		return pErr.Kind
	}
	return ErrKindExecution
}
