package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure categories every engine and tool
// operation can return, so the ATP/REST adapters can map a failure to a
// stable code without string-sniffing error messages.
type ErrorKind string

const (
	ErrNotFound         ErrorKind = "not_found"
	ErrSchemaViolation  ErrorKind = "schema_violation"
	ErrValidation       ErrorKind = "validation"
	ErrNoGraphLoaded    ErrorKind = "no_graph_loaded"
	ErrBatchRejected    ErrorKind = "batch_rejected"
	ErrPersistence      ErrorKind = "persistence"
	ErrUnsupported      ErrorKind = "unsupported"
	ErrInternal         ErrorKind = "internal"
)

// GraphError is the single error type returned across the engine, tool,
// and adapter layers. Kind drives the wire-level error code; Message is
// human-readable; Details carries optional structured context (e.g. which
// batch index failed validation).
type GraphError struct {
	Kind    ErrorKind
	Message string
	Details map[string]any
}

func (e *GraphError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewError builds a GraphError with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) *GraphError {
	return &GraphError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithDetail attaches a structured detail and returns the receiver, so
// call sites can chain it onto NewError.
func (e *GraphError) WithDetail(key string, value any) *GraphError {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

// KindOf extracts the ErrorKind from err if it is (or wraps) a
// *GraphError, defaulting to ErrInternal for anything else.
func KindOf(err error) ErrorKind {
	var ge *GraphError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ErrInternal
}
