package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeMissingFile   ErrorType = "MISSING_FILE"
	ErrTypeMalformedData ErrorType = "MALFORMED_DATA"
	ErrTypeEmptyResult   ErrorType = "EMPTY_RESULT"
	ErrTypeModelFit      ErrorType = "MODEL_FIT"
	ErrTypeConfig        ErrorType = "CONFIG"
	ErrTypeOutput        ErrorType = "OUTPUT"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewMissingFileError is returned when the input workbook cannot be found or opened
func NewMissingFileError(path string, cause error) *AppError {
	return NewAppError(ErrTypeMissingFile, fmt.Sprintf("input file %q not readable", path), cause).
		WithContext("path", path)
}

// NewMalformedDataError is returned when a required column is absent or a cell
// cannot be coerced to its expected type
func NewMalformedDataError(message string, cause error) *AppError {
	return NewAppError(ErrTypeMalformedData, message, cause)
}

// NewEmptyResultError is returned when a filter matches nothing but a value is required
func NewEmptyResultError(query string) *AppError {
	return NewAppError(ErrTypeEmptyResult, fmt.Sprintf("%s: no matching rows", query), nil).
		WithContext("query", query)
}

// NewModelFitError creates a model fitting error
func NewModelFitError(message string, cause error) *AppError {
	return NewAppError(ErrTypeModelFit, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewOutputError is returned when a report file cannot be written
func NewOutputError(message string, cause error) *AppError {
	return NewAppError(ErrTypeOutput, message, cause)
}

// TypeOf returns the AppError type found in err's chain, or "" if there is none
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsType reports whether err's chain contains an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	return TypeOf(err) == errType
}
