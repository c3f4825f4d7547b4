package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeColumnNotFound   = "COLUMN_NOT_FOUND"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeReaderError      = "READER_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeInternalError    = "INTERNAL_ERROR"
)

// Common error constructors

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

// InsufficientData signals that an operation had too few usable
// observations; the message must name the column and operation.
func InsufficientData(format string, args ...interface{}) *AppError {
	return New(CodeInsufficientData, fmt.Sprintf(format, args...))
}

// ColumnNotFound signals a reference to a column absent from the dataset.
func ColumnNotFound(operation, column string) *AppError {
	return New(CodeColumnNotFound, fmt.Sprintf("%s: column %q not found in dataset", operation, column))
}

// InvalidInput signals malformed caller-supplied parameters.
func InvalidInput(format string, args ...interface{}) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf(format, args...))
}

// NotFound signals a missing resource (e.g. an unknown dataset handle).
func NotFound(format string, args ...interface{}) *AppError {
	return New(CodeNotFound, fmt.Sprintf(format, args...))
}
