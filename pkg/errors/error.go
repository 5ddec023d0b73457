// Package errors provides structured errors with typed codes for the backtest pipeline.
//
// Error codes are grouped by category:
//   - General errors (1-99)
//   - Validation errors (100-199): bad periods, intervals, fees and configuration
//   - Data errors (200-299): empty series, corrupt prices or volumes, data source failures
//   - Search errors (400-499): parameter search failures
//   - Backtest errors (600-699): runner setup and result writing
//
// Usage:
//
//	err := errors.Newf(errors.ErrCodeDataIntegrity, "non-positive price %f at %s", price, ts)
//	if errors.HasCode(err, errors.ErrCodeDataIntegrity) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error is an error carrying an ErrorCode and an optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to cause.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Wrapf attaches a code and formatted message to cause.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Annotatef adds a formatted message to cause and keeps cause's code. fallback
// is used only when cause carries no code.
func Annotatef(fallback ErrorCode, cause error, format string, args ...any) *Error {
	code := GetCode(cause)
	if code == ErrCodeUnknown {
		code = fallback
	}

	return Wrapf(code, cause, format, args...)
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is is errors.Is from the standard library.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As from the standard library.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode of the first *Error in err's chain.
// Returns ErrCodeUnknown when there is none.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	if IsInsufficientDataError(err) {
		return ErrCodeInsufficientData
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// InsufficientDataError is returned when a result needs more observations than
// the series holds, e.g. a benchmark ratio over an empty series.
type InsufficientDataError struct {
	Required int
	Actual   int
	Message  string
}

// NewInsufficientDataErrorf creates a new InsufficientDataError with a formatted message.
func NewInsufficientDataErrorf(required, actual int, format string, args ...any) *InsufficientDataError {
	return &InsufficientDataError{
		Required: required,
		Actual:   actual,
		Message:  fmt.Sprintf(format, args...),
	}
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s (required %d, got %d)", e.Message, e.Required, e.Actual)
}

// IsInsufficientDataError checks if err's chain holds an InsufficientDataError.
func IsInsufficientDataError(err error) bool {
	var insufficientErr *InsufficientDataError

	return errors.As(err, &insufficientErr)
}
