// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation/configuration errors (100-199): Invalid parameters and run configuration
//   - Data errors (200-299): Insufficient data, gaps, ordering violations
//   - Indicator errors (300-399): Technical indicator calculation and lookup errors
//   - Feature errors (400-499): Feature assembly and timeframe alignment errors
//   - Model errors (500-599): Signal model prediction failures
//   - Simulation errors (600-699): Execution simulator and trade log errors
//   - Backtest errors (700-799): Orchestrator setup and run errors
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeInvalidParameter, "invalid parameter value")
//
//	// Create a formatted error
//	err := errors.Newf(errors.ErrCodeDataNotFound, "no bars loaded for timeframe %s", tf)
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeQueryFailed, "failed to execute query", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeDataGap) { ... }
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// InsufficientDataError represents an error when an input series is too short
// for a calculation (e.g., an indicator requiring a minimum warm-up window).
// Note that normal warm-up is not an error: an indicator over a series that is
// long enough yields absent values for the warm-up positions instead.
type InsufficientDataError struct {
	Required int    // Minimum data points required
	Actual   int    // Actual data points available
	Message  string // Human-readable message
}

// NewInsufficientDataError creates a new InsufficientDataError.
func NewInsufficientDataError(required, actual int, message string) *InsufficientDataError {
	return &InsufficientDataError{
		Required: required,
		Actual:   actual,
		Message:  message,
	}
}

// NewInsufficientDataErrorf creates a new InsufficientDataError with a formatted message.
func NewInsufficientDataErrorf(required, actual int, format string, args ...any) *InsufficientDataError {
	return &InsufficientDataError{
		Required: required,
		Actual:   actual,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *InsufficientDataError) Error() string {
	return e.Message
}

// IsInsufficientDataError checks if an error is an InsufficientDataError.
// It uses errors.As to check the error chain.
func IsInsufficientDataError(err error) bool {
	var insufficientErr *InsufficientDataError

	return errors.As(err, &insufficientErr)
}

// DataGapError represents a violation of the expected bar spacing within a
// series: a missing bar, a duplicate timestamp, or out-of-order data. The run
// aborts rather than fabricating interpolated bars.
type DataGapError struct {
	At       time.Time     // Timestamp of the bar where the violation was detected
	Expected time.Duration // Expected spacing between consecutive bars
	Actual   time.Duration // Observed spacing
	Message  string        // Human-readable message
}

// NewDataGapError creates a new DataGapError.
func NewDataGapError(at time.Time, expected, actual time.Duration, message string) *DataGapError {
	return &DataGapError{
		At:       at,
		Expected: expected,
		Actual:   actual,
		Message:  message,
	}
}

// Error implements the error interface.
func (e *DataGapError) Error() string {
	return e.Message
}

// IsDataGapError checks if an error is a DataGapError.
func IsDataGapError(err error) bool {
	var gapErr *DataGapError

	return errors.As(err, &gapErr)
}

// ModelPredictionError represents a signal model failing to produce a
// prediction for a valid feature vector. A corrupted or unavailable model must
// not silently degrade to flat signals, so this error is fatal to the run.
type ModelPredictionError struct {
	Model   string // Name of the predictor that failed
	Message string // Human-readable message
	Cause   error
}

// NewModelPredictionError creates a new ModelPredictionError.
func NewModelPredictionError(model, message string, cause error) *ModelPredictionError {
	return &ModelPredictionError{
		Model:   model,
		Message: message,
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *ModelPredictionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Model, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s: %s", e.Model, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *ModelPredictionError) Unwrap() error {
	return e.Cause
}

// IsModelPredictionError checks if an error is a ModelPredictionError.
func IsModelPredictionError(err error) bool {
	var predictionErr *ModelPredictionError

	return errors.As(err, &predictionErr)
}
