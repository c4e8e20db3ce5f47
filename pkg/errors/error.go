// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid parameters and unrecoverable configuration
//   - Data errors (200-299): Market or sentiment data that could not be fetched
//   - Model errors (300-399): Adaptive model weight state
//   - Strategy errors (400-499): Halted or unknown strategies
//   - Ledger errors (500-599): Balance, position and reconciliation failures
//   - Exchange errors (600-699): Exchange capability failures
//   - Journal errors (700-799): Trade journal export failures
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeInvalidParameter, "invalid parameter value")
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeDataUnavailable, "ticker request failed", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeInsufficientBalance) { ... }
package errors

import (
	"errors"
	"fmt"
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
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
// An *InsufficientBalanceError reports ErrCodeInsufficientBalance.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	var balanceErr *InsufficientBalanceError
	if errors.As(err, &balanceErr) {
		return ErrCodeInsufficientBalance
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// IsFatal reports whether err belongs to the only class allowed to stop the process:
// unrecoverable configuration errors.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidConfiguration, ErrCodeInvalidInitialCapital, ErrCodeUnsupportedVersion, ErrCodeUnsupportedExchange:
		return true
	default:
		return false
	}
}

// InsufficientBalanceError is returned when a buy would cost more than the
// strategy's available cash.
type InsufficientBalanceError struct {
	Required  float64 // Cost of the rejected buy
	Available float64 // Cash available when the buy was attempted
	Symbol    string
	Strategy  string
}

// NewInsufficientBalanceError creates a new InsufficientBalanceError.
func NewInsufficientBalanceError(required, available float64, symbol, strategy string) *InsufficientBalanceError {
	return &InsufficientBalanceError{
		Required:  required,
		Available: available,
		Symbol:    symbol,
		Strategy:  strategy,
	}
}

// Error implements the error interface.
func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("[%d] insufficient balance for %s %s: required %.8f, available %.8f",
		ErrCodeInsufficientBalance, e.Strategy, e.Symbol, e.Required, e.Available)
}

// IsInsufficientBalanceError checks if an error is an InsufficientBalanceError.
func IsInsufficientBalanceError(err error) bool {
	var balanceErr *InsufficientBalanceError

	return errors.As(err, &balanceErr)
}
