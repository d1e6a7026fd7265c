package models

import (
	"errors"
	"fmt"
)

// AppError is the application error type shared by the API client and views.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error codes used across the client.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeDecode         = "DECODE_ERROR"
	CodeNetwork        = "NETWORK_ERROR"
	CodeAPI            = "API_ERROR"
	CodeSessionInvalid = "SESSION_INVALID"
)

// NewValidationError reports input that was rejected before any call was made.
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewDecodeError reports a response whose shape did not match the declared schema.
func NewDecodeError(message string, err error) *AppError {
	return &AppError{
		Code:    CodeDecode,
		Message: message,
		Err:     err,
	}
}

// NewNetworkError reports a connectivity failure. The user-facing message is
// generic; the cause is kept for logs.
func NewNetworkError(err error) *AppError {
	return &AppError{
		Code:    CodeNetwork,
		Message: "Network error: unable to reach the server",
		Err:     err,
	}
}

// NewAPIError carries the server-provided message for a non-2xx response.
func NewAPIError(status int, message string) *AppError {
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}
	return &AppError{
		Code:    CodeAPI,
		Message: message,
		Err:     fmt.Errorf("status %d", status),
	}
}

// ErrSessionInvalid is the single signal every authorized call path raises
// when the server rejects the stored token. How the UI reacts to it is a
// configuration policy, not a per-call decision.
var ErrSessionInvalid = &AppError{
	Code:    CodeSessionInvalid,
	Message: "Your session has expired. Please sign in again.",
}

// IsSessionInvalid reports whether err is the session-invalid signal.
func IsSessionInvalid(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeSessionInvalid
	}
	return false
}

// IsValidation reports whether err was a client-side validation rejection.
func IsValidation(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == CodeValidation
	}
	return false
}
