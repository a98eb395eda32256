package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeNotAuthenticated indicates the request carries no usable session token.
	ErrCodeNotAuthenticated ErrorCode = "not_authenticated"
	// ErrCodeTokenExpired indicates a session store miss (absent or lapsed token).
	ErrCodeTokenExpired ErrorCode = "token_expired"
	// ErrCodeSendCode indicates the protocol service refused to send a login code.
	ErrCodeSendCode ErrorCode = "send_code_failed"
	// ErrCodeSignIn indicates a code or password sign-in failed.
	ErrCodeSignIn ErrorCode = "sign_in_failed"
	// ErrCodeTwoFactorRequired marks the password branch of the login flow. It is not a failure.
	ErrCodeTwoFactorRequired ErrorCode = "two_factor_required"
	// ErrCodeProtocol indicates a profile, dialog or message call failed.
	ErrCodeProtocol ErrorCode = "protocol_call_failed"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates an AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NotAuthenticated creates a new NotAuthenticated error.
func NotAuthenticated(message string) *AppError {
	return New(ErrCodeNotAuthenticated, message)
}

// TokenExpired creates a new TokenExpired error.
func TokenExpired(message string) *AppError {
	return New(ErrCodeTokenExpired, message)
}

// TwoFactorRequired creates the flow-branch marker returned when a password is needed.
func TwoFactorRequired(message string) *AppError {
	return New(ErrCodeTwoFactorRequired, message)
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return New(ErrCodeNotFound, message)
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// Validationf creates a new Validation error with formatted message.
func Validationf(format string, args ...any) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf(format, args...))
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotAuthenticated checks if an error is a NotAuthenticated error.
func IsNotAuthenticated(err error) bool {
	return isCode(err, ErrCodeNotAuthenticated)
}

// IsTokenExpired checks if an error is a TokenExpired error.
func IsTokenExpired(err error) bool {
	return isCode(err, ErrCodeTokenExpired)
}

// IsTwoFactorRequired checks if an error is the two-factor flow branch.
func IsTwoFactorRequired(err error) bool {
	return isCode(err, ErrCodeTwoFactorRequired)
}

// IsSignIn checks if an error is a SignIn error.
func IsSignIn(err error) bool {
	return isCode(err, ErrCodeSignIn)
}

// IsSendCode checks if an error is a SendCode error.
func IsSendCode(err error) bool {
	return isCode(err, ErrCodeSendCode)
}

// IsProtocol checks if an error is a ProtocolCall error.
func IsProtocol(err error) bool {
	return isCode(err, ErrCodeProtocol)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}

// Message returns the user-facing message of an AppError without its cause chain.
// Non-AppErrors return their full Error() text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
