// Package errors defines the application error taxonomy shared by the
// gateways, the session controller and the delivery layer. Every failure a
// user can see is classified into one of four kinds, and the kind decides
// the propagation policy: bootstrap swallows everything, login and register
// surface one message, and an auth failure anywhere invalidates the stored
// credential.
package errors

import (
	"sort"
	"strings"

	"harvest/internal/errors"
)

// Kind classifies a failure by what the caller should do about it.
type Kind int

const (
	// KindUnknown is the zero value for errors that carry no classification.
	KindUnknown Kind = iota
	// KindNetwork means no response reached the client at all.
	KindNetwork
	// KindAuth means the remote API rejected the credential (401-equivalent).
	KindAuth
	// KindValidation means the request was rejected with field-level detail.
	KindValidation
	// KindServer means a 5xx response or a response of unexpected shape.
	KindServer
)

// String returns the taxonomy name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	Kind() Kind        // Taxonomy kind driving the propagation policy
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	kind      Kind
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(kind Kind, errorCode, message, details string) *BaseError {
	return &BaseError{
		kind:      kind,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// Kind returns the taxonomy kind
func (e *BaseError) Kind() Kind {
	return e.kind
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		kind:      e.kind,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Network-related errors
	ErrNoResponse = NewBaseError(
		KindNetwork,
		"NO_RESPONSE",
		"No response from server. Please check your network connection.",
		"",
	)

	// Auth-related errors
	ErrCredentialRejected = NewBaseError(
		KindAuth,
		"CREDENTIAL_REJECTED",
		"Authentication failed. Please log in again.",
		"",
	)

	ErrInvalidCredentials = NewBaseError(
		KindAuth,
		"INVALID_CREDENTIALS",
		"Incorrect username or password.",
		"",
	)

	ErrLoginRequired = NewBaseError(
		KindAuth,
		"LOGIN_REQUIRED",
		"You must be logged in to do that.",
		"",
	)

	// Session lifecycle errors
	ErrOperationPending = NewBaseError(
		KindValidation,
		"OPERATION_PENDING",
		"Another sign-in is already in progress.",
		"",
	)

	// Server-related errors
	ErrMalformedProfile = NewBaseError(
		KindServer,
		"MALFORMED_PROFILE",
		"The server returned an unreadable profile.",
		"",
	)

	ErrPermissionDenied = NewBaseError(
		KindServer,
		"PERMISSION_DENIED",
		"You do not have permission to perform this action.",
		"",
	)

	ErrResourceNotFound = NewBaseError(
		KindServer,
		"RESOURCE_NOT_FOUND",
		"The requested resource was not found.",
		"",
	)

	ErrUnexpectedResponse = NewBaseError(
		KindServer,
		"UNEXPECTED_RESPONSE",
		"An unexpected error occurred. Please try again.",
		"",
	)
)

// ValidationError carries field-level detail from a rejected request. The
// user-facing message concatenates every field error into a single string.
type ValidationError struct {
	fields  map[string][]string
	message string
}

// NewValidationError builds a validation error from per-field messages.
func NewValidationError(fields map[string][]string) *ValidationError {
	return &ValidationError{
		fields:  fields,
		message: joinFieldErrors(fields),
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.message
}

// Kind returns KindValidation.
func (e *ValidationError) Kind() Kind {
	return KindValidation
}

// ErrorCode returns the business error code
func (e *ValidationError) ErrorCode() string {
	return "VALIDATION_FAILED"
}

// Message returns the concatenated field errors.
func (e *ValidationError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *ValidationError) Details() string {
	return e.message
}

// Fields returns the per-field messages so a form can focus the right input.
func (e *ValidationError) Fields() map[string][]string {
	return e.fields
}

func joinFieldErrors(fields map[string][]string) string {
	if len(fields) == 0 {
		return "Validation failed."
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(fields[name], " "))
	}

	return "Validation failed: " + strings.Join(parts, "; ")
}

// KindOf extracts the taxonomy kind from any error in err's tree.
// Unclassified errors report KindUnknown.
func KindOf(err error) Kind {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}

	return KindUnknown
}

// MessageOf extracts the user-facing message from any error in err's tree,
// falling back to a generic message for unclassified errors.
func MessageOf(err error) string {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Message()
	}

	return ErrUnexpectedResponse.Message()
}

// IsAuth reports whether err is classified as an auth failure.
func IsAuth(err error) bool {
	return KindOf(err) == KindAuth
}

// IsNetwork reports whether err is classified as a network failure.
func IsNetwork(err error) bool {
	return KindOf(err) == KindNetwork
}
