package apperror

import (
	"errors"
)

// Sentinel errors for the authentication domain. Flows translate lower-level
// failures (store errors, jwt library errors, bcrypt mismatches) into one of
// these at the flow boundary; nothing below the handler layer knows about
// HTTP status codes, and nothing above it sees raw driver errors.
var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation error")
	ErrDuplicateEmail = errors.New("duplicate email")
	ErrAuthentication = errors.New("authentication failed")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrConfiguration  = errors.New("configuration error")
)

type AppError struct {
	Err     error  // sentinel this error belongs to
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(message string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: message,
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// DuplicateEmail reports a registration conflict on the normalized email.
// The store raises this from its unique index; the registration flow also
// raises it from its advisory pre-check. Both carry the same message.
func DuplicateEmail() *AppError {
	return &AppError{
		Err:     ErrDuplicateEmail,
		Message: "User already exists with this email",
		Field:   "email",
	}
}

// AuthenticationFailed covers bad credentials, a bad admin secret and a bad
// federation assertion. The message is deliberately the only detail exposed.
func AuthenticationFailed(message string) *AppError {
	return &AppError{
		Err:     ErrAuthentication,
		Message: message,
	}
}

// Unauthorized is raised by the request gates when a bearer token is
// missing, invalid or expired. HTTP handlers map this to 401.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Configuration reports a missing required secret or client id. It is fatal
// for the affected flow only; the rest of the server keeps working.
func Configuration(message string) *AppError {
	return &AppError{
		Err:     ErrConfiguration,
		Message: message,
	}
}
