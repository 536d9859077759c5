// Package serviceerrors defines the typed failures the tenancy core returns
// to callers. Handlers map codes to HTTP statuses; nothing store-specific
// leaks out of the service layer.
package serviceerrors

import "errors"

const (
	CodeAuthorization   = "AUTHORIZATION_DENIED"
	CodeEscalation      = "ESCALATION_DENIED"
	CodeRateLimited     = "RATE_LIMITED"
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "VALIDATION_FAILED"
	CodeConflict        = "CODE_CONFLICT"
	CodeAlreadyConsumed = "ALREADY_CONSUMED"
)

type Error struct {
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

func Authorization(message string) *Error {
	return &Error{Code: CodeAuthorization, Message: message}
}

func Escalation(message string) *Error {
	return &Error{Code: CodeEscalation, Message: message}
}

func RateLimited(message string) *Error {
	return &Error{Code: CodeRateLimited, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

func Validation(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

func AlreadyConsumed(message string) *Error {
	return &Error{Code: CodeAlreadyConsumed, Message: message}
}

// CodeOf extracts the stable code from an error chain, or "" when the error
// is not a service error.
func CodeOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// HasCode reports whether err carries the given service error code.
func HasCode(err error, code string) bool {
	return CodeOf(err) == code
}
