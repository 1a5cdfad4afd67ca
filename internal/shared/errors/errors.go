// Package errors defines the application error carried from usecases to the HTTP envelope.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError and decides its HTTP status
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindRateLimited
	KindNotConfigured
	KindInfrastructure
)

var kindStatus = map[Kind]int{
	KindInternal:       http.StatusInternalServerError,
	KindValidation:     http.StatusBadRequest,
	KindAuthentication: http.StatusUnauthorized,
	KindAuthorization:  http.StatusForbidden,
	KindNotFound:       http.StatusNotFound,
	KindConflict:       http.StatusConflict,
	KindRateLimited:    http.StatusTooManyRequests,
	KindNotConfigured:  http.StatusInternalServerError,
	KindInfrastructure: http.StatusInternalServerError,
}

// Sentinels returned by adapters and matched with errors.Is
var (
	ErrRateLimited   = errors.New("rate limited")
	ErrNotConfigured = errors.New("service not configured")
)

// AppError is an error whose Message is safe to show to the client
type AppError struct {
	Kind    Kind
	Message string
	Cause   error
	// Fields lists per-field problems of a validation failure
	Fields []ValidationError
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// Status is the HTTP status for the error's kind
func (e *AppError) Status() int { return kindStatus[e.Kind] }

// WithCause records the underlying error; it is only echoed to clients in development
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func newError(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func NewValidationError(message string) *AppError { return newError(KindValidation, message) }

func NewAuthenticationError(message string) *AppError {
	return newError(KindAuthentication, message)
}

func NewAuthorizationError(message string) *AppError { return newError(KindAuthorization, message) }

// NewNotFoundError builds "<resource> not found"
func NewNotFoundError(resource string) *AppError {
	return newError(KindNotFound, resource+" not found")
}

func NewConflictError(message string) *AppError    { return newError(KindConflict, message) }
func NewRateLimitedError(message string) *AppError { return newError(KindRateLimited, message) }

// NewNotConfiguredError reports a dependency that was not configured at startup
func NewNotConfiguredError(message string) *AppError {
	return newError(KindNotConfigured, message).WithCause(ErrNotConfigured)
}

// NewInfrastructureError reports a failing database, cache or remote service
func NewInfrastructureError(message string) *AppError {
	return newError(KindInfrastructure, message)
}

func NewInternalError(message string) *AppError { return newError(KindInternal, message) }

// ValidationError is one failing field
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationErrors accumulates field failures while a payload is checked
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (ve *ValidationErrors) Error() string {
	if len(ve.Errors) == 0 {
		return "validation failed"
	}
	return "validation failed: " + ve.Errors[0].Message
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{}
}

func (ve *ValidationErrors) Add(field, message string, value interface{}) *ValidationErrors {
	ve.Errors = append(ve.Errors, ValidationError{Field: field, Message: message, Value: value})
	return ve
}

func (ve *ValidationErrors) HasErrors() bool { return len(ve.Errors) > 0 }

// ToAppError returns nil when nothing failed
func (ve *ValidationErrors) ToAppError() *AppError {
	if !ve.HasErrors() {
		return nil
	}
	appErr := NewValidationError("validation failed")
	appErr.Fields = append([]ValidationError(nil), ve.Errors...)
	return appErr
}

// WrapError returns err unchanged when it already is an AppError, otherwise an internal error with err as cause
func WrapError(err error, message string) *AppError {
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// AsAppError finds an *AppError in err's chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HTTPStatus returns the status for err; anything that is not an AppError is a 500,
// except the rate-limit sentinel
func HTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Status()
	}
	if errors.Is(err, ErrRateLimited) {
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

func is(err error, kind Kind) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Kind == kind
}

func IsNotFound(err error) bool       { return is(err, KindNotFound) }
func IsValidation(err error) bool     { return is(err, KindValidation) }
func IsAuthentication(err error) bool { return is(err, KindAuthentication) }
func IsConflict(err error) bool       { return is(err, KindConflict) }
