// Package apperror defines the application error taxonomy shared by services
// and the HTTP boundary.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code returned to clients.
type Code string

const (
	CodeAuthenticationRequired Code = "authentication_required"
	CodeUserAlreadyExists      Code = "user_already_exists"
	CodeUserNotFound           Code = "user_not_found"
	CodeIncorrectPassword      Code = "incorrect_password"
	CodeProductNotFound        Code = "product_not_found"
	CodeValidationFailed       Code = "validation_failed"
	CodeNotFound               Code = "not_found"
	CodeInternal               Code = "internal_error"
	CodeUnknown                Code = "some_thing_went_wrong"
)

// statusMap maps error codes to HTTP status codes.
var statusMap = map[Code]int{
	CodeAuthenticationRequired: http.StatusUnauthorized,
	CodeUserAlreadyExists:      http.StatusConflict,
	CodeUserNotFound:           http.StatusBadRequest,
	CodeIncorrectPassword:      http.StatusBadRequest,
	CodeProductNotFound:        http.StatusNotFound,
	CodeValidationFailed:       http.StatusBadRequest,
	CodeNotFound:               http.StatusNotFound,
	CodeInternal:               http.StatusInternalServerError,
}

// FieldError describes one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// AppError is a business or infrastructure failure carrying a code and optional
// message, status override and field details.
type AppError struct {
	Code    Code
	Message string
	Status  int
	Fields  []FieldError
	Cause   error
}

// New creates an AppError for code.
func New(code Code) *AppError {
	return &AppError{Code: code}
}

// Internal wraps an unexpected failure so it surfaces as a 5xx.
func Internal(cause error) *AppError {
	return &AppError{Code: CodeInternal, Cause: cause}
}

// Validation creates a validation error with per-field details.
func Validation(fields ...FieldError) *AppError {
	return &AppError{Code: CodeValidationFailed, Fields: fields}
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := string(e.Code)
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s (caused by: %v)", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithMessage sets a client-facing message that bypasses translation.
func (e *AppError) WithMessage(format string, args ...interface{}) *AppError {
	e.Message = fmt.Sprintf(format, args...)
	return e
}

// WithStatus overrides the HTTP status derived from the code.
func (e *AppError) WithStatus(status int) *AppError {
	e.Status = status
	return e
}

// WithCause attaches the underlying error for server-side logging.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// HTTPStatus returns the HTTP status code for this error. Codes without a
// mapping default to 400.
func (e *AppError) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	if status, ok := statusMap[e.Code]; ok {
		return status
	}
	return http.StatusBadRequest
}

// From extracts an *AppError from err's chain.
func From(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	appErr, ok := From(err)
	return ok && appErr.Code == code
}
