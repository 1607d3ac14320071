package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Codes sent to clients in the error body.
const (
	CodeValidation  = "VALIDATION_ERROR"
	CodeInvalidID   = "INVALID_ID"
	CodeNotFound    = "NOT_FOUND"
	CodeNoMethod    = "METHOD_NOT_ALLOWED"
	CodeRateLimited = "RATE_LIMITED"
	CodeInternal    = "INTERNAL_ERROR"
)

// AppError is an error that already knows how it should look on the wire.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newError(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, StatusCode: status}
}

// Validation reports rejected input. An empty code falls back to
// CodeValidation.
func Validation(code, message string) *AppError {
	if code == "" {
		code = CodeValidation
	}
	return newError(http.StatusBadRequest, code, message)
}

// InvalidID reports a path identifier that does not parse.
func InvalidID(resource string) *AppError {
	return newError(http.StatusBadRequest, CodeInvalidID, fmt.Sprintf("invalid %s id", resource))
}

func NotFound(resource string) *AppError {
	return newError(http.StatusNotFound, CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func MethodNotAllowed(method string) *AppError {
	return newError(http.StatusMethodNotAllowed, CodeNoMethod, fmt.Sprintf("method %s not allowed", method))
}

func TooManyRequests(message string) *AppError {
	return newError(http.StatusTooManyRequests, CodeRateLimited, message)
}

// Internal hides err behind a generic message; err stays reachable through
// Unwrap for logging.
func Internal(err error) *AppError {
	e := newError(http.StatusInternalServerError, CodeInternal, "an internal error occurred")
	e.Err = err
	return e
}

// From returns the AppError in err's chain, or err wrapped by Internal.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

func StatusCode(err error) int {
	return From(err).StatusCode
}
