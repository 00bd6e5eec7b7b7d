package apperror

import (
	"errors"
	"fmt"
)

// AppError is the single failure type every mutation returns, so each call
// site decides presentation without string matching.
type AppError struct {
	Status  int    // HTTP status the error maps to
	Code    string // stable machine-readable code
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

func New(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

func Wrap(status int, code, message string, err error) *AppError {
	return &AppError{Status: status, Code: code, Message: message, Err: err}
}

func BadRequest(message string) *AppError {
	return New(400, "bad_request", message)
}

func Unauthorized(message string) *AppError {
	return New(401, "unauthorized", message)
}

func Forbidden(message string) *AppError {
	return New(403, "forbidden", message)
}

func NotFound(message string) *AppError {
	return New(404, "not_found", message)
}

func Conflict(code, message string) *AppError {
	return New(409, code, message)
}

func Internal(message string, err error) *AppError {
	return Wrap(500, "internal", message, err)
}

// As extracts an AppError if err carries one.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
