package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a domain error that knows how it should be presented over HTTP.
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

func NotFound(code, message string) *Error   { return New(http.StatusNotFound, code, message) }
func Conflict(code, message string) *Error   { return New(http.StatusConflict, code, message) }
func BadRequest(code, message string) *Error { return New(http.StatusBadRequest, code, message) }

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Code so that copies made by WithMessage/Wrap still satisfy errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy carrying a more specific user-facing message.
func (e *Error) WithMessage(format string, args ...interface{}) *Error {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

func (e *Error) Wrap(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

// From extracts the *Error from an error chain.
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
