package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinels classify an ApiErr independently of its message, for use with errors.Is.
var (
	ErrValidation          = errors.New("validation failed")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("resource conflict")
	ErrPreconditionFailed  = errors.New("precondition failed")
	ErrServiceUnavailable  = errors.New("service unavailable")
	ErrRateLimited         = errors.New("rate limited")
	ErrInternal            = errors.New("internal server error")
	ErrMalformedPayload    = errors.New("malformed payload")
	ErrMaxBodySizeExceeded = errors.New("max body size exceeded")
)

type ApiErr struct {
	StatusCode int
	err        error
	kind       error
	Details    string // Additional details about the error, logged but not returned to clients
	Field      string // Field that caused the error (for validation errors)
	Cause      error  // The underlying cause of the error
}

func NewApiErr(statusCode int, message string) *ApiErr {
	return &ApiErr{
		StatusCode: statusCode,
		err:        errors.New(message),
	}
}

func newKind(statusCode int, kind error, message string) *ApiErr {
	return &ApiErr{StatusCode: statusCode, err: errors.New(message), kind: kind}
}

// implements error interface. this allows us to pass an instance of ApiErr as an argument of type `error`
func (e *ApiErr) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.err.Error(), e.Details)
	}
	return e.err.Error()
}

// Message is the client facing text of the error.
func (e *ApiErr) Message() string {
	return e.err.Error()
}

// GetFullError returns a recursive error message including all causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Cause != nil {
		var apiErr *ApiErr
		if errors.As(e.Cause, &apiErr) {
			msg = fmt.Sprintf("%s -> %s", msg, apiErr.GetFullError())
		} else {
			msg = fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
		}
	}
	return msg
}

// this function allows us to do the following:
// err := &ApiErr{StatusCode: ..., err: someSentinelError}
// errors.Is(err, someSentinelError) ==> evaluates to true
func (e *ApiErr) Unwrap() error {
	return e.err
}

// Is reports whether target is the sentinel this error was classified with.
func (e *ApiErr) Is(target error) bool {
	return e.kind != nil && e.kind == target
}

// WithCause returns a copy of e carrying cause.
func (e *ApiErr) WithCause(cause error) *ApiErr {
	cp := *e
	cp.Cause = cause
	return &cp
}

// WithDetails returns a copy of e carrying details.
func (e *ApiErr) WithDetails(details string) *ApiErr {
	cp := *e
	cp.Details = details
	return &cp
}

// NewValidationError reports unacceptable input for field.
func NewValidationError(field, message string) *ApiErr {
	e := newKind(http.StatusBadRequest, ErrValidation, message)
	e.Field = field
	return e
}

// NewNotFoundError reports a missing resource with a custom message.
func NewNotFoundError(message string) *ApiErr {
	return newKind(http.StatusNotFound, ErrNotFound, message)
}

// NewNotFound reports a missing entity, e.g. "Category not found".
func NewNotFound(entity string) *ApiErr {
	return NewNotFoundError(capitalize(entity) + " not found")
}

// NewConflictError reports a uniqueness collision on field. Conflicts answer 400.
func NewConflictError(entity, field string) *ApiErr {
	e := newKind(http.StatusBadRequest, ErrConflict,
		fmt.Sprintf("%s %s with this %s already exists", capitalize(indefiniteArticle(entity)), entity, field))
	e.Field = field
	return e
}

// NewPreconditionFailedError reports an operation blocked by the state of related data.
func NewPreconditionFailedError(message string) *ApiErr {
	return newKind(http.StatusBadRequest, ErrPreconditionFailed, message)
}

func NewInternalError(message string) *ApiErr {
	return newKind(http.StatusInternalServerError, ErrInternal, message)
}

func NewRateLimitedError() *ApiErr {
	return newKind(http.StatusTooManyRequests, ErrRateLimited, "Too many requests, please try again later")
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsPreconditionFailed(err error) bool {
	return errors.Is(err, ErrPreconditionFailed)
}

func IsServiceUnavailable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable)
}

func indefiniteArticle(noun string) string {
	if noun == "" {
		return "a"
	}
	switch noun[0] {
	case 'a', 'e', 'i', 'o', 'u':
		return "an"
	}
	return "a"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
