package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// NewServiceUnavailableError reports an outbound dependency that failed or did not answer in time.
func NewServiceUnavailableError(service string, cause error) *ApiErr {
	e := newKind(http.StatusServiceUnavailable, ErrServiceUnavailable,
		fmt.Sprintf("%s is temporarily unavailable", service))
	e.Cause = cause
	return e
}

// NewServiceNotConfiguredError is returned when an optional integration has no credentials.
func NewServiceNotConfiguredError(service string) *ApiErr {
	return newKind(http.StatusServiceUnavailable, ErrServiceUnavailable,
		fmt.Sprintf("%s is not configured", service))
}

// FromOutbound maps the error of an outbound call. Deadline and cancellation become
// ServiceUnavailable; ApiErr values pass through; anything else is a failed upstream.
func FromOutbound(service string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *ApiErr
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewServiceUnavailableError(service, err).WithDetails("timed out")
	}
	return NewServiceUnavailableError(service, err)
}
