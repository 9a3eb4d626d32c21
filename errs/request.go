package errs

import (
	"fmt"
	"net/http"
)

const authenticationRequired = "Authentication required"

// Unauthorized is returned for any request to a protected route without valid credentials.
var Unauthorized = newKind(http.StatusUnauthorized, ErrUnauthorized, authenticationRequired)

func NewMissingTokenError() *ApiErr {
	return Unauthorized.WithDetails("missing access token")
}

func NewInvalidTokenError(cause error) *ApiErr {
	return Unauthorized.WithDetails("invalid access token").WithCause(cause)
}

func NewExpiredTokenError() *ApiErr {
	return Unauthorized.WithDetails("access token has expired")
}

// NewInvalidCredentialsError is returned by login on a bad username or password.
func NewInvalidCredentialsError() *ApiErr {
	return newKind(http.StatusUnauthorized, ErrUnauthorized, "Invalid username or password")
}

// Malformed reports a request body that could not be decoded.
func Malformed(payloadName string) *ApiErr {
	e := newKind(http.StatusBadRequest, ErrMalformedPayload, fmt.Sprintf("Malformed %s", payloadName))
	return e
}

func NewMaxBodySizeExceededError(maxSize string) *ApiErr {
	e := newKind(http.StatusBadRequest, ErrMaxBodySizeExceeded, fmt.Sprintf("File too large. Maximum size is %s", maxSize))
	e.Field = "file"
	return e
}

// NewInvalidIDError reports a path or query identifier that is not a positive integer.
func NewInvalidIDError(field string) *ApiErr {
	return NewValidationError(field, fmt.Sprintf("Invalid %s", field))
}
