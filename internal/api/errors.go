package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for the authentication failure category. A 401 response
// or a locally detected expiry both resolve to ErrUnauthorized: the caller
// must clear its token store and present a logged-out state, never retry
// with the same token.
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// APIError standardizes transport-level failures surfaced by the client.
// Expected business failures (success:false envelopes) are not errors; they
// travel as Result values.
type APIError struct {
	Code       string
	Message    string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewConnectionError wraps a failed network round trip.
func NewConnectionError(err error) error {
	return &APIError{Code: "CONNECTION_FAILED", Message: "failed to connect to server", Err: err}
}

// NewDecodeError wraps a malformed response body.
func NewDecodeError(err error) error {
	return &APIError{Code: "MALFORMED_RESPONSE", Message: "malformed server response", Err: err}
}

// NewUnauthorizedError builds the forced-logout error for a given status.
func NewUnauthorizedError(status int) error {
	return &APIError{Code: "UNAUTHORIZED", Message: "session expired", StatusCode: status, Err: ErrUnauthorized}
}

// IsUnauthorized reports whether err belongs to the forced-logout category.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
