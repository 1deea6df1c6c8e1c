package events

import (
	"time"

	"github.com/backloglabs/storefront-client/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	// EventSessionSignedIn fires after a successful login or signup, once
	// the access token is held. Subscribers include the guest-session
	// cleaner and the cart refresher.
	EventSessionSignedIn EventType = "session_signed_in"
	// EventSessionSignedOut fires after logout or a forced logout (401 or
	// locally detected expiry).
	EventSessionSignedOut EventType = "session_signed_out"
)

// Event represents a session lifecycle event emitted by the auth controller.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// SignedInPayload payload.
type SignedInPayload struct {
	User domain.User `json:"user"`
}

// SignedOutPayload payload. Forced marks 401/expiry logouts as opposed to
// user-initiated ones.
type SignedOutPayload struct {
	Forced bool `json:"forced"`
}
