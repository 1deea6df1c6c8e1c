package domain

import "time"

// CredentialKind differentiates authenticated vs guest request identity.
type CredentialKind string

const (
	CredentialAuthenticated CredentialKind = "AUTHENTICATED"
	CredentialGuest         CredentialKind = "GUEST"
)

// Credential is the tagged union attached to every cart request. Exactly one
// of AccessToken or GuestSessionID is set, matching Kind. A request sent
// with neither identity is a programming error, never a valid state.
type Credential struct {
	Kind           CredentialKind
	AccessToken    string
	ExpiresAt      time.Time
	GuestSessionID string
}

// AuthenticatedCredential builds a bearer credential.
func AuthenticatedCredential(token string, expiresAt time.Time) Credential {
	return Credential{Kind: CredentialAuthenticated, AccessToken: token, ExpiresAt: expiresAt}
}

// GuestCredential builds a guest-session credential.
func GuestCredential(sessionID string) Credential {
	return Credential{Kind: CredentialGuest, GuestSessionID: sessionID}
}
