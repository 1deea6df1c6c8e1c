package session

import (
	"context"
	"time"

	"github.com/backloglabs/storefront-client/internal/domain"
	"github.com/backloglabs/storefront-client/internal/token"
)

// CredentialResolver picks the identity a request goes out with. Extracted
// as an explicit step so the bearer-vs-guest choice is inspectable and
// testable in isolation rather than re-derived at each call site.
type CredentialResolver interface {
	ResolveCredential(ctx context.Context) (domain.Credential, error)
}

// ResolveCredential prefers an authenticated bearer credential whenever a
// valid (non-near-expiry) token is obtainable, falling back to the guest
// session id otherwise. It never yields a stale token and never yields
// neither identity.
func (c *Controller) ResolveCredential(ctx context.Context) (domain.Credential, error) {
	tokenStr, err := c.tokens.GetValidToken(ctx)
	if err != nil {
		return domain.Credential{}, err
	}
	if tokenStr != "" {
		exp, decErr := token.DecodeExpiry(tokenStr)
		if decErr != nil {
			exp = time.Time{}
		}
		return domain.AuthenticatedCredential(tokenStr, exp), nil
	}

	guestID, err := c.guest.GetOrCreate()
	if err != nil {
		return domain.Credential{}, err
	}
	return domain.GuestCredential(guestID), nil
}
