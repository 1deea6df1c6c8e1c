package token

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/backloglabs/storefront-client/internal/api"
	"github.com/backloglabs/storefront-client/internal/domain"
	"github.com/backloglabs/storefront-client/internal/storage"
)

// AdminStore is the admin console's token holder. Unlike Store it persists
// the token (and the admin user object) in durable storage and has no
// refresh flow: once the token expires the admin must log in again. Every
// read re-validates expiry and self-clears a stale token before it can be
// trusted.
type AdminStore struct {
	state  storage.Store
	client *api.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewAdminStore builds an AdminStore over the given durable state.
func NewAdminStore(state storage.Store, client *api.Client, logger *zap.Logger) *AdminStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminStore{state: state, client: client, logger: logger, now: time.Now}
}

// Token returns the stored admin token, or an empty string when absent or
// expired. An expired token is purged together with the admin user object
// before returning.
func (s *AdminStore) Token() string {
	tokenStr, err := s.state.Get(storage.KeyAdminToken)
	if err != nil {
		return ""
	}
	if s.expired(tokenStr) {
		s.Clear()
		return ""
	}
	return tokenStr
}

// SetSession persists a fresh admin token and user after login.
func (s *AdminStore) SetSession(tokenStr string, admin domain.AdminUser) error {
	if err := s.state.Set(storage.KeyAdminToken, tokenStr); err != nil {
		return err
	}
	encoded, err := json.Marshal(admin)
	if err != nil {
		return err
	}
	return s.state.Set(storage.KeyAdminUser, string(encoded))
}

// Admin returns the stored admin user, or nil when the session is gone. The
// same lazy eviction as Token applies: an expired token invalidates the
// stored user too.
func (s *AdminStore) Admin() *domain.AdminUser {
	if s.Token() == "" {
		return nil
	}
	encoded, err := s.state.Get(storage.KeyAdminUser)
	if err != nil {
		return nil
	}
	var admin domain.AdminUser
	if err := json.Unmarshal([]byte(encoded), &admin); err != nil {
		return nil
	}
	return &admin
}

// IsAuthenticated reports whether a non-expired admin token is stored.
func (s *AdminStore) IsAuthenticated() bool {
	return s.Token() != ""
}

// Clear removes the admin token and user from durable storage.
func (s *AdminStore) Clear() {
	_ = s.state.Delete(storage.KeyAdminToken)
	_ = s.state.Delete(storage.KeyAdminUser)
}

// AuthenticatedDo issues req with the admin bearer attached. A 401 response
// clears the session and returns api.ErrUnauthorized: callers must treat it
// as a forced logout, never a retryable failure.
func (s *AdminStore) AuthenticatedDo(ctx context.Context, req api.Request) (*api.Response, error) {
	tokenStr := s.Token()
	if tokenStr == "" {
		return nil, api.ErrNotAuthenticated
	}

	cred := domain.AuthenticatedCredential(tokenStr, time.Time{})
	req.Credential = &cred

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == 401 {
		s.logger.Info("admin session rejected, forcing logout")
		s.Clear()
		return nil, api.NewUnauthorizedError(resp.StatusCode)
	}
	return resp, nil
}

// expired checks the exp claim strictly against now; no leeway window, and
// an undecodable token counts as expired.
func (s *AdminStore) expired(tokenStr string) bool {
	exp, err := DecodeExpiry(tokenStr)
	if err != nil {
		return true
	}
	return !exp.After(s.now())
}

// SetClock overrides the time source. Test hook.
func (s *AdminStore) SetClock(now func() time.Time) {
	s.now = now
}
