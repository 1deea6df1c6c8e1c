package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/backloglabs/storefront-client/internal/api"
	"github.com/backloglabs/storefront-client/internal/domain"
	"github.com/backloglabs/storefront-client/internal/events"
	"github.com/backloglabs/storefront-client/internal/storage"
	"github.com/backloglabs/storefront-client/internal/token"
)

// Controller coordinates the primary user's session: login/signup/logout,
// profile state, and the token store lifecycle. It is constructed once at
// app start and injected into consumers; there is no ambient global.
type Controller struct {
	client     *api.Client
	tokens     *token.Store
	guest      *GuestSession
	dispatcher events.Dispatcher
	logger     *zap.Logger

	mu   sync.RWMutex
	user *domain.User
}

// authPayload is the wire shape of the auth endpoints.
type authPayload struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message"`
	User        *domain.User `json:"user"`
	AccessToken string       `json:"accessToken"`
}

// NewController wires the session controller. The token store's refresh
// path goes through the shared client so the refresh cookie rides along.
func NewController(client *api.Client, state storage.Store, dispatcher events.Dispatcher, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		client:     client,
		guest:      NewGuestSession(state),
		dispatcher: dispatcher,
		logger:     logger,
	}
	c.tokens = token.NewStore(c.refreshAccessToken, logger.Named("tokens"))

	// The guest identity dies the moment an authenticated one exists.
	dispatcher.Subscribe(events.EventSessionSignedIn, func(ctx context.Context, _ events.Event) error {
		return c.guest.Clear()
	})
	return c
}

// Tokens exposes the token store to collaborators that resolve credentials.
func (c *Controller) Tokens() *token.Store { return c.tokens }

// Guest exposes the guest session identifier.
func (c *Controller) Guest() *GuestSession { return c.guest }

// Init restores the session on app start: if the refresh cookie can still
// mint a token, the profile is fetched and the user considered signed in.
func (c *Controller) Init(ctx context.Context) error {
	tokenStr, err := c.tokens.GetValidToken(ctx)
	if err != nil {
		return err
	}
	if tokenStr == "" {
		c.setUser(nil)
		return nil
	}
	user, res := c.fetchProfile(ctx)
	if !res.Success {
		c.setUser(nil)
		return nil
	}
	c.setUser(user)
	return nil
}

// Login authenticates with email/password. On success the returned access
// token is fed into the token store and a signed-in event is published.
func (c *Controller) Login(ctx context.Context, email, password string) api.Result {
	return c.authenticate(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Signup registers a new account. First/last name are optional.
func (c *Controller) Signup(ctx context.Context, email, password, firstName, lastName string) api.Result {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	if firstName != "" {
		body["firstName"] = firstName
	}
	if lastName != "" {
		body["lastName"] = lastName
	}
	return c.authenticate(ctx, "/auth/signup", body)
}

func (c *Controller) authenticate(ctx context.Context, path string, body map[string]string) api.Result {
	req := api.Request{Method: http.MethodPost, Path: path, Body: body}
	// An existing guest identity rides along so the server can adopt the
	// anonymous cart into the authenticated session.
	if guestID := c.guest.Current(); guestID != "" {
		cred := domain.GuestCredential(guestID)
		req.Credential = &cred
	}

	resp, err := c.client.Do(ctx, req)
	if err != nil {
		c.logger.Debug("auth request failed", zap.String("path", path), zap.Error(err))
		return api.Fail("Failed to connect to server")
	}

	var payload authPayload
	if err := resp.Decode(&payload); err != nil {
		return api.Fail("Failed to connect to server")
	}

	if !payload.Success {
		message := payload.Message
		if message == "" {
			message = resp.Message
		}
		return api.Fail(message)
	}
	if payload.AccessToken == "" || payload.User == nil {
		return api.Fail("Login failed")
	}

	c.tokens.SetToken(payload.AccessToken)
	c.setUser(payload.User)
	c.publish(ctx, events.EventSessionSignedIn, events.SignedInPayload{User: *payload.User})
	return api.OK()
}

// Logout revokes the refresh token best-effort, then unconditionally clears
// local session state. A network failure never blocks the local clear.
func (c *Controller) Logout(ctx context.Context) {
	if _, err := c.client.Do(ctx, api.Request{Method: http.MethodPost, Path: "/auth/logout"}); err != nil {
		c.logger.Debug("logout revoke failed", zap.Error(err))
	}
	c.tokens.Clear()
	c.setUser(nil)
	c.publish(ctx, events.EventSessionSignedOut, events.SignedOutPayload{Forced: false})
}

// GetProfile fetches /auth/me with a valid bearer token.
func (c *Controller) GetProfile(ctx context.Context) (*domain.User, api.Result) {
	return c.fetchProfile(ctx)
}

// RefreshProfile re-fetches the profile and, on success, updates the
// resolved user.
func (c *Controller) RefreshProfile(ctx context.Context) api.Result {
	user, res := c.fetchProfile(ctx)
	if res.Success {
		c.setUser(user)
	}
	return res
}

func (c *Controller) fetchProfile(ctx context.Context) (*domain.User, api.Result) {
	tokenStr, err := c.tokens.GetValidToken(ctx)
	if err != nil {
		return nil, api.Fail("Failed to fetch profile")
	}
	if tokenStr == "" {
		return nil, api.Fail("No token found")
	}

	cred := domain.AuthenticatedCredential(tokenStr, time.Time{})
	resp, err := c.client.Do(ctx, api.Request{Method: http.MethodGet, Path: "/auth/me", Credential: &cred})
	if err != nil {
		return nil, api.Fail("Failed to fetch profile")
	}
	if resp.StatusCode == http.StatusUnauthorized {
		c.forceLogout(ctx)
		return nil, api.Fail("Session expired")
	}

	var payload authPayload
	if err := resp.Decode(&payload); err != nil {
		return nil, api.Fail("Failed to fetch profile")
	}
	if !payload.Success || payload.User == nil {
		return nil, api.Fail(payload.Message)
	}
	return payload.User, api.OK()
}

// ForgotPassword requests a password reset email.
func (c *Controller) ForgotPassword(ctx context.Context, email string) api.Result {
	resp, err := c.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/auth/forgot-password",
		Body:   map[string]string{"email": email},
	})
	if err != nil {
		return api.Fail("Failed to process request")
	}
	return api.Result{Success: resp.Success, Message: resp.Message}
}

// ResetPassword redeems a reset token for a new password.
func (c *Controller) ResetPassword(ctx context.Context, resetToken, newPassword string) api.Result {
	resp, err := c.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/auth/reset-password",
		Body:   map[string]string{"token": resetToken, "newPassword": newPassword},
	})
	if err != nil {
		return api.Fail("Failed to reset password")
	}
	return api.Result{Success: resp.Success, Message: resp.Message}
}

// IsAuthenticated is derived from the resolved profile, not the mere
// presence of a token: a token can exist transiently before the profile is
// confirmed.
func (c *Controller) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user != nil
}

// User returns the resolved profile, or nil.
func (c *Controller) User() *domain.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

// AuthenticatedDo issues a bearer-only request (orders, addresses). With no
// establishable token it returns api.ErrNotAuthenticated; a 401 forces a
// local logout and returns api.ErrUnauthorized.
func (c *Controller) AuthenticatedDo(ctx context.Context, req api.Request) (*api.Response, error) {
	tokenStr, err := c.tokens.GetValidToken(ctx)
	if err != nil {
		return nil, err
	}
	if tokenStr == "" {
		return nil, api.ErrNotAuthenticated
	}

	cred := domain.AuthenticatedCredential(tokenStr, time.Time{})
	req.Credential = &cred

	resp, err := c.client.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		c.forceLogout(ctx)
		return nil, api.NewUnauthorizedError(resp.StatusCode)
	}
	return resp, nil
}

// forceLogout clears local state after a 401 or locally detected expiry.
// The rejected token must never be retried.
func (c *Controller) forceLogout(ctx context.Context) {
	c.tokens.Clear()
	c.setUser(nil)
	c.publish(ctx, events.EventSessionSignedOut, events.SignedOutPayload{Forced: true})
}

// refreshAccessToken is the token store's RefreshFunc: it trades the
// HTTP-only refresh cookie for a new access token.
func (c *Controller) refreshAccessToken(ctx context.Context) (string, error) {
	resp, err := c.client.Do(ctx, api.Request{Method: http.MethodPost, Path: "/auth/refresh"})
	if err != nil {
		return "", err
	}

	var payload authPayload
	if err := resp.Decode(&payload); err != nil {
		return "", err
	}
	if !payload.Success || payload.AccessToken == "" {
		return "", nil
	}
	return payload.AccessToken, nil
}

func (c *Controller) setUser(user *domain.User) {
	c.mu.Lock()
	c.user = user
	c.mu.Unlock()
}

func (c *Controller) publish(ctx context.Context, eventType events.EventType, payload any) {
	if c.dispatcher == nil {
		return
	}
	_ = c.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
