package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/backloglabs/storefront-client/internal/domain"
	"github.com/backloglabs/storefront-client/internal/events"
	"github.com/backloglabs/storefront-client/internal/session"
	"github.com/backloglabs/storefront-client/internal/storage"
	"github.com/backloglabs/storefront-client/internal/stub"
)

func TestSignupSignsIn(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	res := h.controller.Signup(ctx, "maya@example.com", "hunter2!", "Maya", "Lin")
	require.True(t, res.Success, res.Message)
	require.True(t, h.controller.IsAuthenticated())

	user := h.controller.User()
	require.NotNil(t, user)
	require.Equal(t, "maya@example.com", user.Email)
	require.NotEmpty(t, h.controller.Tokens().Token())
}

func TestLoginWrongPassword(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.True(t, h.controller.Signup(ctx, "maya@example.com", "hunter2!", "", "").Success)
	h.controller.Logout(ctx)

	res := h.controller.Login(ctx, "maya@example.com", "wrong")
	require.False(t, res.Success)
	require.Equal(t, "invalid email or password", res.Message)
	require.False(t, h.controller.IsAuthenticated())
}

func TestLoginUnknownAccount(t *testing.T) {
	h := newHarness(t)

	res := h.controller.Login(context.Background(), "nobody@example.com", "whatever")
	require.False(t, res.Success)
	require.False(t, h.controller.IsAuthenticated())
}

func TestLoginClearsGuestIdentity(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	guestID, err := h.controller.Guest().GetOrCreate()
	require.NoError(t, err)
	require.NotEmpty(t, guestID)

	require.True(t, h.controller.Signup(ctx, "maya@example.com", "hunter2!", "", "").Success)
	require.Empty(t, h.controller.Guest().Current(),
		"the guest identity must die the moment an authenticated one exists")
}

func TestLoginPublishesSignedInEvent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	var received []events.Event
	h.dispatcher.Subscribe(events.EventSessionSignedIn, func(ctx context.Context, e events.Event) error {
		received = append(received, e)
		return nil
	})

	require.True(t, h.controller.Signup(ctx, "maya@example.com", "hunter2!", "", "").Success)
	require.Len(t, received, 1)

	payload, ok := received[0].Payload.(events.SignedInPayload)
	require.True(t, ok)
	require.Equal(t, "maya@example.com", payload.User.Email)
}

func TestLogoutClearsLocalSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.True(t, h.controller.Signup(ctx, "maya@example.com", "hunter2!", "", "").Success)
	h.controller.Logout(ctx)

	require.False(t, h.controller.IsAuthenticated())
	require.Nil(t, h.controller.User())
	require.Empty(t, h.controller.Tokens().Token())

	// The refresh token was revoked server-side: a restore attempt stays
	// signed out.
	restored := session.NewController(h.client, storage.NewMemoryStore(), events.NewInMemoryDispatcher(), nil)
	require.NoError(t, restored.Init(ctx))
	require.False(t, restored.IsAuthenticated())
}

func TestSessionRestoreFromRefreshCookie(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.True(t, h.controller.Signup(ctx, "maya@example.com", "hunter2!", "", "").Success)

	// A second controller over the same transport simulates an app
	// restart: the access token is gone, only the cookie remains.
	restored := session.NewController(h.client, storage.NewMemoryStore(), events.NewInMemoryDispatcher(), nil)
	require.NoError(t, restored.Init(ctx))
	require.True(t, restored.IsAuthenticated())
	require.Equal(t, "maya@example.com", restored.User().Email)
}

func TestRejectedTokenForcesLogout(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.True(t, h.controller.Signup(ctx, "maya@example.com", "hunter2!", "", "").Success)

	var forced bool
	h.dispatcher.Subscribe(events.EventSessionSignedOut, func(ctx context.Context, e events.Event) error {
		if payload, ok := e.Payload.(events.SignedOutPayload); ok {
			forced = payload.Forced
		}
		return nil
	})

	// A token the server will not accept: signed with a different secret
	// but not yet expired, so the client-side expiry check passes.
	bogus, _, err := stub.NewTokenManager("some-other-secret", 15*time.Minute).
		GenerateToken("1", stub.SubjectCustomer, "")
	require.NoError(t, err)
	h.controller.Tokens().SetToken(bogus)

	_, res := h.controller.GetProfile(ctx)
	require.False(t, res.Success)
	require.Equal(t, "Session expired", res.Message)
	require.False(t, h.controller.IsAuthenticated())
	require.True(t, forced, "a 401 must surface as a forced sign-out")
}

func TestResolveCredentialPrefersBearer(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	// Anonymous first: the guest identity is synthesized on demand.
	cred, err := h.controller.ResolveCredential(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.CredentialGuest, cred.Kind)
	require.Regexp(t, guestIDPattern, cred.GuestSessionID)

	require.True(t, h.controller.Signup(ctx, "maya@example.com", "hunter2!", "", "").Success)

	cred, err = h.controller.ResolveCredential(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.CredentialAuthenticated, cred.Kind)
	require.NotEmpty(t, cred.AccessToken)
}

func TestPasswordResetFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.True(t, h.controller.Signup(ctx, "maya@example.com", "hunter2!", "", "").Success)
	h.controller.Logout(ctx)

	res := h.controller.ForgotPassword(ctx, "maya@example.com")
	require.True(t, res.Success)

	// The stub records the reset token instead of emailing it.
	resetToken := h.server.Store.IssueResetToken("maya@example.com")
	res = h.controller.ResetPassword(ctx, resetToken, "n3w-passw0rd")
	require.True(t, res.Success)

	require.False(t, h.controller.Login(ctx, "maya@example.com", "hunter2!").Success)
	require.True(t, h.controller.Login(ctx, "maya@example.com", "n3w-passw0rd").Success)
}
