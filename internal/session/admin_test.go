package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/backloglabs/storefront-client/internal/domain"
	"github.com/backloglabs/storefront-client/internal/session"
	"github.com/backloglabs/storefront-client/internal/storage"
	"github.com/backloglabs/storefront-client/internal/stub"
	"github.com/backloglabs/storefront-client/internal/token"
)

func newAdminHarness(t *testing.T) (*stub.Server, storage.Store, *session.AdminController) {
	t.Helper()
	server, client := newStubClient(t)

	hash, err := stub.HashPassword("console-pass", bcrypt.MinCost)
	require.NoError(t, err)
	server.Store.SeedAdmin("ops@backlog.test", hash, "MANAGER")

	state := storage.NewMemoryStore()
	controller := session.NewAdminController(client, token.NewAdminStore(state, client, nil), nil)
	return server, state, controller
}

func TestAdminLoginPersistsSession(t *testing.T) {
	_, state, admin := newAdminHarness(t)
	ctx := context.Background()

	res := admin.Login(ctx, "ops@backlog.test", "console-pass")
	require.True(t, res.Success, res.Message)
	require.True(t, admin.IsAuthenticated())

	// Both the token and the admin user land in durable storage.
	tokenStr, err := state.Get(storage.KeyAdminToken)
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)
	_, err = state.Get(storage.KeyAdminUser)
	require.NoError(t, err)
}

func TestAdminLoginWrongPassword(t *testing.T) {
	_, _, admin := newAdminHarness(t)

	res := admin.Login(context.Background(), "ops@backlog.test", "wrong")
	require.False(t, res.Success)
	require.Equal(t, "invalid email or password", res.Message)
	require.False(t, admin.IsAuthenticated())
}

func TestAdminProfileRoundTrip(t *testing.T) {
	_, _, admin := newAdminHarness(t)
	ctx := context.Background()

	require.True(t, admin.Login(ctx, "ops@backlog.test", "console-pass").Success)

	profile, res := admin.GetProfile(ctx)
	require.True(t, res.Success, res.Message)
	require.NotNil(t, profile)
	require.Equal(t, "ops@backlog.test", profile.Email)
	require.Equal(t, "MANAGER", profile.Role)
}

func TestAdminProfileWithoutSession(t *testing.T) {
	_, _, admin := newAdminHarness(t)

	profile, res := admin.GetProfile(context.Background())
	require.Nil(t, profile)
	require.False(t, res.Success)
	require.Equal(t, "Token expired", res.Message)
}

func TestAdminRejectedTokenClearsSession(t *testing.T) {
	_, state, admin := newAdminHarness(t)
	ctx := context.Background()

	// A token the server will reject but the local expiry check accepts.
	bogus, _, err := stub.NewTokenManager("some-other-secret", 15*time.Minute).
		GenerateToken("1", stub.SubjectAdmin, "MANAGER")
	require.NoError(t, err)
	require.NoError(t, admin.Store().SetSession(bogus, domain.AdminUser{ID: 1, Email: "ops@backlog.test", Role: "MANAGER"}))

	profile, res := admin.GetProfile(ctx)
	require.Nil(t, profile)
	require.Equal(t, "Session expired", res.Message)
	require.False(t, admin.IsAuthenticated())

	_, err = state.Get(storage.KeyAdminToken)
	require.ErrorIs(t, err, storage.ErrNotFound)
	_, err = state.Get(storage.KeyAdminUser)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAdminListOrders(t *testing.T) {
	_, _, admin := newAdminHarness(t)
	ctx := context.Background()

	require.True(t, admin.Login(ctx, "ops@backlog.test", "console-pass").Success)

	orders, err := admin.ListOrders(ctx)
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestAdminLogoutIsLocal(t *testing.T) {
	_, state, admin := newAdminHarness(t)
	ctx := context.Background()

	require.True(t, admin.Login(ctx, "ops@backlog.test", "console-pass").Success)
	admin.Logout()

	require.False(t, admin.IsAuthenticated())
	_, err := state.Get(storage.KeyAdminToken)
	require.ErrorIs(t, err, storage.ErrNotFound)
}
