package token

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/backloglabs/storefront-client/internal/api"
	"github.com/backloglabs/storefront-client/internal/domain"
	"github.com/backloglabs/storefront-client/internal/storage"
)

func testAdmin() domain.AdminUser {
	return domain.AdminUser{ID: 7, Email: "ops@backlog.test", Role: "MANAGER"}
}

func TestAdminSessionRoundTrip(t *testing.T) {
	state := storage.NewMemoryStore()
	store := NewAdminStore(state, nil, nil)

	tokenStr := signToken(t, time.Now().Add(15*time.Minute))
	require.NoError(t, store.SetSession(tokenStr, testAdmin()))

	require.Equal(t, tokenStr, store.Token())
	require.True(t, store.IsAuthenticated())

	admin := store.Admin()
	require.NotNil(t, admin)
	require.Equal(t, "ops@backlog.test", admin.Email)
	require.Equal(t, "MANAGER", admin.Role)
}

func TestAdminSessionSurvivesRestart(t *testing.T) {
	state := storage.NewMemoryStore()
	tokenStr := signToken(t, time.Now().Add(15*time.Minute))
	require.NoError(t, NewAdminStore(state, nil, nil).SetSession(tokenStr, testAdmin()))

	// A fresh store over the same durable state sees the session.
	reopened := NewAdminStore(state, nil, nil)
	require.Equal(t, tokenStr, reopened.Token())
	require.NotNil(t, reopened.Admin())
}

func TestExpiredAdminTokenIsPurgedOnRead(t *testing.T) {
	state := storage.NewMemoryStore()
	store := NewAdminStore(state, nil, nil)

	tokenStr := signToken(t, time.Now().Add(time.Hour))
	require.NoError(t, store.SetSession(tokenStr, testAdmin()))

	// Jump past the exp claim; the next read must evict both the token
	// and the stored admin user.
	store.SetClock(func() time.Time { return time.Now().Add(2 * time.Hour) })

	require.Empty(t, store.Token())
	require.False(t, store.IsAuthenticated())
	require.Nil(t, store.Admin())

	_, err := state.Get(storage.KeyAdminToken)
	require.ErrorIs(t, err, storage.ErrNotFound)
	_, err = state.Get(storage.KeyAdminUser)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAdminTokenNoLeeway(t *testing.T) {
	state := storage.NewMemoryStore()
	store := NewAdminStore(state, nil, nil)

	// Inside the user store's leeway window but still before exp: the
	// admin store has no refresh flow, so the token stays usable to the
	// last second.
	tokenStr := signToken(t, time.Now().Add(30*time.Second))
	require.NoError(t, store.SetSession(tokenStr, testAdmin()))

	require.Equal(t, tokenStr, store.Token())
}

func TestAdminUndecodableTokenTreatedExpired(t *testing.T) {
	state := storage.NewMemoryStore()
	store := NewAdminStore(state, nil, nil)

	require.NoError(t, state.Set(storage.KeyAdminToken, "garbage"))
	encoded, err := json.Marshal(testAdmin())
	require.NoError(t, err)
	require.NoError(t, state.Set(storage.KeyAdminUser, string(encoded)))

	require.Empty(t, store.Token())
	require.Nil(t, store.Admin())
}

func TestAdminAuthenticatedDoWithoutSession(t *testing.T) {
	store := NewAdminStore(storage.NewMemoryStore(), nil, nil)

	_, err := store.AuthenticatedDo(context.Background(), api.Request{
		Method: http.MethodGet,
		Path:   "/admin/auth/me",
	})
	require.ErrorIs(t, err, api.ErrNotAuthenticated)
}
