package session_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/backloglabs/storefront-client/internal/session"
	"github.com/backloglabs/storefront-client/internal/storage"
)

var guestIDPattern = regexp.MustCompile(`^guest_\d+_[0-9a-z]+$`)

func TestGuestIDFormat(t *testing.T) {
	guest := session.NewGuestSession(storage.NewMemoryStore())

	id, err := guest.GetOrCreate()
	require.NoError(t, err)
	require.Regexp(t, guestIDPattern, id)
}

func TestGuestIDIsStable(t *testing.T) {
	guest := session.NewGuestSession(storage.NewMemoryStore())

	first, err := guest.GetOrCreate()
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := guest.GetOrCreate()
		require.NoError(t, err)
		require.Equal(t, first, again, "repeated reads must return the same id")
	}
	require.Equal(t, first, guest.Current())
}

func TestGuestIDSurvivesRestart(t *testing.T) {
	state := storage.NewMemoryStore()

	first, err := session.NewGuestSession(state).GetOrCreate()
	require.NoError(t, err)

	// A new wrapper over the same durable state sees the same identity.
	second, err := session.NewGuestSession(state).GetOrCreate()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestGuestCurrentWithoutSession(t *testing.T) {
	guest := session.NewGuestSession(storage.NewMemoryStore())
	require.Empty(t, guest.Current(), "Current must not synthesize an id")
}

func TestGuestClearThenNewIdentity(t *testing.T) {
	guest := session.NewGuestSession(storage.NewMemoryStore())

	first, err := guest.GetOrCreate()
	require.NoError(t, err)
	require.NoError(t, guest.Clear())
	require.Empty(t, guest.Current())

	second, err := guest.GetOrCreate()
	require.NoError(t, err)
	require.NotEqual(t, first, second, "a cleared identity must never be reused")
}
