package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get(KeyGuestSessionID)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(KeyGuestSessionID, "guest_1700000000000_abc123"))
	got, err := store.Get(KeyGuestSessionID)
	require.NoError(t, err)
	require.Equal(t, "guest_1700000000000_abc123", got)

	// Upsert replaces.
	require.NoError(t, store.Set(KeyGuestSessionID, "guest_1700000000001_def456"))
	got, err = store.Get(KeyGuestSessionID)
	require.NoError(t, err)
	require.Equal(t, "guest_1700000000001_def456", got)

	require.NoError(t, store.Delete(KeyGuestSessionID))
	_, err = store.Get(KeyGuestSessionID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStoreDeleteMissingKey(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Delete("never-written"))
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyAdminToken, "token-value"))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(KeyAdminToken)
	require.NoError(t, err)
	require.Equal(t, "token-value", got)
}

func TestSQLiteStoreCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set("k", "v"))
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set("k", "v"))
	got, err := store.Get("k")
	require.NoError(t, err)
	require.Equal(t, "v", got)

	require.NoError(t, store.Delete("k"))
	_, err = store.Get("k")
	require.ErrorIs(t, err, ErrNotFound)
}
