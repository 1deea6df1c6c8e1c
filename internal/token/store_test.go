package token

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetValidTokenReturnsFreshToken(t *testing.T) {
	var calls atomic.Int32
	store := NewStore(func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "", nil
	}, nil)

	fresh := signToken(t, time.Now().Add(10*time.Minute))
	store.SetToken(fresh)

	got, err := store.GetValidToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, fresh, got)
	require.Zero(t, calls.Load(), "a fresh token must not trigger a refresh")
}

func TestGetValidTokenRefreshesInsideLeeway(t *testing.T) {
	refreshed := signToken(t, time.Now().Add(15*time.Minute))
	var calls atomic.Int32
	store := NewStore(func(ctx context.Context) (string, error) {
		calls.Add(1)
		return refreshed, nil
	}, nil)

	// Still technically live, but within the leeway window.
	store.SetToken(signToken(t, time.Now().Add(30*time.Second)))

	got, err := store.GetValidToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, refreshed, got)
	require.Equal(t, int32(1), calls.Load())
}

func TestGetValidTokenRefreshesUndecodableToken(t *testing.T) {
	refreshed := signToken(t, time.Now().Add(15*time.Minute))
	store := NewStore(func(ctx context.Context) (string, error) {
		return refreshed, nil
	}, nil)

	store.SetToken("not-a-jwt")

	got, err := store.GetValidToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, refreshed, got)
}

func TestConcurrentCallersShareOneRefresh(t *testing.T) {
	refreshed := signToken(t, time.Now().Add(15*time.Minute))
	release := make(chan struct{})
	var calls atomic.Int32
	store := NewStore(func(ctx context.Context) (string, error) {
		calls.Add(1)
		<-release
		return refreshed, nil
	}, nil)

	const waiters = 16
	results := make([]string, waiters)
	errs := make([]error, waiters)

	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = store.GetValidToken(context.Background())
		}(i)
	}

	// Give every goroutine a chance to join the in-flight call, then let
	// the single refresh complete.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int32(1), calls.Load(), "concurrent callers must share one refresh")
	for i := 0; i < waiters; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, refreshed, results[i])
	}
}

func TestFailedRefreshClearsToken(t *testing.T) {
	store := NewStore(func(ctx context.Context) (string, error) {
		return "", errors.New("refresh rejected")
	}, nil)

	store.SetToken(signToken(t, time.Now().Add(-time.Minute)))

	got, err := store.GetValidToken(context.Background())
	require.NoError(t, err)
	require.Empty(t, got, "a failed refresh yields no usable token")
	require.Empty(t, store.Token(), "the stale token must not survive a failed refresh")
}

func TestRefreshAfterFailureCanSucceed(t *testing.T) {
	refreshed := signToken(t, time.Now().Add(15*time.Minute))
	var calls atomic.Int32
	store := NewStore(func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "", errors.New("transient")
		}
		return refreshed, nil
	}, nil)

	got, err := store.GetValidToken(context.Background())
	require.NoError(t, err)
	require.Empty(t, got)

	got, err = store.GetValidToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, refreshed, got)
}

func TestGetValidTokenRespectsContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	store := NewStore(func(ctx context.Context) (string, error) {
		<-release
		return "", nil
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := store.GetValidToken(ctx)
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("GetValidToken did not return after context cancellation")
	}
}

func TestClearForcesRefreshOnNextRead(t *testing.T) {
	refreshed := signToken(t, time.Now().Add(15*time.Minute))
	var calls atomic.Int32
	store := NewStore(func(ctx context.Context) (string, error) {
		calls.Add(1)
		return refreshed, nil
	}, nil)

	store.SetToken(signToken(t, time.Now().Add(10*time.Minute)))
	store.Clear()
	require.Empty(t, store.Token())

	got, err := store.GetValidToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, refreshed, got)
	require.Equal(t, int32(1), calls.Load())
}
