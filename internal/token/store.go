package token

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RefreshFunc mints a new access token from the refresh-token cookie. It
// returns the new token, or an empty string when the refresh was rejected.
type RefreshFunc func(ctx context.Context) (string, error)

// Store holds the primary user's access token in memory only; it is never
// persisted. Near-expiry reads trigger a single shared refresh: concurrent
// callers wait on the same in-flight call rather than racing the refresh
// cookie with parallel requests.
type Store struct {
	mu       sync.Mutex
	token    string
	expires  time.Time
	inflight *refreshCall

	refresh RefreshFunc
	logger  *zap.Logger
	now     func() time.Time
}

type refreshCall struct {
	done  chan struct{}
	token string
}

// NewStore builds a Store that refreshes via fn.
func NewStore(fn RefreshFunc, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{refresh: fn, logger: logger, now: time.Now}
}

// SetToken replaces the held token wholesale.
func (s *Store) SetToken(tokenStr string) {
	exp, err := DecodeExpiry(tokenStr)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = tokenStr
	if err == nil {
		s.expires = exp
	} else {
		s.expires = time.Time{}
	}
}

// Clear drops the held token. The next GetValidToken will attempt a refresh.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.expires = time.Time{}
}

// Token returns the raw held token without any expiry check. Prefer
// GetValidToken for anything that will hit the network.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// GetValidToken returns a token safe to send: present and not within
// ExpiryLeeway of its exp claim. Otherwise it joins (or starts) the single
// in-flight refresh and returns its result. An empty result with a nil
// error means no authenticated session could be established; callers fall
// back to guest identity. A failed refresh leaves the store cleared.
func (s *Store) GetValidToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.token != "" && !Expired(s.token, s.now(), ExpiryLeeway) {
		t := s.token
		s.mu.Unlock()
		return t, nil
	}

	call := s.inflight
	if call == nil {
		call = &refreshCall{done: make(chan struct{})}
		s.inflight = call
		go s.runRefresh(call)
	}
	s.mu.Unlock()

	select {
	case <-call.done:
		return call.token, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// runRefresh performs the shared refresh and publishes its outcome to every
// waiter. The refresh itself is detached from any single caller's context:
// the first caller navigating away must not cancel it for the others.
func (s *Store) runRefresh(call *refreshCall) {
	tokenStr, err := s.refresh(context.Background())

	s.mu.Lock()
	if err != nil || tokenStr == "" {
		if err != nil {
			s.logger.Debug("token refresh failed", zap.Error(err))
		}
		s.token = ""
		s.expires = time.Time{}
	} else {
		s.token = tokenStr
		if exp, decErr := DecodeExpiry(tokenStr); decErr == nil {
			s.expires = exp
		}
		call.token = tokenStr
	}
	s.inflight = nil
	s.mu.Unlock()

	close(call.done)
}

// SetClock overrides the time source. Test hook.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
