package session

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/backloglabs/storefront-client/internal/storage"
)

// GuestSession manages the pseudo-identity that scopes an anonymous cart.
// One id per client profile, created lazily on first use and cleared exactly
// once, at the moment a login or signup succeeds.
type GuestSession struct {
	mu    sync.Mutex
	state storage.Store
}

// NewGuestSession wraps durable storage for the guest id.
func NewGuestSession(state storage.Store) *GuestSession {
	return &GuestSession{state: state}
}

// GetOrCreate returns the existing guest session id, synthesizing and
// persisting one when absent. Idempotent.
func (g *GuestSession) GetOrCreate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := g.state.Get(storage.KeyGuestSessionID)
	if err == nil && id != "" {
		return id, nil
	}
	if err != nil && err != storage.ErrNotFound {
		return "", err
	}

	id = newGuestID(time.Now())
	if err := g.state.Set(storage.KeyGuestSessionID, id); err != nil {
		return "", err
	}
	return id, nil
}

// Current returns the existing guest id without creating one. Empty when no
// guest session has ever been started.
func (g *GuestSession) Current() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, err := g.state.Get(storage.KeyGuestSessionID)
	if err != nil {
		return ""
	}
	return id
}

// Clear removes the guest id. Called once after a successful login/signup,
// before any subsequent cart operation, so a user never holds two cart
// identities at once.
func (g *GuestSession) Clear() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Delete(storage.KeyGuestSessionID)
}

// newGuestID renders guest_<ms-timestamp>_<base36 suffix>, the wire format
// the cart API scopes anonymous sessions by.
func newGuestID(now time.Time) string {
	var buf [8]byte
	suffix := "0"
	if _, err := rand.Read(buf[:]); err == nil {
		suffix = strconv.FormatUint(binary.BigEndian.Uint64(buf[:]), 36)
	}
	return fmt.Sprintf("guest_%d_%s", now.UnixMilli(), suffix)
}
