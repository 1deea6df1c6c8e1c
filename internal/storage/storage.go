// Package storage provides durable client-side state, the analogue of a
// browser profile's local storage. It holds the guest session id and the
// admin token/user; the primary user's access token never goes through here.
package storage

import "errors"

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("storage: not found")

// Well-known keys.
const (
	KeyGuestSessionID = "guest_session_id"
	KeyAdminToken     = "admin_token"
	KeyAdminUser      = "admin_user"
)

// Store is a small durable key-value surface. Concrete drivers: sqlite for
// real use, memory for tests. Reads and writes are synchronous; no cross-tab
// locking is attempted, concurrent processes sharing one store is accepted.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}
