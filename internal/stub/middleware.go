package stub

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	principalKey = "auth_principal"
	// GuestSessionHeader scopes anonymous cart requests.
	GuestSessionHeader = "X-Guest-Session-Id"
)

// Principal represents the authenticated caller.
type Principal struct {
	Subject SubjectType
	User    *Account
	Admin   *AdminAccount
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	store  *Store
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, store *Store) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, store: store}
}

// bearerToken extracts the Authorization bearer value, if any.
func bearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// resolve parses a bearer token into a principal.
func (m *AuthMiddleware) resolve(tokenStr string) (*Principal, error) {
	claims, err := m.tokens.ParseToken(tokenStr)
	if err != nil {
		return nil, fiber.NewError(http.StatusUnauthorized, "invalid token")
	}
	id := atoi(claims.RegisteredClaims.Subject)

	switch claims.Subject {
	case SubjectCustomer:
		user, ok := m.store.UserByID(id)
		if !ok {
			return nil, fiber.NewError(http.StatusUnauthorized, "user not found")
		}
		return &Principal{Subject: SubjectCustomer, User: user}, nil
	case SubjectAdmin:
		admin, ok := m.store.AdminByID(id)
		if !ok {
			return nil, fiber.NewError(http.StatusUnauthorized, "admin not found")
		}
		return &Principal{Subject: SubjectAdmin, Admin: admin}, nil
	}
	return nil, fiber.NewError(http.StatusUnauthorized, "unknown subject")
}

// RequireUser enforces a customer bearer token.
func (m *AuthMiddleware) RequireUser(c *fiber.Ctx) error {
	tokenStr, ok := bearerToken(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "missing authorization header")
	}
	principal, err := m.resolve(tokenStr)
	if err != nil {
		return err
	}
	if principal.Subject != SubjectCustomer {
		return fiber.NewError(http.StatusUnauthorized, "customer token required")
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// RequireAdmin enforces an admin bearer token.
func (m *AuthMiddleware) RequireAdmin(c *fiber.Ctx) error {
	tokenStr, ok := bearerToken(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "missing authorization header")
	}
	principal, err := m.resolve(tokenStr)
	if err != nil {
		return err
	}
	if principal.Subject != SubjectAdmin {
		return fiber.NewError(http.StatusUnauthorized, "admin token required")
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// cartOwner resolves the cart identity for a request: a valid customer
// bearer wins, the guest session header is the fallback. A request with
// neither identity is rejected.
func (m *AuthMiddleware) cartOwner(c *fiber.Ctx) (string, error) {
	if tokenStr, ok := bearerToken(c); ok {
		principal, err := m.resolve(tokenStr)
		if err != nil {
			return "", err
		}
		if principal.Subject != SubjectCustomer {
			return "", fiber.NewError(http.StatusUnauthorized, "customer token required")
		}
		return CartOwnerUser(principal.User.ID), nil
	}
	if guestID := c.Get(GuestSessionHeader); guestID != "" {
		return CartOwnerGuest(guestID), nil
	}
	return "", fiber.NewError(http.StatusUnauthorized, "missing cart identity")
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
