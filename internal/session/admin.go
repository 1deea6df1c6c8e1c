package session

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/backloglabs/storefront-client/internal/api"
	"github.com/backloglabs/storefront-client/internal/domain"
	"github.com/backloglabs/storefront-client/internal/token"
)

// AdminController runs the admin console session: a parallel, simpler
// variant of the user flow with a persisted token and no refresh. Once the
// token expires the admin re-authenticates.
type AdminController struct {
	client *api.Client
	store  *token.AdminStore
	logger *zap.Logger
}

// adminPayload is the wire shape of admin auth endpoints. Some deployments
// still return the token under the legacy "token" key.
type adminPayload struct {
	Success     bool              `json:"success"`
	Message     string            `json:"message"`
	Admin       *domain.AdminUser `json:"admin"`
	AccessToken string            `json:"accessToken"`
	LegacyToken string            `json:"token"`
}

// NewAdminController wires the admin session over its token store.
func NewAdminController(client *api.Client, store *token.AdminStore, logger *zap.Logger) *AdminController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminController{client: client, store: store, logger: logger}
}

// Store exposes the underlying admin token store.
func (a *AdminController) Store() *token.AdminStore { return a.store }

// Login authenticates against the admin endpoint and persists the session.
func (a *AdminController) Login(ctx context.Context, email, password string) api.Result {
	resp, err := a.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/admin/auth/login",
		Body:   map[string]string{"email": email, "password": password},
	})
	if err != nil {
		return api.Fail("Failed to connect to server")
	}

	var payload adminPayload
	if err := resp.Decode(&payload); err != nil {
		return api.Fail("Failed to connect to server")
	}

	tokenStr := payload.AccessToken
	if tokenStr == "" {
		tokenStr = payload.LegacyToken
	}
	if !payload.Success || tokenStr == "" {
		message := payload.Message
		if message == "" {
			message = resp.Message
		}
		return api.Fail(message)
	}

	admin := domain.AdminUser{}
	if payload.Admin != nil {
		admin = *payload.Admin
	}
	if err := a.store.SetSession(tokenStr, admin); err != nil {
		a.logger.Warn("failed to persist admin session", zap.Error(err))
		return api.Fail("Failed to persist session")
	}
	return api.OK()
}

// GetProfile fetches the admin profile. A locally expired token or a 401
// both purge the stored session and surface as a failed result: the caller
// redirects to the admin login screen.
func (a *AdminController) GetProfile(ctx context.Context) (*domain.AdminUser, api.Result) {
	if !a.store.IsAuthenticated() {
		return nil, api.Fail("Token expired")
	}

	resp, err := a.store.AuthenticatedDo(ctx, api.Request{Method: http.MethodGet, Path: "/admin/auth/me"})
	if err != nil {
		if api.IsUnauthorized(err) {
			return nil, api.Fail("Session expired")
		}
		return nil, api.Fail("Failed to fetch profile")
	}

	var payload adminPayload
	if err := resp.Decode(&payload); err != nil {
		return nil, api.Fail("Failed to fetch profile")
	}
	if !payload.Success || payload.Admin == nil {
		return nil, api.Fail(payload.Message)
	}

	if err := a.store.SetSession(a.store.Token(), *payload.Admin); err != nil {
		a.logger.Debug("failed to update stored admin", zap.Error(err))
	}
	return payload.Admin, api.OK()
}

// ListOrders fetches every order in the system, the admin console's main
// listing.
func (a *AdminController) ListOrders(ctx context.Context) ([]domain.Order, error) {
	resp, err := a.store.AuthenticatedDo(ctx, api.Request{Method: http.MethodGet, Path: "/admin/orders"})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Success bool           `json:"success"`
		Orders  []domain.Order `json:"orders"`
	}
	if err := resp.Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Orders, nil
}

// Logout drops the persisted admin session. Purely local; the admin API has
// no revoke endpoint.
func (a *AdminController) Logout() {
	a.store.Clear()
}

// IsAuthenticated reports whether a non-expired admin token is held.
func (a *AdminController) IsAuthenticated() bool {
	return a.store.IsAuthenticated()
}
