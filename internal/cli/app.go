// Package cli implements the storefront command surface. Each invocation
// builds the full client stack; the refresh cookie and the durable state
// (guest id, admin session) carry identity between runs.
package cli

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/backloglabs/storefront-client/internal/address"
	"github.com/backloglabs/storefront-client/internal/api"
	"github.com/backloglabs/storefront-client/internal/cart"
	"github.com/backloglabs/storefront-client/internal/catalog"
	"github.com/backloglabs/storefront-client/internal/config"
	"github.com/backloglabs/storefront-client/internal/events"
	"github.com/backloglabs/storefront-client/internal/observability"
	"github.com/backloglabs/storefront-client/internal/orders"
	"github.com/backloglabs/storefront-client/internal/session"
	"github.com/backloglabs/storefront-client/internal/storage"
	"github.com/backloglabs/storefront-client/internal/token"
)

// refreshCookieKey persists the refresh cookie value between CLI runs,
// standing in for the browser's cookie store.
const refreshCookieKey = "refresh_cookie"

// App bundles the constructed client stack for command handlers.
type App struct {
	Cfg       *config.Config
	Logger    *zap.Logger
	Client    *api.Client
	State     storage.Store
	Auth      *session.Controller
	Admin     *session.AdminController
	Cart      *cart.Synchronizer
	Orders    *orders.Service
	Addresses *address.Service
	Catalog   *catalog.Service
}

// NewApp wires the whole client.
func NewApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, err
	}

	state, err := storage.NewSQLiteStore(cfg.State.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.RequestTimeout(), logger.Named("api"))
	restoreRefreshCookie(client, state)

	dispatcher := events.NewInMemoryDispatcher()
	auth := session.NewController(client, state, dispatcher, logger.Named("session"))
	synchronizer := cart.NewSynchronizer(client, auth, dispatcher, logger.Named("cart"))
	adminStore := token.NewAdminStore(state, client, logger.Named("admin"))

	return &App{
		Cfg:       cfg,
		Logger:    logger,
		Client:    client,
		State:     state,
		Auth:      auth,
		Admin:     session.NewAdminController(client, adminStore, logger.Named("admin")),
		Cart:      synchronizer,
		Orders:    orders.NewService(auth, logger.Named("orders")),
		Addresses: address.NewService(auth, logger.Named("addresses")),
		Catalog:   catalog.NewService(client, auth, logger.Named("catalog")),
	}, nil
}

// Close persists the refresh cookie and releases the state db.
func (a *App) Close() {
	persistRefreshCookie(a.Client, a.State)
	_ = a.State.Close()
	_ = a.Logger.Sync()
}

func restoreRefreshCookie(client *api.Client, state storage.Store) {
	value, err := state.Get(refreshCookieKey)
	if err != nil || value == "" {
		return
	}
	client.SetCookies([]*http.Cookie{{Name: "refresh_token", Value: value, Path: "/"}})
}

func persistRefreshCookie(client *api.Client, state storage.Store) {
	for _, cookie := range client.Cookies() {
		if cookie.Name == "refresh_token" {
			if cookie.Value == "" {
				_ = state.Delete(refreshCookieKey)
			} else {
				_ = state.Set(refreshCookieKey, cookie.Value)
			}
			return
		}
	}
	_ = state.Delete(refreshCookieKey)
}
