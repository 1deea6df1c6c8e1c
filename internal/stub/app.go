// Package stub is a reference implementation of the commerce REST contract
// the client consumes. It backs local development and integration tests; it
// is a test double for the real backend, not a production server, and keeps
// all state in memory so tests stay hermetic.
package stub

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/backloglabs/storefront-client/internal/config"
)

// Server bundles the fiber app with the pieces tests need to reach into:
// the store for seeding and the token manager for minting tokens with
// chosen lifetimes.
type Server struct {
	App    *fiber.App
	Store  *Store
	Tokens *TokenManager

	cfg    config.StubConfig
	logger *zap.Logger
}

// New wires the stub server.
func New(cfg config.StubConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	store := NewStore()
	tokens := NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL())

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(logger),
	})

	middleware := NewAuthMiddleware(tokens, store)
	RegisterRoutes(app, RouteConfig{
		Auth:       NewAuthHandler(store, tokens, cfg.BcryptCost, cfg.RefreshTokenTTL(), logger),
		Cart:       NewCartHandler(store, middleware),
		Orders:     NewOrdersHandler(store),
		Products:   NewProductsHandler(store),
		Addresses:  NewAddressesHandler(store),
		Admin:      NewAdminHandler(store, tokens),
		Middleware: middleware,
	})

	return &Server{App: app, Store: store, Tokens: tokens, cfg: cfg, logger: logger}
}

// Listen serves on the configured address.
func (s *Server) Listen() error {
	return s.App.Listen(s.cfg.Addr())
}

// Shutdown stops the server.
func (s *Server) Shutdown() error {
	return s.App.Shutdown()
}

// errorHandler renders every error as the uniform envelope the client
// expects: {success:false, message}.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		}
		if code >= 500 {
			logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"message": message,
		})
	}
}
