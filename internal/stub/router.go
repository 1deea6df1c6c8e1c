package stub

import "github.com/gofiber/fiber/v2"

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Auth       *AuthHandler
	Cart       *CartHandler
	Orders     *OrdersHandler
	Products   *ProductsHandler
	Addresses  *AddressesHandler
	Admin      *AdminHandler
	Middleware *AuthMiddleware
}

// RegisterRoutes wires the consumed REST surface under /api.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", cfg.Middleware.RequireUser, cfg.Auth.Me)
	authGroup.Post("/forgot-password", cfg.Auth.ForgotPassword)
	authGroup.Post("/reset-password", cfg.Auth.ResetPassword)

	cartGroup := api.Group("/cart")
	cartGroup.Get("", cfg.Cart.Get)
	cartGroup.Post("/items", cfg.Cart.AddItem)
	cartGroup.Patch("/items/:id", cfg.Cart.UpdateItem)
	cartGroup.Delete("/items/:id", cfg.Cart.RemoveItem)

	ordersGroup := api.Group("/orders", cfg.Middleware.RequireUser)
	ordersGroup.Post("", cfg.Orders.Create)
	ordersGroup.Get("", cfg.Orders.List)
	ordersGroup.Get("/:id", cfg.Orders.Get)
	ordersGroup.Patch("/:id/cancel", cfg.Orders.Cancel)

	productsGroup := api.Group("/products")
	productsGroup.Get("", cfg.Products.List)
	productsGroup.Get("/:id", cfg.Products.Get)
	productsGroup.Get("/:id/reviews", cfg.Products.Reviews)
	productsGroup.Post("/:id/reviews", cfg.Middleware.RequireUser, cfg.Products.SubmitReview)

	addressesGroup := api.Group("/addresses", cfg.Middleware.RequireUser)
	addressesGroup.Get("", cfg.Addresses.List)
	addressesGroup.Get("/:id", cfg.Addresses.Get)
	addressesGroup.Post("", cfg.Addresses.Create)
	addressesGroup.Put("/:id", cfg.Addresses.Update)
	addressesGroup.Patch("/:id/default", cfg.Addresses.SetDefault)
	addressesGroup.Delete("/:id", cfg.Addresses.Delete)

	adminGroup := api.Group("/admin")
	adminGroup.Post("/auth/login", cfg.Admin.Login)
	adminGroup.Get("/auth/me", cfg.Middleware.RequireAdmin, cfg.Admin.Me)
	adminGroup.Get("/orders", cfg.Middleware.RequireAdmin, cfg.Admin.Orders)
}
