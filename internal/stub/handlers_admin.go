package stub

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/backloglabs/storefront-client/internal/domain"
)

// AdminHandler exposes admin auth and the admin-scoped listings the console
// consumes. No refresh flow: an expired admin token means re-login.
type AdminHandler struct {
	store  *Store
	tokens *TokenManager
}

// NewAdminHandler constructs handler.
func NewAdminHandler(store *Store, tokens *TokenManager) *AdminHandler {
	return &AdminHandler{store: store, tokens: tokens}
}

func adminJSON(admin *AdminAccount) domain.AdminUser {
	return domain.AdminUser{
		ID:    admin.ID,
		Email: admin.Email,
		Role:  admin.Role,
	}
}

// Login handles POST /admin/auth/login. No cookie is set; the admin token
// is returned in the body and persisted by the client.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	admin, ok := h.store.AdminByEmail(req.Email)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "invalid email or password")
	}
	if err := ComparePassword(admin.PasswordHash, req.Password); err != nil {
		return fiber.NewError(http.StatusUnauthorized, "invalid email or password")
	}

	accessToken, _, err := h.tokens.GenerateToken(strconv.Itoa(admin.ID), SubjectAdmin, admin.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"admin":       adminJSON(admin),
		"accessToken": accessToken,
	})
}

// Me handles GET /admin/auth/me.
func (h *AdminHandler) Me(c *fiber.Ctx) error {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"admin":   adminJSON(principal.Admin),
	})
}

// Orders handles GET /admin/orders: every order in the system.
func (h *AdminHandler) Orders(c *fiber.Ctx) error {
	h.store.mu.Lock()
	orders := []domain.Order{}
	for _, record := range h.store.orders {
		orders = append(orders, record.Order)
	}
	h.store.mu.Unlock()
	return c.JSON(fiber.Map{"success": true, "orders": orders})
}
