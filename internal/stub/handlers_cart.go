package stub

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// CartHandler exposes the cart endpoints for both bearer and guest
// identities.
type CartHandler struct {
	store *Store
	auth  *AuthMiddleware
}

// NewCartHandler constructs handler.
func NewCartHandler(store *Store, auth *AuthMiddleware) *CartHandler {
	return &CartHandler{store: store, auth: auth}
}

// Get handles GET /cart. An absent cart is a 404, not an error envelope the
// client should surface.
func (h *CartHandler) Get(c *fiber.Ctx) error {
	owner, err := h.auth.cartOwner(c)
	if err != nil {
		return err
	}
	cart := h.store.CartView(owner)
	if cart == nil {
		return fiber.NewError(http.StatusNotFound, "cart not found")
	}
	return c.JSON(fiber.Map{"success": true, "cart": cart})
}

// AddItem handles POST /cart/items.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	owner, err := h.auth.cartOwner(c)
	if err != nil {
		return err
	}

	var req struct {
		VariantID int `json:"variantId"`
		Quantity  int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	cart, err := h.store.AddCartItem(owner, req.VariantID, req.Quantity)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "cart": cart})
}

// UpdateItem handles PATCH /cart/items/:id.
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	owner, err := h.auth.cartOwner(c)
	if err != nil {
		return err
	}
	itemID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid item id")
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	cart, err := h.store.UpdateCartItem(owner, itemID, req.Quantity)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{"success": true, "cart": cart})
}

// RemoveItem handles DELETE /cart/items/:id.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	owner, err := h.auth.cartOwner(c)
	if err != nil {
		return err
	}
	itemID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid item id")
	}

	cart, err := h.store.RemoveCartItem(owner, itemID)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, err.Error())
	}
	return c.JSON(fiber.Map{"success": true, "cart": cart})
}
