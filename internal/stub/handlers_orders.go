package stub

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/backloglabs/storefront-client/internal/domain"
)

// OrdersHandler exposes the bearer-only order endpoints.
type OrdersHandler struct {
	store *Store
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(store *Store) *OrdersHandler {
	return &OrdersHandler{store: store}
}

// Create handles POST /orders.
func (h *OrdersHandler) Create(c *fiber.Ctx) error {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}

	var req domain.CreateOrderInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	var shipping domain.ShippingAddress
	switch {
	case req.AddressID != nil:
		addr, found := h.store.AddressByID(principal.User.ID, *req.AddressID)
		if !found {
			return fiber.NewError(http.StatusBadRequest, "address not found")
		}
		shipping = domain.ShippingAddress{
			FullName:     addr.FullName,
			AddressLine1: addr.AddressLine1,
			AddressLine2: addr.AddressLine2,
			City:         addr.City,
			State:        addr.State,
			PostalCode:   addr.PostalCode,
			Country:      addr.Country,
			PhoneNumber:  addr.PhoneNumber,
		}
	case req.ShippingAddress != nil:
		shipping = *req.ShippingAddress
	default:
		return fiber.NewError(http.StatusBadRequest, "a shipping address is required")
	}
	if req.PaymentInfo.PaymentMethod == "" {
		return fiber.NewError(http.StatusBadRequest, "payment method required")
	}

	order, err := h.store.CreateOrder(principal.User.ID, shipping, req.Notes)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "order": order})
}

// List handles GET /orders.
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	orders := h.store.OrdersByUser(principal.User.ID)
	if orders == nil {
		orders = []domain.Order{}
	}
	return c.JSON(fiber.Map{"success": true, "orders": orders})
}

// Get handles GET /orders/:id.
func (h *OrdersHandler) Get(c *fiber.Ctx) error {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	orderID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid order id")
	}
	order, found := h.store.OrderByID(principal.User.ID, orderID)
	if !found {
		return fiber.NewError(http.StatusNotFound, "order not found")
	}
	return c.JSON(fiber.Map{"success": true, "order": order})
}

// Cancel handles PATCH /orders/:id/cancel.
func (h *OrdersHandler) Cancel(c *fiber.Ctx) error {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	orderID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid order id")
	}
	order, err := h.store.CancelOrder(principal.User.ID, orderID)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{"success": true, "order": order})
}
