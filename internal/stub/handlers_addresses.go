package stub

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/backloglabs/storefront-client/internal/domain"
)

// AddressesHandler exposes the bearer-only address book endpoints.
type AddressesHandler struct {
	store *Store
}

// NewAddressesHandler constructs handler.
func NewAddressesHandler(store *Store) *AddressesHandler {
	return &AddressesHandler{store: store}
}

// List handles GET /addresses.
func (h *AddressesHandler) List(c *fiber.Ctx) error {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	addresses := h.store.AddressesByUser(principal.User.ID)
	if addresses == nil {
		addresses = []domain.Address{}
	}
	return c.JSON(fiber.Map{"success": true, "addresses": addresses})
}

// Get handles GET /addresses/:id.
func (h *AddressesHandler) Get(c *fiber.Ctx) error {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	addressID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid address id")
	}
	addr, found := h.store.AddressByID(principal.User.ID, addressID)
	if !found {
		return fiber.NewError(http.StatusNotFound, "address not found")
	}
	return c.JSON(fiber.Map{"success": true, "address": addr})
}

// Create handles POST /addresses.
func (h *AddressesHandler) Create(c *fiber.Ctx) error {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	input, err := parseAddressInput(c)
	if err != nil {
		return err
	}
	addr := h.store.CreateAddress(principal.User.ID, input)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "address": addr})
}

// Update handles PUT /addresses/:id.
func (h *AddressesHandler) Update(c *fiber.Ctx) error {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	addressID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid address id")
	}
	input, err := parseAddressInput(c)
	if err != nil {
		return err
	}
	addr, err := h.store.UpdateAddress(principal.User.ID, addressID, input)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, err.Error())
	}
	return c.JSON(fiber.Map{"success": true, "address": addr})
}

// SetDefault handles PATCH /addresses/:id/default.
func (h *AddressesHandler) SetDefault(c *fiber.Ctx) error {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	addressID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid address id")
	}
	if err := h.store.SetDefaultAddress(principal.User.ID, addressID); err != nil {
		return fiber.NewError(http.StatusNotFound, err.Error())
	}
	return c.JSON(fiber.Map{"success": true})
}

// Delete handles DELETE /addresses/:id.
func (h *AddressesHandler) Delete(c *fiber.Ctx) error {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	addressID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid address id")
	}
	if err := h.store.DeleteAddress(principal.User.ID, addressID); err != nil {
		return fiber.NewError(http.StatusNotFound, err.Error())
	}
	return c.JSON(fiber.Map{"success": true})
}

func parseAddressInput(c *fiber.Ctx) (domain.AddressInput, error) {
	var input domain.AddressInput
	if err := c.BodyParser(&input); err != nil {
		return input, fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if input.FullName == "" || input.AddressLine1 == "" || input.City == "" ||
		input.State == "" || input.PostalCode == "" || input.Country == "" || input.PhoneNumber == "" {
		return input, fiber.NewError(http.StatusBadRequest, "missing required address fields")
	}
	return input, nil
}
