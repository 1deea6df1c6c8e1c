package stub

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/backloglabs/storefront-client/internal/domain"
)

// ProductsHandler exposes the public catalog endpoints.
type ProductsHandler struct {
	store *Store
}

// NewProductsHandler constructs handler.
func NewProductsHandler(store *Store) *ProductsHandler {
	return &ProductsHandler{store: store}
}

// List handles GET /products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	products := h.store.Products(c.Query("category"), c.Query("search"), limit, offset)
	if products == nil {
		products = []domain.ProductListItem{}
	}
	return c.JSON(fiber.Map{"success": true, "products": products})
}

// Get handles GET /products/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	productID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid product id")
	}
	product, found := h.store.ProductByID(productID)
	if !found {
		return fiber.NewError(http.StatusNotFound, "product not found")
	}
	return c.JSON(fiber.Map{"success": true, "product": product})
}

// Reviews handles GET /products/:id/reviews.
func (h *ProductsHandler) Reviews(c *fiber.Ctx) error {
	productID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid product id")
	}
	reviews := h.store.Reviews(productID)
	if reviews == nil {
		reviews = []domain.ProductReview{}
	}
	return c.JSON(fiber.Map{"success": true, "reviews": reviews})
}

// SubmitReview handles POST /products/:id/reviews.
func (h *ProductsHandler) SubmitReview(c *fiber.Ctx) error {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	productID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid product id")
	}

	var req domain.ReviewInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	review, err := h.store.AddReview(productID, principal.User, req)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Review submitted for approval",
		"review":  review,
	})
}
