// Package catalog wraps the product browsing endpoints. Reads carry no
// identity; only review submission rides the authenticated transport.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/backloglabs/storefront-client/internal/api"
	"github.com/backloglabs/storefront-client/internal/domain"
)

// Service issues catalog reads over the bare transport and review writes
// over the authenticated one.
type Service struct {
	client *api.Client
	auth   api.AuthenticatedDoer
	logger *zap.Logger
}

// NewService builds the catalog service.
func NewService(client *api.Client, auth api.AuthenticatedDoer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, auth: auth, logger: logger}
}

type catalogPayload struct {
	Success  bool                     `json:"success"`
	Message  string                   `json:"message"`
	Product  *domain.Product          `json:"product"`
	Products []domain.ProductListItem `json:"products"`
	Reviews  []domain.ProductReview   `json:"reviews"`
}

// ListProducts fetches the catalog with optional filters.
func (s *Service) ListProducts(ctx context.Context, filters domain.ProductFilters) ([]domain.ProductListItem, error) {
	query := url.Values{}
	if filters.Category != "" {
		query.Set("category", filters.Category)
	}
	if filters.Size != "" {
		query.Set("size", filters.Size)
	}
	if filters.Search != "" {
		query.Set("search", filters.Search)
	}
	if filters.Limit > 0 {
		query.Set("limit", strconv.Itoa(filters.Limit))
	}
	if filters.Offset > 0 {
		query.Set("offset", strconv.Itoa(filters.Offset))
	}

	resp, err := s.client.Do(ctx, api.Request{Method: http.MethodGet, Path: "/products", Query: query})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fetch products: unexpected status %d", resp.StatusCode)
	}

	var payload catalogPayload
	if err := resp.Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Products, nil
}

// GetProduct fetches a full product with images and variants.
func (s *Service) GetProduct(ctx context.Context, productID int) (*domain.Product, error) {
	resp, err := s.client.Do(ctx, api.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/products/%d", productID),
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("product %d not found", productID)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fetch product: unexpected status %d", resp.StatusCode)
	}

	var payload catalogPayload
	if err := resp.Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Product, nil
}

// GetReviews fetches approved reviews for a product.
func (s *Service) GetReviews(ctx context.Context, productID int) ([]domain.ProductReview, error) {
	resp, err := s.client.Do(ctx, api.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/products/%d/reviews", productID),
	})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fetch reviews: unexpected status %d", resp.StatusCode)
	}

	var payload catalogPayload
	if err := resp.Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Reviews, nil
}

// SubmitReview posts a review for approval. Requires a signed-in session.
func (s *Service) SubmitReview(ctx context.Context, productID int, input domain.ReviewInput) api.Result {
	resp, err := s.auth.AuthenticatedDo(ctx, api.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/products/%d/reviews", productID),
		Body:   input,
	})
	if err != nil {
		if api.IsUnauthorized(err) {
			return api.Fail("Session expired")
		}
		s.logger.Warn("submit review failed", zap.Error(err))
		return api.Fail("Failed to submit review")
	}
	if !resp.OK() {
		message := resp.Message
		if message == "" {
			message = "Failed to submit review"
		}
		return api.Fail(message)
	}
	return api.Result{Success: true, Message: resp.Message}
}
