// Package orders wraps the bearer-only order endpoints: checkout, history,
// detail, and customer cancellation.
package orders

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/backloglabs/storefront-client/internal/api"
	"github.com/backloglabs/storefront-client/internal/domain"
)

// Service issues order operations through an authenticated transport.
type Service struct {
	transport api.AuthenticatedDoer
	logger    *zap.Logger
}

// NewService builds the order service.
func NewService(transport api.AuthenticatedDoer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{transport: transport, logger: logger}
}

// CreateResult carries the placed order on success.
type CreateResult struct {
	api.Result
	Order *domain.Order
}

type orderPayload struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Order   *domain.Order  `json:"order"`
	Orders  []domain.Order `json:"orders"`
}

// Create places an order from the current cart. The input must carry either
// an existing address id or an inline shipping address.
func (s *Service) Create(ctx context.Context, input domain.CreateOrderInput) CreateResult {
	if input.AddressID == nil && input.ShippingAddress == nil {
		return CreateResult{Result: api.Fail("A shipping address is required")}
	}

	resp, err := s.transport.AuthenticatedDo(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/orders",
		Body:   input,
	})
	if err != nil {
		if api.IsUnauthorized(err) {
			return CreateResult{Result: api.Fail("Session expired")}
		}
		return CreateResult{Result: api.Fail("Failed to create order")}
	}
	if !resp.OK() {
		message := resp.Message
		if message == "" {
			message = "Failed to create order"
		}
		return CreateResult{Result: api.Fail(message)}
	}

	var payload orderPayload
	if err := resp.Decode(&payload); err != nil {
		return CreateResult{Result: api.Fail("Failed to create order")}
	}
	return CreateResult{
		Result: api.Result{Success: true, Message: "Order placed successfully"},
		Order:  payload.Order,
	}
}

// List fetches the customer's order history.
func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	resp, err := s.transport.AuthenticatedDo(ctx, api.Request{Method: http.MethodGet, Path: "/orders"})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fetch orders: unexpected status %d", resp.StatusCode)
	}

	var payload orderPayload
	if err := resp.Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Orders, nil
}

// Get fetches one order by id.
func (s *Service) Get(ctx context.Context, orderID int) (*domain.Order, error) {
	resp, err := s.transport.AuthenticatedDo(ctx, api.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/orders/%d", orderID),
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("order %d not found", orderID)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fetch order: unexpected status %d", resp.StatusCode)
	}

	var payload orderPayload
	if err := resp.Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Order, nil
}

// Cancel requests cancellation. Only PENDING, CONFIRMED and PROCESSING
// orders are cancelable; anything further along is rejected server-side.
func (s *Service) Cancel(ctx context.Context, orderID int) api.Result {
	resp, err := s.transport.AuthenticatedDo(ctx, api.Request{
		Method: http.MethodPatch,
		Path:   fmt.Sprintf("/orders/%d/cancel", orderID),
	})
	if err != nil {
		if api.IsUnauthorized(err) {
			return api.Fail("Session expired")
		}
		return api.Fail("Failed to cancel order")
	}
	if !resp.OK() {
		message := resp.Message
		if message == "" {
			message = "Failed to cancel order"
		}
		return api.Fail(message)
	}
	return api.OK()
}
