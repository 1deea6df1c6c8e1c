// Package address wraps the saved-address endpoints. All operations are
// bearer-only; guests cannot hold an address book.
package address

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/backloglabs/storefront-client/internal/api"
	"github.com/backloglabs/storefront-client/internal/domain"
)

// Service issues address operations through an authenticated transport.
type Service struct {
	transport api.AuthenticatedDoer
	logger    *zap.Logger
}

// NewService builds the address service.
func NewService(transport api.AuthenticatedDoer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{transport: transport, logger: logger}
}

type addressPayload struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message"`
	Address   *domain.Address  `json:"address"`
	Addresses []domain.Address `json:"addresses"`
}

// List fetches all saved addresses.
func (s *Service) List(ctx context.Context) ([]domain.Address, error) {
	resp, err := s.transport.AuthenticatedDo(ctx, api.Request{Method: http.MethodGet, Path: "/addresses"})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fetch addresses: unexpected status %d", resp.StatusCode)
	}

	var payload addressPayload
	if err := resp.Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Addresses, nil
}

// Get fetches one address by id.
func (s *Service) Get(ctx context.Context, addressID int) (*domain.Address, error) {
	resp, err := s.transport.AuthenticatedDo(ctx, api.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/addresses/%d", addressID),
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("address %d not found", addressID)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fetch address: unexpected status %d", resp.StatusCode)
	}

	var payload addressPayload
	if err := resp.Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Address, nil
}

// Create saves a new address.
func (s *Service) Create(ctx context.Context, input domain.AddressInput) (api.Result, *domain.Address) {
	return s.write(ctx, http.MethodPost, "/addresses", input)
}

// Update rewrites an existing address.
func (s *Service) Update(ctx context.Context, addressID int, input domain.AddressInput) (api.Result, *domain.Address) {
	return s.write(ctx, http.MethodPut, fmt.Sprintf("/addresses/%d", addressID), input)
}

// SetDefault marks an address as the checkout default.
func (s *Service) SetDefault(ctx context.Context, addressID int) api.Result {
	res, _ := s.write(ctx, http.MethodPatch, fmt.Sprintf("/addresses/%d/default", addressID), nil)
	return res
}

// Delete removes a saved address.
func (s *Service) Delete(ctx context.Context, addressID int) api.Result {
	resp, err := s.transport.AuthenticatedDo(ctx, api.Request{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/addresses/%d", addressID),
	})
	if err != nil {
		if api.IsUnauthorized(err) {
			return api.Fail("Session expired")
		}
		return api.Fail("Failed to delete address")
	}
	if !resp.OK() {
		message := resp.Message
		if message == "" {
			message = "Failed to delete address"
		}
		return api.Fail(message)
	}
	return api.OK()
}

func (s *Service) write(ctx context.Context, method, path string, body any) (api.Result, *domain.Address) {
	resp, err := s.transport.AuthenticatedDo(ctx, api.Request{Method: method, Path: path, Body: body})
	if err != nil {
		if api.IsUnauthorized(err) {
			return api.Fail("Session expired"), nil
		}
		return api.Fail("Failed to save address"), nil
	}
	if !resp.OK() {
		message := resp.Message
		if message == "" {
			message = "Failed to save address"
		}
		return api.Fail(message), nil
	}

	var payload addressPayload
	if err := resp.Decode(&payload); err != nil {
		return api.Fail("Failed to save address"), nil
	}
	return api.OK(), payload.Address
}
