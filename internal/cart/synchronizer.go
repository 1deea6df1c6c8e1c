// Package cart keeps a local mirror of the server-side cart resource in
// sync: optimistic quantity/removal updates, rollback by authoritative
// refetch, and wholesale replacement on every confirmed round trip.
package cart

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/backloglabs/storefront-client/internal/api"
	"github.com/backloglabs/storefront-client/internal/domain"
	"github.com/backloglabs/storefront-client/internal/events"
	"github.com/backloglabs/storefront-client/internal/session"
)

// MutationResult is the outcome of a cart mutation, carrying the
// authoritative cart when the server confirmed one.
type MutationResult struct {
	api.Result
	Cart *domain.Cart
}

// Synchronizer owns the local cart state. All mutations flow through it;
// the cart is replaced wholesale (never merged) on every successful server
// response so local state cannot drift from server-side stock and price
// truth.
type Synchronizer struct {
	client *api.Client
	creds  session.CredentialResolver
	logger *zap.Logger

	mu         sync.Mutex
	cart       *domain.Cart
	generation uint64

	serialized bool
	opMu       sync.Mutex
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithSerializedMutations serializes cart mutations: one in-flight mutation
// at a time, later calls wait for the prior's settlement. The default keeps
// the last-response-wins policy of overlapping optimistic writes.
func WithSerializedMutations() Option {
	return func(s *Synchronizer) { s.serialized = true }
}

// cartPayload is the wire shape of cart endpoints.
type cartPayload struct {
	Success bool         `json:"success"`
	Cart    *domain.Cart `json:"cart"`
}

// NewSynchronizer builds the synchronizer and, when a dispatcher is given,
// refreshes the cart on every session transition, mirroring the credential
// switch from guest to bearer and back.
func NewSynchronizer(client *api.Client, creds session.CredentialResolver, dispatcher events.Dispatcher, logger *zap.Logger, opts ...Option) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Synchronizer{client: client, creds: creds, logger: logger}
	for _, opt := range opts {
		opt(s)
	}

	if dispatcher != nil {
		refresh := func(ctx context.Context, _ events.Event) error {
			_, err := s.GetCart(ctx)
			return err
		}
		dispatcher.Subscribe(events.EventSessionSignedIn, refresh)
		dispatcher.Subscribe(events.EventSessionSignedOut, func(ctx context.Context, _ events.Event) error {
			s.mu.Lock()
			s.cart = nil
			s.generation++
			s.mu.Unlock()
			return nil
		})
	}
	return s
}

// GetCart fetches the authoritative cart. An absent cart (404) yields nil
// without error. The local mirror is replaced with whatever came back.
func (s *Synchronizer) GetCart(ctx context.Context) (*domain.Cart, error) {
	cred, err := s.creds.ResolveCredential(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(ctx, api.Request{Method: http.MethodGet, Path: "/cart", Credential: &cred})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		s.replace(nil)
		return nil, nil
	}
	if !resp.OK() {
		return nil, fmt.Errorf("fetch cart: unexpected status %d", resp.StatusCode)
	}

	var payload cartPayload
	if err := resp.Decode(&payload); err != nil {
		return nil, err
	}
	s.replace(payload.Cart)
	return payload.Cart, nil
}

// AddToCart adds quantity of a variant. On success the local cart is
// replaced with the server's copy; there is no optimistic projection for
// adds since the server owns line creation.
func (s *Synchronizer) AddToCart(ctx context.Context, variantID, quantity int) MutationResult {
	if s.serialized {
		s.opMu.Lock()
		defer s.opMu.Unlock()
	}
	if quantity < 1 {
		quantity = 1
	}

	cred, err := s.creds.ResolveCredential(ctx)
	if err != nil {
		return MutationResult{Result: api.Fail("Failed to add to cart")}
	}

	resp, err := s.client.Do(ctx, api.Request{
		Method:     http.MethodPost,
		Path:       "/cart/items",
		Body:       map[string]int{"variantId": variantID, "quantity": quantity},
		Credential: &cred,
	})
	if err != nil {
		return MutationResult{Result: api.Fail("Failed to add to cart")}
	}
	if !resp.OK() {
		return MutationResult{Result: api.Fail(messageOr(resp, "Failed to add to cart"))}
	}

	var payload cartPayload
	if err := resp.Decode(&payload); err != nil {
		return MutationResult{Result: api.Fail("Failed to add to cart")}
	}
	s.replace(payload.Cart)
	return MutationResult{Result: api.Result{Success: true, Message: "Added to cart"}, Cart: payload.Cart}
}

// UpdateQuantity sets an item's quantity optimistically: local state is
// rewritten before the network call resolves, with subtotal and totalItems
// recomputed from scratch. A rejected or failed call rolls back by
// refetching the authoritative cart rather than hand-computing the prior
// state. Quantities beyond the variant's stock are rejected before any
// network traffic.
func (s *Synchronizer) UpdateQuantity(ctx context.Context, itemID, quantity int) MutationResult {
	if s.serialized {
		s.opMu.Lock()
		defer s.opMu.Unlock()
	}
	if quantity < 1 {
		return MutationResult{Result: api.Fail("Quantity must be at least 1")}
	}

	gen, ok, res := s.applyOptimistic(itemID, func(items []domain.CartItem, idx int) ([]domain.CartItem, api.Result) {
		if quantity > items[idx].Variant.StockQuantity {
			return nil, api.Fail(fmt.Sprintf("Only %d in stock", items[idx].Variant.StockQuantity))
		}
		items[idx].Quantity = quantity
		return items, api.OK()
	})
	if !ok {
		return MutationResult{Result: res}
	}

	cred, err := s.creds.ResolveCredential(ctx)
	if err != nil {
		s.rollback(ctx, gen)
		return MutationResult{Result: api.Fail("Failed to update quantity")}
	}

	resp, err := s.client.Do(ctx, api.Request{
		Method:     http.MethodPatch,
		Path:       fmt.Sprintf("/cart/items/%d", itemID),
		Body:       map[string]int{"quantity": quantity},
		Credential: &cred,
	})
	if err != nil {
		s.rollback(ctx, gen)
		return MutationResult{Result: api.Fail("Failed to update quantity")}
	}
	if !resp.OK() {
		s.rollback(ctx, gen)
		return MutationResult{Result: api.Fail(messageOr(resp, "Failed to update cart"))}
	}

	var payload cartPayload
	if err := resp.Decode(&payload); err != nil {
		s.rollback(ctx, gen)
		return MutationResult{Result: api.Fail("Failed to update cart")}
	}
	s.replace(payload.Cart)
	return MutationResult{Result: api.OK(), Cart: payload.Cart}
}

// RemoveItem deletes a cart line with the same optimistic/rollback
// discipline as UpdateQuantity, the line filtered out of the projection.
func (s *Synchronizer) RemoveItem(ctx context.Context, itemID int) MutationResult {
	if s.serialized {
		s.opMu.Lock()
		defer s.opMu.Unlock()
	}

	gen, ok, res := s.applyOptimistic(itemID, func(items []domain.CartItem, idx int) ([]domain.CartItem, api.Result) {
		return append(items[:idx], items[idx+1:]...), api.OK()
	})
	if !ok {
		return MutationResult{Result: res}
	}

	cred, err := s.creds.ResolveCredential(ctx)
	if err != nil {
		s.rollback(ctx, gen)
		return MutationResult{Result: api.Fail("Failed to remove item")}
	}

	resp, err := s.client.Do(ctx, api.Request{
		Method:     http.MethodDelete,
		Path:       fmt.Sprintf("/cart/items/%d", itemID),
		Credential: &cred,
	})
	if err != nil {
		s.rollback(ctx, gen)
		return MutationResult{Result: api.Fail("Failed to remove item")}
	}
	if !resp.OK() {
		s.rollback(ctx, gen)
		return MutationResult{Result: api.Fail(messageOr(resp, "Failed to remove from cart"))}
	}

	var payload cartPayload
	if err := resp.Decode(&payload); err != nil {
		s.rollback(ctx, gen)
		return MutationResult{Result: api.Fail("Failed to remove from cart")}
	}
	s.replace(payload.Cart)
	return MutationResult{Result: api.OK(), Cart: payload.Cart}
}

// ClearCart removes every item with one delete call per line; no bulk-clear
// endpoint exists. The end state is treated as an empty cart regardless of
// per-item outcomes.
func (s *Synchronizer) ClearCart(ctx context.Context) api.Result {
	current, err := s.GetCart(ctx)
	if err != nil {
		return api.Fail("Failed to clear cart")
	}
	if current == nil || len(current.Items) == 0 {
		s.replace(nil)
		return api.OK()
	}

	for _, item := range current.Items {
		cred, credErr := s.creds.ResolveCredential(ctx)
		if credErr != nil {
			continue
		}
		if _, doErr := s.client.Do(ctx, api.Request{
			Method:     http.MethodDelete,
			Path:       fmt.Sprintf("/cart/items/%d", item.ID),
			Credential: &cred,
		}); doErr != nil {
			s.logger.Debug("clear cart: remove failed", zap.Int("item_id", item.ID), zap.Error(doErr))
		}
	}

	s.replace(nil)
	return api.OK()
}

// Cart returns a copy of the current local cart, or nil.
func (s *Synchronizer) Cart() *domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return nil
	}
	copied := *s.cart
	copied.Items = append([]domain.CartItem(nil), s.cart.Items...)
	return &copied
}

// ItemCount is a pure projection of the current cart, 0 when absent.
func (s *Synchronizer) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return 0
	}
	return s.cart.TotalItems
}

// Subtotal is a pure projection of the current cart, "0.00" when absent.
func (s *Synchronizer) Subtotal() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return "0.00"
	}
	return s.cart.Subtotal
}

// applyOptimistic locates itemID and rewrites local state through mutate,
// recomputing derived fields. It returns the generation stamped on the
// projection so a later rollback can tell whether it is still relevant.
func (s *Synchronizer) applyOptimistic(itemID int, mutate func(items []domain.CartItem, idx int) ([]domain.CartItem, api.Result)) (uint64, bool, api.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart == nil {
		return 0, false, api.Fail("Cart is empty")
	}
	idx := -1
	for i, item := range s.cart.Items {
		if item.ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, false, api.Fail("Item not found in cart")
	}

	items := append([]domain.CartItem(nil), s.cart.Items...)
	items, res := mutate(items, idx)
	if !res.Success {
		return 0, false, res
	}

	projected := *s.cart
	projected.Items = items
	projected.Recompute()
	s.cart = &projected
	s.generation++
	return s.generation, true, api.OK()
}

// replace installs an authoritative server cart, bumping the generation so
// older in-flight rollbacks cannot clobber it.
func (s *Synchronizer) replace(cart *domain.Cart) {
	s.mu.Lock()
	s.cart = cart
	s.generation++
	s.mu.Unlock()
}

// rollback discards an optimistic projection by refetching the
// authoritative cart. The fetched state is applied only if no newer
// mutation has replaced the cart since gen was stamped.
func (s *Synchronizer) rollback(ctx context.Context, gen uint64) {
	cred, err := s.creds.ResolveCredential(ctx)
	if err != nil {
		return
	}
	resp, err := s.client.Do(ctx, api.Request{Method: http.MethodGet, Path: "/cart", Credential: &cred})
	if err != nil {
		s.logger.Debug("rollback refetch failed", zap.Error(err))
		return
	}

	var authoritative *domain.Cart
	if resp.OK() {
		var payload cartPayload
		if err := resp.Decode(&payload); err != nil {
			return
		}
		authoritative = payload.Cart
	} else if resp.StatusCode != http.StatusNotFound {
		return
	}

	s.mu.Lock()
	if s.generation == gen {
		s.cart = authoritative
		s.generation++
	}
	s.mu.Unlock()
}

func messageOr(resp *api.Response, fallback string) string {
	if resp.Message != "" {
		return resp.Message
	}
	return fallback
}
