package orders_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/backloglabs/storefront-client/internal/address"
	"github.com/backloglabs/storefront-client/internal/api"
	"github.com/backloglabs/storefront-client/internal/cart"
	"github.com/backloglabs/storefront-client/internal/config"
	"github.com/backloglabs/storefront-client/internal/domain"
	"github.com/backloglabs/storefront-client/internal/events"
	"github.com/backloglabs/storefront-client/internal/orders"
	"github.com/backloglabs/storefront-client/internal/session"
	"github.com/backloglabs/storefront-client/internal/storage"
	"github.com/backloglabs/storefront-client/internal/stub"
)

type stubTransport struct {
	server *stub.Server
}

func (t stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.server.App.Test(req, -1)
}

type checkoutHarness struct {
	server       *stub.Server
	controller   *session.Controller
	synchronizer *cart.Synchronizer
	orders       *orders.Service
	addresses    *address.Service
}

// newCheckoutHarness signs up a customer with one cart line, ready to
// place an order.
func newCheckoutHarness(t *testing.T) *checkoutHarness {
	t.Helper()
	server := stub.New(config.StubConfig{
		JWTSecret:  "orders-test-secret",
		BcryptCost: bcrypt.MinCost,
	}, nil)
	client := api.NewClient("http://stub.test/api", 0, nil).
		WithHTTPClient(&http.Client{Transport: stubTransport{server: server}})

	dispatcher := events.NewInMemoryDispatcher()
	controller := session.NewController(client, storage.NewMemoryStore(), dispatcher, nil)
	h := &checkoutHarness{
		server:       server,
		controller:   controller,
		synchronizer: cart.NewSynchronizer(client, controller, dispatcher, nil),
		orders:       orders.NewService(controller, nil),
		addresses:    address.NewService(controller, nil),
	}

	ctx := context.Background()
	require.True(t, controller.Signup(ctx, "maya@example.com", "hunter2!", "Maya", "Lin").Success)

	variantID := h.seededVariantID(t, "Archive Tee")
	require.True(t, h.synchronizer.AddToCart(ctx, variantID, 2).Success)
	return h
}

func (h *checkoutHarness) seededVariantID(t *testing.T, productName string) int {
	t.Helper()
	for _, item := range h.server.Store.Products("", "", 0, 0) {
		if item.Name != productName {
			continue
		}
		product, ok := h.server.Store.ProductByID(item.ID)
		require.True(t, ok)
		require.NotEmpty(t, product.Variants)
		return product.Variants[0].ID
	}
	t.Fatalf("seeded product %q not found", productName)
	return 0
}

func (h *checkoutHarness) savedAddress(t *testing.T) domain.Address {
	t.Helper()
	res, addr := h.addresses.Create(context.Background(), domain.AddressInput{
		FullName:     "Maya Lin",
		AddressLine1: "12 Foundry Lane",
		City:         "Portland",
		State:        "OR",
		PostalCode:   "97201",
		Country:      "US",
		PhoneNumber:  "+1 555 0100",
	})
	require.True(t, res.Success, res.Message)
	require.NotNil(t, addr)
	return *addr
}

func TestCreateOrderFromCart(t *testing.T) {
	h := newCheckoutHarness(t)
	ctx := context.Background()
	addr := h.savedAddress(t)

	res := h.orders.Create(ctx, domain.CreateOrderInput{
		AddressID:   &addr.ID,
		PaymentInfo: domain.PaymentInfo{PaymentMethod: "COD"},
	})
	require.True(t, res.Success, res.Message)
	require.NotNil(t, res.Order)
	require.NotEmpty(t, res.Order.OrderNumber)
	require.Equal(t, domain.OrderStatusPending, res.Order.Status)
	require.Equal(t, "76.00", res.Order.TotalAmount)
	require.Len(t, res.Order.Items, 1)
	require.Equal(t, 2, res.Order.Items[0].Quantity)
	require.Equal(t, "Maya Lin", res.Order.ShippingAddress.FullName)

	// Checkout consumed the cart.
	fetched, err := h.synchronizer.GetCart(ctx)
	require.NoError(t, err)
	require.Nil(t, fetched)
}

func TestCreateOrderWithInlineAddress(t *testing.T) {
	h := newCheckoutHarness(t)

	res := h.orders.Create(context.Background(), domain.CreateOrderInput{
		ShippingAddress: &domain.ShippingAddress{
			FullName:     "Maya Lin",
			AddressLine1: "12 Foundry Lane",
			City:         "Portland",
			State:        "OR",
			PostalCode:   "97201",
			Country:      "US",
			PhoneNumber:  "+1 555 0100",
		},
		PaymentInfo: domain.PaymentInfo{PaymentMethod: "COD"},
	})
	require.True(t, res.Success, res.Message)
	require.NotNil(t, res.Order)
}

func TestCreateOrderRequiresAddress(t *testing.T) {
	h := newCheckoutHarness(t)

	res := h.orders.Create(context.Background(), domain.CreateOrderInput{
		PaymentInfo: domain.PaymentInfo{PaymentMethod: "COD"},
	})
	require.False(t, res.Success)
	require.Equal(t, "A shipping address is required", res.Message)
}

func TestCreateOrderEmptyCart(t *testing.T) {
	h := newCheckoutHarness(t)
	ctx := context.Background()
	addr := h.savedAddress(t)

	require.True(t, h.synchronizer.ClearCart(ctx).Success)

	res := h.orders.Create(ctx, domain.CreateOrderInput{
		AddressID:   &addr.ID,
		PaymentInfo: domain.PaymentInfo{PaymentMethod: "COD"},
	})
	require.False(t, res.Success)
	require.Equal(t, "cart is empty", res.Message)
}

func TestListAndGetOrders(t *testing.T) {
	h := newCheckoutHarness(t)
	ctx := context.Background()
	addr := h.savedAddress(t)

	created := h.orders.Create(ctx, domain.CreateOrderInput{
		AddressID:   &addr.ID,
		PaymentInfo: domain.PaymentInfo{PaymentMethod: "COD"},
	})
	require.True(t, created.Success)

	listed, err := h.orders.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, created.Order.OrderNumber, listed[0].OrderNumber)

	fetched, err := h.orders.Get(ctx, created.Order.ID)
	require.NoError(t, err)
	require.Equal(t, created.Order.OrderNumber, fetched.OrderNumber)
}

func TestCancelOrder(t *testing.T) {
	h := newCheckoutHarness(t)
	ctx := context.Background()
	addr := h.savedAddress(t)

	created := h.orders.Create(ctx, domain.CreateOrderInput{
		AddressID:   &addr.ID,
		PaymentInfo: domain.PaymentInfo{PaymentMethod: "COD"},
	})
	require.True(t, created.Success)

	res := h.orders.Cancel(ctx, created.Order.ID)
	require.True(t, res.Success, res.Message)

	fetched, err := h.orders.Get(ctx, created.Order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusCancelled, fetched.Status)

	// A cancelled order cannot be cancelled twice.
	res = h.orders.Cancel(ctx, created.Order.ID)
	require.False(t, res.Success)
}

func TestOrdersRequireAuthentication(t *testing.T) {
	server := stub.New(config.StubConfig{JWTSecret: "orders-test-secret"}, nil)
	client := api.NewClient("http://stub.test/api", 0, nil).
		WithHTTPClient(&http.Client{Transport: stubTransport{server: server}})
	controller := session.NewController(client, storage.NewMemoryStore(), events.NewInMemoryDispatcher(), nil)
	service := orders.NewService(controller, nil)

	_, err := service.List(context.Background())
	require.ErrorIs(t, err, api.ErrNotAuthenticated)
}
