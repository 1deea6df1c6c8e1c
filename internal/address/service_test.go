package address_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/backloglabs/storefront-client/internal/address"
	"github.com/backloglabs/storefront-client/internal/api"
	"github.com/backloglabs/storefront-client/internal/config"
	"github.com/backloglabs/storefront-client/internal/domain"
	"github.com/backloglabs/storefront-client/internal/events"
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

func newService(t *testing.T) *address.Service {
	t.Helper()
	server := stub.New(config.StubConfig{
		JWTSecret:  "address-test-secret",
		BcryptCost: bcrypt.MinCost,
	}, nil)
	client := api.NewClient("http://stub.test/api", 0, nil).
		WithHTTPClient(&http.Client{Transport: stubTransport{server: server}})
	controller := session.NewController(client, storage.NewMemoryStore(), events.NewInMemoryDispatcher(), nil)
	require.True(t, controller.Signup(context.Background(), "maya@example.com", "hunter2!", "", "").Success)
	return address.NewService(controller, nil)
}

func sampleInput(label string) domain.AddressInput {
	return domain.AddressInput{
		Label:        label,
		FullName:     "Maya Lin",
		AddressLine1: "12 Foundry Lane",
		City:         "Portland",
		State:        "OR",
		PostalCode:   "97201",
		Country:      "US",
		PhoneNumber:  "+1 555 0100",
	}
}

func TestAddressCRUD(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	res, created := service.Create(ctx, sampleInput("Home"))
	require.True(t, res.Success, res.Message)
	require.NotNil(t, created)
	require.NotZero(t, created.ID)
	require.True(t, created.IsDefault, "the first address becomes the default")

	fetched, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Maya Lin", fetched.FullName)

	updated := sampleInput("Home")
	updated.AddressLine1 = "48 Harbor Street"
	res, after := service.Update(ctx, created.ID, updated)
	require.True(t, res.Success, res.Message)
	require.Equal(t, "48 Harbor Street", after.AddressLine1)

	require.True(t, service.Delete(ctx, created.ID).Success)
	listed, err := service.List(ctx)
	require.NoError(t, err)
	require.Empty(t, listed)
}

func TestDefaultAddressIsExclusive(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	res, home := service.Create(ctx, sampleInput("Home"))
	require.True(t, res.Success)
	res, work := service.Create(ctx, sampleInput("Work"))
	require.True(t, res.Success)

	require.True(t, service.SetDefault(ctx, work.ID).Success)

	listed, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	for _, addr := range listed {
		switch addr.ID {
		case home.ID:
			require.False(t, addr.IsDefault)
		case work.ID:
			require.True(t, addr.IsDefault)
		}
	}
}

func TestGetMissingAddress(t *testing.T) {
	service := newService(t)

	_, err := service.Get(context.Background(), 99999)
	require.Error(t, err)
}
