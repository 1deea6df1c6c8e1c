package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/backloglabs/storefront-client/internal/api"
	"github.com/backloglabs/storefront-client/internal/domain"
)

type appTransport struct {
	app *fiber.App
}

func (t appTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.app.Test(req, -1)
}

func newTestClient(app *fiber.App) *api.Client {
	return api.NewClient("http://api.test/api", 0, nil).
		WithHTTPClient(&http.Client{Transport: appTransport{app: app}})
}

func TestEnvelopeTopLevelMessage(t *testing.T) {
	app := fiber.New()
	app.Get("/api/thing", func(c *fiber.Ctx) error {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "that did not work",
		})
	})

	resp, err := newTestClient(app).Do(context.Background(), api.Request{
		Method: http.MethodGet,
		Path:   "/thing",
	})
	require.NoError(t, err)
	require.False(t, resp.OK())
	require.False(t, resp.Success)
	require.Equal(t, "that did not work", resp.Message)
}

func TestEnvelopeNestedErrorMessage(t *testing.T) {
	app := fiber.New()
	app.Get("/api/thing", func(c *fiber.Ctx) error {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   fiber.Map{"message": "nested failure"},
		})
	})

	resp, err := newTestClient(app).Do(context.Background(), api.Request{
		Method: http.MethodGet,
		Path:   "/thing",
	})
	require.NoError(t, err)
	require.Equal(t, "nested failure", resp.Message)
}

func TestBearerCredentialHeader(t *testing.T) {
	app := fiber.New()
	var gotAuth, gotGuest string
	app.Get("/api/whoami", func(c *fiber.Ctx) error {
		gotAuth = c.Get("Authorization")
		gotGuest = c.Get(api.GuestSessionHeader)
		return c.JSON(fiber.Map{"success": true})
	})
	client := newTestClient(app)

	cred := domain.AuthenticatedCredential("token-abc", time.Time{})
	_, err := client.Do(context.Background(), api.Request{
		Method:     http.MethodGet,
		Path:       "/whoami",
		Credential: &cred,
	})
	require.NoError(t, err)
	require.Equal(t, "Bearer token-abc", gotAuth)
	require.Empty(t, gotGuest, "exactly one identity may be attached")
}

func TestGuestCredentialHeader(t *testing.T) {
	app := fiber.New()
	var gotAuth, gotGuest string
	app.Get("/api/whoami", func(c *fiber.Ctx) error {
		gotAuth = c.Get("Authorization")
		gotGuest = c.Get(api.GuestSessionHeader)
		return c.JSON(fiber.Map{"success": true})
	})
	client := newTestClient(app)

	cred := domain.GuestCredential("guest_1700000000000_abc")
	_, err := client.Do(context.Background(), api.Request{
		Method:     http.MethodGet,
		Path:       "/whoami",
		Credential: &cred,
	})
	require.NoError(t, err)
	require.Equal(t, "guest_1700000000000_abc", gotGuest)
	require.Empty(t, gotAuth, "exactly one identity may be attached")
}

func TestDecodePayload(t *testing.T) {
	app := fiber.New()
	app.Get("/api/value", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "value": 42})
	})

	resp, err := newTestClient(app).Do(context.Background(), api.Request{
		Method: http.MethodGet,
		Path:   "/value",
	})
	require.NoError(t, err)
	require.True(t, resp.OK())

	var payload struct {
		Value int `json:"value"`
	}
	require.NoError(t, resp.Decode(&payload))
	require.Equal(t, 42, payload.Value)
}

func TestCookieRoundTrip(t *testing.T) {
	client := api.NewClient("http://api.test/api", 0, nil)
	client.SetCookies([]*http.Cookie{{Name: "refresh_token", Value: "cookie-value", Path: "/"}})

	cookies := client.Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "refresh_token", cookies[0].Name)
	require.Equal(t, "cookie-value", cookies[0].Value)
}

func TestConnectionErrorClassified(t *testing.T) {
	// No route registered: fiber's app.Test still responds (404), so use
	// a transport that refuses outright.
	client := api.NewClient("http://api.test/api", 0, nil).
		WithHTTPClient(&http.Client{Transport: failingTransport{}})

	_, err := client.Do(context.Background(), api.Request{Method: http.MethodGet, Path: "/thing"})
	require.Error(t, err)

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "CONNECTION_FAILED", apiErr.Code)
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, http.ErrHandlerTimeout
}
