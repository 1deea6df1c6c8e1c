package session_test

import (
	"net/http"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/backloglabs/storefront-client/internal/api"
	"github.com/backloglabs/storefront-client/internal/config"
	"github.com/backloglabs/storefront-client/internal/events"
	"github.com/backloglabs/storefront-client/internal/session"
	"github.com/backloglabs/storefront-client/internal/storage"
	"github.com/backloglabs/storefront-client/internal/stub"
)

// stubTransport routes requests through the in-process stub server instead
// of a real socket.
type stubTransport struct {
	server *stub.Server
}

func (t stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.server.App.Test(req, -1)
}

// newStubClient builds a stub server and an api.Client wired to it.
func newStubClient(t *testing.T) (*stub.Server, *api.Client) {
	t.Helper()
	server := stub.New(config.StubConfig{
		JWTSecret:  "session-test-secret",
		BcryptCost: bcrypt.MinCost,
	}, nil)
	client := api.NewClient("http://stub.test/api", 0, nil).
		WithHTTPClient(&http.Client{Transport: stubTransport{server: server}})
	return server, client
}

// testHarness bundles the controller with the state and dispatcher behind
// it so tests can reach into either side.
type testHarness struct {
	server     *stub.Server
	client     *api.Client
	state      storage.Store
	dispatcher events.Dispatcher
	controller *session.Controller
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	server, client := newStubClient(t)
	state := storage.NewMemoryStore()
	dispatcher := events.NewInMemoryDispatcher()
	return &testHarness{
		server:     server,
		client:     client,
		state:      state,
		dispatcher: dispatcher,
		controller: session.NewController(client, state, dispatcher, nil),
	}
}
