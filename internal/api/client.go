package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/backloglabs/storefront-client/internal/domain"
)

// GuestSessionHeader scopes anonymous cart requests.
const GuestSessionHeader = "X-Guest-Session-Id"

// Client is the thin REST transport shared by every service. It owns the
// base URL, the cookie jar carrying the HTTP-only refresh token, and JSON
// envelope decoding.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient builds a transport against baseURL. The cookie jar is required:
// the refresh token only exists as a server-set cookie.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout, Jar: jar},
		logger:  logger,
	}
}

// WithHTTPClient swaps the underlying http.Client, preserving its jar if the
// replacement has none. Used by tests to route requests in-process.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc.Jar == nil {
		hc.Jar = c.http.Jar
	}
	c.http = hc
	return c
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.baseURL }

// Cookies returns the jar's cookies for the API base URL. Used to persist
// the refresh cookie across CLI invocations, the way a browser would.
func (c *Client) Cookies() []*http.Cookie {
	u, err := url.Parse(c.baseURL)
	if err != nil || c.http.Jar == nil {
		return nil
	}
	return c.http.Jar.Cookies(u)
}

// SetCookies seeds the jar for the API base URL.
func (c *Client) SetCookies(cookies []*http.Cookie) {
	u, err := url.Parse(c.baseURL)
	if err != nil || c.http.Jar == nil {
		return
	}
	c.http.Jar.SetCookies(u, cookies)
}

// Request describes one API call.
type Request struct {
	Method     string
	Path       string
	Query      url.Values
	Body       any
	Credential *domain.Credential
}

// Response is the decoded uniform envelope plus the HTTP status it arrived
// with. Payload fields stay raw until Decode is called.
type Response struct {
	StatusCode int
	Success    bool
	Message    string
	raw        []byte
}

// envelope mirrors the server's response shape. Business errors surface
// either as a top-level message or nested under error.message.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Decode unmarshals the payload portion of the response into out.
func (r *Response) Decode(out any) error {
	if len(r.raw) == 0 {
		return NewDecodeError(fmt.Errorf("empty body"))
	}
	if err := json.Unmarshal(r.raw, out); err != nil {
		return NewDecodeError(err)
	}
	return nil
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Do issues the request and decodes the envelope. Network failures and
// malformed bodies return errors; business failures (success:false) return
// a normal Response for the caller to interpret.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var body *bytes.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	} else {
		body = bytes.NewReader(nil)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Credential != nil {
		applyCredential(httpReq, *req.Credential)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Error(err))
		return nil, NewConnectionError(err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, NewConnectionError(err)
	}
	raw := buf.Bytes()

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, NewDecodeError(err)
		}
	}
	message := env.Message
	if message == "" && env.Error != nil {
		message = env.Error.Message
	}

	c.logger.Debug("request completed",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode))

	return &Response{
		StatusCode: resp.StatusCode,
		Success:    env.Success,
		Message:    message,
		raw:        raw,
	}, nil
}

// applyCredential attaches exactly one identity to the request: a bearer
// header for authenticated sessions, the guest session header otherwise.
func applyCredential(req *http.Request, cred domain.Credential) {
	switch cred.Kind {
	case domain.CredentialAuthenticated:
		req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
	case domain.CredentialGuest:
		req.Header.Set(GuestSessionHeader, cred.GuestSessionID)
	}
}
