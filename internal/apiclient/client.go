package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"floradmin/internal/config"
	"floradmin/internal/metrics"
	"floradmin/internal/model"
)

const maxErrorBody = 64 << 10

// Factory produces clients bound to a credential. All clients share one
// http.Client and its connection pool.
type Factory struct {
	baseURL string
	http    *http.Client
	metrics *metrics.Collector
}

// NewFactory creates a client factory for the backend at baseURL. An empty
// baseURL falls back to config.DefaultAPIBaseURL.
func NewFactory(baseURL string, timeout time.Duration, m *metrics.Collector) *Factory {
	if baseURL == "" {
		baseURL = config.DefaultAPIBaseURL
	}
	return &Factory{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		metrics: m,
	}
}

// BaseURL returns the backend endpoint.
func (f *Factory) BaseURL() string { return f.baseURL }

// Client returns a client that sends token as a bearer credential. An empty
// token yields an anonymous client.
func (f *Factory) Client(token string) *Client {
	return &Client{
		baseURL: f.baseURL,
		token:   token,
		http:    f.http,
		metrics: f.metrics,
	}
}

// ClientFor returns a client for a logged-in identity. The identity's scope
// travels with the client so shared caches can tell callers apart.
func (f *Factory) ClientFor(token string, identity model.Identity) *Client {
	c := f.Client(token)
	c.scope = identity.Scope()
	return c
}

// Client issues requests to the backend. It is immutable and safe for
// concurrent use.
type Client struct {
	baseURL string
	token   string
	scope   string
	http    *http.Client
	metrics *metrics.Collector
}

// Authenticated reports whether requests carry a bearer token.
func (c *Client) Authenticated() bool { return c.token != "" }

// Scope returns the scope of the identity the client acts for. Anonymous
// clients have an empty scope.
func (c *Client) Scope() string { return c.scope }

// Do sends a request to path (relative to the base URL). body may be nil.
// A 2xx JSON response is decoded into out when out is non-nil.
func (c *Client) Do(ctx context.Context, method, path string, body Body, out any) error {
	var reader io.Reader
	if body != nil {
		r, err := body.Reader()
		if err != nil {
			return err
		}
		reader = r
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", body.ContentType())
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveBackend(method, 0, time.Since(start))
		return transportError(ctx, method, path, err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveBackend(method, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func transportError(ctx context.Context, method, path string, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%s %s: %w", method, path, ctx.Err())
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%s %s: %w", method, path, ErrTimeout)
	}
	return fmt.Errorf("%s %s: %w", method, path, err)
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{Status: resp.StatusCode}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
	}
	return apiErr
}

// LoginResult is the backend's answer to a successful login.
type LoginResult struct {
	Token string         `json:"token"`
	User  model.Identity `json:"user"`
}

// Login exchanges credentials for a token and identity.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var res LoginResult
	err := c.Do(ctx, http.MethodPost, "/auth/login", JSON(map[string]string{
		"username": username,
		"password": password,
	}), &res)
	if err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, errors.New("login response without token")
	}
	return &res, nil
}
