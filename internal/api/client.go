// Package api provides the HTTP client for an Ollama-compatible model server.
package api

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"pkt.systems/pslog"

	apierrors "github.com/ollamachat/ollamachat/internal/errors"
	"github.com/ollamachat/ollamachat/internal/logx"
	"github.com/ollamachat/ollamachat/internal/models"
)

// DefaultTimeoutSeconds bounds a single request.
const DefaultTimeoutSeconds = 300

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 4096

// Client talks to the model server over HTTP
type Client struct {
	httpClient     tls_client.HttpClient
	baseURL        string
	timeoutSeconds int
	log            pslog.Logger
	mu             sync.RWMutex
	closed         bool
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithBaseURL sets the server location, e.g. http://localhost:11434
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout sets the per-request timeout in seconds
func WithTimeout(seconds int) ClientOption {
	return func(c *Client) {
		if seconds > 0 {
			c.timeoutSeconds = seconds
		}
	}
}

// WithHTTPClient replaces the transport (used by tests)
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the structured logger
func WithLogger(log pslog.Logger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient creates a new Client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		baseURL:        models.DefaultBaseURL,
		timeoutSeconds: DefaultTimeoutSeconds,
		log:            logx.Discard(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}

	if client.httpClient == nil {
		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(),
			tls_client.WithTimeoutSeconds(client.timeoutSeconds),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// BaseURL returns the server location
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close releases idle connections. Further requests fail.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.httpClient.CloseIdleConnections()
}

// IsClosed reports whether Close has been called
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// do sends one request and returns the body of a 2xx response. Anything
// else comes back as an APIError or NetworkError.
func (c *Client) do(ctx context.Context, operation, method, endpoint string, body io.Reader, headers map[string]string) ([]byte, error) {
	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint(operation, endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, apierrors.NewAPIError(resp.StatusCode, endpoint, operation+" failed").
			WithBody(string(errorBody))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint(operation, endpoint, err)
	}
	return data, nil
}
