// internal/infrastructure/backend/client.go
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/your-org/pharmacy-dashboard/internal/config"
)

// Client talks to the inventory backend's REST API. All dashboard state lives
// upstream; this client is the only way the service reads or mutates it.
type Client struct {
	baseURL      string
	serviceToken string
	httpClient   *http.Client
}

// APIError is a request the backend rejected, either with a non-2xx status or
// with a {"success": false} envelope. Message carries the backend's own text.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// IsAPIError reports whether err originates from a backend rejection.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// NewClient creates a backend client from configuration
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.Backend.BaseURL, "/"),
		serviceToken: cfg.Backend.ServiceToken,
		httpClient: &http.Client{
			Timeout: cfg.Backend.RequestTimeout,
		},
	}
}

type contextKey string

const tokenContextKey contextKey = "backend_access_token"

// WithToken returns a context carrying the operator's upstream access token.
// Requests made with that context authenticate as the operator instead of the
// service account.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

func (c *Client) tokenFor(ctx context.Context) string {
	if token, ok := ctx.Value(tokenContextKey).(string); ok && token != "" {
		return token
	}
	return c.serviceToken
}

// envelope is the backend's standard response wrapper. Not every endpoint uses
// it; bare payloads are handled by the callers via UnwrapList.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// Get performs a GET request and returns the raw response payload
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with a JSON body and returns the raw payload
func (c *Client) Post(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokenFor(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read backend response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    rejectionMessage(payload),
		}
	}

	// A 2xx body can still carry {"success": false}.
	var env envelope
	if err := json.Unmarshal(payload, &env); err == nil && env.Success != nil && !*env.Success {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    rejectionMessage(payload),
		}
	}

	return payload, nil
}

func rejectionMessage(payload []byte) string {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return ""
	}
	if env.Message != "" {
		return env.Message
	}
	return env.Error
}
