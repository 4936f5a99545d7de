package appwrite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZachHandley/JellyAppwriteAuth/pkg/config"
)

var (
	// ErrNotFound indicates the requested resource does not exist on the server.
	ErrNotFound = errors.New("appwrite: resource not found")
	// ErrAlreadyExists indicates a create call conflicted with an existing resource.
	ErrAlreadyExists = errors.New("appwrite: resource already exists")
)

// Client is a minimal wrapper over the Appwrite REST API covering only the
// operations the bridge needs: user lookup and provisioning, credential
// validation, and messaging. It is safe for concurrent use.
type Client struct {
	endpoint   string
	project    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for Appwrite API calls.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates an Appwrite client from the bridge configuration.
// The endpoint and project must be set; the API key is optional and only
// required for administrative operations.
func NewClient(cfg config.AppwriteConfig, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		project:    cfg.Project,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// HasAPIKey reports whether the client can perform administrative operations.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// apiError is the error payload returned by the Appwrite API.
type apiError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}

// do performs an API call and decodes the JSON response into out when out is
// non-nil. Extra headers (e.g. a session secret) may be supplied. Any
// non-2xx response or transport error is returned as an error so callers
// never mistake a failed call for success.
func (c *Client) do(ctx context.Context, method, path string, body any, out any, headers map[string]string) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Appwrite-Project", c.project)
	if c.apiKey != "" {
		req.Header.Set("X-Appwrite-Key", c.apiKey)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("appwrite request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		_ = json.Unmarshal(data, &apiErr)

		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s %s: %s", ErrNotFound, method, path, apiErr.Message)
		case http.StatusConflict:
			return fmt.Errorf("%w: %s %s: %s", ErrAlreadyExists, method, path, apiErr.Message)
		}
		return fmt.Errorf("appwrite %s %s returned %d (%s): %s", method, path, resp.StatusCode, apiErr.Type, apiErr.Message)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
