// Package batchapi provides the HTTP client for the batch and file API.
//
// The client targets any OpenAI-compatible endpoint exposing the /batches and
// /files resource collections. After creation the client is immutable and safe
// for concurrent use.
package batchapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"batchdeck/sdk/services"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// Client is the main client for interacting with the batch and file API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	// Custom headers to include in all requests
	headers map[string]string

	timeout     time.Duration
	retryConfig *RetryConfig

	// Service groups
	Batches *services.BatchService
	Files   *services.FileService
}

// RetryConfig configures retry behavior for failed requests
type RetryConfig struct {
	MaxRetries int
	RetryDelay time.Duration
}

// NewClient creates a new Client with the given options
func NewClient(apiKey string, opts ...ClientOption) *Client {
	client := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		headers: make(map[string]string),
		timeout: 60 * time.Second,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		retryConfig: &RetryConfig{
			MaxRetries: 3,
			RetryDelay: time.Second,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	client.Batches = services.NewBatchService(client)
	client.Files = services.NewFileService(client)

	return client
}

// WithBaseURL sets a custom base URL for the client
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
		c.httpClient.Timeout = timeout
	}
}

// WithRetryConfig sets the retry configuration
func WithRetryConfig(config *RetryConfig) ClientOption {
	return func(c *Client) {
		c.retryConfig = config
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader adds a custom header that will be included in all requests
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// GetBaseURL returns the configured base URL
func (c *Client) GetBaseURL() string {
	return c.baseURL
}

// NewRequest creates a new HTTP request with auth and custom headers.
// Content-Type defaults to JSON; multipart callers override it on the
// returned request.
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	url := fmt.Sprintf("%s%s", c.baseURL, path)

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	return req, nil
}

// Do executes an HTTP request with retry logic. Server-side failures (5xx)
// and transport errors are retried with linear backoff; client errors are
// returned immediately.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error

	for attempt := 0; attempt <= c.retryConfig.MaxRetries; attempt++ {
		resp, err = c.httpClient.Do(req)

		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		if attempt < c.retryConfig.MaxRetries {
			time.Sleep(c.retryConfig.RetryDelay * time.Duration(attempt+1))
		}
	}

	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	return resp, nil
}
