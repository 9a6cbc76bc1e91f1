// Package services implements the resource operations of the batch and file
// API on top of a minimal client interface.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ClientInterface is the subset of the client the services depend on
type ClientInterface interface {
	NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error)
	Do(req *http.Request) (*http.Response, error)
	GetBaseURL() string
}

// APIError represents an error returned by the remote API
type APIError struct {
	StatusCode int
	Message    string
	Type       string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("api error (status %d, type %s): %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// errorEnvelope is the wire shape of API failures
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// checkResponse converts a non-success response into an *APIError. The body
// is consumed; callers must not read it after a non-nil return.
func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	bodyBytes, _ := io.ReadAll(resp.Body)

	var envelope errorEnvelope
	if err := json.Unmarshal(bodyBytes, &envelope); err == nil && envelope.Error.Message != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    envelope.Error.Message,
			Type:       envelope.Error.Type,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    string(bodyBytes),
	}
}

// decodeJSON reads and decodes a JSON response body into v
func decodeJSON(resp *http.Response, v interface{}) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(bodyBytes, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
