package batchapi

import (
	"fmt"

	"batchdeck/sdk/services"
)

// APIError is the typed failure returned by every service call whose HTTP
// exchange completed with a non-success status. Declared in the services
// package where responses are decoded; aliased here for callers.
type APIError = services.APIError

// NetworkError represents a transport-level error
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError represents a client-side validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
