package repository

import (
	"context"
	"fmt"
)

// APIClient defines the interface for the remote backend transport. Both
// calls return the raw response body so reference data can be cached
// verbatim. Non-2xx responses surface as *APIError.
type APIClient interface {
	Get(ctx context.Context, url string) ([]byte, error)
	Post(ctx context.Context, url string, body interface{}) ([]byte, error)
}

// APIError is the typed transport failure: it exposes the HTTP status code
// and the raw response body for diagnostics. Status 0 means the request
// never produced a response.
type APIError struct {
	Status  int
	Message string
	Body    []byte
	Cause   error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("api request failed with status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api request failed: %s", e.Message)
}

// Unwrap exposes the underlying cause
func (e *APIError) Unwrap() error {
	return e.Cause
}
