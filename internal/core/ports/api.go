package ports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIClient is the network boundary: a REST-style JSON API whose
// response bodies the cache treats as opaque values.
type APIClient interface {
	Get(ctx context.Context, path string, query map[string]string) (json.RawMessage, error)
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)
	Put(ctx context.Context, path string, body any) (json.RawMessage, error)
	Delete(ctx context.Context, path string) (json.RawMessage, error)
}

// APIError is a response the server produced with a non-2xx status.
// Anything else (DNS, connect, timeout) is a connectivity failure and
// is reported as a plain wrapped error, not an APIError.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// IsAuthFailure reports whether err is a response classified as an
// authorization failure (expired/invalid credential). Only this class
// triggers session teardown; connectivity failures never do.
func IsAuthFailure(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}
