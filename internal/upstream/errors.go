package upstream

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned for 404 responses from the record store.
var ErrNotFound = errors.New("upstream: not found")

// APIError is a non-2xx response from the record store. Message carries the
// backend-provided detail when one was present, so handlers can surface it.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream: status %d", e.StatusCode)
}

// IsAPIError unwraps err into an *APIError if it is one.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
