package auth

import "fmt"

// BackendError reports a failed token exchange: the token endpoint itself
// answered with a non-success status. It is terminal for the call that
// triggered the refresh; the dispatcher never retries it.
type BackendError struct {
	// URL is the token endpoint that rejected the exchange.
	URL string

	// StatusCode is the HTTP status the endpoint returned.
	StatusCode int

	// Body is the raw response body, useful for diagnostics.
	Body []byte
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	return fmt.Sprintf("token exchange at %s failed with status %d", e.URL, e.StatusCode)
}
