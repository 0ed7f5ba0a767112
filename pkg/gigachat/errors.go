package gigachat

import (
	"fmt"
	"net/http"
)

// AuthenticationError reports that the server rejected the request's
// credential (HTTP 401). It is the only error the dispatcher handles
// locally: the first one per logical call triggers invalidate-refresh-retry,
// a second one is returned to the caller as-is.
type AuthenticationError struct {
	// URL is the endpoint that rejected the credential
	URL string

	// StatusCode is the HTTP status the server returned
	StatusCode int

	// Body is the raw response body
	Body []byte

	// Headers are the response headers
	Headers http.Header
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication rejected by %s (status %d)", e.URL, e.StatusCode)
}

// ResponseError reports a non-success, non-authentication status from a
// non-streaming endpoint. Terminal: it is surfaced to the caller unchanged.
type ResponseError struct {
	// URL is the endpoint that returned the error
	URL string

	// StatusCode is the HTTP status the server returned
	StatusCode int

	// Body is the raw response body
	Body []byte

	// Headers are the response headers
	Headers http.Header
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	return fmt.Sprintf("request to %s failed with status %d: %s", e.URL, e.StatusCode, e.Body)
}

// TransportError reports a protocol mismatch on stream open: the server
// answered 200 but declared a content type other than text/event-stream.
// It is raised before any chunk is produced.
type TransportError struct {
	// Expected is the required content type
	Expected string

	// ContentType is what the server declared
	ContentType string
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("expected response content type %q, got %q", e.Expected, e.ContentType)
}

// ChunkDecodeError reports a malformed data line mid-stream. It terminates
// the chunk sequence; malformed chunks are never silently skipped.
type ChunkDecodeError struct {
	// Raw is the payload that failed to decode
	Raw string

	// Cause is the underlying decode error
	Cause error
}

// Error implements the error interface.
func (e *ChunkDecodeError) Error() string {
	return fmt.Sprintf("failed to decode stream chunk: %v", e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ChunkDecodeError) Unwrap() error {
	return e.Cause
}
