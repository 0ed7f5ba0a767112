package cli

import (
	"context"
	"errors"
	"fmt"

	"gigachat-go/gigachat/pkg/auth"
	"gigachat-go/gigachat/pkg/gigachat"
)

// FormatError renders a client error as a short, actionable message for the
// terminal. Errors it doesn't recognize are rendered as-is.
func FormatError(err error) string {
	var authErr *gigachat.AuthenticationError
	if errors.As(err, &authErr) {
		return "authentication failed: the API rejected the access token twice; check your credentials"
	}

	var backendErr *auth.BackendError
	if errors.As(err, &backendErr) {
		return fmt.Sprintf("token exchange failed: %s answered %d", backendErr.URL, backendErr.StatusCode)
	}

	var respErr *gigachat.ResponseError
	if errors.As(err, &respErr) {
		return fmt.Sprintf("the API answered %d: %s", respErr.StatusCode, string(respErr.Body))
	}

	var transportErr *gigachat.TransportError
	if errors.As(err, &transportErr) {
		return fmt.Sprintf("the server did not open an event stream (got content type %q)", transportErr.ContentType)
	}

	var decodeErr *gigachat.ChunkDecodeError
	if errors.As(err, &decodeErr) {
		return "the stream carried a malformed chunk; the response is incomplete"
	}

	if errors.Is(err, context.Canceled) {
		return "interrupted"
	}

	return err.Error()
}
