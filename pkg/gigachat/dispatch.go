package gigachat

import (
	"context"
	"errors"
	"log/slog"
)

// attemptFunc is one transport attempt, parameterized by the bearer
// credential to attach. An empty credential means no Authorization header.
type attemptFunc[T any] func(ctx context.Context, credential string) (T, error)

// dispatch runs an attempt under the retry-once-on-auth-failure policy.
// One generic function serves both call shapes — for streaming calls T is
// *ChunkStream and the attempt returns only after status line and content
// type are verified, so the retry decision always precedes the first chunk.
//
// The policy:
//
//  1. Authentication disabled: a single attempt without a credential,
//     whatever it yields.
//  2. Token usable: attempt with it. Success and non-authentication
//     failures are final. An AuthenticationError discards the token (unless
//     a concurrent call already replaced it) and falls through.
//  3. Token absent or just discarded: refresh. A refresh failure is final.
//  4. One more attempt, final no matter what — a second consecutive
//     AuthenticationError reaches the caller.
func dispatch[T any](ctx context.Context, c *Client, operation string, attempt attemptFunc[T]) (T, error) {
	var zero T

	if c.auth == nil {
		return attempt(ctx, "")
	}

	if c.auth.Usable() {
		credential, _ := c.auth.Credential()
		out, err := attempt(ctx, credential)
		if err == nil {
			return out, nil
		}
		var authErr *AuthenticationError
		if !errors.As(err, &authErr) {
			return zero, err
		}
		slog.Warn("authentication rejected, retrying with a fresh token",
			"operation", operation,
			"status", authErr.StatusCode,
		)
		c.metrics.RecordAuthRetry()
		c.auth.InvalidateMatching(credential)
	}

	if err := c.auth.Refresh(ctx); err != nil {
		return zero, err
	}

	credential, _ := c.auth.Credential()
	return attempt(ctx, credential)
}
