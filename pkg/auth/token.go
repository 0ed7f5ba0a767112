package auth

import "time"

// Token is an access token together with its expiry instant. Tokens are
// immutable values: the Manager replaces the held token wholesale on every
// refresh and never mutates one in place.
type Token struct {
	// Secret is the opaque bearer credential attached to outgoing requests.
	Secret string

	// ExpiresAt is the instant the server declared the token invalid after.
	// Zero means the expiry is unknown (pre-issued tokens).
	ExpiresAt time.Time
}

// Expired reports whether the token's declared expiry lies at or before now.
// Tokens without a known expiry never report expired.
func (t Token) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !t.ExpiresAt.After(now)
}
