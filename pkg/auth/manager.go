package auth

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// TokenSource produces fresh tokens. Implementations are stateless; the
// Manager owns the resulting token.
type TokenSource interface {
	// Name identifies the strategy ("oauth", "password") for observability.
	Name() string

	// Exchange performs one round trip to the token endpoint and returns a
	// new token. A non-success endpoint status yields a *BackendError.
	Exchange(ctx context.Context) (Token, error)
}

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	// Seed pre-loads the manager with an already-issued token. Used when the
	// caller supplies a static access token instead of exchange credentials.
	Seed *Token

	// CheckExpiry makes Usable compare the token's expiry against the clock.
	// Off by default: the upstream client this library mirrors only ever
	// checked token presence, so an expired token is first noticed when the
	// server rejects it with 401 and the retry path refreshes it. Enabling
	// this avoids that wasted round trip for tokens with a known expiry.
	CheckExpiry bool

	// OnRefresh, when set, is invoked after every successful exchange with
	// the name of the strategy that ran.
	OnRefresh func(strategy string)

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// Manager owns the current access token and decides when it is usable.
// All token reads and writes go through the manager's mutex, so concurrent
// calls against one client cannot race on invalidate/refresh, and concurrent
// refreshes collapse into a single exchange.
type Manager struct {
	mu     sync.Mutex
	token  *Token
	source TokenSource
	opts   ManagerOptions
}

// NewManager creates a manager around the given source. A nil source is
// valid: the manager then never exchanges and holds at most the seed token.
func NewManager(source TokenSource, opts ManagerOptions) *Manager {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{token: opts.Seed, source: source, opts: opts}
}

// Credential returns the bearer secret to attach to outgoing requests, or
// ok=false if no token is held. It never triggers a refresh.
func (m *Manager) Credential() (secret string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == nil {
		return "", false
	}
	return m.token.Secret, true
}

// Usable reports whether a token is currently held and, with CheckExpiry
// enabled, not yet expired.
func (m *Manager) Usable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usableLocked()
}

func (m *Manager) usableLocked() bool {
	if m.token == nil {
		return false
	}
	if m.opts.CheckExpiry && m.token.Expired(m.opts.Now()) {
		return false
	}
	return true
}

// Invalidate discards the held token unconditionally. Idempotent.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = nil
}

// InvalidateMatching discards the held token only if its secret equals the
// given one. The dispatcher uses this after an authentication rejection so
// that a 401 earned by a stale token cannot discard a token some concurrent
// call refreshed in the meantime.
func (m *Manager) InvalidateMatching(secret string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token != nil && m.token.Secret == secret {
		m.token = nil
	}
}

// Refresh obtains a new token through the configured source and replaces the
// held one atomically. Without a source it is a no-op that leaves the token
// absent. If another call already installed a usable token while this one
// was waiting for the lock, the exchange is skipped and that token is
// reused.
//
// The lock is held across the exchange round trip: that serializes refreshes
// and is what collapses concurrent ones.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.source == nil {
		return nil
	}
	if m.usableLocked() {
		slog.Debug("token already refreshed by a concurrent call, reusing it")
		return nil
	}

	token, err := m.source.Exchange(ctx)
	if err != nil {
		return err
	}
	m.token = &token

	slog.Info("access token refreshed",
		"strategy", m.source.Name(),
		"expires_at", token.ExpiresAt,
	)
	if m.opts.OnRefresh != nil {
		m.opts.OnRefresh(m.source.Name())
	}
	return nil
}
