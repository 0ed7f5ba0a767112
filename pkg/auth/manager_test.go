package auth

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// fakeSource is a TokenSource with scripted results.
type fakeSource struct {
	name      string
	exchanges int32
	token     Token
	err       error
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Exchange(ctx context.Context) (Token, error) {
	atomic.AddInt32(&s.exchanges, 1)
	if s.err != nil {
		return Token{}, s.err
	}
	return s.token, nil
}

func TestManager_NoTokenInitially(t *testing.T) {
	mgr := NewManager(&fakeSource{name: "oauth"}, ManagerOptions{})

	if mgr.Usable() {
		t.Error("expected manager without a token to be unusable")
	}
	if _, ok := mgr.Credential(); ok {
		t.Error("expected no credential before first refresh")
	}
}

func TestManager_RefreshReplacesToken(t *testing.T) {
	source := &fakeSource{name: "oauth", token: Token{Secret: "tok-1"}}
	mgr := NewManager(source, ManagerOptions{})

	if err := mgr.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	secret, ok := mgr.Credential()
	if !ok || secret != "tok-1" {
		t.Fatalf("expected credential tok-1, got %q (ok=%v)", secret, ok)
	}
	if !mgr.Usable() {
		t.Error("expected manager to be usable after refresh")
	}
}

func TestManager_RefreshFailurePropagates(t *testing.T) {
	backendErr := &BackendError{URL: "https://auth.example", StatusCode: 500}
	mgr := NewManager(&fakeSource{name: "oauth", err: backendErr}, ManagerOptions{})

	err := mgr.Refresh(context.Background())
	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected *BackendError, got %v", err)
	}
	if mgr.Usable() {
		t.Error("failed refresh must not install a token")
	}
}

func TestManager_InvalidateIsIdempotent(t *testing.T) {
	mgr := NewManager(nil, ManagerOptions{Seed: &Token{Secret: "static"}})

	mgr.Invalidate()
	mgr.Invalidate()

	if mgr.Usable() {
		t.Error("expected token to stay discarded")
	}
}

func TestManager_NilSourceRefreshIsNoop(t *testing.T) {
	mgr := NewManager(nil, ManagerOptions{})

	if err := mgr.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh without a source must be a no-op, got %v", err)
	}
	if mgr.Usable() {
		t.Error("refresh without a source must leave the token absent")
	}
}

func TestManager_RefreshSkippedWhenTokenUsable(t *testing.T) {
	source := &fakeSource{name: "oauth", token: Token{Secret: "tok-1"}}
	mgr := NewManager(source, ManagerOptions{})

	if err := mgr.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	// Simulates the loser of a concurrent refresh race arriving second.
	if err := mgr.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	if got := atomic.LoadInt32(&source.exchanges); got != 1 {
		t.Errorf("expected concurrent refreshes to collapse into 1 exchange, got %d", got)
	}
}

func TestManager_InvalidateMatching(t *testing.T) {
	source := &fakeSource{name: "oauth", token: Token{Secret: "fresh"}}
	mgr := NewManager(source, ManagerOptions{})
	if err := mgr.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	// A 401 earned by a stale credential must not discard the fresh token.
	mgr.InvalidateMatching("stale")
	if !mgr.Usable() {
		t.Fatal("stale invalidation discarded a fresh token")
	}

	mgr.InvalidateMatching("fresh")
	if mgr.Usable() {
		t.Error("matching invalidation must discard the token")
	}
}

func TestManager_ExpiryCheckOptIn(t *testing.T) {
	now := time.Now()
	expired := &Token{Secret: "old", ExpiresAt: now.Add(-time.Minute)}

	// Default behavior mirrors the upstream client: presence only.
	lax := NewManager(nil, ManagerOptions{Seed: expired, Now: func() time.Time { return now }})
	if !lax.Usable() {
		t.Error("without CheckExpiry an expired token still counts as usable")
	}

	strict := NewManager(nil, ManagerOptions{
		Seed:        expired,
		CheckExpiry: true,
		Now:         func() time.Time { return now },
	})
	if strict.Usable() {
		t.Error("with CheckExpiry an expired token must be unusable")
	}
}

func TestManager_OnRefreshReportsStrategy(t *testing.T) {
	var ran []string
	source := &fakeSource{name: "password", token: Token{Secret: "tok"}}
	mgr := NewManager(source, ManagerOptions{
		OnRefresh: func(strategy string) { ran = append(ran, strategy) },
	})

	if err := mgr.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if len(ran) != 1 || ran[0] != "password" {
		t.Errorf("expected one OnRefresh callback with strategy password, got %v", ran)
	}
}

func TestToken_Expired(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		token   Token
		expired bool
	}{
		{name: "future expiry", token: Token{ExpiresAt: now.Add(time.Hour)}, expired: false},
		{name: "past expiry", token: Token{ExpiresAt: now.Add(-time.Hour)}, expired: true},
		{name: "exact instant", token: Token{ExpiresAt: now}, expired: true},
		{name: "unknown expiry", token: Token{}, expired: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.token.Expired(now); got != tt.expired {
				t.Errorf("Expired() = %v, expected %v", got, tt.expired)
			}
		})
	}
}
