package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestOAuthSource_Exchange(t *testing.T) {
	var captured *http.Request
	var capturedScope string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		capturedScope = r.PostFormValue("scope")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-oauth",
			"expires_at":   time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli(),
		})
	}))
	defer server.Close()

	source := &OAuthSource{
		Client:      server.Client(),
		URL:         server.URL,
		Credentials: "base64-key",
		Scope:       "GIGACHAT_API_PERS",
	}

	token, err := source.Exchange(context.Background())
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}

	if token.Secret != "tok-oauth" {
		t.Errorf("expected secret tok-oauth, got %q", token.Secret)
	}
	if want := time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC); !token.ExpiresAt.Equal(want) {
		t.Errorf("expected expiry %v, got %v", want, token.ExpiresAt)
	}

	if got := captured.Header.Get("Authorization"); got != "Basic base64-key" {
		t.Errorf("expected basic authorization header, got %q", got)
	}
	if capturedScope != "GIGACHAT_API_PERS" {
		t.Errorf("expected scope form field, got %q", capturedScope)
	}
	rquid := captured.Header.Get("RqUID")
	if _, err := uuid.Parse(rquid); err != nil {
		t.Errorf("expected RqUID to be a UUID, got %q: %v", rquid, err)
	}
}

func TestOAuthSource_BackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"unknown scope"}`))
	}))
	defer server.Close()

	source := &OAuthSource{Client: server.Client(), URL: server.URL, Credentials: "k", Scope: "BAD"}

	_, err := source.Exchange(context.Background())
	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected *BackendError, got %v", err)
	}
	if be.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", be.StatusCode)
	}
	if string(be.Body) != `{"message":"unknown scope"}` {
		t.Errorf("expected endpoint body to be preserved, got %q", be.Body)
	}
}

func TestPasswordSource_Exchange(t *testing.T) {
	exp := time.Date(2031, 6, 1, 0, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, password, ok := r.BasicAuth()
		if !ok || user != "alice" || password == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"tok": "tok-password", "exp": exp.Unix()})
	}))
	defer server.Close()

	source := &PasswordSource{
		Client:   server.Client(),
		URL:      server.URL + "/token",
		User:     "alice",
		Password: "s3cret",
	}

	token, err := source.Exchange(context.Background())
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}
	if token.Secret != "tok-password" {
		t.Errorf("expected secret tok-password, got %q", token.Secret)
	}
	if !token.ExpiresAt.Equal(exp) {
		t.Errorf("expected expiry %v, got %v", exp, token.ExpiresAt)
	}
}

func TestPasswordSource_BackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	source := &PasswordSource{Client: server.Client(), URL: server.URL + "/token", User: "u", Password: "p"}

	_, err := source.Exchange(context.Background())
	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("expected *BackendError, got %v", err)
	}
	if be.StatusCode != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", be.StatusCode)
	}
}
