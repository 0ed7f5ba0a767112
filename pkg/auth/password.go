package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// PasswordSource obtains tokens through the resource-owner password flow at
// the main API's /token endpoint.
type PasswordSource struct {
	// Client is the HTTP client used for the exchange.
	Client *http.Client

	// URL is the full /token endpoint URL on the main API host.
	URL string

	// User and Password are the resource-owner credentials, sent as HTTP
	// basic authentication.
	User     string
	Password string
}

// passwordTokenResponse is the /token endpoint's success body. The endpoint
// predates the OAuth one and uses its own field names; the expiry is seconds
// since the Unix epoch.
type passwordTokenResponse struct {
	Tok string `json:"tok"`
	Exp int64  `json:"exp"`
}

// Name identifies the strategy in logs and metrics.
func (s *PasswordSource) Name() string { return "password" }

// Exchange trades the username and password for a fresh token.
func (s *PasswordSource) Exchange(ctx context.Context) (Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, nil)
	if err != nil {
		return Token{}, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(s.User, s.Password)

	resp, err := s.Client.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("token exchange request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Token{}, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Token{}, &BackendError{URL: s.URL, StatusCode: resp.StatusCode, Body: body}
	}

	var payload passwordTokenResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return Token{}, fmt.Errorf("failed to parse token response: %w", err)
	}

	return Token{
		Secret:    payload.Tok,
		ExpiresAt: time.Unix(payload.Exp, 0),
	}, nil
}
