package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OAuthSource obtains tokens through the client-credentials flow at the
// dedicated OAuth endpoint. The endpoint lives on a separate host from the
// main API, so the source carries its own HTTP client.
type OAuthSource struct {
	// Client is the HTTP client used for the exchange.
	Client *http.Client

	// URL is the full OAuth endpoint URL.
	URL string

	// Credentials is the pre-encoded authorization key sent as
	// "Authorization: Basic <credentials>".
	Credentials string

	// Scope selects the API version the token is issued for
	// (e.g. "GIGACHAT_API_PERS").
	Scope string
}

// oauthTokenResponse is the OAuth endpoint's success body. The expiry is
// milliseconds since the Unix epoch.
type oauthTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

// Name identifies the strategy in logs and metrics.
func (s *OAuthSource) Name() string { return "oauth" }

// Exchange trades the authorization key and scope for a fresh token.
// Every exchange carries a unique RqUID header, which the endpoint requires
// for request tracing.
func (s *OAuthSource) Exchange(ctx context.Context) (Token, error) {
	form := url.Values{"scope": {s.Scope}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Basic "+s.Credentials)
	req.Header.Set("RqUID", uuid.NewString())

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

	var payload oauthTokenResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return Token{}, fmt.Errorf("failed to parse token response: %w", err)
	}

	return Token{
		Secret:    payload.AccessToken,
		ExpiresAt: time.UnixMilli(payload.ExpiresAt),
	}, nil
}
