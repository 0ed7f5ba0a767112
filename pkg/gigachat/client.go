package gigachat

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"gigachat-go/gigachat/pkg/auth"
	"gigachat-go/gigachat/pkg/telemetry/metrics"
)

// eventStreamContentType is the content type a streaming response must
// declare, matched exactly (parameters after ";" ignored).
const eventStreamContentType = "text/event-stream"

// Operation labels for logs and metrics.
const (
	opChat       = "chat"
	opChatStream = "chat_stream"
	opModels     = "models"
	opModel      = "model"
	opThreadRun  = "threads_run"
)

// Config configures a Client. It is a flat subset of config.Config carrying
// only what the client itself needs; file loading, defaults and validation
// live in pkg/config.
type Config struct {
	// BaseURL is the main API base URL, without a trailing slash.
	BaseURL string

	// AuthURL is the OAuth token endpoint URL, used with Credentials.
	AuthURL string

	// Credentials is the pre-encoded authorization key for the OAuth
	// client-credentials flow. Mutually exclusive with User/Password.
	Credentials string

	// Scope selects the API version OAuth tokens are issued for.
	Scope string

	// User and Password select the password grant flow at <BaseURL>/token.
	User     string
	Password string

	// AccessToken seeds the client with an already-issued token. With no
	// exchange credentials configured it is all the client ever has.
	AccessToken string

	// Model is the default model applied to chats that don't name one.
	Model string

	// Timeout bounds every request, including token exchanges.
	Timeout time.Duration

	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool

	// DisableAuth turns authentication off entirely: no Authorization
	// header is ever sent and no token exchange is ever made.
	DisableAuth bool

	// CheckTokenExpiry makes the client treat a token past its declared
	// expiry as unusable instead of waiting for the server's 401.
	CheckTokenExpiry bool

	// ClientID, SessionID and RequestID are identity headers forwarded
	// verbatim when present (X-Client-ID, X-Session-ID, X-Request-ID).
	// An absent RequestID is generated per call.
	ClientID  string
	SessionID string
	RequestID string

	// Metrics, when set, records calls, token refreshes and stream chunks.
	Metrics *metrics.ClientMetrics
}

// Client talks to the GigaChat API. It is safe for concurrent use; the
// access token is shared across calls and managed by the embedded
// lifecycle manager.
type Client struct {
	cfg     Config
	api     *http.Client
	authAPI *http.Client
	auth    *auth.Manager
	metrics *metrics.ClientMetrics
}

// NewClient creates a client. The zero value of every optional Config field
// is valid; BaseURL is required.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.User != "" && cfg.Credentials != "" {
		return nil, fmt.Errorf("credentials and user/password are mutually exclusive")
	}
	if (cfg.User == "") != (cfg.Password == "") {
		return nil, fmt.Errorf("user and password must be set together")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	api := newHTTPClient(cfg)
	authAPI := newHTTPClient(cfg)

	c := &Client{
		cfg:     cfg,
		api:     api,
		authAPI: authAPI,
		metrics: cfg.Metrics,
	}

	if !cfg.DisableAuth {
		var source auth.TokenSource
		switch {
		case cfg.Credentials != "":
			if cfg.AuthURL == "" {
				return nil, fmt.Errorf("auth URL is required for the credentials flow")
			}
			source = &auth.OAuthSource{
				Client:      authAPI,
				URL:         cfg.AuthURL,
				Credentials: cfg.Credentials,
				Scope:       cfg.Scope,
			}
		case cfg.User != "":
			source = &auth.PasswordSource{
				Client:   api,
				URL:      cfg.BaseURL + "/token",
				User:     cfg.User,
				Password: cfg.Password,
			}
		}

		opts := auth.ManagerOptions{
			CheckExpiry: cfg.CheckTokenExpiry,
			OnRefresh:   cfg.Metrics.RecordTokenRefresh,
		}
		if cfg.AccessToken != "" {
			opts.Seed = &auth.Token{Secret: cfg.AccessToken}
		}
		c.auth = auth.NewManager(source, opts)
	}

	return c, nil
}

func newHTTPClient(cfg Config) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 - explicit opt-in
	}
	return &http.Client{Transport: transport, Timeout: cfg.Timeout}
}

// Chat sends a completion request and returns the complete response.
func (c *Client) Chat(ctx context.Context, chat *Chat) (*ChatCompletion, error) {
	payload := c.prepareChat(chat, false)

	start := time.Now()
	completion, err := dispatch(ctx, c, opChat, func(ctx context.Context, credential string) (*ChatCompletion, error) {
		var out ChatCompletion
		if err := c.doJSON(ctx, http.MethodPost, "/chat/completions", payload, credential, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
	c.metrics.RecordRequest(opChat, err, time.Since(start))
	return completion, err
}

// ChatStream sends a completion request and returns a lazy stream of
// chunks. The retry-once policy applies to opening the stream only: once
// the first chunk is observable, failures surface on the stream and are
// never retried.
func (c *Client) ChatStream(ctx context.Context, chat *Chat) (*ChunkStream, error) {
	payload := c.prepareChat(chat, true)

	start := time.Now()
	stream, err := dispatch(ctx, c, opChatStream, func(ctx context.Context, credential string) (*ChunkStream, error) {
		return c.openStream(ctx, payload, credential)
	})
	c.metrics.RecordRequest(opChatStream, err, time.Since(start))
	return stream, err
}

// Models returns the available models.
func (c *Client) Models(ctx context.Context) (*Models, error) {
	start := time.Now()
	models, err := dispatch(ctx, c, opModels, func(ctx context.Context, credential string) (*Models, error) {
		var out Models
		if err := c.doJSON(ctx, http.MethodGet, "/models", nil, credential, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
	c.metrics.RecordRequest(opModels, err, time.Since(start))
	return models, err
}

// Model returns the description of a single model.
func (c *Client) Model(ctx context.Context, id string) (*Model, error) {
	start := time.Now()
	model, err := dispatch(ctx, c, opModel, func(ctx context.Context, credential string) (*Model, error) {
		var out Model
		if err := c.doJSON(ctx, http.MethodGet, "/models/"+id, nil, credential, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
	c.metrics.RecordRequest(opModel, err, time.Since(start))
	return model, err
}

// RunThread executes a run on a stored thread and returns its outcome.
func (c *Client) RunThread(ctx context.Context, threadID string, opts *ThreadRunOptions) (*ThreadRunResponse, error) {
	payload := threadRunRequest{ThreadID: threadID}
	if opts != nil {
		payload.ThreadRunOptions = *opts
	}

	start := time.Now()
	run, err := dispatch(ctx, c, opThreadRun, func(ctx context.Context, credential string) (*ThreadRunResponse, error) {
		var out ThreadRunResponse
		if err := c.doJSON(ctx, http.MethodPost, "/threads/run", payload, credential, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
	c.metrics.RecordRequest(opThreadRun, err, time.Since(start))
	return run, err
}

// Close releases the client's transport resources. The client must not be
// used afterwards.
func (c *Client) Close() {
	c.api.CloseIdleConnections()
	c.authAPI.CloseIdleConnections()
}

// prepareChat copies the request, applies the default model and pins the
// stream flag to the call shape: stripped for Chat, forced on for
// ChatStream.
func (c *Client) prepareChat(chat *Chat, stream bool) *Chat {
	payload := *chat
	if payload.Model == "" {
		payload.Model = c.cfg.Model
	}
	if stream {
		on := true
		payload.Stream = &on
	} else {
		payload.Stream = nil
	}
	return &payload
}

// setHeaders attaches the credential and identity headers.
func (c *Client) setHeaders(req *http.Request, credential string) {
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}
	if c.cfg.ClientID != "" {
		req.Header.Set("X-Client-ID", c.cfg.ClientID)
	}
	if c.cfg.SessionID != "" {
		req.Header.Set("X-Session-ID", c.cfg.SessionID)
	}
	requestID := c.cfg.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", requestID)
}

// doJSON performs one non-streaming attempt: request, status mapping,
// response decoding. The status contract is fixed: 200 is success, 401 maps
// to *AuthenticationError (the dispatcher's retry trigger), everything else
// to *ResponseError.
func (c *Client) doJSON(ctx context.Context, method, path string, payload any, credential string, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setHeaders(req, credential)

	resp, err := c.api.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response from %s: %w", req.URL, err)
		}
		return nil
	case http.StatusUnauthorized:
		return &AuthenticationError{URL: req.URL.String(), StatusCode: resp.StatusCode, Body: respBody, Headers: resp.Header}
	default:
		return &ResponseError{URL: req.URL.String(), StatusCode: resp.StatusCode, Body: respBody, Headers: resp.Header}
	}
}

// openStream performs one streaming attempt. Status and content type are
// verified here, before the stream is handed to the caller, so every
// failure this function returns still falls under the dispatcher's
// retry-once policy.
func (c *Client) openStream(ctx context.Context, payload *Chat, credential string) (*ChunkStream, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", eventStreamContentType)
	req.Header.Set("Cache-Control", "no-store")
	c.setHeaders(req, credential)

	resp, err := c.api.Do(req)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		contentType, _, _ := strings.Cut(resp.Header.Get("Content-Type"), ";")
		if contentType != eventStreamContentType {
			resp.Body.Close()
			return nil, &TransportError{Expected: eventStreamContentType, ContentType: contentType}
		}
		return newChunkStream(resp.Body, c.metrics), nil
	case http.StatusUnauthorized:
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &AuthenticationError{URL: req.URL.String(), StatusCode: resp.StatusCode, Body: respBody, Headers: resp.Header}
	default:
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &ResponseError{URL: req.URL.String(), StatusCode: resp.StatusCode, Body: respBody, Headers: resp.Header}
	}
}
