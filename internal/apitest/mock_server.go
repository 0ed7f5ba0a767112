// Package apitest provides a mock GigaChat API server for testing the
// client. It simulates the completion endpoints (single-shot and
// streaming), the model endpoints, and both token-exchange endpoints, with
// configurable credential checking and request recording.
package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// Server is a mock GigaChat API. Every issued token is remembered and
// requests are recorded so tests can assert on attempt counts, refresh
// counts and headers.
type Server struct {
	ts *httptest.Server

	mu sync.Mutex

	// requireAuth makes API endpoints demand a bearer token the server
	// itself issued.
	requireAuth bool

	// revoked holds tokens the server stopped accepting, simulating expiry
	// server-side.
	revoked map[string]bool

	// issued counts token exchanges, across both endpoints.
	issued int

	// requests records every API request (token endpoints excluded).
	requests []RecordedRequest

	// rejectAPI makes API endpoints answer 401 unconditionally, simulating
	// a persistent credential problem.
	rejectAPI bool

	// tokenEndpointDown makes both token endpoints answer 500.
	tokenEndpointDown bool

	// chatStatus is the status served on non-streaming completions.
	chatStatus int

	// chatResponse is the body served on non-streaming completions.
	chatResponse any

	// streamLines are the raw event-stream lines served on streaming
	// completions (without trailing newlines).
	streamLines []string

	// streamContentType overrides the streaming response content type.
	streamContentType string
}

// RecordedRequest is one observed API request.
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// Option configures the mock server.
type Option func(*Server)

// WithAuthRequired makes API endpoints reject requests that don't carry a
// token issued by this server.
func WithAuthRequired() Option {
	return func(s *Server) { s.requireAuth = true }
}

// WithRejectAPI makes API endpoints answer 401 no matter which token the
// request carries, simulating a persistent credential problem.
func WithRejectAPI() Option {
	return func(s *Server) { s.rejectAPI = true }
}

// WithTokenEndpointDown makes both token endpoints answer 500.
func WithTokenEndpointDown() Option {
	return func(s *Server) { s.tokenEndpointDown = true }
}

// WithChatStatus sets the status and body served on non-streaming
// completions.
func WithChatStatus(status int, body string) Option {
	return func(s *Server) {
		s.chatStatus = status
		s.chatResponse = body
	}
}

// WithChatResponse sets the body served on non-streaming completions.
func WithChatResponse(body any) Option {
	return func(s *Server) { s.chatResponse = body }
}

// WithStreamLines sets the raw lines served on streaming completions.
func WithStreamLines(lines ...string) Option {
	return func(s *Server) { s.streamLines = lines }
}

// WithStreamContentType overrides the content type declared on streaming
// responses, to simulate protocol mismatches.
func WithStreamContentType(contentType string) Option {
	return func(s *Server) { s.streamContentType = contentType }
}

// New starts a mock server. Callers must Close it.
func New(opts ...Option) *Server {
	s := &Server{
		revoked:           make(map[string]bool),
		chatStatus:        http.StatusOK,
		chatResponse:      ChatResponse("hello"),
		streamContentType: "text/event-stream",
		streamLines: []string{
			`data: ` + StreamChunk("hello"),
			`data: [DONE]`,
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth", s.handleOAuth)
	mux.HandleFunc("/token", s.handleToken)
	mux.HandleFunc("/chat/completions", s.record(s.handleChat))
	mux.HandleFunc("/models", s.record(s.handleModels))
	mux.HandleFunc("/models/", s.record(s.handleModel))
	mux.HandleFunc("/threads/run", s.record(s.handleThreadRun))
	s.ts = httptest.NewServer(mux)
	return s
}

// URL returns the server's base URL, used as both the API base URL and (with
// the /oauth path) the OAuth endpoint.
func (s *Server) URL() string { return s.ts.URL }

// OAuthURL returns the OAuth token endpoint URL.
func (s *Server) OAuthURL() string { return s.ts.URL + "/oauth" }

// Close shuts the server down.
func (s *Server) Close() { s.ts.Close() }

// Requests returns a copy of all recorded API requests.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestCount returns the number of recorded API requests.
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// TokensIssued returns the number of token exchanges served.
func (s *Server) TokensIssued() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issued
}

// RevokeAll revokes every token issued so far; the next API request with an
// old token gets a 401, simulating server-side expiry.
func (s *Server) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 1; i <= s.issued; i++ {
		s.revoked[s.tokenName(i)] = true
	}
}

func (s *Server) tokenName(n int) string {
	return fmt.Sprintf("tok-%d", n)
}

func (s *Server) issueToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.tokenName(s.issued)
}

// authorized reports whether the request carries a live token issued by
// this server.
func (s *Server) authorized(r *http.Request) bool {
	header := r.Header.Get("Authorization")
	if len(header) < 8 || header[:7] != "Bearer " {
		return false
	}
	token := header[7:]

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revoked[token] {
		return false
	}
	for i := 1; i <= s.issued; i++ {
		if token == s.tokenName(i) {
			return true
		}
	}
	return false
}

func (s *Server) record(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()

		if s.rejectAPI || (s.requireAuth && !s.authorized(r)) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Token has expired or is invalid"}`))
			return
		}
		next(w, r)
	}
}

func (s *Server) handleOAuth(w http.ResponseWriter, r *http.Request) {
	if s.tokenEndpointDown {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"backend unavailable"}`))
		return
	}
	if r.Header.Get("Authorization") == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"access_token": s.issueToken(),
		"expires_at":   time.Now().Add(30 * time.Minute).UnixMilli(),
	})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if s.tokenEndpointDown {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"backend unavailable"}`))
		return
	}
	if _, _, ok := r.BasicAuth(); !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"tok": s.issueToken(),
		"exp": time.Now().Add(30 * time.Minute).Unix(),
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Stream bool `json:"stream"`
	}
	last := s.lastRequest()
	_ = json.Unmarshal(last.Body, &req)

	if req.Stream {
		s.serveStream(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(s.chatStatus)
	switch v := s.chatResponse.(type) {
	case string:
		_, _ = w.Write([]byte(v))
	default:
		_ = json.NewEncoder(w).Encode(v)
	}
}

func (s *Server) serveStream(w http.ResponseWriter) {
	w.Header().Set("Content-Type", s.streamContentType)
	w.Header().Set("Cache-Control", "no-store")
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}
	for _, line := range s.streamLines {
		fmt.Fprintf(w, "%s\n\n", line)
		flusher.Flush()
	}
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"object": "list",
		"data": []map[string]any{
			{"id": "GigaChat", "object": "model", "owned_by": "salutedevices"},
			{"id": "GigaChat-Pro", "object": "model", "owned_by": "salutedevices"},
		},
	})
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Path[len("/models/"):]
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id": id, "object": "model", "owned_by": "salutedevices",
	})
}

func (s *Server) handleThreadRun(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ThreadID string `json:"thread_id"`
	}
	last := s.lastRequest()
	_ = json.Unmarshal(last.Body, &req)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"thread_id": req.ThreadID,
		"status":    "completed",
		"created":   time.Now().Unix(),
	})
}

func (s *Server) lastRequest() RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[len(s.requests)-1]
}

// ChatResponse builds a completion response body with the given content.
func ChatResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{
				"message":       map[string]any{"role": "assistant", "content": content},
				"index":         0,
				"finish_reason": "stop",
			},
		},
		"created": time.Now().Unix(),
		"model":   "GigaChat",
		"object":  "chat.completion",
		"usage":   map[string]any{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
	}
}

// StreamChunk builds the JSON payload of one streaming chunk with the given
// delta content.
func StreamChunk(delta string) string {
	chunk := map[string]any{
		"choices": []map[string]any{
			{"delta": map[string]any{"content": delta}, "index": 0},
		},
		"created": time.Now().Unix(),
		"model":   "GigaChat",
		"object":  "chat.completion.chunk",
	}
	data, _ := json.Marshal(chunk)
	return string(data)
}
