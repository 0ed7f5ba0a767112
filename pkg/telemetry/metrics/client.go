package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ClientMetrics tracks API calls, the token lifecycle and streaming volume.
//
// Metrics:
//   - <ns>_requests_total: API calls by operation and outcome
//   - <ns>_request_duration_seconds: API call latency by operation
//   - <ns>_token_refreshes_total: token exchanges by strategy
//   - <ns>_auth_retries_total: calls retried after an authentication rejection
//   - <ns>_stream_chunks_total: chunks decoded from streaming responses
type ClientMetrics struct {
	// API calls by operation ("chat", "chat_stream", "models", ...) and
	// outcome ("ok", "error")
	requests *prometheus.CounterVec

	// API call latency histogram by operation
	requestDuration *prometheus.HistogramVec

	// Token exchanges by strategy ("oauth", "password")
	tokenRefreshes *prometheus.CounterVec

	// Calls that went through the invalidate-refresh-retry path
	authRetries prometheus.Counter

	// Chunks decoded from streaming responses
	streamChunks prometheus.Counter
}

// Request outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// NewClientMetrics creates and registers client metrics with the provided
// registry under the given namespace.
func NewClientMetrics(namespace string, registry *prometheus.Registry) *ClientMetrics {
	m := &ClientMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of API calls by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "API call latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		tokenRefreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "token_refreshes_total",
				Help:      "Total number of token exchanges by strategy",
			},
			[]string{"strategy"},
		),

		authRetries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_retries_total",
				Help:      "Total number of calls retried after an authentication rejection",
			},
		),

		streamChunks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stream_chunks_total",
				Help:      "Total number of chunks decoded from streaming responses",
			},
		),
	}

	registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.tokenRefreshes,
		m.authRetries,
		m.streamChunks,
	)

	return m
}

// RecordRequest records one completed API call.
func (m *ClientMetrics) RecordRequest(operation string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.requests.WithLabelValues(operation, outcome).Inc()
	m.requestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// RecordTokenRefresh records one successful token exchange for the given
// strategy. This is the manager's OnRefresh hook.
func (m *ClientMetrics) RecordTokenRefresh(strategy string) {
	if m == nil {
		return
	}
	m.tokenRefreshes.WithLabelValues(strategy).Inc()
}

// RecordAuthRetry records one call that entered the retry-once path after
// an authentication rejection.
func (m *ClientMetrics) RecordAuthRetry() {
	if m == nil {
		return
	}
	m.authRetries.Inc()
}

// RecordStreamChunk records one decoded streaming chunk.
func (m *ClientMetrics) RecordStreamChunk() {
	if m == nil {
		return
	}
	m.streamChunks.Inc()
}
