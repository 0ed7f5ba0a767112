// Package metrics exposes Prometheus instrumentation for the GigaChat
// client.
//
// Metrics are optional: the client records nothing unless a *ClientMetrics
// is attached to its configuration. All metrics register on a
// caller-supplied registry so embedding applications keep control of their
// metrics endpoint.
//
//	registry := prometheus.NewRegistry()
//	m := metrics.NewClientMetrics("gigachat", registry)
//	client, err := gigachat.NewClient(gigachat.Config{..., Metrics: m})
package metrics
