package config

import "time"

// Config is the complete configuration, loaded from YAML with environment
// variable overrides applied on top.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Auth      AuthConfig      `yaml:"auth"`
	Secrets   SecretsConfig   `yaml:"secrets"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// APIConfig describes the main API endpoint and per-request behavior.
type APIConfig struct {
	// BaseURL is the API base URL.
	BaseURL string `yaml:"base_url"`

	// Model is the default model applied to requests that don't name one.
	Model string `yaml:"model"`

	// Timeout bounds every request, including token exchanges.
	Timeout time.Duration `yaml:"timeout"`

	// InsecureSkipVerify disables TLS certificate verification. Intended
	// for API deployments behind private certificate authorities.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`

	// ClientID, SessionID and RequestID are forwarded as the X-Client-ID,
	// X-Session-ID and X-Request-ID headers when set.
	ClientID  string `yaml:"client_id"`
	SessionID string `yaml:"session_id"`
	RequestID string `yaml:"request_id"`
}

// AuthConfig selects and parameterizes the token acquisition strategy.
// Exactly one strategy may be configured: Credentials (OAuth), User and
// Password (password grant), or a standalone AccessToken. With Disabled set
// no strategy is used and no Authorization header is sent.
type AuthConfig struct {
	// URL is the OAuth token endpoint, used with Credentials.
	URL string `yaml:"url"`

	// Credentials is the pre-encoded authorization key for the OAuth flow.
	Credentials string `yaml:"credentials"`

	// Scope selects the API version tokens are issued for.
	Scope string `yaml:"scope"`

	// User and Password select the password grant flow.
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	// AccessToken seeds the client with an already-issued token.
	AccessToken string `yaml:"access_token"`

	// Disabled turns authentication off entirely.
	Disabled bool `yaml:"disabled"`

	// CheckTokenExpiry treats a token past its declared expiry as unusable
	// instead of waiting for the server's 401.
	CheckTokenExpiry bool `yaml:"check_token_expiry"`
}

// SecretsConfig points at a directory of file-mounted secrets. When set,
// empty Auth fields are resolved from files named credentials, password and
// access_token.
type SecretsConfig struct {
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"`
}

// TelemetryConfig configures logging and metrics.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is json or text.
	Format string `yaml:"format"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}
