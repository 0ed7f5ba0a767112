package config

import "time"

// Default values for configuration fields.
const (
	// API defaults
	DefaultBaseURL = "https://gigachat.devices.sberbank.ru/api/v1"
	DefaultModel   = "GigaChat"
	DefaultTimeout = 30 * time.Second

	// Auth defaults
	DefaultAuthURL = "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"
	DefaultScope   = "GIGACHAT_API_PERS"

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultMetricsNamespace = "gigachat"
)

// ApplyDefaults applies default values to a Config struct. It sets defaults
// for any fields that have zero values and is idempotent.
func ApplyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	if cfg.API.Model == "" {
		cfg.API.Model = DefaultModel
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = DefaultTimeout
	}

	if cfg.Auth.URL == "" {
		cfg.Auth.URL = DefaultAuthURL
	}
	if cfg.Auth.Scope == "" {
		cfg.Auth.Scope = DefaultScope
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
}
