package config

import (
	"fmt"
	"net/url"
)

// Scopes the API issues tokens for.
var validScopes = map[string]bool{
	"GIGACHAT_API_PERS": true,
	"GIGACHAT_API_B2B":  true,
	"GIGACHAT_API_CORP": true,
}

// Validate checks a Config for consistency. It is called after defaults and
// again after environment overrides, so every loaded configuration passes
// through it at least once.
func Validate(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if _, err := url.ParseRequestURI(cfg.API.BaseURL); err != nil {
		return fmt.Errorf("api.base_url is not a valid URL: %w", err)
	}
	if cfg.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}

	if err := validateAuth(&cfg.Auth); err != nil {
		return err
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.logging.level must be one of debug, info, warn, error (got %q)", cfg.Telemetry.Logging.Level)
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("telemetry.logging.format must be json or text (got %q)", cfg.Telemetry.Logging.Format)
	}

	return nil
}

func validateAuth(auth *AuthConfig) error {
	if auth.Disabled {
		return nil
	}

	if auth.Credentials != "" && auth.User != "" {
		return fmt.Errorf("auth.credentials and auth.user/auth.password are mutually exclusive")
	}
	if (auth.User == "") != (auth.Password == "") {
		return fmt.Errorf("auth.user and auth.password must be set together")
	}
	if auth.Credentials != "" {
		if auth.URL == "" {
			return fmt.Errorf("auth.url is required for the credentials flow")
		}
		if _, err := url.ParseRequestURI(auth.URL); err != nil {
			return fmt.Errorf("auth.url is not a valid URL: %w", err)
		}
		if !validScopes[auth.Scope] {
			return fmt.Errorf("auth.scope must be one of GIGACHAT_API_PERS, GIGACHAT_API_B2B, GIGACHAT_API_CORP (got %q)", auth.Scope)
		}
	}
	return nil
}
