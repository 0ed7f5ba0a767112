package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"gigachat-go/gigachat/pkg/secrets"
)

// LoadConfig loads configuration from a YAML file at the specified path. It
// applies default values and validates the result. Environment variables
// are not consulted; use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the convention
// GIGACHAT_SECTION_FIELD (e.g. GIGACHAT_API_BASE_URL) and always take
// precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies GIGACHAT_* environment variables on top of an
// existing Config. Exposed for callers that build a configuration without a
// file; they must re-run Validate afterwards.
func ApplyEnvOverrides(cfg *Config) {
	applyEnvOverrides(cfg)
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Variables use the format GIGACHAT_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// API overrides
	if val := os.Getenv("GIGACHAT_API_BASE_URL"); val != "" {
		cfg.API.BaseURL = val
	}
	if val := os.Getenv("GIGACHAT_API_MODEL"); val != "" {
		cfg.API.Model = val
	}
	if val := os.Getenv("GIGACHAT_API_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.API.Timeout = d
		}
	}
	if val := os.Getenv("GIGACHAT_API_INSECURE_SKIP_VERIFY"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.API.InsecureSkipVerify = b
		}
	}
	if val := os.Getenv("GIGACHAT_API_CLIENT_ID"); val != "" {
		cfg.API.ClientID = val
	}
	if val := os.Getenv("GIGACHAT_API_SESSION_ID"); val != "" {
		cfg.API.SessionID = val
	}

	// Auth overrides
	if val := os.Getenv("GIGACHAT_AUTH_URL"); val != "" {
		cfg.Auth.URL = val
	}
	if val := os.Getenv("GIGACHAT_AUTH_CREDENTIALS"); val != "" {
		cfg.Auth.Credentials = val
	}
	if val := os.Getenv("GIGACHAT_AUTH_SCOPE"); val != "" {
		cfg.Auth.Scope = val
	}
	if val := os.Getenv("GIGACHAT_AUTH_USER"); val != "" {
		cfg.Auth.User = val
	}
	if val := os.Getenv("GIGACHAT_AUTH_PASSWORD"); val != "" {
		cfg.Auth.Password = val
	}
	if val := os.Getenv("GIGACHAT_AUTH_ACCESS_TOKEN"); val != "" {
		cfg.Auth.AccessToken = val
	}
	if val := os.Getenv("GIGACHAT_AUTH_DISABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Auth.Disabled = b
		}
	}
	if val := os.Getenv("GIGACHAT_AUTH_CHECK_TOKEN_EXPIRY"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Auth.CheckTokenExpiry = b
		}
	}

	// Secrets overrides
	if val := os.Getenv("GIGACHAT_SECRETS_DIR"); val != "" {
		cfg.Secrets.Dir = val
	}

	// Telemetry overrides
	if val := os.Getenv("GIGACHAT_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("GIGACHAT_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("GIGACHAT_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("GIGACHAT_TELEMETRY_METRICS_NAMESPACE"); val != "" {
		cfg.Telemetry.Metrics.Namespace = val
	}
}

// ResolveSecrets fills empty credential fields from the configured secrets
// directory. Files named credentials, password and access_token are
// consulted; fields already set by file or environment are left alone. A
// missing file is not an error, a present but unreadable one is.
func ResolveSecrets(ctx context.Context, cfg *Config) error {
	if cfg.Secrets.Dir == "" {
		return nil
	}

	provider, err := secrets.NewFileProvider(cfg.Secrets.Dir, cfg.Secrets.Watch)
	if err != nil {
		return fmt.Errorf("failed to open secrets directory: %w", err)
	}
	defer provider.Close()

	fields := []struct {
		name string
		dst  *string
	}{
		{secrets.NameCredentials, &cfg.Auth.Credentials},
		{secrets.NamePassword, &cfg.Auth.Password},
		{secrets.NameAccessToken, &cfg.Auth.AccessToken},
	}
	for _, field := range fields {
		if *field.dst != "" {
			continue
		}
		value, err := provider.Lookup(ctx, field.name)
		if errors.Is(err, secrets.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to resolve secret %q: %w", field.name, err)
		}
		*field.dst = value
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("configuration validation failed after secret resolution: %w", err)
	}
	return nil
}
