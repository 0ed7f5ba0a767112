package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gigachat.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  credentials: "key"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("expected default base URL, got %q", cfg.API.BaseURL)
	}
	if cfg.Auth.URL != DefaultAuthURL {
		t.Errorf("expected default auth URL, got %q", cfg.Auth.URL)
	}
	if cfg.Auth.Scope != DefaultScope {
		t.Errorf("expected default scope, got %q", cfg.Auth.Scope)
	}
	if cfg.API.Timeout != DefaultTimeout {
		t.Errorf("expected default timeout, got %v", cfg.API.Timeout)
	}
	if cfg.Telemetry.Logging.Level != "info" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("unexpected logging defaults: %+v", cfg.Telemetry.Logging)
	}
}

func TestLoadConfig_FileValuesWin(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://gigachat.internal/api/v1
  model: GigaChat-Pro
  timeout: 5s
auth:
  disabled: true
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.API.BaseURL != "https://gigachat.internal/api/v1" {
		t.Errorf("expected file base URL, got %q", cfg.API.BaseURL)
	}
	if cfg.API.Model != "GigaChat-Pro" {
		t.Errorf("expected file model, got %q", cfg.API.Model)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.API.Timeout)
	}
	if !cfg.Auth.Disabled {
		t.Error("expected auth disabled")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
api:
  model: GigaChat
auth:
  credentials: "file-key"
`)

	t.Setenv("GIGACHAT_API_MODEL", "GigaChat-Max")
	t.Setenv("GIGACHAT_AUTH_CREDENTIALS", "env-key")
	t.Setenv("GIGACHAT_API_TIMEOUT", "90s")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.API.Model != "GigaChat-Max" {
		t.Errorf("expected env model to win, got %q", cfg.API.Model)
	}
	if cfg.Auth.Credentials != "env-key" {
		t.Errorf("expected env credentials to win, got %q", cfg.Auth.Credentials)
	}
	if cfg.API.Timeout != 90*time.Second {
		t.Errorf("expected env timeout to win, got %v", cfg.API.Timeout)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		ApplyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "no strategy is valid",
			mutate: func(cfg *Config) {},
		},
		{
			name:   "credentials flow",
			mutate: func(cfg *Config) { cfg.Auth.Credentials = "k" },
		},
		{
			name: "password flow",
			mutate: func(cfg *Config) {
				cfg.Auth.User = "u"
				cfg.Auth.Password = "p"
			},
		},
		{
			name:    "both strategies",
			mutate:  func(cfg *Config) { cfg.Auth.Credentials = "k"; cfg.Auth.User = "u"; cfg.Auth.Password = "p" },
			wantErr: "mutually exclusive",
		},
		{
			name:    "user without password",
			mutate:  func(cfg *Config) { cfg.Auth.User = "u" },
			wantErr: "set together",
		},
		{
			name:    "bad scope",
			mutate:  func(cfg *Config) { cfg.Auth.Credentials = "k"; cfg.Auth.Scope = "WRONG" },
			wantErr: "auth.scope",
		},
		{
			name:    "bad base URL",
			mutate:  func(cfg *Config) { cfg.API.BaseURL = "not a url" },
			wantErr: "api.base_url",
		},
		{
			name:    "bad log level",
			mutate:  func(cfg *Config) { cfg.Telemetry.Logging.Level = "loud" },
			wantErr: "logging.level",
		},
		{
			name: "disabled auth skips strategy checks",
			mutate: func(cfg *Config) {
				cfg.Auth.Disabled = true
				cfg.Auth.User = "u" // would otherwise fail the pairing check
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestResolveSecrets(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "credentials"), []byte("mounted-key\n"), 0600); err != nil {
		t.Fatalf("failed to write secret: %v", err)
	}

	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Secrets.Dir = dir

	if err := ResolveSecrets(context.Background(), cfg); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if cfg.Auth.Credentials != "mounted-key" {
		t.Errorf("expected mounted credentials, got %q", cfg.Auth.Credentials)
	}
}

func TestResolveSecrets_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "credentials"), []byte("mounted-key"), 0600); err != nil {
		t.Fatalf("failed to write secret: %v", err)
	}

	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Secrets.Dir = dir
	cfg.Auth.Credentials = "explicit-key"

	if err := ResolveSecrets(context.Background(), cfg); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if cfg.Auth.Credentials != "explicit-key" {
		t.Errorf("expected explicit credentials to survive, got %q", cfg.Auth.Credentials)
	}
}

func TestResolveSecrets_NoDir(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if err := ResolveSecrets(context.Background(), cfg); err != nil {
		t.Errorf("resolve without a secrets dir must be a no-op, got %v", err)
	}
}
