package secrets

import (
	"context"
	"errors"
	"os"
	"strings"
)

// ErrNotFound reports that a provider has no value for the requested name.
var ErrNotFound = errors.New("secret not found")

// EnvProvider reads secrets from environment variables. A secret name is
// uppercased and joined to the prefix: with prefix "GIGACHAT", the secret
// "access_token" resolves from GIGACHAT_ACCESS_TOKEN.
type EnvProvider struct {
	Prefix string
}

// NewEnvProvider creates an environment-backed provider.
func NewEnvProvider(prefix string) *EnvProvider {
	return &EnvProvider{Prefix: prefix}
}

// Lookup resolves the secret from the environment. Empty values count as
// absent.
func (p *EnvProvider) Lookup(_ context.Context, name string) (string, error) {
	key := strings.ToUpper(name)
	if p.Prefix != "" {
		key = p.Prefix + "_" + key
	}
	value := os.Getenv(key)
	if value == "" {
		return "", ErrNotFound
	}
	return value, nil
}

// Name returns the backend name.
func (p *EnvProvider) Name() string { return "env" }
