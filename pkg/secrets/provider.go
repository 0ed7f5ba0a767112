// Package secrets loads credential material from pluggable backends.
//
// Two backends are provided: environment variables and Kubernetes-style
// file mounts (one secret per file). Providers are chained: the first one
// that knows a secret wins, so a mounted file can override an environment
// variable or vice versa depending on chain order.
package secrets

import "context"

// Secret names the client's configuration resolves.
const (
	NameCredentials = "credentials"
	NamePassword    = "password"
	NameAccessToken = "access_token"
)

// Provider retrieves secrets from a backend.
type Provider interface {
	// Lookup retrieves a secret by name. It returns ErrNotFound when the
	// backend has no value for the name; other errors indicate the backend
	// failed.
	Lookup(ctx context.Context, name string) (string, error)

	// Name returns the backend name (env, file).
	Name() string
}

// Chain resolves a secret against providers in order, returning the first
// hit. It returns ErrNotFound only if every provider misses.
func Chain(ctx context.Context, name string, providers ...Provider) (string, error) {
	for _, p := range providers {
		value, err := p.Lookup(ctx, name)
		if err == nil {
			return value, nil
		}
		if err != ErrNotFound {
			return "", err
		}
	}
	return "", ErrNotFound
}
