// Package config loads, defaults and validates the client's configuration.
//
// # Overview
//
// Configuration comes from a YAML file, with three layers applied on top in
// order: built-in defaults, GIGACHAT_* environment variables, and
// file-mounted secrets for the credential fields. Validation runs after
// every layer that can change the result, so callers always receive a
// consistent Config.
//
// # Example
//
//	cfg, err := config.LoadConfigWithEnvOverrides("gigachat.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := config.ResolveSecrets(ctx, cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// A minimal configuration file:
//
//	auth:
//	  credentials: "<authorization key>"
//	  scope: GIGACHAT_API_PERS
//	telemetry:
//	  logging:
//	    level: info
//
// Every other field has a sensible default; api.base_url and auth.url
// default to the public GigaChat endpoints.
package config
