package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"gigachat-go/gigachat/pkg/cli"
	"gigachat-go/gigachat/pkg/config"
	"gigachat-go/gigachat/pkg/gigachat"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "gigachat",
	Short: "Command-line client for the GigaChat API",
	Long: `Gigachat is a command-line client for the GigaChat chat-completion API.

It handles the token lifecycle transparently: the access token is obtained
on first use through the configured grant flow and refreshed automatically
when the server rejects it.

Configuration is read from a YAML file, GIGACHAT_* environment variables
and optionally a directory of file-mounted secrets, in that order.`,
	Version: Version,
}

// Execute runs the root command with a signal-aware context, so Ctrl-C
// tears down in-flight requests and streams cleanly.
func Execute() {
	rootCmd.SilenceErrors = true
	if err := rootCmd.ExecuteContext(cli.SignalContext()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", cli.FormatError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig builds the effective configuration: file (when given), then
// environment overrides, then mounted secrets.
func loadConfig(ctx context.Context) (*config.Config, error) {
	var cfg *config.Config
	if cfgFile != "" {
		loaded, err := config.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = &config.Config{}
		config.ApplyDefaults(cfg)
		config.ApplyEnvOverrides(cfg)
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
	}

	if err := config.ResolveSecrets(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging installs the process-wide slog handler per the telemetry
// configuration; --verbose forces debug level.
func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	switch cfg.Telemetry.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Telemetry.Logging.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// newClient converts the loaded configuration into a client.
func newClient(cfg *config.Config) (*gigachat.Client, error) {
	return gigachat.NewClient(gigachat.Config{
		BaseURL:            cfg.API.BaseURL,
		AuthURL:            cfg.Auth.URL,
		Credentials:        cfg.Auth.Credentials,
		Scope:              cfg.Auth.Scope,
		User:               cfg.Auth.User,
		Password:           cfg.Auth.Password,
		AccessToken:        cfg.Auth.AccessToken,
		Model:              cfg.API.Model,
		Timeout:            cfg.API.Timeout,
		InsecureSkipVerify: cfg.API.InsecureSkipVerify,
		DisableAuth:        cfg.Auth.Disabled,
		CheckTokenExpiry:   cfg.Auth.CheckTokenExpiry,
		ClientID:           cfg.API.ClientID,
		SessionID:          cfg.API.SessionID,
		RequestID:          cfg.API.RequestID,
	})
}
