// Package commands implements CLI command handlers for bundlescope.
package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bundlescope/internal/config"
	"github.com/Sumatoshi-tech/bundlescope/internal/observability"
)

// rootBool reads a persistent flag from the root command, defaulting to
// false when the flag is absent (as in command unit tests).
func rootBool(cmd *cobra.Command, name string) bool {
	flag := cmd.Root().PersistentFlags().Lookup(name)
	if flag == nil {
		return false
	}

	value, parseErr := cmd.Root().PersistentFlags().GetBool(name)
	if parseErr != nil {
		return false
	}

	return value
}

func rootString(cmd *cobra.Command, name string) string {
	flag := cmd.Root().PersistentFlags().Lookup(name)
	if flag == nil {
		return ""
	}

	value, parseErr := cmd.Root().PersistentFlags().GetString(name)
	if parseErr != nil {
		return ""
	}

	return value
}

// loadConfig resolves the effective configuration for a command run.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.LoadConfig(rootString(cmd, "config"))
}

// newLogger builds the command logger from config and the global
// --verbose/--quiet flags. Quiet wins over verbose.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	level := parseLogLevel(cfg.Log.Level)

	if rootBool(cmd, "verbose") {
		level = slog.LevelDebug
	}

	if rootBool(cmd, "quiet") {
		level = slog.LevelError
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Log.JSON {
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}

	return slog.New(observability.NewTracingHandler(handler, observability.DefaultConfig()))
}

func parseLogLevel(raw string) slog.Level {
	switch raw {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
