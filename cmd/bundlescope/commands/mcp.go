package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bundlescope/internal/config"
	"github.com/Sumatoshi-tech/bundlescope/internal/mcp"
	"github.com/Sumatoshi-tech/bundlescope/internal/observability"
	"github.com/Sumatoshi-tech/bundlescope/internal/pipeline"
	"github.com/Sumatoshi-tech/bundlescope/pkg/version"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	var (
		debug    bool
		repoPath string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes the report catalog as tools that AI agents can
discover and invoke:
  - list_reports: list stored bundle reports
  - get_report: fetch a stored report payload by name
  - generate_report: run the full report pipeline`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			cfg, cfgErr := loadConfig(cobraCmd)
			if cfgErr != nil {
				return cfgErr
			}

			providers, initErr := initMCPObservability(debug)
			if initErr != nil {
				return initErr
			}

			defer func() {
				shutdownErr := providers.Shutdown(context.Background())
				if shutdownErr != nil {
					providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
				}
			}()

			deps := mcp.ServerDeps{
				ReportsDir: cfg.Reports.Dir,
				Generate:   generateFunc(cfg, repoPath, providers.Logger),
				Logger:     providers.Logger,
				Tracer:     providers.Tracer,
				Version:    version.Version,
			}

			srv := mcp.NewServer(deps)

			return srv.Run(cobraCmd.Context())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")
	cmd.Flags().StringVar(&repoPath, "repo", ".", "project directory used by the generate_report tool")

	return cmd
}

// generateFunc adapts a pipeline run to the generate_report tool contract.
func generateFunc(cfg *config.Config, repoPath string, logger *slog.Logger) mcp.GenerateFunc {
	return func(ctx context.Context) (mcp.GenerateOutput, error) {
		result, runErr := pipeline.Run(ctx, cfg, pipeline.Options{
			RepoPath: repoPath,
			Logger:   logger,
		})
		if runErr != nil {
			return mcp.GenerateOutput{}, runErr
		}

		return mcp.GenerateOutput{
			Name:     result.Name,
			JSONPath: result.Saved.JSONPath,
			HTMLPath: result.Saved.HTMLPath,
		}, nil
	}
}

func initMCPObservability(debug bool) (observability.Providers, error) {
	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = version.Version
	cfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))
	cfg.OTLPInsecure = os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true"
	cfg.Mode = observability.ModeMCP
	cfg.LogJSON = true

	if debug {
		cfg.LogLevel = slog.LevelDebug
		cfg.DebugTrace = true
	}

	return observability.Init(cfg)
}
