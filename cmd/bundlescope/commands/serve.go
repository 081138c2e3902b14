package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bundlescope/internal/observability"
	"github.com/Sumatoshi-tech/bundlescope/internal/server"
	"github.com/Sumatoshi-tech/bundlescope/pkg/version"
)

// NewServeCommand creates the report catalog server command.
func NewServeCommand() *cobra.Command {
	var (
		port      int
		dir       string
		staticOut string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the report catalog HTTP server",
		Long: `Serve the stored reports: the embedded viewer page at /, the catalog
listing at /api/reports, raw report payloads at /api/reports/{name} and
/report/{name}, plus /healthz and /metrics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			cfg, cfgErr := loadConfig(cobraCmd)
			if cfgErr != nil {
				return cfgErr
			}

			if port != 0 {
				cfg.Server.Port = port
			}

			if dir != "" {
				cfg.Reports.Dir = dir
			}

			if staticOut != "" {
				writeErr := server.WriteStatic(staticOut)
				if writeErr != nil {
					return writeErr
				}

				fmt.Fprintf(os.Stdout, "Viewer assets written to %s\n", staticOut)
			}

			providers, initErr := initServeObservability(cobraCmd, cfg.Log.JSON)
			if initErr != nil {
				return initErr
			}

			defer func() {
				shutdownErr := providers.Shutdown(context.Background())
				if shutdownErr != nil {
					providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
				}
			}()

			metricsHandler, meter, promErr := observability.PrometheusHandler()
			if promErr != nil {
				return promErr
			}

			red, redErr := observability.NewREDMetrics(meter)
			if redErr != nil {
				return redErr
			}

			srv := server.New(server.Options{
				ReportsDir:     cfg.Reports.Dir,
				Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
				Logger:         providers.Logger,
				Tracer:         providers.Tracer,
				Metrics:        red,
				MetricsHandler: metricsHandler,
			})

			return srv.Run(cobraCmd.Context())
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides server.port)")
	cmd.Flags().StringVar(&dir, "dir", "", "report directory (overrides reports.dir)")
	cmd.Flags().StringVar(&staticOut, "static-out", "", "also write the viewer assets to this directory")

	return cmd
}

func initServeObservability(cmd *cobra.Command, logJSON bool) (observability.Providers, error) {
	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = version.Version
	cfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))
	cfg.OTLPInsecure = os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true"
	cfg.Mode = observability.ModeServe
	cfg.LogJSON = logJSON

	if rootBool(cmd, "verbose") {
		cfg.LogLevel = slog.LevelDebug
		cfg.DebugTrace = true
	}

	if rootBool(cmd, "quiet") {
		cfg.LogLevel = slog.LevelError
	}

	return observability.Init(cfg)
}
