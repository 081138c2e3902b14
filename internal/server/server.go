// Package server implements the report catalog HTTP server: the embedded
// viewer page, the listing API, and raw report delivery.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/bundlescope/internal/observability"
	"github.com/Sumatoshi-tech/bundlescope/internal/report"
)

const (
	serverReadTimeout  = 30 * time.Second
	serverWriteTimeout = 60 * time.Second
	serverIdleTimeout  = 120 * time.Second

	shutdownGrace = 5 * time.Second

	contentTypeJSON = "application/json"
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeCSS  = "text/css; charset=utf-8"
	contentTypeJS   = "text/javascript; charset=utf-8"
)

// Options configures a catalog server.
type Options struct {
	// ReportsDir is the directory holding stored report files.
	ReportsDir string

	// Addr is the listen address, e.g. ":3001".
	Addr string

	// Logger receives request diagnostics. Nil discards them.
	Logger *slog.Logger

	// Tracer creates per-request spans. Nil disables tracing.
	Tracer trace.Tracer

	// Metrics records RED metrics per request. Optional.
	Metrics *observability.REDMetrics

	// MetricsHandler serves the /metrics scrape endpoint. Optional.
	MetricsHandler http.Handler
}

// Server serves the report catalog over HTTP.
type Server struct {
	opts Options
}

// New creates a catalog server. The reports directory is created lazily by
// Run; handlers treat a missing directory as an empty catalog.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	if opts.Tracer == nil {
		opts.Tracer = nooptrace.NewTracerProvider().Tracer("server")
	}

	return &Server{opts: opts}
}

// Handler builds the route table. Every catalog request re-reads the
// reports directory; there is no cache to invalidate.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /index.html", s.handleIndex)
	mux.HandleFunc("GET /styles.css", s.assetHandler("styles.css", contentTypeCSS))
	mux.HandleFunc("GET /main.js", s.assetHandler("main.js", contentTypeJS))
	mux.HandleFunc("GET /api/reports", s.handleListReports)
	mux.HandleFunc("GET /api/reports/{name}", s.handleGetReportJSON)
	mux.HandleFunc("GET /report/{name}", s.handleGetReportHTML)
	mux.Handle("GET /healthz", observability.HealthHandler())

	if s.opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", s.opts.MetricsHandler)
	}

	return observability.HTTPMiddleware(s.opts.Tracer, s.opts.Metrics, mux)
}

// Run creates the reports directory if needed, then serves until ctx is
// cancelled. Shutdown drains in-flight requests with a short grace period.
func (s *Server) Run(ctx context.Context) error {
	mkdirErr := os.MkdirAll(s.opts.ReportsDir, 0o755)
	if mkdirErr != nil {
		return fmt.Errorf("create reports directory: %w", mkdirErr)
	}

	httpServer := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		s.opts.Logger.Info("report viewer listening", "addr", s.opts.Addr, "reports_dir", s.opts.ReportsDir)

		serveErr := httpServer.ListenAndServe()
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}

		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		shutdownErr := httpServer.Shutdown(shutdownCtx)
		if shutdownErr != nil {
			return fmt.Errorf("shutdown: %w", shutdownErr)
		}

		return nil
	case serveErr, ok := <-errCh:
		if !ok || serveErr == nil {
			return nil
		}

		return fmt.Errorf("serve: %w", serveErr)
	}
}

func (s *Server) handleIndex(rw http.ResponseWriter, _ *http.Request) {
	s.serveAsset(rw, "index.html", contentTypeHTML)
}

func (s *Server) assetHandler(name, contentType string) http.HandlerFunc {
	return func(rw http.ResponseWriter, _ *http.Request) {
		s.serveAsset(rw, name, contentType)
	}
}

func (s *Server) serveAsset(rw http.ResponseWriter, name, contentType string) {
	data, assetErr := viewerAsset(name)
	if assetErr != nil {
		s.opts.Logger.Error("missing embedded asset", "asset", name, "error", assetErr)
		http.Error(rw, "Not found", http.StatusNotFound)

		return
	}

	rw.Header().Set("Content-Type", contentType)
	s.write(rw, data)
}

func (s *Server) handleListReports(rw http.ResponseWriter, hr *http.Request) {
	reports, listErr := report.List(s.opts.ReportsDir)
	if listErr != nil {
		s.opts.Logger.ErrorContext(hr.Context(), "list reports", "error", listErr)

		rw.Header().Set("Content-Type", contentTypeJSON)
		rw.WriteHeader(http.StatusInternalServerError)
		s.write(rw, []byte(`{"error":"Failed to list reports"}`))

		return
	}

	payload, marshalErr := json.Marshal(reports)
	if marshalErr != nil {
		http.Error(rw, "Failed to list reports", http.StatusInternalServerError)

		return
	}

	rw.Header().Set("Content-Type", contentTypeJSON)
	s.write(rw, payload)
}

// handleGetReportJSON streams <name>.json opaquely: the server never
// parses stored report bytes, so a malformed file reaches the client as-is.
func (s *Server) handleGetReportJSON(rw http.ResponseWriter, hr *http.Request) {
	s.serveReportFile(rw, hr, report.JSONPath, contentTypeJSON)
}

func (s *Server) handleGetReportHTML(rw http.ResponseWriter, hr *http.Request) {
	s.serveReportFile(rw, hr, report.HTMLPath, contentTypeHTML)
}

func (s *Server) serveReportFile(
	rw http.ResponseWriter,
	hr *http.Request,
	resolve func(dir, name string) (string, error),
	contentType string,
) {
	name := hr.PathValue("name")

	path, resolveErr := resolve(s.opts.ReportsDir, name)
	if resolveErr != nil {
		http.Error(rw, "Report not found", http.StatusNotFound)

		return
	}

	content, readErr := os.ReadFile(path)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			http.Error(rw, "Report not found", http.StatusNotFound)

			return
		}

		s.opts.Logger.ErrorContext(hr.Context(), "read report file", "path", path, "error", readErr)
		http.Error(rw, "Error loading report", http.StatusInternalServerError)

		return
	}

	rw.Header().Set("Content-Type", contentType)
	s.write(rw, content)
}

func (s *Server) write(rw http.ResponseWriter, data []byte) {
	_, writeErr := rw.Write(data)
	if writeErr != nil {
		s.opts.Logger.Debug("write response", "error", writeErr)
	}
}
