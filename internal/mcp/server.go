// Package mcp exposes the report catalog to AI agents over the Model
// Context Protocol on stdio transport.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/trace"
)

const serverName = "bundlescope"

// GenerateFunc runs the report pipeline and returns the stored report name.
type GenerateFunc func(ctx context.Context) (GenerateOutput, error)

// ServerDeps carries the collaborators the MCP tools need.
type ServerDeps struct {
	// ReportsDir is the report store directory served by the tools.
	ReportsDir string

	// Generate runs the full pipeline for the generate_report tool.
	// Nil disables the tool at call time with an explanatory error.
	Generate GenerateFunc

	// Logger receives tool diagnostics. Nil discards them.
	Logger *slog.Logger

	// Tracer creates per-call spans. Nil disables tracing.
	Tracer trace.Tracer

	// Version is reported in the MCP handshake.
	Version string
}

// Server wraps the MCP SDK server with the catalog tool set.
type Server struct {
	deps      ServerDeps
	sdk       *mcpsdk.Server
	toolNames []string
}

// NewServer creates an MCP server with the report tools registered.
func NewServer(deps ServerDeps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}

	srv := &Server{
		deps: deps,
		sdk: mcpsdk.NewServer(&mcpsdk.Implementation{
			Name:    serverName,
			Version: deps.Version,
		}, nil),
	}

	srv.registerTools()

	return srv
}

func (s *Server) registerTools() {
	addToolTo(s, &mcpsdk.Tool{
		Name:        "list_reports",
		Description: "List all stored bundle reports with name, date, size, and available formats",
	}, s.handleListReports)

	addToolTo(s, &mcpsdk.Tool{
		Name:        "get_report",
		Description: "Fetch the JSON payload of a stored bundle report by name",
	}, s.handleGetReport)

	addToolTo(s, &mcpsdk.Tool{
		Name:        "generate_report",
		Description: "Run the report pipeline: locate stats, extract, name, and store a new report",
	}, s.handleGenerateReport)
}

func addToolTo[In, Out any](
	s *Server,
	tool *mcpsdk.Tool,
	handler func(context.Context, *mcpsdk.CallToolRequest, In) (*mcpsdk.CallToolResult, Out, error),
) {
	mcpsdk.AddTool(s.sdk, tool, handler)
	s.toolNames = append(s.toolNames, tool.Name)
}

// ListToolNames returns the registered tool names in registration order.
func (s *Server) ListToolNames() []string {
	names := make([]string, len(s.toolNames))
	copy(names, s.toolNames)

	return names
}

// Run serves MCP over stdio until the context is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.deps.Logger.Info("mcp server starting", "tools", s.toolNames)

	runErr := s.sdk.Run(ctx, &mcpsdk.StdioTransport{})
	if runErr != nil {
		return fmt.Errorf("mcp server: %w", runErr)
	}

	return nil
}

// errorResult converts a tool failure into an MCP error result. Tool-level
// failures are reported in-band, not as protocol errors.
func errorResult[Out any](err error) (*mcpsdk.CallToolResult, Out, error) {
	var zero Out

	return &mcpsdk.CallToolResult{
		IsError: true,
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: err.Error()}},
	}, zero, nil
}

// jsonResult renders the output both as structured content and as an
// indented JSON text block for clients without structured-output support.
func jsonResult[Out any](output Out) (*mcpsdk.CallToolResult, Out, error) {
	var zero Out

	payload, marshalErr := json.MarshalIndent(output, "", "  ")
	if marshalErr != nil {
		return nil, zero, fmt.Errorf("marshal tool output: %w", marshalErr)
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(payload)}},
	}, output, nil
}
