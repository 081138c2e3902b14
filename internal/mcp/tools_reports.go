package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/bundlescope/internal/report"
)

// Tool input/output validation errors.
var (
	ErrEmptyReportName     = errors.New("report name must not be empty")
	ErrGenerateUnavailable = errors.New("report generation is not configured for this server")
)

// ListReportsInput is the (empty) input of the list_reports tool.
type ListReportsInput struct{}

// ListReportsOutput carries the catalog listing.
type ListReportsOutput struct {
	Reports []report.Report `json:"reports"`
}

// GetReportInput names the report to fetch.
type GetReportInput struct {
	Name string `json:"name" jsonschema:"the report name as returned by list_reports"`
}

// GetReportOutput carries one stored report payload.
type GetReportOutput struct {
	Name string         `json:"name"`
	Data map[string]any `json:"data"`
}

// GenerateReportInput is the (empty) input of the generate_report tool.
type GenerateReportInput struct{}

// GenerateReportOutput describes the stored report produced by a pipeline run.
type GenerateReportOutput = GenerateOutput

// GenerateOutput describes where a pipeline run landed.
type GenerateOutput struct {
	Name     string `json:"name"`
	JSONPath string `json:"jsonPath"`
	HTMLPath string `json:"htmlPath,omitempty"`
}

// handleListReports processes list_reports tool calls.
func (s *Server) handleListReports(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	_ ListReportsInput,
) (*mcpsdk.CallToolResult, ListReportsOutput, error) {
	reports, listErr := report.List(s.deps.ReportsDir)
	if listErr != nil {
		s.deps.Logger.ErrorContext(ctx, "list reports", "error", listErr)

		return errorResult[ListReportsOutput](listErr)
	}

	return jsonResult(ListReportsOutput{Reports: reports})
}

// handleGetReport processes get_report tool calls.
func (s *Server) handleGetReport(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input GetReportInput,
) (*mcpsdk.CallToolResult, GetReportOutput, error) {
	if input.Name == "" {
		return errorResult[GetReportOutput](ErrEmptyReportName)
	}

	path, resolveErr := report.JSONPath(s.deps.ReportsDir, input.Name)
	if resolveErr != nil {
		return errorResult[GetReportOutput](resolveErr)
	}

	content, readErr := os.ReadFile(path)
	if readErr != nil {
		return errorResult[GetReportOutput](fmt.Errorf("read report %s: %w", input.Name, readErr))
	}

	var data map[string]any

	unmarshalErr := json.Unmarshal(content, &data)
	if unmarshalErr != nil {
		return errorResult[GetReportOutput](fmt.Errorf("parse report %s: %w", input.Name, unmarshalErr))
	}

	s.deps.Logger.DebugContext(ctx, "served report", "name", input.Name, "bytes", len(content))

	return jsonResult(GetReportOutput{Name: input.Name, Data: data})
}

// handleGenerateReport processes generate_report tool calls.
func (s *Server) handleGenerateReport(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	_ GenerateReportInput,
) (*mcpsdk.CallToolResult, GenerateReportOutput, error) {
	if s.deps.Generate == nil {
		return errorResult[GenerateReportOutput](ErrGenerateUnavailable)
	}

	output, generateErr := s.deps.Generate(ctx)
	if generateErr != nil {
		s.deps.Logger.ErrorContext(ctx, "generate report", "error", generateErr)

		return errorResult[GenerateReportOutput](generateErr)
	}

	return jsonResult(output)
}
