package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/xeipuuv/gojsonschema"

	"github.com/Sumatoshi-tech/bundlescope/internal/stats/schema"
)

// ErrValidationFailed indicates the payload did not match the report schema.
var ErrValidationFailed = errors.New("report payload failed schema validation")

// NewValidateCommand creates the report schema validation command.
func NewValidateCommand() *cobra.Command {
	var (
		dir        string
		schemaPath string
		nocolor    bool
	)

	cmd := &cobra.Command{
		Use:   "validate <report-name>",
		Short: "Validate a stored report payload against the report schema",
		Long: `Validate the JSON payload of a stored report against the canonical
report payload schema.

Examples:
  bundlescope validate main-a1b2c3d-2026-01-15T10-30-00
  bundlescope validate --schema custom-schema.json my-report
`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			if nocolor {
				color.NoColor = true //nolint:reassign // intentional override of library global
			}

			cfg, cfgErr := loadConfig(cobraCmd)
			if cfgErr != nil {
				return cfgErr
			}

			if dir != "" {
				cfg.Reports.Dir = dir
			}

			return runValidate(cobraCmd, cfg.Reports.Dir, args[0], schemaPath)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "report directory (overrides reports.dir)")
	cmd.Flags().StringVar(&schemaPath, "schema", "", "path to a custom payload schema")
	cmd.Flags().BoolVar(&nocolor, "no-color", false, "disable colored output")

	return cmd
}

func runValidate(cobraCmd *cobra.Command, dir, name, schemaPath string) error {
	payload, readErr := readReportPayload(dir, name)
	if readErr != nil {
		return readErr
	}

	var payloadData any

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	decodeErr := dec.Decode(&payloadData)
	if decodeErr != nil {
		return fmt.Errorf("invalid JSON in report %s: %w", name, decodeErr)
	}

	schemaLoader, loadErr := loadPayloadSchema(schemaPath)
	if loadErr != nil {
		return loadErr
	}

	result, validateErr := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(payloadData))
	if validateErr != nil {
		return fmt.Errorf("schema validation: %w", validateErr)
	}

	out := cobraCmd.OutOrStdout()

	if result.Valid() {
		color.New(color.FgGreen).Fprintf(out, "Report payload is valid (%s)\n", name)

		return nil
	}

	color.New(color.FgRed).Fprintf(out, "Report payload validation failed (%s)\n", name)
	fmt.Fprintf(out, "\nErrors:\n")

	for _, verr := range result.Errors() {
		color.New(color.FgRed).Fprintf(out, "  - %s: %s\n", verr.Field(), verr.Description())
	}

	return ErrValidationFailed
}

// loadPayloadSchema returns the embedded schema unless a custom path is given.
func loadPayloadSchema(schemaPath string) (gojsonschema.JSONLoader, error) {
	if schemaPath == "" {
		schemaBytes, embedErr := schema.ReportSchemaFS.ReadFile("report-schema.json")
		if embedErr != nil {
			return nil, fmt.Errorf("read embedded schema: %w", embedErr)
		}

		return gojsonschema.NewBytesLoader(schemaBytes), nil
	}

	schemaBytes, readErr := os.ReadFile(schemaPath)
	if readErr != nil {
		return nil, fmt.Errorf("read schema file: %w", readErr)
	}

	return gojsonschema.NewBytesLoader(schemaBytes), nil
}
