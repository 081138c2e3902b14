package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bundlescope/internal/plot"
)

// NewPlotCommand creates the asset chart rendering command.
func NewPlotCommand() *cobra.Command {
	var (
		dir    string
		output string
	)

	cmd := &cobra.Command{
		Use:           "plot <report-name>",
		Short:         "Render an HTML bar chart of a report's largest assets",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			cfg, cfgErr := loadConfig(cobraCmd)
			if cfgErr != nil {
				return cfgErr
			}

			if dir != "" {
				cfg.Reports.Dir = dir
			}

			assets, loadErr := loadReportAssets(cfg.Reports.Dir, args[0])
			if loadErr != nil {
				return loadErr
			}

			if len(assets) == 0 {
				return fmt.Errorf("report %s contains no asset data", args[0])
			}

			target := output
			if target == "" {
				target = args[0] + ".chart.html"
			}

			file, createErr := os.Create(target)
			if createErr != nil {
				return fmt.Errorf("create chart file: %w", createErr)
			}
			defer file.Close()

			renderErr := plot.Render(file, args[0], assets)
			if renderErr != nil {
				return renderErr
			}

			fmt.Fprintf(cobraCmd.OutOrStdout(), "Chart written to %s\n", target)

			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "report directory (overrides reports.dir)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "chart output path (default <report-name>.chart.html)")

	return cmd
}
