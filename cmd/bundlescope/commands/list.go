package commands

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bundlescope/internal/report"
)

// NewListCommand creates the catalog listing command.
func NewListCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List stored reports, newest first",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			cfg, cfgErr := loadConfig(cobraCmd)
			if cfgErr != nil {
				return cfgErr
			}

			if dir != "" {
				cfg.Reports.Dir = dir
			}

			reports, listErr := report.List(cfg.Reports.Dir)
			if listErr != nil {
				return listErr
			}

			if len(reports) == 0 {
				fmt.Fprintln(cobraCmd.OutOrStdout(), "No reports available.")

				return nil
			}

			tbl := table.NewWriter()
			tbl.SetOutputMirror(cobraCmd.OutOrStdout())
			tbl.SetStyle(table.StyleLight)
			tbl.AppendHeader(table.Row{"Name", "Date", "Size", "Formats"})

			for _, item := range reports {
				tbl.AppendRow(table.Row{
					item.Name,
					item.Date.Local().Format("2006-01-02 15:04:05"),
					humanize.IBytes(uint64(item.Size)),
					strings.Join(item.Formats, ", "),
				})
			}

			tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d reports", len(reports))})
			tbl.Render()

			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "report directory (overrides reports.dir)")

	return cmd
}
