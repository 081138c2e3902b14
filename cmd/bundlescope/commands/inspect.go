package commands

import (
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bundlescope/internal/report"
	"github.com/Sumatoshi-tech/bundlescope/internal/stats"
)

// NewInspectCommand creates the report inspection command.
func NewInspectCommand() *cobra.Command {
	var (
		dir string
		top int
	)

	cmd := &cobra.Command{
		Use:           "inspect <report-name>",
		Short:         "Show asset details and type breakdown for a stored report",
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

			out := cobraCmd.OutOrStdout()

			if len(assets) == 0 {
				fmt.Fprintln(out, "Report contains no asset data.")

				return nil
			}

			sort.Slice(assets, func(i, j int) bool { return assets[i].Size > assets[j].Size })

			shown := assets
			if top > 0 && len(shown) > top {
				shown = shown[:top]
			}

			assetTable := table.NewWriter()
			assetTable.SetOutputMirror(out)
			assetTable.SetStyle(table.StyleLight)
			assetTable.AppendHeader(table.Row{"Asset", "Size", "Parsed", "Gzip"})

			var totalSize int64

			for _, asset := range assets {
				totalSize += asset.Size
			}

			for _, asset := range shown {
				assetTable.AppendRow(table.Row{
					asset.Name,
					humanize.IBytes(uint64(asset.Size)),
					humanize.IBytes(uint64(asset.ParsedSize)),
					humanize.IBytes(uint64(asset.GzipSize)),
				})
			}

			assetTable.AppendFooter(table.Row{"Total", humanize.IBytes(uint64(totalSize)), "", ""})
			assetTable.Render()

			fmt.Fprintln(out)
			fmt.Fprintln(out, "By type:")

			typeTable := table.NewWriter()
			typeTable.SetOutputMirror(out)
			typeTable.SetStyle(table.StyleLight)
			typeTable.AppendHeader(table.Row{"Type", "Assets", "Size"})

			for _, class := range stats.Breakdown(assets) {
				typeTable.AppendRow(table.Row{class.Class, class.Count, humanize.IBytes(uint64(class.Size))})
			}

			typeTable.Render()

			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "report directory (overrides reports.dir)")
	cmd.Flags().IntVar(&top, "top", 0, "show only the N largest assets (0 shows all)")

	return cmd
}

// loadReportAssets reads the stored JSON payload of a report and decodes
// its assets list.
func loadReportAssets(dir, name string) ([]stats.Asset, error) {
	path, resolveErr := report.JSONPath(dir, name)
	if resolveErr != nil {
		return nil, resolveErr
	}

	payload, readErr := os.ReadFile(path)
	if readErr != nil {
		return nil, fmt.Errorf("read report %s: %w", name, readErr)
	}

	return stats.AssetsFromPayload(payload)
}
