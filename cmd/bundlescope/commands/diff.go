package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bundlescope/internal/diff"
	"github.com/Sumatoshi-tech/bundlescope/internal/report"
)

// NewDiffCommand creates the report comparison command.
func NewDiffCommand() *cobra.Command {
	var (
		dir string
		raw bool
	)

	cmd := &cobra.Command{
		Use:           "diff <base-report> <target-report>",
		Short:         "Compare asset sizes between two stored reports",
		Args:          cobra.ExactArgs(2),
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

			out := cobraCmd.OutOrStdout()

			if raw {
				return printRawDiff(out, cfg.Reports.Dir, args[0], args[1])
			}

			baseAssets, baseErr := loadReportAssets(cfg.Reports.Dir, args[0])
			if baseErr != nil {
				return baseErr
			}

			targetAssets, targetErr := loadReportAssets(cfg.Reports.Dir, args[1])
			if targetErr != nil {
				return targetErr
			}

			result := diff.Compare(baseAssets, targetAssets)

			if result.Empty() {
				fmt.Fprintln(out, "No asset changes.")

				return nil
			}

			tbl := table.NewWriter()
			tbl.SetOutputMirror(out)
			tbl.SetStyle(table.StyleLight)
			tbl.AppendHeader(table.Row{"Change", "Asset", "Before", "After", "Delta"})

			for _, change := range result.Added {
				tbl.AppendRow(table.Row{"added", change.Name, "", humanize.IBytes(uint64(change.NewSize)), formatDelta(change.Delta)})
			}

			for _, change := range result.Removed {
				tbl.AppendRow(table.Row{"removed", change.Name, humanize.IBytes(uint64(change.OldSize)), "", formatDelta(change.Delta)})
			}

			for _, change := range result.Changed {
				tbl.AppendRow(table.Row{
					"resized",
					change.Name,
					humanize.IBytes(uint64(change.OldSize)),
					humanize.IBytes(uint64(change.NewSize)),
					formatDelta(change.Delta),
				})
			}

			tbl.AppendFooter(table.Row{
				"total",
				"",
				humanize.IBytes(uint64(result.OldSize)),
				humanize.IBytes(uint64(result.NewSize)),
				formatDelta(result.TotalDelta()),
			})
			tbl.Render()

			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "report directory (overrides reports.dir)")
	cmd.Flags().BoolVar(&raw, "raw", false, "show a line diff of the raw JSON payloads instead of the asset summary")

	return cmd
}

// formatDelta renders a size delta with an explicit sign.
func formatDelta(delta int64) string {
	if delta < 0 {
		return "-" + humanize.IBytes(uint64(-delta))
	}

	return "+" + humanize.IBytes(uint64(delta))
}

func printRawDiff(out io.Writer, dir, base, target string) error {
	basePayload, baseErr := readReportPayload(dir, base)
	if baseErr != nil {
		return baseErr
	}

	targetPayload, targetErr := readReportPayload(dir, target)
	if targetErr != nil {
		return targetErr
	}

	diffs := diff.Payloads(basePayload, targetPayload)

	if len(diffs) == 0 {
		fmt.Fprintln(out, "Payloads are identical.")

		return nil
	}

	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)

	for _, d := range diffs {
		for line := range strings.SplitSeq(strings.TrimRight(d.Text, "\n"), "\n") {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				removed.Fprintf(out, "- %s\n", line)
			case diffmatchpatch.DiffInsert:
				added.Fprintf(out, "+ %s\n", line)
			case diffmatchpatch.DiffEqual:
			}
		}
	}

	return nil
}

func readReportPayload(dir, name string) ([]byte, error) {
	path, resolveErr := report.JSONPath(dir, name)
	if resolveErr != nil {
		return nil, resolveErr
	}

	payload, readErr := os.ReadFile(path)
	if readErr != nil {
		return nil, fmt.Errorf("read report %s: %w", name, readErr)
	}

	return payload, nil
}
