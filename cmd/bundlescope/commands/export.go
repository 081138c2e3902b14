package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bundlescope/internal/archive"
)

// NewExportCommand creates the report archive command.
func NewExportCommand() *cobra.Command {
	var (
		dir     string
		extract string
	)

	cmd := &cobra.Command{
		Use:   "export <archive-path>",
		Short: "Archive the report directory, or restore reports from an archive",
		Long: `Pack every stored report into a single LZ4-compressed tar archive, or
with --extract unpack such an archive back into the report directory.`,
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

			out := cobraCmd.OutOrStdout()

			if extract != "" {
				extractErr := archive.Extract(args[0], extract)
				if extractErr != nil {
					return extractErr
				}

				fmt.Fprintf(out, "Reports extracted to %s\n", extract)

				return nil
			}

			createErr := archive.Create(args[0], cfg.Reports.Dir)
			if createErr != nil {
				return createErr
			}

			fmt.Fprintf(out, "Reports archived to %s\n", args[0])

			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "report directory (overrides reports.dir)")
	cmd.Flags().StringVar(&extract, "extract", "", "unpack the archive into this directory instead of creating one")

	return cmd
}
