// Package main provides the entry point for the bundlescope CLI tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bundlescope/cmd/bundlescope/commands"
	"github.com/Sumatoshi-tech/bundlescope/pkg/version"
)

var (
	verbose    bool
	quiet      bool
	configPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bundlescope",
		Short: "Bundle analysis report pipeline and viewer",
		Long: `Bundlescope turns build-analysis output into named, stored reports
and serves them through a browsable catalog.

Commands:
  generate  Locate stats output, extract, name, and store a report
  serve     Start the report catalog HTTP server
  list      List stored reports
  inspect   Show asset details for a stored report
  plot      Render a chart page for a stored report
  diff      Compare two stored reports
  validate  Check a stored report against the artifact schema
  export    Archive the report store for transfer
  mcp       Start the MCP server for AI agent integration`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default .bundlescope.yaml in CWD or $HOME)")

	// Add commands.
	rootCmd.AddCommand(commands.NewGenerateCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(commands.NewPlotCommand())
	rootCmd.AddCommand(commands.NewDiffCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewMCPCommand())
	rootCmd.AddCommand(versionCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "bundlescope %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
