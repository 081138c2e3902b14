package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bundlescope/internal/budget"
	"github.com/Sumatoshi-tech/bundlescope/internal/config"
	"github.com/Sumatoshi-tech/bundlescope/internal/pipeline"
)

// NewGenerateCommand creates the report generation command.
func NewGenerateCommand() *cobra.Command {
	var (
		repoPath   string
		outputDir  string
		atomic     bool
		budgetPath string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a bundle report from build-analysis output",
		Long: `Locate build-analysis output (stats JSON or analyzer HTML), extract a
report artifact, derive its name from git metadata, and store it in the
report directory. Missing stats trigger one build; extraction problems
degrade the artifact instead of failing the run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			cfg, cfgErr := loadConfig(cobraCmd)
			if cfgErr != nil {
				return cfgErr
			}

			if outputDir != "" {
				cfg.Reports.Dir = outputDir
			}

			if atomic {
				cfg.Reports.AtomicWrites = true
			}

			logger := newLogger(cobraCmd, cfg)

			result, runErr := pipeline.Run(cobraCmd.Context(), cfg, pipeline.Options{
				RepoPath: repoPath,
				Logger:   logger,
			})
			if runErr != nil {
				color.New(color.FgRed).Fprintf(os.Stderr, "Report generation failed: %v\n", runErr)

				return runErr
			}

			color.New(color.FgGreen).Fprintf(os.Stdout, "Report generated: %s\n", result.Name)
			fmt.Fprintf(os.Stdout, "  JSON: %s\n", result.Saved.JSONPath)

			if result.Saved.HTMLPath != "" {
				fmt.Fprintf(os.Stdout, "  HTML: %s\n", result.Saved.HTMLPath)
			}

			if budgetPath != "" {
				writeErr := writeBudget(cfg, budgetPath)
				if writeErr != nil {
					return writeErr
				}

				fmt.Fprintf(os.Stdout, "  Budget: %s\n", budgetPath)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&repoPath, "repo", ".", "project directory holding build output and git metadata")
	cmd.Flags().StringVar(&outputDir, "output", "", "report directory (overrides reports.dir)")
	cmd.Flags().BoolVar(&atomic, "atomic", false, "write reports via temp file and rename")
	cmd.Flags().StringVar(&budgetPath, "write-budget", "", "also write the performance budget file to this path")

	return cmd
}

func writeBudget(cfg *config.Config, path string) error {
	thresholds := budget.Default()
	thresholds.Scores.Performance = cfg.Audit.MinPerformanceScore

	if cfg.Audit.Runs > 0 {
		thresholds.Runs = cfg.Audit.Runs
	}

	thresholds.URLs = cfg.Audit.URLs

	writeErr := budget.Write(path, thresholds)
	if writeErr != nil {
		return fmt.Errorf("write budget: %w", writeErr)
	}

	return nil
}
