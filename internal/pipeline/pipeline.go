// Package pipeline composes the report generation stages: locate stats
// output, extract an artifact, name it, and store it.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/Sumatoshi-tech/bundlescope/internal/config"
	"github.com/Sumatoshi-tech/bundlescope/internal/report"
	"github.com/Sumatoshi-tech/bundlescope/internal/stats"
)

// Options adjusts a single pipeline run.
type Options struct {
	// RepoPath is the project directory: stats paths are resolved against
	// it and git metadata is read from it.
	RepoPath string

	// Logger receives stage diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Result describes a completed run.
type Result struct {
	// Name is the stored report name (branch-revision-timestamp).
	Name string

	// Variant records how the artifact was obtained.
	Variant stats.Variant

	// Saved holds the paths written by the store.
	Saved report.Saved
}

// Run executes the full pipeline. Locator and store failures abort the
// run; extraction never does, it degrades the artifact instead.
func Run(ctx context.Context, cfg *config.Config, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	alternates := make([]string, len(cfg.Stats.Alternates))
	for i, alternate := range cfg.Stats.Alternates {
		alternates[i] = filepath.Join(opts.RepoPath, alternate)
	}

	locator := stats.NewLocator(filepath.Join(opts.RepoPath, cfg.Stats.File), alternates, cfg.Stats.BuildCommand, logger)
	locator.Dir = opts.RepoPath

	located, locateErr := locator.Locate(ctx)
	if locateErr != nil {
		return Result{}, fmt.Errorf("locate stats: %w", locateErr)
	}

	logger.Info("stats located", "path", located.Path, "kind", located.Kind)

	artifact, extractErr := stats.NewExtractor(logger).Extract(located.Path, located.Kind)
	if extractErr != nil {
		return Result{}, fmt.Errorf("extract stats: %w", extractErr)
	}

	name := report.NewNamer(opts.RepoPath).Name()

	store := &report.Store{Dir: cfg.Reports.Dir, Atomic: cfg.Reports.AtomicWrites}

	saved, saveErr := store.Save(artifact, name, artifact.HTMLPath)
	if saveErr != nil {
		return Result{}, fmt.Errorf("store report: %w", saveErr)
	}

	logger.Info("report stored",
		"name", name,
		"variant", artifact.Variant,
		"json", saved.JSONPath,
		"html", saved.HTMLPath,
	)

	return Result{Name: name, Variant: artifact.Variant, Saved: saved}, nil
}
