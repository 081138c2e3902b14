package stats

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Kind classifies a located stats file by its format.
type Kind string

const (
	// KindJSON is a raw stats payload ready for pass-through.
	KindJSON Kind = "json"

	// KindHTML is an analyzer report page with embedded data.
	KindHTML Kind = "html"
)

// ErrStatsNotFound is returned when no stats file exists even after the
// build command ran.
var ErrStatsNotFound = errors.New("no stats file or HTML report found")

// Located is the result of a successful search.
type Located struct {
	Path string
	Kind Kind
}

// Locator searches a prioritized list of candidate paths for build-analysis
// output, falling back to a one-shot rebuild when nothing exists yet.
type Locator struct {
	// Primary is checked before any alternate. Order among Alternates is
	// significant and preserved.
	Primary    string
	Alternates []string

	// BuildCommand is run through the shell when the first search comes up
	// empty. Its stdio is inherited so CI logs show build output.
	BuildCommand string

	// Dir is the working directory for the build command. Empty means the
	// current directory.
	Dir string

	Logger *slog.Logger

	// run is swappable for tests; nil falls back to a shell invocation in Dir.
	run func(ctx context.Context, command string) error
}

// NewLocator builds a locator over the given candidate paths.
func NewLocator(primary string, alternates []string, buildCommand string, logger *slog.Logger) *Locator {
	return &Locator{
		Primary:      primary,
		Alternates:   alternates,
		BuildCommand: buildCommand,
		Logger:       logger,
	}
}

// Locate returns the first existing candidate. When none exists, the build
// command runs once and the same search repeats; a second miss or a build
// failure is fatal to the pipeline.
func (l *Locator) Locate(ctx context.Context) (Located, error) {
	found, ok := l.search()
	if ok {
		return found, nil
	}

	l.logger().Info("no stats files found, running build", "command", l.BuildCommand)

	buildErr := l.runBuild(ctx)
	if buildErr != nil {
		return Located{}, fmt.Errorf("build command failed: %w", buildErr)
	}

	found, ok = l.search()
	if !ok {
		return Located{}, fmt.Errorf("%w (after build)", ErrStatsNotFound)
	}

	return found, nil
}

func (l *Locator) search() (Located, bool) {
	if fileExists(l.Primary) {
		return Located{Path: l.Primary, Kind: kindFor(l.Primary)}, true
	}

	for _, candidate := range l.Alternates {
		if fileExists(candidate) {
			l.logger().Info("found stats file at alternate location", "path", candidate)

			return Located{Path: candidate, Kind: kindFor(candidate)}, true
		}
	}

	return Located{}, false
}

func (l *Locator) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}

	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func kindFor(path string) Kind {
	if strings.EqualFold(filepath.Ext(path), ".html") {
		return KindHTML
	}

	return KindJSON
}

func fileExists(path string) bool {
	info, statErr := os.Stat(path)

	return statErr == nil && !info.IsDir()
}

func (l *Locator) runBuild(ctx context.Context) error {
	if l.run != nil {
		return l.run(ctx, l.BuildCommand)
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", l.BuildCommand)
	cmd.Dir = l.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	runErr := cmd.Run()
	if runErr != nil {
		return fmt.Errorf("run %q: %w", l.BuildCommand, runErr)
	}

	return nil
}
