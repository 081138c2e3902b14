// Package report derives report names and persists and enumerates the
// report store directory, the flat filesystem catalog that is the system
// of record for generated reports.
package report

import (
	"strings"
	"time"

	"github.com/Sumatoshi-tech/bundlescope/internal/gitmeta"
)

// timestampLayout keeps millisecond precision so two runs inside the same
// second still sort; the substitution below makes it filename-safe.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// timestampSanitizer strips the characters that are unsafe in file names
// from an RFC3339 timestamp. The substitution and the dash separator are a
// fixed format: stored names must stay parseable across versions.
var timestampSanitizer = strings.NewReplacer(":", "-", ".", "-")

// Namer composes report names as branch-revision-timestamp. Names are
// unique with high probability: a collision needs the same branch,
// revision, and wall-clock millisecond, which cannot recur within one CI
// run.
type Namer struct {
	// RepoPath is where source-control metadata is looked up.
	RepoPath string

	// describe and now are swappable for tests.
	describe func(path string) gitmeta.Info
	now      func() time.Time
}

// NewNamer returns a namer rooted at the given repository path.
func NewNamer(repoPath string) *Namer {
	return &Namer{
		RepoPath: repoPath,
		describe: gitmeta.Describe,
		now:      time.Now,
	}
}

// Name derives the report name. It never fails: missing source-control
// metadata degrades to "unknown" segments.
func (n *Namer) Name() string {
	info := n.describe(n.RepoPath)
	timestamp := timestampSanitizer.Replace(n.now().UTC().Format(timestampLayout))

	return info.Branch + "-" + info.Revision + "-" + timestamp
}
