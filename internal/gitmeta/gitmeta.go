// Package gitmeta answers the two read-only repository questions report
// naming needs: the current branch and a short revision id. Lookups go
// through libgit2; any failure degrades to "unknown" and is never fatal,
// since reports must still be producible from exported tarballs and
// shallow CI checkouts.
package gitmeta

import (
	git2go "github.com/libgit2/git2go/v34"
)

// Unknown substitutes for branch or revision when the repository cannot be
// queried.
const Unknown = "unknown"

// shortRevisionLen matches the abbreviated object id length git prints by
// default.
const shortRevisionLen = 7

// Info holds the source-control metadata a report name is derived from.
type Info struct {
	Branch   string
	Revision string
}

// Describe queries the repository containing path. It walks up parent
// directories the way the git CLI does and falls back to Unknown fields on
// any error, including a missing repository or an unborn HEAD.
func Describe(path string) Info {
	unknown := Info{Branch: Unknown, Revision: Unknown}

	repo, openErr := git2go.OpenRepositoryExtended(path, 0, "")
	if openErr != nil {
		return unknown
	}
	defer repo.Free()

	head, headErr := repo.Head()
	if headErr != nil {
		return unknown
	}
	defer head.Free()

	info := unknown

	if branch := head.Shorthand(); branch != "" {
		info.Branch = branch
	}

	if target := head.Target(); target != nil {
		full := target.String()
		if len(full) >= shortRevisionLen {
			info.Revision = full[:shortRevisionLen]
		}
	}

	return info
}
