// Package diff compares the asset inventories of two stored reports.
package diff

import (
	"sort"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Sumatoshi-tech/bundlescope/internal/stats"
)

// diffTimeout bounds a single payload diff computation.
const diffTimeout = time.Second

// Change describes how a single asset moved between two reports.
type Change struct {
	Name    string
	OldSize int64
	NewSize int64
	Delta   int64
}

// Result holds the comparison between a base and a target report.
type Result struct {
	Added   []Change
	Removed []Change
	Changed []Change
	OldSize int64
	NewSize int64
}

// TotalDelta returns the size change across the whole asset inventory.
func (r Result) TotalDelta() int64 {
	return r.NewSize - r.OldSize
}

// Empty reports whether the two asset inventories are identical.
func (r Result) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Changed) == 0
}

// Compare matches assets by name and classifies them as added, removed
// or resized. Assets with unchanged sizes are omitted.
func Compare(oldAssets, newAssets []stats.Asset) Result {
	oldByName := make(map[string]stats.Asset, len(oldAssets))
	for _, asset := range oldAssets {
		oldByName[asset.Name] = asset
	}

	var result Result

	for _, asset := range oldAssets {
		result.OldSize += asset.Size
	}

	seen := make(map[string]bool, len(newAssets))

	for _, asset := range newAssets {
		result.NewSize += asset.Size
		seen[asset.Name] = true

		previous, existed := oldByName[asset.Name]
		if !existed {
			result.Added = append(result.Added, Change{
				Name:    asset.Name,
				NewSize: asset.Size,
				Delta:   asset.Size,
			})

			continue
		}

		if previous.Size != asset.Size {
			result.Changed = append(result.Changed, Change{
				Name:    asset.Name,
				OldSize: previous.Size,
				NewSize: asset.Size,
				Delta:   asset.Size - previous.Size,
			})
		}
	}

	for _, asset := range oldAssets {
		if seen[asset.Name] {
			continue
		}

		result.Removed = append(result.Removed, Change{
			Name:    asset.Name,
			OldSize: asset.Size,
			Delta:   -asset.Size,
		})
	}

	sortChanges(result.Added)
	sortChanges(result.Removed)
	sortChanges(result.Changed)

	return result
}

// sortChanges orders by absolute delta descending, then by name so the
// output is deterministic.
func sortChanges(changes []Change) {
	sort.Slice(changes, func(i, j int) bool {
		left, right := abs(changes[i].Delta), abs(changes[j].Delta)
		if left != right {
			return left > right
		}

		return changes[i].Name < changes[j].Name
	})
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}

	return v
}

// Payloads computes a line-level textual diff between two raw report
// payloads. Equal runs are dropped so only the changed lines remain.
func Payloads(oldPayload, newPayload []byte) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = diffTimeout

	src, dst, lines := dmp.DiffLinesToChars(string(oldPayload), string(newPayload))

	diffs := dmp.DiffMain(src, dst, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)
	diffs = dmp.DiffCleanupMerge(diffs)

	filtered := diffs[:0]

	for _, d := range diffs {
		if d.Type != diffmatchpatch.DiffEqual {
			filtered = append(filtered, d)
		}
	}

	return filtered
}
