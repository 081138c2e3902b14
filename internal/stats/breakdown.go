package stats

import (
	"sort"

	"github.com/src-d/enry/v2"
)

// classOther groups assets enry cannot classify (source maps, licenses,
// hashed chunks without a meaningful extension).
const classOther = "other"

// ClassTotal aggregates the assets of one language/type class.
type ClassTotal struct {
	Class string
	Count int
	Size  int64
}

// Breakdown groups assets by the language enry detects from the file name,
// largest total first. Bundle output is mostly JavaScript and CSS, but
// analyzer stats also list maps, fonts, and licenses worth separating.
func Breakdown(assets []Asset) []ClassTotal {
	totals := make(map[string]*ClassTotal)

	for _, asset := range assets {
		class, _ := enry.GetLanguageByExtension(asset.Name)
		if class == "" {
			class = classOther
		}

		entry, found := totals[class]
		if !found {
			entry = &ClassTotal{Class: class}
			totals[class] = entry
		}

		entry.Count++
		entry.Size += asset.Size
	}

	result := make([]ClassTotal, 0, len(totals))
	for _, entry := range totals {
		result = append(result, *entry)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Size != result[j].Size {
			return result[i].Size > result[j].Size
		}

		return result[i].Class < result[j].Class
	})

	return result
}
