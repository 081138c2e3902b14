package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"
)

// Format names the stored representations a report may have.
const (
	FormatJSON = "json"
	FormatHTML = "html"
)

// ErrInvalidName rejects report names that would escape the store directory.
var ErrInvalidName = errors.New("invalid report name")

// Report is one catalog entry: the merged view of the .json and .html
// files sharing a base name. Date and Size come from the JSON file when it
// exists, else from the HTML file.
type Report struct {
	Name    string    `json:"name"`
	Date    time.Time `json:"date"`
	Size    int64     `json:"size"`
	Formats []string  `json:"formats"`
}

// List enumerates the store directory and merges files into reports,
// newest first. The directory is re-read on every call: the catalog has no
// cache, so it is always consistent with the filesystem at read time. An
// empty or missing directory yields an empty list; only an unreadable
// directory is an error.
func List(dir string) ([]Report, error) {
	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return []Report{}, nil
		}

		return nil, fmt.Errorf("read reports directory: %w", readErr)
	}

	merged := make(map[string]*Report)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".json" && ext != ".html" {
			continue
		}

		info, infoErr := entry.Info()
		if infoErr != nil {
			// The file vanished between ReadDir and Stat; a concurrent
			// cleanup is not a listing failure.
			continue
		}

		base := strings.TrimSuffix(entry.Name(), ext)

		item, found := merged[base]
		if !found {
			item = &Report{Name: base}
			merged[base] = item
		}

		if ext == ".json" {
			item.Formats = append(item.Formats, FormatJSON)
			item.Date = info.ModTime()
			item.Size = info.Size()
		} else {
			item.Formats = append(item.Formats, FormatHTML)

			if !slices.Contains(item.Formats, FormatJSON) {
				item.Date = info.ModTime()
				item.Size = info.Size()
			}
		}
	}

	reports := make([]Report, 0, len(merged))
	for _, item := range merged {
		sort.Strings(item.Formats)
		reports = append(reports, *item)
	}

	sort.Slice(reports, func(i, j int) bool {
		if !reports[i].Date.Equal(reports[j].Date) {
			return reports[i].Date.After(reports[j].Date)
		}

		return reports[i].Name < reports[j].Name
	})

	return reports, nil
}

// JSONPath resolves the JSON file for a report name inside dir.
func JSONPath(dir, name string) (string, error) {
	return resolve(dir, name, ".json")
}

// HTMLPath resolves the HTML file for a report name inside dir.
func HTMLPath(dir, name string) (string, error) {
	return resolve(dir, name, ".html")
}

func resolve(dir, name, ext string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	return filepath.Join(dir, name+ext), nil
}
